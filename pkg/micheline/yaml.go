package micheline

import (
	"encoding/hex"
	"fmt"

	"gopkg.in/yaml.v3"
)

type yamlNode struct {
	Prim   string   `yaml:"prim"`
	Args   []*Node  `yaml:"args"`
	Annots []string `yaml:"annots"`
	Int    *string  `yaml:"int"`
	String *string  `yaml:"string"`
	Bytes  *string  `yaml:"bytes"`
}

// UnmarshalYAML implements the yaml.Unmarshaler interface. Besides the
// mapping form mirroring JSON, a plain scalar is accepted as a shorthand for
// a primitive without arguments (so `nat` is the same as `{prim: nat}`) and
// a YAML sequence is a Micheline sequence.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Value == "" {
			return fmt.Errorf("%w: empty primitive", ErrInvalidJSON)
		}
		*n = *NewPrim(value.Value)
		return nil
	case yaml.SequenceNode:
		var seq []*Node
		if err := value.Decode(&seq); err != nil {
			return err
		}
		*n = *NewSeq(seq...)
		return nil
	case yaml.MappingNode:
		var yn yamlNode
		if err := value.Decode(&yn); err != nil {
			return err
		}
		if yn.Prim != "" {
			*n = Node{Type: PrimNode, Prim: yn.Prim, Args: yn.Args, Annots: yn.Annots}
			return nil
		}
		return n.fromJSONNode(&jsonNode{Int: yn.Int, String: yn.String, Bytes: yn.Bytes})
	default:
		return fmt.Errorf("%w: unexpected YAML node kind %d", ErrInvalidJSON, value.Kind)
	}
}

// MarshalYAML implements the yaml.Marshaler interface.
func (n *Node) MarshalYAML() (interface{}, error) {
	switch n.Type {
	case IntNode:
		return map[string]string{"int": n.Int.String()}, nil
	case StringNode:
		return map[string]string{"string": n.Str}, nil
	case BytesNode:
		return map[string]string{"bytes": hex.EncodeToString(n.Bytes)}, nil
	case SeqNode:
		return n.Seq, nil
	default:
		if len(n.Args) == 0 && len(n.Annots) == 0 {
			return n.Prim, nil
		}
		return struct {
			Prim   string   `yaml:"prim"`
			Args   []*Node  `yaml:"args,omitempty"`
			Annots []string `yaml:"annots,omitempty"`
		}{n.Prim, n.Args, n.Annots}, nil
	}
}
