package micheline

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrInvalidJSON is returned when the JSON given doesn't represent a valid
// Micheline expression.
var ErrInvalidJSON = errors.New("invalid Micheline JSON")

type jsonNode struct {
	Prim   string            `json:"prim,omitempty"`
	Args   []json.RawMessage `json:"args,omitempty"`
	Annots []string          `json:"annots,omitempty"`
	Int    *string           `json:"int,omitempty"`
	String *string           `json:"string,omitempty"`
	Bytes  *string           `json:"bytes,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (n *Node) MarshalJSON() ([]byte, error) {
	switch n.Type {
	case IntNode:
		return json.Marshal(map[string]string{"int": n.Int.String()})
	case StringNode:
		return json.Marshal(map[string]string{"string": n.Str})
	case BytesNode:
		return json.Marshal(map[string]string{"bytes": hex.EncodeToString(n.Bytes)})
	case SeqNode:
		seq := n.Seq
		if seq == nil {
			seq = []*Node{}
		}
		return json.Marshal(seq)
	case PrimNode:
		var out = struct {
			Prim   string   `json:"prim"`
			Args   []*Node  `json:"args,omitempty"`
			Annots []string `json:"annots,omitempty"`
		}{n.Prim, n.Args, n.Annots}
		return json.Marshal(out)
	default:
		return nil, fmt.Errorf("unknown node type %d", n.Type)
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (n *Node) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrInvalidJSON
	}
	if data[0] == '[' {
		var seq []*Node
		if err := json.Unmarshal(data, &seq); err != nil {
			return err
		}
		*n = *NewSeq(seq...)
		return nil
	}
	var jn jsonNode
	if err := json.Unmarshal(data, &jn); err != nil {
		return err
	}
	return n.fromJSONNode(&jn)
}

func (n *Node) fromJSONNode(jn *jsonNode) error {
	switch {
	case jn.Int != nil:
		i, ok := new(big.Int).SetString(*jn.Int, 10)
		if !ok {
			return fmt.Errorf("%w: bad integer %q", ErrInvalidJSON, *jn.Int)
		}
		*n = Node{Type: IntNode, Int: i}
	case jn.String != nil:
		*n = Node{Type: StringNode, Str: *jn.String}
	case jn.Bytes != nil:
		b, err := hex.DecodeString(strings.TrimPrefix(*jn.Bytes, "0x"))
		if err != nil {
			return fmt.Errorf("%w: bad bytes: %s", ErrInvalidJSON, err)
		}
		*n = Node{Type: BytesNode, Bytes: b}
	case jn.Prim != "":
		args := make([]*Node, len(jn.Args))
		for i := range jn.Args {
			args[i] = new(Node)
			if err := args[i].UnmarshalJSON(jn.Args[i]); err != nil {
				return err
			}
		}
		if len(args) == 0 {
			args = nil
		}
		*n = Node{Type: PrimNode, Prim: jn.Prim, Args: args, Annots: jn.Annots}
	default:
		return fmt.Errorf("%w: no prim, int, string or bytes", ErrInvalidJSON)
	}
	return nil
}

// ParseJSON decodes a single expression from its JSON representation.
func ParseJSON(data []byte) (*Node, error) {
	n := new(Node)
	if err := n.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return n, nil
}
