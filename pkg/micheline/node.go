/*
Package micheline implements the generic expression tree used to represent
contract code, type declarations and literal data, together with its JSON,
YAML and binary encodings.
*/
package micheline

import (
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"
)

// NodeType is the type of the Micheline node.
type NodeType byte

// Possible node types.
const (
	PrimNode NodeType = iota
	IntNode
	StringNode
	BytesNode
	SeqNode
)

// String implements the fmt.Stringer interface.
func (t NodeType) String() string {
	switch t {
	case PrimNode:
		return "prim"
	case IntNode:
		return "int"
	case StringNode:
		return "string"
	case BytesNode:
		return "bytes"
	case SeqNode:
		return "seq"
	default:
		return "INVALID"
	}
}

// Node is a single Micheline expression. Depending on Type only a subset of
// fields is meaningful: Prim, Args and Annots for primitive applications, Int,
// Str or Bytes for literals and Seq for sequences.
type Node struct {
	Type   NodeType
	Prim   string
	Args   []*Node
	Annots []string
	Int    *big.Int
	Str    string
	Bytes  []byte
	Seq    []*Node
}

// NewPrim returns a primitive application node.
func NewPrim(prim string, args ...*Node) *Node {
	return &Node{Type: PrimNode, Prim: prim, Args: args}
}

// NewInt returns an integer literal node.
func NewInt(i *big.Int) *Node {
	return &Node{Type: IntNode, Int: new(big.Int).Set(i)}
}

// NewInt64 returns an integer literal node holding i.
func NewInt64(i int64) *Node {
	return &Node{Type: IntNode, Int: big.NewInt(i)}
}

// NewString returns a string literal node.
func NewString(s string) *Node {
	return &Node{Type: StringNode, Str: s}
}

// NewBytes returns a byte sequence literal node.
func NewBytes(b []byte) *Node {
	return &Node{Type: BytesNode, Bytes: b}
}

// NewSeq returns a sequence node.
func NewSeq(nodes ...*Node) *Node {
	if nodes == nil {
		nodes = []*Node{}
	}
	return &Node{Type: SeqNode, Seq: nodes}
}

// IsPrim checks whether n is an application of the given primitive.
func (n *Node) IsPrim(prim string) bool {
	return n != nil && n.Type == PrimNode && n.Prim == prim
}

// Arg returns the i-th argument of the node or nil if there is no such
// argument.
func (n *Node) Arg(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Args) {
		return nil
	}
	return n.Args[i]
}

// Block returns instructions of the block passed as the node. A sequence is
// returned as is, any other node is treated as a single-instruction block.
func (n *Node) Block() []*Node {
	if n == nil {
		return nil
	}
	if n.Type == SeqNode {
		return n.Seq
	}
	return []*Node{n}
}

// Uint returns the integer literal value of the node as an int if it's a
// non-negative integer that fits into it.
func (n *Node) Uint() (int, bool) {
	if n == nil || n.Type != IntNode || n.Int.Sign() < 0 || !n.Int.IsInt64() {
		return 0, false
	}
	v := n.Int.Int64()
	if int64(int(v)) != v {
		return 0, false
	}
	return int(v), true
}

// Copy returns a deep copy of the node.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Type: n.Type,
		Prim: n.Prim,
		Str:  n.Str,
	}
	if n.Int != nil {
		c.Int = new(big.Int).Set(n.Int)
	}
	if n.Bytes != nil {
		c.Bytes = append([]byte{}, n.Bytes...)
	}
	if n.Annots != nil {
		c.Annots = append([]string{}, n.Annots...)
	}
	c.Args = copyNodes(n.Args)
	c.Seq = copyNodes(n.Seq)
	return c
}

func copyNodes(ns []*Node) []*Node {
	if ns == nil {
		return nil
	}
	res := make([]*Node, len(ns))
	for i := range ns {
		res[i] = ns[i].Copy()
	}
	return res
}

// String renders the node in the Michelson notation.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb, false)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder, nested bool) {
	if n == nil {
		sb.WriteString("<nil>")
		return
	}
	switch n.Type {
	case IntNode:
		sb.WriteString(n.Int.String())
	case StringNode:
		sb.WriteString(strconv.Quote(n.Str))
	case BytesNode:
		sb.WriteString("0x")
		sb.WriteString(hex.EncodeToString(n.Bytes))
	case SeqNode:
		sb.WriteByte('{')
		for i := range n.Seq {
			if i != 0 {
				sb.WriteString(" ;")
			}
			sb.WriteByte(' ')
			n.Seq[i].write(sb, false)
		}
		if len(n.Seq) != 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('}')
	case PrimNode:
		wrap := nested && (len(n.Args) != 0 || len(n.Annots) != 0)
		if wrap {
			sb.WriteByte('(')
		}
		sb.WriteString(n.Prim)
		for _, a := range n.Annots {
			sb.WriteByte(' ')
			sb.WriteString(a)
		}
		for _, a := range n.Args {
			sb.WriteByte(' ')
			a.write(sb, true)
		}
		if wrap {
			sb.WriteByte(')')
		}
	}
}
