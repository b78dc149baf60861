package micheline

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Binary encoding tags.
const (
	tagInt          byte = 0x00
	tagString       byte = 0x01
	tagSeq          byte = 0x02
	tagPrim0        byte = 0x03
	tagPrim0Annots  byte = 0x04
	tagPrim1        byte = 0x05
	tagPrim1Annots  byte = 0x06
	tagPrim2        byte = 0x07
	tagPrim2Annots  byte = 0x08
	tagPrimGeneric  byte = 0x09
	tagBytes        byte = 0x0A
	maxDecodedDepth      = 1024
)

// ErrInvalidBinary is returned when the data to decode is not a valid binary
// Micheline expression.
var ErrInvalidBinary = errors.New("invalid binary Micheline")

// EncodeBinary returns the binary representation of the node.
func EncodeBinary(n *Node) ([]byte, error) {
	return appendBinary(nil, n)
}

func appendBinary(buf []byte, n *Node) ([]byte, error) {
	var err error
	switch n.Type {
	case IntNode:
		buf = append(buf, tagInt)
		buf = appendZarith(buf, n.Int)
	case StringNode:
		buf = append(buf, tagString)
		buf = appendLenPrefixed(buf, []byte(n.Str))
	case BytesNode:
		buf = append(buf, tagBytes)
		buf = appendLenPrefixed(buf, n.Bytes)
	case SeqNode:
		var inner []byte
		for _, e := range n.Seq {
			inner, err = appendBinary(inner, e)
			if err != nil {
				return nil, err
			}
		}
		buf = append(buf, tagSeq)
		buf = appendLenPrefixed(buf, inner)
	case PrimNode:
		p, ok := PrimFromString(n.Prim)
		if !ok {
			return nil, fmt.Errorf("unknown primitive %q", n.Prim)
		}
		hasAnnots := len(n.Annots) != 0
		if len(n.Args) > 2 {
			var inner []byte
			for _, a := range n.Args {
				inner, err = appendBinary(inner, a)
				if err != nil {
					return nil, err
				}
			}
			buf = append(buf, tagPrimGeneric, byte(p))
			buf = appendLenPrefixed(buf, inner)
			return appendLenPrefixed(buf, []byte(strings.Join(n.Annots, " "))), nil
		}
		tag := tagPrim0 + byte(2*len(n.Args))
		if hasAnnots {
			tag++
		}
		buf = append(buf, tag, byte(p))
		for _, a := range n.Args {
			buf, err = appendBinary(buf, a)
			if err != nil {
				return nil, err
			}
		}
		if hasAnnots {
			buf = appendLenPrefixed(buf, []byte(strings.Join(n.Annots, " ")))
		}
	default:
		return nil, fmt.Errorf("unknown node type %d", n.Type)
	}
	return buf, nil
}

func appendLenPrefixed(buf []byte, data []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

// appendZarith appends the variable-length signed encoding of i: the first
// byte carries the sign bit and six value bits, the following ones seven
// value bits each, the high bit of every byte marks continuation.
func appendZarith(buf []byte, i *big.Int) []byte {
	abs := new(big.Int).Abs(i)
	first := byte(new(big.Int).And(abs, big.NewInt(0x3f)).Uint64())
	if i.Sign() < 0 {
		first |= 0x40
	}
	abs.Rsh(abs, 6)
	if abs.Sign() != 0 {
		first |= 0x80
	}
	buf = append(buf, first)
	for abs.Sign() != 0 {
		b := byte(new(big.Int).And(abs, big.NewInt(0x7f)).Uint64())
		abs.Rsh(abs, 7)
		if abs.Sign() != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
	}
	return buf
}

// DecodeBinary decodes a single expression which must span the whole data.
func DecodeBinary(data []byte) (*Node, error) {
	r := &binReader{data: data}
	n, err := r.node(0)
	if err != nil {
		return nil, err
	}
	if r.off != len(r.data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidBinary, len(r.data)-r.off)
	}
	return n, nil
}

type binReader struct {
	data []byte
	off  int
}

func (r *binReader) byte() (byte, error) {
	if r.off >= len(r.data) {
		return 0, fmt.Errorf("%w: unexpected end of data", ErrInvalidBinary)
	}
	b := r.data[r.off]
	r.off++
	return b, nil
}

func (r *binReader) lenPrefixed() ([]byte, error) {
	if len(r.data)-r.off < 4 {
		return nil, fmt.Errorf("%w: unexpected end of data", ErrInvalidBinary)
	}
	l := int(binary.BigEndian.Uint32(r.data[r.off:]))
	r.off += 4
	if l < 0 || len(r.data)-r.off < l {
		return nil, fmt.Errorf("%w: length %d is out of bounds", ErrInvalidBinary, l)
	}
	res := r.data[r.off : r.off+l]
	r.off += l
	return res, nil
}

func (r *binReader) zarith() (*big.Int, error) {
	b, err := r.byte()
	if err != nil {
		return nil, err
	}
	neg := b&0x40 != 0
	res := big.NewInt(int64(b & 0x3f))
	shift := uint(6)
	for b&0x80 != 0 {
		b, err = r.byte()
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return nil, fmt.Errorf("%w: non-canonical integer", ErrInvalidBinary)
		}
		res.Or(res, new(big.Int).Lsh(big.NewInt(int64(b&0x7f)), shift))
		shift += 7
	}
	if neg {
		res.Neg(res)
	}
	return res, nil
}

func (r *binReader) prim() (string, error) {
	b, err := r.byte()
	if err != nil {
		return "", err
	}
	p := Prim(b)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: unknown primitive 0x%02x", ErrInvalidBinary, b)
	}
	return p.String(), nil
}

func (r *binReader) annots() ([]string, error) {
	a, err := r.lenPrefixed()
	if err != nil || len(a) == 0 {
		return nil, err
	}
	return strings.Split(string(a), " "), nil
}

func (r *binReader) node(depth int) (*Node, error) {
	if depth > maxDecodedDepth {
		return nil, fmt.Errorf("%w: nesting is too deep", ErrInvalidBinary)
	}
	tag, err := r.byte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagInt:
		i, err := r.zarith()
		if err != nil {
			return nil, err
		}
		return &Node{Type: IntNode, Int: i}, nil
	case tagString:
		s, err := r.lenPrefixed()
		if err != nil {
			return nil, err
		}
		return NewString(string(s)), nil
	case tagBytes:
		b, err := r.lenPrefixed()
		if err != nil {
			return nil, err
		}
		return NewBytes(append([]byte{}, b...)), nil
	case tagSeq:
		inner, err := r.lenPrefixed()
		if err != nil {
			return nil, err
		}
		sub := &binReader{data: inner}
		seq := []*Node{}
		for sub.off < len(sub.data) {
			e, err := sub.node(depth + 1)
			if err != nil {
				return nil, err
			}
			seq = append(seq, e)
		}
		return NewSeq(seq...), nil
	case tagPrim0, tagPrim0Annots, tagPrim1, tagPrim1Annots, tagPrim2, tagPrim2Annots:
		name, err := r.prim()
		if err != nil {
			return nil, err
		}
		n := NewPrim(name)
		for i := 0; i < int(tag-tagPrim0)/2; i++ {
			a, err := r.node(depth + 1)
			if err != nil {
				return nil, err
			}
			n.Args = append(n.Args, a)
		}
		if (tag-tagPrim0)%2 == 1 {
			n.Annots, err = r.annots()
			if err != nil {
				return nil, err
			}
		}
		return n, nil
	case tagPrimGeneric:
		name, err := r.prim()
		if err != nil {
			return nil, err
		}
		inner, err := r.lenPrefixed()
		if err != nil {
			return nil, err
		}
		n := NewPrim(name)
		sub := &binReader{data: inner}
		for sub.off < len(sub.data) {
			a, err := sub.node(depth + 1)
			if err != nil {
				return nil, err
			}
			n.Args = append(n.Args, a)
		}
		n.Annots, err = r.annots()
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: unknown tag 0x%02x", ErrInvalidBinary, tag)
	}
}
