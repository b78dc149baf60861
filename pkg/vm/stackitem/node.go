package stackitem

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/nspcc-dev/michelson-go/pkg/crypto/bls"
	"github.com/nspcc-dev/michelson-go/pkg/crypto/keys"
	"github.com/nspcc-dev/michelson-go/pkg/encoding/address"
	"github.com/nspcc-dev/michelson-go/pkg/micheline"
)

// MaxMutez is the maximum mutez amount.
const MaxMutez = math.MaxInt64

// FromNode converts a data node into an item of the given type checking
// that the node is a valid value of the type. Both readable (strings) and
// optimized (bytes and integers) forms of addresses, keys, signatures,
// chain ids and timestamps are accepted.
func FromNode(t Type, n *micheline.Node) (*Item, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return fromNode(t, n)
}

func badValue(t Type, n *micheline.Node) error {
	return fmt.Errorf("%w: %s is not a valid %s", ErrInvalidValue, n, t)
}

func fromNode(t Type, n *micheline.Node) (*Item, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: no value for %s", ErrInvalidValue, t)
	}
	switch t.Kind {
	case IntT, NatT, MutezT:
		if n.Type != micheline.IntNode {
			return nil, badValue(t, n)
		}
		if (t.Kind != IntT && n.Int.Sign() < 0) ||
			(t.Kind == MutezT && n.Int.Cmp(new(big.Int).SetUint64(MaxMutez)) > 0) {
			return nil, badValue(t, n)
		}
		return New(t, Literal(n.Int.String())), nil
	case TimestampT:
		switch n.Type {
		case micheline.IntNode:
			return NewTimestamp(n.Int), nil
		case micheline.StringNode:
			ts, err := time.Parse(time.RFC3339, n.Str)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrInvalidValue, err)
			}
			return NewTimestamp(big.NewInt(ts.Unix())), nil
		}
	case StringT:
		if n.Type == micheline.StringNode {
			return NewString(n.Str), nil
		}
	case BytesT:
		if n.Type == micheline.BytesNode {
			return NewBytes(n.Bytes), nil
		}
	case BoolT:
		switch {
		case n.IsPrim("True") && len(n.Args) == 0:
			return NewBool(true), nil
		case n.IsPrim("False") && len(n.Args) == 0:
			return NewBool(false), nil
		}
	case UnitT:
		if n.IsPrim("Unit") && len(n.Args) == 0 {
			return NewUnit(), nil
		}
	case PairT:
		args, ok := combArgs(n)
		if !ok {
			return nil, badValue(t, n)
		}
		a, err := fromNode(t.Args[0], args[0])
		if err != nil {
			return nil, err
		}
		b, err := fromNode(t.Args[1], args[1])
		if err != nil {
			return nil, err
		}
		return New(t, a, b), nil
	case OptionT:
		switch {
		case n.IsPrim("None") && len(n.Args) == 0:
			return NewNone(t.Args[0]), nil
		case n.IsPrim("Some") && len(n.Args) == 1:
			x, err := fromNode(t.Args[0], n.Args[0])
			if err != nil {
				return nil, err
			}
			return New(t, TagSome, x), nil
		}
	case OrT:
		switch {
		case n.IsPrim("Left") && len(n.Args) == 1:
			x, err := fromNode(t.Args[0], n.Args[0])
			if err != nil {
				return nil, err
			}
			return New(t, TagLeft, x), nil
		case n.IsPrim("Right") && len(n.Args) == 1:
			x, err := fromNode(t.Args[1], n.Args[0])
			if err != nil {
				return nil, err
			}
			return New(t, TagRight, x), nil
		}
	case ListT, SetT:
		if n.Type != micheline.SeqNode {
			break
		}
		items := make([]*Item, len(n.Seq))
		for i := range n.Seq {
			x, err := fromNode(t.Args[0], n.Seq[i])
			if err != nil {
				return nil, err
			}
			items[i] = x
		}
		if t.Kind == ListT {
			return NewList(t.Args[0], items), nil
		}
		res := NewSet(t.Args[0], items)
		if res.Len() != len(items) {
			return nil, fmt.Errorf("%w: duplicate set elements", ErrInvalidValue)
		}
		return res, nil
	case MapT, BigMapT:
		if n.Type != micheline.SeqNode {
			break
		}
		entries := make([]MapElement, len(n.Seq))
		for i, e := range n.Seq {
			if !e.IsPrim("Elt") || len(e.Args) != 2 {
				return nil, badValue(t, e)
			}
			k, err := fromNode(t.Args[0], e.Args[0])
			if err != nil {
				return nil, err
			}
			v, err := fromNode(t.Args[1], e.Args[1])
			if err != nil {
				return nil, err
			}
			entries[i] = MapElement{Key: k, Value: v}
		}
		res := newMap(t.Kind, t.Args[0], t.Args[1], entries)
		if res.Len() != len(entries) {
			return nil, fmt.Errorf("%w: duplicate map keys", ErrInvalidValue)
		}
		return res, nil
	case LambdaT:
		if n.Type == micheline.SeqNode {
			return NewLambda(t.Args[0], t.Args[1], n.Copy().Seq), nil
		}
	case AddressT, ContractT:
		s, err := decodeReadable(n, address.DecodeAddress, address.EncodeAddress)
		if err != nil {
			return nil, badValue(t, n)
		}
		if t.Kind == AddressT {
			return NewAddress(s), nil
		}
		return NewContract(s, t.Args[0]), nil
	case KeyHashT:
		s, err := decodeReadable(n, address.DecodeKeyHash, address.EncodeKeyHash)
		if err != nil {
			return nil, badValue(t, n)
		}
		return NewKeyHash(s), nil
	case KeyT:
		var (
			k   *keys.PublicKey
			err error
		)
		switch n.Type {
		case micheline.StringNode:
			k, err = keys.NewPublicKeyFromString(n.Str)
		case micheline.BytesNode:
			k, err = keys.NewPublicKeyFromBytes(n.Bytes)
		default:
			return nil, badValue(t, n)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidValue, err)
		}
		return NewKey(k.String()), nil
	case SignatureT:
		s, err := decodeReadable(n, address.DecodeSignature, address.EncodeSignature)
		if err != nil {
			return nil, badValue(t, n)
		}
		return NewSignature(s), nil
	case ChainIDT:
		switch n.Type {
		case micheline.StringNode:
			b, err := address.DecodeChainID(n.Str)
			if err != nil {
				return nil, badValue(t, n)
			}
			return NewChainID(b), nil
		case micheline.BytesNode:
			if len(n.Bytes) == address.ChainID.Size {
				return NewChainID(n.Bytes), nil
			}
		}
	case BLS12381G1T:
		if n.Type == micheline.BytesNode {
			if _, err := bls.G1FromBytes(n.Bytes); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrInvalidValue, err)
			}
			return NewBLS(t.Kind, n.Bytes), nil
		}
	case BLS12381G2T:
		if n.Type == micheline.BytesNode {
			if _, err := bls.G2FromBytes(n.Bytes); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrInvalidValue, err)
			}
			return NewBLS(t.Kind, n.Bytes), nil
		}
	case BLS12381FrT:
		switch n.Type {
		case micheline.BytesNode:
			if _, err := bls.FrFromBytes(n.Bytes); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrInvalidValue, err)
			}
			return NewBLS(t.Kind, n.Bytes), nil
		case micheline.IntNode:
			return NewBLS(t.Kind, bls.FrFromBigInt(n.Int).Bytes()), nil
		}
	default:
		return nil, fmt.Errorf("%w: %s values can't be given as literals", ErrInvalidValue, t)
	}
	return nil, badValue(t, n)
}

// combArgs returns two arguments of a Pair node or a sequence, longer combs
// are folded to the right.
func combArgs(n *micheline.Node) ([]*micheline.Node, bool) {
	var args []*micheline.Node
	switch {
	case n.IsPrim("Pair"):
		args = n.Args
	case n.Type == micheline.SeqNode:
		args = n.Seq
	}
	if len(args) < 2 {
		return nil, false
	}
	if len(args) == 2 {
		return args, true
	}
	return []*micheline.Node{args[0], micheline.NewPrim("Pair", args[1:]...)}, true
}

func decodeReadable(n *micheline.Node, decode func(string) ([]byte, error), encode func([]byte) (string, error)) (string, error) {
	switch n.Type {
	case micheline.StringNode:
		_, err := decode(n.Str)
		return n.Str, err
	case micheline.BytesNode:
		return encode(n.Bytes)
	default:
		return "", ErrInvalidValue
	}
}

// ToNode renders the item as a data node in the readable form.
func (i *Item) ToNode() *micheline.Node {
	return i.toNode(false)
}

// ToOptimizedNode renders the item as a data node in the optimized form
// used for serialization: addresses, keys, signatures and chain ids become
// bytes and timestamps become integers.
func (i *Item) ToOptimizedNode() *micheline.Node {
	return i.toNode(true)
}

func (i *Item) toNode(optimized bool) *micheline.Node {
	l, _ := i.Literal()
	switch i.typ.Kind {
	case IntT, NatT, MutezT:
		v, _ := i.TryInteger()
		return micheline.NewInt(v)
	case TimestampT:
		v, _ := i.TryInteger()
		if !optimized && v.IsInt64() {
			ts := time.Unix(v.Int64(), 0).UTC()
			if ts.Year() >= 1 && ts.Year() <= 9999 {
				return micheline.NewString(ts.Format(time.RFC3339))
			}
		}
		return micheline.NewInt(v)
	case StringT:
		return micheline.NewString(string(l))
	case BytesT, BLS12381G1T, BLS12381G2T, BLS12381FrT, SaplingTransactionT, SaplingStateT:
		b, _ := hex.DecodeString(string(l))
		return micheline.NewBytes(b)
	case ChainIDT:
		b, _ := hex.DecodeString(string(l))
		if optimized {
			return micheline.NewBytes(b)
		}
		s, _ := address.EncodeChainID(b)
		return micheline.NewString(s)
	case BoolT, UnitT:
		return micheline.NewPrim(string(l))
	case AddressT, ContractT:
		return readableOrBytes(string(l), optimized, address.DecodeAddress)
	case KeyHashT:
		return readableOrBytes(string(l), optimized, address.DecodeKeyHash)
	case KeyT:
		return readableOrBytes(string(l), optimized, address.DecodeKey)
	case SignatureT:
		return readableOrBytes(string(l), optimized, address.DecodeSignature)
	case PairT:
		return micheline.NewPrim("Pair", i.Child(0).toNode(optimized), i.Child(1).toNode(optimized))
	case OptionT, OrT:
		if i.Tag() == TagNone {
			return micheline.NewPrim(string(TagNone))
		}
		return micheline.NewPrim(string(i.Tag()), i.Unwrap().toNode(optimized))
	case ListT, SetT:
		items := i.Items()
		seq := make([]*micheline.Node, len(items))
		for j := range items {
			seq[j] = items[j].toNode(optimized)
		}
		return micheline.NewSeq(seq...)
	case MapT, BigMapT:
		entries := i.MapEntries()
		seq := make([]*micheline.Node, len(entries))
		for j := range entries {
			seq[j] = micheline.NewPrim("Elt", entries[j].Key.toNode(optimized), entries[j].Value.toNode(optimized))
		}
		return micheline.NewSeq(seq...)
	case LambdaT:
		c, _ := i.Code()
		return micheline.NewSeq(Code(c).copy()...)
	case TicketT:
		return micheline.NewPrim("Pair", i.Child(0).toNode(optimized),
			micheline.NewPrim("Pair", i.Child(1).toNode(optimized), i.Child(2).toNode(optimized)))
	case OperationT:
		args := make([]*micheline.Node, 0, len(i.value)-1)
		for _, c := range i.Items() {
			args = append(args, c.toNode(optimized))
		}
		if l == OpTransfer {
			return micheline.NewPrim("Transfer_tokens", args...)
		}
		return micheline.NewPrim("Set_delegate", args...)
	}
	return micheline.NewPrim(string(l))
}

func (c Code) copy() []*micheline.Node {
	res := make([]*micheline.Node, len(c))
	for i := range c {
		res[i] = c[i].Copy()
	}
	return res
}

func readableOrBytes(s string, optimized bool, decode func(string) ([]byte, error)) *micheline.Node {
	if optimized {
		if b, err := decode(s); err == nil {
			return micheline.NewBytes(b)
		}
	}
	return micheline.NewString(s)
}

// Zero returns the default value of a scalar kind, nil if the kind has
// none.
func Zero(k Kind) *Item {
	switch k {
	case IntT:
		return NewInt(new(big.Int))
	case NatT:
		return NewNat(new(big.Int))
	case MutezT:
		return NewMutez(new(big.Int))
	case TimestampT:
		return NewTimestamp(new(big.Int))
	case StringT:
		return NewString("")
	case BytesT:
		return NewBytes(nil)
	case BoolT:
		return NewBool(false)
	case UnitT:
		return NewUnit()
	default:
		return nil
	}
}

// FromTypedNode converts a node carrying both the kind and the value: the
// primitive is the kind keyword, a pair takes two such nodes as arguments,
// scalar kinds take a single literal argument (none for the Zero value) and
// other kinds take their type arguments followed by a data node.
func FromTypedNode(n *micheline.Node) (*Item, error) {
	if n == nil || n.Type != micheline.PrimNode {
		return nil, fmt.Errorf("%w: %s is not a typed value", ErrInvalidValue, n)
	}
	k, err := FromString(n.Prim)
	if err != nil || k == AnyT {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidType, n.Prim)
	}
	switch {
	case k == PairT:
		if len(n.Args) != 2 {
			return nil, fmt.Errorf("%w: pair expects two values", ErrInvalidValue)
		}
		a, err := FromTypedNode(n.Args[0])
		if err != nil {
			return nil, err
		}
		b, err := FromTypedNode(n.Args[1])
		if err != nil {
			return nil, err
		}
		return NewPair(a, b), nil
	case len(n.Args) == 0 && k.Arity() == 0:
		if it := Zero(k); it != nil {
			return it, nil
		}
		return nil, fmt.Errorf("%w: %s has no default value", ErrInvalidValue, k)
	case len(n.Args) != k.Arity()+1:
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d", ErrInvalidValue, k, k.Arity()+1, len(n.Args))
	}
	tn := micheline.NewPrim(n.Prim, n.Args[:k.Arity()]...)
	t, err := TypeFromNode(tn)
	if err != nil {
		return nil, err
	}
	return FromNode(t, n.Args[k.Arity()])
}
