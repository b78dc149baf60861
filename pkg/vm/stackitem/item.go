package stackitem

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/nspcc-dev/michelson-go/pkg/micheline"
)

// Elem is a single element of the item payload.
type Elem interface {
	elem()
}

// Literal is a scalar value in its textual form: decimal numbers, hex
// without prefix for byte-like kinds, True/False, Unit and tags (Some, None,
// Left, Right) of options and unions.
type Literal string

// Code is the body of a lambda.
type Code []*micheline.Node

func (Literal) elem() {}
func (Code) elem()    {}
func (*Item) elem()   {}

// Tags of option and or payloads.
const (
	TagSome  Literal = "Some"
	TagNone  Literal = "None"
	TagLeft  Literal = "Left"
	TagRight Literal = "Right"
)

// Operation payload tags.
const (
	OpTransfer Literal = "transfer"
	OpDelegate Literal = "delegate"
)

// Item represents the typed value that is pushed on the stack. Items are
// never modified after creation, operations produce new items.
type Item struct {
	typ   Type
	value []Elem
}

var (
	// ErrInvalidValue is returned when the value doesn't match its type.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidConversion is returned upon an attempt to access the payload
	// of an item as something it's not.
	ErrInvalidConversion = errors.New("invalid conversion")
)

// mkInvConversion creates a conversion error with additional metadata (from and
// to kinds).
func mkInvConversion(from *Item, to string) error {
	return fmt.Errorf("%w: %s/%s", ErrInvalidConversion, from.typ.Kind, to)
}

// New creates an item of the given type with the given payload. It doesn't
// check the payload, use specific constructors or FromNode where possible.
func New(typ Type, value ...Elem) *Item {
	return &Item{typ: typ, value: value}
}

// Make tries to make an appropriate stack item from the provided value.
// It will panic if it's not possible.
func Make(v any) *Item {
	switch val := v.(type) {
	case int:
		return NewInt(big.NewInt(int64(val)))
	case int64:
		return NewInt(big.NewInt(val))
	case uint64:
		return NewNat(new(big.Int).SetUint64(val))
	case *big.Int:
		return NewInt(val)
	case string:
		return NewString(val)
	case []byte:
		return NewBytes(val)
	case bool:
		return NewBool(val)
	case *Item:
		return val
	case nil:
		return NewUnit()
	default:
		panic(fmt.Sprintf("invalid stack item type: %v (%T)", val, val))
	}
}

// NewInt creates an int item.
func NewInt(i *big.Int) *Item {
	return New(Int, Literal(i.String()))
}

// NewNat creates a nat item, it panics if the value is negative.
func NewNat(i *big.Int) *Item {
	if i.Sign() < 0 {
		panic("negative nat")
	}
	return New(Nat, Literal(i.String()))
}

// NewMutez creates a mutez item, it panics if the value is negative.
func NewMutez(i *big.Int) *Item {
	if i.Sign() < 0 {
		panic("negative mutez")
	}
	return New(Mutez, Literal(i.String()))
}

// NewTimestamp creates a timestamp item from Unix seconds.
func NewTimestamp(i *big.Int) *Item {
	return New(Timestamp, Literal(i.String()))
}

// NewString creates a string item.
func NewString(s string) *Item {
	return New(String, Literal(s))
}

// NewBytes creates a bytes item.
func NewBytes(b []byte) *Item {
	return newHex(Bytes, b)
}

// NewChainID creates a chain_id item from its 4-byte form.
func NewChainID(b []byte) *Item {
	return newHex(ChainID, b)
}

// NewBLS creates an item of one of bls12_381 kinds from its binary form.
func NewBLS(k Kind, b []byte) *Item {
	return newHex(NewType(k), b)
}

func newHex(t Type, b []byte) *Item {
	return New(t, Literal(hex.EncodeToString(b)))
}

// NewBool creates a bool item.
func NewBool(b bool) *Item {
	if b {
		return New(Bool, Literal("True"))
	}
	return New(Bool, Literal("False"))
}

// NewUnit creates a unit item.
func NewUnit() *Item {
	return New(Unit, Literal("Unit"))
}

// NewAddress creates an address item, the address isn't checked.
func NewAddress(s string) *Item {
	return New(Address, Literal(s))
}

// NewKeyHash creates a key_hash item, the hash isn't checked.
func NewKeyHash(s string) *Item {
	return New(KeyHash, Literal(s))
}

// NewKey creates a key item, the key isn't checked.
func NewKey(s string) *Item {
	return New(Key, Literal(s))
}

// NewSignature creates a signature item, the signature isn't checked.
func NewSignature(s string) *Item {
	return New(Signature, Literal(s))
}

// NewContract creates a contract item for the address with the given
// parameter type.
func NewContract(addr string, param Type) *Item {
	return New(NewType(ContractT, param), Literal(addr))
}

// NewPair creates a pair item.
func NewPair(a, b *Item) *Item {
	return New(NewType(PairT, a.typ, b.typ), a, b)
}

// NewSome creates a Some option item.
func NewSome(x *Item) *Item {
	return New(NewType(OptionT, x.typ), TagSome, x)
}

// NewNone creates a None option item of the given element type.
func NewNone(t Type) *Item {
	return New(NewType(OptionT, t), TagNone)
}

// NewLeft creates a Left union item with the given right branch type.
func NewLeft(x *Item, right Type) *Item {
	return New(NewType(OrT, x.typ, right), TagLeft, x)
}

// NewRight creates a Right union item with the given left branch type.
func NewRight(left Type, x *Item) *Item {
	return New(NewType(OrT, left, x.typ), TagRight, x)
}

// NewList creates a list of elements of type t.
func NewList(t Type, items []*Item) *Item {
	return New(NewType(ListT, t), itemsToElems(items)...)
}

// NewSet creates a set of elements of type t. Elements are sorted and
// duplicates are removed.
func NewSet(t Type, items []*Item) *Item {
	sorted := make([]*Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return Compare(sorted[i], sorted[j]) < 0 })
	var res []*Item
	for i := range sorted {
		if i == 0 || Compare(sorted[i-1], sorted[i]) != 0 {
			res = append(res, sorted[i])
		}
	}
	return New(NewType(SetT, t), itemsToElems(res)...)
}

// MapElement is a key-value pair of a map.
type MapElement struct {
	Key   *Item
	Value *Item
}

// NewMap creates a map. Entries are sorted by keys, the last value wins for
// duplicate keys.
func NewMap(k, v Type, entries []MapElement) *Item {
	return newMap(MapT, k, v, entries)
}

// NewBigMap creates a big_map, see NewMap.
func NewBigMap(k, v Type, entries []MapElement) *Item {
	return newMap(BigMapT, k, v, entries)
}

func newMap(kind Kind, k, v Type, entries []MapElement) *Item {
	sorted := make([]MapElement, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return Compare(sorted[i].Key, sorted[j].Key) < 0 })
	var elems []Elem
	for i := range sorted {
		if i+1 < len(sorted) && Compare(sorted[i].Key, sorted[i+1].Key) == 0 {
			continue
		}
		elems = append(elems, NewPair(sorted[i].Key, sorted[i].Value))
	}
	return New(NewType(kind, k, v), elems...)
}

// NewLambda creates a lambda from arg to ret type with the given body.
func NewLambda(arg, ret Type, code []*micheline.Node) *Item {
	return New(NewType(LambdaT, arg, ret), Code(code))
}

// NewTransfer creates a transfer operation.
func NewTransfer(param, amount, contract *Item) *Item {
	return New(Operation, OpTransfer, param, amount, contract)
}

// NewSetDelegate creates a delegation operation, delegate is an option of
// key_hash.
func NewSetDelegate(delegate *Item) *Item {
	return New(Operation, OpDelegate, delegate)
}

// NewTicket creates a ticket issued by ticketer address.
func NewTicket(ticketer string, content *Item, amount *big.Int) *Item {
	return New(NewType(TicketT, content.typ), NewAddress(ticketer), content, NewNat(amount))
}

func itemsToElems(items []*Item) []Elem {
	res := make([]Elem, len(items))
	for i := range items {
		res[i] = items[i]
	}
	return res
}

// Type returns the type of the item.
func (i *Item) Type() Type { return i.typ }

// Kind returns the kind of the item.
func (i *Item) Kind() Kind { return i.typ.Kind }

// Len returns the number of payload elements.
func (i *Item) Len() int { return len(i.value) }

// Value returns a copy of the payload.
func (i *Item) Value() []Elem {
	res := make([]Elem, len(i.value))
	copy(res, i.value)
	return res
}

// Literal returns the first payload element as a literal.
func (i *Item) Literal() (Literal, error) {
	if len(i.value) == 0 {
		return "", mkInvConversion(i, "literal")
	}
	l, ok := i.value[0].(Literal)
	if !ok {
		return "", mkInvConversion(i, "literal")
	}
	return l, nil
}

// TryInteger returns the value of numeric items (int, nat, mutez,
// timestamp).
func (i *Item) TryInteger() (*big.Int, error) {
	switch i.typ.Kind {
	case IntT, NatT, MutezT, TimestampT:
	default:
		return nil, mkInvConversion(i, "integer")
	}
	l, err := i.Literal()
	if err != nil {
		return nil, err
	}
	res, ok := new(big.Int).SetString(string(l), 10)
	if !ok {
		return nil, fmt.Errorf("%w: bad number %q", ErrInvalidValue, l)
	}
	return res, nil
}

// TryBool returns the value of a bool item.
func (i *Item) TryBool() (bool, error) {
	if i.typ.Kind != BoolT {
		return false, mkInvConversion(i, "bool")
	}
	l, err := i.Literal()
	return l == "True", err
}

// TryBytes returns the binary value of byte-like items.
func (i *Item) TryBytes() ([]byte, error) {
	switch i.typ.Kind {
	case BytesT, ChainIDT, BLS12381G1T, BLS12381G2T, BLS12381FrT, SaplingTransactionT:
	default:
		return nil, mkInvConversion(i, "bytes")
	}
	l, err := i.Literal()
	if err != nil {
		return nil, err
	}
	return hex.DecodeString(string(l))
}

// TryString returns the value of string-like items (string, address,
// key_hash, key, signature, contract).
func (i *Item) TryString() (string, error) {
	switch i.typ.Kind {
	case StringT, AddressT, KeyHashT, KeyT, SignatureT, ContractT:
	default:
		return "", mkInvConversion(i, "string")
	}
	l, err := i.Literal()
	return string(l), err
}

// Tag returns the tag of option and or items.
func (i *Item) Tag() Literal {
	if i.typ.Kind != OptionT && i.typ.Kind != OrT && i.typ.Kind != OperationT {
		return ""
	}
	l, _ := i.Literal()
	return l
}

// Child returns the n-th nested item of the payload or nil.
func (i *Item) Child(n int) *Item {
	if n >= len(i.value) {
		return nil
	}
	it, _ := i.value[n].(*Item)
	return it
}

// Unwrap returns the payload of Some, Left and Right items, nil for None.
func (i *Item) Unwrap() *Item {
	return i.Child(1)
}

// Items returns the elements of lists and sets, map elements are returned
// as pairs.
func (i *Item) Items() []*Item {
	res := make([]*Item, 0, len(i.value))
	for _, e := range i.value {
		if it, ok := e.(*Item); ok {
			res = append(res, it)
		}
	}
	return res
}

// MapEntries returns the sorted entries of map and big_map items.
func (i *Item) MapEntries() []MapElement {
	pairs := i.Items()
	res := make([]MapElement, len(pairs))
	for j := range pairs {
		res[j] = MapElement{Key: pairs[j].Child(0), Value: pairs[j].Child(1)}
	}
	return res
}

// Code returns the body of a lambda.
func (i *Item) Code() ([]*micheline.Node, error) {
	if i.typ.Kind != LambdaT || len(i.value) == 0 {
		return nil, mkInvConversion(i, "lambda")
	}
	c, ok := i.value[0].(Code)
	if !ok {
		return nil, mkInvConversion(i, "lambda")
	}
	return c, nil
}

// Dup returns a deep copy of the item.
func (i *Item) Dup() *Item {
	res := &Item{typ: i.typ, value: make([]Elem, len(i.value))}
	for j, e := range i.value {
		switch v := e.(type) {
		case *Item:
			res.value[j] = v.Dup()
		case Code:
			c := make(Code, len(v))
			for k := range v {
				c[k] = v[k].Copy()
			}
			res.value[j] = c
		default:
			res.value[j] = e
		}
	}
	return res
}

// Equals checks whether the items have the same type and payload.
func (i *Item) Equals(o *Item) bool {
	if i == o {
		return true
	}
	if o == nil || !i.typ.Equals(o.typ) || len(i.value) != len(o.value) {
		return false
	}
	for j := range i.value {
		switch v := i.value[j].(type) {
		case Literal:
			if ov, ok := o.value[j].(Literal); !ok || ov != v {
				return false
			}
		case *Item:
			if ov, ok := o.value[j].(*Item); !ok || !v.Equals(ov) {
				return false
			}
		case Code:
			ov, ok := o.value[j].(Code)
			if !ok || micheline.NewSeq(v...).String() != micheline.NewSeq(ov...).String() {
				return false
			}
		}
	}
	return true
}

// String implements the fmt.Stringer interface.
func (i *Item) String() string {
	return i.ToNode().String()
}
