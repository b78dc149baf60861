package stackitem

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/michelson-go/pkg/micheline"
)

// Kind represents the kind of the stack item, its value is the binary
// primitive code of the type keyword.
type Kind byte

// This block defines all known stack item kinds.
const (
	BoolT               Kind = 0x59
	ContractT           Kind = 0x5A
	IntT                Kind = 0x5B
	KeyT                Kind = 0x5C
	KeyHashT            Kind = 0x5D
	LambdaT             Kind = 0x5E
	ListT               Kind = 0x5F
	MapT                Kind = 0x60
	BigMapT             Kind = 0x61
	NatT                Kind = 0x62
	OptionT             Kind = 0x63
	OrT                 Kind = 0x64
	PairT               Kind = 0x65
	SetT                Kind = 0x66
	SignatureT          Kind = 0x67
	StringT             Kind = 0x68
	BytesT              Kind = 0x69
	MutezT              Kind = 0x6A
	TimestampT          Kind = 0x6B
	UnitT               Kind = 0x6C
	OperationT          Kind = 0x6D
	AddressT            Kind = 0x6E
	ChainIDT            Kind = 0x74
	NeverT              Kind = 0x78
	BLS12381G1T         Kind = 0x80
	BLS12381G2T         Kind = 0x81
	BLS12381FrT         Kind = 0x82
	SaplingStateT       Kind = 0x83
	SaplingTransactionT Kind = 0x84
	TicketT             Kind = 0x87
	// AnyT matches any kind, it's only used in instruction signatures.
	AnyT Kind = 0xFF
)

// Capability is a property of values of some kind.
type Capability byte

// Capabilities a kind may have.
const (
	// Comparable values can be used with COMPARE, as set elements and map keys.
	Comparable Capability = 1 << iota
	// Packable values can be serialized with PACK.
	Packable
	// Pushable values can be given as literals to PUSH.
	Pushable
	// BigMapValue values can be stored in maps and big maps.
	BigMapValue
)

var (
	// ErrInvalidType is returned for malformed type declarations.
	ErrInvalidType = errors.New("invalid type")
	// ErrNotComparable is returned when a comparable type is required.
	ErrNotComparable = errors.New("type is not comparable")
)

// String implements fmt.Stringer interface.
func (k Kind) String() string {
	if k == AnyT {
		return "any"
	}
	if !k.IsValid() {
		return "INVALID"
	}
	return micheline.Prim(k).String()
}

// IsValid checks if k is a well defined stack item kind.
func (k Kind) IsValid() bool {
	_, ok := arities[k]
	return ok
}

// Arity returns the number of type arguments the kind takes.
func (k Kind) Arity() int {
	return arities[k]
}

var arities = map[Kind]int{
	BoolT: 0, ContractT: 1, IntT: 0, KeyT: 0, KeyHashT: 0, LambdaT: 2,
	ListT: 1, MapT: 2, BigMapT: 2, NatT: 0, OptionT: 1, OrT: 2, PairT: 2,
	SetT: 1, SignatureT: 0, StringT: 0, BytesT: 0, MutezT: 0, TimestampT: 0,
	UnitT: 0, OperationT: 0, AddressT: 0, ChainIDT: 0, NeverT: 0,
	BLS12381G1T: 0, BLS12381G2T: 0, BLS12381FrT: 0, SaplingStateT: 0,
	SaplingTransactionT: 0, TicketT: 1,
}

// FromString returns stackitem kind from string.
func FromString(s string) (Kind, error) {
	if s == "any" {
		return AnyT, nil
	}
	p, ok := micheline.PrimFromString(s)
	if !ok || !Kind(p).IsValid() {
		return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidType, s)
	}
	return Kind(p), nil
}

// Capabilities returns the capabilities of values of the kind, it doesn't
// take type arguments into account.
func (k Kind) Capabilities() Capability {
	switch k {
	case UnitT, NeverT, BoolT, IntT, NatT, StringT, ChainIDT, BytesT, MutezT,
		KeyHashT, KeyT, SignatureT, TimestampT, AddressT, PairT, OptionT, OrT:
		return Comparable | Packable | Pushable | BigMapValue
	case OperationT:
		return 0
	case BigMapT:
		return 0
	case TicketT:
		return BigMapValue
	case SaplingStateT:
		return 0
	case ContractT:
		return Packable | BigMapValue
	default:
		return Packable | Pushable | BigMapValue
	}
}

// Has checks whether the kind has the capability.
func (k Kind) Has(c Capability) bool {
	return k.Capabilities()&c != 0
}

// Type is a complete type: the kind with its type arguments.
type Type struct {
	Kind Kind
	Args []Type
}

// NewType creates a type of the given kind with the given arguments.
func NewType(k Kind, args ...Type) Type {
	if len(args) == 0 {
		args = nil
	}
	return Type{Kind: k, Args: args}
}

// Frequently used types.
var (
	Int       = NewType(IntT)
	Nat       = NewType(NatT)
	String    = NewType(StringT)
	Bytes     = NewType(BytesT)
	Bool      = NewType(BoolT)
	Unit      = NewType(UnitT)
	Mutez     = NewType(MutezT)
	Timestamp = NewType(TimestampT)
	Address   = NewType(AddressT)
	KeyHash   = NewType(KeyHashT)
	Key       = NewType(KeyT)
	Signature = NewType(SignatureT)
	ChainID   = NewType(ChainIDT)
	Operation = NewType(OperationT)
)

// Arg returns the i-th type argument.
func (t Type) Arg(i int) Type {
	if i >= len(t.Args) {
		return Type{}
	}
	return t.Args[i]
}

// Equals checks whether the types are the same.
func (t Type) Equals(o Type) bool {
	if t.Kind != o.Kind || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equals(o.Args[i]) {
			return false
		}
	}
	return true
}

// Has checks whether values of the type have the capability. Lambdas and
// contracts have their capabilities regardless of the argument types.
func (t Type) Has(c Capability) bool {
	if !t.Kind.Has(c) {
		return false
	}
	if t.Kind == LambdaT || t.Kind == ContractT {
		return true
	}
	for i := range t.Args {
		if !t.Args[i].Has(c) {
			return false
		}
	}
	return true
}

// IsComparable checks whether values of the type are comparable.
func (t Type) IsComparable() bool {
	return t.Has(Comparable)
}

// Validate checks the arity of all nested types and that set elements and
// map keys are comparable.
func (t Type) Validate() error {
	if !t.Kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidType, t.Kind)
	}
	if len(t.Args) != t.Kind.Arity() {
		return fmt.Errorf("%w: %s expects %d arguments, got %d", ErrInvalidType, t.Kind, t.Kind.Arity(), len(t.Args))
	}
	for i := range t.Args {
		if err := t.Args[i].Validate(); err != nil {
			return err
		}
	}
	switch t.Kind {
	case SetT, MapT, BigMapT, TicketT:
		if !t.Args[0].IsComparable() {
			return fmt.Errorf("%w: %s", ErrNotComparable, t.Args[0])
		}
	}
	if (t.Kind == MapT || t.Kind == BigMapT) && !t.Args[1].Has(BigMapValue) {
		return fmt.Errorf("%w: %s can't be a map value", ErrInvalidType, t.Args[1])
	}
	return nil
}

// String renders the type in the Michelson notation.
func (t Type) String() string {
	var sb strings.Builder
	t.write(&sb, false)
	return sb.String()
}

func (t Type) write(sb *strings.Builder, nested bool) {
	wrap := nested && len(t.Args) != 0
	if wrap {
		sb.WriteByte('(')
	}
	sb.WriteString(t.Kind.String())
	for i := range t.Args {
		sb.WriteByte(' ')
		t.Args[i].write(sb, true)
	}
	if wrap {
		sb.WriteByte(')')
	}
}

// ToNode returns the type declaration node.
func (t Type) ToNode() *micheline.Node {
	n := micheline.NewPrim(t.Kind.String())
	for i := range t.Args {
		n.Args = append(n.Args, t.Args[i].ToNode())
	}
	return n
}

// TypeFromNode converts a type declaration node. Annotations are ignored,
// pairs with more than two arguments are right combs and memo sizes of
// sapling types are dropped. The result is validated.
func TypeFromNode(n *micheline.Node) (Type, error) {
	t, err := typeFromNode(n)
	if err != nil {
		return Type{}, err
	}
	return t, t.Validate()
}

func typeFromNode(n *micheline.Node) (Type, error) {
	if n == nil || n.Type != micheline.PrimNode {
		return Type{}, fmt.Errorf("%w: %s is not a type", ErrInvalidType, n)
	}
	k, err := FromString(n.Prim)
	if err != nil || k == AnyT {
		return Type{}, fmt.Errorf("%w: unknown type %q", ErrInvalidType, n.Prim)
	}
	args := n.Args
	if k == SaplingStateT || k == SaplingTransactionT {
		if len(args) != 1 || args[0].Type != micheline.IntNode {
			return Type{}, fmt.Errorf("%w: %s expects memo size", ErrInvalidType, k)
		}
		return NewType(k), nil
	}
	if k == PairT && len(args) > 2 {
		args = []*micheline.Node{args[0], micheline.NewPrim(n.Prim, args[1:]...)}
	}
	if len(args) != k.Arity() {
		return Type{}, fmt.Errorf("%w: %s expects %d arguments, got %d", ErrInvalidType, k, k.Arity(), len(args))
	}
	t := Type{Kind: k}
	for _, a := range args {
		at, err := typeFromNode(a)
		if err != nil {
			return Type{}, err
		}
		t.Args = append(t.Args, at)
	}
	return t, nil
}
