package vm

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

// Arithmetic opcodes. Numeric results are nat when both operands are nat,
// int otherwise. Timestamps shift by ints and mutez never leave the
// [0, 2^63-1] range.

var maxMutez = uint256.NewInt(stackitem.MaxMutez)

func numeric(a, b *stackitem.Item, v *big.Int) *stackitem.Item {
	if a.Kind() == stackitem.NatT && b.Kind() == stackitem.NatT {
		return stackitem.NewNat(v)
	}
	return stackitem.NewInt(v)
}

func toMutez(i *big.Int) *uint256.Int {
	u, _ := uint256.FromBig(i)
	return u
}

func mutezResult(v *uint256.Int) ([]*stackitem.Item, error) {
	if v.Gt(maxMutez) {
		return nil, newError(ArithmeticOverflow, "mutez overflow")
	}
	return result(stackitem.NewMutez(v.ToBig()))
}

func abs(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(stackitem.NewNat(new(big.Int).Abs(integer(ops.Items[0]))))
}

func add(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	a, b := ops.Items[0], ops.Items[1]
	switch {
	case a.Kind() == stackitem.TimestampT || b.Kind() == stackitem.TimestampT:
		return result(stackitem.NewTimestamp(new(big.Int).Add(integer(a), integer(b))))
	case a.Kind() == stackitem.MutezT:
		return mutezResult(new(uint256.Int).Add(toMutez(integer(a)), toMutez(integer(b))))
	case isBLS(a.Kind()):
		return blsAdd(a, b)
	default:
		return result(numeric(a, b, new(big.Int).Add(integer(a), integer(b))))
	}
}

func sub(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	a, b := ops.Items[0], ops.Items[1]
	switch {
	case a.Kind() == stackitem.TimestampT && b.Kind() == stackitem.TimestampT:
		return result(stackitem.NewInt(new(big.Int).Sub(integer(a), integer(b))))
	case a.Kind() == stackitem.TimestampT:
		return result(stackitem.NewTimestamp(new(big.Int).Sub(integer(a), integer(b))))
	case a.Kind() == stackitem.MutezT:
		x, y := toMutez(integer(a)), toMutez(integer(b))
		if x.Lt(y) {
			return nil, newError(ArithmeticOverflow, "mutez underflow")
		}
		return mutezResult(new(uint256.Int).Sub(x, y))
	default:
		return result(stackitem.NewInt(new(big.Int).Sub(integer(a), integer(b))))
	}
}

func mul(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	a, b := ops.Items[0], ops.Items[1]
	switch {
	case isBLS(a.Kind()) || isBLS(b.Kind()):
		return blsMul(a, b)
	case a.Kind() == stackitem.MutezT || b.Kind() == stackitem.MutezT:
		x, y := integer(a), integer(b)
		if x.Sign() == 0 || y.Sign() == 0 {
			return result(stackitem.NewMutez(new(big.Int)))
		}
		// Nat operand may not fit, the product wouldn't fit either then.
		if x.BitLen() > 64 || y.BitLen() > 64 {
			return nil, newError(ArithmeticOverflow, "mutez overflow")
		}
		return mutezResult(new(uint256.Int).Mul(toMutez(x), toMutez(y)))
	default:
		return result(numeric(a, b, new(big.Int).Mul(integer(a), integer(b))))
	}
}

// ediv returns the truncated quotient and the remainder having the sign of
// the dividend.
func ediv(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	a, b := ops.Items[0], ops.Items[1]
	x, y := integer(a), integer(b)

	var qt, rt stackitem.Type
	switch {
	case a.Kind() == stackitem.MutezT && b.Kind() == stackitem.MutezT:
		qt, rt = stackitem.Nat, stackitem.Mutez
	case a.Kind() == stackitem.MutezT:
		qt, rt = stackitem.Mutez, stackitem.Mutez
	case a.Kind() == stackitem.NatT && b.Kind() == stackitem.NatT:
		qt, rt = stackitem.Nat, stackitem.Nat
	default:
		qt, rt = stackitem.Int, stackitem.Int
	}
	if y.Sign() == 0 {
		return result(stackitem.NewNone(stackitem.NewType(stackitem.PairT, qt, rt)))
	}
	q, r := new(big.Int).QuoRem(x, y, new(big.Int))
	return result(stackitem.NewSome(stackitem.NewPair(
		stackitem.New(qt, stackitem.Literal(q.String())),
		stackitem.New(rt, stackitem.Literal(r.String())),
	)))
}

func neg(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	a := ops.Items[0]
	if isBLS(a.Kind()) {
		return blsNeg(a)
	}
	return result(stackitem.NewInt(new(big.Int).Neg(integer(a))))
}

func toInt(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	a := ops.Items[0]
	if a.Kind() == stackitem.BLS12381FrT {
		f, err := frOf(a)
		if err != nil {
			return nil, err
		}
		return result(stackitem.NewInt(f.BigInt()))
	}
	return result(stackitem.NewInt(integer(a)))
}

func isNat(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	v := integer(ops.Items[0])
	if v.Sign() < 0 {
		return result(stackitem.NewNone(stackitem.Nat))
	}
	return result(stackitem.NewSome(stackitem.NewNat(v)))
}

func compare(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	a, b := ops.Items[0], ops.Items[1]
	if !a.Type().Equals(b.Type()) {
		return nil, typesMismatch(a.Type(), b.Type())
	}
	if !a.Type().IsComparable() {
		return nil, newError(ComparabilityViolation, "%s is not comparable", a.Type())
	}
	return result(stackitem.Make(stackitem.Compare(a, b)))
}

// compareWith makes one of EQ, NEQ, LT, LE, GT, GE converting the result of
// COMPARE into bool.
func compareWith(f func(int) bool) handler {
	return func(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
		return result(stackitem.Make(f(integer(ops.Items[0]).Sign())))
	}
}
