package vm

import (
	"math/big"

	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

// maxShift is the biggest shift allowed for LSL and LSR.
const maxShift = 256

func and(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	a, b := ops.Items[0], ops.Items[1]
	if a.Kind() == stackitem.BoolT {
		return result(stackitem.Make(boolean(a) && boolean(b)))
	}
	// int AND nat is a nat, the sign of the int is lost.
	return result(stackitem.NewNat(new(big.Int).And(integer(a), integer(b))))
}

func or(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	a, b := ops.Items[0], ops.Items[1]
	if a.Kind() == stackitem.BoolT {
		return result(stackitem.Make(boolean(a) || boolean(b)))
	}
	return result(stackitem.NewNat(new(big.Int).Or(integer(a), integer(b))))
}

func xor(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	a, b := ops.Items[0], ops.Items[1]
	if a.Kind() == stackitem.BoolT {
		return result(stackitem.Make(boolean(a) != boolean(b)))
	}
	return result(stackitem.NewNat(new(big.Int).Xor(integer(a), integer(b))))
}

func not(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	a := ops.Items[0]
	if a.Kind() == stackitem.BoolT {
		return result(stackitem.Make(!boolean(a)))
	}
	return result(stackitem.NewInt(new(big.Int).Not(integer(a))))
}

func shiftArgs(ops Operands) (*big.Int, uint, error) {
	x, s := integer(ops.Items[0]), integer(ops.Items[1])
	if s.Cmp(big.NewInt(maxShift)) > 0 {
		return nil, 0, newError(ArithmeticOverflow, "shift by %s", s)
	}
	return x, uint(s.Uint64()), nil
}

func lsl(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	x, s, err := shiftArgs(ops)
	if err != nil {
		return nil, err
	}
	return result(stackitem.NewNat(new(big.Int).Lsh(x, s)))
}

func lsr(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	x, s, err := shiftArgs(ops)
	if err != nil {
		return nil, err
	}
	return result(stackitem.NewNat(new(big.Int).Rsh(x, s)))
}
