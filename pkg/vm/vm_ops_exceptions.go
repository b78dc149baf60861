package vm

import (
	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

// vm exceptions

// failWith aborts the execution with the operand attached to the error, the
// operand must be packable.
func failWith(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	x := ops.Items[0]
	if !x.Type().Has(stackitem.Packable) {
		return nil, newError(PackabilityViolation, "%s can't be a failure value", x.Type())
	}
	return nil, &Error{Kind: ExplicitFailure, Value: x}
}

// never can't be reached since there are no values of never type.
func never(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	return nil, mismatch("unexpected %s value", ops.Items[0].Type())
}

func notImplemented(_ *VM, _ *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	return nil, newError(NotImplemented, "")
}
