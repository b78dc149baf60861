package vm

import (
	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

// some wraps the operand, an optional type argument must match its type.
func some(_ *VM, instr *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	x := ops.Items[0]
	if instr.Arg(0) != nil {
		t, err := typeArg(instr, 0)
		if err != nil {
			return nil, err
		}
		if !t.Equals(x.Type()) {
			return nil, typesMismatch(t, x.Type())
		}
	}
	return result(stackitem.NewSome(x))
}

func none(_ *VM, instr *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	t, err := typeArg(instr, 0)
	if err != nil {
		return nil, err
	}
	return result(stackitem.NewNone(t))
}

func left(_ *VM, instr *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	t, err := typeArg(instr, 0)
	if err != nil {
		return nil, err
	}
	return result(stackitem.NewLeft(ops.Items[0], t))
}

func right(_ *VM, instr *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	t, err := typeArg(instr, 0)
	if err != nil {
		return nil, err
	}
	return result(stackitem.NewRight(t, ops.Items[0]))
}

// ifNone runs the first block for None and the second one with the payload
// pushed for Some.
func ifNone(v *VM, instr *micheline.Node, ops Operands, s *Stack) ([]*stackitem.Item, error) {
	opt := ops.Items[0]
	if opt.Tag() == stackitem.TagNone {
		return nil, v.runBlock(instr, 0, s)
	}
	s.Push(opt.Unwrap())
	return nil, v.runBlock(instr, 1, s)
}

// ifLeft runs the first block for Left and the second one for Right, the
// payload is pushed in both cases.
func ifLeft(v *VM, instr *micheline.Node, ops Operands, s *Stack) ([]*stackitem.Item, error) {
	u := ops.Items[0]
	s.Push(u.Unwrap())
	if u.Tag() == stackitem.TagLeft {
		return nil, v.runBlock(instr, 0, s)
	}
	return nil, v.runBlock(instr, 1, s)
}
