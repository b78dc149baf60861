package vm

import (
	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

// Flow Control Opcodes

// popKind pops the element left by the block, it must be of the given kind.
func popKind(s *Stack, k stackitem.Kind) (*stackitem.Item, error) {
	if s.Len() == 0 {
		return nil, underflow(1, s)
	}
	if s.Top().Kind() != k {
		return nil, mismatch("%s expected on top, got %s", k, s.Top().Type())
	}
	return s.Pop(), nil
}

func ifThen(v *VM, instr *micheline.Node, ops Operands, s *Stack) ([]*stackitem.Item, error) {
	if boolean(ops.Items[0]) {
		return nil, v.runBlock(instr, 0, s)
	}
	return nil, v.runBlock(instr, 1, s)
}

// ifCons runs the first block with the head on top of the tail for non-empty
// lists, the second one otherwise.
func ifCons(v *VM, instr *micheline.Node, ops Operands, s *Stack) ([]*stackitem.Item, error) {
	l := ops.Items[0]
	elems := l.Items()
	if len(elems) == 0 {
		return nil, v.runBlock(instr, 1, s)
	}
	s.Push(stackitem.NewList(l.Type().Arg(0), elems[1:]))
	s.Push(elems[0])
	return nil, v.runBlock(instr, 0, s)
}

// loop runs the body while the bool on top of the stack is true.
func loop(v *VM, instr *micheline.Node, ops Operands, s *Stack) ([]*stackitem.Item, error) {
	for cond := boolean(ops.Items[0]); cond; {
		if err := v.runBlock(instr, 0, s); err != nil {
			return nil, err
		}
		c, err := popKind(s, stackitem.BoolT)
		if err != nil {
			return nil, err
		}
		cond = boolean(c)
	}
	return nil, nil
}

// loopLeft runs the body with the payload of Left until it gets Right, the
// payload of which is the result.
func loopLeft(v *VM, instr *micheline.Node, ops Operands, s *Stack) ([]*stackitem.Item, error) {
	x := ops.Items[0]
	t := x.Type()
	for x.Tag() == stackitem.TagLeft {
		s.Push(x.Unwrap())
		if err := v.runBlock(instr, 0, s); err != nil {
			return nil, err
		}
		var err error
		if x, err = popKind(s, stackitem.OrT); err != nil {
			return nil, err
		}
		if !t.Equals(x.Type()) {
			return nil, typesMismatch(t, x.Type())
		}
	}
	return result(x.Unwrap())
}

// iter runs the body for every element of the container, map elements are
// given as key-value pairs.
func iter(v *VM, instr *micheline.Node, ops Operands, s *Stack) ([]*stackitem.Item, error) {
	for _, e := range ops.Items[0].Items() {
		s.Push(e)
		if err := v.runBlock(instr, 0, s); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// mapOver replaces every list element or map value with the result of the
// body. The type of the result is the one of the first body result, empty
// containers keep their type.
func mapOver(v *VM, instr *micheline.Node, ops Operands, s *Stack) ([]*stackitem.Item, error) {
	c := ops.Items[0]
	var (
		elems   = c.Items()
		results = make([]*stackitem.Item, len(elems))
		resType *stackitem.Type
	)
	for i, e := range elems {
		s.Push(e)
		if err := v.runBlock(instr, 0, s); err != nil {
			return nil, err
		}
		if s.Len() == 0 {
			return nil, underflow(1, s)
		}
		r := s.Pop()
		if resType == nil {
			t := r.Type()
			resType = &t
		} else if !resType.Equals(r.Type()) {
			return nil, typesMismatch(*resType, r.Type())
		}
		results[i] = r
	}
	if c.Kind() == stackitem.ListT {
		t := c.Type().Arg(0)
		if resType != nil {
			t = *resType
		}
		return result(stackitem.NewList(t, results))
	}
	vt := c.Type().Arg(1)
	if resType != nil {
		vt = *resType
		if err := stackitem.NewType(stackitem.MapT, c.Type().Arg(0), vt).Validate(); err != nil {
			return nil, declarationError(err)
		}
	}
	entries := make([]stackitem.MapElement, len(elems))
	for i := range elems {
		entries[i] = stackitem.MapElement{Key: elems[i].Child(0), Value: results[i]}
	}
	return result(stackitem.NewMap(c.Type().Arg(0), vt, entries))
}

func lambda(_ *VM, instr *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	arg, err := typeArg(instr, 0)
	if err != nil {
		return nil, err
	}
	ret, err := typeArg(instr, 1)
	if err != nil {
		return nil, err
	}
	code := instr.Arg(2)
	if code == nil {
		return nil, newError(InvalidDeclaration, "missing lambda body")
	}
	return result(stackitem.NewLambda(arg, ret, code.Copy().Block()))
}

// exec runs the lambda on a fresh stack holding only the argument, it must
// leave exactly one element of the declared return type.
func exec(v *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	arg, fn := ops.Items[0], ops.Items[1]
	if at := fn.Type().Arg(0); !at.Equals(arg.Type()) {
		return nil, typesMismatch(at, arg.Type())
	}
	code, err := fn.Code()
	if err != nil {
		return nil, wrapError(TypeMismatch, err)
	}
	ls := NewStack("lambda")
	ls.Push(arg)
	if err := v.Run(code, ls); err != nil {
		return nil, err
	}
	if ls.Len() != 1 {
		return nil, mismatch("lambda left %d elements on the stack", ls.Len())
	}
	res := ls.Pop()
	if rt := fn.Type().Arg(1); !rt.Equals(res.Type()) {
		return nil, typesMismatch(rt, res.Type())
	}
	return result(res)
}

// apply partially applies the lambda taking a pair, the value is captured
// in the code of the new lambda.
func apply(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	val, fn := ops.Items[0], ops.Items[1]
	at := fn.Type().Arg(0)
	if at.Kind != stackitem.PairT || !at.Arg(0).Equals(val.Type()) {
		return nil, mismatch("lambda of pair %s expected, got %s", val.Type(), fn.Type())
	}
	if !val.Type().Has(stackitem.Packable) {
		return nil, newError(PackabilityViolation, "%s can't be captured", val.Type())
	}
	if !val.Type().Has(stackitem.Pushable) {
		return nil, newError(InvalidDeclaration, "%s can't be captured", val.Type())
	}
	code, err := fn.Code()
	if err != nil {
		return nil, wrapError(TypeMismatch, err)
	}
	applied := make([]*micheline.Node, 0, len(code)+2)
	applied = append(applied,
		micheline.NewPrim("PUSH", val.Type().ToNode(), val.ToNode()),
		micheline.NewPrim("PAIR"))
	for _, instr := range code {
		applied = append(applied, instr.Copy())
	}
	return result(stackitem.NewLambda(at.Arg(1), fn.Type().Arg(1), applied))
}
