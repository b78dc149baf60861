package vm

import (
	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

// Stack Manipulation Opcodes

func underflow(need int, s *Stack) *Error {
	return newError(StackUnderflow, "%d elements required, %d available", need, s.Len())
}

// dup pushes a deep copy of the n-th element (1 is the top).
func dup(_ *VM, instr *micheline.Node, _ Operands, s *Stack) ([]*stackitem.Item, error) {
	n, err := countArg(instr, 1)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, newError(InvalidDeclaration, "DUP 0")
	}
	if n > s.Len() {
		return nil, underflow(n, s)
	}
	return result(s.Dup(n - 1))
}

func swap(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(ops.Items[1], ops.Items[0])
}

// dig moves the n-th element (0 is the top) to the top.
func dig(_ *VM, instr *micheline.Node, _ Operands, s *Stack) ([]*stackitem.Item, error) {
	if instr.Arg(0) == nil {
		return nil, newError(InvalidDeclaration, "DIG requires a depth")
	}
	n, err := countArg(instr, 0)
	if err != nil {
		return nil, err
	}
	if n >= s.Len() {
		return nil, underflow(n+1, s)
	}
	s.Push(s.RemoveAt(n))
	return nil, nil
}

// dug moves the top element n positions down, it's the inverse of dig.
func dug(_ *VM, instr *micheline.Node, _ Operands, s *Stack) ([]*stackitem.Item, error) {
	if instr.Arg(0) == nil {
		return nil, newError(InvalidDeclaration, "DUG requires a depth")
	}
	n, err := countArg(instr, 0)
	if err != nil {
		return nil, err
	}
	if n >= s.Len() {
		return nil, underflow(n+1, s)
	}
	s.InsertAt(s.Pop(), n)
	return nil, nil
}

func drop(_ *VM, instr *micheline.Node, _ Operands, s *Stack) ([]*stackitem.Item, error) {
	n, err := countArg(instr, 1)
	if err != nil {
		return nil, err
	}
	if n > s.Len() {
		return nil, underflow(n, s)
	}
	for i := 0; i < n; i++ {
		s.Pop()
	}
	return nil, nil
}

// dip runs the block with n top elements (1 by default) protected.
func dip(v *VM, instr *micheline.Node, _ Operands, s *Stack) ([]*stackitem.Item, error) {
	block := 0
	n := 1
	if len(instr.Args) == 2 {
		var err error
		if n, err = countArg(instr, 1); err != nil {
			return nil, err
		}
		block = 1
	}
	if n > s.Len() {
		return nil, underflow(n, s)
	}
	saved := make([]*stackitem.Item, n)
	for i := range saved {
		saved[i] = s.Pop()
	}
	if err := v.runBlock(instr, block, s); err != nil {
		return nil, err
	}
	return saved, nil
}

func push(_ *VM, instr *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	t, err := typeArg(instr, 0)
	if err != nil {
		return nil, err
	}
	if !t.Has(stackitem.Pushable) {
		return nil, newError(InvalidDeclaration, "%s can't be pushed", t)
	}
	val := instr.Arg(1)
	if val == nil {
		return nil, newError(InvalidDeclaration, "missing value")
	}
	it, err := stackitem.FromNode(t, val)
	if err != nil {
		return nil, declarationError(err)
	}
	return result(it)
}

func unit(_ *VM, _ *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(stackitem.NewUnit())
}

// pair builds a right comb of n elements (2 by default).
func pair(_ *VM, instr *micheline.Node, ops Operands, s *Stack) ([]*stackitem.Item, error) {
	n, err := countArg(instr, 2)
	if err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, newError(InvalidDeclaration, "PAIR %d", n)
	}
	if n-2 > s.Len() {
		return nil, underflow(n, s)
	}
	elems := append([]*stackitem.Item{}, ops.Items...)
	for i := 2; i < n; i++ {
		elems = append(elems, s.Pop())
	}
	res := elems[n-1]
	for i := n - 2; i >= 0; i-- {
		res = stackitem.NewPair(elems[i], res)
	}
	return result(res)
}

// unpair destructures a right comb of n elements (2 by default), the first
// one ends up on top.
func unpair(_ *VM, instr *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	n, err := countArg(instr, 2)
	if err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, newError(InvalidDeclaration, "UNPAIR %d", n)
	}
	res := make([]*stackitem.Item, 0, n)
	cur := ops.Items[0]
	for i := 0; i < n-1; i++ {
		if cur.Kind() != stackitem.PairT {
			return nil, mismatch("comb of %d elements expected, got %s", n, ops.Items[0].Type())
		}
		res = append(res, cur.Child(0))
		cur = cur.Child(1)
	}
	return append(res, cur), nil
}

func car(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(ops.Items[0].Child(0))
}

func cdr(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(ops.Items[0].Child(1))
}
