package vm

import (
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

// Operands are the elements taken from the stack for an instruction, top
// first. Instructions that don't take anything get operands with None set.
type Operands struct {
	none  bool
	Items []*stackitem.Item
}

// None is true for instructions consuming nothing from the stack.
func (o Operands) None() bool {
	return o.none
}

// Len returns the number of matched elements.
func (o Operands) Len() int {
	return len(o.Items)
}

// matchOperands checks the top of the stack against the requirement and
// returns the matching elements, the stack is not modified.
func matchOperands(r requirement, s *Stack) (Operands, error) {
	if r.none {
		return Operands{none: true}, nil
	}
	n := r.arity()
	if s.Len() < n {
		return Operands{}, &Error{
			Kind:     StackUnderflow,
			Expected: r.candidates,
			Actual:   s.Kinds(n),
			Depth:    s.Len(),
		}
	}
	items := make([]*stackitem.Item, n)
	for i := range items {
		items[i] = s.Peek(i)
	}
	for _, c := range r.candidates {
		if matchKinds(c, items) {
			return Operands{Items: items[:len(c)]}, nil
		}
	}
	e := &Error{
		Kind:     TypeMismatch,
		Expected: r.candidates,
		Actual:   s.Kinds(n),
		Depth:    s.Len(),
	}
	if r.overloaded {
		e.msg = "no overload matches"
	}
	return Operands{}, e
}

func matchKinds(kinds []stackitem.Kind, items []*stackitem.Item) bool {
	for i, k := range kinds {
		if k != stackitem.AnyT && items[i].Kind() != k {
			return false
		}
	}
	return true
}
