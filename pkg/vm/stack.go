package vm

import (
	"encoding/json"

	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

// Stack implementation for the virtual machine. The stack with its LIFO
// semantics is emulated from simple slice where the top of the stack corresponds
// to the latest element of this slice. Pushes are appends to this slice, pops are
// slice resizes. A single stack is shared by the instruction and all the
// blocks it runs, lambdas get a fresh one.

// Stack represents a Stack backed by a slice of items.
type Stack struct {
	elems []*stackitem.Item
	name  string
}

// NewStack returns a new stack name by the given name.
func NewStack(n string) *Stack {
	s := new(Stack)
	s.elems = make([]*stackitem.Item, 0, 16) // Most of uses are expected to fit into 16 elements.
	s.name = n
	return s
}

// Name returns the name of the stack.
func (s *Stack) Name() string {
	return s.name
}

// Clear clears all elements on the stack and set its length to 0.
func (s *Stack) Clear() {
	s.elems = s.elems[:0]
}

// Len returns the number of elements that are on the stack.
func (s *Stack) Len() int {
	return len(s.elems)
}

// InsertAt inserts the given item (n) deep on the stack.
// Be very careful using it and _always_ check n before invocation
// as it will panic otherwise.
func (s *Stack) InsertAt(e *stackitem.Item, n int) {
	l := len(s.elems)
	s.elems = append(s.elems, e)
	copy(s.elems[l-n+1:], s.elems[l-n:l])
	s.elems[l-n] = e
}

// Push pushes the given item on the stack.
func (s *Stack) Push(e *stackitem.Item) {
	s.elems = append(s.elems, e)
}

// Pop removes and returns the element on top of the stack. Panics if stack is
// empty.
func (s *Stack) Pop() *stackitem.Item {
	l := len(s.elems)
	e := s.elems[l-1]
	s.elems[l-1] = nil
	s.elems = s.elems[:l-1]
	return e
}

// Top returns the element on top of the stack. Nil if the stack
// is empty.
func (s *Stack) Top() *stackitem.Item {
	if len(s.elems) == 0 {
		return nil
	}
	return s.elems[len(s.elems)-1]
}

// Peek returns the element (n) far in the stack beginning from
// the top of the stack. For n == 0 it's effectively the same as Top,
// but it'll panic if the stack is empty.
func (s *Stack) Peek(n int) *stackitem.Item {
	n = len(s.elems) - n - 1
	return s.elems[n]
}

// RemoveAt removes the element (n) deep on the stack beginning
// from the top of the stack. Panics if called with out of bounds n.
func (s *Stack) RemoveAt(n int) *stackitem.Item {
	l := len(s.elems)
	e := s.elems[l-1-n]
	s.elems = append(s.elems[:l-1-n], s.elems[l-n:]...)
	return e
}

// Dup returns a deep copy of the element at position n, items on the stack
// never share their payload.
//
//	s.Push(s.Dup(0))
func (s *Stack) Dup(n int) *stackitem.Item {
	return s.Peek(n).Dup()
}

// Iter iterates over all the elements int the stack, starting from the top
// of the stack.
func (s *Stack) Iter(f func(*stackitem.Item)) {
	for i := len(s.elems) - 1; i >= 0; i-- {
		f(s.elems[i])
	}
}

// Kinds returns the kinds of at most n top elements, top first.
func (s *Stack) Kinds(n int) []stackitem.Kind {
	if n > len(s.elems) {
		n = len(s.elems)
	}
	res := make([]stackitem.Kind, n)
	for i := range res {
		res[i] = s.Peek(i).Kind()
	}
	return res
}

// ToArray converts stack to an array of stackitems with top item being the first.
func (s *Stack) ToArray() []*stackitem.Item {
	items := make([]*stackitem.Item, 0, len(s.elems))
	s.Iter(func(e *stackitem.Item) {
		items = append(items, e)
	})
	return items
}

// MarshalJSON implements JSON marshalling interface.
func (s *Stack) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToArray())
}
