package vm

import (
	"math/big"
	"strings"

	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

func nilList(_ *VM, instr *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	t, err := typeArg(instr, 0)
	if err != nil {
		return nil, err
	}
	return result(stackitem.NewList(t, nil))
}

func cons(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	x, l := ops.Items[0], ops.Items[1]
	if et := l.Type().Arg(0); !et.Equals(x.Type()) {
		return nil, typesMismatch(et, x.Type())
	}
	return result(stackitem.NewList(x.Type(), append([]*stackitem.Item{x}, l.Items()...)))
}

func size(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	c := ops.Items[0]
	var n int
	switch c.Kind() {
	case stackitem.StringT:
		n = len(stringOf(c))
	case stackitem.BytesT:
		n = len(bytesOf(c))
	default:
		n = c.Len()
	}
	return result(stackitem.NewNat(big.NewInt(int64(n))))
}

// concat joins two strings or bytes or a list of them.
func concat(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	var (
		kind  stackitem.Kind
		parts []*stackitem.Item
	)
	if a := ops.Items[0]; a.Kind() == stackitem.ListT {
		kind = a.Type().Arg(0).Kind
		if kind != stackitem.StringT && kind != stackitem.BytesT {
			return nil, mismatch("list of string or bytes expected, got %s", a.Type())
		}
		parts = a.Items()
	} else {
		kind = a.Kind()
		parts = ops.Items
	}
	if kind == stackitem.StringT {
		var sb strings.Builder
		for _, p := range parts {
			sb.WriteString(stringOf(p))
		}
		return result(stackitem.NewString(sb.String()))
	}
	var res []byte
	for _, p := range parts {
		res = append(res, bytesOf(p)...)
	}
	return result(stackitem.NewBytes(res))
}

// slice returns Some substring of length at offset or None if it's out of
// bounds.
func slice(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	offset, length, s := integer(ops.Items[0]), integer(ops.Items[1]), ops.Items[2]
	var l int
	if s.Kind() == stackitem.StringT {
		l = len(stringOf(s))
	} else {
		l = len(bytesOf(s))
	}
	end := new(big.Int).Add(offset, length)
	if l == 0 || offset.Cmp(big.NewInt(int64(l))) >= 0 || end.Cmp(big.NewInt(int64(l))) > 0 {
		return result(stackitem.NewNone(s.Type()))
	}
	from, to := int(offset.Int64()), int(end.Int64())
	if s.Kind() == stackitem.StringT {
		return result(stackitem.NewSome(stackitem.NewString(stringOf(s)[from:to])))
	}
	return result(stackitem.NewSome(stackitem.NewBytes(bytesOf(s)[from:to])))
}

func emptySet(_ *VM, instr *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	t, err := typeArg(instr, 0)
	if err != nil {
		return nil, err
	}
	if !t.IsComparable() {
		return nil, newError(ComparabilityViolation, "%s can't be a set element", t)
	}
	return result(stackitem.NewSet(t, nil))
}

// emptyMap makes EMPTY_MAP or EMPTY_BIG_MAP, keys must be comparable and
// values can't be operations or big maps.
func emptyMap(kind stackitem.Kind) handler {
	return func(_ *VM, instr *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
		k, err := typeArg(instr, 0)
		if err != nil {
			return nil, err
		}
		v, err := typeArg(instr, 1)
		if err != nil {
			return nil, err
		}
		if !k.IsComparable() {
			return nil, newError(ComparabilityViolation, "%s can't be a map key", k)
		}
		if !v.Has(stackitem.BigMapValue) {
			return nil, newError(InvalidDeclaration, "%s can't be a map value", v)
		}
		if kind == stackitem.BigMapT {
			return result(stackitem.NewBigMap(k, v, nil))
		}
		return result(stackitem.NewMap(k, v, nil))
	}
}

func checkKey(c, key *stackitem.Item) error {
	if kt := c.Type().Arg(0); !kt.Equals(key.Type()) {
		return typesMismatch(kt, key.Type())
	}
	return nil
}

// lookup returns the value stored for the key or nil.
func lookup(c, key *stackitem.Item) *stackitem.Item {
	for _, e := range c.MapEntries() {
		if stackitem.Compare(e.Key, key) == 0 {
			return e.Value
		}
	}
	return nil
}

func mem(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	key, c := ops.Items[0], ops.Items[1]
	if err := checkKey(c, key); err != nil {
		return nil, err
	}
	if c.Kind() == stackitem.SetT {
		for _, e := range c.Items() {
			if stackitem.Compare(e, key) == 0 {
				return result(stackitem.Make(true))
			}
		}
		return result(stackitem.Make(false))
	}
	return result(stackitem.Make(lookup(c, key) != nil))
}

func get(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	key, c := ops.Items[0], ops.Items[1]
	if err := checkKey(c, key); err != nil {
		return nil, err
	}
	return result(optionOf(c.Type().Arg(1), lookup(c, key)))
}

func optionOf(t stackitem.Type, v *stackitem.Item) *stackitem.Item {
	if v == nil {
		return stackitem.NewNone(t)
	}
	return stackitem.NewSome(v)
}

// update adds or removes set elements (by bool) and map entries (by option
// value).
func update(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	key, val, c := ops.Items[0], ops.Items[1], ops.Items[2]
	if err := checkKey(c, key); err != nil {
		return nil, err
	}
	if c.Kind() == stackitem.SetT {
		var elems []*stackitem.Item
		for _, e := range c.Items() {
			if stackitem.Compare(e, key) != 0 {
				elems = append(elems, e)
			}
		}
		if boolean(val) {
			elems = append(elems, key)
		}
		return result(stackitem.NewSet(c.Type().Arg(0), elems))
	}
	res, _, err := updateMap(c, key, val)
	if err != nil {
		return nil, err
	}
	return result(res)
}

// getAndUpdate is UPDATE on maps also returning the previous value, it's on
// top of the new map.
func getAndUpdate(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	key, val, c := ops.Items[0], ops.Items[1], ops.Items[2]
	if err := checkKey(c, key); err != nil {
		return nil, err
	}
	res, old, err := updateMap(c, key, val)
	if err != nil {
		return nil, err
	}
	return result(optionOf(c.Type().Arg(1), old), res)
}

func updateMap(c, key, val *stackitem.Item) (*stackitem.Item, *stackitem.Item, error) {
	vt := c.Type().Arg(1)
	if ot := stackitem.NewType(stackitem.OptionT, vt); !ot.Equals(val.Type()) {
		return nil, nil, typesMismatch(ot, val.Type())
	}
	var (
		old     *stackitem.Item
		entries []stackitem.MapElement
	)
	for _, e := range c.MapEntries() {
		if stackitem.Compare(e.Key, key) == 0 {
			old = e.Value
			continue
		}
		entries = append(entries, e)
	}
	if val.Tag() == stackitem.TagSome {
		entries = append(entries, stackitem.MapElement{Key: key, Value: val.Unwrap()})
	}
	if c.Kind() == stackitem.BigMapT {
		return stackitem.NewBigMap(c.Type().Arg(0), vt, entries), old, nil
	}
	return stackitem.NewMap(c.Type().Arg(0), vt, entries), old, nil
}
