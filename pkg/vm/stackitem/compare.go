package stackitem

import (
	"bytes"
	"strings"

	"github.com/nspcc-dev/michelson-go/pkg/encoding/address"
)

// Compare implements the total order of comparable values of the same type.
// It returns -1, 0 or 1. Numbers are compared numerically, strings and
// byte sequences lexicographically, False is less than True, None is less
// than any Some, Left is less than any Right and pairs are compared
// lexicographically. Addresses, keys and key hashes are compared by their
// binary forms.
func Compare(a, b *Item) int {
	switch a.typ.Kind {
	case IntT, NatT, MutezT, TimestampT:
		x, _ := a.TryInteger()
		y, _ := b.TryInteger()
		if x == nil || y == nil {
			return compareLiterals(a, b)
		}
		return x.Cmp(y)
	case BoolT:
		x, _ := a.TryBool()
		y, _ := b.TryBool()
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case UnitT, NeverT:
		return 0
	case AddressT:
		return compareBinary(a, b, address.DecodeAddress)
	case KeyHashT:
		return compareBinary(a, b, address.DecodeKeyHash)
	case KeyT:
		return compareBinary(a, b, address.DecodeKey)
	case SignatureT:
		return compareBinary(a, b, address.DecodeSignature)
	case PairT:
		if c := Compare(a.Child(0), b.Child(0)); c != 0 {
			return c
		}
		return Compare(a.Child(1), b.Child(1))
	case OptionT, OrT:
		ta, tb := a.Tag(), b.Tag()
		if ta != tb {
			// None < Some and Left < Right.
			if ta == TagNone || ta == TagLeft {
				return -1
			}
			return 1
		}
		if ta == TagNone {
			return 0
		}
		return Compare(a.Unwrap(), b.Unwrap())
	default:
		// Lower-case hex preserves the order of the underlying bytes.
		return compareLiterals(a, b)
	}
}

func compareLiterals(a, b *Item) int {
	x, _ := a.Literal()
	y, _ := b.Literal()
	return strings.Compare(string(x), string(y))
}

func compareBinary(a, b *Item, decode func(string) ([]byte, error)) int {
	x, _ := a.Literal()
	y, _ := b.Literal()
	bx, errX := decode(string(x))
	by, errY := decode(string(y))
	if errX != nil || errY != nil {
		return strings.Compare(string(x), string(y))
	}
	return bytes.Compare(bx, by)
}
