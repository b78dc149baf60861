package vm

import (
	"github.com/nspcc-dev/michelson-go/pkg/crypto/bls"
	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

func isBLS(k stackitem.Kind) bool {
	return k == stackitem.BLS12381G1T || k == stackitem.BLS12381G2T || k == stackitem.BLS12381FrT
}

func g1Of(it *stackitem.Item) (*bls.G1, error) {
	g, err := bls.G1FromBytes(bytesOf(it))
	if err != nil {
		return nil, wrapError(TypeMismatch, err)
	}
	return g, nil
}

func g2Of(it *stackitem.Item) (*bls.G2, error) {
	g, err := bls.G2FromBytes(bytesOf(it))
	if err != nil {
		return nil, wrapError(TypeMismatch, err)
	}
	return g, nil
}

// frOf converts fr items and numbers (reduced modulo the group order).
func frOf(it *stackitem.Item) (*bls.Fr, error) {
	if it.Kind() != stackitem.BLS12381FrT {
		return bls.FrFromBigInt(integer(it)), nil
	}
	f, err := bls.FrFromBytes(bytesOf(it))
	if err != nil {
		return nil, wrapError(TypeMismatch, err)
	}
	return f, nil
}

func frItem(f *bls.Fr) *stackitem.Item {
	return stackitem.NewBLS(stackitem.BLS12381FrT, f.Bytes())
}

func blsAdd(a, b *stackitem.Item) ([]*stackitem.Item, error) {
	switch a.Kind() {
	case stackitem.BLS12381G1T:
		x, err := g1Of(a)
		if err != nil {
			return nil, err
		}
		y, err := g1Of(b)
		if err != nil {
			return nil, err
		}
		return result(stackitem.NewBLS(stackitem.BLS12381G1T, x.Add(y).Bytes()))
	case stackitem.BLS12381G2T:
		x, err := g2Of(a)
		if err != nil {
			return nil, err
		}
		y, err := g2Of(b)
		if err != nil {
			return nil, err
		}
		return result(stackitem.NewBLS(stackitem.BLS12381G2T, x.Add(y).Bytes()))
	default:
		x, err := frOf(a)
		if err != nil {
			return nil, err
		}
		y, err := frOf(b)
		if err != nil {
			return nil, err
		}
		return result(frItem(x.Add(y)))
	}
}

// blsMul multiplies a point by a scalar or two scalars, numbers are
// accepted on either side of fr.
func blsMul(a, b *stackitem.Item) ([]*stackitem.Item, error) {
	s, err := frOf(b)
	if err != nil {
		return nil, err
	}
	switch a.Kind() {
	case stackitem.BLS12381G1T:
		g, err := g1Of(a)
		if err != nil {
			return nil, err
		}
		return result(stackitem.NewBLS(stackitem.BLS12381G1T, g.Mul(s).Bytes()))
	case stackitem.BLS12381G2T:
		g, err := g2Of(a)
		if err != nil {
			return nil, err
		}
		return result(stackitem.NewBLS(stackitem.BLS12381G2T, g.Mul(s).Bytes()))
	default:
		x, err := frOf(a)
		if err != nil {
			return nil, err
		}
		return result(frItem(x.Mul(s)))
	}
}

func blsNeg(a *stackitem.Item) ([]*stackitem.Item, error) {
	switch a.Kind() {
	case stackitem.BLS12381G1T:
		g, err := g1Of(a)
		if err != nil {
			return nil, err
		}
		return result(stackitem.NewBLS(stackitem.BLS12381G1T, g.Neg().Bytes()))
	case stackitem.BLS12381G2T:
		g, err := g2Of(a)
		if err != nil {
			return nil, err
		}
		return result(stackitem.NewBLS(stackitem.BLS12381G2T, g.Neg().Bytes()))
	default:
		f, err := frOf(a)
		if err != nil {
			return nil, err
		}
		return result(frItem(f.Neg()))
	}
}

var g1g2Pair = stackitem.NewType(stackitem.PairT,
	stackitem.NewType(stackitem.BLS12381G1T), stackitem.NewType(stackitem.BLS12381G2T))

func pairingCheck(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	l := ops.Items[0]
	if !l.Type().Arg(0).Equals(g1g2Pair) {
		return nil, typesMismatch(stackitem.NewType(stackitem.ListT, g1g2Pair), l.Type())
	}
	var (
		elems = l.Items()
		g1s   = make([]*bls.G1, len(elems))
		g2s   = make([]*bls.G2, len(elems))
		err   error
	)
	for i, p := range elems {
		if g1s[i], err = g1Of(p.Child(0)); err != nil {
			return nil, err
		}
		if g2s[i], err = g2Of(p.Child(1)); err != nil {
			return nil, err
		}
	}
	ok, err := bls.PairingCheck(g1s, g2s)
	if err != nil {
		return nil, wrapError(TypeMismatch, err)
	}
	return result(stackitem.NewBool(ok))
}
