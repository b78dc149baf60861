/*
Package bls wraps BLS12-381 curve arithmetic used by the bls12_381_g1,
bls12_381_g2 and bls12_381_fr values. Points are serialized uncompressed
(96 bytes for G1 and 192 bytes for G2), scalars as 32 little-endian bytes.
*/
package bls

import (
	"errors"
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Serialized sizes.
const (
	G1Size = bls12381.SizeOfG1AffineUncompressed
	G2Size = bls12381.SizeOfG2AffineUncompressed
	FrSize = fr.Bytes
)

// ErrInvalidPoint is returned for data not representing a valid point or
// scalar.
var ErrInvalidPoint = errors.New("invalid bls12-381 value")

// G1 is a point of the G1 subgroup.
type G1 struct {
	p bls12381.G1Affine
}

// G2 is a point of the G2 subgroup.
type G2 struct {
	p bls12381.G2Affine
}

// Fr is an element of the scalar field.
type Fr struct {
	e fr.Element
}

// G1FromBytes decodes an uncompressed G1 point.
func G1FromBytes(b []byte) (*G1, error) {
	if len(b) != G1Size {
		return nil, fmt.Errorf("%w: g1 point is %d bytes", ErrInvalidPoint, len(b))
	}
	g := new(G1)
	if _, err := g.p.SetBytes(b); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPoint, err)
	}
	return g, nil
}

// Bytes returns the uncompressed point.
func (g *G1) Bytes() []byte {
	b := g.p.RawBytes()
	return b[:]
}

// Add returns g+o.
func (g *G1) Add(o *G1) *G1 {
	var j bls12381.G1Jac
	j.FromAffine(&g.p)
	j.AddMixed(&o.p)
	res := new(G1)
	res.p.FromJacobian(&j)
	return res
}

// Mul returns the point multiplied by the scalar.
func (g *G1) Mul(s *Fr) *G1 {
	var j bls12381.G1Jac
	j.FromAffine(&g.p)
	j.ScalarMultiplication(&j, s.BigInt())
	res := new(G1)
	res.p.FromJacobian(&j)
	return res
}

// Neg returns -g.
func (g *G1) Neg() *G1 {
	res := new(G1)
	res.p.Neg(&g.p)
	return res
}

// Equal checks whether the points are equal.
func (g *G1) Equal(o *G1) bool {
	return g.p.Equal(&o.p)
}

// G2FromBytes decodes an uncompressed G2 point.
func G2FromBytes(b []byte) (*G2, error) {
	if len(b) != G2Size {
		return nil, fmt.Errorf("%w: g2 point is %d bytes", ErrInvalidPoint, len(b))
	}
	g := new(G2)
	if _, err := g.p.SetBytes(b); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPoint, err)
	}
	return g, nil
}

// Bytes returns the uncompressed point.
func (g *G2) Bytes() []byte {
	b := g.p.RawBytes()
	return b[:]
}

// Add returns g+o.
func (g *G2) Add(o *G2) *G2 {
	var j bls12381.G2Jac
	j.FromAffine(&g.p)
	j.AddMixed(&o.p)
	res := new(G2)
	res.p.FromJacobian(&j)
	return res
}

// Mul returns the point multiplied by the scalar.
func (g *G2) Mul(s *Fr) *G2 {
	var j bls12381.G2Jac
	j.FromAffine(&g.p)
	j.ScalarMultiplication(&j, s.BigInt())
	res := new(G2)
	res.p.FromJacobian(&j)
	return res
}

// Neg returns -g.
func (g *G2) Neg() *G2 {
	res := new(G2)
	res.p.Neg(&g.p)
	return res
}

// Equal checks whether the points are equal.
func (g *G2) Equal(o *G2) bool {
	return g.p.Equal(&o.p)
}

// FrFromBytes decodes a little-endian scalar, it must be less than the
// field modulus.
func FrFromBytes(b []byte) (*Fr, error) {
	if len(b) != FrSize {
		return nil, fmt.Errorf("%w: scalar is %d bytes", ErrInvalidPoint, len(b))
	}
	be := make([]byte, FrSize)
	for i := range b {
		be[FrSize-1-i] = b[i]
	}
	if new(big.Int).SetBytes(be).Cmp(fr.Modulus()) >= 0 {
		return nil, fmt.Errorf("%w: scalar is not reduced", ErrInvalidPoint)
	}
	f := new(Fr)
	f.e.SetBytes(be)
	return f, nil
}

// FrFromBigInt returns i modulo the field order, negative values are
// accepted.
func FrFromBigInt(i *big.Int) *Fr {
	f := new(Fr)
	f.e.SetBigInt(i)
	return f
}

// Bytes returns the little-endian scalar.
func (f *Fr) Bytes() []byte {
	be := f.e.Bytes()
	res := make([]byte, FrSize)
	for i := range be {
		res[FrSize-1-i] = be[i]
	}
	return res
}

// BigInt returns the canonical integer value of the scalar.
func (f *Fr) BigInt() *big.Int {
	return f.e.BigInt(new(big.Int))
}

// Add returns f+o.
func (f *Fr) Add(o *Fr) *Fr {
	res := new(Fr)
	res.e.Add(&f.e, &o.e)
	return res
}

// Mul returns f*o.
func (f *Fr) Mul(o *Fr) *Fr {
	res := new(Fr)
	res.e.Mul(&f.e, &o.e)
	return res
}

// Neg returns -f.
func (f *Fr) Neg() *Fr {
	res := new(Fr)
	res.e.Neg(&f.e)
	return res
}

// PairingCheck checks whether the product of pairings of the given points is
// the identity. Empty lists are trivially valid.
func PairingCheck(g1 []*G1, g2 []*G2) (bool, error) {
	if len(g1) != len(g2) {
		return false, fmt.Errorf("%w: %d g1 points for %d g2 points", ErrInvalidPoint, len(g1), len(g2))
	}
	if len(g1) == 0 {
		return true, nil
	}
	p := make([]bls12381.G1Affine, len(g1))
	q := make([]bls12381.G2Affine, len(g2))
	for i := range g1 {
		p[i] = g1[i].p
		q[i] = g2[i].p
	}
	return bls12381.PairingCheck(p, q)
}
