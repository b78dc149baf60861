package keys

import (
	"bytes"
	"crypto/elliptic"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nspcc-dev/michelson-go/pkg/crypto/hash"
	"github.com/nspcc-dev/michelson-go/pkg/encoding/address"
)

// Curve identifies the signature scheme of the key, its value is the tag
// used by the binary key encoding.
type Curve byte

// Supported curves.
const (
	Ed25519 Curve = iota
	Secp256k1
	P256
)

// ErrInvalidKey is returned for keys not representing a valid curve point.
var ErrInvalidKey = errors.New("invalid public key")

// PublicKey is a public key of one of the supported curves.
type PublicKey struct {
	Curve Curve
	data  []byte
}

// String implements the fmt.Stringer interface.
func (c Curve) String() string {
	switch c {
	case Ed25519:
		return "ed25519"
	case Secp256k1:
		return "secp256k1"
	case P256:
		return "p256"
	default:
		return fmt.Sprintf("Curve(%d)", byte(c))
	}
}

// NewPublicKeyFromString decodes a base58check public key (edpk, sppk or
// p2pk).
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := address.DecodeKey(s)
	if err != nil {
		return nil, err
	}
	return NewPublicKeyFromBytes(b)
}

// NewPublicKeyFromBytes decodes a tagged binary public key and checks that
// it represents a valid point.
func NewPublicKeyFromBytes(b []byte) (*PublicKey, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	p := &PublicKey{Curve: Curve(b[0]), data: append([]byte{}, b[1:]...)}
	switch p.Curve {
	case Ed25519:
		if len(p.data) != address.EdPK.Size {
			return nil, fmt.Errorf("%w: ed25519 key is %d bytes", ErrInvalidKey, len(p.data))
		}
	case Secp256k1:
		if _, err := secp256k1.ParsePubKey(p.data); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidKey, err)
		}
	case P256:
		if len(p.data) != address.P2PK.Size {
			return nil, fmt.Errorf("%w: p256 key is %d bytes", ErrInvalidKey, len(p.data))
		}
		if x, _ := elliptic.UnmarshalCompressed(elliptic.P256(), p.data); x == nil {
			return nil, fmt.Errorf("%w: not a p256 point", ErrInvalidKey)
		}
	default:
		return nil, fmt.Errorf("%w: unknown curve %d", ErrInvalidKey, b[0])
	}
	return p, nil
}

// Bytes returns the tagged binary form of the key.
func (p *PublicKey) Bytes() []byte {
	return append([]byte{byte(p.Curve)}, p.data...)
}

// String returns the base58check form of the key.
func (p *PublicKey) String() string {
	s, _ := address.EncodeKey(p.Bytes())
	return s
}

// Hash returns the tagged binary key hash, i.e. the curve tag followed by
// the Blake2b-160 digest of the key.
func (p *PublicKey) Hash() []byte {
	return append([]byte{byte(p.Curve)}, hash.Blake2b160(p.data)...)
}

// KeyHash returns the base58check key hash (tz1, tz2 or tz3).
func (p *PublicKey) KeyHash() string {
	s, _ := address.EncodeKeyHash(p.Hash())
	return s
}

// Equal returns true in case public keys are equal.
func (p *PublicKey) Equal(key *PublicKey) bool {
	return p.Cmp(key) == 0
}

// Cmp compares two keys by their binary forms.
func (p *PublicKey) Cmp(key *PublicKey) int {
	return bytes.Compare(p.Bytes(), key.Bytes())
}
