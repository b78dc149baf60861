/*
Package address encodes and decodes base58check identifiers carrying a
type-specific prefix: account and contract addresses, key hashes, public
keys, signatures and chain identifiers.
*/
package address

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/michelson-go/pkg/encoding/base58"
)

// Prefix is a human-readable identifier prefix with its binary counterpart.
type Prefix struct {
	Name  string
	Bytes []byte
	// Size is the length of the payload following the prefix.
	Size int
}

// Known prefixes.
var (
	TZ1        = Prefix{"tz1", []byte{6, 161, 159}, 20}
	TZ2        = Prefix{"tz2", []byte{6, 161, 161}, 20}
	TZ3        = Prefix{"tz3", []byte{6, 161, 164}, 20}
	KT1        = Prefix{"KT1", []byte{2, 90, 121}, 20}
	EdPK       = Prefix{"edpk", []byte{13, 15, 37, 217}, 32}
	SpPK       = Prefix{"sppk", []byte{3, 254, 226, 86}, 33}
	P2PK       = Prefix{"p2pk", []byte{3, 178, 139, 127}, 33}
	EdSig      = Prefix{"edsig", []byte{9, 245, 205, 134, 18}, 64}
	SpSig      = Prefix{"spsig1", []byte{13, 115, 101, 19, 63}, 64}
	P2Sig      = Prefix{"p2sig", []byte{54, 240, 44, 52}, 64}
	GenericSig = Prefix{"sig", []byte{4, 130, 43}, 64}
	ChainID    = Prefix{"Net", []byte{87, 82, 0}, 4}
)

var (
	// ErrInvalidPrefix is returned when the identifier doesn't have any of
	// the expected prefixes.
	ErrInvalidPrefix = errors.New("invalid prefix")
	// ErrInvalidLength is returned when the decoded payload has a wrong size.
	ErrInvalidLength = errors.New("invalid length")
)

// Tags of the binary forms, the position in these lists is the tag.
var (
	keyHashPrefixes = []Prefix{TZ1, TZ2, TZ3}
	keyPrefixes     = []Prefix{EdPK, SpPK, P2PK}
)

// Encode returns the base58check representation of the payload with the
// given prefix.
func Encode(p Prefix, payload []byte) string {
	b := make([]byte, 0, len(p.Bytes)+len(payload))
	b = append(b, p.Bytes...)
	b = append(b, payload...)
	return base58.CheckEncode(b)
}

// Decode decodes s which must be encoded with one of the given prefixes and
// returns the matching prefix together with the payload.
func Decode(s string, prefixes ...Prefix) (Prefix, []byte, error) {
	for _, p := range prefixes {
		if !strings.HasPrefix(s, p.Name) {
			continue
		}
		b, err := base58.CheckDecode(s)
		if err != nil {
			return Prefix{}, nil, err
		}
		if !bytes.HasPrefix(b, p.Bytes) {
			return Prefix{}, nil, fmt.Errorf("%w: %s", ErrInvalidPrefix, s)
		}
		b = b[len(p.Bytes):]
		if len(b) != p.Size {
			return Prefix{}, nil, fmt.Errorf("%w: %s payload is %d bytes", ErrInvalidLength, p.Name, len(b))
		}
		return p, b, nil
	}
	return Prefix{}, nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, s)
}

// DecodeAddress converts an address with an optional "%entrypoint" suffix
// into its 22-byte binary form followed by the entrypoint name. Implicit
// accounts are encoded as 0x00, key hash tag and hash, originated contracts
// as 0x01, hash and a zero padding byte.
func DecodeAddress(s string) ([]byte, error) {
	var entrypoint string
	if i := strings.IndexByte(s, '%'); i >= 0 {
		s, entrypoint = s[:i], s[i+1:]
	}
	p, payload, err := Decode(s, TZ1, TZ2, TZ3, KT1)
	if err != nil {
		return nil, err
	}
	res := make([]byte, 0, 22+len(entrypoint))
	if p.Name == KT1.Name {
		res = append(res, 0x01)
		res = append(res, payload...)
		res = append(res, 0x00)
	} else {
		res = append(res, 0x00, prefixTag(keyHashPrefixes, p))
		res = append(res, payload...)
	}
	return append(res, entrypoint...), nil
}

// EncodeAddress is the inverse of DecodeAddress.
func EncodeAddress(b []byte) (string, error) {
	if len(b) < 22 {
		return "", fmt.Errorf("%w: address is %d bytes", ErrInvalidLength, len(b))
	}
	var res string
	switch b[0] {
	case 0x00:
		if int(b[1]) >= len(keyHashPrefixes) {
			return "", fmt.Errorf("%w: unknown key hash tag %d", ErrInvalidPrefix, b[1])
		}
		res = Encode(keyHashPrefixes[b[1]], b[2:22])
	case 0x01:
		if b[21] != 0 {
			return "", fmt.Errorf("%w: bad contract padding", ErrInvalidPrefix)
		}
		res = Encode(KT1, b[1:21])
	default:
		return "", fmt.Errorf("%w: unknown address tag %d", ErrInvalidPrefix, b[0])
	}
	if len(b) > 22 {
		res += "%" + string(b[22:])
	}
	return res, nil
}

// IsImplicit checks whether the address belongs to an implicit account.
func IsImplicit(s string) bool {
	return strings.HasPrefix(s, TZ1.Name) || strings.HasPrefix(s, TZ2.Name) ||
		strings.HasPrefix(s, TZ3.Name)
}

// DecodeKeyHash converts a key hash into its 21-byte tagged binary form.
func DecodeKeyHash(s string) ([]byte, error) {
	p, payload, err := Decode(s, keyHashPrefixes...)
	if err != nil {
		return nil, err
	}
	return append([]byte{prefixTag(keyHashPrefixes, p)}, payload...), nil
}

// EncodeKeyHash is the inverse of DecodeKeyHash.
func EncodeKeyHash(b []byte) (string, error) {
	return encodeTagged(keyHashPrefixes, b)
}

// DecodeKey converts a public key into its tagged binary form.
func DecodeKey(s string) ([]byte, error) {
	p, payload, err := Decode(s, keyPrefixes...)
	if err != nil {
		return nil, err
	}
	return append([]byte{prefixTag(keyPrefixes, p)}, payload...), nil
}

// EncodeKey is the inverse of DecodeKey.
func EncodeKey(b []byte) (string, error) {
	return encodeTagged(keyPrefixes, b)
}

// KeyHashPrefix returns the key hash prefix matching the key tag.
func KeyHashPrefix(keyTag byte) (Prefix, error) {
	if int(keyTag) >= len(keyHashPrefixes) {
		return Prefix{}, fmt.Errorf("%w: unknown key tag %d", ErrInvalidPrefix, keyTag)
	}
	return keyHashPrefixes[keyTag], nil
}

// DecodeSignature returns the raw 64 bytes of any kind of signature.
func DecodeSignature(s string) ([]byte, error) {
	_, payload, err := Decode(s, EdSig, SpSig, P2Sig, GenericSig)
	return payload, err
}

// EncodeSignature encodes a raw signature with the generic prefix.
func EncodeSignature(b []byte) (string, error) {
	if len(b) != GenericSig.Size {
		return "", fmt.Errorf("%w: signature is %d bytes", ErrInvalidLength, len(b))
	}
	return Encode(GenericSig, b), nil
}

// DecodeChainID returns the 4-byte chain identifier.
func DecodeChainID(s string) ([]byte, error) {
	_, payload, err := Decode(s, ChainID)
	return payload, err
}

// EncodeChainID is the inverse of DecodeChainID.
func EncodeChainID(b []byte) (string, error) {
	if len(b) != ChainID.Size {
		return "", fmt.Errorf("%w: chain id is %d bytes", ErrInvalidLength, len(b))
	}
	return Encode(ChainID, b), nil
}

func prefixTag(ps []Prefix, p Prefix) byte {
	for i := range ps {
		if ps[i].Name == p.Name {
			return byte(i)
		}
	}
	panic("unknown prefix " + p.Name)
}

func encodeTagged(ps []Prefix, b []byte) (string, error) {
	if len(b) == 0 || int(b[0]) >= len(ps) {
		return "", fmt.Errorf("%w: bad tag", ErrInvalidPrefix)
	}
	p := ps[b[0]]
	if len(b)-1 != p.Size {
		return "", fmt.Errorf("%w: %s payload is %d bytes", ErrInvalidLength, p.Name, len(b)-1)
	}
	return Encode(p, b[1:]), nil
}
