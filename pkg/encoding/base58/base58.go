package base58

import (
	"bytes"
	"errors"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/michelson-go/pkg/crypto/hash"
)

// ErrInvalidChecksum is returned when the checksum of the decoded data doesn't
// match.
var ErrInvalidChecksum = errors.New("invalid base-58 check string: invalid checksum")

// CheckDecode implements base58-encoded string decoding with hash-based
// checksum check.
func CheckDecode(s string) (b []byte, err error) {
	b, err = base58.Decode(s)
	if err != nil {
		return nil, err
	}

	if len(b) < 5 {
		return nil, errors.New("invalid base-58 check string: missing checksum")
	}

	if !bytes.Equal(hash.Checksum(b[:len(b)-4]), b[len(b)-4:]) {
		return nil, ErrInvalidChecksum
	}
	b = b[:len(b)-4]

	return b, nil
}

// CheckEncode encodes b into base-58 string with a checksum appended.
func CheckEncode(b []byte) string {
	b = append(b[:len(b):len(b)], hash.Checksum(b)...)

	return base58.Encode(b)
}
