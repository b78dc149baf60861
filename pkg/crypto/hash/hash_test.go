package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigests(t *testing.T) {
	// Digests of the empty input.
	testCases := map[string]struct {
		f        func([]byte) []byte
		expected string
	}{
		"sha256":     {Sha256, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		"sha512":     {Sha512, "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e"},
		"blake2b256": {Blake2b256, "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"},
		"keccak256":  {Keccak256, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
		"sha3":       {Sha3, "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.expected, hex.EncodeToString(tc.f(nil)))
		})
	}
}

func TestDoubleSha256(t *testing.T) {
	data := []byte("hello")
	assert.Equal(t, Sha256(Sha256(data)), DoubleSha256(data))
	assert.Equal(t, DoubleSha256(data)[:4], Checksum(data))
}

func TestBlake2b160(t *testing.T) {
	h := Blake2b160([]byte("abc"))
	require.Len(t, h, 20)
	require.NotEqual(t, Blake2b256([]byte("abc"))[:20], h)
}
