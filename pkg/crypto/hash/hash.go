package hash

import (
	"crypto/sha256"
	"crypto/sha512"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Sha256 hashes the incoming byte slice using the sha256 algorithm.
func Sha256(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// DoubleSha256 performs sha256 twice on the given data.
func DoubleSha256(data []byte) []byte {
	return Sha256(Sha256(data))
}

// Sha512 hashes the incoming byte slice using the sha512 algorithm.
func Sha512(data []byte) []byte {
	h := sha512.Sum512(data)
	return h[:]
}

// Blake2b256 returns the 32-byte Blake2b digest of the data.
func Blake2b256(data []byte) []byte {
	h := blake2b.Sum256(data)
	return h[:]
}

// Blake2b160 returns the 20-byte Blake2b digest of the data, it's used for
// public key hashes and contract addresses.
func Blake2b160(data []byte) []byte {
	h, _ := blake2b.New(20, nil) // Never errors for sizes up to 64 without a key.
	h.Write(data)
	return h.Sum(nil)
}

// Keccak256 returns the legacy (pre-standard) Keccak-256 digest.
func Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// Sha3 returns the SHA3-256 digest of the data.
func Sha3(data []byte) []byte {
	h := sha3.Sum256(data)
	return h[:]
}

// Checksum returns the checksum for a given piece of data
// using sha256 twice as the hash algorithm.
func Checksum(data []byte) []byte {
	return DoubleSha256(data)[:4]
}
