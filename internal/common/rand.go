package common

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
)

// IDSource produces candidate identifiers for users and sessions.
// Stores call it repeatedly when a candidate collides with a live key.
type IDSource func() (uint64, error)

// MaxMintAttempts bounds the collision retry loop of every id-minting store.
// With a 64-bit space the loop practically never runs twice.
const MaxMintAttempts = 16

// RandomUint64 reads a uniformly random 64-bit value from crypto/rand.
func RandomUint64() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// GenerateRandByteArray returns size random bytes. It panics if the system
// random source fails, which only happens on a broken platform.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// MakeRandHexString returns a hex string encoding size random bytes, so the
// result is 2*size characters long.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites b with zeros. Nil is allowed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
