// Package cryptox derives and compares password credentials.
package cryptox

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"

	"github.com/dmitrijs2005/tasksync/internal/common"
)

// Argon2id work factor. Changing any of these invalidates every stored hash.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// DeriveKey runs Argon2id over password and salt and returns a
// common.HashSize-byte key.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, common.HashSize)
}

// HashPassword computes the stored credential for password under salt.
func HashPassword(password string, salt [common.SaltSize]byte) [common.HashSize]byte {
	var out [common.HashSize]byte
	key := DeriveKey([]byte(password), salt[:])
	copy(out[:], key)
	common.WipeByteArray(key)
	return out
}

// NewSalt returns a fresh random salt.
func NewSalt() [common.SaltSize]byte {
	var salt [common.SaltSize]byte
	copy(salt[:], common.GenerateRandByteArray(common.SaltSize))
	return salt
}

// Equal compares two hashes in constant time.
func Equal(a, b [common.HashSize]byte) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}
