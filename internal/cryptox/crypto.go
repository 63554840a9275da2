// Package cryptox implements password hashing for the identity authority.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/teamdeck/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltSize = 16
	KeySize  = 32
)

// HashPassword derives an argon2id key from password and salt.
func HashPassword(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// NewPasswordHash draws a fresh random salt and returns it together with the
// derived hash.
func NewPasswordHash(password []byte) (salt []byte, hash []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	return salt, HashPassword(password, salt)
}

// VerifyPassword reports whether password hashes to hash under salt. The
// comparison runs in constant time.
func VerifyPassword(password, salt, hash []byte) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}
