package auth

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is fixed high enough to resist offline brute force.
const bcryptCost = 12

// HashPassword derives a salted bcrypt hash from the plaintext password.
// It only fails on internal errors, never on input shape.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored hash. Any
// verification error, including a malformed hash, reads as "no match";
// callers never learn which case applied.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// LookupHash returns the md5 hex digest of the trimmed, lowercased email.
// It is a deterministic, non-secret correlation key for public avatar
// lookups; collisions are tolerable and it must never gate access.
func LookupHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}
