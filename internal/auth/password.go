// password.go wraps bcrypt hashing and verification for user credentials. Only the
// hash is ever stored; the cost parameters are embedded in the hash string itself so
// verification remains stable across restarts and cost changes.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a password does not match the stored hash.
// Callers must surface it identically to an unknown account so that login responses
// never reveal whether an email exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares plaintext against a stored bcrypt hash. The comparison is
// constant time inside bcrypt. Any failure — mismatch or malformed hash — collapses
// to ErrInvalidCredentials.
func VerifyPassword(storedHash, plaintext string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
