// Package cryptox wraps the password hashing scheme used for stored
// credentials. Hashes are bcrypt strings, salted per password; they are
// compared in constant time and never decrypted.
package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

var (
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
	ErrMismatch        = errors.New("password does not match")
)

// Hasher hashes and checks passwords at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher for cost. Out-of-range costs fall back to
// DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Cost reports the work factor new hashes are created with.
func (h *Hasher) Cost() int { return h.cost }

// Hash returns the bcrypt hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare checks password against hash. It returns ErrMismatch when the
// password is wrong and another error when hash is not a valid bcrypt hash.
// Passwords longer than MaxPasswordBytes never match: Hash refuses them, and
// bcrypt would otherwise compare only their first 72 bytes.
func (h *Hasher) Compare(hash, password string) error {
	if len(password) > MaxPasswordBytes {
		return ErrMismatch
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}

// Wipe zeroes b. Callers holding a password in a byte slice should wipe it
// once it has been sent or hashed.
func Wipe(b []byte) {
	clear(b)
}
