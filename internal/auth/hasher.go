package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used for stored password hashes.
const DefaultBcryptCost = 12

// bcrypt only reads the first 72 bytes of its input
const bcryptMaxInput = 72

var ErrEmptyPassword = errors.New("auth: password cannot be empty")

// hashes and verifies stored secrets
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) bool
}

// PasswordHasher backed by bcrypt
type BcryptHasher struct {
	cost int
}

// creates a bcrypt hasher; out of range costs fall back to DefaultBcryptCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}

	return &BcryptHasher{cost: cost}
}

// the configured work factor
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// produces a salted hash of plaintext, whatever it looks like
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	hashed, err := bcrypt.GenerateFromPassword(truncate(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}

	return string(hashed), nil
}

// hashes value unless it is already a bcrypt hash; only for importing stored
// credentials, never for passwords a user submits
func (h *BcryptHasher) HashIfNeeded(value string) (string, error) {
	if IsHashed(value) {
		return value, nil
	}

	return h.Hash(value)
}

// reports whether plaintext matches hashed; malformed hashes never match
func (h *BcryptHasher) Verify(plaintext, hashed string) bool {
	if plaintext == "" || !IsHashed(hashed) {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hashed), truncate(plaintext)) == nil
}

// reports whether value already looks like a bcrypt hash
func IsHashed(value string) bool {
	if len(value) != 60 {
		return false
	}

	return strings.HasPrefix(value, "$2a$") ||
		strings.HasPrefix(value, "$2b$") ||
		strings.HasPrefix(value, "$2y$")
}

func truncate(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > bcryptMaxInput {
		b = b[:bcryptMaxInput]
	}

	return b
}
