package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyPassword = errors.New("password must not be empty")

// Hasher turns plaintext passwords into salted bcrypt credentials and checks them.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, credential string) bool
}

type bcryptHasher struct {
	cost int
}

// NewHasher returns a bcrypt Hasher. Costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

// Hash generates a bcrypt hash; the random salt is embedded in the result.
func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches credential. A malformed credential is a mismatch.
func (h *bcryptHasher) Verify(plaintext, credential string) bool {
	return bcrypt.CompareHashAndPassword([]byte(credential), []byte(plaintext)) == nil
}
