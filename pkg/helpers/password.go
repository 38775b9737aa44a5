package helpers

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrCryptoUnavailable is returned when the hash primitive itself fails.
// Credentials are never processed with a weaker fallback.
var ErrCryptoUnavailable = errors.New("password hashing unavailable")

// Hasher derives and checks bcrypt digests at a fixed cost.
type Hasher struct {
	Cost int
}

// NewHasher builds a Hasher; costs outside bcrypt's range fall back to the
// library default (10).
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{Cost: cost}
}

// Hash derives a salted digest of the plain text password. The salt is drawn
// per call, so hashing the same input twice yields different digests.
func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}
	return string(b), nil
}

// Verify compares a bcrypt digest with a plain password. Malformed digests
// fail the check rather than erroring.
func (h *Hasher) Verify(digest, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
