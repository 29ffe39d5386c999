// Package password wraps bcrypt behind a small hasher so the rest of the
// code never touches the algorithm directly.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher produces and verifies salted one-way password digests. bcrypt
// generates a fresh random salt per call and embeds salt and cost in the
// output, so two hashes of the same plaintext differ but both verify.
type Hasher struct {
	cost int
}

// New returns a Hasher with the given bcrypt cost. A cost outside bcrypt's
// valid range falls back to the library default.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt digest of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest. Any bcrypt
// error, including a malformed stored hash, reads as a mismatch.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
