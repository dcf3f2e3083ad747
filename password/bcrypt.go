package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the default bcrypt work factor. Hashing at this cost
// takes on the order of hundreds of milliseconds on current hardware.
const DefaultBcryptCost = 12

// BcryptConfig holds the configuration for bcrypt hashing.
type BcryptConfig struct {
	// Cost is the bcrypt cost factor (4-31). Higher is slower and stronger.
	Cost int
}

// DefaultBcryptConfig returns secure default parameters for bcrypt.
func DefaultBcryptConfig() *BcryptConfig {
	return &BcryptConfig{Cost: DefaultBcryptCost}
}

// BcryptHasher implements the Hasher interface using bcrypt.
//
// bcrypt only reads the first 72 bytes of a password; Hash rejects longer
// inputs rather than silently truncating them. Services that accept
// passwords above that length should use Argon2Hasher instead.
type BcryptHasher struct {
	config *BcryptConfig
}

// NewBcryptHasher creates a new bcrypt hasher with the given configuration.
// If config is nil, DefaultBcryptConfig is used. Cost is clamped to the
// library's valid range.
func NewBcryptHasher(config *BcryptConfig) *BcryptHasher {
	if config == nil {
		config = DefaultBcryptConfig()
	}
	if config.Cost < bcrypt.MinCost {
		config.Cost = bcrypt.MinCost
	}
	if config.Cost > bcrypt.MaxCost {
		config.Cost = bcrypt.MaxCost
	}
	return &BcryptHasher{config: config}
}

// Hash creates a bcrypt hash from a password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.config.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify checks if a password matches a bcrypt hash.
func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		// Anything other than a mismatch means the stored hash is unusable.
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	return true, nil
}

// NeedsRehash checks if a hash was created with a different cost.
func (h *BcryptHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost != h.config.Cost
}

var _ Hasher = (*BcryptHasher)(nil)
