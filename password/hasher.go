// Package password provides password hashing and verification.
//
// Hashing is deliberately CPU-bound and slow; that is a security property of
// the algorithms, not a performance bug. Hash output must never be logged,
// returned in a response, or compared with non-constant-time equality.
package password

import "errors"

// ErrMalformedHash is returned by Verify when the stored hash cannot be
// parsed. A mismatching password is not an error; it returns (false, nil).
var ErrMalformedHash = errors.New("malformed password hash")

// Hasher defines the interface for password hashing algorithms.
type Hasher interface {
	// Hash creates a salted hash from a password. Output differs between
	// calls for the same input because the salt is random.
	Hash(password string) (string, error)

	// Verify checks if a password matches a hash. Returns (true, nil) on
	// match, (false, nil) on mismatch, and (false, ErrMalformedHash) when
	// the hash input cannot be parsed.
	Verify(password, hash string) (bool, error)

	// NeedsRehash checks if a hash was created with different parameters
	// than the hasher is currently configured with.
	NeedsRehash(hash string) bool
}
