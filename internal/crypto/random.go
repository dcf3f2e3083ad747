// Package crypto provides cryptographic utilities.
package crypto

import (
	"crypto/rand"
	"math/big"
)

// RandomInt returns a uniformly distributed random integer in [0, max).
func RandomInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
