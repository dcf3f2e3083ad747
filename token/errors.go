package token

import "errors"

// Token verification failures. Callers that face clients should collapse all
// three into a single unauthorized outcome; the distinction exists for
// server-side logging only.
var (
	// ErrTokenExpired indicates the current time is past the encoded expiry.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenMalformed indicates the token could not be parsed.
	ErrTokenMalformed = errors.New("token is malformed")

	// ErrTokenInvalidSig indicates the signature does not match.
	ErrTokenInvalidSig = errors.New("token signature is invalid")
)
