// Package token issues and verifies signed, expiring identity tokens.
//
// Tokens are stateless: nothing is stored server-side, and verification
// reconstructs the claims from the token itself. There is no revocation;
// an issued token stays valid until its natural expiry. Key rotation is a
// noted future requirement and out of scope here.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the default token lifetime.
const DefaultTTL = time.Hour

// Claims is the signed token payload: the username plus issuance and expiry
// times carried in the registered claims.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Config holds configuration for the token service.
type Config struct {
	// Secret is the HMAC signing key. Process-wide secret state, configured
	// at startup.
	Secret string

	// TTL is the token lifetime. Defaults to DefaultTTL when zero.
	TTL time.Duration

	// ClockSkew allows for clock differences between servers.
	ClockSkew time.Duration
}

// Service signs and verifies tokens with HMAC-SHA256.
type Service struct {
	secret    []byte
	ttl       time.Duration
	clockSkew time.Duration
}

// NewService creates a new token service.
func NewService(cfg *Config) *Service {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret:    []byte(cfg.Secret),
		ttl:       ttl,
		clockSkew: cfg.ClockSkew,
	}
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for the username with the configured TTL.
func (s *Service) Issue(username string) (string, error) {
	return s.IssueWithTTL(username, s.ttl)
}

// IssueWithTTL creates a signed token with an explicit lifetime.
func (s *Service) IssueWithTTL(username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token, returning its claims. Failures are
// one of ErrTokenExpired, ErrTokenInvalidSig, or ErrTokenMalformed.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalidSig
		}
		return s.secret, nil
	}, jwt.WithLeeway(s.clockSkew))
	if err != nil {
		return nil, mapJWTError(err)
	}
	if !tok.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// mapJWTError maps JWT library errors to this package's error types.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrSignatureInvalid),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenInvalidSig
	default:
		return ErrTokenMalformed
	}
}
