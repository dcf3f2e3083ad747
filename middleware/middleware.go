// Package middleware provides HTTP middleware for gatekit authentication.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gatekit/gatekit/token"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing verified token claims.
	ClaimsKey contextKey = "gatekit_claims"
	// UsernameKey is the context key for storing the authenticated username.
	UsernameKey contextKey = "gatekit_username"
)

// TokenExtractor extracts a token from an HTTP request.
type TokenExtractor func(r *http.Request) string

// ErrorHandler handles authentication errors.
type ErrorHandler func(w http.ResponseWriter, r *http.Request)

// Config holds middleware configuration.
type Config struct {
	// TokenExtractor extracts the token from the request.
	// Defaults to the raw Authorization header with an optional Bearer prefix.
	TokenExtractor TokenExtractor

	// OnMissing handles requests without a token.
	OnMissing ErrorHandler

	// OnInvalid handles requests whose token failed verification.
	OnInvalid ErrorHandler
}

// DefaultConfig returns a default middleware configuration.
func DefaultConfig() *Config {
	return &Config{
		TokenExtractor: ExtractAuthorization(),
		OnMissing: func(w http.ResponseWriter, r *http.Request) {
			writeUnauthorized(w, "Please login to proceed")
		},
		OnInvalid: func(w http.ResponseWriter, r *http.Request) {
			writeUnauthorized(w, "Token expired or invalid")
		},
	}
}

// ExtractAuthorization returns a TokenExtractor reading the Authorization
// header. The token is carried raw; a conventional "Bearer " prefix is
// normalized away if a client sends one.
func ExtractAuthorization() TokenExtractor {
	return func(r *http.Request) string {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			return ""
		}
		const prefix = "Bearer "
		if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
			return auth[len(prefix):]
		}
		return auth
	}
}

// writeUnauthorized writes a 401 with a JSON message body.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// SetClaims stores claims in the request context.
func SetClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetClaims retrieves claims from the context, or nil.
func GetClaims(ctx context.Context) *token.Claims {
	if v := ctx.Value(ClaimsKey); v != nil {
		if c, ok := v.(*token.Claims); ok {
			return c
		}
	}
	return nil
}

// SetUsername stores an authenticated username in the request context.
func SetUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, UsernameKey, username)
}

// GetUsername retrieves the authenticated username from the context, or "".
func GetUsername(ctx context.Context) string {
	if v := ctx.Value(UsernameKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
