// Package gin provides Gin middleware for gatekit authentication, for
// applications that embed the library in a Gin router instead of running
// the bundled chi service.
package gin

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gatekit/gatekit/token"
)

// Context keys used in Gin's per-request store.
const (
	ClaimsKey   = "gatekit_claims"
	UsernameKey = "gatekit_username"
)

// AccessChecker verifies a token and returns its claims.
type AccessChecker interface {
	CheckAccess(ctx context.Context, tokenString string) (*token.Claims, error)
}

// TokenExtractor extracts a token from a Gin context.
type TokenExtractor func(c *gin.Context) string

// Config holds Gin-specific middleware configuration.
type Config struct {
	// TokenExtractor extracts the token from the Gin context.
	// Defaults to the raw Authorization header with an optional Bearer prefix.
	TokenExtractor TokenExtractor

	// ErrorHandler handles authentication failures.
	// Defaults to aborting with a 401 JSON body.
	ErrorHandler func(c *gin.Context, message string)
}

// DefaultConfig returns a default Gin middleware configuration.
func DefaultConfig() *Config {
	return &Config{
		TokenExtractor: ExtractAuthorization(),
		ErrorHandler: func(c *gin.Context, message string) {
			c.AbortWithStatusJSON(401, gin.H{"message": message})
		},
	}
}

// ExtractAuthorization returns a token extractor reading the Authorization
// header, normalizing an optional Bearer prefix.
func ExtractAuthorization() TokenExtractor {
	return func(c *gin.Context) string {
		auth := c.GetHeader("Authorization")
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

// Authenticate creates a Gin middleware that requires a valid token.
func Authenticate(checker AccessChecker, cfg *Config) gin.HandlerFunc {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return func(c *gin.Context) {
		tok := cfg.TokenExtractor(c)
		if tok == "" {
			cfg.ErrorHandler(c, "Please login to proceed")
			return
		}

		claims, err := checker.CheckAccess(c.Request.Context(), tok)
		if err != nil {
			cfg.ErrorHandler(c, "Token expired or invalid")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}

// Claims retrieves verified claims from a Gin context.
func Claims(c *gin.Context) (*token.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}

// Username retrieves the authenticated username from a Gin context.
func Username(c *gin.Context) string {
	if v, exists := c.Get(UsernameKey); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
