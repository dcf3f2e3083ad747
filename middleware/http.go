package middleware

import (
	"context"
	"net/http"

	"github.com/gatekit/gatekit/token"
)

// AccessChecker verifies a token and returns its claims. Implemented by
// *gatekit.Service; every verification failure is expected to arrive
// already collapsed to a single unauthorized outcome.
type AccessChecker interface {
	CheckAccess(ctx context.Context, tokenString string) (*token.Claims, error)
}

// Authenticate creates a middleware that requires a valid token. On success
// the decoded claims and username are attached to the request context; on
// any failure the response is a uniform 401.
func Authenticate(checker AccessChecker, cfg *Config) func(http.Handler) http.Handler {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := cfg.TokenExtractor(r)
			if tok == "" {
				cfg.OnMissing(w, r)
				return
			}

			claims, err := checker.CheckAccess(r.Context(), tok)
			if err != nil {
				cfg.OnInvalid(w, r)
				return
			}

			ctx := SetClaims(r.Context(), claims)
			ctx = SetUsername(ctx, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
