// Package gatekit provides credential-based authentication: signup with a
// hashed password, short-lived bearer tokens on login, token validation for
// protected routes, and login attempt throttling.
//
// Basic usage:
//
//	svc, err := gatekit.New(
//	    gatekit.WithSecret("your-256-bit-secret"),
//	    gatekit.WithStore(fileStore),
//	)
//
// The Service is the component an HTTP layer calls into; handlers translate
// its errors to status codes and never see the internals of the store,
// hasher, token service, or throttle.
package gatekit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gatekit/gatekit/internal/crypto"
	"github.com/gatekit/gatekit/password"
	"github.com/gatekit/gatekit/ratelimit"
	"github.com/gatekit/gatekit/store"
	"github.com/gatekit/gatekit/token"
)

// Service composes the credential store, password hasher, token service, and
// login throttle into the signup, login, logout, and access-check flows.
type Service struct {
	cfg     *Config
	store   store.Store
	hasher  password.Hasher
	tokens  *token.Service
	limiter ratelimit.Limiter
	log     *slog.Logger
}

// New creates a Service with the given options. At minimum, WithSecret and
// WithStore must be provided.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		cfg: NewConfig(),
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, ErrStoreRequired
	}
	if s.hasher == nil {
		s.hasher = password.NewArgon2Hasher(nil)
	}
	if s.limiter == nil {
		s.limiter = ratelimit.NewMemoryLimiter(s.cfg.LoginLimit, s.cfg.LoginWindow)
	}
	s.tokens = token.NewService(&token.Config{
		Secret:    s.cfg.Secret,
		TTL:       s.cfg.TokenTTL,
		ClockSkew: s.cfg.ClockSkew,
	})

	return s, nil
}

// Signup registers a new user. It validates the credential policy (reporting
// every violated rule), hashes the password, assigns a random lucky number,
// and appends the record. The uniqueness check happens inside the store's
// critical section, so concurrent signups for one username cannot both
// succeed.
func (s *Service) Signup(ctx context.Context, username, password string) error {
	if err := ValidateSignup(username, password); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error("password hashing failed", "error", err)
		return NewAuthError(CodeStorageFailed, "could not create user", ErrStorage)
	}

	lucky, err := crypto.RandomInt(100)
	if err != nil {
		s.log.Error("lucky number generation failed", "error", err)
		return NewAuthError(CodeStorageFailed, "could not create user", ErrStorage)
	}

	rec := &store.UserRecord{
		Username:     username,
		PasswordHash: hash,
		LuckyNumber:  lucky,
	}
	if err := s.store.Append(ctx, rec); err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return NewAuthError(CodeDuplicateUsername, "username is taken", ErrDuplicateUsername)
		}
		s.log.Error("credential append failed", "username", username, "error", err)
		return NewAuthError(CodeStorageFailed, "could not create user", ErrStorage)
	}

	s.log.Info("user registered", "username", username)
	return nil
}

// Login authenticates a user and issues a token. The throttle check comes
// first, before any validation or hashing work, so the limit holds
// unconditionally and denied attempts burn no CPU. Unknown usernames and
// wrong passwords produce the same failure.
func (s *Service) Login(ctx context.Context, clientKey, username, password string) (string, error) {
	allowed, err := s.limiter.Allow(ctx, clientKey)
	if err != nil {
		// A broken throttle backend must not lock everyone out.
		s.log.Warn("login throttle check failed, allowing request", "error", err)
		allowed = true
	}
	if !allowed {
		s.log.Info("login throttled", "client", clientKey)
		return "", s.rateLimitError(clientKey)
	}

	if err := ValidateLogin(username, password); err != nil {
		return "", err
	}

	rec, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		s.log.Error("credential lookup failed", "error", err)
		return "", NewAuthError(CodeStorageFailed, "could not log in", ErrStorage)
	}
	if rec == nil {
		return "", NewAuthError(CodeInvalidCredentials, "invalid username or password", ErrInvalidCredentials)
	}

	ok, err := s.hasher.Verify(password, rec.PasswordHash)
	if err != nil {
		s.log.Error("stored hash unusable", "username", username, "error", err)
		return "", NewAuthError(CodeCorruptHash, "could not log in", ErrCorruptHash)
	}
	if !ok {
		return "", NewAuthError(CodeInvalidCredentials, "invalid username or password", ErrInvalidCredentials)
	}

	tok, err := s.tokens.Issue(username)
	if err != nil {
		s.log.Error("token issuance failed", "error", err)
		return "", NewAuthError(CodeStorageFailed, "could not log in", ErrStorage)
	}
	return tok, nil
}

// rateLimitError builds a RateLimitError carrying the throttle state for the
// transport layer's rate-limit headers, as far as the limiter backend can
// report it.
func (s *Service) rateLimitError(clientKey string) error {
	e := &RateLimitError{Limit: s.cfg.LoginLimit}
	if m, ok := s.limiter.(interface{ Remaining(key string) int }); ok {
		e.Remaining = m.Remaining(clientKey)
	}
	if r, ok := s.limiter.(ratelimit.Resetter); ok {
		resetAt := r.ResetAt(clientKey)
		if d := time.Until(resetAt); d > 0 {
			e.ResetAt = resetAt
			e.RetryAfter = d
		}
	}
	return e
}

// Logout acknowledges a logout. Tokens are stateless and cannot be revoked
// server-side: the client discards its copy, and a previously issued token
// remains valid until natural expiry. This is a deliberate, documented
// limitation. Logout is only reachable behind CheckAccess.
func (s *Service) Logout(ctx context.Context) error {
	return nil
}

// CheckAccess verifies a token and returns its claims. Every verification
// failure collapses to ErrUnauthorized so clients cannot tell an expired
// token from a forged one; the kind is logged server-side.
func (s *Service) CheckAccess(ctx context.Context, tokenString string) (*token.Claims, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		s.log.Debug("token rejected", "reason", err)
		return nil, NewAuthError(CodeUnauthorized, "token expired or invalid", ErrUnauthorized)
	}
	return claims, nil
}

// PrivateResource re-fetches the user record for an authenticated username.
// The record can disappear between token issuance and use; that surfaces as
// ErrUserNotFound rather than a panic deeper in the handler.
func (s *Service) PrivateResource(ctx context.Context, username string) (*store.UserRecord, error) {
	rec, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		s.log.Error("credential lookup failed", "error", err)
		return nil, NewAuthError(CodeStorageFailed, "could not load user", ErrStorage)
	}
	if rec == nil {
		return nil, NewAuthError(CodeUserNotFound, "cannot find user", ErrUserNotFound)
	}
	return rec, nil
}

// Ping verifies the credential store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close releases the limiter and the store.
func (s *Service) Close() error {
	if err := s.limiter.Close(); err != nil {
		return err
	}
	return s.store.Close()
}
