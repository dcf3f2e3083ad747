package gatekit

import (
	"log/slog"
	"time"

	"github.com/gatekit/gatekit/password"
	"github.com/gatekit/gatekit/ratelimit"
	"github.com/gatekit/gatekit/store"
)

// Option configures a Service.
type Option func(*Service)

// WithSecret sets the token signing secret. Required.
func WithSecret(secret string) Option {
	return func(s *Service) {
		s.cfg.Secret = secret
	}
}

// WithStore sets the credential store. Required.
func WithStore(st store.Store) Option {
	return func(s *Service) {
		s.store = st
	}
}

// WithTokenTTL sets the token lifetime. Defaults to DefaultTokenTTL.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.cfg.TokenTTL = ttl
	}
}

// WithClockSkew sets the leeway allowed when verifying token expiry.
func WithClockSkew(skew time.Duration) Option {
	return func(s *Service) {
		s.cfg.ClockSkew = skew
	}
}

// WithLoginLimit sets the login attempt limit per client per window.
// Ignored when a custom limiter is supplied via WithLimiter.
func WithLoginLimit(limit int, window time.Duration) Option {
	return func(s *Service) {
		s.cfg.LoginLimit = limit
		s.cfg.LoginWindow = window
	}
}

// WithHasher sets the password hashing algorithm.
// Defaults to Argon2id with OWASP parameters.
func WithHasher(h password.Hasher) Option {
	return func(s *Service) {
		s.hasher = h
	}
}

// WithLimiter sets the login throttle backend.
// Defaults to an in-memory fixed-window limiter built from the config.
func WithLimiter(l ratelimit.Limiter) Option {
	return func(s *Service) {
		s.limiter = l
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}
