package gatekit

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	// DefaultTokenTTL is how long issued tokens are valid.
	DefaultTokenTTL = time.Hour

	// DefaultLoginLimit is the number of login attempts allowed per window.
	DefaultLoginLimit = 5

	// DefaultLoginWindow is the window for login rate limiting.
	DefaultLoginWindow = 15 * time.Minute

	// MinSecretLength is the minimum required length for the signing secret.
	MinSecretLength = 32
)

// Config holds all configuration for the auth Service. The signing secret is
// explicit configuration loaded once at startup and passed into each
// component, never read from ambient global state.
type Config struct {
	// Secret is the key used for signing tokens.
	Secret string

	// TokenTTL is how long issued tokens are valid.
	TokenTTL time.Duration

	// ClockSkew allows for clock differences when verifying token expiry.
	ClockSkew time.Duration

	// LoginLimit is the number of login attempts allowed per client per window.
	LoginLimit int

	// LoginWindow is the time window for login rate limiting.
	LoginWindow time.Duration
}

// NewConfig creates a Config with default values. The secret has no default
// and must be set by the caller.
func NewConfig() *Config {
	return &Config{
		TokenTTL:    DefaultTokenTTL,
		LoginLimit:  DefaultLoginLimit,
		LoginWindow: DefaultLoginWindow,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("%w: secret is required", ErrConfigInvalid)
	}
	if len(c.Secret) < MinSecretLength {
		return fmt.Errorf("%w: secret must be at least %d characters", ErrConfigInvalid, MinSecretLength)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: token TTL must be positive", ErrConfigInvalid)
	}
	if c.ClockSkew < 0 {
		return fmt.Errorf("%w: clock skew cannot be negative", ErrConfigInvalid)
	}
	if c.LoginLimit <= 0 {
		return fmt.Errorf("%w: login limit must be positive", ErrConfigInvalid)
	}
	if c.LoginWindow <= 0 {
		return fmt.Errorf("%w: login window must be positive", ErrConfigInvalid)
	}
	return nil
}
