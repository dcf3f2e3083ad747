package gatekit

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error codes for categorizing errors at the service boundary.
const (
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeDuplicateUsername  = "DUPLICATE_USERNAME"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeRateLimited        = "RATE_LIMITED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeStorageFailed      = "STORAGE_FAILED"
	CodeCorruptHash        = "CORRUPT_HASH"
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeStoreRequired      = "STORE_REQUIRED"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrDuplicateUsername is returned when a signup reuses an existing username.
	ErrDuplicateUsername = errors.New("username is taken")

	// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
	// The two causes are deliberately indistinguishable to prevent username
	// enumeration.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrRateLimited is returned when a client exceeds the login attempt limit.
	ErrRateLimited = errors.New("too many login attempts")

	// ErrUnauthorized covers every token failure: expired, bad signature, and
	// malformed tokens all collapse to this one outcome.
	ErrUnauthorized = errors.New("token expired or invalid")

	// ErrUserNotFound is returned when a valid token references a user record
	// that no longer exists.
	ErrUserNotFound = errors.New("cannot find user")

	// ErrStorage indicates the credential store failed. The underlying cause
	// is logged server-side and never returned to clients.
	ErrStorage = errors.New("storage operation failed")

	// ErrCorruptHash indicates a stored password hash could not be parsed.
	ErrCorruptHash = errors.New("stored password hash is corrupt")

	// ErrConfigInvalid indicates the service configuration is invalid.
	ErrConfigInvalid = errors.New("configuration is invalid")

	// ErrStoreRequired is returned by New when no credential store is provided.
	ErrStoreRequired = errors.New("credential store is required")
)

// AuthError is a structured error type that includes an error code and
// optional wrapped error. All failures cross the service boundary as an
// AuthError (or a ValidationError); internal errors from lower components
// never escape unwrapped.
type AuthError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new AuthError with the given code, message, and
// optional wrapped error.
func NewAuthError(code, message string, err error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError reports every syntactic rule a signup or login request
// violated, not just the first.
type ValidationError struct {
	Violations []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// RateLimitError wraps ErrRateLimited with the throttle state the transport
// layer surfaces in Retry-After and X-RateLimit-* headers.
type RateLimitError struct {
	// Limit is the number of attempts allowed per window.
	Limit int

	// Remaining is the number of attempts left in the current window.
	// Always zero on a denied attempt.
	Remaining int

	// ResetAt is when the client's window resets. Zero when the limiter
	// backend cannot report it.
	ResetAt time.Time

	// RetryAfter is the time until the client's window resets.
	// Zero when the limiter backend cannot report it.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("too many login attempts, retry in %s", e.RetryAfter.Round(time.Second))
	}
	return ErrRateLimited.Error()
}

// Unwrap lets errors.Is(err, ErrRateLimited) match.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}
