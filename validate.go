package gatekit

import "unicode/utf8"

// Syntactic constraints on credentials.
const (
	UsernameMinLen = 2
	UsernameMaxLen = 30
	PasswordMinLen = 8
	PasswordMaxLen = 128
)

// ValidateSignup checks the full credential policy for new accounts and
// reports every violated rule.
func ValidateSignup(username, password string) error {
	var violations []string

	// Length bounds count characters, not bytes, so multibyte input is not
	// penalized before the alphanumeric check gets to reject it.
	if n := utf8.RuneCountInString(username); n < UsernameMinLen || n > UsernameMaxLen {
		violations = append(violations, "Username must be between 2-30 characters")
	}
	if !isAlphanumeric(username) {
		violations = append(violations, "Username must only contain letters and numbers")
	}

	if n := utf8.RuneCountInString(password); n < PasswordMinLen || n > PasswordMaxLen {
		violations = append(violations, "Password must be between 8-128 characters")
	}
	var hasDigit, hasLower, hasUpper bool
	for i := 0; i < len(password); i++ {
		switch c := password[i]; {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		}
	}
	if !hasDigit {
		violations = append(violations, "Password must contain at least one number")
	}
	if !hasLower {
		violations = append(violations, "Password must contain at least one lowercase letter")
	}
	if !hasUpper {
		violations = append(violations, "Password must contain at least one uppercase letter")
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// ValidateLogin checks only length constraints. Login never reveals which
// composition rule a password fails; length bounds alone reject inputs that
// could not possibly match a stored credential.
func ValidateLogin(username, password string) error {
	var violations []string

	if n := utf8.RuneCountInString(username); n < UsernameMinLen || n > UsernameMaxLen {
		violations = append(violations, "Invalid username")
	}
	if n := utf8.RuneCountInString(password); n < PasswordMinLen || n > PasswordMaxLen {
		violations = append(violations, "Invalid password")
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// isAlphanumeric reports whether s consists only of ASCII letters and digits.
// An empty string is not alphanumeric.
func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
