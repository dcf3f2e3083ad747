package gatekit

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateSignup_Valid(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"simple", "alice", "Password1"},
		{"short username", "ab", "Password1"},
		{"long username", strings.Repeat("a", 30), "Password1"},
		{"digits in username", "alice42", "Password1"},
		{"long password", "alice", "Aa1" + strings.Repeat("x", 125)},
		// 128 characters but 253 bytes: length bounds count characters.
		{"multibyte password at max length", "alice", "Aa1" + strings.Repeat("é", 125)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateSignup(tt.username, tt.password); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateSignup_Violations(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		want     []string
	}{
		{
			name:     "username too short",
			username: "a",
			password: "Password1",
			want:     []string{"Username must be between 2-30 characters"},
		},
		{
			name:     "username too long",
			username: strings.Repeat("a", 31),
			password: "Password1",
			want:     []string{"Username must be between 2-30 characters"},
		},
		{
			name:     "username not alphanumeric",
			username: "alice!",
			password: "Password1",
			want:     []string{"Username must only contain letters and numbers"},
		},
		{
			name:     "password too short",
			username: "alice",
			password: "Pass1",
			want:     []string{"Password must be between 8-128 characters"},
		},
		{
			name:     "multibyte password over max length",
			username: "alice",
			password: "Aa1" + strings.Repeat("é", 126),
			want:     []string{"Password must be between 8-128 characters"},
		},
		{
			name:     "password missing digit",
			username: "alice",
			password: "Passwords",
			want:     []string{"Password must contain at least one number"},
		},
		{
			name:     "password missing lowercase",
			username: "alice",
			password: "PASSWORD1",
			want:     []string{"Password must contain at least one lowercase letter"},
		},
		{
			name:     "password missing uppercase",
			username: "alice",
			password: "password1",
			want:     []string{"Password must contain at least one uppercase letter"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.username, tt.password)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			for _, want := range tt.want {
				if !contains(verr.Violations, want) {
					t.Errorf("missing violation %q in %v", want, verr.Violations)
				}
			}
		})
	}
}

func TestValidateSignup_ReportsAllViolations(t *testing.T) {
	// "short1" violates length plus both case composition rules.
	err := ValidateSignup("a", "short1")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	if len(verr.Violations) < 3 {
		t.Errorf("expected at least 3 violations, got %d: %v", len(verr.Violations), verr.Violations)
	}
	if !contains(verr.Violations, "Password must be between 8-128 characters") {
		t.Errorf("length violation not listed: %v", verr.Violations)
	}
	if !contains(verr.Violations, "Username must be between 2-30 characters") {
		t.Errorf("username violation not listed: %v", verr.Violations)
	}
}

func TestValidateLogin(t *testing.T) {
	if err := ValidateLogin("alice", "Password1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidateLogin("a", "short")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !contains(verr.Violations, "Invalid username") || !contains(verr.Violations, "Invalid password") {
		t.Errorf("unexpected violations: %v", verr.Violations)
	}

	// Login validation checks lengths only; composition rules do not apply.
	if err := ValidateLogin("alice", "alllowercase"); err != nil {
		t.Errorf("composition rules should not apply to login: %v", err)
	}

	// 8 characters in 10 bytes still satisfies the minimum length.
	if err := ValidateLogin("alice", "pässwörd"); err != nil {
		t.Errorf("multibyte password length should count characters: %v", err)
	}
}

func TestIsAlphanumeric(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"alice", true},
		{"Alice42", true},
		{"", false},
		{"has space", false},
		{"under_score", false},
		{"émile", false},
	}

	for _, tt := range tests {
		if got := isAlphanumeric(tt.in); got != tt.want {
			t.Errorf("isAlphanumeric(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
