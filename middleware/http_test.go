package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gatekit/gatekit/token"
)

// fakeChecker accepts exactly one token string.
type fakeChecker struct {
	accept string
	user   string
}

func (f *fakeChecker) CheckAccess(ctx context.Context, tokenString string) (*token.Claims, error) {
	if tokenString == f.accept {
		return &token.Claims{Username: f.user}, nil
	}
	return nil, errors.New("token expired or invalid")
}

func protected(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetClaims(r.Context()) == nil {
			t.Error("claims missing from context")
		}
		w.Write([]byte("hello " + GetUsername(r.Context())))
	})
}

func TestAuthenticate_ValidToken(t *testing.T) {
	checker := &fakeChecker{accept: "good-token", user: "alice"}
	handler := Authenticate(checker, nil)(protected(t))

	tests := []struct {
		name   string
		header string
	}{
		{"raw token", "good-token"},
		{"bearer prefix", "Bearer good-token"},
		{"lowercase bearer", "bearer good-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/private", nil)
			r.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			if got := w.Body.String(); got != "hello alice" {
				t.Errorf("body = %q", got)
			}
		})
	}
}

func TestAuthenticate_MissingToken(t *testing.T) {
	checker := &fakeChecker{accept: "good-token", user: "alice"}
	handler := Authenticate(checker, nil)(protected(t))

	r := httptest.NewRequest("GET", "/private", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if body["message"] != "Please login to proceed" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	checker := &fakeChecker{accept: "good-token", user: "alice"}
	handler := Authenticate(checker, nil)(protected(t))

	r := httptest.NewRequest("GET", "/private", nil)
	r.Header.Set("Authorization", "forged-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if body["message"] != "Token expired or invalid" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestAuthenticate_CustomHandlers(t *testing.T) {
	checker := &fakeChecker{accept: "good-token", user: "alice"}
	cfg := &Config{
		TokenExtractor: func(r *http.Request) string { return r.URL.Query().Get("token") },
		OnMissing: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no token", http.StatusBadRequest)
		},
		OnInvalid: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad token", http.StatusForbidden)
		},
	}
	handler := Authenticate(checker, cfg)(protected(t))

	r := httptest.NewRequest("GET", "/private?token=good-token", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("query token: status = %d, want 200", w.Code)
	}

	r = httptest.NewRequest("GET", "/private", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing: status = %d, want 400", w.Code)
	}

	r = httptest.NewRequest("GET", "/private?token=nope", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Errorf("invalid: status = %d, want 403", w.Code)
	}
}

func TestExtractAuthorization(t *testing.T) {
	extract := ExtractAuthorization()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"raw", "abc.def.ghi", "abc.def.ghi"},
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"case insensitive", "BEARER abc.def.ghi", "abc.def.ghi"},
		{"bearer alone passes through raw", "Bearer ", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := extract(r); got != tt.want {
				t.Errorf("extract = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	if GetClaims(ctx) != nil {
		t.Error("GetClaims on empty context should be nil")
	}
	if GetUsername(ctx) != "" {
		t.Error("GetUsername on empty context should be empty")
	}

	claims := &token.Claims{Username: "alice"}
	ctx = SetClaims(ctx, claims)
	ctx = SetUsername(ctx, "alice")

	if got := GetClaims(ctx); got != claims {
		t.Error("GetClaims did not return stored claims")
	}
	if got := GetUsername(ctx); got != "alice" {
		t.Errorf("GetUsername = %q", got)
	}
}
