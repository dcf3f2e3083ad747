// Package handlers implements the HTTP surface of the auth service. Handlers
// are thin I/O wrappers: they parse JSON, call the gatekit service, and map
// its errors to (status, message) pairs. Internal error details never reach
// the client.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gatekit/gatekit"
	"github.com/gatekit/gatekit/middleware"
)

// Handler holds the dependencies of the HTTP endpoints.
type Handler struct {
	svc *gatekit.Service
	log *slog.Logger
}

// New creates a Handler.
func New(svc *gatekit.Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// Routes builds the service router. Signup and login are open; logout and
// the private route sit behind the token middleware.
func (h *Handler) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(h.svc, nil))
		r.Delete("/logout", h.Logout)
		r.Get("/private_route", h.Private)
	})

	return r
}

// credentialsRequest is the body of signup and login requests.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// decodeCredentials parses a JSON credentials body.
func decodeCredentials(r *http.Request) (*credentialsRequest, error) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeMessage writes a {"message": ...} body.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps a service error to its HTTP response. Validation errors
// carry the full violation list; everything else is a generic message so
// internal details cannot leak.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *gatekit.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"errors": verr.Violations})
		return
	}

	var rerr *gatekit.RateLimitError
	if errors.As(err, &rerr) {
		if rerr.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rerr.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(rerr.Remaining))
		}
		if !rerr.ResetAt.IsZero() {
			w.Header().Set("X-RateLimit-Reset", rerr.ResetAt.Format(time.RFC3339))
		}
		if rerr.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(rerr.RetryAfter/time.Second)+1))
		}
		writeMessage(w, http.StatusTooManyRequests, "Too many login attempts, please try again later")
		return
	}

	switch {
	case errors.Is(err, gatekit.ErrDuplicateUsername):
		writeMessage(w, http.StatusBadRequest, "Username is taken")
	case errors.Is(err, gatekit.ErrInvalidCredentials):
		writeMessage(w, http.StatusBadRequest, "Invalid username or password")
	case errors.Is(err, gatekit.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "Token expired or invalid")
	case errors.Is(err, gatekit.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "Cannot find user")
	default:
		h.log.Error("request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
