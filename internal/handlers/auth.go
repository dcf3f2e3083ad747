package handlers

import (
	"fmt"
	"net/http"

	"github.com/gatekit/gatekit/middleware"
	"github.com/gatekit/gatekit/ratelimit"
)

// Signup registers a new user.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.svc.Signup(r.Context(), req.Username, req.Password); err != nil {
		h.writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "User added successfully")
}

// Login authenticates a user and returns a bearer token. The throttle is
// keyed by client network identity.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	clientKey := ratelimit.GetClientIP(r)
	tok, err := h.svc.Login(r.Context(), clientKey, req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"token": tok})
}

// Logout acknowledges a logout. The token must be discarded client-side; it
// stays valid until expiry.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Logged out")
}

// Private serves the protected resource, re-fetching the user record for
// the authenticated username.
func (h *Handler) Private(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())
	rec, err := h.svc.PrivateResource(r.Context(), username)
	if err != nil {
		h.writeError(w, err)
		return
	}
	msg := fmt.Sprintf("Welcome %s. Your lucky number is %d", rec.Username, rec.LuckyNumber)
	writeMessage(w, http.StatusOK, msg)
}
