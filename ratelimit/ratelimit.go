// Package ratelimit provides per-client login attempt limiting.
package ratelimit

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Limiter defines the interface for rate limiters.
type Limiter interface {
	// Allow records an attempt for the key and reports whether it is within
	// the limit. Denied attempts are not counted further; there is no
	// lockout escalation beyond the fixed window.
	Allow(ctx context.Context, key string) (bool, error)

	// Reset clears the window for the given key.
	Reset(ctx context.Context, key string) error

	// Close releases any resources held by the limiter.
	Close() error
}

// Resetter is implemented by limiters that can report when a key's window
// resets, for Retry-After guidance.
type Resetter interface {
	ResetAt(key string) time.Time
}

// window is the counter state for one key.
type window struct {
	count   int
	startAt time.Time
}

// MemoryLimiter is an in-memory fixed-window rate limiter. Window reset is
// lazy: expiry is computed on access, with no background timer. Counters for
// different keys are independent; one mutex guards the map, and each
// increment is atomic with respect to its own key.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*window
	limit   int
	period  time.Duration
}

// NewMemoryLimiter creates an in-memory limiter allowing limit attempts per
// period for each key.
func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*window),
		limit:   limit,
		period:  period,
	}
}

// Allow records an attempt and reports whether it is within the limit.
func (m *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	w, ok := m.entries[key]
	if !ok || now.Sub(w.startAt) > m.period {
		m.entries[key] = &window{count: 1, startAt: now}
		return m.limit >= 1, nil
	}

	if w.count >= m.limit {
		return false, nil
	}
	w.count++
	return true, nil
}

// Reset clears the window for the given key.
func (m *MemoryLimiter) Reset(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// ResetAt returns when the key's current window expires. For an unknown or
// already-expired key it returns the current time.
func (m *MemoryLimiter) ResetAt(key string) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	w, ok := m.entries[key]
	if !ok {
		return now
	}
	resetAt := w.startAt.Add(m.period)
	if resetAt.Before(now) {
		return now
	}
	return resetAt
}

// Remaining returns the number of attempts left for a key in the current
// window.
func (m *MemoryLimiter) Remaining(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.entries[key]
	if !ok || time.Since(w.startAt) > m.period {
		return m.limit
	}
	left := m.limit - w.count
	if left < 0 {
		return 0
	}
	return left
}

// Close releases resources. The memory limiter holds none.
func (m *MemoryLimiter) Close() error {
	return nil
}

var (
	_ Limiter  = (*MemoryLimiter)(nil)
	_ Resetter = (*MemoryLimiter)(nil)
)

// GetClientIP extracts the client IP from an HTTP request, checking
// X-Forwarded-For and X-Real-IP before falling back to RemoteAddr. Network
// identity is spoofable and shared behind NAT; limiting by source rather
// than target account is a policy choice, not a guarantee.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
		if addr[i] == ']' {
			// IPv6 address without a port.
			break
		}
	}
	return addr
}
