// Package memory provides an in-memory store implementation for testing
// and development.
package memory

import (
	"context"
	"sync"

	"github.com/gatekit/gatekit/store"
)

// Store is an in-memory implementation of the store.Store interface.
// It is intended for testing and development purposes.
type Store struct {
	mu    sync.RWMutex
	users map[string]*store.UserRecord
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		users: make(map[string]*store.UserRecord),
	}
}

// FindByUsername retrieves a record by username. Returns (nil, nil) when absent.
func (s *Store) FindByUsername(ctx context.Context, username string) (*store.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

// Append adds a new record, failing if the username is taken.
func (s *Store) Append(ctx context.Context, record *store.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[record.Username]; exists {
		return store.ErrDuplicateUsername
	}
	s.users[record.Username] = record.Clone()
	return nil
}

// Delete removes a record. Not part of store.Store; it exists so tests can
// simulate a record disappearing between token issuance and use.
func (s *Store) Delete(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, username)
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Ping always succeeds for the memory store.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}

var _ store.Store = (*Store)(nil)
