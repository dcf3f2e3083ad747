// Package store defines the credential storage interface for gatekit.
package store

import (
	"context"
	"errors"
)

// ErrDuplicateUsername is returned by Append when the username already exists.
// The uniqueness check and the append happen inside one critical section, so
// two concurrent signups for the same username cannot both succeed.
var ErrDuplicateUsername = errors.New("username already exists")

// Store persists user records. All methods must be safe for concurrent use,
// and appends must be serialized with respect to the uniqueness check.
//
// User records are immutable after signup: there is no update or delete
// operation in the interface.
type Store interface {
	// FindByUsername retrieves a record by exact, case-sensitive username
	// match. Returns (nil, nil) when the user does not exist; absence is not
	// an error, the caller decides what it means.
	FindByUsername(ctx context.Context, username string) (*UserRecord, error)

	// Append adds a new record. Returns ErrDuplicateUsername if the username
	// is taken, or a storage error if the durable write fails. On write
	// failure the in-memory state must not diverge from the persisted state.
	Append(ctx context.Context, record *UserRecord) error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
