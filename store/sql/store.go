// Package sql provides a PostgreSQL credential store using database/sql with
// the pgx stdlib driver. The driver is registered by the importing binary:
//
//	import _ "github.com/jackc/pgx/v5/stdlib"
package sql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gatekit/gatekit/store"
)

const schema = `
	CREATE TABLE IF NOT EXISTS gatekit_users (
		username VARCHAR(30) PRIMARY KEY,
		password_hash TEXT NOT NULL,
		lucky_number INT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
`

const (
	insertUser = `INSERT INTO gatekit_users (username, password_hash, lucky_number) VALUES ($1, $2, $3)`
	selectUser = `SELECT username, password_hash, lucky_number FROM gatekit_users WHERE username = $1`
)

// Store implements store.Store using a PostgreSQL database. Uniqueness is
// enforced by the primary key, so the check-then-append race is resolved by
// the database itself.
type Store struct {
	db *sql.DB
}

// Config holds SQL store configuration.
type Config struct {
	// DB is an existing database connection. If provided, DSN is ignored.
	DB *sql.DB

	// DSN is the data source name for connecting to the database.
	DSN string

	// MaxOpenConns sets the maximum number of open connections.
	MaxOpenConns int

	// MaxIdleConns sets the maximum number of idle connections.
	MaxIdleConns int

	// ConnMaxLifetime sets the maximum lifetime of a connection.
	ConnMaxLifetime time.Duration
}

// New creates a new SQL store and ensures the schema exists.
func New(ctx context.Context, cfg *Config) (*Store, error) {
	db := cfg.DB
	if db == nil {
		var err error
		db, err = sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, err
		}
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// migrate creates the users table if it does not exist.
func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// FindByUsername retrieves a record by username. Returns (nil, nil) when absent.
func (s *Store) FindByUsername(ctx context.Context, username string) (*store.UserRecord, error) {
	rec := &store.UserRecord{}
	err := s.db.QueryRowContext(ctx, selectUser, username).Scan(
		&rec.Username,
		&rec.PasswordHash,
		&rec.LuckyNumber,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Append inserts a new record. A unique violation on the primary key maps to
// store.ErrDuplicateUsername.
func (s *Store) Append(ctx context.Context, record *store.UserRecord) error {
	_, err := s.db.ExecContext(ctx, insertUser,
		record.Username,
		record.PasswordHash,
		record.LuckyNumber,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return store.ErrDuplicateUsername
	}
	return err
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ store.Store = (*Store)(nil)
