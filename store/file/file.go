// Package file provides a flat-file credential store backed by a JSON array
// on disk. The format is a single array of user objects, human-readable and
// small; it suits deployments with modest user counts.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gatekit/gatekit/store"
)

// Store implements store.Store on top of a JSON file. Records are kept in
// insertion order on disk and indexed by username in memory for O(1) lookup.
// Every append is persisted atomically (write to a temp file, fsync, rename)
// before it is visible to readers.
type Store struct {
	mu      sync.RWMutex
	path    string
	log     *slog.Logger
	records []*store.UserRecord
	index   map[string]*store.UserRecord
}

// New opens the store at path, loading any existing records. A missing file
// is the first-run case and yields an empty set; an unreadable or corrupt
// file also fails open to an empty set but is logged distinctly so operators
// can tell the two apart.
func New(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}

	s := &Store{
		path:  path,
		log:   log,
		index: make(map[string]*store.UserRecord),
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		log.Info("credential file missing, starting with empty set", "path", path)
		return s, nil
	case err != nil:
		log.Error("credential file unreadable, starting with empty set", "path", path, "error", err)
		return s, nil
	}

	var records []*store.UserRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Error("credential file corrupt, starting with empty set", "path", path, "error", err)
		return s, nil
	}

	s.records = records
	for _, rec := range records {
		s.index[rec.Username] = rec
	}
	log.Info("credential file loaded", "path", path, "users", len(records))
	return s, nil
}

// FindByUsername retrieves a record by username. Returns (nil, nil) when absent.
func (s *Store) FindByUsername(ctx context.Context, username string) (*store.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.index[username]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

// Append adds a new record and persists the full set. The uniqueness check,
// the in-memory append, and the durable write happen under one lock; if the
// write fails the append is rolled back so memory and disk never diverge.
func (s *Store) Append(ctx context.Context, record *store.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[record.Username]; exists {
		return store.ErrDuplicateUsername
	}

	rec := record.Clone()
	s.records = append(s.records, rec)
	s.index[rec.Username] = rec

	if err := s.persist(); err != nil {
		s.records = s.records[:len(s.records)-1]
		delete(s.index, rec.Username)
		return fmt.Errorf("persisting credential file: %w", err)
	}
	return nil
}

// persist writes the complete record set atomically: marshal, write to a
// temp file in the same directory, fsync, then rename over the target.
// Callers must hold the write lock.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return err
	}
	if s.records == nil {
		data = []byte("[]")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Ping verifies the store's directory is accessible.
func (s *Store) Ping(ctx context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}

// Close is a no-op; every append is already durable.
func (s *Store) Close() error {
	return nil
}

var _ store.Store = (*Store)(nil)
