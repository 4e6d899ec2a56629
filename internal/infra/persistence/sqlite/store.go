// Package sqlite provides a SQLite-backed persistent store that snapshots the
// scene document as JSON after every successful transaction.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"simroom/internal/core"
	"simroom/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

var _ domain.PersistentStore = (*Store)(nil)
var _ core.Snapshotter = (*Store)(nil)

const documentBucket = "document"

// Store persists the in-memory document to a single SQLite table as a JSON
// blob. Transactions run against the embedded in-memory store; every commit
// rewrites the snapshot.
type Store struct {
	*core.MemoryStore
	db   *sql.DB
	mu   sync.Mutex
	path string

	// true once a snapshot row exists, cleared by Wipe
	hasSnapshot bool
}

// NewStore opens (or creates) the database at path and hydrates the in-memory
// state from any existing snapshot. Stored snapshots pass through document
// migration, so databases written by older builds load cleanly.
func NewStore(path string, engine *domain.RulesEngine) (*Store, error) {
	if path == "" {
		path = "simroom.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{MemoryStore: core.NewMemoryStore(engine), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM state WHERE bucket = ?`, documentBucket).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	doc, err := core.MigrateDocument(payload)
	if err != nil {
		return fmt.Errorf("migrate stored document: %w", err)
	}
	s.ImportState(doc)
	s.mu.Lock()
	s.hasSnapshot = true
	s.mu.Unlock()
	return nil
}

// Persist writes the current document snapshot to the database.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(s.ExportState())
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO state(bucket, payload) VALUES(?, ?)
		 ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
		documentBucket, data); err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	s.hasSnapshot = true
	return nil
}

// HasSnapshot reports whether a snapshot row exists, regardless of what the
// document contains.
func (s *Store) HasSnapshot() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasSnapshot
}

// RunInTransaction applies fn against the in-memory state, then snapshots to
// SQLite on success.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, []domain.Change, error) {
	res, changes, err := s.MemoryStore.RunInTransaction(ctx, fn)
	if err != nil {
		return res, changes, err
	}
	if pErr := s.Persist(ctx); pErr != nil {
		return res, changes, pErr
	}
	return res, changes, nil
}

// Wipe clears the in-memory document and deletes the stored snapshot.
func (s *Store) Wipe(ctx context.Context) error {
	if err := s.MemoryStore.Wipe(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM state WHERE bucket = ?`, documentBucket); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	s.hasSnapshot = false
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
