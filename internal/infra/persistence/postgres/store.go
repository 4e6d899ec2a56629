// Package postgres provides a Postgres-backed persistent store mirroring the
// in-memory semantics, for shared installations where several authoring
// stations edit against one database.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"simroom/internal/core"
	"simroom/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

var _ domain.PersistentStore = (*Store)(nil)
var _ core.Snapshotter = (*Store)(nil)

const (
	defaultDriver  = "pgx"
	defaultDSN     = "postgres://localhost/simroom?sslmode=disable"
	documentBucket = "document"
)

var sqlOpen = sql.Open

// Store persists the scene document to Postgres while reusing the in-memory
// implementation for transactions.
type Store struct {
	*core.MemoryStore
	db *sql.DB
	mu sync.Mutex

	// true once a snapshot row exists, cleared by Wipe
	hasSnapshot bool
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back
// to defaultDSN), ensures the snapshot table exists, and hydrates the
// in-memory store from any existing snapshot via document migration.
func NewStore(dsn string, engine *domain.RulesEngine) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := sqlOpen(defaultDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("ensure state table: %w", err)
	}
	s := &Store{MemoryStore: core.NewMemoryStore(engine), db: db}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = $1`, documentBucket).Scan(&payload)
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

// Persist writes the current document snapshot to Postgres.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(s.ExportState())
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO state(bucket, payload) VALUES($1, $2)
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
// Postgres on success.
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
	if _, err := s.db.ExecContext(ctx, `DELETE FROM state WHERE bucket = $1`, documentBucket); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	s.hasSnapshot = false
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }
