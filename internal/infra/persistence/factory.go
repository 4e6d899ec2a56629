// Package persistence selects a document store driver from configuration.
package persistence

import (
	"fmt"

	"simroom/internal/core"
	"simroom/internal/infra/persistence/postgres"
	"simroom/internal/infra/persistence/sqlite"
	"simroom/pkg/domain"
)

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options carries driver selection plus driver-specific settings.
type Options struct {
	// Driver is one of memory, sqlite, postgres. Empty selects sqlite.
	Driver string
	// Path is the sqlite database file.
	Path string
	// DSN is the postgres connection string.
	DSN string
}

// Open constructs the configured persistent store with the standard rules
// engine registered.
func Open(opts Options) (domain.PersistentStore, error) {
	engine := core.NewDefaultRulesEngine()
	switch opts.Driver {
	case DriverMemory:
		return core.NewMemoryStore(engine), nil
	case DriverSQLite, "":
		return sqlite.NewStore(opts.Path, engine)
	case DriverPostgres:
		return postgres.NewStore(opts.DSN, engine)
	default:
		return nil, fmt.Errorf("unknown persistence driver %q", opts.Driver)
	}
}
