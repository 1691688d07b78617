package core

import (
	"context"
	"fmt"
	"strings"

	"recipebook/internal/infra/persistence/jsonfile"
	"recipebook/internal/infra/persistence/memory"
	"recipebook/internal/infra/persistence/postgres"
	"recipebook/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageJSON     StorageDriver = "json"     // <base>_drugs.json list file
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// StorageConfig selects and parameterizes a backend.
type StorageConfig struct {
	Driver      StorageDriver
	Database    string
	SQLitePath  string
	PostgresDSN string
}

// OpenPersistentStore opens the backend named by cfg. The driver defaults to
// json. A nil engine selects the default rules.
func OpenPersistentStore(ctx context.Context, cfg StorageConfig, engine *RulesEngine) (PersistentStore, error) {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	driver := StorageDriver(strings.ToLower(strings.TrimSpace(string(cfg.Driver))))
	if driver == "" {
		driver = StorageJSON
	}
	switch driver {
	case StorageJSON:
		return jsonfile.NewStore(cfg.Database, engine), nil
	case StorageMemory:
		return memory.NewStore(engine), nil
	case StorageSQLite:
		store, err := sqlite.NewStore(cfg.SQLitePath, engine)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StoragePostgres:
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN, engine)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.Driver)
	}
}

// Closer is implemented by stores holding a database handle.
type Closer interface {
	Close() error
}

// CloseStore releases the store's resources when it holds any.
func CloseStore(store PersistentStore) error {
	if c, ok := store.(Closer); ok {
		return c.Close()
	}
	return nil
}
