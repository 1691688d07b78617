package core

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"recipebook/internal/infra/persistence/jsonfile"
	"recipebook/internal/infra/persistence/postgres"
	"recipebook/internal/infra/persistence/postgres/testutil"
)

func TestOpenPersistentStoreJSONDefault(t *testing.T) {
	ctx := context.Background()
	base := filepath.Join(t.TempDir(), "mine_drugs.json")
	store, err := OpenPersistentStore(ctx, StorageConfig{Database: base}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	js, ok := store.(*jsonfile.Store)
	if !ok {
		t.Fatalf("expected json store, got %T", store)
	}
	svc := NewService(store)
	mustCreate(t, svc, sampleDrug("Persisted", 10))
	if _, err := os.Stat(js.Path()); err != nil {
		t.Fatalf("expected list file written: %v", err)
	}

	reopened, err := OpenPersistentStore(ctx, StorageConfig{Driver: "JSON", Database: base}, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if n := len(reopened.ListDrugs()); n != 1 {
		t.Fatalf("expected 1 drug after reopen, have %d", n)
	}
	if err := CloseStore(reopened); err != nil {
		t.Fatalf("close json store: %v", err)
	}
}

func TestOpenPersistentStoreSQLiteAndMemory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "recipes.db")
	store, err := OpenPersistentStore(ctx, StorageConfig{Driver: StorageSQLite, SQLitePath: path}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	mustCreate(t, NewService(store), sampleDrug("Stored", 10))
	if err := CloseStore(store); err != nil {
		t.Fatalf("close: %v", err)
	}
	again, err := OpenPersistentStore(ctx, StorageConfig{Driver: StorageSQLite, SQLitePath: path}, nil)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer func() { _ = CloseStore(again) }()
	if n := len(again.ListDrugs()); n != 1 {
		t.Fatalf("expected 1 drug, have %d", n)
	}

	mem, err := OpenPersistentStore(ctx, StorageConfig{Driver: StorageMemory}, nil)
	if err != nil || mem == nil {
		t.Fatalf("open memory: %v", err)
	}
}

func TestOpenPersistentStorePostgres(t *testing.T) {
	db, conn := testutil.NewStubDB()
	restore := postgres.OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := OpenPersistentStore(context.Background(), StorageConfig{Driver: StoragePostgres}, nil)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	mustCreate(t, NewService(store), sampleDrug("Remote", 10))
	if rows := conn.Rows("state"); len(rows) == 0 {
		t.Fatalf("expected snapshot rows written")
	}

	conn.FailPing = true
	if s, err := OpenPersistentStore(context.Background(), StorageConfig{Driver: StoragePostgres}, nil); err == nil || s != nil {
		t.Fatalf("expected ping failure with nil store, got %v %v", s, err)
	}
}

func TestOpenPersistentStoreUnknownDriver(t *testing.T) {
	if _, err := OpenPersistentStore(context.Background(), StorageConfig{Driver: "mongo"}, nil); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
