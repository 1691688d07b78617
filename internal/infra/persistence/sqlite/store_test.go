package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"recipebook/pkg/domain"
)

func TestSQLiteStorePersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	store, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	ctx := context.Background()
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		for _, name := range []string{"Zeta", "Alpha"} {
			if _, err := tx.CreateDrug(domain.Drug{Name: name, BasePrice: 10}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if store.Path() != path {
		t.Fatalf("unexpected path %s", store.Path())
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	t.Cleanup(func() { _ = reloaded.Close() })
	list := reloaded.ListDrugs()
	if len(list) != 2 || list[0].Name != "Zeta" || list[1].Name != "Alpha" {
		t.Fatalf("unexpected reloaded drugs %+v", list)
	}
}

func TestSQLiteStoreFailedTransactionSkipsPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	_, err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		return tx.DeleteDrug("missing")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	var count int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no snapshot rows, got %d", count)
	}
}

func TestSQLiteStoreLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	if _, err := store.DB().Exec(`INSERT INTO state(bucket,payload) VALUES('drugs', 'not json')`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_ = store.Close()
	if _, err := NewStore(path, domain.NewRulesEngine()); err == nil {
		t.Fatalf("expected decode error")
	}
}
