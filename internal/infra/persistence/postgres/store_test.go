package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"recipebook/internal/infra/persistence/postgres/testutil"
	"recipebook/pkg/domain"
)

func openStub(t *testing.T) (*testutil.StubConn, func()) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(driver, dsn string) (*sql.DB, error) {
		if driver != defaultDriver {
			t.Fatalf("unexpected driver %q", driver)
		}
		return db, nil
	})
	return conn, restore
}

func TestNewStoreEnsuresTableAndPersists(t *testing.T) {
	conn, restore := openStub(t)
	defer restore()

	ctx := context.Background()
	store, err := NewStore(ctx, "", domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	var sawDDL bool
	for _, stmt := range conn.Execs {
		if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS state") {
			sawDDL = true
		}
	}
	if !sawDDL {
		t.Fatalf("expected state table DDL, got %v", conn.Execs)
	}
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.CreateDrug(domain.Drug{Name: "Blue Sky", DrugType: domain.DrugTypeMeth})
		return err
	}); err != nil {
		t.Fatalf("RunInTransaction: %v", err)
	}
	rows := conn.Rows("state")
	if len(rows) != 2 {
		t.Fatalf("expected drugs and order buckets, got %v", rows)
	}

	reloaded, err := NewStore(ctx, "ignored", domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	list := reloaded.ListDrugs()
	if len(list) != 1 || list[0].Name != "Blue Sky" {
		t.Fatalf("unexpected reloaded drugs %+v", list)
	}
}

func TestNewStoreOpenAndPingErrors(t *testing.T) {
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return nil, errors.New("dial") })
	if _, err := NewStore(context.Background(), "", nil); err == nil {
		t.Fatalf("expected open error")
	}
	restore()

	conn, restore := openStub(t)
	defer restore()
	conn.FailPing = true
	if _, err := NewStore(context.Background(), "", nil); err == nil || !strings.Contains(err.Error(), "ping") {
		t.Fatalf("expected ping error, got %v", err)
	}
}

func TestPersistFailuresSurface(t *testing.T) {
	conn, restore := openStub(t)
	defer restore()
	store, err := NewStore(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	create := func(tx domain.Transaction) error {
		_, err := tx.CreateDrug(domain.Drug{Name: "x"})
		return err
	}
	conn.FailCommit = true
	if _, err := store.RunInTransaction(context.Background(), create); err == nil {
		t.Fatalf("expected commit error")
	}
	conn.FailCommit = false
	conn.FailBegin = true
	if _, err := store.RunInTransaction(context.Background(), create); err == nil {
		t.Fatalf("expected begin error")
	}
}

func TestLoadSnapshotDecodeError(t *testing.T) {
	conn, restore := openStub(t)
	defer restore()
	conn.Tables["state"] = []map[string]any{{"bucket": "drugs", "payload": []byte("{bad")}}
	if _, err := NewStore(context.Background(), "", nil); err == nil {
		t.Fatalf("expected decode error")
	}
}
