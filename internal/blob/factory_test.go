package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()
	fsStore, err := Open(ctx, Config{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("open fs: %v", err)
	}
	if fsStore.Driver() != DriverFilesystem {
		t.Fatalf("expected fs default, got %s", fsStore.Driver())
	}
	mem, err := Open(ctx, Config{Driver: " Memory "})
	if err != nil || mem.Driver() != DriverMemory {
		t.Fatalf("open memory: %v", err)
	}
	if _, err := Open(ctx, Config{Driver: "s3"}); err == nil {
		t.Fatalf("expected s3 without bucket to fail")
	}
	if _, err := Open(ctx, Config{Driver: "ftp"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

// Each backend honors the same create-only and not-found contract.
func TestBackendsShareContract(t *testing.T) {
	ctx := context.Background()
	fsStore, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("fs: %v", err)
	}
	stores := map[string]Store{
		"fs":     fsStore,
		"memory": NewMemory(),
		"s3":     NewMockS3ForTests(),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Head(ctx, "drugs/missing.json"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if _, err := store.Put(ctx, "drugs/a.json", bytes.NewReader([]byte("one")), PutOptions{ContentType: "application/json"}); err != nil {
				t.Fatalf("put: %v", err)
			}
			if _, err := store.Put(ctx, "drugs/a.json", bytes.NewReader([]byte("two")), PutOptions{}); !errors.Is(err, ErrExists) {
				t.Fatalf("expected ErrExists, got %v", err)
			}
			if _, err := store.Put(ctx, "drugs/a.json", bytes.NewReader([]byte("three")), PutOptions{Overwrite: true}); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			_, rc, err := store.Get(ctx, "drugs/a.json")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			b, _ := io.ReadAll(rc)
			_ = rc.Close()
			if string(b) != "three" {
				t.Fatalf("unexpected body %q", b)
			}
			list, err := store.List(ctx, "drugs/")
			if err != nil || len(list) != 1 {
				t.Fatalf("list: %v %v", list, err)
			}
			if ok, err := store.Delete(ctx, "drugs/a.json"); err != nil || !ok {
				t.Fatalf("delete: %v %v", ok, err)
			}
		})
	}
}
