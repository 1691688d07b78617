package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"recipebook/internal/blob/core"
)

func TestStore_MissingHeadGet(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, err := store.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found from head, got %v", err)
	}
	if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found from get, got %v", err)
	}
	if ok, err := store.Delete(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected delete false")
	}
}

func TestStore_PutOverwrite(t *testing.T) {
	store := New()
	ctx := context.Background()
	first, err := store.Put(ctx, "drugs/a.json", bytes.NewReader([]byte(`{"v":1}`)), core.PutOptions{ContentType: "application/json", Metadata: map[string]string{"owner": "u1"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "drugs/a.json", bytes.NewReader([]byte("x")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	second, err := store.Put(ctx, "drugs/a.json", bytes.NewReader([]byte(`{"v":2}`)), core.PutOptions{Overwrite: true})
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if first.ETag == second.ETag {
		t.Fatalf("expected etag to change on overwrite")
	}
	_, rc, err := store.Get(ctx, "drugs/a.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	b, _ := io.ReadAll(rc)
	if string(b) != `{"v":2}` {
		t.Fatalf("unexpected body %s", b)
	}
}

func TestStore_ListPrefixAndMetadataIsolation(t *testing.T) {
	store := New()
	ctx := context.Background()
	md := map[string]string{"a": "1"}
	for _, k := range []string{"users/2.json", "drugs/b.json", "drugs/a.json"} {
		if _, err := store.Put(ctx, k, bytes.NewReader([]byte("{}")), core.PutOptions{Metadata: md}); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	md["a"] = "changed"
	list, err := store.List(ctx, "drugs/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Key != "drugs/a.json" || list[1].Key != "drugs/b.json" {
		t.Fatalf("unexpected list %+v", list)
	}
	list[0].Metadata["a"] = "mutated"
	h, err := store.Head(ctx, "drugs/a.json")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if h.Metadata["a"] != "1" {
		t.Fatalf("metadata leaked: %+v", h.Metadata)
	}
	all, _ := store.List(ctx, "")
	if len(all) != 3 {
		t.Fatalf("expected 3 blobs, got %d", len(all))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("fail") }

func TestStore_PutErrorsAndDriver(t *testing.T) {
	store := New()
	if store.Driver() != core.DriverMemory {
		t.Fatalf("expected memory driver")
	}
	if _, err := store.Put(context.Background(), "bad", failingReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected read error")
	}
	if _, err := store.Put(context.Background(), " ", bytes.NewReader(nil), core.PutOptions{}); err == nil {
		t.Fatalf("expected empty key error")
	}
	if _, err := store.PresignURL(context.Background(), "k", core.SignedURLOptions{}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected unsupported presign")
	}
}
