package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"recipebook/internal/blob/core"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestStore_PutGetHeadListDelete(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	info, err := store.Put(ctx, "drugs/og.json", bytes.NewReader([]byte("hello")), core.PutOptions{ContentType: "application/json", Metadata: map[string]string{"owner": "u1"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "drugs/og.json" || info.Size != 5 || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "drugs/og.json", bytes.NewReader([]byte("x")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	h, err := store.Head(ctx, "drugs/og.json")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if h.Metadata["owner"] != "u1" || h.ContentType != "application/json" {
		t.Fatalf("unexpected head %+v", h)
	}
	g, rc, err := store.Get(ctx, "drugs/og.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	if err := rc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if string(b) != "hello" || g.ETag != h.ETag {
		t.Fatalf("unexpected get artifacts")
	}
	list, err := store.List(ctx, "drugs/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Key != "drugs/og.json" {
		t.Fatalf("unexpected list %+v", list)
	}
	ok, err := store.Delete(ctx, "drugs/og.json")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	ok, err = store.Delete(ctx, "drugs/og.json")
	if err != nil || ok {
		t.Fatalf("second delete should be false")
	}
	if _, err := store.Head(ctx, "drugs/og.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from head, got %v", err)
	}
	if _, _, err := store.Get(ctx, "drugs/og.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from get, got %v", err)
	}
}

func TestStore_OverwriteKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, err := store.Put(ctx, "users/u1.json", bytes.NewReader([]byte("v1")), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	_, metaPath, _ := store.pathFor("users/u1.json")
	before, err := readMeta(metaPath)
	if err != nil {
		t.Fatalf("read meta: %v", err)
	}
	info, err := store.Put(ctx, "users/u1.json", bytes.NewReader([]byte("version2")), core.PutOptions{Overwrite: true})
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if info.Size != int64(len("version2")) {
		t.Fatalf("unexpected size %d", info.Size)
	}
	after, err := readMeta(metaPath)
	if err != nil {
		t.Fatalf("read meta: %v", err)
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Fatalf("created at changed: %v -> %v", before.CreatedAt, after.CreatedAt)
	}
	if after.ETag == before.ETag {
		t.Fatalf("expected etag to change")
	}
}

func TestStore_InvalidKeys(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for _, key := range []string{"", "  ", "../escape.txt", "/abs.txt", "a/../b", "x.meta"} {
		if _, err := store.Put(ctx, key, bytes.NewReader([]byte("x")), core.PutOptions{}); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
	if _, err := store.PresignURL(ctx, "../x", core.SignedURLOptions{}); err == nil {
		t.Fatalf("expected presign key error")
	}
}

func TestStore_MetadataSidecar(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, err := store.Put(ctx, "meta/data.bin", bytes.NewReader([]byte("abc")), core.PutOptions{ContentType: "application/octet-stream"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	dataPath, metaPath, _ := store.pathFor("meta/data.bin")
	if _, err := os.Stat(dataPath); err != nil {
		t.Fatalf("expected data path: %v", err)
	}
	b, err := os.ReadFile(metaPath)
	if err != nil {
		t.Fatalf("read meta: %v", err)
	}
	if !bytes.Contains(b, []byte("application/octet-stream")) {
		t.Fatalf("meta missing content type")
	}
	if filepath.Ext(metaPath) != metaSuffix {
		t.Fatalf("meta path extension mismatch")
	}
	if err := os.Remove(metaPath); err != nil {
		t.Fatalf("rm meta: %v", err)
	}
	if _, _, err := store.Get(ctx, "meta/data.bin"); err == nil {
		t.Fatalf("expected get error without sidecar")
	}
	if _, err := store.Put(ctx, "meta/data.bin", bytes.NewReader([]byte("x")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists for orphaned data file, got %v", err)
	}
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestStore_PutCopyErrorLeavesNothing(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, err := store.Put(ctx, "bad.bin", errorReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected copy error")
	}
	list, err := store.List(ctx, "")
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v %v", list, err)
	}
}

func TestStore_ListOrderAndPresign(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for i := 3; i > 0; i-- {
		k := "drugs/d" + strconv.Itoa(i) + ".json"
		if _, err := store.Put(ctx, k, bytes.NewReader([]byte("{}")), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	if _, err := store.Put(ctx, "users/u.json", bytes.NewReader([]byte("{}")), core.PutOptions{}); err != nil {
		t.Fatalf("put user: %v", err)
	}
	list, err := store.List(ctx, "drugs/")
	if err != nil || len(list) != 3 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Key > list[i].Key {
			t.Fatalf("expected sorted order: %+v", list)
		}
	}
	if url, err := store.PresignURL(ctx, "drugs/d1.json", core.SignedURLOptions{Method: "get"}); err != nil || url != "http://local.blob/drugs/d1.json" {
		t.Fatalf("presign: %v %s", err, url)
	}
	if _, err := store.PresignURL(ctx, "drugs/d1.json", core.SignedURLOptions{Method: "PUT"}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected unsupported for PUT")
	}
	if store.Driver() != core.DriverFilesystem {
		t.Fatalf("unexpected driver")
	}
}
