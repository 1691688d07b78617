package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"recipebook/internal/blob/core"
)

func TestStore_PutGetHeadDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests(0)
	info, err := store.Put(ctx, "drugs/og.json", bytes.NewReader([]byte(`{"name":"OG"}`)), core.PutOptions{ContentType: "application/json", Metadata: map[string]string{"owner": "u1"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "drugs/og.json" || info.Size != int64(len(`{"name":"OG"}`)) || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.Metadata["owner"] != "u1" {
		t.Fatalf("metadata not round-tripped: %+v", info.Metadata)
	}
	if _, err := store.Put(ctx, "drugs/og.json", bytes.NewReader([]byte("x")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, err := store.Put(ctx, "drugs/og.json", bytes.NewReader([]byte(`{"name":"OG2"}`)), core.PutOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, rc, err := store.Get(ctx, "drugs/og.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != `{"name":"OG2"}` || got.ContentType == "" {
		t.Fatalf("unexpected get %q %+v", b, got)
	}
	ok, err := store.Delete(ctx, "drugs/og.json")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	ok, err = store.Delete(ctx, "drugs/og.json")
	if err != nil || ok {
		t.Fatalf("expected second delete false: %v %v", ok, err)
	}
}

func TestStore_MissingKeysWrapNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests(0)
	if _, err := store.Head(ctx, "users/none.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from head, got %v", err)
	}
	if _, _, err := store.Get(ctx, "users/none.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from get, got %v", err)
	}
}

func TestStore_ListPaginates(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests(2)
	keys := []string{"drugs/c.json", "drugs/a.json", "users/u.json", "drugs/b.json", "drugs/d.json", "drugs/e.json"}
	for _, k := range keys {
		if _, err := store.Put(ctx, k, bytes.NewReader([]byte("{}")), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	list, err := store.List(ctx, "drugs/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("expected 5 drugs across pages, got %d", len(list))
	}
	for i, want := range []string{"drugs/a.json", "drugs/b.json", "drugs/c.json", "drugs/d.json", "drugs/e.json"} {
		if list[i].Key != want || list[i].Size != 2 {
			t.Fatalf("entry %d: %+v", i, list[i])
		}
	}
}

func TestStore_Presign(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests(0)
	url, err := store.PresignURL(ctx, "drugs/a.json", core.SignedURLOptions{Expiry: time.Minute})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.Contains(url, "mock-bucket/drugs/a.json") || !strings.Contains(url, "X-Amz-Expires=60") {
		t.Fatalf("unexpected url %s", url)
	}
	if _, err := store.PresignURL(ctx, "drugs/a.json", core.SignedURLOptions{Method: "PUT"}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}
	if store := NewMockForTests(0); store.Driver() != core.DriverS3 || store.Bucket() != "mock-bucket" {
		t.Fatalf("unexpected store identity")
	}
}

func TestDecodeChunked(t *testing.T) {
	body := []byte("5;chunk-signature=abc\r\nhello\r\n6\r\n world\r\n0\r\nx-amz-checksum-crc32:AAAA\r\n\r\n")
	out, ok := decodeChunked(body)
	if !ok || string(out) != "hello world" {
		t.Fatalf("unexpected decode %q %v", out, ok)
	}
	if _, ok := decodeChunked([]byte("zz\r\n")); ok {
		t.Fatalf("expected invalid chunk")
	}
}
