package s3

import (
	"context"
	"errors"
	"testing"

	"neonpm/internal/kv/core"
)

func TestStoreRoundTripWithMock(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests("neonpm/")
	if store.Driver() != core.DriverS3 {
		t.Fatalf("unexpected driver %s", store.Driver())
	}
	if _, err := store.Load(ctx, "neonpm-data"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Save(ctx, "neonpm-data", []byte(`{"version":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "neonpm-data", []byte(`{"version":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := store.Load(ctx, "neonpm-data")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `{"version":2}` {
		t.Fatalf("expected overwritten payload, got %q", got)
	}
	if err := store.Save(ctx, "user", []byte(`{}`)); err != nil {
		t.Fatalf("save user: %v", err)
	}
	keys, err := store.Keys(ctx, "")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "neonpm-data" || keys[1] != "user" {
		t.Fatalf("expected prefix-stripped keys, got %v", keys)
	}
	if ok, err := store.Delete(ctx, "user"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := store.Delete(ctx, "user"); err != nil || ok {
		t.Fatalf("second delete should report false, got %v %v", ok, err)
	}
	if err := store.Save(ctx, "", nil); !errors.Is(err, core.ErrInvalidKey) {
		t.Fatalf("expected invalid key, got %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}
}

func TestDecodeChunkedLite(t *testing.T) {
	if out, ok := decodeChunkedLite([]byte("5\r\nhello\r\n0\r\n\r\n")); !ok || string(out) != "hello" {
		t.Fatalf("expected decoded chunk, got %q %v", out, ok)
	}
	if _, ok := decodeChunkedLite([]byte("plain body")); ok {
		t.Fatalf("plain body must pass through")
	}
	if _, ok := decodeChunkedLite([]byte("zz\r\nhello\r\n0\r\n")); ok {
		t.Fatalf("bad hex must be rejected")
	}
}
