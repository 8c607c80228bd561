package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	if _, ok, _ := store.Get(ctx, "missing"); ok {
		t.Fatal("expected miss")
	}

	if err := store.Set(ctx, "user:7", "Ada", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, _ := store.Get(ctx, "user:7"); !ok || v != "Ada" {
		t.Fatalf("expected hit, got %q %v", v, ok)
	}

	_ = store.Set(ctx, "short", "x", -time.Second)
	if _, ok, _ := store.Get(ctx, "short"); ok {
		t.Fatal("expected expired entry to miss")
	}

	_ = store.Delete(ctx, "user:7")
	if _, ok, _ := store.Get(ctx, "user:7"); ok {
		t.Fatal("expected deleted entry to miss")
	}
	if store.Kind() != "memory" {
		t.Fatalf("unexpected kind %s", store.Kind())
	}
}
