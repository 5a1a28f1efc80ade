package storage

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemorySetVisibleAfterSave(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.Set(ctx, "balance", "12345000"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "balance"); ok {
		t.Fatalf("value visible before save")
	}
	if err := store.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	v, ok, err := store.Get(ctx, "balance")
	if err != nil || !ok || v != "12345000" {
		t.Fatalf("expected 12345000 got %q ok=%v err=%v", v, ok, err)
	}
	if store.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", store.Saves())
	}
}

func TestRedisRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	store := NewRedis(client, "rpJEDJy8pYSEmuKnqwQQEu2uGYcK5QRTjF")

	if _, ok, err := store.Get(ctx, "balance"); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "balance", "20000000"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	v, ok, err := store.Get(ctx, "balance")
	if err != nil || !ok || v != "20000000" {
		t.Fatalf("expected 20000000 got %q ok=%v err=%v", v, ok, err)
	}
}

func TestRedisScopesAreIsolated(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	a := NewRedis(client, "wallet-a")
	b := NewRedis(client, "wallet-b")

	if err := a.Set(ctx, "balance", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := a.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, ok, _ := b.Get(ctx, "balance"); ok {
		t.Fatalf("scope b sees scope a's value")
	}
}

func TestRedisSaveRetriesAfterFailure(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	store := NewRedis(client, "wallet-a")

	if err := store.Set(ctx, "balance", "7"); err != nil {
		t.Fatalf("set: %v", err)
	}

	mr.SetError("boom")
	if err := store.Save(ctx); err == nil {
		t.Fatalf("expected save failure")
	}
	mr.SetError("")

	if err := store.Save(ctx); err != nil {
		t.Fatalf("retry save: %v", err)
	}
	v, ok, err := store.Get(ctx, "balance")
	if err != nil || !ok || v != "7" {
		t.Fatalf("expected 7 got %q ok=%v err=%v", v, ok, err)
	}
}
