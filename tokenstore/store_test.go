package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/sttkit/logger"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	store, err := NewRedisStore(context.Background(), RedisConfig{Addr: mini.Addr()}, logger.Nop())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, mini
}

func TestStores_RoundTrip(t *testing.T) {
	redisStore, _ := newTestRedisStore(t)
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, ok, err := store.Get(ctx, "att:key"); err != nil || ok {
				t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
			}
			if err := store.Set(ctx, "att:key", "tok-1", time.Hour); err != nil {
				t.Fatalf("Set: %v", err)
			}
			token, ok, err := store.Get(ctx, "att:key")
			if err != nil || !ok || token != "tok-1" {
				t.Fatalf("Get = %q, %v, %v", token, ok, err)
			}
			if err := store.Delete(ctx, "att:key"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, ok, _ := store.Get(ctx, "att:key"); ok {
				t.Error("expected miss after delete")
			}
			if err := store.Delete(ctx, "never-set"); err != nil {
				t.Errorf("deleting a missing key should succeed: %v", err)
			}
		})
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_ = store.Set(ctx, "k", "v", time.Minute)
	_ = store.Set(ctx, "forever", "v", 0)

	now = now.Add(2 * time.Minute)
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("expected expired token to be dropped")
	}
	if _, ok, _ := store.Get(ctx, "forever"); !ok {
		t.Error("zero ttl should never expire")
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestMemoryStore_EvictKeepsFreshEntry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_ = store.Set(ctx, "att:app", "stale", time.Minute)
	now = now.Add(2 * time.Minute)

	// A Get saw the stale entry expire; a Set lands before it evicts.
	_ = store.Set(ctx, "att:app", "fresh", time.Hour)
	store.evict("att:app")

	tok, ok, err := store.Get(ctx, "att:app")
	if err != nil || !ok || tok != "fresh" {
		t.Fatalf("Get() = %q, %v, %v; want fresh token kept", tok, ok, err)
	}

	now = now.Add(2 * time.Hour)
	store.evict("att:app")
	if store.Len() != 0 {
		t.Errorf("Len() = %d, expired entry should be evicted", store.Len())
	}
}

func TestRedisStore_TTLAndPrefix(t *testing.T) {
	store, mini := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "att", "tok", 2*time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mini.Exists("sttkit:token:att") {
		t.Fatal("expected key stored under default prefix")
	}
	if ttl := mini.TTL("sttkit:token:att"); ttl != 2*time.Second {
		t.Errorf("TTL = %s, want 2s", ttl)
	}

	mini.FastForward(3 * time.Second)
	if _, ok, err := store.Get(ctx, "att"); err != nil || ok {
		t.Errorf("expected expiry, got ok=%v err=%v", ok, err)
	}
}

func TestRedisStore_ServerError(t *testing.T) {
	store, mini := newTestRedisStore(t)
	mini.SetError("LOADING")
	defer mini.SetError("")

	if _, _, err := store.Get(context.Background(), "att"); err == nil {
		t.Error("expected error to surface")
	}
}

func TestNewRedisStore_Errors(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), RedisConfig{}, nil); err == nil {
		t.Error("expected error for empty addr")
	}
	cfg := RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond}
	if _, err := NewRedisStore(context.Background(), cfg, logger.Nop()); err == nil {
		t.Error("expected ping failure")
	}
}

func TestRedisConfig_ApplyDefaults(t *testing.T) {
	var cfg RedisConfig
	cfg.ApplyDefaults()
	if cfg.KeyPrefix != "sttkit:token" || cfg.DialTimeout != 5*time.Second || cfg.OpTimeout != 3*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}
