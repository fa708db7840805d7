package repositories

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/desertthunder/studyhub/internal/shared"
	"github.com/redis/go-redis/v9"
)

// setupSQLite creates an in-memory SQLite store with migrations applied
func setupSQLite(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := OpenSQLite(context.Background(), shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func setupRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := OpenRedis(context.Background(), shared.RedisConfig{Address: mr.Addr()})
	if err != nil {
		t.Fatalf("failed to connect to miniredis: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, mr
}

// testKVStore runs the contract every backend must satisfy.
func testKVStore(t *testing.T, store KVStore) {
	ctx := context.Background()

	t.Run("Get missing key", func(t *testing.T) {
		if _, err := store.Get(ctx, "missing"); !errors.Is(err, shared.ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("Set then Get", func(t *testing.T) {
		if err := store.Set(ctx, "k", []byte(`[1]`)); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
		got, err := store.Get(ctx, "k")
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if string(got) != `[1]` {
			t.Errorf("expected [1], got %s", got)
		}
	})

	t.Run("Set overwrites", func(t *testing.T) {
		if err := store.Set(ctx, "k", []byte(`[2]`)); err != nil {
			t.Fatalf("failed to overwrite: %v", err)
		}
		got, _ := store.Get(ctx, "k")
		if string(got) != `[2]` {
			t.Errorf("expected [2], got %s", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "k"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if _, err := store.Get(ctx, "k"); !errors.Is(err, shared.ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
		}
	})

	t.Run("Delete missing key is not an error", func(t *testing.T) {
		if err := store.Delete(ctx, "never-set"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestSQLiteStore(t *testing.T) {
	t.Run("KVStore contract", func(t *testing.T) {
		testKVStore(t, setupSQLite(t))
	})

	t.Run("records history on overwrite", func(t *testing.T) {
		store := setupSQLite(t)
		ctx := context.Background()

		for _, v := range []string{"a", "b", "c"} {
			if err := store.Set(ctx, "k", []byte(v)); err != nil {
				t.Fatalf("failed to set %s: %v", v, err)
			}
		}

		n, err := store.HistoryCount(ctx, "k")
		if err != nil {
			t.Fatalf("failed to count history: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 replaced values, got %d", n)
		}
	})

	t.Run("requires a path", func(t *testing.T) {
		_, err := OpenSQLite(context.Background(), shared.DatabaseConfig{})
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("persists to a file", func(t *testing.T) {
		path := t.TempDir() + "/studyhub.db"
		ctx := context.Background()

		store, err := OpenSQLite(ctx, shared.DatabaseConfig{Path: path, MaxOpenConns: 1, MaxIdleConns: 1})
		if err != nil {
			t.Fatalf("failed to open: %v", err)
		}
		if err := store.Set(ctx, "k", []byte("v")); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
		store.Close()

		reopened, err := OpenSQLite(ctx, shared.DatabaseConfig{Path: path})
		if err != nil {
			t.Fatalf("failed to reopen: %v", err)
		}
		defer reopened.Close()

		got, err := reopened.Get(ctx, "k")
		if err != nil || string(got) != "v" {
			t.Errorf("expected v after reopen, got %q, %v", got, err)
		}
	})
}

func TestRedisStore(t *testing.T) {
	t.Run("KVStore contract", func(t *testing.T) {
		store, _ := setupRedis(t)
		testKVStore(t, store)
	})

	t.Run("stores raw bytes under the key", func(t *testing.T) {
		store, mr := setupRedis(t)
		if err := store.Set(context.Background(), "youtubePlaylists", []byte(`[]`)); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
		got, err := mr.Get("youtubePlaylists")
		if err != nil {
			t.Fatalf("miniredis get failed: %v", err)
		}
		if got != `[]` {
			t.Errorf("expected [], got %s", got)
		}
	})

	t.Run("connection failure", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := OpenRedis(context.Background(), shared.RedisConfig{Address: addr})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("read failure is not reported as a missing key", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
		defer store.Close()

		mr.SetError("server is sad")
		_, err := store.Get(context.Background(), "k")
		if err == nil || errors.Is(err, shared.ErrKeyNotFound) {
			t.Errorf("expected a read error, got %v", err)
		}
	})

	t.Run("requires an address", func(t *testing.T) {
		if _, err := OpenRedis(context.Background(), shared.RedisConfig{}); !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("STUDYHUB_TEST_POSTGRES_URL")

	t.Run("requires a url", func(t *testing.T) {
		if _, err := OpenPostgres(context.Background(), ""); !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("KVStore contract", func(t *testing.T) {
		if url == "" {
			t.Skip("STUDYHUB_TEST_POSTGRES_URL not set")
		}
		store, err := OpenPostgres(context.Background(), url)
		if err != nil {
			t.Fatalf("failed to connect: %v", err)
		}
		defer store.Close()

		ctx := context.Background()
		for _, k := range []string{"k", "missing", "never-set"} {
			store.Delete(ctx, k)
		}
		testKVStore(t, store)
	})
}

func TestOpen(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		cfg := shared.DefaultConfig()
		cfg.Database.Path = ":memory:"

		store, err := Open(context.Background(), cfg)
		if err != nil {
			t.Fatalf("failed to open: %v", err)
		}
		defer store.Close()

		if _, ok := store.(*SQLiteStore); !ok {
			t.Errorf("expected *SQLiteStore, got %T", store)
		}
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := shared.DefaultConfig()
		cfg.Store.Backend = shared.BackendRedis
		cfg.Redis.Address = mr.Addr()

		store, err := Open(context.Background(), cfg)
		if err != nil {
			t.Fatalf("failed to open: %v", err)
		}
		defer store.Close()

		if _, ok := store.(*RedisStore); !ok {
			t.Errorf("expected *RedisStore, got %T", store)
		}
	})

	t.Run("failed backend returns a nil store", func(t *testing.T) {
		cfg := shared.DefaultConfig()
		cfg.Database.Path = ""

		store, err := Open(context.Background(), cfg)
		if err == nil {
			t.Fatal("expected error")
		}
		if store != nil {
			t.Errorf("expected nil store, got %T", store)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := shared.DefaultConfig()
		cfg.Store.Backend = "etcd"

		if _, err := Open(context.Background(), cfg); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
