// package repositories provides persistence layer implementations for the playlist store.
//
// Each backend implements [KVStore]; [PlaylistRepository] layers typed load and save on top of any of them.
package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/studyhub/internal/shared"
)

// KVStore is a byte-valued key-value store.
//
// Get returns [shared.ErrKeyNotFound] when the key has never been set or was deleted.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open connects to the backend selected by cfg.Store.Backend and prepares it for use.
//
// The sqlite backend runs the embedded migrations; postgres creates its table if missing; redis is pinged.
func Open(ctx context.Context, cfg *shared.Config) (KVStore, error) {
	var (
		store KVStore
		err   error
	)
	switch cfg.Store.Backend {
	case "", shared.BackendSQLite:
		store, err = OpenSQLite(ctx, cfg.Database)
	case shared.BackendRedis:
		store, err = OpenRedis(ctx, cfg.Redis)
	case shared.BackendPostgres:
		store, err = OpenPostgres(ctx, cfg.Postgres.URL)
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", shared.ErrInvalidConfig, cfg.Store.Backend)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}
