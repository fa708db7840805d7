package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/studyhub/internal/models"
	"github.com/desertthunder/studyhub/internal/shared"
)

// DefaultPlaylistKey is the key the playlist collection is stored under.
const DefaultPlaylistKey = "youtubePlaylists"

// PlaylistRepository stores the whole playlist collection as one JSON array under a single key.
type PlaylistRepository struct {
	store KVStore
	key   string
}

// NewPlaylistRepository creates a repository over store. An empty key uses [DefaultPlaylistKey].
func NewPlaylistRepository(store KVStore, key string) *PlaylistRepository {
	if key == "" {
		key = DefaultPlaylistKey
	}
	return &PlaylistRepository{store: store, key: key}
}

// Key returns the store key the collection lives under.
func (r *PlaylistRepository) Key() string {
	return r.key
}

// Load reads and decodes the collection.
//
// Returns [shared.ErrStoreAbsent] when the key is missing and [shared.ErrStoreCorrupt] when the value is not a JSON
// array of playlists.
func (r *PlaylistRepository) Load(ctx context.Context) ([]models.Playlist, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, shared.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: key %s", shared.ErrStoreAbsent, r.key)
	}
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: key %s does not hold a JSON array", shared.ErrStoreCorrupt, r.key)
	}

	var playlists []models.Playlist
	if err := json.Unmarshal(trimmed, &playlists); err != nil {
		return nil, fmt.Errorf("%w: key %s: %v", shared.ErrStoreCorrupt, r.key, err)
	}
	return playlists, nil
}

// Save replaces the stored collection. A nil collection is stored as an empty array.
func (r *PlaylistRepository) Save(ctx context.Context, playlists []models.Playlist) error {
	if playlists == nil {
		playlists = []models.Playlist{}
	}
	data, err := json.Marshal(playlists)
	if err != nil {
		return fmt.Errorf("failed to encode playlists: %w", err)
	}
	return r.store.Set(ctx, r.key, data)
}

// Clear removes the stored collection; later loads report [shared.ErrStoreAbsent].
func (r *PlaylistRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, r.key)
}
