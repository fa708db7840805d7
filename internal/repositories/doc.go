// Package repositories implements persistence for the playlist store.
//
// The whole playlist collection is one JSON document stored under a single key (youtubePlaylists by default), so
// every backend only needs to be a byte-valued key-value store.
//
// Key Implementations:
//   - [SQLiteStore] : kv_store table created by the embedded migrations, with overwritten values kept in kv_history
//   - [RedisStore] : plain string keys
//   - [PostgresStore] : kv_store table created on open
//   - [PlaylistRepository] : typed load/save over any [KVStore]
//
// [PlaylistRepository.Load] distinguishes a missing key ([shared.ErrStoreAbsent]) from a value that does not decode as a
// playlist array ([shared.ErrStoreCorrupt]). Readers that must not fail decide for themselves how to degrade.
package repositories
