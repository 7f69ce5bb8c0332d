package storage

import (
	"context"
	"io"
)

// KVEngine defines the interface for embedded key-value storage.
//
// The abstraction keeps the ledger store independent of the concrete
// engine so an alternative (bbolt, Pebble) could be swapped in without
// touching the record mapping.
//
// Implementations must be safe for concurrent use and must survive
// process restarts.
type KVEngine interface {
	// Get retrieves a value by key.
	// Returns ErrKeyNotFound if the key doesn't exist.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set stores a key-value pair.
	Set(ctx context.Context, key, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key []byte) error

	// Scan iterates over keys with a given prefix in key order.
	// The callback returns false to stop iteration.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error

	// SaveSnapshot streams a full backup of the store.
	SaveSnapshot(ctx context.Context) (io.ReadCloser, error)

	// LoadSnapshot restores from a backup, replacing existing data.
	LoadSnapshot(ctx context.Context, r io.Reader) error

	// GC triggers garbage collection for LSM-based engines.
	// Returns approximate bytes reclaimed.
	GC(ctx context.Context) (uint64, error)

	// Stats returns storage statistics.
	Stats(ctx context.Context) (*KVStats, error)

	// Close gracefully shuts down the engine.
	Close() error
}

// KVStats contains storage engine statistics.
type KVStats struct {
	// TotalSize is the total disk usage in bytes.
	TotalSize uint64

	// LSMSize is the LSM tree size.
	LSMSize uint64

	// ValueLogSize is the value log size.
	ValueLogSize uint64

	// LastGCTime is the last GC run timestamp (Unix milliseconds).
	LastGCTime int64

	// GCBytesReclaimed is the total bytes reclaimed by GC.
	GCBytesReclaimed uint64
}

// KVConfig configures an embedded KV engine.
type KVConfig struct {
	// Dir is the storage directory.
	Dir string

	// Badger holds engine-specific tuning parameters.
	Badger BadgerConfig
}

// BadgerConfig contains Badger-specific tuning parameters.
type BadgerConfig struct {
	// GCInterval is the interval between automatic GC runs.
	// Default: 10m
	GCInterval string

	// GCThreshold is the GC discard ratio threshold (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 64MB
	CacheSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 256MB
	ValueLogFileSize int64

	// NumMemtables is the number of memtables.
	// Default: 2
	NumMemtables int

	// SyncWrites enables fsync after each write. The ledger has no
	// other durability mechanism, so this defaults to true.
	SyncWrites bool
}

// DefaultKVConfig returns the default KV configuration.
func DefaultKVConfig(dir string) KVConfig {
	return KVConfig{
		Dir:    dir,
		Badger: DefaultBadgerConfig(),
	}
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCInterval:       "10m",
		GCThreshold:      0.5,
		CacheSize:        64 << 20,
		ValueLogFileSize: 256 << 20,
		NumMemtables:     2,
		SyncWrites:       true,
	}
}
