package config

import "time"

// ServerConfig is the root configuration for mintvault-server.
type ServerConfig struct {
	Server     ServerSection     `koanf:"server"`
	Storage    StorageSection    `koanf:"storage"`
	Collection CollectionSection `koanf:"collection"`
	Archive    ArchiveSection    `koanf:"archive"`
	Limits     LimitsSection     `koanf:"limits"`
	Log        LogSection        `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	TLSCertFile     string        `koanf:"tls_cert_file"`
	TLSKeyFile      string        `koanf:"tls_key_file"`
}

// StorageSection configures the ledger store and snapshots.
type StorageSection struct {
	DataDir string `koanf:"data_dir"`

	// SyncWrites enables fsync on every write. Disable only when an
	// external durability mechanism exists.
	SyncWrites bool `koanf:"sync_writes"`

	// GCInterval is the Badger value log GC interval.
	GCInterval time.Duration `koanf:"gc_interval"`

	Snapshot SnapshotConfig `koanf:"snapshot"`
}

// SnapshotConfig configures sealed state snapshots.
type SnapshotConfig struct {
	// Dir is the snapshot directory. Empty disables snapshots.
	Dir string `koanf:"dir"`

	// Passphrase seals snapshot payloads. Empty writes plaintext.
	Passphrase string `koanf:"passphrase"`

	// Keep is the number of snapshots retained.
	Keep int `koanf:"keep"`
}

// CollectionSection declares the collection this server manages.
// Name, symbol, max supply, and admin are fixed at first start.
type CollectionSection struct {
	Name      string `koanf:"name"`
	Symbol    string `koanf:"symbol"`
	BaseURI   string `koanf:"base_uri"`
	MaxSupply uint64 `koanf:"max_supply"`
	Admin     string `koanf:"admin"`
}

// ArchiveSection configures the SQLite event archive.
type ArchiveSection struct {
	// Enabled toggles event archiving.
	Enabled bool `koanf:"enabled"`

	// Path is the SQLite database file. Empty derives
	// <storage.data_dir>/events.db.
	Path string `koanf:"path"`
}

// LimitsSection configures request throttling.
type LimitsSection struct {
	// RequestsPerSecond is the per-client sustained rate. Zero
	// disables rate limiting.
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// Burst is the per-client burst allowance.
	Burst int `koanf:"burst"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
