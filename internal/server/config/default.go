package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:5090"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	DefaultDataDir      = "/var/lib/mintvault/data"
	DefaultGCInterval   = 10 * time.Minute
	DefaultSnapshotKeep = 5

	DefaultRequestsPerSecond = 50.0
	DefaultBurst             = 100

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration. The collection
// section has no defaults; name, symbol, max supply, and admin must
// come from the operator.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:            DefaultHTTPAddr,
				ReadTimeout:     DefaultReadTimeout,
				WriteTimeout:    DefaultWriteTimeout,
				ShutdownTimeout: DefaultShutdownTimeout,
			},
		},
		Storage: StorageSection{
			DataDir:    DefaultDataDir,
			SyncWrites: true,
			GCInterval: DefaultGCInterval,
			Snapshot: SnapshotConfig{
				Keep: DefaultSnapshotKeep,
			},
		},
		Archive: ArchiveSection{
			Enabled: true,
		},
		Limits: LimitsSection{
			RequestsPerSecond: DefaultRequestsPerSecond,
			Burst:             DefaultBurst,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
