package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/mintvault-go/internal/core/ledger"
	"github.com/yndnr/mintvault-go/internal/core/service"
	"github.com/yndnr/mintvault-go/internal/event"
	"github.com/yndnr/mintvault-go/internal/eventarchive"
	"github.com/yndnr/mintvault-go/internal/infra/buildinfo"
	"github.com/yndnr/mintvault-go/internal/infra/confloader"
	"github.com/yndnr/mintvault-go/internal/infra/shutdown"
	"github.com/yndnr/mintvault-go/internal/server/config"
	"github.com/yndnr/mintvault-go/internal/server/httpserver"
	"github.com/yndnr/mintvault-go/internal/storage"
	"github.com/yndnr/mintvault-go/internal/storage/snapshot"
	"github.com/yndnr/mintvault-go/internal/telemetry/logger"
	"github.com/yndnr/mintvault-go/internal/telemetry/metric"
	"github.com/yndnr/mintvault-go/pkg/sealbox"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("mintvault-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting mintvault-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)

	metrics := metric.NewRegistry()
	shutdownHandler := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout)

	// Storage engine and ledger store.
	kvCfg := storage.DefaultKVConfig(cfg.Storage.DataDir)
	kvCfg.Badger.SyncWrites = cfg.Storage.SyncWrites
	if cfg.Storage.GCInterval > 0 {
		kvCfg.Badger.GCInterval = cfg.Storage.GCInterval.String()
	}
	engine, err := storage.NewBadgerEngine(kvCfg, log, metrics)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	shutdownHandler.OnShutdown(func(context.Context) error {
		log.Info("closing storage engine")
		return engine.Close()
	})

	store := storage.NewLedgerStore(engine)

	// In-memory ledger, recovered from the store.
	led, err := ledger.New(cfg.Collection.Domain())
	if err != nil {
		return fmt.Errorf("create ledger: %w", err)
	}

	// Event bus and archive.
	bus := event.NewBus()
	shutdownHandler.OnShutdown(func(context.Context) error {
		bus.Close()
		return nil
	})

	var archive *eventarchive.Archive
	if cfg.Archive.Enabled {
		path := cfg.Archive.Path
		if path == "" {
			path = filepath.Join(cfg.Storage.DataDir, "events.db")
		}
		archive, err = eventarchive.Open(path)
		if err != nil {
			return fmt.Errorf("open event archive: %w", err)
		}
		shutdownHandler.OnShutdown(func(context.Context) error {
			log.Info("closing event archive")
			return archive.Close()
		})
		log.Info("event archive enabled", "path", path)
	}

	registry := service.NewRegistryService(led, store, service.Options{
		Bus:     bus,
		Archive: archive,
		Metrics: metrics,
	})

	ctx := context.Background()
	if err := registry.Recover(ctx); err != nil {
		return fmt.Errorf("ledger recovery: %w", err)
	}
	log.Info("ledger recovered",
		"minted", led.Minted(),
		"total_supply", led.TotalSupply(),
		"paused", led.Paused())

	// Snapshot manager.
	snapshots, err := initSnapshots(cfg, log)
	if err != nil {
		return fmt.Errorf("init snapshots: %w", err)
	}

	// HTTP server.
	routerCfg := &httpserver.RouterConfig{
		Registry:    registry,
		Metrics:     metrics,
		Maintainer:  engine,
		Logger:      log,
		RateLimit:   cfg.Limits.RequestsPerSecond,
		RateBurst:   cfg.Limits.Burst,
		EnableAudit: true,
	}
	if snapshots != nil {
		routerCfg.Snapshots = snapshots
	}
	router := httpserver.NewRouter(routerCfg)
	httpServer := httpserver.New(cfg.Server.HTTP, router)

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)

		var err error
		if cfg.Server.HTTP.TLSCertFile != "" && cfg.Server.HTTP.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	// Hot-reload the log level on config file changes.
	if *configFile != "" {
		stopWatcher, err := watchLogLevel(*configFile, log)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(context.Context) error {
				return stopWatcher()
			})
		}
	}

	// Periodic snapshots while the server runs.
	if snapshots != nil {
		stopSnapshots := startSnapshotLoop(registry, snapshots, metrics, log)
		shutdownHandler.OnShutdown(func(context.Context) error {
			stopSnapshots()
			return nil
		})
	}

	log.Info("server started")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from defaults, file, and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger and installs it as the
// process default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

// initSnapshots builds the snapshot manager, or returns nil when
// snapshots are disabled.
func initSnapshots(cfg *config.ServerConfig, log logger.Logger) (*snapshot.Manager, error) {
	if cfg.Storage.Snapshot.Dir == "" {
		return nil, nil
	}

	snapCfg := snapshot.DefaultConfig(cfg.Storage.Snapshot.Dir)
	if cfg.Storage.Snapshot.Keep > 0 {
		snapCfg.RetentionCount = cfg.Storage.Snapshot.Keep
	}
	if cfg.Storage.Snapshot.Passphrase != "" {
		box, err := sealbox.New(cfg.Storage.Snapshot.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("snapshot sealing: %w", err)
		}
		snapCfg.Box = box
		log.Info("snapshot sealing enabled", "algorithm", box.Algorithm())
	}

	return snapshot.NewManager(snapCfg)
}

// watchLogLevel reloads log.level from the config file on change.
func watchLogLevel(configFile string, log logger.Logger) (func() error, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		loader := confloader.NewLoader(confloader.WithConfigFile(path))
		cfg := config.Default()
		if err := loader.Load(cfg); err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	watcher.StartAsync()

	return watcher.Stop, nil
}

// startSnapshotLoop snapshots the ledger hourly and prunes old files.
func startSnapshotLoop(registry *service.RegistryService, snapshots *snapshot.Manager, metrics *metric.Registry, log logger.Logger) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				info, err := snapshots.Create(registry.Snapshot())
				if err != nil {
					log.Error("periodic snapshot failed", "error", err)
					continue
				}
				metrics.SnapshotSize.Set(float64(info.Size))
				log.Info("snapshot created",
					"id", info.ID,
					"tokens", info.TokenCount,
					"size", info.Size,
					"sealed", info.Sealed)

				if err := snapshots.Prune(); err != nil {
					log.Warn("snapshot prune failed", "error", err)
				}
			}
		}
	}()

	return func() { close(done) }
}
