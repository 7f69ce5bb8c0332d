package config

import (
	"errors"
	"os"

	"github.com/yndnr/mintvault-go/internal/core/domain"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifyCollection(&cfg.Collection); err != nil {
		return err
	}
	if err := verifyLimits(&cfg.Limits); err != nil {
		return err
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http: tls_cert_file and tls_key_file must be set together")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		return errors.New("cannot create data directory: " + err.Error())
	}
	if cfg.Snapshot.Dir != "" && cfg.Snapshot.Keep < 1 {
		return errors.New("storage.snapshot.keep must be at least 1")
	}
	return nil
}

func verifyCollection(cfg *CollectionSection) error {
	if cfg.Name == "" {
		return errors.New("collection.name is required")
	}
	if cfg.Symbol == "" {
		return errors.New("collection.symbol is required")
	}
	if cfg.MaxSupply == 0 {
		return errors.New("collection.max_supply must be greater than zero")
	}
	if cfg.Admin == "" {
		return errors.New("collection.admin is required")
	}
	addr, err := domain.ParseAddress(cfg.Admin)
	if err != nil {
		return errors.New("collection.admin is not a valid address")
	}
	if addr.IsZero() {
		return errors.New("collection.admin must not be the zero address")
	}
	return nil
}

func verifyLimits(cfg *LimitsSection) error {
	if cfg.RequestsPerSecond < 0 {
		return errors.New("limits.requests_per_second must not be negative")
	}
	if cfg.RequestsPerSecond > 0 && cfg.Burst < 1 {
		return errors.New("limits.burst must be at least 1 when rate limiting is enabled")
	}
	return nil
}

// Domain builds the collection configuration from the verified config.
func (c *CollectionSection) Domain() domain.CollectionConfig {
	addr, _ := domain.ParseAddress(c.Admin)
	return domain.CollectionConfig{
		Name:      c.Name,
		Symbol:    c.Symbol,
		BaseURI:   c.BaseURI,
		MaxSupply: c.MaxSupply,
		Admin:     addr,
	}
}
