package confloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yndnr/mintvault-go/internal/server/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mintvault.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  http:
    addr: "0.0.0.0:8080"
collection:
  name: "Vault Relics"
  symbol: "RELIC"
  max_supply: 100
  admin: "0x00000000000000000000000000000000000000ad"
log:
  level: debug
`)

	cfg := config.Default()
	l := NewLoader(WithConfigFile(path))
	if err := l.Load(cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTP.Addr != "0.0.0.0:8080" {
		t.Errorf("addr = %s", cfg.Server.HTTP.Addr)
	}
	if cfg.Collection.MaxSupply != 100 || cfg.Collection.Symbol != "RELIC" {
		t.Errorf("collection = %+v", cfg.Collection)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %s", cfg.Log.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Log.Format != "json" {
		t.Errorf("log format = %s", cfg.Log.Format)
	}
	if !l.IsLoaded() {
		t.Error("IsLoaded() = false")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
log:
  level: info
`)
	t.Setenv("MINTVAULT_LOG_LEVEL", "error")

	cfg := config.Default()
	if err := NewLoader(WithConfigFile(path)).Load(cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("log level = %s, want env override", cfg.Log.Level)
	}
}

func TestEnvKeyTransformation(t *testing.T) {
	t.Setenv("MINTVAULT_SERVER_HTTP_ADDR", "127.0.0.1:9999")

	cfg := config.Default()
	if err := NewLoader().Load(cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.HTTP.Addr != "127.0.0.1:9999" {
		t.Errorf("addr = %s", cfg.Server.HTTP.Addr)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	cfg := config.Default()
	err := NewLoader(WithConfigFile("/nonexistent/mintvault.yaml")).Load(cfg)
	if err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestLoadMap(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{"log.level": "warn"}); err != nil {
		t.Fatal(err)
	}
	if got := l.GetString("log.level"); got != "warn" {
		t.Errorf("GetString(log.level) = %q", got)
	}
}
