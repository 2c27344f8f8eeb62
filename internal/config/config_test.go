package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "revoscan.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATA_DIR", "SQLITE_PATH",
		"ALPACA_API_KEY", "ALPACA_API_SECRET", "ALPACA_DATA_URL",
		"APCA_API_KEY_ID", "APCA_API_SECRET_KEY", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
storage:
  data_dir: "/tmp/revoscan/data"
  sqlite_path: "/tmp/revoscan/ledger.db"
server:
  host: "0.0.0.0"
  port: 8080
alpaca:
  api_key: "test-key"
  api_secret: "test-secret"
  data_url: "https://data.alpaca.markets"
  feed: "iex"
logging:
  level: "info"
  format: "json"
screener:
  universe: ["AAPL", "MSFT", "NVDA"]
  top_n: 5
  weights:
    sentiment: 0.30
    catalyst: 0.25
    insider: 0.15
    options: 0.15
    technical: 0.15
backtest:
  initial_capital: 25000
  risk_free_rate: 0.03
paper:
  initial_cash: 50000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Storage.DataDir != "/tmp/revoscan/data" {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Storage.SQLitePath != "/tmp/revoscan/ledger.db" {
		t.Errorf("Storage.SQLitePath = %q", cfg.Storage.SQLitePath)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8080 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Alpaca.APIKey != "test-key" || cfg.Alpaca.APISecret != "test-secret" {
		t.Errorf("Alpaca credentials = %q/%q", cfg.Alpaca.APIKey, cfg.Alpaca.APISecret)
	}
	if cfg.Alpaca.Feed != "iex" {
		t.Errorf("Alpaca.Feed = %q, want iex", cfg.Alpaca.Feed)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if len(cfg.Screener.Universe) != 3 || cfg.Screener.Universe[0] != "AAPL" {
		t.Errorf("Screener.Universe = %v", cfg.Screener.Universe)
	}
	if cfg.Screener.TopN != 5 {
		t.Errorf("Screener.TopN = %d, want 5", cfg.Screener.TopN)
	}
	if cfg.Screener.Weights.Sentiment != 0.30 || cfg.Screener.Weights.Catalyst != 0.25 {
		t.Errorf("Screener.Weights = %+v", cfg.Screener.Weights)
	}
	if cfg.Backtest.InitialCapital != 25000 {
		t.Errorf("Backtest.InitialCapital = %v, want 25000", cfg.Backtest.InitialCapital)
	}
	if cfg.Backtest.RiskFreeRate != 0.03 {
		t.Errorf("Backtest.RiskFreeRate = %v, want 0.03", cfg.Backtest.RiskFreeRate)
	}
	if cfg.Paper.InitialCash != 50000 {
		t.Errorf("Paper.InitialCash = %v, want 50000", cfg.Paper.InitialCash)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
storage:
  data_dir: "/data"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Screener.Weights.Sentiment != 0.30 {
		t.Errorf("default weights = %+v", cfg.Screener.Weights)
	}
	if cfg.Screener.TopN != 10 {
		t.Errorf("default TopN = %d, want 10", cfg.Screener.TopN)
	}
	if cfg.Backtest.InitialCapital != 10000 {
		t.Errorf("default InitialCapital = %v, want 10000", cfg.Backtest.InitialCapital)
	}
	if cfg.Backtest.RiskFreeRate != 0.04 {
		t.Errorf("default RiskFreeRate = %v, want 0.04", cfg.Backtest.RiskFreeRate)
	}
	if cfg.Paper.InitialCash != 100000 {
		t.Errorf("default InitialCash = %v, want 100000", cfg.Paper.InitialCash)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
alpaca:
  api_key: "yaml-key"
  api_secret: "yaml-secret"
storage:
  data_dir: "/original/data"
`)

	t.Setenv("ALPACA_API_KEY", "env-key")
	t.Setenv("DATA_DIR", "/env/data")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Alpaca.APIKey != "env-key" {
		t.Errorf("Alpaca.APIKey = %q, want %q (env override)", cfg.Alpaca.APIKey, "env-key")
	}
	// api_secret should remain from YAML since no env override was set.
	if cfg.Alpaca.APISecret != "yaml-secret" {
		t.Errorf("Alpaca.APISecret = %q, want %q (from YAML)", cfg.Alpaca.APISecret, "yaml-secret")
	}
	if cfg.Storage.DataDir != "/env/data" {
		t.Errorf("Storage.DataDir = %q, want %q (env override)", cfg.Storage.DataDir, "/env/data")
	}

	// Canonical SDK names win over the ALPACA_* aliases.
	t.Setenv("APCA_API_KEY_ID", "apca-key")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Alpaca.APIKey != "apca-key" {
		t.Errorf("Alpaca.APIKey = %q, want %q (APCA override)", cfg.Alpaca.APIKey, "apca-key")
	}
}
