package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
feed_path = "/data/products.ndjson"
sink = "kafka"
brokers = ["k1:9092", "k2:9092"]
topic = "product-batches"
max_batch_mb = 2.5
http_timeout = "90s"
log_level = "debug"
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}
	if fc.FeedPath != "/data/products.ndjson" {
		t.Errorf("FeedPath = %q", fc.FeedPath)
	}
	if fc.Sink != "kafka" || fc.Topic != "product-batches" {
		t.Errorf("sink config = %q/%q", fc.Sink, fc.Topic)
	}
	if len(fc.Brokers) != 2 {
		t.Errorf("Brokers = %v, want 2 entries", fc.Brokers)
	}
	if fc.MaxBatchMB != 2.5 {
		t.Errorf("MaxBatchMB = %v, want 2.5", fc.MaxBatchMB)
	}
}

func TestLoadFileConfigMissing(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFileConfigInvalidTOML(t *testing.T) {
	path := writeConfigFile(t, "feed_path = [broken")
	if _, err := LoadFileConfig(path); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestApplyFileConfigRespectsFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Endpoint = "http://from-flag:8080"

	fc := FileConfig{
		FeedPath:    "/data/feed.ndjson",
		Endpoint:    "http://from-file:8080",
		MaxBatchMB:  8,
		HTTPTimeout: "2m",
	}
	changed := map[string]bool{"endpoint": true}

	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}

	if cfg.Endpoint != "http://from-flag:8080" {
		t.Errorf("Endpoint = %q, flag value must win", cfg.Endpoint)
	}
	if cfg.FeedPath != "/data/feed.ndjson" {
		t.Errorf("FeedPath = %q, want file value", cfg.FeedPath)
	}
	if cfg.MaxBatchMB != 8 {
		t.Errorf("MaxBatchMB = %v, want 8", cfg.MaxBatchMB)
	}
	if cfg.HTTPTimeout != 2*time.Minute {
		t.Errorf("HTTPTimeout = %v, want 2m", cfg.HTTPTimeout)
	}
}

func TestApplyFileConfigBadDuration(t *testing.T) {
	cfg := DefaultConfig()
	fc := FileConfig{HTTPTimeout: "soon"}

	if err := ApplyFileConfig(&cfg, fc, nil); err == nil {
		t.Fatal("expected error for bad duration")
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("FEEDSHIP_ENDPOINT", "http://from-env:8080")
	t.Setenv("FEEDSHIP_BROKERS", "k1:9092, k2:9092")
	t.Setenv("FEEDSHIP_MAX_BATCH_MB", "16")
	t.Setenv("FEEDSHIP_SINK", "kafka")

	cfg := DefaultConfig()
	ApplyEnvConfig(&cfg, map[string]bool{"sink": true})

	if cfg.Endpoint != "http://from-env:8080" {
		t.Errorf("Endpoint = %q, want env value", cfg.Endpoint)
	}
	if len(cfg.Brokers) != 2 || cfg.Brokers[1] != "k2:9092" {
		t.Errorf("Brokers = %v, want split and trimmed", cfg.Brokers)
	}
	if cfg.MaxBatchMB != 16 {
		t.Errorf("MaxBatchMB = %v, want 16", cfg.MaxBatchMB)
	}
	if cfg.Sink != SinkHTTP {
		t.Errorf("Sink = %q, flag-set value must win over env", cfg.Sink)
	}
}
