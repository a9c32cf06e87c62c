package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML
// friendly.
type FileConfig struct {
	FeedPath    string   `toml:"feed_path"`
	WatchDir    string   `toml:"watch_dir"`
	Sink        string   `toml:"sink"`
	Endpoint    string   `toml:"endpoint"`
	AuthKey     string   `toml:"auth_key"`
	Brokers     []string `toml:"brokers"`
	Topic       string   `toml:"topic"`
	MaxBatchMB  float64  `toml:"max_batch_mb"`
	HTTPTimeout string   `toml:"http_timeout"`
	LogLevel    string   `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path,
// ~/.feedship/config.toml, or "" when the home directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".feedship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config
// struct, skipping values whose flags were explicitly set.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("feed", fc.FeedPath, &cfg.FeedPath)
	s.setString("watch-dir", fc.WatchDir, &cfg.WatchDir)
	s.setString("sink", fc.Sink, &cfg.Sink)
	s.setString("endpoint", fc.Endpoint, &cfg.Endpoint)
	s.setString("auth-key", fc.AuthKey, &cfg.AuthKey)
	s.setStrings("brokers", fc.Brokers, &cfg.Brokers)
	s.setString("topic", fc.Topic, &cfg.Topic)
	s.setFloat("max-batch-mb", fc.MaxBatchMB, &cfg.MaxBatchMB)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	return s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout)
}
