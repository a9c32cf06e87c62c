package cliconfig

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Sink kinds accepted by the CLI.
const (
	SinkHTTP   = "http"
	SinkKafka  = "kafka"
	SinkStdout = "stdout"
)

// Config holds the full CLI configuration, merged from defaults, the
// config file, FEEDSHIP_* environment variables and flags (in ascending
// precedence).
type Config struct {
	// FeedPath is an NDJSON feed file to ship once.
	FeedPath string

	// WatchDir is a directory to watch for dropped feed files. Mutually
	// exclusive with FeedPath.
	WatchDir string

	Sink     string
	Endpoint string
	AuthKey  string

	Brokers []string
	Topic   string

	// MaxBatchMB caps the serialized size of each emitted batch,
	// in megabytes (1 MB = 1,048,576 bytes).
	MaxBatchMB float64

	HTTPTimeout time.Duration
	LogLevel    string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Sink:        SinkHTTP,
		MaxBatchMB:  4,
		HTTPTimeout: 60 * time.Second,
		LogLevel:    "info",
		AuthKey:     os.Getenv("FEEDSHIP_AUTH_KEY"),
	}
}

// Validate checks the configuration for errors and normalizes derived
// values.
func (c *Config) Validate() error {
	if c.FeedPath == "" && c.WatchDir == "" {
		return fmt.Errorf("a feed file or a watch dir is required")
	}
	if c.FeedPath != "" && c.WatchDir != "" {
		return fmt.Errorf("feed file and watch dir are mutually exclusive")
	}
	if c.MaxBatchMB <= 0 {
		return fmt.Errorf("max batch size must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}

	switch c.Sink {
	case SinkHTTP:
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint is required for the http sink")
		}
		c.Endpoint = strings.TrimRight(c.Endpoint, "/")
	case SinkKafka:
		if len(c.Brokers) == 0 {
			return fmt.Errorf("brokers are required for the kafka sink")
		}
		if c.Topic == "" {
			return fmt.Errorf("topic is required for the kafka sink")
		}
	case SinkStdout:
	default:
		return fmt.Errorf("unknown sink %q", c.Sink)
	}
	return nil
}

// configSetter applies configuration values while respecting flag
// precedence: a value is only applied when its flag was not explicitly
// set on the command line.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration for %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
