package cliconfig

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnvConfig applies FEEDSHIP_* environment variables to the Config.
// Environment values override the config file but lose to flags that
// were explicitly set.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setString("feed", os.Getenv("FEEDSHIP_FEED"), &cfg.FeedPath)
	s.setString("watch-dir", os.Getenv("FEEDSHIP_WATCH_DIR"), &cfg.WatchDir)
	s.setString("sink", os.Getenv("FEEDSHIP_SINK"), &cfg.Sink)
	s.setString("endpoint", os.Getenv("FEEDSHIP_ENDPOINT"), &cfg.Endpoint)
	s.setString("auth-key", os.Getenv("FEEDSHIP_AUTH_KEY"), &cfg.AuthKey)
	s.setString("topic", os.Getenv("FEEDSHIP_TOPIC"), &cfg.Topic)
	s.setString("log-level", os.Getenv("FEEDSHIP_LOG_LEVEL"), &cfg.LogLevel)

	if v := os.Getenv("FEEDSHIP_BROKERS"); v != "" && !changed["brokers"] {
		var brokers []string
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		if len(brokers) > 0 {
			cfg.Brokers = brokers
		}
	}

	if v := os.Getenv("FEEDSHIP_MAX_BATCH_MB"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.setFloat("max-batch-mb", f, &cfg.MaxBatchMB)
		}
	}

	// Malformed durations in the environment are ignored rather than
	// fatal; flags and the config file are the strict surfaces.
	_ = s.setDuration("timeout", os.Getenv("FEEDSHIP_HTTP_TIMEOUT"), &cfg.HTTPTimeout)
}
