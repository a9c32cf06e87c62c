package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/feedship/feedship/internal/app"
	"github.com/feedship/feedship/internal/cliconfig"
	"github.com/feedship/feedship/pkg/batch"
	"github.com/feedship/feedship/pkg/log"
	"github.com/feedship/feedship/pkg/sink"
)

const helpDescription = `
Ship NDJSON record feeds to a sink in size-capped JSON batches.

Highlights:
  - Packs records into consecutive batches whose serialized size stays
    under the configured cap, preserving feed order exactly.
  - Ships to an HTTP endpoint, a Kafka topic, or stdout.
  - Configure via file ($HOME/.feedship/config.toml), FEEDSHIP_* env
    vars, or flags; flags win.
  - Reports per-run statistics: batches, bytes, full/partial split and
    cap utilization.
`

var exampleUsage = strings.TrimSpace(`
  feedship --feed products.ndjson --endpoint https://ingest.example.com/v1/batches --auth-key <api-key>
  feedship --watch-dir /var/spool/feeds --sink kafka --brokers k1:9092 --topic product-batches
  feedship --feed products.ndjson --sink stdout --max-batch-mb 0.5
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:     "feedship",
		Short:   "Ship NDJSON record feeds to a sink in size-capped JSON batches",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Flags explicitly set on the command line keep precedence
			// over the config file and environment.
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}
			cliconfig.ApplyEnvConfig(&cfg, changed)

			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&cfgPath, "config", "c", "", "path to config file (default $HOME/.feedship/config.toml)")
	flags.StringVarP(&cfg.FeedPath, "feed", "f", cfg.FeedPath, "NDJSON feed file to ship once")
	flags.StringVar(&cfg.WatchDir, "watch-dir", cfg.WatchDir, "directory to watch for dropped feed files")
	flags.StringVar(&cfg.Sink, "sink", cfg.Sink, "sink kind: http, kafka or stdout")
	flags.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "HTTP ingestion endpoint")
	flags.StringVar(&cfg.AuthKey, "auth-key", cfg.AuthKey, "API key for the HTTP sink")
	flags.StringSliceVar(&cfg.Brokers, "brokers", cfg.Brokers, "Kafka broker addresses")
	flags.StringVar(&cfg.Topic, "topic", cfg.Topic, "Kafka topic for batch payloads")
	flags.Float64Var(&cfg.MaxBatchMB, "max-batch-mb", cfg.MaxBatchMB, "maximum serialized batch size in megabytes")
	flags.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP request timeout")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cliconfig.Config) error {
	logger := newLogger(cfg.LogLevel)

	snk, closeSink, err := buildSink(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	acc, err := batch.New[json.RawMessage](cfg.MaxBatchMB, snk, batch.WithLogger(logger))
	if err != nil {
		return err
	}

	runner := app.NewRunner(acc, logger)
	if cfg.WatchDir != "" {
		logger.Info("watching for feed files",
			log.String("dir", cfg.WatchDir),
			log.Float64("max_batch_mb", cfg.MaxBatchMB),
		)
		if err := runner.Watch(ctx, cfg.WatchDir); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		// Report what was shipped before the signal arrived.
		return acc.Flush(context.Background())
	}
	return runner.RunFile(ctx, cfg.FeedPath)
}

func buildSink(cfg cliconfig.Config, logger log.Logger) (sink.Sink, func(), error) {
	switch cfg.Sink {
	case cliconfig.SinkHTTP:
		client := &http.Client{Timeout: cfg.HTTPTimeout}
		return sink.NewHTTPSink(client, cfg.Endpoint, cfg.AuthKey, logger), func() {}, nil
	case cliconfig.SinkKafka:
		ks := sink.NewKafkaSink(cfg.Brokers, cfg.Topic)
		return ks, func() {
			if err := ks.Close(); err != nil {
				logger.Warn("close kafka writer", log.Err(err))
			}
		}, nil
	case cliconfig.SinkStdout:
		return sink.NewWriterSink(os.Stdout), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown sink %q", cfg.Sink)
}

func newLogger(level string) log.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	zl := zerolog.New(output).Level(lvl).With().Timestamp().Logger()
	return log.NewZerologAdapterWithLogger(zl)
}
