package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/feedship/feedship/internal/feed"
	"github.com/feedship/feedship/pkg/batch"
	"github.com/feedship/feedship/pkg/log"
)

// Runner wires a feed source, the batch accumulator and its sink
// together for shipping runs. Records stay opaque end to end: the feed
// reader hands over raw JSON and the accumulator only ever re-serializes
// it.
type Runner struct {
	acc    *batch.Accumulator[json.RawMessage]
	logger log.Logger
}

// NewRunner creates a runner over acc.
func NewRunner(acc *batch.Accumulator[json.RawMessage], logger log.Logger) *Runner {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Runner{acc: acc, logger: logger}
}

// RunFile ships every record of the feed file at path, then flushes.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()

	count := 0
	reader := feed.NewReader(f)
	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := r.acc.Add(ctx, record); err != nil {
			return err
		}
		count++
	}

	r.logger.Info("feed consumed",
		log.String("path", path),
		log.Int("records", count),
	)
	return r.acc.Flush(ctx)
}

// Watch processes feed files as they appear under dir until ctx is
// canceled. Each file is shipped and flushed as its own run; statistics
// accumulate across files for the lifetime of the accumulator.
func (r *Runner) Watch(ctx context.Context, dir string) error {
	w := feed.NewWatcher(dir, r.logger)
	return w.Run(ctx, func(path string) error {
		r.logger.Info("feed file detected", log.String("path", path))
		return r.RunFile(ctx, path)
	})
}
