package batch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/feedship/feedship/pkg/log"
	"github.com/feedship/feedship/pkg/sink"
)

const (
	// bytesPerMB converts the configured megabyte cap to bytes (1 MiB).
	bytesPerMB = 1 << 20

	// fullBatchThreshold classifies an emitted batch as full when its
	// exact serialized size exceeds this share of the cap.
	fullBatchThreshold = 0.95

	// exactSizeUpTo and recalibrateEvery bound estimation drift: the
	// running estimate is replaced by an exact recomputation while the
	// batch holds at most exactSizeUpTo records and again whenever its
	// length is a multiple of recalibrateEvery. Exact recomputation is
	// O(n) in batch size, so between recalibrations at most
	// recalibrateEvery-1 incremental estimates can accumulate drift.
	exactSizeUpTo    = 3
	recalibrateEvery = 100
)

// Accumulator packs records into consecutive batches whose serialized
// JSON array stays within a byte cap and emits each completed batch to a
// sink.
//
// It is not safe for concurrent use: Add, AddAll and Flush must be
// called sequentially by a single caller. The sink is invoked
// synchronously and its errors propagate unretried.
type Accumulator[T any] struct {
	maxSizeBytes float64
	sink         sink.Sink
	logger       log.Logger
	sizer        Sizer[T]

	batch *Batch[T]
	stats Stats
}

// Option configures optional behavior of an Accumulator.
type Option func(*options)

type options struct {
	logger log.Logger
}

// WithLogger sets a custom logger. If not provided, a no-op logger is
// used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates an accumulator emitting batches of at most maxSizeMB
// megabytes (1 MB = 1,048,576 bytes) to s.
func New[T any](maxSizeMB float64, s sink.Sink, opts ...Option) (*Accumulator[T], error) {
	if maxSizeMB <= 0 {
		return nil, ErrInvalidMaxSize
	}
	if s == nil {
		return nil, ErrNilSink
	}

	o := options{logger: log.NewNoopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Accumulator[T]{
		maxSizeBytes: maxSizeMB * bytesPerMB,
		sink:         s,
		logger:       o.logger,
		batch:        NewBatch[T](),
	}, nil
}

// Add appends record to the in-progress batch, emitting the batch first
// when the record's estimated addition would push the serialized size
// past the cap.
//
// Known limitation: a record whose own serialized form already exceeds
// the cap is placed alone in its own batch and emitted over cap rather
// than rejected or split. The cap is a best-effort bound with exactly
// that exception.
func (a *Accumulator[T]) Add(ctx context.Context, record T) error {
	addition, err := a.sizer.AdditionSize(record, !a.batch.Empty())
	if err != nil {
		return fmt.Errorf("estimate record size: %w", err)
	}

	if float64(a.batch.EstimatedSize+addition) > a.maxSizeBytes && !a.batch.Empty() {
		if err := a.emit(ctx); err != nil {
			return err
		}
	}

	a.batch.Add(record, addition)

	// Drift correction: re-measure small batches and every
	// recalibrateEvery-th record exactly, trust the estimate otherwise.
	n := a.batch.Len()
	if n <= exactSizeUpTo || n%recalibrateEvery == 0 {
		exact, err := a.sizer.BatchSize(a.batch.Records)
		if err != nil {
			return fmt.Errorf("recompute batch size: %w", err)
		}
		a.batch.EstimatedSize = exact
	}
	return nil
}

// AddAll adds records in order. Batch boundaries are decided exactly as
// if each record had been passed to Add individually; an empty input is
// a no-op.
func (a *Accumulator[T]) AddAll(ctx context.Context, records []T) error {
	for i, record := range records {
		if err := a.Add(ctx, record); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	if len(records) > 0 {
		a.logger.Debug("records accepted", log.Int("count", len(records)))
	}
	return nil
}

// Flush emits any pending non-empty batch and reports the run summary
// through the logger. Calling it again without intervening Adds emits
// nothing and repeats the summary.
func (a *Accumulator[T]) Flush(ctx context.Context) error {
	if err := a.emit(ctx); err != nil {
		return err
	}
	a.logSummary()
	return nil
}

// Stats returns a snapshot of the run statistics.
func (a *Accumulator[T]) Stats() Stats {
	return a.stats
}

// Summary returns the derived run summary.
func (a *Accumulator[T]) Summary() Summary {
	return a.stats.Summarize(a.maxSizeBytes)
}

// emit closes the in-progress batch: serialize exactly, record
// statistics, reset, then hand the payload to the sink. A no-op on an
// empty batch, so the sink never sees an empty array.
//
// Statistics and the reset are applied before the sink call and there is
// no rollback: a sink error leaves the batch already counted as sent and
// the accumulator empty.
func (a *Accumulator[T]) emit(ctx context.Context) error {
	if a.batch.Empty() {
		return nil
	}

	payload, err := json.Marshal(a.batch.Records)
	if err != nil {
		return fmt.Errorf("serialize batch: %w", err)
	}

	records := a.batch.Len()
	full := float64(len(payload)) > a.maxSizeBytes*fullBatchThreshold
	a.stats.observe(records, len(payload), full)
	a.batch.Reset()

	a.logger.Debug("batch emitted",
		log.Int("records", records),
		log.Int("bytes", len(payload)),
		log.Bool("full", full),
	)
	return a.sink.Emit(ctx, payload)
}

func (a *Accumulator[T]) logSummary() {
	if a.stats.TotalBatches == 0 {
		a.logger.Info("no batches sent")
		return
	}

	sum := a.Summary()
	fields := []log.Field{
		log.Int64("records", sum.TotalRecords),
		log.Int64("batches", sum.TotalBatches),
		log.Int64("bytes", sum.TotalBytes),
		log.Float64("avg_batch_bytes", sum.AvgBatchBytes),
		log.Int64("avg_records_per_batch", sum.AvgRecordsPerBatch),
		log.Float64("utilization_pct", sum.UtilizationPct),
	}
	if sum.FullBatches > 0 {
		fields = append(fields,
			log.Int64("full_batches", sum.FullBatches),
			log.Float64("full_avg_batch_bytes", sum.FullAvgBatchBytes),
			log.Float64("full_utilization_pct", sum.FullUtilizationPct),
		)
	}
	if sum.PartialBatches() > 0 {
		fields = append(fields,
			log.Int64("partial_batches", sum.PartialBatches()),
			log.Int64("partial_bytes", sum.PartialBytes()),
		)
	}
	a.logger.Info("run summary", fields...)
}
