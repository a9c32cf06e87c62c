package batch

import "math"

// Stats aggregates emission counters over an accumulator's lifetime.
// A batch is full when its exact serialized size exceeds 95% of the cap;
// partial figures are always derived from the totals so the two sets
// cannot drift apart.
type Stats struct {
	// TotalRecords is the number of records across all emitted batches.
	TotalRecords int64

	// TotalBatches is the number of batches handed to the sink.
	TotalBatches int64

	// TotalBytes is the serialized size of all emitted batches.
	TotalBytes int64

	// FullBatches counts emitted batches above the full threshold.
	FullBatches int64

	// FullBatchBytes is the serialized size of all full batches.
	FullBatchBytes int64
}

// observe records one emitted batch.
func (s *Stats) observe(records, size int, full bool) {
	s.TotalRecords += int64(records)
	s.TotalBatches++
	s.TotalBytes += int64(size)
	if full {
		s.FullBatches++
		s.FullBatchBytes += int64(size)
	}
}

// PartialBatches returns the number of emitted batches below the full
// threshold.
func (s Stats) PartialBatches() int64 {
	return s.TotalBatches - s.FullBatches
}

// PartialBytes returns the serialized size of all partial batches.
func (s Stats) PartialBytes() int64 {
	return s.TotalBytes - s.FullBatchBytes
}

// Summary is a point-in-time report derived from Stats. The derived
// fields are zero when TotalBatches is zero; callers should check
// TotalBatches before reading them.
type Summary struct {
	Stats

	// AvgBatchBytes is the mean serialized batch size.
	AvgBatchBytes float64

	// AvgRecordsPerBatch is the mean record count per batch, rounded to
	// the nearest integer.
	AvgRecordsPerBatch int64

	// UtilizationPct is AvgBatchBytes as a percentage of the cap.
	UtilizationPct float64

	// FullAvgBatchBytes is the mean size of full batches, zero when none.
	FullAvgBatchBytes float64

	// FullUtilizationPct is FullAvgBatchBytes as a percentage of the cap.
	FullUtilizationPct float64
}

// Summarize derives a Summary against the given cap in bytes.
func (s Stats) Summarize(maxSizeBytes float64) Summary {
	sum := Summary{Stats: s}
	if s.TotalBatches == 0 {
		return sum
	}
	sum.AvgBatchBytes = float64(s.TotalBytes) / float64(s.TotalBatches)
	sum.AvgRecordsPerBatch = int64(math.Round(float64(s.TotalRecords) / float64(s.TotalBatches)))
	sum.UtilizationPct = sum.AvgBatchBytes / maxSizeBytes * 100
	if s.FullBatches > 0 {
		sum.FullAvgBatchBytes = float64(s.FullBatchBytes) / float64(s.FullBatches)
		sum.FullUtilizationPct = sum.FullAvgBatchBytes / maxSizeBytes * 100
	}
	return sum
}
