package batch

import "testing"

func TestStatsObserveAndDerived(t *testing.T) {
	var s Stats

	s.observe(10, 1000, true)
	s.observe(5, 400, false)
	s.observe(8, 990, true)

	if s.TotalRecords != 23 {
		t.Errorf("TotalRecords = %d, want 23", s.TotalRecords)
	}
	if s.TotalBatches != 3 {
		t.Errorf("TotalBatches = %d, want 3", s.TotalBatches)
	}
	if s.TotalBytes != 2390 {
		t.Errorf("TotalBytes = %d, want 2390", s.TotalBytes)
	}
	if s.FullBatches != 2 {
		t.Errorf("FullBatches = %d, want 2", s.FullBatches)
	}
	if s.FullBatchBytes != 1990 {
		t.Errorf("FullBatchBytes = %d, want 1990", s.FullBatchBytes)
	}
	if s.PartialBatches() != 1 {
		t.Errorf("PartialBatches = %d, want 1", s.PartialBatches())
	}
	if s.PartialBytes() != 400 {
		t.Errorf("PartialBytes = %d, want 400", s.PartialBytes())
	}
}

func TestSummarizeZeroBatches(t *testing.T) {
	var s Stats

	sum := s.Summarize(1 << 20)
	if sum.TotalBatches != 0 {
		t.Fatalf("TotalBatches = %d, want 0", sum.TotalBatches)
	}
	if sum.AvgBatchBytes != 0 || sum.AvgRecordsPerBatch != 0 || sum.UtilizationPct != 0 {
		t.Errorf("derived fields not zero: %+v", sum)
	}
}

func TestSummarize(t *testing.T) {
	s := Stats{
		TotalRecords:   10,
		TotalBatches:   3,
		TotalBytes:     3000,
		FullBatches:    2,
		FullBatchBytes: 1900,
	}

	sum := s.Summarize(1000)

	if sum.AvgBatchBytes != 1000 {
		t.Errorf("AvgBatchBytes = %v, want 1000", sum.AvgBatchBytes)
	}
	// 10/3 rounds to 3
	if sum.AvgRecordsPerBatch != 3 {
		t.Errorf("AvgRecordsPerBatch = %d, want 3", sum.AvgRecordsPerBatch)
	}
	if sum.UtilizationPct != 100 {
		t.Errorf("UtilizationPct = %v, want 100", sum.UtilizationPct)
	}
	if sum.FullAvgBatchBytes != 950 {
		t.Errorf("FullAvgBatchBytes = %v, want 950", sum.FullAvgBatchBytes)
	}
	if sum.FullUtilizationPct != 95 {
		t.Errorf("FullUtilizationPct = %v, want 95", sum.FullUtilizationPct)
	}
}

func TestSummarizeRoundsRecordsPerBatch(t *testing.T) {
	s := Stats{TotalRecords: 3, TotalBatches: 2, TotalBytes: 100}

	sum := s.Summarize(1000)
	if sum.AvgRecordsPerBatch != 2 {
		t.Errorf("AvgRecordsPerBatch = %d, want 2 (1.5 rounds up)", sum.AvgRecordsPerBatch)
	}
}

func TestSummarizeNoFullBatches(t *testing.T) {
	s := Stats{TotalRecords: 4, TotalBatches: 2, TotalBytes: 500}

	sum := s.Summarize(1000)
	if sum.FullAvgBatchBytes != 0 || sum.FullUtilizationPct != 0 {
		t.Errorf("full-batch figures should be zero when no full batches: %+v", sum)
	}
	if sum.PartialBatches() != 2 {
		t.Errorf("PartialBatches = %d, want 2", sum.PartialBatches())
	}
}
