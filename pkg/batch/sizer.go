package batch

import "encoding/json"

// emptyArraySize is the serialized length of a batch with no records ("[]").
const emptyArraySize = 2

// Sizer measures the serialized JSON form of records and batches. All
// sizes are UTF-8 byte lengths of encoding/json output, which is exactly
// what a sink receives.
type Sizer[T any] struct{}

// BatchSize returns the exact byte length of the JSON array holding records.
func (Sizer[T]) BatchSize(records []T) (int, error) {
	if len(records) == 0 {
		return emptyArraySize, nil
	}
	b, err := json.Marshal(records)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// AdditionSize estimates how many bytes appending record to a batch adds:
// the record's own serialized length, plus one byte for the separating
// comma when the batch already has elements. It never re-examines records
// already in the batch, so the running total it feeds can drift from
// BatchSize until the next recalibration.
func (Sizer[T]) AdditionSize(record T, batchNonEmpty bool) (int, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return 0, err
	}
	n := len(b)
	if batchNonEmpty {
		n++
	}
	return n, nil
}
