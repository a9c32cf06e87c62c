package batch

import "errors"

// Errors returned by the accumulator constructor. They can be checked
// with errors.Is.
var (
	// ErrInvalidMaxSize is returned when the configured cap is not positive.
	ErrInvalidMaxSize = errors.New("batch: max batch size must be positive")

	// ErrNilSink is returned when no sink is supplied.
	ErrNilSink = errors.New("batch: sink is required")
)
