package sink

import "context"

// Sink receives completed batch payloads from the accumulator.
// The payload is always a UTF-8 encoded JSON array holding the batch's
// records in insertion order.
//
// The accumulator calls Emit synchronously and never retries: an error
// returned here propagates unchanged to whoever is feeding records.
type Sink interface {
	Emit(ctx context.Context, payload []byte) error
}
