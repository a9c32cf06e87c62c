// Package batch accumulates JSON-serializable records into consecutive
// batches whose serialized byte size stays within a configured cap, and
// emits each completed batch to a sink.
//
// # Usage
//
// Create an Accumulator with a cap in megabytes and a sink, feed it
// records, then flush:
//
//	acc, err := batch.New[Product](4, snk, batch.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	for _, p := range products {
//	    if err := acc.Add(ctx, p); err != nil {
//	        return err
//	    }
//	}
//	if err := acc.Flush(ctx); err != nil {
//	    return err
//	}
//
// # Size tracking
//
// Tracking the serialized size of the in-progress batch exactly would
// cost a full re-serialization per insertion. The accumulator instead
// keeps a running estimate (per-record serialized length plus one
// separator byte) and recalibrates it against an exact re-serialization
// while the batch is small and again on every 100th record, bounding the
// drift that asymmetric JSON escaping can introduce.
//
// # Cap exception
//
// A single record whose own serialized form exceeds the cap is emitted
// alone in an over-cap batch of one rather than rejected or split.
// Whether such records should instead be rejected is a product decision
// left to the owners of the ingestion pipeline; the current contract is
// to ship them.
package batch
