// Package sink defines the boundary that receives serialized batches and
// provides HTTP, Kafka and io.Writer implementations of it.
//
// Sinks own transmission only. Retry, back-pressure and failure handling
// belong to the caller driving the accumulator.
package sink
