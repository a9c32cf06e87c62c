package batch

// Batch is an ordered run of records destined for a single sink payload.
// Insertion order is significant and preserved verbatim in the emitted
// serialization.
type Batch[T any] struct {
	// Records holds the batch contents in insertion order.
	Records []T

	// EstimatedSize is the running estimate of the serialized array
	// length in bytes, including the enclosing brackets.
	EstimatedSize int
}

// NewBatch creates a new empty batch.
func NewBatch[T any]() *Batch[T] {
	return &Batch[T]{
		Records:       make([]T, 0),
		EstimatedSize: emptyArraySize,
	}
}

// Add appends a record and grows the size estimate by addition bytes.
func (b *Batch[T]) Add(record T, addition int) {
	b.Records = append(b.Records, record)
	b.EstimatedSize += addition
}

// Len returns the number of records in the batch.
func (b *Batch[T]) Len() int {
	return len(b.Records)
}

// Empty returns true if the batch has no records.
func (b *Batch[T]) Empty() bool {
	return len(b.Records) == 0
}

// Reset clears the batch for reuse.
func (b *Batch[T]) Reset() {
	b.Records = b.Records[:0]
	b.EstimatedSize = emptyArraySize
}
