package sink

import (
	"context"
	"io"
)

// WriterSink writes each batch payload followed by a newline to an
// io.Writer. Used for stdout shipping and in tests.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Emit writes the payload and a trailing newline.
func (s *WriterSink) Emit(_ context.Context, payload []byte) error {
	if _, err := s.w.Write(payload); err != nil {
		return err
	}
	_, err := s.w.Write([]byte{'\n'})
	return err
}
