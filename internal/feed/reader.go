package feed

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// maxRecordBytes is the longest single feed line accepted.
const maxRecordBytes = 16 << 20

// Reader yields one opaque JSON record per non-empty line of an NDJSON
// feed. Records are returned verbatim; the reader never interprets their
// contents beyond checking that each line is valid JSON.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxRecordBytes)
	return &Reader{scanner: sc}
}

// Next returns the next record. It returns io.EOF once the feed is
// exhausted and an error naming the line for lines that are not valid
// JSON.
func (r *Reader) Next() (json.RawMessage, error) {
	for r.scanner.Scan() {
		r.line++
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			return nil, fmt.Errorf("feed line %d: invalid JSON", r.line)
		}
		// The scanner reuses its buffer on the next Scan.
		record := make(json.RawMessage, len(line))
		copy(record, line)
		return record, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
