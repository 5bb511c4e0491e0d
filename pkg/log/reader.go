package log

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter specifies criteria for filtering run records.
// Empty/nil fields match all events for that criterion.
type Filter struct {
	// RunID filters by exact run ID match.
	RunID string

	// Failed filters by outcome.
	Failed *bool

	// TimeStart filters events at or after this time.
	TimeStart *time.Time

	// TimeEnd filters events before this time.
	TimeEnd *time.Time
}

// matches returns true if the event matches all filter criteria.
func (f *Filter) matches(event Event) bool {
	if f.RunID != "" && event.RunID != f.RunID {
		return false
	}
	if f.Failed != nil && event.Failed() != *f.Failed {
		return false
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	return true
}

// Reader iterates over the run records of a report file.
type Reader struct {
	file   *os.File
	dec    *cbor.Decoder
	filter Filter
	n      int
}

// NewReader opens a report file and returns every record in it.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens a report file and returns only the records that
// match filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: f, dec: NewDecoder(bufio.NewReader(f)), filter: filter}, nil
}

// Next returns the next matching record, or io.EOF after the last one.
// A record cut short by an interrupted write is reported as an error
// naming its position.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		err := r.dec.Decode(&event)
		if errors.Is(err, io.EOF) {
			return Event{}, io.EOF
		}
		r.n++
		if err != nil {
			return Event{}, fmt.Errorf("run record %d: %w", r.n, err)
		}
		if r.filter.matches(event) {
			return event, nil
		}
	}
}

// Close closes the report file.
func (r *Reader) Close() error {
	return r.file.Close()
}
