package log

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeEvents(t *testing.T, events []Event) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "runs.cbor")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()

	var events []Event
	for {
		e, err := r.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		events = append(events, e)
	}
}

func TestFilteredReader(t *testing.T) {
	ts := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	path := writeEvents(t, []Event{
		{Timestamp: ts, RunID: "a"},
		{Timestamp: ts.Add(time.Hour), RunID: "b", Error: &ErrorEventData{Step: "dac-key", Message: "bad"}},
		{Timestamp: ts.Add(2 * time.Hour), RunID: "c"},
	})

	failed := true
	succeeded := false
	start := ts.Add(30 * time.Minute)
	end := ts.Add(2 * time.Hour)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{}, []string{"a", "b", "c"}},
		{"run id", Filter{RunID: "c"}, []string{"c"}},
		{"failed", Filter{Failed: &failed}, []string{"b"}},
		{"succeeded", Filter{Failed: &succeeded}, []string{"a", "c"}},
		{"time range", Filter{TimeStart: &start, TimeEnd: &end}, []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer r.Close()

			events := readAll(t, r)
			if len(events) != len(tt.want) {
				t.Fatalf("got %d events, want %d", len(events), len(tt.want))
			}
			for i, e := range events {
				if e.RunID != tt.want[i] {
					t.Errorf("event %d RunID = %q, want %q", i, e.RunID, tt.want[i])
				}
			}
		})
	}
}

func TestNewReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "nope.cbor")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReaderTruncatedRecord(t *testing.T) {
	path := writeEvents(t, []Event{{RunID: "a"}, {RunID: "b", SHA256: "00ff"}})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if err := os.WriteFile(path, data[:len(data)-3], 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	if e, err := r.Next(); err != nil || e.RunID != "a" {
		t.Fatalf("first record = %q, %v", e.RunID, err)
	}
	_, err = r.Next()
	if err == nil || err == io.EOF {
		t.Fatalf("expected error for truncated record, got %v", err)
	}
	if !strings.Contains(err.Error(), "run record 2") {
		t.Errorf("error %q does not name the record", err)
	}
}
