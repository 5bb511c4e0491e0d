package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSlogAdapterSuccess(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(New(&buf, Options{}))

	adapter.Log(Event{
		RunID:        "run-1",
		Output:       "factory.bin",
		Size:         512,
		SHA256:       "deadbeef",
		VerifierMode: VerifierModeExternal,
		Fields: []FieldEvent{
			{Tag: 1, Name: "Verifier", Length: 132},
			{Tag: 2, Name: "Salt", Length: 24},
		},
	})

	out := buf.String()
	for _, want := range []string{
		"tag=Verifier length=132",
		"tag=Salt length=24",
		"size=512",
		"sha256=deadbeef",
		"verifier_mode=EXTERNAL",
		`msg="factory data generated"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSlogAdapterFailure(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(New(&buf, Options{}))

	adapter.Log(Event{RunID: "run-2", Error: &ErrorEventData{Step: "verifier", Message: "exit 1"}})

	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "step=verifier") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "sha256") {
		t.Error("failed runs must not report a digest")
	}
}

func TestNewJSONWithUID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{JSON: true, UID: true, Service: "factorygen"})
	logger.Info("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if uid, _ := line["uid"].(string); len(uid) != 36 {
		t.Errorf("uid = %v, want a UUID", line["uid"])
	}
	if line["service"] != "factorygen" {
		t.Errorf("service = %v, want factorygen", line["service"])
	}
}

func TestNewDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, Options{}).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug message logged at info level: %s", buf.String())
	}

	New(&buf, Options{Debug: true}).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("debug message missing with Debug enabled")
	}
}

func TestMultiLogger(t *testing.T) {
	var a, b recordingLogger
	NewMultiLogger(&a, &b, NoopLogger{}).Log(Event{RunID: "x"})

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Errorf("events delivered: a=%d b=%d, want 1 each", len(a.events), len(b.events))
	}
}

type recordingLogger struct {
	events []Event
}

func (r *recordingLogger) Log(e Event) {
	r.events = append(r.events, e)
}
