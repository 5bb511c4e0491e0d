package log

import (
	"time"
)

// Event describes one generation run.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp is when the run finished.
	Timestamp time.Time `cbor:"1,keyasint"`

	// RunID uniquely identifies the run (UUID).
	RunID string `cbor:"2,keyasint"`

	// Output is the path of the generated binary.
	Output string `cbor:"3,keyasint,omitempty"`

	// Size is the byte size of the generated binary.
	Size int `cbor:"4,keyasint,omitempty"`

	// SHA256 is the hex digest of the generated binary.
	SHA256 string `cbor:"5,keyasint,omitempty"`

	// VerifierMode tells how the SPAKE2+ verifier was obtained.
	VerifierMode VerifierMode `cbor:"6,keyasint"`

	// Fields lists the records in wire order.
	Fields []FieldEvent `cbor:"7,keyasint,omitempty"`

	IterationCount uint32 `cbor:"8,keyasint,omitempty"`
	Discriminator  uint32 `cbor:"9,keyasint,omitempty"`

	// Error is set when the run failed. No binary was written in that case.
	Error *ErrorEventData `cbor:"10,keyasint,omitempty"`
}

// Failed reports whether the run ended in an error.
func (e Event) Failed() bool {
	return e.Error != nil
}

// FieldEvent describes one record of the binary.
type FieldEvent struct {
	Tag    uint8  `cbor:"1,keyasint"`
	Name   string `cbor:"2,keyasint"`
	Length int    `cbor:"3,keyasint"`
}

// ErrorEventData describes a failed run.
type ErrorEventData struct {
	// Step names the pipeline step that failed, e.g. "verifier".
	Step string `cbor:"1,keyasint"`

	Message string `cbor:"2,keyasint"`
}

// VerifierMode tells how the verifier was obtained.
type VerifierMode uint8

const (
	// VerifierModeUnknown is used when the run failed before a source was chosen.
	VerifierModeUnknown VerifierMode = 0
	// VerifierModeExternal means the spake2p tool generated the verifier.
	VerifierModeExternal VerifierMode = 1
	// VerifierModePrecomputed means the verifier was supplied by the caller.
	VerifierModePrecomputed VerifierMode = 2
)

// String returns the mode name.
func (m VerifierMode) String() string {
	switch m {
	case VerifierModeExternal:
		return "EXTERNAL"
	case VerifierModePrecomputed:
		return "PRECOMPUTED"
	default:
		return "UNKNOWN"
	}
}
