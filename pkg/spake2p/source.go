package spake2p

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by the typed errors below.
var (
	ErrVerifierGeneration = errors.New("verifier generation failed")
	ErrVerifierParse      = errors.New("malformed verifier output")
	ErrInvalidRequest     = errors.New("invalid verifier request")
)

// Request holds the inputs for deriving a verifier.
type Request struct {
	// Passcode is the setup passcode shared with the commissioner.
	Passcode uint32

	// Salt is the raw salt.
	Salt []byte

	// IterationCount is the PBKDF2 iteration count.
	IterationCount uint32
}

// Validate checks the request fields every source depends on.
func (r Request) Validate() error {
	if len(r.Salt) == 0 {
		return fmt.Errorf("%w: empty salt", ErrInvalidRequest)
	}
	if r.IterationCount == 0 {
		return fmt.Errorf("%w: iteration count must be positive", ErrInvalidRequest)
	}
	return nil
}

// Params are the SPAKE2+ values written to factory data.
type Params struct {
	// Verifier is base64 text.
	Verifier []byte

	// Salt is base64 text.
	Salt []byte

	IterationCount uint32
}

// VerifierSource derives SPAKE2+ parameters for a request.
type VerifierSource interface {
	Derive(ctx context.Context, req Request) (Params, error)
}

// VerifierGenerationError reports a failure to run the external tool.
type VerifierGenerationError struct {
	Path string

	// ExitCode is the tool's exit status, or -1 when it did not exit normally.
	ExitCode int

	Stderr string
	Err    error
}

func (e *VerifierGenerationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", ErrVerifierGeneration, e.Path)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " exited with status %d", e.ExitCode)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Stderr != "" {
		fmt.Fprintf(&b, ": %s", e.Stderr)
	}
	return b.String()
}

func (e *VerifierGenerationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrVerifierGeneration}
	}
	return []error{ErrVerifierGeneration, e.Err}
}

// VerifierParseError reports tool output that does not carry the expected
// CSV fields.
type VerifierParseError struct {
	Reason string
	Output string
}

func (e *VerifierParseError) Error() string {
	return fmt.Sprintf("%s: %s", ErrVerifierParse, e.Reason)
}

func (e *VerifierParseError) Unwrap() error {
	return ErrVerifierParse
}

// PrecomputedSource returns a verifier computed ahead of time.
type PrecomputedSource struct {
	verifier []byte
}

// NewPrecomputedSource wraps a raw (already base64-decoded) verifier.
func NewPrecomputedSource(verifier []byte) *PrecomputedSource {
	return &PrecomputedSource{verifier: append([]byte(nil), verifier...)}
}

// Derive base64-encodes the stored verifier and the request salt. The
// request iteration count is used as is.
func (s *PrecomputedSource) Derive(_ context.Context, req Request) (Params, error) {
	if len(s.verifier) == 0 {
		return Params{}, fmt.Errorf("%w: empty precomputed verifier", ErrInvalidRequest)
	}
	if err := req.Validate(); err != nil {
		return Params{}, err
	}

	return Params{
		Verifier:       encodeBase64(s.verifier),
		Salt:           encodeBase64(req.Salt),
		IterationCount: req.IterationCount,
	}, nil
}

func encodeBase64(b []byte) []byte {
	out := make([]byte, base64.StdEncoding.EncodedLen(len(b)))
	base64.StdEncoding.Encode(out, b)
	return out
}

// Compile-time interface satisfaction checks.
var (
	_ VerifierSource = (*PrecomputedSource)(nil)
	_ VerifierSource = (*ExternalSource)(nil)
)
