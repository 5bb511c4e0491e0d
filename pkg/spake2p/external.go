package spake2p

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Column names read from the tool output.
const (
	FieldVerifier       = "Verifier"
	FieldSalt           = "Salt"
	FieldIterationCount = "Iteration Count"
)

// waitDelay bounds how long Wait blocks on pipes held open by children of a
// killed tool.
const waitDelay = 2 * time.Second

// ExternalSource runs the spake2p tool to generate a verifier.
type ExternalSource struct {
	path    string
	timeout time.Duration
	logger  *slog.Logger
}

// ExternalOption configures an ExternalSource.
type ExternalOption func(*ExternalSource)

// WithTimeout bounds how long the tool may run. Zero means no limit.
func WithTimeout(d time.Duration) ExternalOption {
	return func(s *ExternalSource) {
		s.timeout = d
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) ExternalOption {
	return func(s *ExternalSource) {
		s.logger = l
	}
}

// NewExternalSource creates a source that runs the tool at path.
func NewExternalSource(path string, opts ...ExternalOption) *ExternalSource {
	s := &ExternalSource{
		path:   path,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Args returns the command line passed to the tool for req.
func (s *ExternalSource) Args(req Request) []string {
	return []string{
		"gen-verifier",
		"--iteration-count", strconv.FormatUint(uint64(req.IterationCount), 10),
		"--salt", base64.StdEncoding.EncodeToString(req.Salt),
		"--pin-code", strconv.FormatUint(uint64(req.Passcode), 10),
		"--out", "-",
	}
}

// Derive runs the tool and parses its output. The iteration count is taken
// from the tool output, not from req, so it always matches what the tool
// used. The salt is also read back when the tool reports one.
func (s *ExternalSource) Derive(ctx context.Context, req Request) (Params, error) {
	if err := req.Validate(); err != nil {
		return Params{}, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.path, s.Args(req)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	s.logger.Debug("running spake2p", "path", s.path, "iteration_count", req.IterationCount)
	start := time.Now()
	if err := cmd.Run(); err != nil {
		genErr := &VerifierGenerationError{
			Path:     s.path,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			genErr.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			genErr.Err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		return Params{}, genErr
	}
	s.logger.Debug("spake2p finished", "duration", time.Since(start))

	fields, err := ParseOutput(stdout.Bytes())
	if err != nil {
		return Params{}, err
	}
	return paramsFromFields(fields, req, stdout.String())
}

// ParseOutput parses the tool's two-line CSV output (header row, value row)
// into a map of column name to value.
func ParseOutput(data []byte) (map[string]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, &VerifierParseError{Reason: "empty output", Output: string(data)}
	}
	if err != nil {
		return nil, &VerifierParseError{Reason: fmt.Sprintf("reading header: %v", err), Output: string(data)}
	}

	values, err := r.Read()
	if err == io.EOF {
		return nil, &VerifierParseError{Reason: "missing value line", Output: string(data)}
	}
	if err != nil {
		return nil, &VerifierParseError{Reason: fmt.Sprintf("reading values: %v", err), Output: string(data)}
	}

	fields := make(map[string]string, len(header))
	for i, name := range header {
		fields[strings.TrimSpace(name)] = strings.TrimSpace(values[i])
	}
	return fields, nil
}

func paramsFromFields(fields map[string]string, req Request, output string) (Params, error) {
	verifier, ok := fields[FieldVerifier]
	if !ok || verifier == "" {
		return Params{}, &VerifierParseError{Reason: "missing " + FieldVerifier, Output: output}
	}
	if _, err := base64.StdEncoding.DecodeString(verifier); err != nil {
		return Params{}, &VerifierParseError{Reason: fmt.Sprintf("%s is not base64: %v", FieldVerifier, err), Output: output}
	}

	icText, ok := fields[FieldIterationCount]
	if !ok || icText == "" {
		return Params{}, &VerifierParseError{Reason: "missing " + FieldIterationCount, Output: output}
	}
	ic, err := strconv.ParseUint(icText, 10, 32)
	if err != nil {
		return Params{}, &VerifierParseError{Reason: fmt.Sprintf("%s %q: %v", FieldIterationCount, icText, err), Output: output}
	}

	salt := encodeBase64(req.Salt)
	if s, ok := fields[FieldSalt]; ok && s != "" {
		salt = []byte(s)
	}

	return Params{
		Verifier:       []byte(verifier),
		Salt:           salt,
		IterationCount: uint32(ic),
	}, nil
}
