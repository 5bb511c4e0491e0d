package spake2p

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toolOutput = "Index,PIN Code,Iteration Count,Salt,Verifier\n" +
	"0,20202021,2000,U1BBS0UyUCBLZXkgU2FsdA==,dmVyaWZpZXI=\n"

// writeTool writes a shell script standing in for the spake2p binary.
func writeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tools need a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "spake2p")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func testRequest() Request {
	return Request{Passcode: 20202021, Salt: make([]byte, 16), IterationCount: 1000}
}

func TestExternalSourceArgs(t *testing.T) {
	src := NewExternalSource("spake2p")
	got := src.Args(testRequest())

	want := []string{
		"gen-verifier",
		"--iteration-count", "1000",
		"--salt", "AAAAAAAAAAAAAAAAAAAAAA==",
		"--pin-code", "20202021",
		"--out", "-",
	}
	assert.Equal(t, want, got)
}

func TestExternalSourceDerive(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	tool := writeTool(t, `echo "$@" > `+argsFile+`
printf '`+strings.ReplaceAll(toolOutput, "\n", `\n`)+`'`)

	params, err := NewExternalSource(tool).Derive(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "dmVyaWZpZXI=", string(params.Verifier))
	assert.Equal(t, "U1BBS0UyUCBLZXkgU2FsdA==", string(params.Salt))
	// Iteration count comes from the tool, not the request.
	assert.Equal(t, uint32(2000), params.IterationCount)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "gen-verifier --iteration-count 1000 --salt AAAAAAAAAAAAAAAAAAAAAA== --pin-code 20202021 --out -\n", string(args))
}

func TestExternalSourceSaltFallback(t *testing.T) {
	tool := writeTool(t, `printf 'Iteration Count,Verifier\n1000,dmVyaWZpZXI=\n'`)

	params, err := NewExternalSource(tool).Derive(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAAAAAAAAAAAAAAAAA==", string(params.Salt))
	assert.Equal(t, uint32(1000), params.IterationCount)
}

func TestExternalSourceCRLFOutput(t *testing.T) {
	tool := writeTool(t, `printf 'Iteration Count,Salt,Verifier\r\n1000,c2FsdA==,dmVyaWZpZXI=\r\n'`)

	params, err := NewExternalSource(tool).Derive(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "dmVyaWZpZXI=", string(params.Verifier))
	assert.Equal(t, "c2FsdA==", string(params.Salt))
}

func TestExternalSourceExitStatus(t *testing.T) {
	tool := writeTool(t, `echo "invalid pin code" >&2
exit 3`)

	_, err := NewExternalSource(tool).Derive(context.Background(), testRequest())
	require.Error(t, err)

	var genErr *VerifierGenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, 3, genErr.ExitCode)
	assert.Equal(t, "invalid pin code", genErr.Stderr)
	assert.True(t, errors.Is(err, ErrVerifierGeneration))
}

func TestExternalSourceMissingBinary(t *testing.T) {
	src := NewExternalSource(filepath.Join(t.TempDir(), "does-not-exist"))
	_, err := src.Derive(context.Background(), testRequest())

	var genErr *VerifierGenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, -1, genErr.ExitCode)
}

func TestExternalSourceTimeout(t *testing.T) {
	tool := writeTool(t, `exec sleep 10`)

	start := time.Now()
	_, err := NewExternalSource(tool, WithTimeout(100*time.Millisecond)).Derive(context.Background(), testRequest())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	var genErr *VerifierGenerationError
	require.ErrorAs(t, err, &genErr)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestExternalSourceMalformedOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		reason string
	}{
		{"empty", ``, "empty output"},
		{"one line", `Iteration Count,Salt,Verifier\n`, "missing value line"},
		{"column mismatch", `Iteration Count,Salt,Verifier\n1000,c2FsdA==\n`, "reading values"},
		{"no verifier", `Iteration Count,Salt\n1000,c2FsdA==\n`, "missing Verifier"},
		{"no iteration count", `Salt,Verifier\nc2FsdA==,dmVyaWZpZXI=\n`, "missing Iteration Count"},
		{"bad iteration count", `Iteration Count,Verifier\nlots,dmVyaWZpZXI=\n`, "Iteration Count \"lots\""},
		{"verifier not base64", `Iteration Count,Verifier\n1000,not*base64\n`, "Verifier is not base64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := writeTool(t, `printf '`+tt.output+`'`)

			_, err := NewExternalSource(tool).Derive(context.Background(), testRequest())
			require.Error(t, err)

			var parseErr *VerifierParseError
			require.True(t, errors.As(err, &parseErr), "got %T: %v", err, err)
			assert.Contains(t, parseErr.Reason, tt.reason)
		})
	}
}

func TestExternalSourceRejectsInvalidRequest(t *testing.T) {
	src := NewExternalSource("/bin/false")
	_, err := src.Derive(context.Background(), Request{Passcode: 1, IterationCount: 1000})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestParseOutput(t *testing.T) {
	fields, err := ParseOutput([]byte(toolOutput))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"Index":           "0",
		"PIN Code":        "20202021",
		"Iteration Count": "2000",
		"Salt":            "U1BBS0UyUCBLZXkgU2FsdA==",
		"Verifier":        "dmVyaWZpZXI=",
	}, fields)
}
