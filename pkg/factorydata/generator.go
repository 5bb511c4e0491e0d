package factorydata

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2/maybe"
	"github.com/google/uuid"

	"github.com/mash-protocol/mash-factorygen/pkg/attestation"
	"github.com/mash-protocol/mash-factorygen/pkg/klv"
	pkglog "github.com/mash-protocol/mash-factorygen/pkg/log"
	"github.com/mash-protocol/mash-factorygen/pkg/spake2p"
)

// Pipeline steps named in errors and run records.
const (
	StepConfig      = "config"
	StepAttestation = "attestation"
	StepVerifier    = "verifier"
	StepEncode      = "encode"
	StepWrite       = "write"
)

// OutputPerm is the mode of the generated binary.
const OutputPerm os.FileMode = 0o644

// StepError reports the pipeline step a run failed in.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Result describes a generated binary.
type Result struct {
	RunID   string
	Output  string
	Records *klv.RecordSet
	Size    int
	SHA256  string
}

// Generator runs the generation pipeline for one configuration.
type Generator struct {
	cfg    *Config
	source spake2p.VerifierSource
	logger *slog.Logger
	runLog pkglog.Logger
	now    func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource overrides the verifier source chosen from the configuration.
func WithSource(src spake2p.VerifierSource) Option {
	return func(g *Generator) {
		g.source = src
	}
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRunLogger sets where run records go.
func WithRunLogger(l pkglog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.runLog = l
		}
	}
}

// WithClock sets the time source for run records.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator for cfg.
func New(cfg *Config, opts ...Option) *Generator {
	g := &Generator{
		cfg:    cfg,
		logger: pkglog.Discard(),
		runLog: pkglog.NoopLogger{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.source == nil {
		g.source = NewVerifierSource(cfg, g.logger)
	}
	return g
}

// Build validates the configuration, loads the attestation material and
// derives the verifier. It returns the encoded record set without writing
// anything.
func (g *Generator) Build(ctx context.Context) (*klv.RecordSet, error) {
	cfg := g.cfg
	if err := cfg.Validate(); err != nil {
		return nil, &StepError{Step: StepConfig, Err: err}
	}
	for _, w := range cfg.Warnings() {
		g.logger.Warn(w)
	}

	var password []byte
	if cfg.DacKeyPassword != "" {
		password = []byte(cfg.DacKeyPassword)
	}
	creds, err := attestation.Load(cfg.DacKey, password, cfg.DacCert, cfg.PaiCert)
	if err != nil {
		return nil, &StepError{Step: StepAttestation, Err: err}
	}
	if err := attestation.CheckKeyPair(creds.DacCert, creds.PrivateKey); err != nil {
		g.logger.Warn("DAC certificate does not match DAC key", "error", err)
	}

	params, err := g.source.Derive(ctx, spake2p.Request{
		Passcode:       uint32(cfg.Passcode),
		Salt:           cfg.salt(),
		IterationCount: cfg.IterationCount,
	})
	if err != nil {
		return nil, &StepError{Step: StepVerifier, Err: err}
	}
	if params.IterationCount != cfg.IterationCount {
		g.logger.Warn("spake2p reported a different iteration count",
			"requested", cfg.IterationCount, "reported", params.IterationCount)
	}

	rs, err := klv.NewRecordSet(klv.Fields{
		Verifier:       params.Verifier,
		Salt:           params.Salt,
		IterationCount: params.IterationCount,
		DacPrivateKey:  creds.DacKey,
		DacCert:        creds.DacCert,
		PaiCert:        creds.PaiCert,
		Discriminator:  cfg.discriminator(),
	})
	if err != nil {
		return nil, &StepError{Step: StepEncode, Err: err}
	}
	return rs, nil
}

// Generate builds the binary and replaces the output file with it. The
// outcome is reported to the run logger whether or not it succeeded.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	event := pkglog.Event{
		RunID:          uuid.NewString(),
		Output:         g.cfg.Out,
		VerifierMode:   ModeOf(g.source),
		IterationCount: g.cfg.IterationCount,
		Discriminator:  g.cfg.discriminator(),
	}

	res, err := g.generate(ctx, event.RunID)
	event.Timestamp = g.now()
	if err != nil {
		step := StepWrite
		var se *StepError
		if errors.As(err, &se) {
			step = se.Step
		}
		event.Error = &pkglog.ErrorEventData{Step: step, Message: err.Error()}
		g.runLog.Log(event)
		return nil, err
	}

	event.Size = res.Size
	event.SHA256 = res.SHA256
	for _, r := range res.Records.Records() {
		event.Fields = append(event.Fields, pkglog.FieldEvent{
			Tag:    uint8(r.Tag),
			Name:   r.Tag.String(),
			Length: r.Len(),
		})
	}
	if ic, ok := res.Records.Get(klv.TagIterationCount); ok && len(ic.Value) == 4 {
		event.IterationCount = binary.LittleEndian.Uint32(ic.Value)
	}
	g.runLog.Log(event)
	return res, nil
}

func (g *Generator) generate(ctx context.Context, runID string) (*Result, error) {
	rs, err := g.Build(ctx)
	if err != nil {
		return nil, err
	}

	data, err := rs.MarshalBinary()
	if err != nil {
		return nil, &StepError{Step: StepEncode, Err: err}
	}

	// TODO: seal data with AES128Key once the firmware's encrypted factory
	// data layout is defined; until then the key is only validated.
	if err := writeOutput(g.cfg.Out, data); err != nil {
		return nil, &StepError{Step: StepWrite, Err: err}
	}

	return &Result{
		RunID:   runID,
		Output:  g.cfg.Out,
		Records: rs,
		Size:    len(data),
		SHA256:  klv.Digest(data),
	}, nil
}

// writeOutput replaces path with data through a temp file and rename, so a
// failed run never leaves a truncated binary behind. Windows has no atomic
// replace and gets a plain write.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := maybe.WriteFile(path, data, OutputPerm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
