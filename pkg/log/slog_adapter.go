package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes run records to an slog.Logger. Successful runs are
// logged at Info with the size and digest the operator checks; failed runs
// at Error.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("run_id", event.RunID),
		slog.String("verifier_mode", event.VerifierMode.String()),
	}

	if event.Error != nil {
		attrs = append(attrs,
			slog.String("step", event.Error.Step),
			slog.String("error", event.Error.Message),
		)
		a.logger.LogAttrs(context.Background(), slog.LevelError, "factory data generation failed", attrs...)
		return
	}

	for _, f := range event.Fields {
		a.logger.LogAttrs(context.Background(), slog.LevelInfo, "record",
			slog.String("tag", f.Name),
			slog.Int("length", f.Length),
		)
	}

	attrs = append(attrs,
		slog.String("output", event.Output),
		slog.Int("size", event.Size),
		slog.String("sha256", event.SHA256),
	)
	a.logger.LogAttrs(context.Background(), slog.LevelInfo, "factory data generated", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
