package log

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// Logger receives run records.
type Logger interface {
	// Log records a run. Implementations must not block for long.
	Log(event Event)
}

// NoopLogger discards all events. It is usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Options configures the operational slog logger.
type Options struct {
	// JSON selects the JSON handler instead of the text handler.
	JSON bool

	// Debug enables debug level messages.
	Debug bool

	// UID adds a random "uid" attribute to every message so that lines from
	// concurrent runs on one station can be told apart.
	UID bool

	// Service is added as the "service" attribute when set.
	Service string
}

// New creates the operational logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, hopts)
	} else {
		handler = slog.NewTextHandler(w, hopts)
	}

	logger := slog.New(handler)
	if opts.Service != "" {
		logger = logger.With("service", opts.Service)
	}
	if opts.UID {
		logger = logger.With("uid", uuid.Must(uuid.NewRandom()).String())
	}
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
