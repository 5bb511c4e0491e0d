// Package log records factory data generation runs.
//
// Two kinds of output are produced. Operational logging uses slog, set up
// with New. Run records (Event) describe each generated binary: its size,
// SHA-256, per-record lengths and how the verifier was obtained. They are
// delivered to a Logger:
//
//	// Console summary via slog
//	runLog := log.NewSlogAdapter(logger)
//
//	// Manufacturing audit trail, one CBOR record per run
//	fileLog, _ := log.NewFileLogger("/var/log/factory/runs.cbor")
//
//	// Both
//	runLog := log.NewMultiLogger(log.NewSlogAdapter(logger), fileLog)
//
// # File Format
//
// Audit files are a concatenation of CBOR-encoded Events with integer keys.
// Reader iterates them, optionally filtered.
package log
