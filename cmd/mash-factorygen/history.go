package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	pkglog "github.com/mash-protocol/mash-factorygen/pkg/log"
)

var flagHistoryRunID = &cli.StringFlag{
	Name:  "run-id",
	Usage: "show only this run",
}
var flagHistoryFailed = &cli.BoolFlag{
	Name:  "failed",
	Usage: "show only failed runs",
}
var flagHistorySucceeded = &cli.BoolFlag{
	Name:  "succeeded",
	Usage: "show only successful runs",
}
var flagHistorySince = &cli.StringFlag{
	Name:  "since",
	Usage: "show runs at or after this time (RFC 3339)",
}
var flagHistoryUntil = &cli.StringFlag{
	Name:  "until",
	Usage: "show runs before this time (RFC 3339)",
}
var flagHistoryFormat = &cli.StringFlag{
	Name:  "format",
	Value: "text",
	Usage: "output format: text or jsonl",
}

var historyFlags = []cli.Flag{
	flagHistoryRunID,
	flagHistoryFailed,
	flagHistorySucceeded,
	flagHistorySince,
	flagHistoryUntil,
	flagHistoryFormat,
}

func runHistory(cCtx *cli.Context) error {
	if cCtx.NArg() != 1 {
		return errors.New("report file path required")
	}

	var (
		filter pkglog.Filter
		err    error
	)
	filter.RunID = cCtx.String(flagHistoryRunID.Name)
	switch {
	case cCtx.Bool(flagHistoryFailed.Name) && cCtx.Bool(flagHistorySucceeded.Name):
		return errors.New("--failed and --succeeded are mutually exclusive")
	case cCtx.Bool(flagHistoryFailed.Name):
		failed := true
		filter.Failed = &failed
	case cCtx.Bool(flagHistorySucceeded.Name):
		failed := false
		filter.Failed = &failed
	}
	if filter.TimeStart, err = parseTime(cCtx, flagHistorySince); err != nil {
		return err
	}
	if filter.TimeEnd, err = parseTime(cCtx, flagHistoryUntil); err != nil {
		return err
	}

	format := cCtx.String(flagHistoryFormat.Name)
	if format != "text" && format != "jsonl" {
		return fmt.Errorf("unknown format: %s (supported: text, jsonl)", format)
	}

	reader, err := pkglog.NewFilteredReader(cCtx.Args().First(), filter)
	if err != nil {
		return fmt.Errorf("failed to open report: %w", err)
	}
	defer reader.Close()

	w := cCtx.App.Writer
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read run record: %w", err)
		}

		if format == "jsonl" {
			if err := encoder.Encode(event); err != nil {
				return fmt.Errorf("failed to encode run record: %w", err)
			}
			continue
		}
		formatRun(w, event)
	}
}

func parseTime(cCtx *cli.Context, f *cli.StringFlag) (*time.Time, error) {
	v := cCtx.String(f.Name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", f.Name, err)
	}
	return &t, nil
}

// formatRun writes one line per run:
// timestamp run-id MODE OK size sha256 output, or FAILED step: message.
func formatRun(w io.Writer, event pkglog.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05Z")
	if event.Failed() {
		fmt.Fprintf(w, "%s %s %s FAILED %s: %s\n",
			ts, event.RunID, event.VerifierMode, event.Error.Step, event.Error.Message)
		return
	}
	fmt.Fprintf(w, "%s %s %s OK %d %s %s\n",
		ts, event.RunID, event.VerifierMode, event.Size, event.SHA256, event.Output)
}
