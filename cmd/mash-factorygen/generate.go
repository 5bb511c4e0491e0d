package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/mash-protocol/mash-factorygen/pkg/commissioning"
	"github.com/mash-protocol/mash-factorygen/pkg/factorydata"
	pkglog "github.com/mash-protocol/mash-factorygen/pkg/log"
)

func runGenerate(cCtx *cli.Context) (err error) {
	if cCtx.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", cCtx.Args().First())
	}
	logger := setupLogger(cCtx)

	cfg, err := buildConfig(cCtx)
	if err != nil {
		return err
	}

	if cCtx.Bool(flagDacKeyPasswordPrompt.Name) && cfg.DacKeyPassword == "" {
		pw, err := readPassword("DAC key password: ")
		if err != nil {
			return fmt.Errorf("reading DAC key password: %w", err)
		}
		cfg.DacKeyPassword = pw
	}

	var runLog pkglog.Logger = pkglog.NewSlogAdapter(logger)
	if cfg.Report != "" {
		report, openErr := pkglog.NewFileLogger(cfg.Report)
		if openErr != nil {
			return fmt.Errorf("opening report: %w", openErr)
		}
		defer func() {
			if closeErr := report.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("writing report %s: %w", cfg.Report, closeErr)
			}
		}()
		runLog = pkglog.NewMultiLogger(runLog, report)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := factorydata.New(cfg,
		factorydata.WithLogger(logger),
		factorydata.WithRunLogger(runLog),
	)
	res, err := gen.Generate(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cCtx.App.Writer, "%s: %d bytes, sha256 %s\n", res.Output, res.Size, res.SHA256)
	return nil
}

// buildConfig loads the configuration file, if any, and applies the flags
// that were set on the command line on top of it.
func buildConfig(cCtx *cli.Context) (*factorydata.Config, error) {
	cfg := &factorydata.Config{}
	if path := cCtx.String(flagConfig.Name); path != "" {
		loaded, err := factorydata.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	setString := func(f *cli.StringFlag, dst *string) {
		if cCtx.IsSet(f.Name) {
			*dst = cCtx.String(f.Name)
		}
	}
	setUint32 := func(f *cli.UintFlag, dst *uint32) error {
		if !cCtx.IsSet(f.Name) {
			return nil
		}
		v := cCtx.Uint(f.Name)
		if uint64(v) > math.MaxUint32 {
			return fmt.Errorf("--%s: %d out of range", f.Name, v)
		}
		*dst = uint32(v)
		return nil
	}

	if err := setUint32(flagIterationCount, &cfg.IterationCount); err != nil {
		return nil, err
	}
	if cCtx.IsSet(flagPasscode.Name) {
		p, err := commissioning.ParsePasscode(cCtx.String(flagPasscode.Name))
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", flagPasscode.Name, err)
		}
		cfg.Passcode = p
	}
	if cCtx.IsSet(flagDiscriminator.Name) {
		var d uint32
		if err := setUint32(flagDiscriminator, &d); err != nil {
			return nil, err
		}
		cfg.Discriminator = &d
	}

	setString(flagSalt, &cfg.Salt)
	setString(flagDacCert, &cfg.DacCert)
	setString(flagDacKey, &cfg.DacKey)
	setString(flagPaiCert, &cfg.PaiCert)
	setString(flagSpake2pPath, &cfg.Spake2pPath)
	setString(flagSpake2pVerifier, &cfg.Spake2pVerifier)
	setString(flagOut, &cfg.Out)
	setString(flagDacKeyPassword, &cfg.DacKeyPassword)
	setString(flagAES128Key, &cfg.AES128Key)
	setString(flagReport, &cfg.Report)

	if cCtx.IsSet(flagSpake2pTimeout.Name) {
		cfg.Spake2pTimeout = cCtx.Duration(flagSpake2pTimeout.Name)
	}
	return cfg, nil
}
