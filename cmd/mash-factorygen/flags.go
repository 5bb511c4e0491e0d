package main

import (
	"log/slog"

	"github.com/urfave/cli/v2"

	pkglog "github.com/mash-protocol/mash-factorygen/pkg/log"
)

var flagConfig = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:     "YAML configuration file; flags given on the command line override it",
}
var flagIterationCount = &cli.UintFlag{
	Name:    "it",
	Aliases: []string{"i"},
	Usage:     "SPAKE2+ iteration count",
}
var flagSalt = &cli.StringFlag{
	Name:    "salt",
	Aliases: []string{"s"},
	Usage:     "SPAKE2+ salt, base64",
}
var flagPasscode = &cli.StringFlag{
	Name:    "passcode",
	Aliases: []string{"p"},
	Usage:     "setup passcode, decimal or 0x hex",
}
var flagDiscriminator = &cli.UintFlag{
	Name:    "discriminator",
	Aliases: []string{"d"},
	Usage:     "12-bit setup discriminator",
}
var flagDacCert = &cli.StringFlag{
	Name:    "dac-cert",
	Aliases: []string{"dac_cert"},
	Usage:   "DAC certificate, DER or PEM",
}
var flagDacKey = &cli.StringFlag{
	Name:    "dac-key",
	Aliases: []string{"dac_key"},
	Usage:   "DAC private key, DER or PEM",
}
var flagPaiCert = &cli.StringFlag{
	Name:    "pai-cert",
	Aliases: []string{"pai_cert"},
	Usage:   "PAI certificate, DER or PEM",
}
var flagSpake2pPath = &cli.StringFlag{
	Name:    "spake2p-path",
	Aliases: []string{"spake2p_path"},
	Usage:   "spake2p tool used to generate the verifier",
}
var flagSpake2pVerifier = &cli.StringFlag{
	Name:    "spake2p-verifier",
	Aliases: []string{"spake2p_verifier"},
	Usage:   "precomputed SPAKE2+ verifier, base64; the spake2p tool is not run",
}
var flagSpake2pTimeout = &cli.DurationFlag{
	Name:  "spake2p-timeout",
	Usage: "stop the spake2p tool after this long (0 waits forever)",
}
var flagOut = &cli.StringFlag{
	Name:    "out",
	Aliases: []string{"o"},
	Usage:   "output binary",
}
var flagDacKeyPassword = &cli.StringFlag{
	Name:    "dac-key-password",
	Aliases: []string{"dac_key_password"},
	Usage:   "password of an encrypted PKCS#8 DAC key",
}
var flagDacKeyPasswordPrompt = &cli.BoolFlag{
	Name:  "dac-key-password-prompt",
	Usage: "read the DAC key password from the terminal",
}
var flagAES128Key = &cli.StringFlag{
	Name:    "aes128-key",
	Aliases: []string{"aes128_key"},
	Usage:   "AES-128 key, 32 hex characters (accepted, not used)",
}
var flagReport = &cli.StringFlag{
	Name:  "report",
	Usage: "append a CBOR record of the run to this file",
}

var generateFlags = []cli.Flag{
	flagConfig,
	flagIterationCount,
	flagSalt,
	flagPasscode,
	flagDiscriminator,
	flagDacCert,
	flagDacKey,
	flagPaiCert,
	flagSpake2pPath,
	flagSpake2pVerifier,
	flagSpake2pTimeout,
	flagOut,
	flagDacKeyPassword,
	flagDacKeyPasswordPrompt,
	flagAES128Key,
	flagReport,
}

var flagLogJSON = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var flagLogDebug = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var flagLogUID = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var logFlags = []cli.Flag{
	flagLogJSON,
	flagLogDebug,
	flagLogUID,
}

func setupLogger(cCtx *cli.Context) *slog.Logger {
	return pkglog.New(cCtx.App.ErrWriter, pkglog.Options{
		JSON:    cCtx.Bool(flagLogJSON.Name),
		Debug:   cCtx.Bool(flagLogDebug.Name),
		UID:     cCtx.Bool(flagLogUID.Name),
		Service: "mash-factorygen",
	})
}
