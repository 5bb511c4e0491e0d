// Command mash-factorygen writes the factory data binary for one device.
//
// The binary holds the SPAKE2+ verifier, salt and iteration count, the DAC
// private key, the DAC and PAI certificates and the setup discriminator as
// seven tag-length-value records. The firmware reads it at first boot.
//
// Usage:
//
//	mash-factorygen [flags]
//	mash-factorygen history [flags] <report.cbor>
//
// Examples:
//
//	# Generate with the spake2p tool
//	mash-factorygen -i 1000 -s AAAAAAAAAAAAAAAAAAAAAA== -p 20202021 -d 3840 \
//	    --dac-cert dac.der --dac-key dac_key.der --pai-cert pai.der \
//	    --spake2p-path ./spake2p -o factory_data.bin
//
//	# Same settings from a YAML file, output overridden on the command line
//	mash-factorygen -c station4.yaml -o device-0042.bin --report runs.cbor
//
//	# List failed runs
//	mash-factorygen history --failed runs.cbor
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "mash-factorygen",
		Usage:     "generate the factory data binary for a device",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     append(append([]cli.Flag(nil), generateFlags...), logFlags...),
		Action:    runGenerate,
		Commands: []*cli.Command{
			{
				Name:      "history",
				Usage:     "list runs recorded in a report file",
				ArgsUsage: "<report.cbor>",
				Flags:     historyFlags,
				Action:    runHistory,
			},
		},
	}
}

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
