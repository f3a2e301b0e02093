// Command headstage renders stereo WAV files through the headphone speaker
// simulator and inspects EQ presets.
//
// Usage:
//
//	headstage render -in input.wav -out output.wav [flags]
//	headstage response [-preset eq.yaml] [-rate 48000]
//
// Examples:
//
//	headstage render -in mix.wav -out mix_hs.wav -ir room.wav -preset eq.yaml
//	headstage render -in mix.wav -out mix_hs.wav -block 256 -host-block 128 -v
//	headstage response -preset eq.yaml
//
// A preset is a YAML file:
//
//	block_size: 512
//	output_gain_db: -3
//	eq_enabled: true
//	bands:
//	  - {type: low_shelf, frequency: 105, q: 0.7, gain_db: 4}
//	  - {type: peak, frequency: 3000, q: 2, gain_db: -2.5}
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return errUsage
	}

	switch args[0] {
	case "render":
		return runRender(args[1:], stdout, stderr)
	case "response":
		return runResponse(args[1:], stdout, stderr)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return errUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: headstage <command> [flags]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  render    render a stereo WAV through EQ and binaural convolution\n")
	fmt.Fprintf(w, "  response  print the EQ magnitude response of a preset\n")
	fmt.Fprintf(w, "\nRun 'headstage <command> -h' for command flags.\n")
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
