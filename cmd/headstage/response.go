package main

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/headstage/dsp/core"
)

// thirdOctaveCenters are the ISO 266 preferred third-octave frequencies.
var thirdOctaveCenters = []float64{
	20, 25, 31.5, 40, 50, 63, 80, 100, 125, 160,
	200, 250, 315, 400, 500, 630, 800, 1000, 1250, 1600,
	2000, 2500, 3150, 4000, 5000, 6300, 8000, 10000, 12500, 16000, 20000,
}

func runResponse(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("response", flag.ContinueOnError)
	fs.SetOutput(stderr)
	presetPath := fs.String("preset", "", "YAML preset with EQ bands")
	rate := fs.Float64("rate", core.DefaultProcessorConfig().SampleRate, "sample rate in Hz")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: headstage response [-preset eq.yaml] [-rate 48000]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *rate <= 0 {
		return fmt.Errorf("sample rate must be > 0: %g", *rate)
	}

	p, err := loadPreset(*presetPath)
	if err != nil {
		return err
	}

	freqs := make([]float64, 0, len(thirdOctaveCenters))
	for _, f := range thirdOctaveCenters {
		if f < *rate/2 {
			freqs = append(freqs, f)
		}
	}

	mags := make([]float64, len(freqs))
	for i := range mags {
		mags[i] = 1
	}
	if p.eqEnabled() {
		mags = p.equalizer(*rate).FrequencyResponse(*rate, freqs)
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tw, "Frequency [Hz]\tMagnitude [dB]\t\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}
	for i, f := range freqs {
		if _, err := fmt.Fprintf(tw, "%g\t%.2f\t\n", f, core.LinearToDB(mags[i])); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}
	return tw.Flush()
}
