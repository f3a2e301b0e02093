package main

import (
	"flag"
	"fmt"
	"io"
	"math"

	"github.com/tphakala/simd/f32"

	"github.com/cwbudde/headstage/dsp/core"
	"github.com/cwbudde/headstage/dsp/spatial"
	"github.com/cwbudde/headstage/internal/wavio"
)

const defaultHostBlock = 512

type renderOptions struct {
	in, out    string
	ir         string
	preset     string
	blockSize  int
	hostBlock  int
	bitDepth   int
	tail       bool
	compensate bool
	dither     bool
	verbose    bool
}

func parseRenderFlags(args []string, stderr io.Writer) (*renderOptions, error) {
	o := &renderOptions{}
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.in, "in", "", "input WAV file (mono or stereo)")
	fs.StringVar(&o.out, "out", "", "output WAV file")
	fs.StringVar(&o.ir, "ir", "", "impulse response WAV (2 or 4 channels); passthrough if empty")
	fs.StringVar(&o.preset, "preset", "", "YAML preset with EQ bands and output gain")
	fs.IntVar(&o.blockSize, "block", 0, "convolution block size, power of two (default from preset or 512)")
	fs.IntVar(&o.hostBlock, "host-block", defaultHostBlock, "samples per Process call")
	fs.IntVar(&o.bitDepth, "bits", 0, "output bit depth 16, 24 or 32 (default: input bit depth)")
	fs.BoolVar(&o.tail, "tail", true, "render the impulse response tail after the input ends")
	fs.BoolVar(&o.compensate, "compensate", true, "remove the engine's leading latency from the output")
	fs.BoolVar(&o.dither, "dither", false, "add TPDF dither when quantizing the output")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: headstage render -in input.wav -out output.wav [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	if o.in == "" || o.out == "" {
		fs.Usage()
		return nil, errUsage
	}
	if o.hostBlock < 1 {
		return nil, fmt.Errorf("host block must be >= 1: %d", o.hostBlock)
	}
	return o, nil
}

func runRender(args []string, stdout, stderr io.Writer) error {
	o, err := parseRenderFlags(args, stderr)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, o.verbose)

	p, err := loadPreset(o.preset)
	if err != nil {
		return err
	}

	input, err := wavio.ReadStereo(o.in)
	if err != nil {
		return err
	}
	sampleRate := float64(input.SampleRate)
	logger.Info("input loaded", "path", o.in, "sample_rate", input.SampleRate,
		"bit_depth", input.BitDepth, "frames", input.Frames())

	set := spatial.PassthroughSet()
	if o.ir != "" {
		set, err = wavio.IRFile{Path: o.ir}.ImpulseResponses(sampleRate)
		if err != nil {
			return err
		}
	}

	blockSize := o.blockSize
	if blockSize == 0 {
		blockSize = p.BlockSize
	}

	sim, err := spatial.NewSimulator(
		spatial.WithProcessorOptions(core.WithSampleRate(sampleRate), core.WithBlockSize(blockSize)),
		spatial.WithProvider(spatial.StaticProvider{Set: set}),
		spatial.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	if err := p.apply(sim); err != nil {
		return err
	}
	logger.Debug("simulator ready",
		"block_size", sim.Engine().BlockSize(),
		"host_block", o.hostBlock,
		"bands", len(p.Bands),
		"eq_enabled", sim.EQEnabled(),
		"bypass", sim.Bypassed(),
		"output_gain_db", sim.OutputGainDB())

	left, right, err := render(sim, input, set, o)
	if err != nil {
		return err
	}

	bitDepth := o.bitDepth
	if bitDepth == 0 {
		bitDepth = input.BitDepth
	}
	var writeOpts []wavio.WriteOption
	if o.dither {
		writeOpts = append(writeOpts, wavio.WithDither(1))
	}
	if err := wavio.WriteStereo(o.out, &wavio.Stereo{
		SampleRate: input.SampleRate,
		BitDepth:   bitDepth,
		Left:       left,
		Right:      right,
	}, writeOpts...); err != nil {
		return err
	}

	peakL, rmsL := levels(left)
	peakR, rmsR := levels(right)
	fmt.Fprintf(stdout, "Wrote %s: %d frames, %d Hz, %d-bit, latency %d samples\n",
		o.out, len(left), input.SampleRate, bitDepth, sim.Latency())
	fmt.Fprintf(stdout, "Left:  peak %.2f dBFS, RMS %.2f dBFS\n", core.LinearToDB(peakL), core.LinearToDB(rmsL))
	fmt.Fprintf(stdout, "Right: peak %.2f dBFS, RMS %.2f dBFS\n", core.LinearToDB(peakR), core.LinearToDB(rmsR))
	return nil
}

// render runs the whole input through sim in host-sized chunks. The input
// is padded with silence to cover the engine latency and, with tail
// enabled, the impulse response decay.
func render(sim *spatial.Simulator, input *wavio.Stereo, set spatial.ImpulseResponseSet, o *renderOptions) ([]float32, []float32, error) {
	frames := input.Frames()
	if sim.Bypassed() {
		return input.Left, input.Right, nil
	}

	decay := 0
	if o.tail {
		decay = max(set.MaxLen()-1, 0)
	}
	// Equal-sized calls keep the engine latency fixed after the first one.
	total := frames + decay + sim.Engine().BlockSize() - 1
	total = (total + o.hostBlock - 1) / o.hostBlock * o.hostBlock

	left := make([]float32, total)
	right := make([]float32, total)
	copy(left, input.Left)
	copy(right, input.Right)

	sim.Reserve(o.hostBlock)
	for start := 0; start < total; start += o.hostBlock {
		end := min(start+o.hostBlock, total)
		if err := sim.ProcessInPlace(left[start:end], right[start:end]); err != nil {
			return nil, nil, err
		}
	}

	d := sim.Latency()
	n := frames + decay
	if o.compensate {
		return left[d : d+n], right[d : d+n], nil
	}
	return left[:d+n], right[:d+n], nil
}

// levels returns the peak and RMS amplitude of x.
func levels(x []float32) (peak, rms float64) {
	if len(x) == 0 {
		return 0, 0
	}
	for _, v := range x {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	energy := float64(f32.DotProductUnsafe(x, x))
	return peak, math.Sqrt(energy / float64(len(x)))
}
