// Package wavio reads and writes the WAV files used by the headstage
// command: stereo programme material and 2- or 4-channel impulse response
// sets.
package wavio

import (
	"errors"
	"fmt"
	"math"
	"os"

	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/headstage/dsp/core"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/simd/f32"
)

// WAV format tags accepted by the decoder.
const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// DefaultBitDepth is used when writing a Stereo with BitDepth 0.
const DefaultBitDepth = 16

// Errors returned by the readers.
var (
	ErrInvalidFile       = errors.New("wavio: invalid WAV file")
	ErrUnsupportedFormat = errors.New("wavio: unsupported WAV format")
	ErrChannelCount      = errors.New("wavio: unsupported channel count")
	ErrSampleRate        = errors.New("wavio: sample rate mismatch")
)

// Stereo is a decoded two-channel signal in [-1, 1].
type Stereo struct {
	SampleRate int
	BitDepth   int
	Left       []float32
	Right      []float32
}

// Frames returns the number of sample frames.
func (s *Stereo) Frames() int {
	return len(s.Left)
}

// Decoded holds every channel of a WAV file, deinterleaved.
type Decoded struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float32
}

// Read decodes a PCM WAV file.
func Read(path string) (*Decoded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavio: failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, path)
	}
	if dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible {
		return nil, fmt.Errorf("%w: format tag %d in %s", ErrUnsupportedFormat, dec.WavAudioFormat, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio: failed to decode %s: %w", path, err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, path)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return nil, fmt.Errorf("%w: %d-bit in %s", ErrUnsupportedFormat, bitDepth, path)
	}

	return &Decoded{
		SampleRate: buf.Format.SampleRate,
		BitDepth:   bitDepth,
		Channels:   deinterleave(buf.Data, buf.Format.NumChannels, bitDepth),
	}, nil
}

// ReadStereo decodes a mono or stereo WAV file. Mono input is copied to
// both channels.
func ReadStereo(path string) (*Stereo, error) {
	d, err := Read(path)
	if err != nil {
		return nil, err
	}

	s := &Stereo{SampleRate: d.SampleRate, BitDepth: d.BitDepth}
	switch len(d.Channels) {
	case 1:
		s.Left = d.Channels[0]
		s.Right = append([]float32(nil), d.Channels[0]...)
	case 2:
		s.Left, s.Right = d.Channels[0], d.Channels[1]
	default:
		return nil, fmt.Errorf("%w: %d channels in %s", ErrChannelCount, len(d.Channels), path)
	}
	return s, nil
}

// WriteOption configures WriteStereo.
type WriteOption func(*writeConfig)

type writeConfig struct {
	dither bool
	seed   int64
}

// WithDither adds 1 LSB TPDF dither before quantization. The seed makes the
// noise reproducible.
func WithDither(seed int64) WriteOption {
	return func(cfg *writeConfig) {
		cfg.dither = true
		cfg.seed = seed
	}
}

// WriteStereo encodes s as a PCM WAV file. Samples are clipped to [-1, 1].
func WriteStereo(path string, s *Stereo, opts ...WriteOption) (err error) {
	var cfg writeConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if len(s.Left) != len(s.Right) {
		return fmt.Errorf("wavio: left/right length mismatch: %d != %d", len(s.Left), len(s.Right))
	}
	bitDepth := s.BitDepth
	if bitDepth == 0 {
		bitDepth = DefaultBitDepth
	}
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return fmt.Errorf("%w: %d-bit", ErrUnsupportedFormat, bitDepth)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	enc := wav.NewEncoder(f, s.SampleRate, bitDepth, 2, formatPCM)

	interleaved := make([]float32, 2*len(s.Left))
	f32.Interleave2(interleaved, s.Left, s.Right)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			SampleRate:  s.SampleRate,
			NumChannels: 2,
		},
		Data:           quantize(interleaved, bitDepth, cfg),
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: failed to write %s: %w", path, err)
	}
	return enc.Close()
}

// fullScale returns the integer value that maps to 1.0.
func fullScale(bitDepth int) float64 {
	return float64(int64(1)<<(bitDepth-1) - 1)
}

func deinterleave(data []int, numChannels, bitDepth int) [][]float32 {
	frames := len(data) / numChannels
	scale := 1 / fullScale(bitDepth)

	channels := make([][]float32, numChannels)
	for ch := range channels {
		channels[ch] = make([]float32, frames)
	}
	for i := range frames {
		for ch := range numChannels {
			channels[ch][i] = float32(float64(data[i*numChannels+ch]) * scale)
		}
	}
	return channels
}

func quantize(samples []float32, bitDepth int, cfg writeConfig) []int {
	scale := fullScale(bitDepth)

	x := make([]float64, len(samples))
	for i, v := range samples {
		if !math.IsNaN(float64(v)) {
			x[i] = float64(v)
		}
	}
	if cfg.dither {
		vecmath.AddDitherTPDF(x, 1/scale, vecmath.NewDitherState(cfg.seed))
	}

	out := make([]int, len(x))
	for i, v := range x {
		out[i] = int(math.Round(core.Clamp(v, -1, 1) * scale))
	}
	return out
}
