package eq

import (
	"fmt"

	"github.com/cwbudde/headstage/dsp/filter/biquad"
)

// Channel selects one side of a StereoParametricEQ.
type Channel int

const (
	// Left is the left channel.
	Left Channel = iota
	// Right is the right channel.
	Right
)

// StereoParametricEQ is a fixed-size bank of bands per channel. Band i of
// both channels normally shares one design while keeping separate state.
type StereoParametricEQ struct {
	left  []BiquadFilter
	right []BiquadFilter

	sampleRate float64
}

// NewStereoParametricEQ allocates numBands disabled bands per channel.
// A negative numBands is treated as zero.
func NewStereoParametricEQ(numBands int, sampleRate float64) *StereoParametricEQ {
	numBands = max(numBands, 0)
	e := &StereoParametricEQ{
		left:       make([]BiquadFilter, numBands),
		right:      make([]BiquadFilter, numBands),
		sampleRate: sampleRate,
	}
	for i := range numBands {
		e.left[i].init(sampleRate)
		e.right[i].init(sampleRate)
	}
	return e
}

// NumBands returns the number of bands per channel.
func (e *StereoParametricEQ) NumBands() int {
	return len(e.left)
}

// SampleRate returns the rate the bank was last configured for.
func (e *StereoParametricEQ) SampleRate() float64 {
	return e.sampleRate
}

// UpdateBandCoeffs applies cfg to band idx of both channels. An index
// outside [0, NumBands) is ignored.
func (e *StereoParametricEQ) UpdateBandCoeffs(idx int, sampleRate float64, cfg BandConfig) {
	if idx < 0 || idx >= len(e.left) {
		return
	}
	e.sampleRate = sampleRate
	e.left[idx].Configure(sampleRate, cfg)
	e.right[idx].Configure(sampleRate, cfg)
}

// UpdateChannelBandCoeffs applies cfg to band idx of a single channel. An
// index outside [0, NumBands) or an unknown channel is ignored.
func (e *StereoParametricEQ) UpdateChannelBandCoeffs(ch Channel, idx int, sampleRate float64, cfg BandConfig) {
	bands := e.channel(ch)
	if idx < 0 || idx >= len(bands) {
		return
	}
	e.sampleRate = sampleRate
	bands[idx].Configure(sampleRate, cfg)
}

// Band returns the filter of band idx on channel ch, or nil if out of range.
func (e *StereoParametricEQ) Band(ch Channel, idx int) *BiquadFilter {
	bands := e.channel(ch)
	if idx < 0 || idx >= len(bands) {
		return nil
	}
	return &bands[idx]
}

func (e *StereoParametricEQ) channel(ch Channel) []BiquadFilter {
	switch ch {
	case Left:
		return e.left
	case Right:
		return e.right
	default:
		return nil
	}
}

// ProcessBlock filters left and right in place through every band in index
// order. Disabled bands pass samples through. Zero-alloc.
func (e *StereoParametricEQ) ProcessBlock(left, right []float32) error {
	if len(left) != len(right) {
		return fmt.Errorf("%w: left=%d right=%d", ErrLengthMismatch, len(left), len(right))
	}

	// Running each band over the whole block is the same series cascade as
	// running each sample through all bands.
	for i := range e.left {
		e.left[i].ProcessBlock(left)
		e.right[i].ProcessBlock(right)
	}
	return nil
}

// ResetAllBandsState zeroes the delay state of every band on both channels.
func (e *StereoParametricEQ) ResetAllBandsState() {
	for i := range e.left {
		e.left[i].ResetState()
		e.right[i].ResetState()
	}
}

// SetSampleRate redesigns every band for sampleRate and clears all state.
func (e *StereoParametricEQ) SetSampleRate(sampleRate float64) {
	e.sampleRate = sampleRate
	for i := range e.left {
		e.left[i].Configure(sampleRate, e.left[i].Config())
		e.right[i].Configure(sampleRate, e.right[i].Config())
	}
	e.ResetAllBandsState()
}

// FrequencyResponse returns the linear magnitude of the enabled left-channel
// bands at each frequency in freqs.
func (e *StereoParametricEQ) FrequencyResponse(sampleRate float64, freqs []float64) []float64 {
	settings := make([]biquad.Setting, len(e.left))
	for i := range e.left {
		settings[i] = e.left[i].Setting()
	}
	out := make([]float64, len(freqs))
	biquad.CascadeMagnitude(out, settings, freqs, sampleRate)
	return out
}
