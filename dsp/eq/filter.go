package eq

import "github.com/cwbudde/headstage/dsp/filter/biquad"

// BiquadFilter is one equalizer band: designed parameters plus the section
// that holds the band's delay state.
type BiquadFilter struct {
	section biquad.Section

	filterType FilterType
	sampleRate float64
	centerFreq float64
	q          float64
	gainDB     float64
	enabled    bool
}

// NewBiquadFilter returns a disabled identity band at sampleRate.
func NewBiquadFilter(sampleRate float64) *BiquadFilter {
	f := &BiquadFilter{}
	f.init(sampleRate)
	return f
}

func (f *BiquadFilter) init(sampleRate float64) {
	def := DefaultBandConfig()
	f.filterType = def.Type
	f.sampleRate = sampleRate
	f.centerFreq = def.Frequency
	f.q = def.Q
	f.gainDB = def.GainDB
	f.enabled = false
	f.section.Apply(biquad.Bypassed())
	f.section.Reset()
}

// UpdateCoeffs stores new parameters and redesigns the band. While the band
// is disabled the identity filter stays in place and the parameters take
// effect on the next SetEnabled(true). The delay state is kept.
func (f *BiquadFilter) UpdateCoeffs(filterType FilterType, sampleRate, centerFreq, q, gainDB float64) {
	f.filterType = filterType
	f.sampleRate = sampleRate
	f.centerFreq = centerFreq
	f.q = q
	f.gainDB = gainDB
	f.apply()
}

// SetEnabled switches the band between bypass and its designed response.
// The delay state is not reset.
func (f *BiquadFilter) SetEnabled(enabled bool) {
	f.enabled = enabled
	f.apply()
}

// Configure applies cfg at sampleRate in one step.
func (f *BiquadFilter) Configure(sampleRate float64, cfg BandConfig) {
	f.enabled = cfg.Enabled
	f.UpdateCoeffs(cfg.Type, sampleRate, cfg.Frequency, cfg.Q, cfg.GainDB)
}

func (f *BiquadFilter) apply() {
	if !f.enabled {
		f.section.Apply(biquad.Bypassed())
		return
	}
	f.section.Apply(biquad.Active(Design(f.filterType, f.sampleRate, f.centerFreq, f.q, f.gainDB)))
}

// Enabled reports whether the band filters its input.
func (f *BiquadFilter) Enabled() bool {
	return f.enabled
}

// Config returns the stored band parameters.
func (f *BiquadFilter) Config() BandConfig {
	return BandConfig{
		Type:      f.filterType,
		Frequency: f.centerFreq,
		Q:         f.q,
		GainDB:    f.gainDB,
		Enabled:   f.enabled,
	}
}

// SampleRate returns the rate the band was last designed for.
func (f *BiquadFilter) SampleRate() float64 {
	return f.sampleRate
}

// Setting returns the effective section setting.
func (f *BiquadFilter) Setting() biquad.Setting {
	return f.section.Setting()
}

// Coefficients returns the effective coefficients; identity while disabled.
func (f *BiquadFilter) Coefficients() biquad.Coefficients {
	return f.section.Setting().Coefficients()
}

// ResetState zeroes the delay state.
func (f *BiquadFilter) ResetState() {
	f.section.Reset()
}

// State returns the delay state [z1, z2].
func (f *BiquadFilter) State() [2]float32 {
	return f.section.State()
}

// ProcessSample filters one sample. A disabled band returns x unchanged.
func (f *BiquadFilter) ProcessSample(x float32) float32 {
	return f.section.ProcessSample(x)
}

// ProcessBlock filters buf in place.
func (f *BiquadFilter) ProcessBlock(buf []float32) {
	f.section.ProcessBlock(buf)
}
