package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/headstage/dsp/core"
	"github.com/cwbudde/headstage/dsp/eq"
	"github.com/cwbudde/headstage/dsp/spatial"
)

// Band parameter ranges exposed to users.
const (
	minBandFrequency = 20.0
	maxBandFrequency = 20000.0
	minBandQ         = 0.1
	maxBandQ         = 10.0
	maxBandGainDB    = 16.0
)

// preset is the YAML rendering configuration.
type preset struct {
	BlockSize    int          `yaml:"block_size"`
	OutputGainDB float64      `yaml:"output_gain_db"`
	EQEnabled    *bool        `yaml:"eq_enabled"`
	Bypass       bool         `yaml:"bypass"`
	Bands        []presetBand `yaml:"bands"`
}

// presetBand starts from the default band and is enabled unless the preset
// says otherwise.
type presetBand struct {
	eq.BandConfig `yaml:",inline"`
}

func (b *presetBand) UnmarshalYAML(value *yaml.Node) error {
	b.BandConfig = eq.DefaultBandConfig()
	b.Enabled = true
	return value.Decode(&b.BandConfig)
}

// loadPreset reads a preset file. An empty path yields the default preset.
func loadPreset(path string) (*preset, error) {
	p := &preset{}
	if path == "" {
		return p, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preset: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse preset %s: %w", path, err)
	}

	if len(p.Bands) > spatial.DefaultBands {
		return nil, fmt.Errorf("preset %s has %d bands, at most %d supported", path, len(p.Bands), spatial.DefaultBands)
	}
	p.clamp()
	return p, nil
}

// clamp limits every band to the user-facing parameter ranges.
func (p *preset) clamp() {
	for i := range p.Bands {
		b := &p.Bands[i].BandConfig
		b.Frequency = core.Clamp(b.Frequency, minBandFrequency, maxBandFrequency)
		b.Q = core.Clamp(b.Q, minBandQ, maxBandQ)
		b.GainDB = core.Clamp(b.GainDB, -maxBandGainDB, maxBandGainDB)
	}
}

func (p *preset) eqEnabled() bool {
	return p.EQEnabled == nil || *p.EQEnabled
}

// apply configures s from the preset.
func (p *preset) apply(s *spatial.Simulator) error {
	for i, b := range p.Bands {
		if err := s.SetBand(i, b.BandConfig); err != nil {
			return err
		}
	}
	s.SetEQEnabled(p.eqEnabled())
	s.SetBypass(p.Bypass)
	s.SetOutputGainDB(p.OutputGainDB)
	return nil
}

// equalizer builds a stand-alone EQ with the preset's bands.
func (p *preset) equalizer(sampleRate float64) *eq.StereoParametricEQ {
	e := eq.NewStereoParametricEQ(len(p.Bands), sampleRate)
	for i, b := range p.Bands {
		e.UpdateBandCoeffs(i, sampleRate, b.BandConfig)
	}
	return e
}
