package eq

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/headstage/dsp/filter/biquad"
	"github.com/cwbudde/headstage/dsp/filter/design"
)

// Errors returned by the equalizer.
var (
	ErrLengthMismatch    = errors.New("eq: buffer length mismatch")
	ErrUnknownFilterType = errors.New("eq: unknown filter type")
)

// FilterType selects the RBJ design used by a band.
type FilterType int

const (
	// Peak boosts or cuts around the centre frequency.
	Peak FilterType = iota
	// LowShelf boosts or cuts below the corner frequency.
	LowShelf
	// HighShelf boosts or cuts above the corner frequency.
	HighShelf
	// LowPass attenuates above the corner frequency. Gain is ignored.
	LowPass
	// HighPass attenuates below the corner frequency. Gain is ignored.
	HighPass
	// BandPass passes a band around the centre frequency at 0 dB. Gain is ignored.
	BandPass
	// Notch removes the centre frequency. Gain is ignored.
	Notch
	// AllPass shifts phase only. Gain is ignored.
	AllPass
)

var filterTypeNames = [...]string{
	Peak:      "peak",
	LowShelf:  "low_shelf",
	HighShelf: "high_shelf",
	LowPass:   "low_pass",
	HighPass:  "high_pass",
	BandPass:  "band_pass",
	Notch:     "notch",
	AllPass:   "all_pass",
}

// String returns the canonical lower-case name of the filter type.
func (t FilterType) String() string {
	if t < 0 || int(t) >= len(filterTypeNames) {
		return fmt.Sprintf("FilterType(%d)", int(t))
	}
	return filterTypeNames[t]
}

// Valid reports whether t names a known filter type.
func (t FilterType) Valid() bool {
	return t >= 0 && int(t) < len(filterTypeNames)
}

// HasGain reports whether the gain parameter affects the design.
func (t FilterType) HasGain() bool {
	return t == Peak || t == LowShelf || t == HighShelf
}

// ParseFilterType parses a filter type name. Matching ignores case, and
// dashes, underscores and spaces; the AutoEQ abbreviations PK, LSC and HSC
// are accepted as well.
func ParseFilterType(s string) (FilterType, error) {
	key := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "peak", "peaking", "pk", "peq":
		return Peak, nil
	case "lowshelf", "ls", "lsc":
		return LowShelf, nil
	case "highshelf", "hs", "hsc":
		return HighShelf, nil
	case "lowpass", "lp", "lpq":
		return LowPass, nil
	case "highpass", "hp", "hpq":
		return HighPass, nil
	case "bandpass", "bp":
		return BandPass, nil
	case "notch", "no":
		return Notch, nil
	case "allpass", "ap":
		return AllPass, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFilterType, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t FilterType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFilterType, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *FilterType) UnmarshalText(text []byte) error {
	parsed, err := ParseFilterType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// BandConfig carries the parameters of one equalizer band.
type BandConfig struct {
	Type      FilterType `yaml:"type"`
	Frequency float64    `yaml:"frequency"`
	Q         float64    `yaml:"q"`
	GainDB    float64    `yaml:"gain_db"`
	Enabled   bool       `yaml:"enabled"`
}

// DefaultBandConfig returns a disabled 1 kHz peaking band with no gain.
func DefaultBandConfig() BandConfig {
	return BandConfig{
		Type:      Peak,
		Frequency: 1000,
		Q:         0.7,
	}
}

// Design returns the RBJ coefficients for the given parameters. Unknown
// filter types design the identity filter.
func Design(filterType FilterType, sampleRate, centerFreq, q, gainDB float64) biquad.Coefficients {
	switch filterType {
	case Peak:
		return design.Peak(centerFreq, gainDB, q, sampleRate)
	case LowShelf:
		return design.LowShelf(centerFreq, gainDB, q, sampleRate)
	case HighShelf:
		return design.HighShelf(centerFreq, gainDB, q, sampleRate)
	case LowPass:
		return design.Lowpass(centerFreq, q, sampleRate)
	case HighPass:
		return design.Highpass(centerFreq, q, sampleRate)
	case BandPass:
		return design.Bandpass(centerFreq, q, sampleRate)
	case Notch:
		return design.Notch(centerFreq, q, sampleRate)
	case AllPass:
		return design.Allpass(centerFreq, q, sampleRate)
	default:
		return biquad.Identity()
	}
}
