package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/headstage/dsp/conv"
)

// ErrInvalidImpulseResponse reports a response containing NaN or Inf.
var ErrInvalidImpulseResponse = errors.New("spatial: invalid impulse response")

// ImpulseResponseSet holds the four speaker-to-ear impulse responses. An
// empty response mutes its path.
type ImpulseResponseSet struct {
	LeftToLeft   []float32
	LeftToRight  []float32
	RightToLeft  []float32
	RightToRight []float32
}

// PassthroughSet routes each input straight to its own ear.
func PassthroughSet() ImpulseResponseSet {
	return ImpulseResponseSet{
		LeftToLeft:   []float32{1},
		LeftToRight:  []float32{0},
		RightToLeft:  []float32{0},
		RightToRight: []float32{1},
	}
}

// MirroredSet builds a symmetric set from the left speaker's ipsilateral
// and contralateral responses.
func MirroredSet(ipsilateral, contralateral []float32) ImpulseResponseSet {
	return ImpulseResponseSet{
		LeftToLeft:   ipsilateral,
		LeftToRight:  contralateral,
		RightToLeft:  contralateral,
		RightToRight: ipsilateral,
	}
}

// Path returns the response for one convolution path.
func (s ImpulseResponseSet) Path(p conv.Path) []float32 {
	switch p {
	case conv.Lsl:
		return s.LeftToLeft
	case conv.Lsr:
		return s.LeftToRight
	case conv.Rsl:
		return s.RightToLeft
	case conv.Rsr:
		return s.RightToRight
	default:
		return nil
	}
}

// MaxLen returns the length of the longest response.
func (s ImpulseResponseSet) MaxLen() int {
	n := 0
	for _, p := range conv.Paths {
		n = max(n, len(s.Path(p)))
	}
	return n
}

// Validate checks that every sample is finite.
func (s ImpulseResponseSet) Validate() error {
	for _, p := range conv.Paths {
		for i, v := range s.Path(p) {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return fmt.Errorf("%w: %s sample %d is %v", ErrInvalidImpulseResponse, p, i, v)
			}
		}
	}
	return nil
}

// Provider supplies impulse responses for a sample rate. Implementations
// may block and are only called from the loader goroutine.
type Provider interface {
	ImpulseResponses(sampleRate float64) (ImpulseResponseSet, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(sampleRate float64) (ImpulseResponseSet, error)

// ImpulseResponses calls f.
func (f ProviderFunc) ImpulseResponses(sampleRate float64) (ImpulseResponseSet, error) {
	return f(sampleRate)
}

// StaticProvider returns the same set for every sample rate.
type StaticProvider struct {
	Set ImpulseResponseSet
}

// ImpulseResponses returns p.Set.
func (p StaticProvider) ImpulseResponses(float64) (ImpulseResponseSet, error) {
	return p.Set, nil
}
