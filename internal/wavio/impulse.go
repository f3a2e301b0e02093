package wavio

import (
	"fmt"

	"github.com/cwbudde/headstage/dsp/core"
	"github.com/cwbudde/headstage/dsp/spatial"
)

// ReadImpulseResponses decodes an impulse response set. A 4-channel file
// holds Lsl, Lsr, Rsl and Rsr in that order. A 2-channel file holds the
// left speaker's ipsilateral and contralateral responses, mirrored for the
// right speaker. The file's sample rate is returned alongside the set.
func ReadImpulseResponses(path string) (spatial.ImpulseResponseSet, int, error) {
	d, err := Read(path)
	if err != nil {
		return spatial.ImpulseResponseSet{}, 0, err
	}

	var set spatial.ImpulseResponseSet
	switch len(d.Channels) {
	case 2:
		set = spatial.MirroredSet(d.Channels[0], d.Channels[1])
	case 4:
		set = spatial.ImpulseResponseSet{
			LeftToLeft:   d.Channels[0],
			LeftToRight:  d.Channels[1],
			RightToLeft:  d.Channels[2],
			RightToRight: d.Channels[3],
		}
	default:
		return spatial.ImpulseResponseSet{}, 0,
			fmt.Errorf("%w: impulse response file %s has %d channels, want 2 or 4", ErrChannelCount, path, len(d.Channels))
	}
	return set, d.SampleRate, nil
}

// IRFile provides impulse responses from a WAV file. The file is read on
// every request and must match the requested sample rate.
type IRFile struct {
	Path string
}

// ImpulseResponses implements spatial.Provider.
func (p IRFile) ImpulseResponses(sampleRate float64) (spatial.ImpulseResponseSet, error) {
	set, rate, err := ReadImpulseResponses(p.Path)
	if err != nil {
		return spatial.ImpulseResponseSet{}, err
	}
	if !core.NearlyEqual(float64(rate), sampleRate, 1e-9) {
		return spatial.ImpulseResponseSet{}, fmt.Errorf("%w: %s is %d Hz, processing at %g Hz", ErrSampleRate, p.Path, rate, sampleRate)
	}
	return set, nil
}
