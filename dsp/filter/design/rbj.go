package design

import (
	"math"

	"github.com/cwbudde/headstage/dsp/core"
	"github.com/cwbudde/headstage/dsp/filter/biquad"
)

const (
	// MinQ is the smallest quality factor a designer will use.
	MinQ = 0.01

	// MinFrequency is the lowest corner frequency in Hz.
	MinFrequency = 1.0

	// a0 magnitudes below this are treated as 1.
	minA0 = 1e-8
)

// Peak designs a peaking EQ biquad at freq (Hz) with gainDB boost or cut.
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	p, ok := prepare(freq, q, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	a := gainFactor(gainDB)
	b0 := 1 + p.alpha*a
	b1 := -2 * p.cw
	b2 := 1 - p.alpha*a
	a0 := 1 + p.alpha/a
	a1 := -2 * p.cw
	a2 := 1 - p.alpha/a

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// LowShelf designs a low-shelf biquad with corner freq (Hz) and gainDB.
func LowShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	p, ok := prepare(freq, q, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	a := gainFactor(gainDB)
	beta := 2 * math.Sqrt(a) * p.alpha
	b0 := a * ((a + 1) - (a-1)*p.cw + beta)
	b1 := 2 * a * ((a - 1) - (a+1)*p.cw)
	b2 := a * ((a + 1) - (a-1)*p.cw - beta)
	a0 := (a + 1) + (a-1)*p.cw + beta
	a1 := -2 * ((a - 1) + (a+1)*p.cw)
	a2 := (a + 1) + (a-1)*p.cw - beta

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// HighShelf designs a high-shelf biquad with corner freq (Hz) and gainDB.
func HighShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	p, ok := prepare(freq, q, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	a := gainFactor(gainDB)
	beta := 2 * math.Sqrt(a) * p.alpha
	b0 := a * ((a + 1) + (a-1)*p.cw + beta)
	b1 := -2 * a * ((a - 1) + (a+1)*p.cw)
	b2 := a * ((a + 1) + (a-1)*p.cw - beta)
	a0 := (a + 1) - (a-1)*p.cw + beta
	a1 := 2 * ((a - 1) - (a+1)*p.cw)
	a2 := (a + 1) - (a-1)*p.cw - beta

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// Lowpass designs a lowpass biquad at freq (Hz) with quality factor q.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	p, ok := prepare(freq, q, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	b1 := 1 - p.cw
	return normalizeBiquad(b1/2, b1, b1/2, 1+p.alpha, -2*p.cw, 1-p.alpha)
}

// Highpass designs a highpass biquad at freq (Hz) with quality factor q.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	p, ok := prepare(freq, q, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	b0 := (1 + p.cw) / 2
	return normalizeBiquad(b0, -(1 + p.cw), b0, 1+p.alpha, -2*p.cw, 1-p.alpha)
}

// Bandpass designs a bandpass biquad with 0 dB gain at freq (Hz).
func Bandpass(freq, q, sampleRate float64) biquad.Coefficients {
	p, ok := prepare(freq, q, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	return normalizeBiquad(p.alpha, 0, -p.alpha, 1+p.alpha, -2*p.cw, 1-p.alpha)
}

// Notch designs a notch biquad centered at freq (Hz).
func Notch(freq, q, sampleRate float64) biquad.Coefficients {
	p, ok := prepare(freq, q, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	return normalizeBiquad(1, -2*p.cw, 1, 1+p.alpha, -2*p.cw, 1-p.alpha)
}

// Allpass designs a second-order allpass biquad centered at freq (Hz).
func Allpass(freq, q, sampleRate float64) biquad.Coefficients {
	p, ok := prepare(freq, q, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	return normalizeBiquad(1-p.alpha, -2*p.cw, 1+p.alpha, 1+p.alpha, -2*p.cw, 1-p.alpha)
}

// ClampFrequency limits freq to [MinFrequency, sampleRate/2 - 1].
func ClampFrequency(freq, sampleRate float64) float64 {
	if math.IsNaN(freq) {
		return MinFrequency
	}
	return core.Clamp(freq, MinFrequency, sampleRate/2-1)
}

// ClampQ limits q to at least MinQ.
func ClampQ(q float64) float64 {
	if math.IsNaN(q) || q < MinQ {
		return MinQ
	}
	return q
}

type rbjParams struct {
	cw    float64
	alpha float64
}

func prepare(freq, q, sampleRate float64) (rbjParams, bool) {
	// Below 4 Hz the clamp range [1, fs/2-1] is empty.
	if !(sampleRate >= 4) || math.IsInf(sampleRate, 0) {
		return rbjParams{}, false
	}

	w0 := 2 * math.Pi * ClampFrequency(freq, sampleRate) / sampleRate
	return rbjParams{
		cw:    math.Cos(w0),
		alpha: math.Sin(w0) / (2 * ClampQ(q)),
	}, true
}

// gainFactor returns the cookbook amplitude A = 10^(gainDB/40).
func gainFactor(gainDB float64) float64 {
	if math.IsNaN(gainDB) || math.IsInf(gainDB, 0) {
		gainDB = 0
	}
	return math.Pow(10, gainDB/40)
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if math.Abs(a0) < minA0 {
		a0 = 1
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
