package biquad

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"
)

// Response computes the complex frequency response H(e^jw) of a biquad
// at the given frequency (Hz) and sample rate (Hz).
func (c Coefficients) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	ejw := cmplx.Exp(complex(0, -w))
	ej2w := cmplx.Exp(complex(0, -2*w))

	num := complex(c.B0, 0) + complex(c.B1, 0)*ejw + complex(c.B2, 0)*ej2w
	den := complex(1, 0) + complex(c.A1, 0)*ejw + complex(c.A2, 0)*ej2w
	return num / den
}

// MagnitudeSquared returns |H(f)|^2 using a closed-form expression.
func (c Coefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*freqHz/sampleRate)
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw
	return num / den
}

// MagnitudeDB returns 10*log10(|H(f)|^2).
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freqHz, sampleRate))
}

// Phase returns the phase response in radians at the given frequency.
// The result is in [-pi, pi].
func (c Coefficients) Phase(freqHz, sampleRate float64) float64 {
	return cmplx.Phase(c.Response(freqHz, sampleRate))
}

// Response returns the frequency response of the effective coefficients.
// A bypassed setting has a flat unity response.
func (s Setting) Response(freqHz, sampleRate float64) complex128 {
	if !s.active {
		return 1
	}
	return s.coeffs.Response(freqHz, sampleRate)
}

// CascadeResponse returns the product of the responses of all active settings.
func CascadeResponse(settings []Setting, freqHz, sampleRate float64) complex128 {
	h := complex(1, 0)
	for _, s := range settings {
		if s.active {
			h *= s.coeffs.Response(freqHz, sampleRate)
		}
	}
	return h
}

// CascadeMagnitude writes |H(f)| of the cascade for every frequency in freqs
// into dst. dst and freqs must have the same length.
func CascadeMagnitude(dst []float64, settings []Setting, freqs []float64, sampleRate float64) {
	if len(dst) != len(freqs) {
		panic("biquad: CascadeMagnitude length mismatch")
	}

	re := make([]float64, len(freqs))
	im := make([]float64, len(freqs))
	for i, f := range freqs {
		h := CascadeResponse(settings, f, sampleRate)
		re[i] = real(h)
		im[i] = imag(h)
	}

	vecmath.Magnitude(dst, re, im)
}

// ImpulseResponse computes n samples of the impulse response h[n]
// by feeding an impulse through the section. The filter state is
// saved and restored so this method does not modify the section.
func (s *Section) ImpulseResponse(n int) []float32 {
	if n <= 0 {
		return nil
	}
	saved := s.State()
	s.Reset()
	ir := make([]float32, n)
	ir[0] = s.ProcessSample(1)
	for i := 1; i < n; i++ {
		ir[i] = s.ProcessSample(0)
	}
	s.SetState(saved)
	return ir
}
