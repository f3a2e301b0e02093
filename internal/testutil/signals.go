// Package testutil provides deterministic float32 test signals and tolerance
// assertions shared by the package tests.
package testutil

import (
	"math"
	"math/rand/v2"
)

// DeterministicSine32 generates a deterministic sine wave.
func DeterministicSine32(freqHz, sampleRate, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = float32(amplitude * math.Sin(step*float64(i)))
	}
	return out
}

// DeterministicNoise32 generates white noise in [-amplitude, amplitude) with
// a fixed seed for reproducibility.
func DeterministicNoise32(seed uint64, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	rng := rand.New(rand.NewPCG(seed, 0))
	for i := range out {
		out[i] = float32((rng.Float64()*2 - 1) * amplitude)
	}
	return out
}

// Impulse32 generates a unit impulse at the given position.
func Impulse32(length, pos int) []float32 {
	out := make([]float32, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Delta32 returns an impulse response of k zeros followed by gain.
func Delta32(k int, gain float32) []float32 {
	out := make([]float32, k+1)
	out[k] = gain
	return out
}

// DirectConvolve32 computes the full linear convolution of signal and kernel
// in float64 and returns it as float32.
func DirectConvolve32(signal, kernel []float32) []float32 {
	if len(signal) == 0 || len(kernel) == 0 {
		return nil
	}
	out := make([]float32, len(signal)+len(kernel)-1)
	for n := range out {
		var acc float64
		for k, h := range kernel {
			if i := n - k; i >= 0 && i < len(signal) {
				acc += float64(h) * float64(signal[i])
			}
		}
		out[n] = float32(acc)
	}
	return out
}
