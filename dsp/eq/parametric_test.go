package eq

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/headstage/dsp/filter/design"
	"github.com/cwbudde/headstage/internal/testutil"
)

func TestNewStereoParametricEQ(t *testing.T) {
	e := NewStereoParametricEQ(10, sampleRate)
	assert.Equal(t, 10, e.NumBands())
	assert.Equal(t, sampleRate, e.SampleRate())
	for i := range 10 {
		assert.False(t, e.Band(Left, i).Enabled())
		assert.False(t, e.Band(Right, i).Enabled())
	}
	assert.Nil(t, e.Band(Left, 10))
	assert.Nil(t, e.Band(Channel(7), 0))
	assert.Equal(t, 0, NewStereoParametricEQ(-3, sampleRate).NumBands())
}

func TestStereoParametricEQ_AllDisabledPassthrough(t *testing.T) {
	e := NewStereoParametricEQ(4, sampleRate)
	left := testutil.DeterministicNoise32(1, 0.5, 256)
	right := testutil.DeterministicSine32(440, sampleRate, 0.8, 256)
	wantL := append([]float32(nil), left...)
	wantR := append([]float32(nil), right...)

	require.NoError(t, e.ProcessBlock(left, right))
	assert.Equal(t, wantL, left)
	assert.Equal(t, wantR, right)
}

func TestStereoParametricEQ_UpdateBandCoeffsBothChannels(t *testing.T) {
	e := NewStereoParametricEQ(3, sampleRate)
	cfg := BandConfig{Type: Peak, Frequency: 2500, Q: 2, GainDB: 4, Enabled: true}
	e.UpdateBandCoeffs(1, sampleRate, cfg)

	assert.Equal(t, cfg, e.Band(Left, 1).Config())
	assert.Equal(t, cfg, e.Band(Right, 1).Config())
	assert.Equal(t, e.Band(Left, 1).Coefficients(), e.Band(Right, 1).Coefficients())
	assert.False(t, e.Band(Left, 0).Enabled())
}

func TestStereoParametricEQ_OutOfRangeIgnored(t *testing.T) {
	e := NewStereoParametricEQ(2, sampleRate)
	cfg := BandConfig{Type: Peak, Frequency: 100, Q: 1, GainDB: 6, Enabled: true}

	assert.NotPanics(t, func() {
		e.UpdateBandCoeffs(2, sampleRate, cfg)
		e.UpdateBandCoeffs(-1, sampleRate, cfg)
		e.UpdateChannelBandCoeffs(Left, 5, sampleRate, cfg)
		e.UpdateChannelBandCoeffs(Channel(3), 0, sampleRate, cfg)
	})
	for i := range 2 {
		assert.False(t, e.Band(Left, i).Enabled())
		assert.False(t, e.Band(Right, i).Enabled())
	}
}

func TestStereoParametricEQ_SeriesCascadeOrder(t *testing.T) {
	cfgs := []BandConfig{
		{Type: LowShelf, Frequency: 120, Q: 0.7, GainDB: 5, Enabled: true},
		{Type: Peak, Frequency: 3000, Q: 3, GainDB: -7, Enabled: true},
		{Type: HighShelf, Frequency: 9000, Q: 0.7, GainDB: 2, Enabled: false},
		{Type: HighPass, Frequency: 30, Q: 0.7, Enabled: true},
	}
	e := NewStereoParametricEQ(len(cfgs), sampleRate)
	bands := make([]*BiquadFilter, len(cfgs))
	for i, cfg := range cfgs {
		e.UpdateBandCoeffs(i, sampleRate, cfg)
		bands[i] = NewBiquadFilter(sampleRate)
		bands[i].Configure(sampleRate, cfg)
	}

	input := testutil.DeterministicNoise32(5, 1, 512)
	want := make([]float32, len(input))
	for n, x := range input {
		y := x
		for _, b := range bands {
			y = b.ProcessSample(y)
		}
		want[n] = y
	}

	left := append([]float32(nil), input...)
	right := append([]float32(nil), input...)
	require.NoError(t, e.ProcessBlock(left[:200], right[:200]))
	require.NoError(t, e.ProcessBlock(left[200:], right[200:]))

	assert.Equal(t, want, left)
	assert.Equal(t, want, right)
}

func TestStereoParametricEQ_ChannelIndependence(t *testing.T) {
	e := NewStereoParametricEQ(1, sampleRate)
	e.UpdateChannelBandCoeffs(Left, 0, sampleRate, BandConfig{Type: Peak, Frequency: 1000, Q: 1, GainDB: 12, Enabled: true})
	e.UpdateChannelBandCoeffs(Right, 0, sampleRate, BandConfig{Type: Peak, Frequency: 1000, Q: 1, GainDB: -12, Enabled: true})

	mono := testutil.DeterministicSine32(1000, sampleRate, 0.25, 1024)
	left := append([]float32(nil), mono...)
	right := append([]float32(nil), mono...)
	require.NoError(t, e.ProcessBlock(left, right))
	assert.NotEqual(t, left, right)

	// Each channel matches a standalone band fed the same mono signal.
	for _, tc := range []struct {
		gain float64
		got  []float32
	}{{12, left}, {-12, right}} {
		b := NewBiquadFilter(sampleRate)
		b.Configure(sampleRate, BandConfig{Type: Peak, Frequency: 1000, Q: 1, GainDB: tc.gain, Enabled: true})
		want := append([]float32(nil), mono...)
		b.ProcessBlock(want)
		assert.Equal(t, want, tc.got)
	}

	// Silence on the right leaves the left state untouched.
	e.ResetAllBandsState()
	l1 := append([]float32(nil), mono[:64]...)
	r1 := make([]float32, 64)
	require.NoError(t, e.ProcessBlock(l1, r1))
	e.ResetAllBandsState()
	l2 := append([]float32(nil), mono[:64]...)
	r2 := testutil.DeterministicNoise32(11, 1, 64)
	require.NoError(t, e.ProcessBlock(l2, r2))
	assert.Equal(t, l1, l2)
}

func TestStereoParametricEQ_LengthMismatch(t *testing.T) {
	e := NewStereoParametricEQ(1, sampleRate)
	err := e.ProcessBlock(make([]float32, 4), make([]float32, 5))
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestStereoParametricEQ_ResetAllBandsState(t *testing.T) {
	e := NewStereoParametricEQ(2, sampleRate)
	e.UpdateBandCoeffs(0, sampleRate, BandConfig{Type: Peak, Frequency: 700, Q: 1, GainDB: 6, Enabled: true})
	e.UpdateBandCoeffs(1, sampleRate, BandConfig{Type: LowPass, Frequency: 5000, Q: 0.7, Enabled: true})

	l := testutil.DeterministicNoise32(3, 1, 128)
	r := testutil.DeterministicNoise32(4, 1, 128)
	require.NoError(t, e.ProcessBlock(l, r))
	e.ResetAllBandsState()

	for i := range 2 {
		assert.Equal(t, [2]float32{}, e.Band(Left, i).State())
		assert.Equal(t, [2]float32{}, e.Band(Right, i).State())
	}
}

func TestStereoParametricEQ_SetSampleRate(t *testing.T) {
	e := NewStereoParametricEQ(1, 44100)
	cfg := BandConfig{Type: Peak, Frequency: 1000, Q: 1, GainDB: 6, Enabled: true}
	e.UpdateBandCoeffs(0, 44100, cfg)
	_ = e.ProcessBlock([]float32{1}, []float32{1})

	e.SetSampleRate(96000)
	assert.Equal(t, 96000.0, e.SampleRate())
	assert.Equal(t, design.Peak(1000, 6, 1, 96000), e.Band(Right, 0).Coefficients())
	assert.Equal(t, [2]float32{}, e.Band(Left, 0).State())
}

func TestStereoParametricEQ_FrequencyResponse(t *testing.T) {
	e := NewStereoParametricEQ(3, sampleRate)
	e.UpdateBandCoeffs(0, sampleRate, BandConfig{Type: Peak, Frequency: 1000, Q: 1, GainDB: 6, Enabled: true})
	e.UpdateBandCoeffs(1, sampleRate, BandConfig{Type: HighShelf, Frequency: 8000, Q: 0.7, GainDB: -4, Enabled: true})
	e.UpdateBandCoeffs(2, sampleRate, BandConfig{Type: Peak, Frequency: 100, Q: 1, GainDB: 20, Enabled: false})

	freqs := []float64{20, 100, 1000, 8000, 20000}
	resp := e.FrequencyResponse(sampleRate, freqs)
	require.Len(t, resp, len(freqs))

	peak := design.Peak(1000, 6, 1, sampleRate)
	shelf := design.HighShelf(8000, -4, 0.7, sampleRate)
	for i, f := range freqs {
		want := cmplx.Abs(peak.Response(f, sampleRate) * shelf.Response(f, sampleRate))
		assert.InDelta(t, want, resp[i], 1e-12, "freq %v", f)
	}
	assert.InDelta(t, math.Pow(10, 6.0/20), resp[2], 0.05)

	empty := NewStereoParametricEQ(2, sampleRate).FrequencyResponse(sampleRate, freqs)
	for _, v := range empty {
		assert.InDelta(t, 1.0, v, 1e-12)
	}
}
