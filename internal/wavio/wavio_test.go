package wavio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/headstage/dsp/conv"
	"github.com/cwbudde/headstage/dsp/spatial"
)

// writeChannels encodes an arbitrary number of channels for test input.
func writeChannels(t *testing.T, path string, sampleRate, bitDepth int, channels [][]float32) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	frames := len(channels[0])
	interleaved := make([]float32, frames*len(channels))
	for i := range frames {
		for ch := range channels {
			interleaved[i*len(channels)+ch] = channels[ch][i]
		}
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, len(channels), formatPCM)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: len(channels)},
		Data:           quantize(interleaved, bitDepth, writeConfig{}),
		SourceBitDepth: bitDepth,
	}))
	require.NoError(t, enc.Close())
}

func TestWriteReadStereo(t *testing.T) {
	for _, bitDepth := range []int{16, 24, 32} {
		path := filepath.Join(t.TempDir(), "stereo.wav")
		in := &Stereo{
			SampleRate: 44100,
			BitDepth:   bitDepth,
			Left:       []float32{0, 0.5, -0.5, 0.25, 1, -1},
			Right:      []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3},
		}
		require.NoError(t, WriteStereo(path, in))

		out, err := ReadStereo(path)
		require.NoError(t, err)
		assert.Equal(t, 44100, out.SampleRate)
		assert.Equal(t, bitDepth, out.BitDepth)
		assert.Equal(t, in.Frames(), out.Frames())

		tol := 1.0 / fullScale(bitDepth)
		assert.InDeltaSlice(t, in.Left, out.Left, tol, "%d-bit left", bitDepth)
		assert.InDeltaSlice(t, in.Right, out.Right, tol, "%d-bit right", bitDepth)
	}
}

func TestWriteStereoDefaultsAndClipping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, WriteStereo(path, &Stereo{
		SampleRate: 48000,
		Left:       []float32{1.5, -2},
		Right:      []float32{0, 0},
	}))

	out, err := ReadStereo(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultBitDepth, out.BitDepth)
	assert.Equal(t, []float32{1, -1}, out.Left)
}

func TestWriteStereoErrors(t *testing.T) {
	dir := t.TempDir()

	err := WriteStereo(filepath.Join(dir, "a.wav"), &Stereo{SampleRate: 48000, Left: []float32{0}, Right: nil})
	require.Error(t, err)

	err = WriteStereo(filepath.Join(dir, "b.wav"), &Stereo{SampleRate: 48000, BitDepth: 12, Left: []float32{0}, Right: []float32{0}})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadStereoMono(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	writeChannels(t, path, 48000, 16, [][]float32{{0.5, -0.25}})

	s, err := ReadStereo(path)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.5, -0.25}, s.Left, 1e-4)
	assert.Equal(t, s.Left, s.Right)

	s.Right[0] = 0
	assert.NotEqual(t, s.Left[0], s.Right[0], "mono channels must not share storage")
}

func TestReadStereoRejectsMultichannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "three.wav")
	writeChannels(t, path, 48000, 16, [][]float32{{0}, {0}, {0}})

	_, err := ReadStereo(path)
	require.ErrorIs(t, err, ErrChannelCount)
}

func TestReadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a riff file"), 0o600))

	_, err := Read(path)
	require.ErrorIs(t, err, ErrInvalidFile)

	_, err = Read(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
}

func TestReadImpulseResponsesFourChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ir4.wav")
	writeChannels(t, path, 48000, 24, [][]float32{
		{1, 0, 0},
		{0, 0.5, 0},
		{0, 0.25, 0},
		{0.75, 0, 0},
	})

	set, rate, err := ReadImpulseResponses(path)
	require.NoError(t, err)
	assert.Equal(t, 48000, rate)

	want := map[conv.Path][]float32{
		conv.Lsl: {1, 0, 0},
		conv.Lsr: {0, 0.5, 0},
		conv.Rsl: {0, 0.25, 0},
		conv.Rsr: {0.75, 0, 0},
	}
	for p, w := range want {
		assert.InDeltaSlice(t, w, set.Path(p), 1e-6, "path %s", p)
	}
}

func TestReadImpulseResponsesMirrored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ir2.wav")
	writeChannels(t, path, 44100, 16, [][]float32{
		{0.9, 0.1},
		{0, 0.4},
	})

	set, rate, err := ReadImpulseResponses(path)
	require.NoError(t, err)
	assert.Equal(t, 44100, rate)
	assert.Equal(t, set.LeftToLeft, set.RightToRight)
	assert.Equal(t, set.LeftToRight, set.RightToLeft)
	assert.InDeltaSlice(t, []float32{0, 0.4}, set.LeftToRight, 1e-4)
}

func TestReadImpulseResponsesRejectsMono(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ir1.wav")
	writeChannels(t, path, 48000, 16, [][]float32{{1}})

	_, _, err := ReadImpulseResponses(path)
	require.ErrorIs(t, err, ErrChannelCount)
}

func TestIRFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ir.wav")
	writeChannels(t, path, 48000, 16, [][]float32{{1, 0}, {0, 0.5}})

	var p spatial.Provider = IRFile{Path: path}

	set, err := p.ImpulseResponses(48000)
	require.NoError(t, err)
	assert.Len(t, set.LeftToLeft, 2)

	_, err = p.ImpulseResponses(44100)
	require.ErrorIs(t, err, ErrSampleRate)
}

func TestWriteStereoDither(t *testing.T) {
	dir := t.TempDir()
	silence := &Stereo{SampleRate: 48000, Left: make([]float32, 4096), Right: make([]float32, 4096)}

	pathA := filepath.Join(dir, "a.wav")
	pathB := filepath.Join(dir, "b.wav")
	require.NoError(t, WriteStereo(pathA, silence, WithDither(7)))
	require.NoError(t, WriteStereo(pathB, silence, WithDither(7)))

	a, err := ReadStereo(pathA)
	require.NoError(t, err)
	b, err := ReadStereo(pathB)
	require.NoError(t, err)
	assert.Equal(t, a.Left, b.Left, "same seed must give the same noise")

	lsb := float32(1 / fullScale(16))
	nonZero := 0
	for _, v := range a.Left {
		require.LessOrEqual(t, v, lsb)
		require.GreaterOrEqual(t, v, -lsb)
		if v != 0 {
			nonZero++
		}
	}
	assert.Positive(t, nonZero)
}
