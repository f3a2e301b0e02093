package core

import "testing"

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(96000), WithBlockSize(256))
	if cfg.SampleRate != 96000 {
		t.Fatalf("sample rate = %v, want 96000", cfg.SampleRate)
	}
	if cfg.BlockSize != 256 {
		t.Fatalf("block size = %d, want 256", cfg.BlockSize)
	}
	if cfg.FFTSize() != 512 {
		t.Fatalf("fft size = %d, want 512", cfg.FFTSize())
	}
}

func TestInvalidOptionsIgnored(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(0), WithBlockSize(-1), nil)
	def := DefaultProcessorConfig()
	if cfg != def {
		t.Fatalf("cfg = %#v, want %#v", cfg, def)
	}
}

func TestDefaultProcessorConfig(t *testing.T) {
	def := DefaultProcessorConfig()
	if def.BlockSize != 512 || def.FFTSize() != 1024 {
		t.Fatalf("default block/fft = %d/%d, want 512/1024", def.BlockSize, def.FFTSize())
	}
}
