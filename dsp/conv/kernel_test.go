package conv

import (
	"errors"
	"testing"
)

func TestKernelBuilderRejectsInvalidBlockSize(t *testing.T) {
	if _, err := NewKernelBuilder(12); !errors.Is(err, ErrInvalidBlockSize) {
		t.Fatalf("error = %v, want ErrInvalidBlockSize", err)
	}
}

func TestKernelBuild(t *testing.T) {
	builder, err := NewKernelBuilder(4)
	if err != nil {
		t.Fatal(err)
	}

	k, err := builder.Build([]float32{1, 0, 0, 0, 2})
	if err != nil {
		t.Fatal(err)
	}
	if k.Partitions() != 2 || k.BlockSize() != 4 || k.Len() != 5 {
		t.Fatalf("kernel = %d partitions, block %d, len %d", k.Partitions(), k.BlockSize(), k.Len())
	}

	// A unit impulse has a flat spectrum; the second partition holds 2 at
	// offset zero.
	for i, v := range k.spectra[0] {
		if real(v) < 0.999 || real(v) > 1.001 || imag(v) > 1e-6 || imag(v) < -1e-6 {
			t.Fatalf("partition 0 bin %d = %v, want 1", i, v)
		}
	}
	for i, v := range k.spectra[1] {
		if real(v) < 1.999 || real(v) > 2.001 {
			t.Fatalf("partition 1 bin %d = %v, want 2", i, v)
		}
	}
}

func TestKernelBuildEmpty(t *testing.T) {
	builder, err := NewKernelBuilder(8)
	if err != nil {
		t.Fatal(err)
	}

	k, err := builder.Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	if k.Partitions() != 1 {
		t.Fatalf("Partitions() = %d, want 1", k.Partitions())
	}
	for _, v := range k.spectra[0] {
		if v != 0 {
			t.Fatalf("empty kernel has non-zero bin %v", v)
		}
	}
	if got := builder.Silent().Partitions(); got != 1 {
		t.Fatalf("Silent().Partitions() = %d", got)
	}
}

func TestPathNames(t *testing.T) {
	for _, p := range Paths {
		parsed, err := ParsePath(p.String())
		if err != nil || parsed != p {
			t.Fatalf("ParsePath(%q) = %v, %v", p.String(), parsed, err)
		}
	}

	if p, err := ParsePath(" rsl "); err != nil || p != Rsl {
		t.Fatalf("ParsePath(rsl) = %v, %v", p, err)
	}
	if _, err := ParsePath("center"); !errors.Is(err, ErrUnknownPath) {
		t.Fatalf("error = %v, want ErrUnknownPath", err)
	}
	if got := Path(5).String(); got != "Path(5)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestPathRoutes(t *testing.T) {
	tests := []struct {
		path     Path
		fromLeft bool
		toLeft   bool
	}{
		{Lsl, true, true},
		{Lsr, true, false},
		{Rsl, false, true},
		{Rsr, false, false},
	}

	for _, tt := range tests {
		if tt.path.FromLeft() != tt.fromLeft || tt.path.ToLeft() != tt.toLeft {
			t.Errorf("%s: FromLeft=%v ToLeft=%v", tt.path, tt.path.FromLeft(), tt.path.ToLeft())
		}
	}
}
