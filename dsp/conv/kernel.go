package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Kernel holds the partition spectra of one impulse response. A Kernel is
// immutable once built and may be installed on any number of paths and
// engines that share its block size.
type Kernel struct {
	blockSize int
	fftSize   int
	length    int

	// spectra[i] is the FFT of impulse response samples
	// [i*blockSize, (i+1)*blockSize), zero-padded to fftSize.
	spectra [][]complex64
}

// Partitions returns the number of partitions.
func (k *Kernel) Partitions() int {
	return len(k.spectra)
}

// BlockSize returns the partition length in samples.
func (k *Kernel) BlockSize() int {
	return k.blockSize
}

// Len returns the length of the impulse response the kernel was built from.
func (k *Kernel) Len() int {
	return k.length
}

// KernelBuilder turns impulse responses into kernels. A builder owns its FFT
// plan and must not be used from several goroutines at once.
type KernelBuilder struct {
	blockSize int
	fftSize   int
	plan      *algofft.Plan[complex64]
}

// NewKernelBuilder returns a builder for blockSize-sample partitions.
func NewKernelBuilder(blockSize int) (*KernelBuilder, error) {
	if err := validateBlockSize(blockSize); err != nil {
		return nil, err
	}

	plan, err := algofft.NewPlan32(2 * blockSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	return &KernelBuilder{
		blockSize: blockSize,
		fftSize:   2 * blockSize,
		plan:      plan,
	}, nil
}

// BlockSize returns the partition length in samples.
func (b *KernelBuilder) BlockSize() int {
	return b.blockSize
}

// Build partitions ir into ceil(len(ir)/BlockSize) spectra. An empty ir
// yields a single silent partition.
func (b *KernelBuilder) Build(ir []float32) (*Kernel, error) {
	parts := partitionCount(len(ir), b.blockSize)
	arena := make([]complex64, parts*b.fftSize)

	k := &Kernel{
		blockSize: b.blockSize,
		fftSize:   b.fftSize,
		length:    len(ir),
		spectra:   make([][]complex64, parts),
	}

	for p := range parts {
		spec := arena[p*b.fftSize : (p+1)*b.fftSize]
		k.spectra[p] = spec

		start := p * b.blockSize
		if start >= len(ir) {
			continue
		}
		end := min(start+b.blockSize, len(ir))
		for i, v := range ir[start:end] {
			spec[i] = complex(v, 0)
		}

		if err := b.plan.Forward(spec, spec); err != nil {
			return nil, fmt.Errorf("conv: partition %d FFT failed: %w", p, err)
		}
	}

	return k, nil
}

// Silent returns a single-partition kernel that mutes its path.
func (b *KernelBuilder) Silent() *Kernel {
	return &Kernel{
		blockSize: b.blockSize,
		fftSize:   b.fftSize,
		spectra:   [][]complex64{make([]complex64, b.fftSize)},
	}
}
