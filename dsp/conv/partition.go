package conv

import algofft "github.com/MeKo-Christian/algo-fft"

// partitionedPath is the running state of one convolution path: the
// installed kernel, a ring of input spectra with one slot per partition and
// the overlap tail carried between blocks.
type partitionedPath struct {
	kernel *Kernel

	// history is a parts*fftSize arena; slot i is history[i*fftSize:(i+1)*fftSize].
	history []complex64
	cursor  int // slot written by the next block
	tail    []float32
}

// install replaces the kernel and clears history and tail. history must
// hold kernel.Partitions()*fftSize zeroed bins; it is allocated if nil.
func (p *partitionedPath) install(k *Kernel, history []complex64) {
	if history == nil {
		history = make([]complex64, k.Partitions()*k.fftSize)
	}
	if p.tail == nil {
		p.tail = make([]float32, k.blockSize)
	}

	p.kernel = k
	p.history = history
	p.cursor = 0
	clear(p.tail)
}

// reset clears history and tail, keeping the kernel.
func (p *partitionedPath) reset() {
	clear(p.history)
	clear(p.tail)
	p.cursor = 0
}

// process convolves one block whose spectrum is spec and writes blockSize
// samples to out. acc is fftSize scratch.
func (p *partitionedPath) process(plan *algofft.Plan[complex64], spec, acc []complex64, out []float32) error {
	k := p.kernel
	n := len(k.spectra)
	fftSize := k.fftSize
	blockSize := k.blockSize

	copy(p.history[p.cursor*fftSize:(p.cursor+1)*fftSize], spec)

	clear(acc)
	for i, ir := range k.spectra {
		slot := p.cursor - i
		if slot < 0 {
			slot += n
		}
		hist := p.history[slot*fftSize : (slot+1)*fftSize]
		for j := range acc {
			acc[j] += ir[j] * hist[j]
		}
	}

	// The inverse transform is normalized by 1/fftSize.
	if err := plan.Inverse(acc, acc); err != nil {
		return err
	}

	for i := range blockSize {
		out[i] = real(acc[i]) + p.tail[i]
		p.tail[i] = real(acc[i+blockSize])
	}

	p.cursor++
	if p.cursor == n {
		p.cursor = 0
	}
	return nil
}
