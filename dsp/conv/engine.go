package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/headstage/dsp/buffer"
	"github.com/cwbudde/headstage/dsp/core"
	"github.com/tphakala/simd/f32"
)

// Engine is the four-path stereo convolution engine. ProcessBlock, SetIR,
// Install and Reset must be called from one goroutine; only [Exchange] may be
// used concurrently.
type Engine struct {
	cfg       core.ProcessorConfig
	blockSize int
	fftSize   int

	plan     *algofft.Plan[complex64]
	builder  *KernelBuilder
	exchange *Exchange

	paths [NumPaths]partitionedPath

	inL, inR   *buffer.Queue
	outL, outR *buffer.Queue

	// Per-block scratch.
	blockL, blockR []float32
	specL, specR   []complex64
	acc            []complex64
	pathOut        [NumPaths][]float32
	mixL, mixR     []float32

	latency int // silent samples inserted since Reset
	silence int // inserted samples not yet emitted
}

// New creates an engine with a silent single-partition kernel on every path.
// The block size comes from [core.WithBlockSize] and must be a power of two.
func New(opts ...core.ProcessorOption) (*Engine, error) {
	cfg := core.ApplyProcessorOptions(opts...)
	if err := validateBlockSize(cfg.BlockSize); err != nil {
		return nil, err
	}

	builder, err := NewKernelBuilder(cfg.BlockSize)
	if err != nil {
		return nil, err
	}

	plan, err := algofft.NewPlan32(cfg.FFTSize())
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	b := cfg.BlockSize
	e := &Engine{
		cfg:       cfg,
		blockSize: b,
		fftSize:   cfg.FFTSize(),
		plan:      plan,
		builder:   builder,
		exchange:  newExchange(b),
		inL:       buffer.NewQueue(2 * b),
		inR:       buffer.NewQueue(2 * b),
		outL:      buffer.NewQueue(2 * b),
		outR:      buffer.NewQueue(2 * b),
		blockL:    make([]float32, b),
		blockR:    make([]float32, b),
		specL:     make([]complex64, 2*b),
		specR:     make([]complex64, 2*b),
		acc:       make([]complex64, 2*b),
		mixL:      make([]float32, b),
		mixR:      make([]float32, b),
	}

	silent := builder.Silent()
	for p := range e.paths {
		e.pathOut[p] = make([]float32, b)
		e.paths[p].install(silent, nil)
	}

	return e, nil
}

// BlockSize returns the internal partition length.
func (e *Engine) BlockSize() int {
	return e.blockSize
}

// FFTSize returns the transform length, twice the block size.
func (e *Engine) FFTSize() int {
	return e.fftSize
}

// Config returns the processor configuration the engine was built with.
func (e *Engine) Config() core.ProcessorConfig {
	return e.cfg
}

// PartitionCount returns the number of partitions installed on path, or 0
// for an unknown path.
func (e *Engine) PartitionCount(path Path) int {
	if !path.Valid() {
		return 0
	}
	return e.paths[path].kernel.Partitions()
}

// Kernel returns the kernel installed on path, or nil for an unknown path.
func (e *Engine) Kernel(path Path) *Kernel {
	if !path.Valid() {
		return nil
	}
	return e.paths[path].kernel
}

// Latency returns the number of leading silent samples inserted since the
// last Reset because output was not yet available. Output equals the
// convolved input delayed by Latency samples.
func (e *Engine) Latency() int {
	return e.latency
}

// Exchange returns the mailbox for handing kernels in from other goroutines.
func (e *Engine) Exchange() *Exchange {
	return e.exchange
}

// NewKernelBuilder returns a builder matching the engine's block size for use
// on another goroutine.
func (e *Engine) NewKernelBuilder() (*KernelBuilder, error) {
	return NewKernelBuilder(e.blockSize)
}

// SetIR partitions ir and installs it on path. It allocates and must not be
// called on the audio thread.
func (e *Engine) SetIR(path Path, ir []float32) error {
	if !path.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownPath, int(path))
	}

	k, err := e.builder.Build(ir)
	if err != nil {
		return err
	}

	e.paths[path].install(k, nil)
	return nil
}

// Install puts a prebuilt kernel on path, clearing its history and tail.
func (e *Engine) Install(path Path, k *Kernel) error {
	if !path.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownPath, int(path))
	}
	if k == nil {
		k = e.builder.Silent()
	}
	if k.blockSize != e.blockSize {
		return fmt.Errorf("%w: kernel %d, engine %d", ErrBlockSizeMismatch, k.blockSize, e.blockSize)
	}

	e.paths[path].install(k, nil)
	return nil
}

// Reserve sizes the sample queues for host blocks of up to maxHostBlock
// samples so that ProcessBlock does not allocate. Queues are sized for
// 2*BlockSize by New; call Reserve before processing when the host may
// deliver larger blocks.
func (e *Engine) Reserve(maxHostBlock int) {
	n := queueCapacity(maxHostBlock, e.blockSize)
	e.inL.Reserve(n)
	e.inR.Reserve(n)
	e.outL.Reserve(n)
	e.outR.Reserve(n)
}

// queueCapacity bounds the samples a queue holds across one host block of n
// samples: the carried remainder, the host block and one internal block.
func queueCapacity(n, blockSize int) int {
	return max(n, 0) + 2*blockSize
}

// Reset clears all queues, histories and overlap tails. Installed kernels
// are kept.
func (e *Engine) Reset() {
	for p := range e.paths {
		e.paths[p].reset()
	}
	e.inL.Reset()
	e.inR.Reset()
	e.outL.Reset()
	e.outR.Reset()
	e.latency = 0
	e.silence = 0
}

// ProcessBlock convolves one host block. All four slices must have the same
// length; any length is accepted. The left output is Lsl+Rsl and the right
// output is Lsr+Rsr. Inputs are queued before any output is written, so
// inL and inR may alias outL and outR.
func (e *Engine) ProcessBlock(inL, inR, outL, outR []float32) error {
	n := len(inL)
	if len(inR) != n || len(outL) != n || len(outR) != n {
		return fmt.Errorf("%w: inL=%d inR=%d outL=%d outR=%d",
			ErrLengthMismatch, len(inL), len(inR), len(outL), len(outR))
	}

	e.installPending()

	if n == 0 {
		return nil
	}

	e.inL.Push(inL)
	e.inR.Push(inR)

	for e.inL.Len() >= e.blockSize {
		if err := e.processInternalBlock(); err != nil {
			return err
		}
	}

	if short := n - e.silence - e.outL.Len(); short > 0 {
		e.addLatency(n, short)
	}

	z := min(e.silence, n)
	clear(outL[:z])
	clear(outR[:z])
	e.silence -= z

	e.outL.Pop(outL[z:])
	e.outR.Pop(outR[z:])

	return nil
}

// addLatency schedules leading silence when a host block of n samples finds
// short samples missing. The first shortfall inserts blockSize-gcd(n,
// blockSize) samples, the most a constant host block of n samples can ever
// need. A later shortfall, only possible when the host block size changes,
// tops the total up to blockSize-1, after which output never runs short.
func (e *Engine) addLatency(n, short int) {
	var add int
	if e.latency == 0 {
		add = e.blockSize - gcd(n, e.blockSize)
	} else {
		add = e.blockSize - 1 - e.latency
	}
	add = max(add, short)

	e.latency += add
	e.silence += add
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func (e *Engine) installPending() {
	set := e.exchange.take()
	if set == nil {
		return
	}
	for p, k := range set.kernels {
		if k != nil {
			e.paths[p].install(k, set.history[p])
		}
	}
}

func (e *Engine) processInternalBlock() error {
	e.inL.Pop(e.blockL)
	e.inR.Pop(e.blockR)

	if err := e.forward(e.specL, e.blockL); err != nil {
		return err
	}
	if err := e.forward(e.specR, e.blockR); err != nil {
		return err
	}

	for p, path := range Paths {
		spec := e.specR
		if path.FromLeft() {
			spec = e.specL
		}
		if err := e.paths[p].process(e.plan, spec, e.acc, e.pathOut[p]); err != nil {
			return fmt.Errorf("conv: %s inverse FFT failed: %w", path, err)
		}
	}

	f32.Add(e.mixL, e.pathOut[Lsl], e.pathOut[Rsl])
	f32.Add(e.mixR, e.pathOut[Lsr], e.pathOut[Rsr])

	e.outL.Push(e.mixL)
	e.outR.Push(e.mixR)
	return nil
}

// forward writes the zero-padded spectrum of block into spec.
func (e *Engine) forward(spec []complex64, block []float32) error {
	for i, v := range block {
		spec[i] = complex(v, 0)
	}
	clear(spec[len(block):])

	if err := e.plan.Forward(spec, spec); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}
	return nil
}
