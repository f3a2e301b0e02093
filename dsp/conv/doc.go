// Package conv implements the four-path binaural convolution engine.
//
// Each of the four source-to-ear paths ([Lsl], [Lsr], [Rsl], [Rsr]) convolves
// one input channel with an impulse response using uniformly partitioned
// overlap-add convolution. The impulse response is split into blocks of
// BlockSize samples, and each block is transformed once into a [Kernel]
// partition spectrum of FFTSize = 2*BlockSize bins. Per internal block the
// engine transforms the new input block, multiplies every partition with the
// input spectrum of matching age from a per-path history, sums the products
// and transforms back. The upper half of the result is carried to the next
// block as the overlap tail.
//
// # Usage
//
//	e, err := conv.New(core.WithBlockSize(512))
//	err = e.SetIR(conv.Lsl, hrirLeftToLeft)
//	err = e.ProcessBlock(inL, inR, outL, outR)
//
// The left output is Lsl+Rsl and the right output is Lsr+Rsr. A new engine
// has a single silent partition on every path.
//
// # Host block sizes
//
// [Engine.ProcessBlock] accepts any number of samples per call. Input is
// queued until a full internal block is available and output is queued until
// the caller asks for it. When output runs short the engine emits silence
// and [Engine.Latency] reports the total. With a constant host block this
// happens only in the first call: the delay is BlockSize minus the host
// block when the host block divides BlockSize and zero when it is a
// multiple of BlockSize. A change of host block size can add silence once
// more, up to a total of BlockSize-1.
//
// # Replacing impulse responses
//
// [Engine.SetIR] builds partition spectra and therefore allocates; it must
// not run on the audio thread. Concurrent producers build kernels with their
// own [KernelBuilder] and hand them over through [Engine.Exchange]. The
// engine picks up published kernels at the start of the next ProcessBlock
// call without blocking and keeps the previous state until then. Installing
// a kernel resets that path's history and overlap tail.
package conv
