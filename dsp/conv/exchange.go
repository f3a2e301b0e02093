package conv

import (
	"fmt"
	"sync/atomic"
)

// pendingSet is a batch of kernels waiting to be installed, together with
// zeroed history storage so that installing does not allocate.
type pendingSet struct {
	kernels [NumPaths]*Kernel
	history [NumPaths][]complex64
}

// Exchange hands kernels from a producer goroutine to the engine. Publish
// never blocks and the engine collects pending kernels with a single atomic
// swap. Kernels published for the same path before the engine collects them
// replace each other; kernels for other paths are merged.
type Exchange struct {
	blockSize int
	pending   atomic.Pointer[pendingSet]
}

func newExchange(blockSize int) *Exchange {
	return &Exchange{blockSize: blockSize}
}

// Publish queues k for installation on path.
func (x *Exchange) Publish(path Path, k *Kernel) error {
	if !path.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownPath, int(path))
	}
	var set [NumPaths]*Kernel
	set[path] = k
	return x.publish(set)
}

// PublishAll queues a kernel for every non-nil entry of kernels.
func (x *Exchange) PublishAll(kernels [NumPaths]*Kernel) error {
	return x.publish(kernels)
}

func (x *Exchange) publish(kernels [NumPaths]*Kernel) error {
	var history [NumPaths][]complex64
	for p, k := range kernels {
		if k == nil {
			continue
		}
		if k.blockSize != x.blockSize {
			return fmt.Errorf("%w: kernel %d, engine %d", ErrBlockSizeMismatch, k.blockSize, x.blockSize)
		}
		history[p] = make([]complex64, k.Partitions()*k.fftSize)
	}

	for {
		old := x.pending.Load()
		next := &pendingSet{}
		if old != nil {
			*next = *old
		}
		for p, k := range kernels {
			if k != nil {
				next.kernels[p] = k
				next.history[p] = history[p]
			}
		}
		if x.pending.CompareAndSwap(old, next) {
			return nil
		}
	}
}

// Pending reports whether kernels are waiting to be installed.
func (x *Exchange) Pending() bool {
	return x.pending.Load() != nil
}

func (x *Exchange) take() *pendingSet {
	return x.pending.Swap(nil)
}
