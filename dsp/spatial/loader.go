package spatial

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cwbudde/headstage/dsp/conv"
)

// Loader fetches impulse responses from a Provider, turns them into kernels
// and publishes them to an engine's exchange. A failed load publishes the
// passthrough set so the audio path always has valid kernels.
type Loader struct {
	mu       sync.Mutex
	provider Provider
	builder  *conv.KernelBuilder
	exchange *conv.Exchange
	logger   *slog.Logger

	requests chan float64
}

// NewLoader returns a loader that publishes to exchange. The builder's
// block size must match the engine that owns exchange.
func NewLoader(provider Provider, builder *conv.KernelBuilder, exchange *conv.Exchange, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		provider: provider,
		builder:  builder,
		exchange: exchange,
		logger:   logger,
		requests: make(chan float64, 1),
	}
}

// SetProvider replaces the provider used by later loads.
func (l *Loader) SetProvider(provider Provider) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.provider = provider
}

// Request asks Run to reload for sampleRate without blocking. A request
// that has not been served yet is replaced.
func (l *Loader) Request(sampleRate float64) {
	for {
		select {
		case l.requests <- sampleRate:
			return
		default:
		}
		select {
		case <-l.requests:
		default:
		}
	}
}

// Run serves reload requests until ctx is done.
func (l *Loader) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sampleRate := <-l.requests:
			// Errors are logged by Load and the fallback is already published.
			_ = l.Load(sampleRate)
		}
	}
}

// Load fetches and publishes the responses for sampleRate synchronously.
// On failure the passthrough set is published and the error returned.
func (l *Loader) Load(sampleRate float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	set, err := l.fetch(sampleRate)
	if err != nil {
		l.logger.Warn("impulse response load failed, using passthrough",
			"sample_rate", sampleRate, "error", err)
		if perr := l.publish(PassthroughSet()); perr != nil {
			return fmt.Errorf("%w (fallback: %w)", err, perr)
		}
		return err
	}

	if err := l.publish(set); err != nil {
		return err
	}

	l.logger.Info("impulse responses loaded",
		"sample_rate", sampleRate,
		"length", set.MaxLen(),
		"block_size", l.builder.BlockSize())
	return nil
}

func (l *Loader) fetch(sampleRate float64) (ImpulseResponseSet, error) {
	if l.provider == nil {
		return ImpulseResponseSet{}, fmt.Errorf("spatial: no impulse response provider")
	}
	set, err := l.provider.ImpulseResponses(sampleRate)
	if err != nil {
		return ImpulseResponseSet{}, fmt.Errorf("spatial: impulse response provider: %w", err)
	}
	if err := set.Validate(); err != nil {
		return ImpulseResponseSet{}, err
	}
	return set, nil
}

func (l *Loader) publish(set ImpulseResponseSet) error {
	var kernels [conv.NumPaths]*conv.Kernel
	for _, p := range conv.Paths {
		k, err := l.builder.Build(set.Path(p))
		if err != nil {
			return fmt.Errorf("spatial: build %s kernel: %w", p, err)
		}
		kernels[p] = k
	}
	return l.exchange.PublishAll(kernels)
}
