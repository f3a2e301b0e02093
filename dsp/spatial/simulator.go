package spatial

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/headstage/dsp/conv"
	"github.com/cwbudde/headstage/dsp/core"
	"github.com/cwbudde/headstage/dsp/eq"
	"github.com/tphakala/simd/f32"
)

// Output gain limits in dB.
const (
	MinOutputGainDB = -30.0
	MaxOutputGainDB = 0.0
)

// DefaultBands is the number of EQ bands per channel.
const DefaultBands = 10

// Errors returned by the simulator.
var (
	ErrLengthMismatch    = errors.New("spatial: buffer length mismatch")
	ErrBandIndex         = errors.New("spatial: band index out of range")
	ErrInvalidSampleRate = errors.New("spatial: invalid sample rate")
)

// Option mutates construction-time parameters.
type Option func(*simulatorConfig) error

type simulatorConfig struct {
	processor    []core.ProcessorOption
	bands        int
	outputGainDB float64
	provider     Provider
	logger       *slog.Logger
}

func defaultSimulatorConfig() simulatorConfig {
	return simulatorConfig{
		bands:    DefaultBands,
		provider: StaticProvider{Set: PassthroughSet()},
	}
}

// WithProcessorOptions sets the sample rate and convolution block size.
func WithProcessorOptions(opts ...core.ProcessorOption) Option {
	return func(cfg *simulatorConfig) error {
		cfg.processor = append(cfg.processor, opts...)
		return nil
	}
}

// WithBands sets the number of EQ bands per channel.
func WithBands(n int) Option {
	return func(cfg *simulatorConfig) error {
		if n < 0 {
			return fmt.Errorf("spatial: band count must be >= 0: %d", n)
		}
		cfg.bands = n
		return nil
	}
}

// WithOutputGainDB sets the initial output gain.
func WithOutputGainDB(db float64) Option {
	return func(cfg *simulatorConfig) error {
		if math.IsNaN(db) {
			return fmt.Errorf("spatial: output gain must not be NaN")
		}
		cfg.outputGainDB = db
		return nil
	}
}

// WithProvider sets the impulse response provider.
func WithProvider(provider Provider) Option {
	return func(cfg *simulatorConfig) error {
		if provider == nil {
			return fmt.Errorf("spatial: provider must not be nil")
		}
		cfg.provider = provider
		return nil
	}
}

// WithLogger sets the logger used by the impulse response loader.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *simulatorConfig) error {
		if logger == nil {
			return fmt.Errorf("spatial: logger must not be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// Simulator is the complete processing chain: parametric EQ, binaural
// convolution and output gain. Process and the setters must be called from
// the audio goroutine; Run serves impulse response loads on its own.
type Simulator struct {
	cfg    core.ProcessorConfig
	eq     *eq.StereoParametricEQ
	engine *conv.Engine
	loader *Loader
	logger *slog.Logger

	bands        []eq.BandConfig
	eqEnabled    bool
	bypass       bool
	outputGainDB float64
	outputGain   float32
}

// NewSimulator builds a simulator and loads the provider's responses for
// the configured sample rate. A failing provider is logged and the
// simulator falls back to passthrough.
func NewSimulator(opts ...Option) (*Simulator, error) {
	cfg := defaultSimulatorConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	engine, err := conv.New(cfg.processor...)
	if err != nil {
		return nil, err
	}
	builder, err := engine.NewKernelBuilder()
	if err != nil {
		return nil, err
	}

	pc := engine.Config()
	s := &Simulator{
		cfg:       pc,
		eq:        eq.NewStereoParametricEQ(cfg.bands, pc.SampleRate),
		engine:    engine,
		loader:    NewLoader(cfg.provider, builder, engine.Exchange(), cfg.logger),
		logger:    cfg.logger,
		bands:     make([]eq.BandConfig, cfg.bands),
		eqEnabled: true,
	}
	for i := range s.bands {
		s.bands[i] = eq.DefaultBandConfig()
	}
	s.SetOutputGainDB(cfg.outputGainDB)

	// Load failures fall back to passthrough and are already logged.
	_ = s.loader.Load(pc.SampleRate)

	return s, nil
}

// Run serves background impulse response reloads until ctx is done.
func (s *Simulator) Run(ctx context.Context) error {
	return s.loader.Run(ctx)
}

// Reload loads impulse responses for the current sample rate
// synchronously. The engine installs them at the next Process call.
func (s *Simulator) Reload() error {
	return s.loader.Load(s.cfg.SampleRate)
}

// SetProvider replaces the provider and requests a background reload.
func (s *Simulator) SetProvider(provider Provider) error {
	if provider == nil {
		return fmt.Errorf("spatial: provider must not be nil")
	}
	s.loader.SetProvider(provider)
	s.loader.Request(s.cfg.SampleRate)
	return nil
}

// Process renders one host block. All slices must have the same length.
// Inputs may alias outputs.
func (s *Simulator) Process(inL, inR, outL, outR []float32) error {
	n := len(inL)
	if len(inR) != n || len(outL) != n || len(outR) != n {
		return fmt.Errorf("%w: inL=%d inR=%d outL=%d outR=%d",
			ErrLengthMismatch, len(inL), len(inR), len(outL), len(outR))
	}

	copy(outL, inL)
	copy(outR, inR)
	if s.bypass {
		return nil
	}

	if s.eqEnabled {
		if err := s.eq.ProcessBlock(outL, outR); err != nil {
			return err
		}
	}

	if err := s.engine.ProcessBlock(outL, outR, outL, outR); err != nil {
		return err
	}

	if s.outputGain != 1 {
		f32.Scale(outL, outL, s.outputGain)
		f32.Scale(outR, outR, s.outputGain)
	}
	return nil
}

// ProcessInPlace renders left and right in place.
func (s *Simulator) ProcessInPlace(left, right []float32) error {
	return s.Process(left, right, left, right)
}

// SetBand configures band idx on both channels.
func (s *Simulator) SetBand(idx int, cfg eq.BandConfig) error {
	if idx < 0 || idx >= len(s.bands) {
		return fmt.Errorf("%w: %d of %d", ErrBandIndex, idx, len(s.bands))
	}
	s.bands[idx] = cfg
	s.eq.UpdateBandCoeffs(idx, s.cfg.SampleRate, cfg)
	return nil
}

// Band returns the configuration of band idx.
func (s *Simulator) Band(idx int) (eq.BandConfig, bool) {
	if idx < 0 || idx >= len(s.bands) {
		return eq.BandConfig{}, false
	}
	return s.bands[idx], true
}

// NumBands returns the number of EQ bands per channel.
func (s *Simulator) NumBands() int {
	return len(s.bands)
}

// SetEQEnabled switches the EQ stage on or off. Band state is kept.
func (s *Simulator) SetEQEnabled(enabled bool) {
	s.eqEnabled = enabled
}

// EQEnabled reports whether the EQ stage runs.
func (s *Simulator) EQEnabled() bool {
	return s.eqEnabled
}

// SetBypass enables the master bypass, which copies input to output.
func (s *Simulator) SetBypass(bypass bool) {
	s.bypass = bypass
}

// Bypassed reports whether the master bypass is on.
func (s *Simulator) Bypassed() bool {
	return s.bypass
}

// SetOutputGainDB sets the output gain, clamped to
// [MinOutputGainDB, MaxOutputGainDB].
func (s *Simulator) SetOutputGainDB(db float64) {
	s.outputGainDB = core.Clamp(db, MinOutputGainDB, MaxOutputGainDB)
	s.outputGain = float32(core.DBToLinear(s.outputGainDB))
}

// OutputGainDB returns the output gain in dB.
func (s *Simulator) OutputGainDB() float64 {
	return s.outputGainDB
}

// SampleRate returns the processing sample rate.
func (s *Simulator) SampleRate() float64 {
	return s.cfg.SampleRate
}

// SetSampleRate redesigns the EQ for sampleRate, clears all state and
// requests impulse responses for the new rate.
func (s *Simulator) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}
	s.cfg.SampleRate = sampleRate
	s.eq.SetSampleRate(sampleRate)
	s.engine.Reset()
	s.loader.Request(sampleRate)
	s.logger.Debug("sample rate changed", "sample_rate", sampleRate)
	return nil
}

// Reset clears EQ and convolution state.
func (s *Simulator) Reset() {
	s.eq.ResetAllBandsState()
	s.engine.Reset()
}

// Reserve prepares the simulator for host blocks of up to maxHostBlock
// samples.
func (s *Simulator) Reserve(maxHostBlock int) {
	s.engine.Reserve(maxHostBlock)
}

// Latency returns the leading silence inserted by the convolution engine.
func (s *Simulator) Latency() int {
	return s.engine.Latency()
}

// Engine returns the convolution engine.
func (s *Simulator) Engine() *conv.Engine {
	return s.engine
}

// EQ returns the parametric EQ.
func (s *Simulator) EQ() *eq.StereoParametricEQ {
	return s.eq
}
