// ABOUTME: Engine lifecycle: construction, start, background loops and shutdown
// ABOUTME: Pool devices are mixer channels; the mixer feeds the selected output
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio/output"
	"github.com/Resonate-Protocol/voicepool-go/pkg/voice"
)

const (
	// DefaultSampleRate is the mixer output rate in Hz
	DefaultSampleRate = 48000
	// DefaultChannels is stereo output
	DefaultChannels = 2
	// DefaultSweepInterval is the delay between reclamation sweep steps
	DefaultSweepInterval = 10 * time.Millisecond
	// DefaultTickInterval is the position tracking period
	DefaultTickInterval = 20 * time.Millisecond
)

// ErrClosed is returned by Start after Close
var ErrClosed = errors.New("engine closed")

// Config holds engine configuration
type Config struct {
	// Pool sizes the voice pool and decides whether New starts the engine
	Pool voice.Config

	// Backend selects the audio output: "oto" (default), "malgo", "null" or "wav:<path>"
	Backend string

	// SampleRate is the mixer output rate (default: 48000)
	SampleRate int

	// Channels is the mixer channel count, 1 or 2 (default: 2)
	Channels int

	// SweepInterval is the delay between sweep steps (default: 10ms)
	SweepInterval time.Duration

	// TickInterval is the position tracking period (default: 20ms)
	TickInterval time.Duration

	// Logger receives diagnostics (default: slog.Default())
	Logger *slog.Logger

	// Registerer receives the pool metrics; nil disables metrics
	Registerer prometheus.Registerer

	// OnAudioEvent is subscribed to the notifier for the engine's lifetime
	OnAudioEvent func(voice.Event)
}

// Engine is the audio composition root
type Engine struct {
	config   Config
	logger   *slog.Logger
	mixer    *output.Mixer
	pool     *voice.Pool
	notifier *voice.Notifier
	metrics  *metrics

	sub    voice.Subscription
	hasSub bool

	mu      sync.Mutex
	output  output.Output
	started bool
	closed  bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New builds an engine. When cfg.Pool.AutoInitialize is set it is started
// before New returns.
func New(cfg Config) (*Engine, error) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Channels == 0 {
		cfg.Channels = DefaultChannels
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	mixer, err := output.NewMixer(cfg.SampleRate, cfg.Channels)
	if err != nil {
		return nil, fmt.Errorf("failed to create mixer: %w", err)
	}

	notifier := voice.NewNotifier()
	pool, err := voice.NewPool(cfg.Pool, func(int) voice.Device {
		return mixer.NewChannel()
	}, voice.WithLogger(cfg.Logger), voice.WithNotifier(notifier))
	if err != nil {
		return nil, fmt.Errorf("failed to create voice pool: %w", err)
	}

	e := &Engine{
		config:   cfg,
		logger:   cfg.Logger.With("component", "engine"),
		mixer:    mixer,
		pool:     pool,
		notifier: notifier,
	}

	if cfg.Registerer != nil {
		e.metrics = newMetrics(pool)
		if err := e.metrics.register(cfg.Registerer); err != nil {
			return nil, err
		}
	}

	if cfg.OnAudioEvent != nil {
		e.sub = notifier.Subscribe(cfg.OnAudioEvent)
		e.hasSub = true
	}

	if cfg.Pool.AutoInitialize {
		if err := e.Start(context.Background()); err != nil {
			e.Close()
			return nil, err
		}
	}
	return e, nil
}

// Start opens the output and launches the sweep and tick loops.
// Starting a started engine is a no-op.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if e.started {
		return nil
	}

	out, err := output.New(e.config.Backend)
	if err != nil {
		return err
	}
	if err := out.Open(e.mixer, e.config.SampleRate, e.config.Channels); err != nil {
		return fmt.Errorf("failed to open %q output: %w", e.config.Backend, err)
	}
	e.output = out

	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.started = true

	e.wg.Add(2)
	go e.loop(ctx, e.config.SweepInterval, func() { e.pool.SweepStep() })
	go e.loop(ctx, e.config.TickInterval, e.pool.TrackPositions)

	e.logger.Info("audio engine started",
		"backend", e.config.Backend,
		"sample_rate", e.config.SampleRate,
		"channels", e.config.Channels,
		"pool_size", e.pool.Size())
	return nil
}

func (e *Engine) loop(ctx context.Context, interval time.Duration, step func()) {
	defer e.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			step()
		}
	}
}

// Close stops the loops, unsubscribes OnAudioEvent and closes the output
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	cancel, out := e.cancel, e.output
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.wg.Wait()

	if e.hasSub {
		e.notifier.Unsubscribe(e.sub)
	}
	if e.metrics != nil {
		e.metrics.unregister()
	}

	var err error
	if out != nil {
		err = out.Close()
	}
	e.logger.Info("audio engine stopped", "usage", e.pool.Usage())
	return err
}

// Pool returns the voice pool
func (e *Engine) Pool() *voice.Pool { return e.pool }

// Mixer returns the mixer feeding the output
func (e *Engine) Mixer() *output.Mixer { return e.mixer }

// Notifier returns the audio event notifier
func (e *Engine) Notifier() *voice.Notifier { return e.notifier }

// Initialized reports whether the engine has been started and not closed
func (e *Engine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started && !e.closed
}

// Usage returns the pool occupancy report
func (e *Engine) Usage() string { return e.pool.Usage() }
