// ABOUTME: Oto-based audio output implementation
// ABOUTME: A single persistent oto player pulls the mixed stream
package output

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// oto allows only one context per process
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
	otoRate int
	otoChan int
)

// Oto output implementation using oto library
type Oto struct {
	mu     sync.Mutex
	player *oto.Player
	logger *slog.Logger
}

// NewOto creates a new Oto output
func NewOto() *Oto {
	return &Oto{logger: slog.Default().With("component", "output", "backend", "oto")}
}

// Open initializes the shared oto context and starts a player reading from src
func (o *Oto) Open(src io.Reader, sampleRate, channels int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		return fmt.Errorf("oto output already open")
	}

	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			otoErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-readyChan
		otoCtx, otoRate, otoChan = ctx, sampleRate, channels
	})
	if otoErr != nil {
		return otoErr
	}

	// The context cannot be reinitialised with a new format
	if otoRate != sampleRate || otoChan != channels {
		return fmt.Errorf("oto context already running at %dHz %dch, cannot open %dHz %dch",
			otoRate, otoChan, sampleRate, channels)
	}

	if err := otoCtx.Resume(); err != nil {
		return fmt.Errorf("failed to resume oto context: %w", err)
	}

	o.player = otoCtx.NewPlayer(src)
	o.player.Play()

	o.logger.Info("audio output initialized", "sample_rate", sampleRate, "channels", channels)
	return nil
}

// Close stops the player and suspends the shared context
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return nil
	}

	err := o.player.Close()
	o.player = nil
	if suspendErr := otoCtx.Suspend(); suspendErr != nil && err == nil {
		err = suspendErr
	}
	return err
}
