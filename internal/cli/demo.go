// ABOUTME: demo subcommand: loads two clips and runs the orbiting soundtrack scene
// ABOUTME: Drives the pool monitor TUI, the event tap and metrics endpoint
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Resonate-Protocol/voicepool-go/internal/config"
	"github.com/Resonate-Protocol/voicepool-go/internal/eventtap"
	"github.com/Resonate-Protocol/voicepool-go/internal/ui"
	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
	"github.com/Resonate-Protocol/voicepool-go/pkg/engine"
	"github.com/Resonate-Protocol/voicepool-go/pkg/loader"
	"github.com/Resonate-Protocol/voicepool-go/pkg/voice"
)

type demoOptions struct {
	hit      string
	loop     string
	noTUI    bool
	synth    bool
	duration time.Duration
	radius   float64
}

func newDemoCommand(opts *options) *cobra.Command {
	d := &demoOptions{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Play an orbiting soundtrack through the voice pool",
		Long: `Load a hit and a looping clip, play the loop pinned to a source orbiting the
listener and watch the pool in a terminal monitor. Without audio files under the
asset root the demo synthesises its own clips.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, opts, d)
		},
	}

	flags := cmd.Flags()
	flags.Int("pool-size", voice.DefaultPoolSize, "Number of voices in the pool")
	flags.String("backend", "oto", "Audio output: oto, malgo, null or wav:<path>")
	flags.Int("sample-rate", engine.DefaultSampleRate, "Output sample rate")
	flags.Duration("sweep-interval", engine.DefaultSweepInterval, "Delay between reclamation sweep steps")
	flags.String("assets", "assets", "Asset root directory")
	flags.String("manifest", "", "Clip manifest (default: generated from the asset root)")
	flags.String("events-addr", "", "Serve /events and /metrics on this address")
	flags.Bool("advertise", false, "Advertise the event tap over mDNS")
	flags.StringVar(&d.hit, "hit", "OrchHit", "Clip played on play/pause")
	flags.StringVar(&d.loop, "loop", "ChippySurgeFromthegameSurge", "Looping clip that orbits the listener")
	flags.BoolVar(&d.noTUI, "no-tui", false, "Disable TUI, use streaming logs instead")
	flags.BoolVar(&d.synth, "synth", false, "Use synthesised clips instead of loading assets")
	flags.DurationVar(&d.duration, "duration", 0, "Stop after this long (default: run until interrupted)")
	flags.Float64Var(&d.radius, "radius", 5, "Orbit radius in world units")

	return cmd
}

func runDemo(cmd *cobra.Command, opts *options, d *demoOptions) error {
	settings, err := config.Load(opts.configPath, cmd.Flags())
	if err != nil {
		return err
	}

	useTUI := !d.noTUI
	logger, logCloser, err := setupLogging(settings, cmd.ErrOrStderr(), useTUI)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if d.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.duration)
		defer cancel()
	}

	// TUI setup
	var tuiProg *tea.Program
	var controls *ui.Controls
	tuiDone := make(chan struct{})

	if useTUI {
		controls = ui.NewControls()
		tuiProg, err = ui.Run(controls)
		if err != nil {
			return fmt.Errorf("failed to start TUI: %w", err)
		}
		go func() {
			defer close(tuiDone)
			if _, err := tuiProg.Run(); err != nil {
				logger.Error("TUI stopped", "error", err)
			}
		}()
		defer func() {
			tuiProg.Quit()
			<-tuiDone
		}()
	}

	updateTUI := func(msg tea.Msg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	reg := prometheus.NewRegistry()
	eng, err := engine.New(engine.Config{
		Pool:          settings.Pool(),
		Backend:       settings.Backend,
		SampleRate:    settings.SampleRate,
		Channels:      settings.Channels,
		SweepInterval: settings.SweepInterval,
		TickInterval:  settings.TickInterval,
		Logger:        logger,
		Registerer:    reg,
		OnAudioEvent: func(e voice.Event) {
			logger.Info("playing audio event", "name", e.Name, "position", e.Position.String())
			updateTUI(ui.EventMsg(e))
		},
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	if settings.EventsAddr != "" {
		tap := eventtap.New(eng.Notifier(), logger)
		tap.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		if err := tap.Start(settings.EventsAddr); err != nil {
			return err
		}
		defer tap.Close()

		if settings.Advertise {
			stopAdvertising, err := advertiseTap(tap.Addr(), logger)
			if err != nil {
				logger.Warn("mDNS advertisement failed", "error", err)
			} else {
				defer stopAdvertising()
			}
		}
	}

	hit, loop, err := loadDemoClips(ctx, settings, d, logger, updateTUI)
	if err != nil {
		return err
	}

	// loading may run before the engine when autoInitialize is off
	if !eng.Initialized() {
		if err := eng.Start(ctx); err != nil {
			return err
		}
	}

	sc := newScene(eng.Pool(), hit, loop, newOrbiter(audio.Vec3{}, d.radius), logger)
	if err := sc.start(); err != nil {
		return err
	}

	var commands <-chan ui.Command
	if controls != nil {
		commands = controls.Commands
	}

	refresh := time.NewTicker(200 * time.Millisecond)
	defer refresh.Stop()
	report := time.NewTicker(2 * time.Second)
	defer report.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("demo stopping", "usage", eng.Usage())
			return nil
		case c := <-commands:
			if !sc.handle(c) {
				logger.Info("received quit from TUI")
				return nil
			}
		case <-refresh.C:
			updateTUI(ui.SnapshotMsg{Stats: eng.Pool().Stats(), Slots: eng.Pool().Snapshot()})
		case <-report.C:
			if !useTUI {
				logger.Info("pool usage", "usage", eng.Usage())
			}
		}
	}
}

// loadDemoClips resolves the hit and loop clips through the loader gate,
// reporting progress to the monitor, or synthesises them.
func loadDemoClips(ctx context.Context, s *config.Settings, d *demoOptions, logger *slog.Logger, updateTUI func(tea.Msg)) (*audio.Clip, *audio.Clip, error) {
	if info, err := os.Stat(s.AssetRoot); d.synth || err != nil || !info.IsDir() {
		if !d.synth {
			logger.Warn("asset root not found, synthesising clips", "asset_root", s.AssetRoot)
		}
		hit := synthClip(d.hit, s.SampleRate, 600*time.Millisecond, 6, 523.25, 659.25, 783.99)
		loop := synthClip(d.loop, s.SampleRate, 2*time.Second, 0.5, 220, 330)
		return hit, loop, nil
	}

	var manifest *loader.Manifest
	var err error
	if s.Manifest != "" {
		manifest, err = loader.LoadManifest(s.Manifest)
	} else {
		manifest, err = loader.GenerateManifest(s.AssetRoot)
	}
	if err != nil {
		return nil, nil, err
	}

	l := loader.NewFileLoader(s.AssetRoot,
		loader.WithManifest(manifest),
		loader.WithSampleRate(s.SampleRate),
		loader.WithLoaderLogger(logger))

	gate := loader.NewGate(l.Request(d.hit), l.Request(d.loop))
	ticker := time.NewTicker(loader.DefaultPollInterval)
	defer ticker.Stop()

	for {
		done, err := gate.Poll()
		completed, total := gate.Progress()
		updateTUI(ui.LoadMsg{Completed: completed, Total: total, Err: err})
		if done {
			if err != nil {
				return nil, nil, err
			}
			clips := gate.Clips()
			return clips[0], clips[1], nil
		}

		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
