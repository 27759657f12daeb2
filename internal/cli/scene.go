// ABOUTME: Demo scene: a looping soundtrack orbiting the listener and a 2D hit
// ABOUTME: Translates monitor commands into pool calls
package cli

import (
	"log/slog"
	"math"
	"time"

	"github.com/Resonate-Protocol/voicepool-go/internal/ui"
	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
	"github.com/Resonate-Protocol/voicepool-go/pkg/voice"
)

const (
	orbitDegreesPerSecond = 20
	gainStep              = 0.1
)

// orbiter circles center in the horizontal plane
type orbiter struct {
	center audio.Vec3
	radius float64
	start  time.Time
	now    func() time.Time
}

func newOrbiter(center audio.Vec3, radius float64) *orbiter {
	return &orbiter{center: center, radius: radius, start: time.Now(), now: time.Now}
}

func (o *orbiter) Position() audio.Vec3 {
	angle := o.now().Sub(o.start).Seconds() * orbitDegreesPerSecond * math.Pi / 180
	return audio.Vec3{
		X: o.center.X + o.radius*math.Cos(angle),
		Y: o.center.Y,
		Z: o.center.Z + o.radius*math.Sin(angle),
	}
}

type scene struct {
	pool   *voice.Pool
	hit    *audio.Clip
	loop   *audio.Clip
	orbit  voice.FollowTarget
	logger *slog.Logger

	soundtrack voice.Handle
	gain       float64
}

func newScene(pool *voice.Pool, hit, loop *audio.Clip, orbit voice.FollowTarget, logger *slog.Logger) *scene {
	return &scene{
		pool:       pool,
		hit:        hit,
		loop:       loop,
		orbit:      orbit,
		logger:     logger,
		soundtrack: voice.Invalid,
		gain:       1,
	}
}

// start plays the orbiting soundtrack
func (s *scene) start() error {
	desc := voice.NewDescriptor("Orbiter Event!", s.loop).
		WithFollow(s.orbit).
		WithLoop(true).
		WithGain(s.gain).
		WithReverb(audio.ReverbAlley)

	h, err := s.pool.Play(desc)
	if err != nil {
		return err
	}
	s.soundtrack = h
	return nil
}

// playHit plays the hit without spatialisation
func (s *scene) playHit() {
	if _, err := s.pool.Play2D(voice.NewDescriptor("Play Pause Event!", s.hit)); err != nil {
		s.logger.Warn("hit not played", "error", err)
	}
}

// togglePause plays the hit and flips the soundtrack between paused and playing
func (s *scene) togglePause() {
	s.playHit()

	if s.pool.Paused(s.soundtrack) {
		_ = s.pool.Resume(s.soundtrack)
	} else {
		_ = s.pool.Pause(s.soundtrack)
	}
}

func (s *scene) adjustGain(delta float64) {
	s.gain = math.Max(0, math.Min(1, s.gain+delta))
	if s.soundtrack != voice.Invalid {
		_ = s.pool.SetGain(s.soundtrack, s.gain)
	}
}

// stop ends the soundtrack; a later toggle has nothing to pause
func (s *scene) stop() {
	if s.soundtrack == voice.Invalid {
		return
	}
	_ = s.pool.Stop(&s.soundtrack)
}

// handle applies a monitor command, returning false on quit
func (s *scene) handle(cmd ui.Command) bool {
	switch cmd {
	case ui.CommandPlay:
		s.playHit()
	case ui.CommandTogglePause:
		s.togglePause()
	case ui.CommandGainUp:
		s.adjustGain(gainStep)
	case ui.CommandGainDown:
		s.adjustGain(-gainStep)
	case ui.CommandStopAll:
		s.stop()
	case ui.CommandQuit:
		return false
	}
	return true
}

// synthClip renders a mono tone with an exponential decay envelope
func synthClip(name string, sampleRate int, duration time.Duration, decay float64, freqs ...float64) *audio.Clip {
	frames := int(duration.Seconds() * float64(sampleRate))
	samples := make([]int32, frames)

	for i := range samples {
		t := float64(i) / float64(sampleRate)
		v := 0.0
		for _, f := range freqs {
			v += math.Sin(2 * math.Pi * f * t)
		}
		v /= float64(len(freqs))
		v *= math.Exp(-decay * t)
		samples[i] = audio.ClampTo24Bit(v * 0.5 * audio.Max24Bit)
	}

	return &audio.Clip{
		Name:    name,
		Format:  audio.Format{Codec: "pcm", SampleRate: sampleRate, Channels: 1, BitDepth: 24},
		Samples: samples,
	}
}
