// ABOUTME: Test doubles for pool tests
// ABOUTME: In-memory device, moving target and fixture with captured logs
package voice

import (
	"bytes"
	"log/slog"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
	"github.com/stretchr/testify/require"
)

// fakeDevice records what the pool asked of it. finish simulates a clip
// running out on its own.
type fakeDevice struct {
	clip     *audio.Clip
	playing  bool
	paused   bool
	loop     bool
	volume   float64
	pitch    float64
	blend    float64
	pos      audio.Vec3
	reverb   audio.ReverbPreset
	plays    int
	stops    int
	setCalls int
}

func (d *fakeDevice) Play() {
	d.plays++
	d.playing = d.clip != nil
	d.paused = false
}

func (d *fakeDevice) Pause() {
	if d.playing {
		d.paused = true
	}
}

func (d *fakeDevice) Resume() { d.paused = false }

func (d *fakeDevice) Stop() {
	d.stops++
	d.playing = false
	d.paused = false
}

func (d *fakeDevice) IsPlaying() bool { return d.playing && !d.paused }

func (d *fakeDevice) SetClip(clip *audio.Clip) { d.clip = clip }
func (d *fakeDevice) Clip() *audio.Clip        { return d.clip }
func (d *fakeDevice) SetLoop(loop bool)        { d.loop = loop }

func (d *fakeDevice) SetVolume(v float64) {
	d.setCalls++
	d.volume = v
}

func (d *fakeDevice) Volume() float64                     { return d.volume }
func (d *fakeDevice) SetPitch(p float64)                  { d.pitch = p }
func (d *fakeDevice) SetSpatialBlend(b float64)           { d.blend = b }
func (d *fakeDevice) SetPosition(pos audio.Vec3)          { d.pos = pos }
func (d *fakeDevice) Position() audio.Vec3                { return d.pos }
func (d *fakeDevice) SetReverb(preset audio.ReverbPreset) { d.reverb = preset }

func (d *fakeDevice) finish() { d.playing = false }

// movingTarget is a follow target the test moves by hand
type movingTarget struct {
	pos audio.Vec3
}

func (m *movingTarget) Position() audio.Vec3 { return m.pos }

var testClip = &audio.Clip{
	Name:    "hit",
	Format:  audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 1, BitDepth: 16},
	Samples: make([]int32, 480),
}

// testingT is satisfied by *testing.T and *rapid.T
type testingT interface {
	require.TestingT
	Helper()
}

type fixture struct {
	pool    *Pool
	devices []*fakeDevice
	logs    *bytes.Buffer
}

func newFixture(t testingT, size int, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{logs: &bytes.Buffer{}}
	logger := slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := DefaultConfig()
	cfg.SourcePoolSize = size
	pool, err := NewPool(cfg, func(int) Device {
		d := &fakeDevice{}
		f.devices = append(f.devices, d)
		return d
	}, append([]Option{WithLogger(logger)}, opts...)...)
	require.NoError(t, err)
	f.pool = pool
	return f
}

func (f *fixture) play(t testingT) Handle {
	t.Helper()
	h, err := f.pool.Play(NewDescriptor("hit", testClip))
	require.NoError(t, err)
	return h
}
