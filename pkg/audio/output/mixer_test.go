// ABOUTME: Tests for the software mixer and its channels
// ABOUTME: Covers playback end, looping, pause, gain, panning and PCM output
package output

import (
	"encoding/binary"
	"math"
	"sync"
	"testing"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
	"github.com/Resonate-Protocol/voicepool-go/pkg/voice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ voice.Device = (*Channel)(nil)

// constClip is a mono clip whose every sample is value (16-bit units)
func constClip(frames int, value int16) *audio.Clip {
	samples := make([]int32, frames)
	for i := range samples {
		samples[i] = audio.SampleFromInt16(value)
	}
	return &audio.Clip{
		Name:    "const",
		Format:  audio.Format{Codec: "pcm", SampleRate: 8000, Channels: 1, BitDepth: 16},
		Samples: samples,
	}
}

func newTestMixer(t *testing.T) *Mixer {
	t.Helper()
	m, err := NewMixer(8000, 2)
	require.NoError(t, err)
	return m
}

func flatChannel(m *Mixer, clip *audio.Clip) *Channel {
	ch := m.NewChannel()
	ch.SetClip(clip)
	ch.SetSpatialBlend(0)
	ch.Play()
	return ch
}

func TestNewMixerValidation(t *testing.T) {
	_, err := NewMixer(0, 2)
	assert.Error(t, err)
	_, err = NewMixer(48000, 6)
	assert.Error(t, err)
}

func TestChannelStopsAtEndOfClip(t *testing.T) {
	m := newTestMixer(t)
	ch := flatChannel(m, constClip(100, 1000))
	require.True(t, ch.IsPlaying())

	out := make([]int32, 2*60)
	m.Mix(out)
	assert.True(t, ch.IsPlaying(), "should still play after 60 of 100 frames")

	m.Mix(out)
	assert.False(t, ch.IsPlaying(), "non-looping clip should stop at its end")
	assert.Equal(t, 0, m.Active())
}

func TestChannelLoops(t *testing.T) {
	m := newTestMixer(t)
	ch := flatChannel(m, constClip(10, 1000))
	ch.SetLoop(true)

	out := make([]int32, 2*100)
	m.Mix(out)

	assert.True(t, ch.IsPlaying())
	assert.Equal(t, audio.SampleFromInt16(1000), out[len(out)-1])
}

func TestChannelPauseEmitsSilenceAndHolds(t *testing.T) {
	m := newTestMixer(t)
	ch := flatChannel(m, constClip(100, 1000))

	out := make([]int32, 2*50)
	m.Mix(out)

	ch.Pause()
	assert.False(t, ch.IsPlaying())
	m.Mix(out)
	for _, s := range out {
		require.Zero(t, s)
	}

	ch.Resume()
	assert.True(t, ch.IsPlaying())
	m.Mix(out)
	assert.NotZero(t, out[0])
	assert.True(t, ch.IsPlaying(), "paused frames must not consume the clip")
}

func TestChannelVolume(t *testing.T) {
	m := newTestMixer(t)
	ch := flatChannel(m, constClip(100, 1000))
	ch.SetVolume(0.5)

	out := make([]int32, 2*4)
	m.Mix(out)
	assert.Equal(t, audio.SampleFromInt16(500), out[0])
	assert.Equal(t, audio.SampleFromInt16(500), out[1])
}

func TestChannelPitchDoublesSpeed(t *testing.T) {
	m := newTestMixer(t)
	ch := flatChannel(m, constClip(100, 1000))
	ch.SetPitch(2)

	out := make([]int32, 2*50)
	m.Mix(out)
	m.Mix(out[:2])
	assert.False(t, ch.IsPlaying(), "clip should be consumed in half the frames")
}

func TestChannelNonFinitePitchPlaysAtNormalSpeed(t *testing.T) {
	for _, pitch := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -1, 0} {
		m := newTestMixer(t)
		ch := flatChannel(m, constClip(100, 1000))
		ch.SetLoop(true)
		ch.SetPitch(pitch)

		buf := make([]byte, 4*300)
		require.NotPanics(t, func() {
			_, err := m.Read(buf)
			require.NoError(t, err)
		}, "pitch %v", pitch)
		assert.True(t, ch.IsPlaying(), "pitch %v", pitch)
		assert.NotZero(t, int16(binary.LittleEndian.Uint16(buf)), "pitch %v", pitch)
	}
}

func TestChannelHugePitchDoesNotPanic(t *testing.T) {
	m := newTestMixer(t)
	ch := flatChannel(m, constClip(100, 1000))
	ch.SetLoop(true)
	ch.SetPitch(math.MaxFloat64)

	buf := make([]byte, 4*300)
	assert.NotPanics(t, func() {
		for range 4 {
			_, _ = m.Read(buf)
		}
	})
}

func TestSpatialPanFollowsPosition(t *testing.T) {
	m := newTestMixer(t)
	ch := m.NewChannel()
	ch.SetClip(constClip(100, 1000))
	ch.SetSpatialBlend(1)
	ch.SetPosition(audio.Vec3{X: 5})
	ch.Play()

	out := make([]int32, 2)
	m.Mix(out)
	assert.Greater(t, out[1], out[0], "source on the right should be louder on the right")

	m.SetListener(audio.Vec3{X: 10})
	m.Mix(out)
	assert.Greater(t, out[0], out[1], "moving the listener past the source flips the pan")
}

func TestSpatialAttenuation(t *testing.T) {
	m := newTestMixer(t)
	near := m.NewChannel()
	near.SetClip(constClip(100, 1000))
	near.SetPosition(audio.Vec3{Z: 1})
	near.Play()

	out := make([]int32, 2)
	m.Mix(out)
	nearLevel := out[0]

	near.SetPosition(audio.Vec3{Z: 20})
	m.Mix(out)
	assert.Less(t, out[0], nearLevel)
}

func TestReverbAddsTail(t *testing.T) {
	m := newTestMixer(t)
	ch := flatChannel(m, constClip(400, 1000))
	ch.SetReverb(audio.ReverbBathroom)
	assert.Equal(t, audio.ReverbBathroom, ch.Reverb())

	out := make([]int32, 2*400)
	m.Mix(out)

	// Bathroom delay is 15ms = 120 frames at 8kHz
	assert.Equal(t, audio.SampleFromInt16(1000), out[0])
	assert.Greater(t, out[2*200], out[0])
}

func TestSetClipNilStops(t *testing.T) {
	m := newTestMixer(t)
	ch := flatChannel(m, constClip(100, 1000))

	ch.SetClip(nil)
	assert.False(t, ch.IsPlaying())
	assert.Nil(t, ch.Clip())

	ch.Play()
	assert.False(t, ch.IsPlaying(), "play without a clip is a no-op")
}

func TestMixerReadProducesInt16(t *testing.T) {
	m := newTestMixer(t)
	flatChannel(m, constClip(100, 1234))

	buf := make([]byte, 4*10+3) // trailing partial frame is not filled
	n, err := m.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 40, n)
	assert.Equal(t, int16(1234), int16(binary.LittleEndian.Uint16(buf[0:])))
	assert.Equal(t, int16(1234), int16(binary.LittleEndian.Uint16(buf[2:])))
}

func TestMixerConcurrentReads(t *testing.T) {
	m := newTestMixer(t)
	ch := flatChannel(m, constClip(100, 1234))
	ch.SetLoop(true)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, 4*64)
			for range 50 {
				n, err := m.Read(buf)
				assert.NoError(t, err)
				assert.Equal(t, len(buf), n)
				assert.Equal(t, int16(1234), int16(binary.LittleEndian.Uint16(buf)))
			}
		}()
	}
	wg.Wait()
}

func TestMixerClampsSum(t *testing.T) {
	m := newTestMixer(t)
	for i := 0; i < 4; i++ {
		flatChannel(m, constClip(10, 30000))
	}

	out := make([]int32, 2)
	m.Mix(out)
	assert.Equal(t, int32(audio.Max24Bit), out[0])
}

func TestMonoMixer(t *testing.T) {
	m, err := NewMixer(8000, 1)
	require.NoError(t, err)
	flatChannel(m, constClip(10, 1000))

	out := make([]int32, 4)
	m.Mix(out)
	assert.Equal(t, audio.SampleFromInt16(1000), out[0])
}
