// ABOUTME: Mixer channel implementing the voice playback device
// ABOUTME: Handles clip stepping, pitch, looping, panning and reverb send
package output

import (
	"math"
	"sync"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
)

const (
	// Distance inside which spatial voices are not attenuated
	minDistance = 1.0
)

// Channel plays one clip at a time into its mixer
type Channel struct {
	sampleRate int

	mu       sync.Mutex
	clip     *audio.Clip
	playing  bool
	paused   bool
	loop     bool
	volume   float64
	pitch    float64
	blend    float64
	position audio.Vec3
	reverb   audio.ReverbPreset
	comb     *comb
	head     float64 // fractional frame index into clip
}

func newChannel(sampleRate int) *Channel {
	return &Channel{
		sampleRate: sampleRate,
		volume:     1,
		pitch:      1,
		blend:      1,
	}
}

// Play starts the current clip from the beginning
func (c *Channel) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.head = 0
	c.paused = false
	c.playing = c.clip != nil
	if c.comb != nil {
		c.comb.reset()
	}
}

// Pause holds the read head; the channel emits silence until resumed
func (c *Channel) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		c.paused = true
	}
}

// Resume continues a paused clip
func (c *Channel) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

// Stop ends playback and rewinds
func (c *Channel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
	c.paused = false
	c.head = 0
}

// IsPlaying reports whether the channel is producing sound.
// Paused channels are not playing.
func (c *Channel) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing && !c.paused
}

// SetClip replaces the clip; a nil clip stops playback
func (c *Channel) SetClip(clip *audio.Clip) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clip = clip
	c.head = 0
	if clip == nil {
		c.playing = false
		c.paused = false
	}
}

// Clip returns the assigned clip
func (c *Channel) Clip() *audio.Clip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clip
}

// SetLoop sets whether the clip wraps at its end
func (c *Channel) SetLoop(loop bool) {
	c.mu.Lock()
	c.loop = loop
	c.mu.Unlock()
}

// SetVolume sets the linear gain
func (c *Channel) SetVolume(volume float64) {
	c.mu.Lock()
	c.volume = volume
	c.mu.Unlock()
}

// Volume returns the linear gain
func (c *Channel) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// SetPitch sets the playback rate multiplier. Non-positive and
// non-finite values play at normal speed.
func (c *Channel) SetPitch(pitch float64) {
	if !(pitch > 0) || math.IsInf(pitch, 0) {
		pitch = 1
	}
	c.mu.Lock()
	c.pitch = pitch
	c.mu.Unlock()
}

// SetSpatialBlend sets the 2D (0) to 3D (1) mix
func (c *Channel) SetSpatialBlend(blend float64) {
	c.mu.Lock()
	c.blend = math.Max(0, math.Min(1, blend))
	c.mu.Unlock()
}

// SpatialBlend returns the 2D/3D mix
func (c *Channel) SpatialBlend() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blend
}

// SetPosition moves the channel in world space
func (c *Channel) SetPosition(pos audio.Vec3) {
	c.mu.Lock()
	c.position = pos
	c.mu.Unlock()
}

// Position returns the world-space position
func (c *Channel) Position() audio.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

// SetReverb selects the reverb send
func (c *Channel) SetReverb(preset audio.ReverbPreset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if preset == c.reverb && (c.comb != nil || preset == audio.ReverbOff) {
		return
	}
	c.reverb = preset
	c.comb = newComb(preset, c.sampleRate)
}

// Reverb returns the reverb send
func (c *Channel) Reverb() audio.ReverbPreset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reverb
}

// gains returns left/right gain for the current position relative to listener
func (c *Channel) gains(listener audio.Vec3) (float64, float64) {
	if c.blend == 0 {
		return c.volume, c.volume
	}

	rel := c.position.Sub(listener)
	dist := rel.Len()
	attenuation := 1.0 / (1.0 + math.Max(0, dist-minDistance)/minDistance)

	pan := 0.0
	if dist > 1e-9 {
		pan = math.Max(-1, math.Min(1, rel.X/dist))
	}
	// Constant-power pan, normalised so a centred source matches the flat gain
	angle := (pan + 1) * math.Pi / 4
	spatialL := attenuation * math.Cos(angle) * math.Sqrt2
	spatialR := attenuation * math.Sin(angle) * math.Sqrt2

	flat := 1 - c.blend
	return c.volume * (flat + c.blend*spatialL), c.volume * (flat + c.blend*spatialR)
}

// mixInto adds frames of this channel to acc (interleaved, outChannels wide)
func (c *Channel) mixInto(acc []float64, frames, outChannels int, listener audio.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.playing || c.paused || c.clip == nil {
		return
	}

	clip := c.clip
	clipFrames := clip.Frames()
	if clipFrames == 0 || clip.Format.SampleRate <= 0 {
		c.playing = false
		return
	}

	rate := float64(clip.Format.SampleRate) / float64(c.sampleRate)
	step := c.pitch * rate
	if math.IsInf(step, 0) || math.IsNaN(step) || step <= 0 {
		// huge finite pitches overflow the step
		step = rate
	}
	gainL, gainR := c.gains(listener)
	end := float64(clipFrames)

	for f := 0; f < frames; f++ {
		if c.head >= end {
			if !c.loop {
				c.playing = false
				c.head = 0
				return
			}
			c.head = math.Mod(c.head, end)
			if math.IsNaN(c.head) {
				c.head = 0
			}
		}

		i := int(c.head)
		frac := c.head - float64(i)
		next := i + 1
		if next >= clipFrames {
			if c.loop {
				next = 0
			} else {
				next = i
			}
		}

		left := lerp(clip.Sample(i, 0), clip.Sample(next, 0), frac)
		right := lerp(clip.Sample(i, 1), clip.Sample(next, 1), frac)
		if c.comb != nil {
			left, right = c.comb.process(left, right)
		}

		if outChannels == 1 {
			acc[f] += (left*gainL + right*gainR) / 2
		} else {
			acc[f*outChannels] += left * gainL
			acc[f*outChannels+1] += right * gainR
		}

		c.head += step
	}
}

func lerp(a, b int32, frac float64) float64 {
	return float64(a)*(1-frac) + float64(b)*frac
}
