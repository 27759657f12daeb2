// ABOUTME: Descriptor describes how a clip should be played
// ABOUTME: Builder methods for looping, gain, pitch and follow targets
package voice

import (
	"math"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
)

// Descriptor describes one play request
type Descriptor struct {
	// Name is human readable; used for diagnostics, events and subtitles
	Name string

	// Clip is the decoded sound to play
	Clip *audio.Clip

	// Follow pins the voice to a moving position; nil plays at the pool default position
	Follow FollowTarget

	Loop bool

	// Gain is linear: 1 is unity, 0 is silent
	Gain float64

	// Pitch multiplies playback rate; values <= 0 play at 1
	Pitch float64

	Reverb audio.ReverbPreset

	// Flat plays the voice without spatialisation
	Flat bool
}

// NewDescriptor returns a unity gain, unity pitch descriptor
func NewDescriptor(name string, clip *audio.Clip) Descriptor {
	return Descriptor{
		Name:  name,
		Clip:  clip,
		Gain:  1,
		Pitch: 1,
	}
}

// WithFollow returns a copy pinned to target
func (d Descriptor) WithFollow(target FollowTarget) Descriptor {
	d.Follow = target
	return d
}

// WithLoop returns a copy with looping set
func (d Descriptor) WithLoop(loop bool) Descriptor {
	d.Loop = loop
	return d
}

// WithGain returns a copy with gain set
func (d Descriptor) WithGain(gain float64) Descriptor {
	d.Gain = gain
	return d
}

// WithPitch returns a copy with pitch set
func (d Descriptor) WithPitch(pitch float64) Descriptor {
	d.Pitch = pitch
	return d
}

// WithReverb returns a copy with the reverb send set
func (d Descriptor) WithReverb(preset audio.ReverbPreset) Descriptor {
	d.Reverb = preset
	return d
}

func (d Descriptor) pitch() float64 {
	if !(d.Pitch > 0) || math.IsInf(d.Pitch, 0) {
		return 1
	}
	return d.Pitch
}
