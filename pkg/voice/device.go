// ABOUTME: Device abstraction the pool drives, plus follow targets
// ABOUTME: Weak references let followed objects disappear without leaking
package voice

import (
	"weak"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
)

// Device is one output channel the pool configures for each voice.
// output.Channel is the mixer-backed implementation.
type Device interface {
	Play()
	Pause()
	Resume()
	Stop()
	IsPlaying() bool

	SetClip(clip *audio.Clip)
	Clip() *audio.Clip
	SetLoop(loop bool)
	SetVolume(volume float64)
	Volume() float64
	SetPitch(pitch float64)
	SetSpatialBlend(blend float64)
	SetPosition(pos audio.Vec3)
	Position() audio.Vec3
	SetReverb(preset audio.ReverbPreset)
}

// DeviceFactory creates the device for slot index; it is called once per slot
type DeviceFactory func(index int) Device

// FollowTarget provides the world position a voice is pinned to.
// Position is called with the pool locked and must not call back into the pool.
type FollowTarget interface {
	Position() audio.Vec3
}

// FollowFunc adapts a function to FollowTarget
type FollowFunc func() audio.Vec3

// Position calls f()
func (f FollowFunc) Position() audio.Vec3 { return f() }

type weakTarget[T any, PT interface {
	*T
	FollowTarget
}] struct {
	ptr  weak.Pointer[T]
	last audio.Vec3
}

// Weak follows target without keeping it alive. Once the target has been
// garbage collected the voice stays at the last reported position.
func Weak[T any, PT interface {
	*T
	FollowTarget
}](target PT) FollowTarget {
	return &weakTarget[T, PT]{
		ptr:  weak.Make((*T)(target)),
		last: target.Position(),
	}
}

func (w *weakTarget[T, PT]) Position() audio.Vec3 {
	if p := w.ptr.Value(); p != nil {
		w.last = PT(p).Position()
	}
	return w.last
}
