// ABOUTME: Tests for follow targets
// ABOUTME: Covers FollowFunc, weak targets before and after collection, descriptor defaults
package voice

import (
	"runtime"
	"testing"
	"weak"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowFunc(t *testing.T) {
	x := 0.0
	target := FollowFunc(func() audio.Vec3 { return audio.Vec3{X: x} })

	x = 2
	assert.Equal(t, audio.Vec3{X: 2}, target.Position())
}

func TestWeakFollowsLiveTarget(t *testing.T) {
	obj := &movingTarget{pos: audio.Vec3{Y: 1}}
	target := Weak(obj)
	assert.Equal(t, audio.Vec3{Y: 1}, target.Position())

	obj.pos = audio.Vec3{Y: 5}
	assert.Equal(t, audio.Vec3{Y: 5}, target.Position())
}

// playFollowingWeak starts a voice pinned weakly to a target that is moved to
// (8,0,0) and tracked once. Nothing outside the returned weak pointer refers
// to the target afterwards.
func playFollowingWeak(t *testing.T, f *fixture) weak.Pointer[movingTarget] {
	t.Helper()

	obj := &movingTarget{pos: audio.Vec3{X: 2}}
	_, err := f.pool.Play(NewDescriptor("orbiter", testClip).WithFollow(Weak(obj)))
	require.NoError(t, err)

	obj.pos = audio.Vec3{X: 8}
	f.pool.TrackPositions()
	return weak.Make(obj)
}

func TestWeakKeepsLastPositionAfterCollection(t *testing.T) {
	f := newFixture(t, 1)
	ptr := playFollowingWeak(t, f)

	for range 10 {
		runtime.GC()
		if ptr.Value() == nil {
			break
		}
	}
	require.Nil(t, ptr.Value(), "target should have been collected")

	f.pool.TrackPositions()
	assert.Equal(t, audio.Vec3{X: 8}, f.devices[0].pos)
	assert.True(t, f.pool.Snapshot()[0].Following)
}

func TestDescriptorDefaults(t *testing.T) {
	d := NewDescriptor("hit", testClip)
	assert.Equal(t, 1.0, d.Gain)
	assert.Equal(t, 1.0, d.Pitch)
	assert.False(t, d.Flat)
	assert.False(t, d.Loop)
	assert.Nil(t, d.Follow)
	assert.Equal(t, audio.ReverbOff, d.Reverb)
}
