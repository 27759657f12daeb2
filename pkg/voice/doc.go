// ABOUTME: Fixed-capacity voice pool package
// ABOUTME: Allocates playback slots, hands out handles and reclaims finished voices
// Package voice implements a fixed-capacity pool of playback voices.
//
// A Pool owns a fixed array of slots, each pairing a playback Device with
// bookkeeping (active, paused, follow target, generation). Play leases the
// lowest free slot and returns a Handle; Pause, Resume, SetGain and Stop
// address the voice through that handle. The pool never blocks, queues or
// evicts: when every slot is busy Play fails with ErrPoolExhausted.
//
// Two passes keep slot state reconciled and are driven by the host:
//
//   - SweepStep inspects one slot per call and reclaims voices whose playback
//     finished on its own. A full pass takes Size() calls.
//   - TrackPositions copies every follow target's position into its playing
//     voice. Call it once per fixed simulation tick.
//
// Handles carry the slot generation, so a handle kept after its voice was
// stopped or reclaimed is rejected rather than addressing the slot's next voice.
//
// Example:
//
//	pool, err := voice.NewPool(voice.DefaultConfig(), func(int) voice.Device {
//	    return mixer.NewChannel()
//	})
//	h, err := pool.Play(voice.NewDescriptor("OrchHit", clip).WithFollow(player))
//	_ = pool.SetGain(h, 0.5)
//	_ = pool.Stop(&h) // h is now voice.Invalid
package voice
