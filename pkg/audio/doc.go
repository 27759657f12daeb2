// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Clip, Vec3, reverb presets and sample conversion functions
// Package audio provides the value types shared by the voice pool, the decoders and the mixer.
//
//   - Format: describes a clip's codec, sample rate, channels and bit depth
//   - Clip: a fully decoded sound with interleaved samples in the 24-bit range
//   - Vec3: a world-space position used for spatial voices
//   - ReverbPreset: the per-voice reverb send
//
// It also provides utilities for converting between sample formats:
//   - 16-bit ↔ 24-bit conversions
//   - int32 ↔ packed byte conversions
//
// Example:
//
//	clip := &audio.Clip{
//	    Name:    "OrchHit",
//	    Format:  audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 2, BitDepth: 16},
//	    Samples: samples,
//	}
//	fmt.Println(clip.Duration())
package audio
