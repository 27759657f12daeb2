// ABOUTME: Audio type definitions
// ABOUTME: Defines formats, decoded clips, 3D positions and sample conversions
package audio

import (
	"fmt"
	"math"
	"time"
)

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Clip is a fully decoded sound held in memory.
// Samples are interleaved and scaled to the 24-bit range regardless of source bit depth.
type Clip struct {
	Name    string
	Format  Format
	Samples []int32
}

// Frames returns the number of sample frames (samples per channel)
func (c *Clip) Frames() int {
	if c == nil || c.Format.Channels <= 0 {
		return 0
	}
	return len(c.Samples) / c.Format.Channels
}

// Duration returns the playback length at unity pitch
func (c *Clip) Duration() time.Duration {
	if c == nil || c.Format.SampleRate <= 0 {
		return 0
	}
	return time.Duration(c.Frames()) * time.Second / time.Duration(c.Format.SampleRate)
}

// Sample returns the sample at frame for channel ch.
// Mono clips answer every channel from their single channel.
func (c *Clip) Sample(frame, ch int) int32 {
	if c.Format.Channels == 1 {
		return c.Samples[frame]
	}
	if ch >= c.Format.Channels {
		ch = c.Format.Channels - 1
	}
	return c.Samples[frame*c.Format.Channels+ch]
}

func (c *Clip) String() string {
	if c == nil {
		return "<nil clip>"
	}
	return fmt.Sprintf("%s (%dHz %dch, %v)", c.Name, c.Format.SampleRate, c.Format.Channels, c.Duration())
}

// Vec3 is a position in world space
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - o
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Len returns the euclidean length of v
func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}

// ClampTo24Bit clamps a mixed value into the 24-bit sample range
func ClampTo24Bit(v float64) int32 {
	if v > Max24Bit {
		return Max24Bit
	}
	if v < Min24Bit {
		return Min24Bit
	}
	return int32(v)
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit (or 16-bit) to 16-bit range
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	// Left-shift to position 16-bit value in upper bits
	return int32(sample) << 8
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}

// ScaleTo24Bit rescales a sample of the given bit depth into the 24-bit range
func ScaleTo24Bit(sample int32, bitDepth int) int32 {
	switch {
	case bitDepth == 24:
		return sample
	case bitDepth > 24:
		return sample >> (bitDepth - 24)
	default:
		return sample << (24 - bitDepth)
	}
}
