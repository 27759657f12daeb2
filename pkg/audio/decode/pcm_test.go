// ABOUTME: Tests for PCM decoder
// ABOUTME: Tests 16-bit and 24-bit raw PCM decoding into clips
package decode

import (
	"bytes"
	"testing"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
)

func TestPCMDecode16Bit(t *testing.T) {
	decoder, err := NewPCM(audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 2, BitDepth: 16})
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	// 0x00, 0x01 -> 0x0100 = 256 (16-bit) -> 256<<8 (24-bit)
	// 0x02, 0x03 -> 0x0302 = 770 (16-bit) -> 770<<8 (24-bit)
	clip, err := decoder.Decode(bytes.NewReader([]byte{0x00, 0x01, 0x02, 0x03}))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(clip.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(clip.Samples))
	}
	if clip.Samples[0] != 256<<8 || clip.Samples[1] != 770<<8 {
		t.Errorf("unexpected samples %v", clip.Samples)
	}
	if clip.Frames() != 1 {
		t.Errorf("expected 1 stereo frame, got %d", clip.Frames())
	}
}

func TestPCMDecode24Bit(t *testing.T) {
	decoder, err := NewPCM(audio.Format{Codec: "pcm", SampleRate: 96000, Channels: 2, BitDepth: 24})
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	samples := decoder.DecodeBytes([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05})
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0] != 0x020100 {
		t.Errorf("expected first sample %d, got %d", 0x020100, samples[0])
	}
	if samples[1] != 0x050403 {
		t.Errorf("expected second sample %d, got %d", 0x050403, samples[1])
	}
}

func TestNewPCM_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		format   audio.Format
		expected string
	}{
		{"codec", audio.Format{Codec: "opus", SampleRate: 48000, Channels: 2, BitDepth: 16}, "invalid codec for PCM decoder: opus"},
		{"bit depth", audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 2, BitDepth: 32}, "unsupported bit depth: 32 (supported: 16, 24)"},
		{"channels", audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 0, BitDepth: 16}, "invalid PCM format: 48000Hz 0ch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder, err := NewPCM(tt.format)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if decoder != nil {
				t.Fatal("expected nil decoder")
			}
			if err.Error() != tt.expected {
				t.Errorf("expected error %q, got %q", tt.expected, err.Error())
			}
		})
	}
}

func TestPCMDecode_EmptyInput(t *testing.T) {
	decoder, err := NewPCM(DefaultPCMFormat)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	clip, err := decoder.Decode(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("decode failed with empty input: %v", err)
	}
	if len(clip.Samples) != 0 {
		t.Errorf("expected 0 samples from empty input, got %d", len(clip.Samples))
	}
}
