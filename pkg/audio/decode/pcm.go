// ABOUTME: Raw PCM audio decoder
// ABOUTME: Decodes headerless 16-bit and 24-bit little-endian PCM to int32 clips
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
)

// DefaultPCMFormat is assumed for headerless .pcm and .raw assets
var DefaultPCMFormat = audio.Format{
	Codec:      "pcm",
	SampleRate: 48000,
	Channels:   2,
	BitDepth:   16,
}

// PCMDecoder decodes raw PCM with a known format
type PCMDecoder struct {
	format audio.Format
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (*PCMDecoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}

	if format.BitDepth != 16 && format.BitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", format.BitDepth)
	}

	if format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid PCM format: %dHz %dch", format.SampleRate, format.Channels)
	}

	return &PCMDecoder{format: format}, nil
}

func mustPCM(format audio.Format) *PCMDecoder {
	d, err := NewPCM(format)
	if err != nil {
		panic(err)
	}
	return d
}

// Decode reads all bytes and converts them to a clip
func (d *PCMDecoder) Decode(r io.ReadSeeker) (*audio.Clip, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read pcm data: %w", err)
	}

	return &audio.Clip{
		Format:  d.format,
		Samples: d.DecodeBytes(data),
	}, nil
}

// DecodeBytes converts PCM bytes to int32 samples
func (d *PCMDecoder) DecodeBytes(data []byte) []int32 {
	if d.format.BitDepth == 24 {
		numSamples := len(data) / 3
		samples := make([]int32, numSamples)
		for i := 0; i < numSamples; i++ {
			b := [3]byte{data[i*3], data[i*3+1], data[i*3+2]}
			samples[i] = audio.SampleFrom24Bit(b)
		}
		return samples
	}

	numSamples := len(data) / 2
	samples := make([]int32, numSamples)
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = audio.SampleFromInt16(sample16)
	}
	return samples
}
