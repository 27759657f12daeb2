// ABOUTME: WAV audio decoder
// ABOUTME: Decodes integer PCM WAV files to int32 clips via go-audio/wav
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
	"github.com/go-audio/wav"
)

func decodeWAV(r io.ReadSeeker) (*audio.Clip, error) {
	decoder := wav.NewDecoder(r)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file format")
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth != 8 && bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return nil, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav decode error: %w", err)
	}

	samples := make([]int32, len(buf.Data))
	for i, s := range buf.Data {
		// 8-bit WAV is unsigned
		if bitDepth == 8 {
			s -= 128
		}
		samples[i] = audio.ScaleTo24Bit(int32(s), bitDepth)
	}

	return &audio.Clip{
		Format: audio.Format{
			Codec:      "wav",
			SampleRate: int(decoder.SampleRate),
			Channels:   int(decoder.NumChans),
			BitDepth:   bitDepth,
		},
		Samples: samples,
	}, nil
}
