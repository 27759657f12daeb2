// ABOUTME: Shared helpers for loader tests
// ABOUTME: Writes small WAV fixtures
package loader

import (
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
)

// writeWAV writes a mono 16-bit 8kHz ramp of frames samples under root
func writeWAV(t *testing.T, root, rel string, frames int) {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	data := make([]int, frames)
	for i := range data {
		data[i] = (i % 200) * 100
	}
	enc := wav.NewEncoder(f, 8000, 16, 1, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
}

var clipA = &audio.Clip{Name: "a", Format: audio.Format{SampleRate: 8000, Channels: 1, BitDepth: 16}, Samples: []int32{1}}
var clipB = &audio.Clip{Name: "b", Format: audio.Format{SampleRate: 8000, Channels: 1, BitDepth: 16}, Samples: []int32{2}}
