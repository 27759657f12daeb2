// ABOUTME: Tests for output backends
// ABOUTME: Verifies backend selection and the headless outputs
package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNewSelectsBackend(t *testing.T) {
	tests := []struct {
		name    string
		want    any
		wantErr bool
	}{
		{"", &Oto{}, false},
		{"oto", &Oto{}, false},
		{"malgo", &Malgo{}, false},
		{"null", &Null{}, false},
		{"wav:/tmp/out.wav", &WAVFile{}, false},
		{"wav:", nil, true},
		{"portaudio", nil, true},
	}

	for _, tt := range tests {
		out, err := New(tt.name)
		if tt.wantErr {
			assert.Error(t, err, tt.name)
			continue
		}
		require.NoError(t, err, tt.name)
		assert.IsType(t, tt.want, out, tt.name)
	}
}

func TestNullDrainsMixer(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, err := NewMixer(8000, 2)
	require.NoError(t, err)
	ch := flatChannel(m, constClip(80, 1000)) // 10ms of audio

	out := NewNull()
	require.NoError(t, out.Open(m, 8000, 2))
	assert.Error(t, out.Open(m, 8000, 2), "double open should fail")

	assert.Eventually(t, func() bool { return !ch.IsPlaying() }, time.Second, 5*time.Millisecond)
	require.NoError(t, out.Close())
	require.NoError(t, out.Close())
}

func TestWAVFileRecords(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, err := NewMixer(8000, 2)
	require.NoError(t, err)
	flatChannel(m, constClip(800, 1000))

	path := filepath.Join(t.TempDir(), "mix.wav")
	out := NewWAVFile(path)
	require.NoError(t, out.Open(m, 8000, 2))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, out.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(44), "expected samples after the WAV header")
}
