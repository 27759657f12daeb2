// ABOUTME: End-to-end tests for the voicepool command tree
// ABOUTME: Runs subcommands in-process against temp dirs and a live event tap
package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Resonate-Protocol/voicepool-go/internal/eventtap"
	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
	"github.com/Resonate-Protocol/voicepool-go/pkg/voice"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeWAV(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, 8000, 16, 1, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           make([]int, 800),
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "voicepool "), out)
}

func TestManifestCommand(t *testing.T) {
	root := t.TempDir()
	writeWAV(t, filepath.Join(root, "sfx", "Orch Hit.wav"))

	out, _, err := run(t, "manifest", root)
	require.NoError(t, err)
	assert.Contains(t, out, "OrchHit: sfx/Orch Hit.wav")

	path := filepath.Join(t.TempDir(), "manifest.yaml")
	_, stderr, err := run(t, "manifest", root, "-o", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Wrote 1 clips")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "OrchHit")
}

func TestDemoHeadless(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	logFile := filepath.Join(dir, "demo.log")

	_, stderr, err := run(t, "demo",
		"--backend", "null",
		"--no-tui",
		"--synth",
		"--pool-size", "4",
		"--duration", "150ms",
		"--log-file", logFile)
	require.NoError(t, err)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Orbiter Event!")
	assert.Contains(t, string(data), "demo stopping")
	assert.Contains(t, stderr, "Orbiter Event!", "headless mode streams logs to the console")
}

func TestDemoLoadsAssets(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	assets := filepath.Join(dir, "assets")
	writeWAV(t, filepath.Join(assets, "OrchHit.wav"))
	writeWAV(t, filepath.Join(assets, "music", "ChippySurge (From the game Surge).wav"))

	_, _, err := run(t, "demo",
		"--backend", "null",
		"--no-tui",
		"--assets", assets,
		"--duration", "150ms",
		"--log-file", filepath.Join(dir, "demo.log"))
	require.NoError(t, err)
}

func TestDemoMissingClip(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	assets := filepath.Join(dir, "assets")
	writeWAV(t, filepath.Join(assets, "OrchHit.wav"))

	_, _, err := run(t, "demo",
		"--backend", "null",
		"--no-tui",
		"--assets", assets,
		"--duration", "2s",
		"--log-file", filepath.Join(dir, "demo.log"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ChippySurgeFromthegameSurge")
}

func TestDemoRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	_, _, err := run(t, "demo", "--backend", "null", "--no-tui", "--pool-size", "0")
	assert.Error(t, err)
}

func TestListenPrintsEvents(t *testing.T) {
	n := voice.NewNotifier()
	tap := eventtap.New(n, nil)
	require.NoError(t, tap.Start("127.0.0.1:0"))
	defer tap.Close()

	go func() {
		// keep broadcasting until the listener has connected and read enough
		for range 200 {
			if tap.Clients() > 0 {
				n.Broadcast(voice.Event{Name: "Orbiter Event!", Position: audio.Vec3{X: 5}})
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()

	out, _, err := run(t, "listen", "--addr", tap.Addr(), "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "listening on "+tap.Addr())
	assert.Equal(t, 2, strings.Count(out, "Orbiter Event!"))
	assert.Contains(t, out, "(5.00, 0.00, 0.00)")
}

func TestListenConnectionRefused(t *testing.T) {
	_, _, err := run(t, "listen", "--addr", "127.0.0.1:1")
	assert.Error(t, err)
}

func TestAdvertiseTapRejectsBadAddr(t *testing.T) {
	_, err := advertiseTap("not-an-address", slog.Default())
	assert.Error(t, err)
}
