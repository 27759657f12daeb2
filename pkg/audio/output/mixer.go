// ABOUTME: Software mixer summing pooled voices into one PCM stream
// ABOUTME: Each mixer channel is a playback device the voice pool drives
package output

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
)

// Mixer sums every playing channel into interleaved 16-bit PCM
type Mixer struct {
	sampleRate int
	channels   int

	mu       sync.Mutex
	voices   []*Channel
	listener audio.Vec3
	acc      []float64

	readMu sync.Mutex // guards mixed
	mixed  []int32
}

// NewMixer creates a mixer producing sampleRate/channels output
func NewMixer(sampleRate, channels int) (*Mixer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid mixer sample rate: %d", sampleRate)
	}
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("unsupported mixer channel count: %d (supported: 1, 2)", channels)
	}
	return &Mixer{
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

// SampleRate returns the output sample rate
func (m *Mixer) SampleRate() int { return m.sampleRate }

// Channels returns the output channel count
func (m *Mixer) Channels() int { return m.channels }

// NewChannel creates a channel and attaches it to the mix
func (m *Mixer) NewChannel() *Channel {
	ch := newChannel(m.sampleRate)

	m.mu.Lock()
	m.voices = append(m.voices, ch)
	m.mu.Unlock()

	return ch
}

// SetListener moves the point spatial channels are rendered relative to
func (m *Mixer) SetListener(pos audio.Vec3) {
	m.mu.Lock()
	m.listener = pos
	m.mu.Unlock()
}

// Listener returns the current listener position
func (m *Mixer) Listener() audio.Vec3 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listener
}

// Mix renders len(out)/channels frames of 24-bit range samples into out
func (m *Mixer) Mix(out []int32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	frames := len(out) / m.channels
	if cap(m.acc) < len(out) {
		m.acc = make([]float64, len(out))
	}
	acc := m.acc[:len(out)]
	for i := range acc {
		acc[i] = 0
	}

	for _, ch := range m.voices {
		ch.mixInto(acc, frames, m.channels, m.listener)
	}

	for i, v := range acc {
		out[i] = audio.ClampTo24Bit(v)
	}
}

// Read fills p with mixed signed 16-bit little-endian PCM.
// It always returns whole frames and is safe for concurrent readers.
func (m *Mixer) Read(p []byte) (int, error) {
	frameBytes := 2 * m.channels
	n := (len(p) / frameBytes) * frameBytes
	if n == 0 {
		return 0, nil
	}

	m.readMu.Lock()
	defer m.readMu.Unlock()

	samples := n / 2
	if cap(m.mixed) < samples {
		m.mixed = make([]int32, samples)
	}
	mixed := m.mixed[:samples]
	m.Mix(mixed)

	for i, s := range mixed {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(audio.SampleToInt16(s)))
	}
	return n, nil
}

// Active returns the number of channels currently producing sound
func (m *Mixer) Active() int {
	m.mu.Lock()
	voices := m.voices
	m.mu.Unlock()

	n := 0
	for _, ch := range voices {
		if ch.IsPlaying() {
			n++
		}
	}
	return n
}
