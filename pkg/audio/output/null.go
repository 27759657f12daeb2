// ABOUTME: Headless audio outputs
// ABOUTME: Drain the mixer in real time, discarding or recording to WAV
package output

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// drainInterval is how often headless outputs pull from the mixer
const drainInterval = 10 * time.Millisecond

// drainer pulls src at real-time rate and hands each chunk to sink
type drainer struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func (d *drainer) start(src io.Reader, sampleRate, channels int, sink func([]byte) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		return fmt.Errorf("output already open")
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})

	chunk := make([]byte, sampleRate*channels*2*int(drainInterval/time.Millisecond)/1000)
	go func() {
		defer close(d.done)
		ticker := time.NewTicker(drainInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := src.Read(chunk)
				if err != nil {
					return
				}
				if sink != nil {
					if err := sink(chunk[:n]); err != nil {
						return
					}
				}
			}
		}
	}()
	return nil
}

func (d *drainer) stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel = nil
	d.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Null discards audio while still advancing playback in real time
type Null struct {
	drainer
}

// NewNull creates a headless output
func NewNull() *Null {
	return &Null{}
}

// Open starts draining src
func (n *Null) Open(src io.Reader, sampleRate, channels int) error {
	return n.start(src, sampleRate, channels, nil)
}

// Close stops draining
func (n *Null) Close() error {
	n.stop()
	return nil
}

// WAVFile records the mixed stream to a 16-bit WAV file
type WAVFile struct {
	drainer
	path    string
	file    *os.File
	encoder *wav.Encoder
}

// NewWAVFile creates an output recording to path
func NewWAVFile(path string) *WAVFile {
	return &WAVFile{path: path}
}

// Open creates the file and starts recording
func (w *WAVFile) Open(src io.Reader, sampleRate, channels int) error {
	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create wav output: %w", err)
	}
	w.file = f
	w.encoder = wav.NewEncoder(f, sampleRate, 16, channels, 1)

	format := &goaudio.Format{NumChannels: channels, SampleRate: sampleRate}
	sink := func(chunk []byte) error {
		data := make([]int, len(chunk)/2)
		for i := range data {
			data[i] = int(int16(binary.LittleEndian.Uint16(chunk[i*2:])))
		}
		return w.encoder.Write(&goaudio.IntBuffer{Format: format, Data: data, SourceBitDepth: 16})
	}

	if err := w.start(src, sampleRate, channels, sink); err != nil {
		f.Close()
		return err
	}
	return nil
}

// Close stops recording and finalises the WAV header
func (w *WAVFile) Close() error {
	w.stop()
	if w.encoder == nil {
		return nil
	}

	err := w.encoder.Close()
	if closeErr := w.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	w.encoder = nil
	w.file = nil
	return err
}
