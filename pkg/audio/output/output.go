// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for backends that pull mixed PCM from the mixer
package output

import (
	"fmt"
	"io"
	"strings"
)

// Output represents an audio output device
type Output interface {
	// Open starts pulling signed 16-bit little-endian interleaved PCM from src
	Open(src io.Reader, sampleRate, channels int) error

	// Close releases output resources
	Close() error
}

// New selects a backend by name: "oto", "malgo", "null" or "wav:<path>"
func New(name string) (Output, error) {
	switch {
	case name == "" || name == "oto":
		return NewOto(), nil
	case name == "malgo":
		return NewMalgo(), nil
	case name == "null":
		return NewNull(), nil
	case strings.HasPrefix(name, "wav:"):
		path := strings.TrimPrefix(name, "wav:")
		if path == "" {
			return nil, fmt.Errorf("wav backend requires a file path")
		}
		return NewWAVFile(path), nil
	default:
		return nil, fmt.Errorf("unknown output backend: %s", name)
	}
}
