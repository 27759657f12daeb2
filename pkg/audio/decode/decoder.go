// ABOUTME: Decoder interface definition and extension registry
// ABOUTME: Common interface for whole-clip audio decoders
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
)

// ErrUnsupportedFormat is returned for file extensions no decoder handles
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Decoder decodes a complete encoded sound into a Clip
type Decoder interface {
	// Decode reads the whole stream and returns the decoded clip
	Decode(r io.ReadSeeker) (*audio.Clip, error)
}

// DecoderFunc adapts a function to the Decoder interface
type DecoderFunc func(r io.ReadSeeker) (*audio.Clip, error)

// Decode calls f(r)
func (f DecoderFunc) Decode(r io.ReadSeeker) (*audio.Clip, error) { return f(r) }

var decoders = map[string]Decoder{
	".wav":  DecoderFunc(decodeWAV),
	".mp3":  DecoderFunc(decodeMP3),
	".flac": DecoderFunc(decodeFLAC),
	".opus": DecoderFunc(decodeOpus),
	".ogg":  DecoderFunc(decodeOpus),
	".pcm":  mustPCM(DefaultPCMFormat),
	".raw":  mustPCM(DefaultPCMFormat),
}

// ForExtension returns the decoder registered for a file extension (".wav", ".mp3", ...)
func ForExtension(ext string) (Decoder, error) {
	d, ok := decoders[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return d, nil
}

// Supported reports whether a path has a decodable extension
func Supported(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions lists the registered extensions in sorted order
func Extensions() []string {
	exts := make([]string, 0, len(decoders))
	for ext := range decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// File decodes an audio file, naming the clip after the file
func File(path string) (*audio.Clip, error) {
	ext := filepath.Ext(path)
	d, err := ForExtension(ext)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	clip, err := d.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	clip.Name = strings.TrimSuffix(filepath.Base(path), ext)
	return clip, nil
}
