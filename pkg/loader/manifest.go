// ABOUTME: Asset manifest mapping friendly clip names to asset IDs
// ABOUTME: Generated by walking a directory of audio files, stored as YAML
package loader

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio/decode"
	"gopkg.in/yaml.v3"
)

// Manifest maps clip names to asset IDs relative to the asset root
type Manifest struct {
	Clips map[string]string `yaml:"clips"`
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// ClipName strips everything but Unicode letters, digits and underscores from a
// file's base name, e.g. "ChippySurge (From the game Surge)" becomes
// "ChippySurgeFromthegameSurge".
func ClipName(base string) string {
	return nonWord.ReplaceAllString(base, "")
}

// GenerateManifest walks root for decodable audio files and names each one
// with ClipName. Files whose names collide get a numeric suffix in walk order.
func GenerateManifest(root string) (*Manifest, error) {
	m := &Manifest{Clips: make(map[string]string)}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !decode.Supported(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		base := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		name := ClipName(base)
		if name == "" {
			return nil
		}

		unique := name
		for n := 2; ; n++ {
			if _, taken := m.Clips[unique]; !taken {
				break
			}
			unique = name + strconv.Itoa(n)
		}
		m.Clips[unique] = filepath.ToSlash(rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return m, nil
}

// ReadManifest decodes a YAML manifest
func ReadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Clips == nil {
		m.Clips = make(map[string]string)
	}
	return &m, nil
}

// LoadManifest reads a YAML manifest file
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()
	return ReadManifest(f)
}

// Write encodes the manifest as YAML with names sorted
func (m *Manifest) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return enc.Close()
}

// Resolve returns the asset ID registered under name
func (m *Manifest) Resolve(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	id, ok := m.Clips[name]
	return id, ok
}

// Names returns the clip names in sorted order
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Clips))
	for name := range m.Clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
