// ABOUTME: Reverb preset definitions
// ABOUTME: Named per-voice reverb sends understood by playback devices
package audio

import (
	"fmt"
	"strings"
)

// ReverbPreset selects the reverb send applied to a single voice
type ReverbPreset int

const (
	ReverbOff ReverbPreset = iota
	ReverbGeneric
	ReverbRoom
	ReverbBathroom
	ReverbHallway
	ReverbCave
	ReverbArena
	ReverbHangar
	ReverbAlley
	ReverbForest
	ReverbCity
	ReverbMountains
	ReverbUnderwater
)

var reverbNames = [...]string{
	ReverbOff:        "off",
	ReverbGeneric:    "generic",
	ReverbRoom:       "room",
	ReverbBathroom:   "bathroom",
	ReverbHallway:    "hallway",
	ReverbCave:       "cave",
	ReverbArena:      "arena",
	ReverbHangar:     "hangar",
	ReverbAlley:      "alley",
	ReverbForest:     "forest",
	ReverbCity:       "city",
	ReverbMountains:  "mountains",
	ReverbUnderwater: "underwater",
}

func (p ReverbPreset) String() string {
	if p < 0 || int(p) >= len(reverbNames) {
		return fmt.Sprintf("ReverbPreset(%d)", int(p))
	}
	return reverbNames[p]
}

// ParseReverbPreset resolves a preset by its lower-case name
func ParseReverbPreset(name string) (ReverbPreset, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ReverbOff, nil
	}
	for i, n := range reverbNames {
		if n == name {
			return ReverbPreset(i), nil
		}
	}
	return ReverbOff, fmt.Errorf("unknown reverb preset: %s", name)
}
