package chord

import (
	"fmt"
	"strings"

	"github.com/jsphweid/cadence/model"
)

type Mode uint8

const (
	ModeMajor Mode = iota
	ModeMinor
)

var majorScale = [7]uint8{0, 2, 4, 5, 7, 9, 11}
var minorScale = [7]uint8{0, 2, 3, 5, 7, 8, 10}

// Key is a key context: tonic pitch class plus mode.
type Key struct {
	Tonic uint8
	Mode  Mode
}

var tonicNames = map[string]uint8{
	"c": 0, "c#": 1, "db": 1, "d": 2, "d#": 3, "eb": 3, "e": 4, "f": 5,
	"f#": 6, "gb": 6, "g": 7, "g#": 8, "ab": 8, "a": 9, "a#": 10,
	"bb": 10, "b": 11,
}

// ParseKey reads key signatures like "C major", "f# minor" or "Bb".
// Mode defaults to major.
func ParseKey(s string) (Key, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) == 0 || len(fields) > 2 {
		return Key{}, fmt.Errorf("cannot parse key signature %q", s)
	}

	tonic, ok := tonicNames[fields[0]]
	if !ok {
		return Key{}, fmt.Errorf("unknown tonic %q in key signature %q", fields[0], s)
	}

	k := Key{Tonic: tonic}
	if len(fields) == 2 {
		switch fields[1] {
		case "major", "maj":
		case "minor", "min":
			k.Mode = ModeMinor
		default:
			return Key{}, fmt.Errorf("unknown mode %q in key signature %q", fields[1], s)
		}
	}
	return k, nil
}

func (k Key) scale() [7]uint8 {
	if k.Mode == ModeMinor {
		return minorScale
	}
	return majorScale
}

// Contains reports whether the pitch class is diatonic to the key. Minor
// keys also admit the raised leading tone.
func (k Key) Contains(pc uint8) bool {
	rel := (pc + 12 - k.Tonic) % 12
	for _, iv := range k.scale() {
		if rel == iv {
			return true
		}
	}
	return k.Mode == ModeMinor && rel == 11
}

// DegreeOf maps a pitch class to its scale degree 1-7, or false when the
// pitch class is chromatic.
func (k Key) DegreeOf(pc uint8) (int, bool) {
	rel := (pc + 12 - k.Tonic) % 12
	for i, iv := range k.scale() {
		if rel == iv {
			return i + 1, true
		}
	}
	return 0, false
}

// DegreePitch returns the pitch class of a scale degree 1-7.
func (k Key) DegreePitch(degree int) uint8 {
	return (k.Tonic + k.scale()[degree-1]) % 12
}

func (k Key) String() string {
	mode := "major"
	if k.Mode == ModeMinor {
		mode = "minor"
	}
	return model.PitchClassName(k.Tonic) + " " + mode
}

var romanDegrees = map[string]int{
	"i": 1, "ii": 2, "iii": 3, "iv": 4, "v": 5, "vi": 6, "vii": 7,
}

// ParseDegree reads a roman-numeral scale degree like "V" or "ii".
func ParseDegree(s string) (int, error) {
	d, ok := romanDegrees[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("cannot parse scale degree %q", s)
	}
	return d, nil
}
