package model

import "sort"

type Quality uint8

const (
	QualityMajor Quality = iota
	QualityMinor
	QualityDiminished
	QualityAugmented
	QualitySus2
	QualitySus4
	QualityDom7
	QualityMaj7
	QualityMin7
	QualityDim7
	QualityHalfDim7
)

var qualityNames = map[Quality]string{
	QualityMajor:      "maj",
	QualityMinor:      "min",
	QualityDiminished: "dim",
	QualityAugmented:  "aug",
	QualitySus2:       "sus2",
	QualitySus4:       "sus4",
	QualityDom7:       "dom7",
	QualityMaj7:       "maj7",
	QualityMin7:       "min7",
	QualityDim7:       "dim7",
	QualityHalfDim7:   "m7b5",
}

func (q Quality) String() string {
	return qualityNames[q]
}

// IsTriad reports whether the quality is a plain three-note chord.
func (q Quality) IsTriad() bool {
	switch q {
	case QualityMajor, QualityMinor, QualityDiminished, QualityAugmented:
		return true
	}
	return false
}

// IsSeventh reports whether the quality is a four-note seventh chord.
func (q Quality) IsSeventh() bool {
	switch q {
	case QualityDom7, QualityMaj7, QualityMin7, QualityDim7, QualityHalfDim7:
		return true
	}
	return false
}

var pitchClassNames = [12]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// PitchClassName returns the conventional sharp spelling for a pitch class.
func PitchClassName(pc uint8) string {
	return pitchClassNames[pc%12]
}

// Identity is a resolved chord interpretation. Root is a pitch class 0-11,
// Inversion 0 means root position. Confidence is the identification score
// in [0, 1].
type Identity struct {
	Root       uint8
	Quality    Quality
	Inversion  uint8
	Confidence float64
}

func (i Identity) String() string {
	s := PitchClassName(i.Root) + i.Quality.String()
	if i.Inversion > 0 {
		s += "/" + []string{"", "1st", "2nd", "3rd"}[i.Inversion]
	}
	return s
}

// Same reports whether two identities name the same chord, ignoring
// inversion and confidence.
func (i Identity) Same(o Identity) bool {
	return i.Root == o.Root && i.Quality == o.Quality
}

// Chord is a window of overlapping notes. Notes holds the distinct MIDI
// note numbers sorted ascending; Bass is the pitch class of the lowest one.
// Start and End bound the window in stream microseconds. Identity stays nil
// until the identifier resolves it, and may remain nil (unidentified).
type Chord struct {
	Notes    Notes
	Bass     uint8
	Start    int64
	End      int64
	Events   []NoteEvent
	Identity *Identity
}

// PitchClasses returns the distinct pitch classes of the chord, ascending.
func (c Chord) PitchClasses() []uint8 {
	seen := make(map[uint8]bool)
	var res []uint8
	for _, n := range c.Notes {
		pc := n % 12
		if !seen[pc] {
			seen[pc] = true
			res = append(res, pc)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}
