package chord

import (
	"fmt"
	"strings"

	"github.com/jsphweid/cadence/model"
)

var solfegeNames = [12]string{
	"Do", "Do#", "Ré", "Ré#", "Mi", "Fa", "Fa#", "Sol", "Sol#", "La", "La#", "Si",
}

// Solfege renders a MIDI note number in fixed-do solfège with its octave,
// middle C being Do4.
func Solfege(note uint8) string {
	return fmt.Sprintf("%v%d", solfegeNames[note%12], int(note)/12-1)
}

// Spell renders every note of a chord in solfège.
func Spell(notes model.Notes) string {
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = Solfege(n)
	}
	return strings.Join(parts, " ")
}
