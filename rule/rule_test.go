package rule

import (
	"testing"

	"github.com/jsphweid/cadence/chord"
	"github.com/jsphweid/cadence/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func cMajor() chord.Key {
	return chord.Key{Tonic: 0, Mode: chord.ModeMajor}
}

func chordOf(notes ...uint8) model.Chord {
	c := model.Chord{Notes: notes}
	if len(notes) > 0 {
		c.Bass = notes[0] % 12
	}
	return c
}

func newValidator(t *testing.T, key chord.Key, ids ...string) *Validator {
	reg, err := DefaultRegistry([][2]string{{"V", "ii"}})
	assert.NoError(t, err)
	rules, err := reg.Enable(ids)
	assert.NoError(t, err)
	return NewValidator(key, rules, zap.NewNop())
}

// evaluate identifies each chord and runs it through the validator, the
// same sequence the pipeline performs.
func evaluate(v *Validator, chords ...model.Chord) []model.Verdict {
	ident := chord.NewIdentifier(0.5)
	var verdicts []model.Verdict
	for _, c := range chords {
		c.Identity = ident.Identify(c, v.Key())
		verdicts = append(verdicts, v.Evaluate(c))
	}
	return verdicts
}

func TestForbidsDominantToSupertonic(t *testing.T) {
	v := newValidator(t, cMajor(), "forbidden-transition")
	verdicts := evaluate(v,
		chordOf(60, 64, 67), // C (I)
		chordOf(67, 71, 74), // G (V)
		chordOf(62, 65, 69), // Dmin (ii)
	)

	assert := assert.New(t)
	assert.Equal(len(verdicts), 3)
	assert.True(verdicts[0].Passed)
	assert.True(verdicts[1].Passed)
	assert.False(verdicts[2].Passed)
	assert.Contains(verdicts[2].ViolatedRules, "forbidden-transition")
}

func TestVerdictCountMatchesChordCount(t *testing.T) {
	v := newValidator(t, cMajor(), "key-membership", "forbidden-transition")
	chords := []model.Chord{
		chordOf(60, 64, 67),
		chordOf(65, 69, 72),
		chordOf(67, 71, 74),
		chordOf(60, 64, 67),
	}
	verdicts := evaluate(v, chords...)

	assert.Equal(t, len(verdicts), len(chords))
}

func TestUnidentifiedChordFailsIdentityRulesWithoutHalting(t *testing.T) {
	v := newValidator(t, cMajor(),
		"forbidden-transition", "dominant-resolution", "no-direct-repeat")
	verdicts := evaluate(v,
		chordOf(60, 64, 67),
		chordOf(60, 61, 62, 63, 64, 65, 66, 67, 68, 69, 70, 71), // cluster
		chordOf(67, 71, 74),
	)

	assert := assert.New(t)
	assert.Equal(len(verdicts), 3)
	assert.False(verdicts[1].Passed)
	assert.Nil(verdicts[1].Identity)
	assert.Contains(verdicts[1].ViolatedRules, "forbidden-transition")
	assert.Contains(verdicts[1].ViolatedRules, "dominant-resolution")
	assert.Contains(verdicts[1].ViolatedRules, "no-direct-repeat")
	// the run continues past the unidentified chord
	assert.True(verdicts[2].Passed)
}

func TestKeyMembershipFlagsAccidentals(t *testing.T) {
	v := newValidator(t, cMajor(), "key-membership")
	verdicts := evaluate(v,
		chordOf(60, 64, 67), // C, diatonic
		chordOf(66, 70, 73), // F# A# C#, chromatic
	)

	assert := assert.New(t)
	assert.True(verdicts[0].Passed)
	assert.False(verdicts[1].Passed)
	assert.Contains(verdicts[1].ViolatedRules, "key-membership")
	assert.Contains(verdicts[1].Message, "F#")
}

func TestDominantMustResolve(t *testing.T) {
	assert := assert.New(t)

	v := newValidator(t, cMajor(), "dominant-resolution")
	verdicts := evaluate(v,
		chordOf(67, 71, 74), // G (V)
		chordOf(60, 64, 67), // C (I): fine
	)
	assert.True(verdicts[1].Passed)

	v = newValidator(t, cMajor(), "dominant-resolution")
	verdicts = evaluate(v,
		chordOf(67, 71, 74), // G (V)
		chordOf(65, 69, 72), // F (IV): not a resolution
	)
	assert.False(verdicts[1].Passed)
	assert.Contains(verdicts[1].ViolatedRules, "dominant-resolution")

	v = newValidator(t, cMajor(), "dominant-resolution")
	verdicts = evaluate(v,
		chordOf(67, 71, 74), // G (V)
		chordOf(69, 72, 76), // Am (vi): deceptive but allowed
	)
	assert.True(verdicts[1].Passed)
}

func TestNoDirectRepeat(t *testing.T) {
	v := newValidator(t, cMajor(), "no-direct-repeat")
	verdicts := evaluate(v,
		chordOf(60, 64, 67),
		chordOf(60, 64, 67),
	)

	assert := assert.New(t)
	assert.True(verdicts[0].Passed)
	assert.False(verdicts[1].Passed)
	assert.Contains(verdicts[1].ViolatedRules, "no-direct-repeat")
}

func TestModulationShiftsKeyContext(t *testing.T) {
	v := newValidator(t, cMajor(), "modulation-pivot")
	evaluate(v,
		chordOf(60, 64, 67), // C, no shift
		chordOf(63, 67, 70), // Eb major on a chromatic root: dominant of Ab
	)

	assert := assert.New(t)
	assert.Equal(v.Key(), chord.Key{Tonic: 8, Mode: chord.ModeMajor})
}

func TestUnknownRuleIsRejected(t *testing.T) {
	reg, err := DefaultRegistry(nil)
	assert.NoError(t, err)

	_, err = reg.Enable([]string{"no-such-rule"})
	assert.Error(t, err)
}
