package rule

import (
	"strings"

	"github.com/jsphweid/cadence/chord"
	"github.com/jsphweid/cadence/model"
	"go.uber.org/zap"
)

// Validator walks the chord sequence carrying (previous identity, key
// context) and produces one verdict per chord. The first chord is judged
// against a nil previous identity.
type Validator struct {
	rules []Rule
	key   chord.Key
	prev  *model.Identity
	index int
	log   *zap.Logger
}

func NewValidator(key chord.Key, rules []Rule, log *zap.Logger) *Validator {
	return &Validator{rules: rules, key: key, log: log}
}

// Key returns the key context currently in force.
func (v *Validator) Key() chord.Key {
	return v.key
}

// Evaluate runs every enabled rule against the next chord and advances the
// state machine. Unidentified chords flow through; they fail whichever
// rules need an identity but never halt the run.
func (v *Validator) Evaluate(c model.Chord) model.Verdict {
	ctx := Context{Prev: v.prev, Curr: c.Identity, Chord: c, Key: v.key}
	verdict := model.Verdict{
		ChordIndex: v.index,
		Passed:     true,
		Identity:   c.Identity,
		Notes:      c.Notes,
	}

	var details []string
	for _, r := range v.rules {
		ok, detail := r.Check(ctx)
		if !ok {
			verdict.Passed = false
			verdict.ViolatedRules = append(verdict.ViolatedRules, r.ID())
			if detail != "" {
				details = append(details, detail)
			}
		}
		if ku, isUpdater := r.(KeyUpdater); isUpdater {
			if next, shift := ku.NewKey(ctx); shift && next != v.key {
				v.log.Info("key context modulated",
					zap.String("from", v.key.String()),
					zap.String("to", next.String()),
					zap.Int("chord", v.index))
				v.key = next
			}
		}
	}
	verdict.Message = strings.Join(details, "; ")

	v.prev = c.Identity
	v.index++
	return verdict
}
