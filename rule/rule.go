// Package rule evaluates chord progressions against harmonic rules.
package rule

import (
	"fmt"

	"github.com/jsphweid/cadence/chord"
	"github.com/jsphweid/cadence/model"
)

// Context is what a rule sees for one step of the progression: the
// previous and current identities (either may be nil), the raw chord, and
// the key context in force.
type Context struct {
	Prev  *model.Identity
	Curr  *model.Identity
	Chord model.Chord
	Key   chord.Key
}

// Rule is a predicate over one progression step. Check returns whether the
// step passes plus a human-readable detail when it doesn't.
type Rule interface {
	ID() string
	Check(ctx Context) (bool, string)
}

// KeyUpdater is implemented by rules that can shift the key context. The
// validator applies the shift after evaluating the step, so updates are
// monotonic and never reinterpret past verdicts.
type KeyUpdater interface {
	NewKey(ctx Context) (chord.Key, bool)
}

// Registry holds the known rules keyed by identifier.
type Registry struct {
	rules map[string]Rule
}

// DefaultRegistry returns a registry with every built-in rule, the
// forbidden-transition table seeded from the given degree pairs.
func DefaultRegistry(forbidden [][2]string) (*Registry, error) {
	ft, err := NewForbiddenTransitions(forbidden)
	if err != nil {
		return nil, err
	}

	r := &Registry{rules: make(map[string]Rule)}
	r.Register(KeyMembership{})
	r.Register(ft)
	r.Register(DominantResolution{})
	r.Register(NoDirectRepeat{})
	r.Register(ModulationPivot{})
	return r, nil
}

func (r *Registry) Register(rule Rule) {
	r.rules[rule.ID()] = rule
}

// Enable resolves an ordered list of rule identifiers.
func (r *Registry) Enable(ids []string) ([]Rule, error) {
	res := make([]Rule, 0, len(ids))
	for _, id := range ids {
		rule, ok := r.rules[id]
		if !ok {
			return nil, fmt.Errorf("unknown rule %q", id)
		}
		res = append(res, rule)
	}
	return res, nil
}
