package rule

import (
	"fmt"
	"strings"

	"github.com/jsphweid/cadence/chord"
	"github.com/jsphweid/cadence/model"
)

var romanNumerals = [7]string{"I", "II", "III", "IV", "V", "VI", "VII"}

func roman(degree int, q model.Quality) string {
	s := romanNumerals[degree-1]
	switch q {
	case model.QualityMinor, model.QualityMin7, model.QualityDiminished,
		model.QualityDim7, model.QualityHalfDim7:
		return strings.ToLower(s)
	}
	return s
}

// KeyMembership requires every sounded pitch class to be diatonic to the
// current key. It judges the raw pitch set, so it applies to unidentified
// chords too.
type KeyMembership struct{}

func (KeyMembership) ID() string { return "key-membership" }

func (KeyMembership) Check(ctx Context) (bool, string) {
	var foreign []string
	for _, pc := range ctx.Chord.PitchClasses() {
		if !ctx.Key.Contains(pc) {
			foreign = append(foreign, model.PitchClassName(pc))
		}
	}
	if len(foreign) == 0 {
		return true, ""
	}
	return false, fmt.Sprintf("%v outside %v", strings.Join(foreign, ","), ctx.Key)
}

// ForbiddenTransitions fails any step whose (previous, current) scale
// degrees appear in its table.
type ForbiddenTransitions struct {
	pairs [][2]int
}

// NewForbiddenTransitions builds the rule from roman-numeral degree pairs,
// e.g. {"V", "ii"}.
func NewForbiddenTransitions(pairs [][2]string) (ForbiddenTransitions, error) {
	var res ForbiddenTransitions
	for _, p := range pairs {
		from, err := chord.ParseDegree(p[0])
		if err != nil {
			return res, err
		}
		to, err := chord.ParseDegree(p[1])
		if err != nil {
			return res, err
		}
		res.pairs = append(res.pairs, [2]int{from, to})
	}
	return res, nil
}

func (ForbiddenTransitions) ID() string { return "forbidden-transition" }

func (f ForbiddenTransitions) Check(ctx Context) (bool, string) {
	if ctx.Curr == nil {
		return false, "unidentified chord"
	}
	if ctx.Prev == nil {
		return true, ""
	}

	fromDeg, ok := ctx.Key.DegreeOf(ctx.Prev.Root)
	if !ok {
		return true, ""
	}
	toDeg, ok := ctx.Key.DegreeOf(ctx.Curr.Root)
	if !ok {
		return true, ""
	}

	for _, p := range f.pairs {
		if p[0] == fromDeg && p[1] == toDeg {
			return false, fmt.Sprintf("%v to %v is forbidden",
				roman(fromDeg, ctx.Prev.Quality), roman(toDeg, ctx.Curr.Quality))
		}
	}
	return true, ""
}

// DominantResolution requires a dominant-function chord (major or dominant
// seventh on the fifth degree) to resolve to the tonic or, deceptively, to
// the sixth degree.
type DominantResolution struct{}

func (DominantResolution) ID() string { return "dominant-resolution" }

func (DominantResolution) Check(ctx Context) (bool, string) {
	if ctx.Curr == nil {
		return false, "unidentified chord"
	}
	if ctx.Prev == nil {
		return true, ""
	}

	prevDeg, ok := ctx.Key.DegreeOf(ctx.Prev.Root)
	if !ok || prevDeg != 5 {
		return true, ""
	}
	if ctx.Prev.Quality != model.QualityMajor && ctx.Prev.Quality != model.QualityDom7 {
		return true, ""
	}

	currDeg, ok := ctx.Key.DegreeOf(ctx.Curr.Root)
	if ok && (currDeg == 1 || currDeg == 6) {
		return true, ""
	}
	return false, fmt.Sprintf("dominant must resolve to I or vi, got %v", ctx.Curr)
}

// NoDirectRepeat fails a chord that restates the previous identity
// (inversion changes are allowed).
type NoDirectRepeat struct{}

func (NoDirectRepeat) ID() string { return "no-direct-repeat" }

func (NoDirectRepeat) Check(ctx Context) (bool, string) {
	if ctx.Curr == nil {
		return false, "unidentified chord"
	}
	if ctx.Prev == nil {
		return true, ""
	}
	if ctx.Prev.Same(*ctx.Curr) {
		return false, fmt.Sprintf("%v repeated", ctx.Curr)
	}
	return true, ""
}

// ModulationPivot never fails a step; it shifts the key context when a
// major or dominant-seventh chord is built on a chromatic root, treating
// it as the dominant of the destination key.
type ModulationPivot struct{}

func (ModulationPivot) ID() string { return "modulation-pivot" }

func (ModulationPivot) Check(ctx Context) (bool, string) {
	return true, ""
}

func (ModulationPivot) NewKey(ctx Context) (chord.Key, bool) {
	if ctx.Curr == nil {
		return chord.Key{}, false
	}
	if ctx.Curr.Quality != model.QualityMajor && ctx.Curr.Quality != model.QualityDom7 {
		return chord.Key{}, false
	}
	if ctx.Key.Contains(ctx.Curr.Root) {
		return chord.Key{}, false
	}
	return chord.Key{Tonic: (ctx.Curr.Root + 5) % 12, Mode: chord.ModeMajor}, true
}
