package chord

import (
	"fmt"
	"sort"

	"github.com/jsphweid/cadence/model"
)

type template struct {
	quality   model.Quality
	intervals []uint8
	weight    float64
}

// Triads first, then sevenths, then suspensions. Order matters: on equal
// scores the earlier template wins, which keeps plain interpretations ahead
// of ambiguous ones.
var templates = []template{
	{model.QualityMajor, []uint8{0, 4, 7}, 1.0},
	{model.QualityMinor, []uint8{0, 3, 7}, 1.0},
	{model.QualityDiminished, []uint8{0, 3, 6}, 0.85},
	{model.QualityAugmented, []uint8{0, 4, 8}, 0.85},
	{model.QualityDom7, []uint8{0, 4, 7, 10}, 0.95},
	{model.QualityMaj7, []uint8{0, 4, 7, 11}, 0.95},
	{model.QualityMin7, []uint8{0, 3, 7, 10}, 0.95},
	{model.QualityDim7, []uint8{0, 3, 6, 9}, 0.9},
	{model.QualityHalfDim7, []uint8{0, 3, 6, 10}, 0.9},
	{model.QualitySus2, []uint8{0, 2, 7}, 0.8},
	{model.QualitySus4, []uint8{0, 5, 7}, 0.8},
}

// CreateChordKey builds a canonical string key for a set of notes.
func CreateChordKey(notes []uint8) string {
	sorted := make([]uint8, len(notes))
	copy(sorted, notes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	var res string
	for i, note := range sorted {
		res += fmt.Sprintf("%v", note)
		if i < len(sorted)-1 {
			res += "-"
		}
	}
	return res
}

// Identifier resolves pitch-class sets to chord identities by template
// matching. Results are memoized per pitch set and key context, so
// identification is deterministic and cheap for repeated chords.
type Identifier struct {
	threshold float64
	cache     map[string]*model.Identity
}

func NewIdentifier(threshold float64) *Identifier {
	return &Identifier{
		threshold: threshold,
		cache:     make(map[string]*model.Identity),
	}
}

// Identify resolves a chord's identity under the key context, or nil when
// no interpretation scores above the confidence threshold. A nil identity
// is a legitimate outcome, not an error.
func (id *Identifier) Identify(c model.Chord, k Key) *model.Identity {
	pcs := c.PitchClasses()
	if len(pcs) == 0 {
		return nil
	}

	cacheKey := CreateChordKey(pcs) + "|" + fmt.Sprintf("%v", c.Bass) + "|" + k.String()
	if cached, ok := id.cache[cacheKey]; ok {
		return cached
	}

	res := identify(pcs, c.Bass, k, id.threshold)
	id.cache[cacheKey] = res
	return res
}

func identify(pcs []uint8, bass uint8, k Key, threshold float64) *model.Identity {
	var best *model.Identity
	var bestScore float64

	// lowest root wins ties: roots ascend and only a strictly better
	// score displaces the incumbent
	for root := uint8(0); root < 12; root++ {
		for _, t := range templates {
			score := scoreTemplate(pcs, root, t, k)
			if score > bestScore {
				bestScore = score
				best = &model.Identity{
					Root:       root,
					Quality:    t.quality,
					Inversion:  inversion(root, t.intervals, bass),
					Confidence: score,
				}
			}
		}
	}

	if best == nil || best.Confidence < threshold {
		return nil
	}
	return best
}

// scoreTemplate rates an interpretation: full chord-tone coverage scores
// highest, extra tones dilute it, and each accidental against the key
// signature costs a little more.
func scoreTemplate(pcs []uint8, root uint8, t template, k Key) float64 {
	tones := make(map[uint8]bool, len(t.intervals))
	for _, iv := range t.intervals {
		tones[(root+iv)%12] = true
	}

	var matched, extra, accidentals int
	rootPresent := false
	for _, pc := range pcs {
		if tones[pc] {
			matched++
		} else {
			extra++
		}
		if pc == root {
			rootPresent = true
		}
		if !k.Contains(pc) {
			accidentals++
		}
	}
	if !rootPresent || matched < 2 {
		return 0
	}

	raw := float64(matched) / float64(len(t.intervals)+extra)
	score := t.weight*raw - 0.02*float64(accidentals)
	if score < 0 {
		return 0
	}
	return score
}

func inversion(root uint8, intervals []uint8, bass uint8) uint8 {
	for i, iv := range intervals {
		if (root+iv)%12 == bass {
			return uint8(i)
		}
	}
	return 0
}
