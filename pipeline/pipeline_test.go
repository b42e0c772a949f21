package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jsphweid/cadence/chord"
	"github.com/jsphweid/cadence/config"
	"github.com/jsphweid/cadence/model"
	"github.com/jsphweid/cadence/rule"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const ms = int64(1000)

// sliceSource replays a fixed event list, standing in for a MIDI file or
// port.
type sliceSource struct {
	events chan model.RawEvent
}

func newSliceSource(events []model.RawEvent) *sliceSource {
	ch := make(chan model.RawEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return &sliceSource{events: ch}
}

func (s *sliceSource) Events() <-chan model.RawEvent { return s.events }
func (s *sliceSource) Close() error                  { return nil }

func strike(notes []uint8, atMs, durMs int64) []model.RawEvent {
	var evs []model.RawEvent
	for _, n := range notes {
		evs = append(evs, model.RawEvent{Note: n, Velocity: 100, Offset: atMs * ms})
	}
	for _, n := range notes {
		evs = append(evs, model.RawEvent{Note: n, IsNoteOff: true, Offset: (atMs + durMs) * ms})
	}
	return evs
}

func testRules(t *testing.T, cfg *config.Config) []rule.Rule {
	reg, err := rule.DefaultRegistry(cfg.TransitionPairs())
	assert.NoError(t, err)
	rules, err := reg.Enable(cfg.Rules)
	assert.NoError(t, err)
	return rules
}

func TestRunEmitsOneVerdictPerChord(t *testing.T) {
	cfg := config.Default()
	var events []model.RawEvent
	events = append(events, strike([]uint8{60, 64, 67}, 0, 400)...)
	events = append(events, strike([]uint8{65, 69, 72}, 600, 400)...)
	events = append(events, strike([]uint8{67, 71, 74}, 1200, 400)...)

	var out bytes.Buffer
	p := New(cfg, chord.Key{}, testRules(t, cfg), &out, zap.NewNop())
	err := p.Run(context.Background(), newSliceSource(events), nil)

	assert := assert.New(t)
	assert.NoError(err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(len(lines), 4) // three verdicts plus the summary
	assert.Contains(lines[0], "[0] PASS Cmaj")
	assert.Contains(lines[1], "[1] PASS Fmaj")
	assert.Contains(lines[2], "[2] PASS Gmaj")
	assert.Contains(lines[3], "3 chords")
}

func TestRunSurvivesOrphanNoteOff(t *testing.T) {
	cfg := config.Default()
	events := []model.RawEvent{
		{Note: 64, IsNoteOff: true, Offset: 0}, // orphan
	}
	events = append(events, strike([]uint8{60, 64, 67}, 10, 400)...)
	events = append(events, strike([]uint8{67, 71, 74}, 600, 400)...)

	var out bytes.Buffer
	p := New(cfg, chord.Key{}, testRules(t, cfg), &out, zap.NewNop())
	err := p.Run(context.Background(), newSliceSource(events), nil)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Contains(out.String(), "2 chords")
}

func TestRunFlushesPartialWindowOnStop(t *testing.T) {
	cfg := config.Default()
	events := []model.RawEvent{
		{Note: 60, Velocity: 100, Offset: 0},
		{Note: 64, Velocity: 100, Offset: 2 * ms},
		// never released: end of stream must still close the window
	}

	var out bytes.Buffer
	p := New(cfg, chord.Key{}, testRules(t, cfg), &out, zap.NewNop())
	err := p.Run(context.Background(), newSliceSource(events), nil)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Contains(out.String(), "1 chords")
}

func TestValidateSetsFlagsForbiddenTransition(t *testing.T) {
	cfg := config.Default()
	key := chord.Key{Tonic: 0, Mode: chord.ModeMajor}

	verdicts := ValidateSets(cfg, key, testRules(t, cfg), []model.Notes{
		{60, 64, 67}, // C (I)
		{67, 71, 74}, // G (V)
		{62, 65, 69}, // Dmin (ii)
	}, zap.NewNop())

	assert := assert.New(t)
	assert.Equal(len(verdicts), 3)
	assert.True(verdicts[0].Passed)
	assert.True(verdicts[1].Passed)
	assert.False(verdicts[2].Passed)
	assert.Contains(verdicts[2].ViolatedRules, "forbidden-transition")
}
