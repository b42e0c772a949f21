package window

import (
	"sort"
	"time"

	"github.com/jsphweid/cadence/model"
	"github.com/jsphweid/cadence/util"
	"go.uber.org/zap"
)

// Aggregator groups overlapping note events into chord windows. It is a
// plain single-owner value: callers feed it events one at a time and collect
// whatever windows the event closed. A window closes when every note in it
// has received its note-off, or is cut short when a note-on arrives more
// than the silence threshold after the last event. A naturally closed
// window is held back for the simultaneity epsilon so that a ragged attack
// (release and re-press overlapping within the epsilon) still lands in one
// window.
type Aggregator struct {
	silence int64
	epsilon int64
	log     *zap.Logger

	held     map[uint8]model.NoteEvent
	dangling map[uint8]bool
	events   []model.NoteEvent
	start    int64
	last     int64
	open     bool
	pending  *model.Chord
}

func New(silence, epsilon time.Duration, log *zap.Logger) *Aggregator {
	return &Aggregator{
		silence:  silence.Microseconds(),
		epsilon:  epsilon.Microseconds(),
		log:      log,
		held:     make(map[uint8]model.NoteEvent),
		dangling: make(map[uint8]bool),
	}
}

// Feed consumes one raw event and returns the chord windows it closed,
// usually none or one.
func (a *Aggregator) Feed(ev model.RawEvent) []model.Chord {
	if ev.IsNoteOff {
		return a.feedOff(ev)
	}
	return a.feedOn(ev)
}

func (a *Aggregator) feedOn(ev model.RawEvent) []model.Chord {
	var out []model.Chord

	if a.pending != nil {
		if ev.Offset-a.pending.End <= a.epsilon {
			// simultaneous with the close, rejoin the window
			a.open = true
			a.start = a.pending.Start
			a.events = a.pending.Events
			a.last = a.pending.End
			a.pending = nil
		} else {
			out = append(out, *a.pending)
			a.pending = nil
		}
	}

	if a.open && ev.Offset-a.last > a.silence {
		out = append(out, a.forceClose(ev.Offset))
	}

	if !a.open {
		a.open = true
		a.start = ev.Offset
		a.events = nil
	}

	// a re-struck note without an off completes the earlier strike
	if prev, ok := a.held[ev.Note]; ok {
		prev.Duration = ev.Offset - prev.Onset
		a.events = append(a.events, prev)
	}

	a.held[ev.Note] = model.NoteEvent{Note: ev.Note, Velocity: ev.Velocity, Onset: ev.Offset}
	a.last = ev.Offset
	return out
}

func (a *Aggregator) feedOff(ev model.RawEvent) []model.Chord {
	ne, ok := a.held[ev.Note]
	if !ok {
		if a.dangling[ev.Note] {
			delete(a.dangling, ev.Note)
			return nil
		}
		a.log.Warn("orphan note-off, dropping event",
			zap.Uint8("note", ev.Note),
			zap.Int64("offset", ev.Offset))
		return nil
	}

	ne.Duration = ev.Offset - ne.Onset
	a.events = append(a.events, ne)
	delete(a.held, ev.Note)
	a.last = ev.Offset

	if a.open && len(a.held) == 0 {
		c := a.build(ev.Offset)
		a.pending = &c
		a.open = false
		a.events = nil
	}
	return nil
}

// Flush closes whatever window is still in flight, either at end of stream
// or when a quiescence timer fires mid-stream. Truncated notes are
// remembered so their eventual note-offs don't count as orphans.
func (a *Aggregator) Flush() []model.Chord {
	var out []model.Chord
	if a.pending != nil {
		out = append(out, *a.pending)
		a.pending = nil
	}
	if a.open {
		for _, note := range util.GetKeysSorted(a.held) {
			ne := a.held[note]
			ne.Duration = a.last - ne.Onset
			a.events = append(a.events, ne)
			delete(a.held, note)
			a.dangling[note] = true
		}
		out = append(out, a.build(a.last))
		a.open = false
		a.events = nil
	}
	return out
}

// forceClose truncates still-held notes at the cut point. Their eventual
// note-offs are remembered so they don't count as orphans.
func (a *Aggregator) forceClose(at int64) model.Chord {
	for _, note := range util.GetKeysSorted(a.held) {
		ne := a.held[note]
		ne.Duration = at - ne.Onset
		a.events = append(a.events, ne)
		delete(a.held, note)
		a.dangling[note] = true
	}
	c := a.build(at)
	a.open = false
	a.events = nil
	return c
}

func (a *Aggregator) build(end int64) model.Chord {
	seen := make(map[uint8]bool)
	var notes model.Notes
	for _, ne := range a.events {
		if !seen[ne.Note] {
			seen[ne.Note] = true
			notes = append(notes, ne.Note)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i] < notes[j] })

	var bass uint8
	if len(notes) > 0 {
		bass = notes[0] % 12
	}
	return model.Chord{
		Notes:  notes,
		Bass:   bass,
		Start:  a.start,
		End:    end,
		Events: a.events,
	}
}
