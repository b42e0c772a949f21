package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/jsphweid/cadence/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ErrMalformedStream marks bytes that could not be parsed as MIDI. Fatal
// for the current run.
var ErrMalformedStream = errors.New("malformed midi stream")

// ErrDeviceUnavailable marks a live input port that could not be opened.
var ErrDeviceUnavailable = errors.New("midi device unavailable")

// ReadMidiFile parses a standard MIDI file from disk.
func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// the smf parser panics on some truncated files
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = fmt.Errorf("%w: %v", ErrMalformedStream, r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStream, err)
	}

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStream, err)
	}
	return res, nil
}

// NoteEvents flattens every track of an SMF into a single stream of raw
// note events ordered by absolute time, note-offs before note-ons on equal
// offsets so that re-struck notes close before they reopen.
func NoteEvents(s *smf.SMF) []model.RawEvent {
	var events []model.RawEvent

	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel uint8
			var key uint8
			var velocity uint8
			switch {
			case event.Message.GetNoteStart(&channel, &key, &velocity):
				events = append(events, model.RawEvent{
					Note:     key,
					Velocity: velocity,
					Offset:   s.TimeAt(absTicks),
				})
			case event.Message.GetNoteEnd(&channel, &key):
				events = append(events, model.RawEvent{
					Note:      key,
					IsNoteOff: true,
					Offset:    s.TimeAt(absTicks),
				})
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Offset != events[j].Offset {
			return events[i].Offset < events[j].Offset
		}
		return events[i].IsNoteOff && !events[j].IsNoteOff
	})
	return events
}
