package midi

import (
	"errors"
	"testing"

	"github.com/jsphweid/cadence/model"
	"github.com/stretchr/testify/assert"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func buildSMF(tracks ...smf.Track) *smf.SMF {
	var s smf.SMF
	s.TimeFormat = smf.MetricTicks(960)
	for _, tr := range tracks {
		s.Tracks = append(s.Tracks, tr)
	}
	return &s
}

func TestNoteEventsWalksAllTracks(t *testing.T) {
	var tr1 smf.Track
	tr1.Add(0, smf.MetaTempo(120))
	tr1.Add(0, gomidi.NoteOn(0, 60, 100))
	tr1.Add(960, gomidi.NoteOff(0, 60))
	tr1.Close(0)

	var tr2 smf.Track
	tr2.Add(480, gomidi.NoteOn(0, 64, 90))
	tr2.Add(960, gomidi.NoteOff(0, 64))
	tr2.Close(0)

	events := NoteEvents(buildSMF(tr1, tr2))

	assert := assert.New(t)
	assert.Equal(len(events), 4)
	assert.Equal(events[0].Note, uint8(60))
	assert.False(events[0].IsNoteOff)
	assert.Equal(events[1].Note, uint8(64))
	assert.False(events[1].IsNoteOff)
	assert.Equal(events[2].Note, uint8(60))
	assert.True(events[2].IsNoteOff)
	assert.Equal(events[3].Note, uint8(64))
	assert.True(events[3].IsNoteOff)
}

func TestNoteOffSortsBeforeNoteOnAtSameOffset(t *testing.T) {
	// the note-off of 60 and the note-on of 62 land on the same tick in
	// different tracks
	var tr1 smf.Track
	tr1.Add(0, smf.MetaTempo(120))
	tr1.Add(0, gomidi.NoteOn(0, 60, 100))
	tr1.Add(960, gomidi.NoteOff(0, 60))
	tr1.Close(0)

	var tr2 smf.Track
	tr2.Add(960, gomidi.NoteOn(0, 62, 100))
	tr2.Add(960, gomidi.NoteOff(0, 62))
	tr2.Close(0)

	events := NoteEvents(buildSMF(tr1, tr2))

	assert := assert.New(t)
	assert.Equal(len(events), 4)
	assert.True(events[1].IsNoteOff)
	assert.Equal(events[1].Note, uint8(60))
	assert.False(events[2].IsNoteOff)
	assert.Equal(events[2].Note, uint8(62))
}

func TestNoteEventOffsetsAscend(t *testing.T) {
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(480, gomidi.NoteOff(0, 60))
	tr.Add(480, gomidi.NoteOn(0, 62, 100))
	tr.Add(480, gomidi.NoteOff(0, 62))
	tr.Close(0)

	events := NoteEvents(buildSMF(tr))

	assert := assert.New(t)
	assert.Equal(len(events), 4)
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(events[i].Offset, events[i-1].Offset)
	}
	assert.Greater(events[3].Offset, events[0].Offset)
}

func TestReadMidiFileMissing(t *testing.T) {
	_, err := ReadMidiFile("does-not-exist.mid")
	assert.True(t, errors.Is(err, ErrMalformedStream))
}

func TestPortSourceCloseWhileDelivering(t *testing.T) {
	src := newPortSource(nil)

	delivered := make(chan struct{})
	go func() {
		defer close(delivered)
		for i := 0; i < 500; i++ {
			src.deliver(model.RawEvent{Note: 60, Velocity: 100, Offset: int64(i)})
		}
	}()

	// close mid-stream while the deliverer is still running; no send may
	// hit a closed channel and the event stream must still terminate
	<-src.Events()
	assert.NoError(t, src.Close())
	assert.NoError(t, src.Close())

	for range src.Events() {
	}
	<-delivered
}

func TestFileSourceIsFiniteAndClosable(t *testing.T) {
	src := &FileSource{
		events: make(chan model.RawEvent),
		done:   make(chan struct{}),
	}
	assert.NoError(t, src.Close())
	// double close must not panic
	assert.NoError(t, src.Close())
}
