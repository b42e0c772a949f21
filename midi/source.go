package midi

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/jsphweid/cadence/model"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Source produces an ordered stream of raw note events. The channel closes
// when the underlying input is exhausted or the source is closed, which is
// how cancellation reaches the downstream stages.
type Source interface {
	Events() <-chan model.RawEvent
	Close() error
}

// FileSource replays the note events of a standard MIDI file. Finite and
// restartable by constructing a new one.
type FileSource struct {
	events chan model.RawEvent
	done   chan struct{}
	once   sync.Once
}

func NewFileSource(path string) (*FileSource, error) {
	parsed, err := ReadMidiFile(path)
	if err != nil {
		return nil, err
	}

	s := &FileSource{
		events: make(chan model.RawEvent, 64),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(s.events)
		for _, ev := range NoteEvents(parsed) {
			select {
			case s.events <- ev:
			case <-s.done:
				return
			}
		}
	}()
	return s, nil
}

func (s *FileSource) Events() <-chan model.RawEvent {
	return s.events
}

func (s *FileSource) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

// PortSource streams note events from a live hardware input port. Infinite
// until Close. The optional notify hook fires once per delivered event,
// which is what the listen command hangs its quiescence debouncer on.
//
// The driver callback never touches the events channel directly: it hands
// events to a forwarder goroutine over raw, and the forwarder is the only
// sender on events, so it alone closes it once done is signalled. That way
// a callback still in flight during Close can never send on a closed
// channel.
type PortSource struct {
	raw    chan model.RawEvent
	events chan model.RawEvent
	done   chan struct{}
	once   sync.Once
	stop   func()
	notify func()
}

func newPortSource(notify func()) *PortSource {
	s := &PortSource{
		raw:    make(chan model.RawEvent, 64),
		events: make(chan model.RawEvent, 64),
		done:   make(chan struct{}),
		notify: notify,
	}
	go s.forward()
	return s
}

func (s *PortSource) forward() {
	defer close(s.events)
	for {
		select {
		case ev := <-s.raw:
			select {
			case s.events <- ev:
				if s.notify != nil {
					s.notify()
				}
			case <-s.done:
				return
			}
		case <-s.done:
			return
		}
	}
}

// deliver hands a callback event to the forwarder. Events arriving while
// the source shuts down are dropped.
func (s *PortSource) deliver(ev model.RawEvent) {
	select {
	case s.raw <- ev:
	case <-s.done:
	}
}

// OpenPort opens a live input port. An empty spec means the first available
// port; a number selects by index; anything else matches by name.
func OpenPort(spec string, notify func()) (*PortSource, error) {
	in, err := findInPort(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	s := newPortSource(notify)
	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			s.deliver(model.RawEvent{Note: key, Velocity: vel, Offset: int64(timestampms) * 1000})
		case msg.GetNoteEnd(&ch, &key):
			s.deliver(model.RawEvent{Note: key, IsNoteOff: true, Offset: int64(timestampms) * 1000})
		}
	})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	s.stop = stop
	return s, nil
}

func (s *PortSource) Events() <-chan model.RawEvent {
	return s.events
}

func (s *PortSource) Close() error {
	s.once.Do(func() {
		if s.stop != nil {
			s.stop()
		}
		close(s.done)
	})
	return nil
}

func findInPort(spec string) (drivers.In, error) {
	if spec == "" {
		return gomidi.InPort(0)
	}
	if n, err := strconv.Atoi(spec); err == nil {
		return gomidi.InPort(n)
	}
	return gomidi.FindInPort(spec)
}

// InPortNames lists the available live input ports.
func InPortNames() []string {
	var res []string
	for _, in := range gomidi.GetInPorts() {
		res = append(res, in.String())
	}
	return res
}
