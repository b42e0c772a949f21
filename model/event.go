package model

type Notes = []uint8

// RawEvent is a single note-on or note-off as observed by a Source.
// Offset is microseconds since the start of the stream.
type RawEvent struct {
	Note      uint8
	Velocity  uint8
	IsNoteOff bool
	Offset    int64
}

// NoteEvent is a completed note: a note-on matched with its note-off.
// Onset and Duration are in microseconds.
type NoteEvent struct {
	Note     uint8
	Velocity uint8
	Onset    int64
	Duration int64
}
