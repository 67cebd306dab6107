// Package music defines the pitch model: note value types, the
// depth-to-pitch quantization table, and the instrument catalog.
package music

import (
	"math"
	"strconv"
)

// PitchClass is one of the 12 chromatic pitch classes.
type PitchClass int

// Chromatic pitch classes, C=0 through B=11.
const (
	C PitchClass = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var pitchClassNames = [12]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// String returns the pitch class label, e.g. "C#".
func (p PitchClass) String() string {
	if p < 0 || int(p) >= len(pitchClassNames) {
		return "?"
	}
	return pitchClassNames[p]
}

// Note is a pitch class at a specific octave. Pure value type.
type Note struct {
	Class  PitchClass `json:"class"`
	Octave int        `json:"octave"`
}

// MIDI returns the MIDI note number (C4 = 60, A4 = 69).
func (n Note) MIDI() int {
	return (n.Octave+1)*12 + int(n.Class)
}

// Frequency returns the equal-tempered frequency in Hz, A4 = 440.
func (n Note) Frequency() float64 {
	return 440.0 * math.Pow(2, float64(n.MIDI()-69)/12.0)
}

// String returns the display label, e.g. "C4".
func (n Note) String() string {
	return n.Class.String() + strconv.Itoa(n.Octave)
}
