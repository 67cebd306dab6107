package music

import (
	"fmt"
	"strings"
)

// Category groups instruments by timbre family.
type Category int

// Instrument categories.
const (
	CategoryString Category = iota
	CategoryWind
	CategoryBrass
	CategoryKeyboard
	CategorySynthetic
)

var categoryNames = map[Category]string{
	CategoryString:    "string",
	CategoryWind:      "wind",
	CategoryBrass:     "brass",
	CategoryKeyboard:  "keyboard",
	CategorySynthetic: "synthetic",
}

// String returns the category label.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Instrument is an enumerated timbre with a fixed program/bank identity
// understood by the audio collaborator.
type Instrument int

// Available instruments.
const (
	Piano Instrument = iota
	Celesta
	Vibraphone
	Violin
	Cello
	Harp
	Flute
	Clarinet
	PanFlute
	Trumpet
	FrenchHorn
	Trombone
	SynthPad
	SynthLead
)

// instrumentSpec carries the static identity of one instrument.
type instrumentSpec struct {
	name     string
	category Category
	program  uint8
	bankMSB  uint8
	bankLSB  uint8
}

// General MIDI program numbers, bank 0.
var instrumentSpecs = map[Instrument]instrumentSpec{
	Piano:      {"piano", CategoryKeyboard, 0, 0, 0},
	Celesta:    {"celesta", CategoryKeyboard, 8, 0, 0},
	Vibraphone: {"vibraphone", CategoryKeyboard, 11, 0, 0},
	Violin:     {"violin", CategoryString, 40, 0, 0},
	Cello:      {"cello", CategoryString, 42, 0, 0},
	Harp:       {"harp", CategoryString, 46, 0, 0},
	Flute:      {"flute", CategoryWind, 73, 0, 0},
	Clarinet:   {"clarinet", CategoryWind, 71, 0, 0},
	PanFlute:   {"pan-flute", CategoryWind, 75, 0, 0},
	Trumpet:    {"trumpet", CategoryBrass, 56, 0, 0},
	FrenchHorn: {"french-horn", CategoryBrass, 60, 0, 0},
	Trombone:   {"trombone", CategoryBrass, 57, 0, 0},
	SynthPad:   {"synth-pad", CategorySynthetic, 89, 0, 0},
	SynthLead:  {"synth-lead", CategorySynthetic, 80, 0, 0},
}

// Valid reports whether the instrument is in the catalog.
func (i Instrument) Valid() bool {
	_, ok := instrumentSpecs[i]
	return ok
}

// String returns the instrument name, e.g. "french-horn".
func (i Instrument) String() string {
	if spec, ok := instrumentSpecs[i]; ok {
		return spec.name
	}
	return "unknown"
}

// Category returns the timbre family of the instrument.
func (i Instrument) Category() Category {
	if spec, ok := instrumentSpecs[i]; ok {
		return spec.category
	}
	return CategorySynthetic
}

// Program returns the program number sent to the audio collaborator.
func (i Instrument) Program() uint8 {
	return instrumentSpecs[i].program
}

// Bank returns the bank select MSB and LSB.
func (i Instrument) Bank() (msb, lsb uint8) {
	spec := instrumentSpecs[i]
	return spec.bankMSB, spec.bankLSB
}

// Instruments returns the full catalog in a stable order.
func Instruments() []Instrument {
	return []Instrument{
		Piano, Celesta, Vibraphone,
		Violin, Cello, Harp,
		Flute, Clarinet, PanFlute,
		Trumpet, FrenchHorn, Trombone,
		SynthPad, SynthLead,
	}
}

// ParseInstrument resolves an instrument by name, case-insensitive.
func ParseInstrument(name string) (Instrument, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for inst, spec := range instrumentSpecs {
		if spec.name == name {
			return inst, nil
		}
	}
	return 0, fmt.Errorf("unknown instrument %q", name)
}
