package music

// Mapping is one row of the quantization table: the normalized-depth
// threshold at which a note becomes the primary tone.
type Mapping struct {
	Depth float64
	Note  Note
}

// Mapper quantizes a normalized depth into a discrete note plus a
// proximity weight against the two nearest table entries.
//
// The table spans farthest (1.00, octave 1) to nearest (0.00, octave 8)
// on a single root pitch class, so closer obstacles sound higher.
type Mapper struct {
	table []Mapping
}

// mapperLowOctave is the octave of the farthest table entry; each
// nearer threshold climbs one octave from there.
const mapperLowOctave = 1

// mapperThresholds are the normalized-depth thresholds, farthest first.
var mapperThresholds = [...]float64{1.00, 0.85, 0.70, 0.55, 0.40, 0.25, 0.10, 0.00}

// NewMapper creates a mapper rooted on C.
func NewMapper() *Mapper {
	return NewMapperWithRoot(C)
}

// NewMapperWithRoot creates a mapper rooted on the given pitch class.
func NewMapperWithRoot(root PitchClass) *Mapper {
	table := make([]Mapping, len(mapperThresholds))
	for i, d := range mapperThresholds {
		table[i] = Mapping{
			Depth: d,
			Note:  Note{Class: root, Octave: mapperLowOctave + i},
		}
	}
	return &Mapper{table: table}
}

// Table returns a copy of the quantization table, farthest first.
func (m *Mapper) Table() []Mapping {
	out := make([]Mapping, len(m.table))
	copy(out, m.table)
	return out
}

// MapToNote maps a normalized depth in [0,1] to its primary note and a
// proximity weight in [0,1].
//
// An exact threshold match returns that entry with proximity 1.0.
// Otherwise the input is bracketed between two adjacent thresholds and
// the primary note is the nearest-lower-or-equal entry (the bracket's
// smaller threshold); proximity interpolates linearly, 1.0 at the
// bracket's larger threshold and approaching 0.0 at the smaller one.
// Proximity modulates loudness and decides whether a companion tone is
// added, rather than shifting pitch.
func (m *Mapper) MapToNote(normalized float64) (Note, float64) {
	for _, entry := range m.table {
		if normalized == entry.Depth {
			return entry.Note, 1.0
		}
	}

	// Bracket scan, farthest to nearest: far.Depth >= input > near.Depth.
	for i := 0; i < len(m.table)-1; i++ {
		far, near := m.table[i], m.table[i+1]
		if normalized <= far.Depth && normalized > near.Depth {
			width := far.Depth - near.Depth
			if width <= 0 {
				return near.Note, 1.0
			}
			proximity := (normalized - near.Depth) / width
			return near.Note, proximity
		}
	}

	// Outside the table (input above 1.0 or below 0.0 after caller
	// clamping went wrong); pin to the nearest end.
	if normalized > m.table[0].Depth {
		return m.table[0].Note, 1.0
	}
	return m.table[len(m.table)-1].Note, 1.0
}
