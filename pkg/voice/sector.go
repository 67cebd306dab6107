// Package voice owns per-sector audio playback: note-on/note-off
// bookkeeping, proximity-weighted harmonics, and instrument assignment.
package voice

// Sector is one of the three horizontal playback regions, each bound to
// an independent voice, instrument, and stereo position.
type Sector int

// Sectors, left to right from the listener's point of view.
const (
	SectorLeft Sector = iota
	SectorCenter
	SectorRight

	// NumSectors is the number of playback sectors.
	NumSectors = 3
)

var sectorNames = [NumSectors]string{"left", "center", "right"}

// Valid reports whether the sector index is in range.
func (s Sector) Valid() bool {
	return s >= 0 && s < NumSectors
}

// String returns the sector name.
func (s Sector) String() string {
	if !s.Valid() {
		return "invalid"
	}
	return sectorNames[s]
}

// Pan returns the fixed stereo position of the sector in [-1,1].
func (s Sector) Pan() float64 {
	switch s {
	case SectorLeft:
		return -0.7
	case SectorRight:
		return 0.7
	default:
		return 0
	}
}

// SectorForColumn maps a grid column to its sector. Column 0 is the
// rightmost display position (the grid mirrors the horizontal axis).
func SectorForColumn(col int) Sector {
	switch col {
	case 0:
		return SectorRight
	case 1:
		return SectorCenter
	default:
		return SectorLeft
	}
}

// SectorForPosition maps a display-space horizontal position (0=right,
// 1=left) to the sector covering that third of the frame.
func SectorForPosition(y float64) Sector {
	switch {
	case y < 1.0/3.0:
		return SectorRight
	case y > 2.0/3.0:
		return SectorLeft
	default:
		return SectorCenter
	}
}

// ParseSector resolves a sector by name.
func ParseSector(name string) (Sector, bool) {
	for i, n := range sectorNames {
		if n == name {
			return Sector(i), true
		}
	}
	return 0, false
}
