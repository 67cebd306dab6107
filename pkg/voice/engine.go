package voice

import (
	"log/slog"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/mariovpereira/Iris/pkg/music"
)

// Amplitude law constants. The floor keeps triggers audible; the
// companion range keeps the harmonic quieter than the primary.
const (
	minMainAmp      = 40.0
	maxMainAmp      = 127.0
	minCompanionAmp = 30.0
	maxCompanionAmp = 100.0
)

// DefaultVelocity is the velocity used when the caller has no opinion.
const DefaultVelocity = 0.7

// Companion thresholds: proximity at or above companionCutoff means the
// sample sits close enough to a quantization level for a single
// confident tone; below octaveSplit the companion drops an octave,
// otherwise it rises one.
const (
	companionCutoff = 0.8
	octaveSplit     = 0.5
)

// Played describes the outcome of one PlayNoteForDepth call.
type Played struct {
	// Note is the primary note triggered.
	Note music.Note
	// Proximity is the interpolation weight the pitch mapper produced.
	Proximity float64
	// CompanionMIDI is the companion tone's MIDI number, or -1 when no
	// companion was added.
	CompanionMIDI int
}

// Engine drives the per-sector voices. Each sector is monophonic with
// an optional harmonic companion: starting a new note always silences
// that sector's previous notes first.
//
// Audio-backend failures are logged and otherwise ignored; active-note
// bookkeeping still updates optimistically so later stop calls stay
// consistent. The worst failure mode is silence, never a crash.
type Engine struct {
	mu     sync.Mutex
	voices [NumSectors]Voice
	active [NumSectors]map[int]struct{}

	mapper *music.Mapper
	logger *slog.Logger

	notesPlayed atomic.Int64
	backendErrs atomic.Int64
}

// NewEngine creates an engine over one voice per sector.
// logger may be nil.
func NewEngine(voices [NumSectors]Voice, mapper *music.Mapper, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		voices: voices,
		mapper: mapper,
		logger: logger,
	}
	for i := range e.active {
		e.active[i] = make(map[int]struct{})
	}
	return e
}

// PlayNoteForDepth silences the sector, maps the normalized depth to a
// note, and triggers it with a proximity-weighted amplitude. When the
// depth sits between two quantization levels (proximity below the
// cutoff) a quieter octave companion is added: one octave down when the
// depth is nearer the farther level, one octave up otherwise.
func (e *Engine) PlayNoteForDepth(normalized float64, sector Sector, velocity float64) Played {
	if !sector.Valid() {
		e.logger.Warn("play ignored: invalid sector", "sector", int(sector))
		return Played{CompanionMIDI: -1}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopSectorLocked(sector)

	note, proximity := e.mapper.MapToNote(normalized)

	baseAmp := clampAmp(velocity*127, minMainAmp, maxMainAmp)
	mainAmp := clampAmp(baseAmp*proximity, minMainAmp, maxMainAmp)

	e.startNoteLocked(sector, note.MIDI(), int(math.Round(mainAmp)))

	played := Played{Note: note, Proximity: proximity, CompanionMIDI: -1}

	if proximity < companionCutoff {
		companion := note.MIDI() - 12
		if proximity >= octaveSplit {
			companion = note.MIDI() + 12
		}
		if companion >= 0 && companion <= 127 {
			companionAmp := clampAmp(baseAmp*(1-proximity), minCompanionAmp, maxCompanionAmp)
			e.startNoteLocked(sector, companion, int(math.Round(companionAmp)))
			played.CompanionMIDI = companion
		}
	}

	e.notesPlayed.Add(1)
	return played
}

// startNoteLocked triggers a note and records it active regardless of
// backend success, so stop calls stay consistent.
func (e *Engine) startNoteLocked(sector Sector, midiNote, amplitude int) {
	if err := e.voices[sector].StartNote(midiNote, amplitude); err != nil {
		e.backendErrs.Add(1)
		e.logger.Error("note-on failed",
			"sector", sector.String(),
			"note", midiNote,
			"err", err,
		)
	}
	e.active[sector][midiNote] = struct{}{}
}

// StopAllNotesInSector silences every note recorded active for a sector
// and clears its active set.
func (e *Engine) StopAllNotesInSector(sector Sector) {
	if !sector.Valid() {
		e.logger.Warn("stop ignored: invalid sector", "sector", int(sector))
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopSectorLocked(sector)
}

// StopAllNotes silences every sector.
func (e *Engine) StopAllNotes() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for s := Sector(0); s < NumSectors; s++ {
		e.stopSectorLocked(s)
	}
}

func (e *Engine) stopSectorLocked(sector Sector) {
	for midiNote := range e.active[sector] {
		if err := e.voices[sector].StopNote(midiNote); err != nil {
			e.backendErrs.Add(1)
			e.logger.Error("note-off failed",
				"sector", sector.String(),
				"note", midiNote,
				"err", err,
			)
		}
	}
	e.active[sector] = make(map[int]struct{})
}

// ChangeInstrument rebinds a sector's voice to an instrument. Failures
// are logged; the sector keeps sounding with its previous timbre.
func (e *Engine) ChangeInstrument(inst music.Instrument, sector Sector) {
	if !sector.Valid() {
		e.logger.Warn("instrument change ignored: invalid sector", "sector", int(sector))
		return
	}
	if !inst.Valid() {
		e.logger.Warn("instrument change ignored: unknown instrument", "instrument", int(inst))
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	msb, lsb := inst.Bank()
	if err := e.voices[sector].SetInstrument(inst.Program(), msb, lsb); err != nil {
		e.backendErrs.Add(1)
		e.logger.Error("instrument change failed",
			"sector", sector.String(),
			"instrument", inst.String(),
			"err", err,
		)
		return
	}

	e.logger.Info("instrument changed",
		"sector", sector.String(),
		"instrument", inst.String(),
		"category", inst.Category().String(),
	)
}

// ActiveNotes returns the MIDI numbers currently recorded active for a
// sector, sorted ascending. Empty for invalid sectors.
func (e *Engine) ActiveNotes(sector Sector) []int {
	if !sector.Valid() {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	notes := make([]int, 0, len(e.active[sector]))
	for n := range e.active[sector] {
		notes = append(notes, n)
	}
	sort.Ints(notes)
	return notes
}

// Stats returns engine counters.
func (e *Engine) Stats() (notesPlayed, backendErrors int64) {
	return e.notesPlayed.Load(), e.backendErrs.Load()
}

func clampAmp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
