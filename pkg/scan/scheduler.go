package scan

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mariovpereira/Iris/pkg/depth"
	"github.com/mariovpereira/Iris/pkg/voice"
)

// DefaultDuration is the total length of one sweep.
const DefaultDuration = 5 * time.Second

// State is the scheduler's lifecycle state.
type State int

// Scheduler states.
const (
	Idle State = iota
	Sweeping
)

// Kind distinguishes the two sweep choreographies.
type Kind int

// Sweep kinds.
const (
	// Sequential sweeps one column bottom-to-top, one note per slice.
	Sequential Kind = iota
	// Simultaneous sweeps all columns together, one chord per slice.
	Simultaneous
)

func (k Kind) String() string {
	if k == Simultaneous {
		return "simultaneous"
	}
	return "sequential"
}

// RowHighlight is delivered to the highlight callback on every trigger.
type RowHighlight struct {
	// Row is the grid row just played.
	Row int `json:"row"`
	// Intensity is the strongest proximity produced by the trigger,
	// usable as a highlight weight.
	Intensity float64 `json:"intensity"`
}

// HighlightFunc receives row-highlight progress during a sweep.
type HighlightFunc func(RowHighlight)

// CompleteFunc is invoked once after sweep teardown.
type CompleteFunc func()

// Scheduler drives the grid→pitch→voice chain over time. One sweep may
// be active per scheduler; starting a new sweep tears the previous one
// down first. Cancellation is synchronous: once Cancel returns, no
// further trigger executes, all sectors are silent, and the state is
// Idle.
type Scheduler struct {
	mu     sync.Mutex
	clock  Clock
	engine *voice.Engine
	logger *slog.Logger

	duration time.Duration

	state  State
	gen    uint64
	timers []Timer

	// Active sweep parameters, valid while state == Sweeping.
	sweepID    uuid.UUID
	kind       Kind
	grid       *depth.Grid
	column     int
	onRow      HighlightFunc
	onComplete CompleteFunc
}

// NewScheduler creates an idle scheduler. clock and logger may be nil,
// defaulting to the real clock and default logger.
func NewScheduler(engine *voice.Engine, clock Clock, duration time.Duration, logger *slog.Logger) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Scheduler{
		clock:    clock,
		engine:   engine,
		logger:   logger,
		duration: duration,
	}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active reports whether a sweep is in progress.
func (s *Scheduler) Active() bool {
	return s.State() == Sweeping
}

// StartSequential begins a bottom-to-top sweep of one grid column.
// onRow and onComplete may be nil.
func (s *Scheduler) StartSequential(grid *depth.Grid, column int, onRow HighlightFunc, onComplete CompleteFunc) error {
	if column < 0 || column >= grid.Cols() {
		return fmt.Errorf("column %d out of range [0,%d)", column, grid.Cols())
	}
	return s.start(Sequential, grid, column, onRow, onComplete)
}

// StartSimultaneous begins a bottom-to-top sweep playing every column
// of each row in the same instant.
func (s *Scheduler) StartSimultaneous(grid *depth.Grid, onRow HighlightFunc, onComplete CompleteFunc) error {
	return s.start(Simultaneous, grid, 0, onRow, onComplete)
}

func (s *Scheduler) start(kind Kind, grid *depth.Grid, column int, onRow HighlightFunc, onComplete CompleteFunc) error {
	if !grid.Populated() {
		return fmt.Errorf("grid not populated")
	}

	s.mu.Lock()

	// Force-teardown any sweep already in flight so schedules never
	// overlap. The superseded sweep's completion callback is not
	// invoked; it was cancelled, not completed.
	if s.state == Sweeping {
		s.logger.Warn("sweep superseded", "sweep_id", s.sweepID.String())
		s.teardownLocked()
	}

	s.gen++
	gen := s.gen
	s.state = Sweeping
	s.sweepID = uuid.New()
	s.kind = kind
	s.grid = grid
	s.column = column
	s.onRow = onRow
	s.onComplete = onComplete

	rows := grid.Rows()
	slice := s.duration / time.Duration(rows)
	for i := 0; i < rows; i++ {
		step := i
		s.timers = append(s.timers, s.clock.AfterFunc(slice*time.Duration(i), func() {
			s.trigger(gen, step)
		}))
	}
	s.timers = append(s.timers, s.clock.AfterFunc(s.duration, func() {
		s.finish(gen)
	}))

	s.logger.Info("sweep started",
		"sweep_id", s.sweepID.String(),
		"kind", kind.String(),
		"rows", rows,
		"duration", s.duration,
	)

	s.mu.Unlock()
	return nil
}

// trigger fires one time slice: play row rows-1-step, bottom first.
func (s *Scheduler) trigger(gen uint64, step int) {
	s.mu.Lock()
	if s.state != Sweeping || s.gen != gen {
		s.mu.Unlock()
		return
	}

	row := s.grid.Rows() - 1 - step
	var intensity float64

	switch s.kind {
	case Sequential:
		if d, ok := s.grid.NormalizedDepth(row, s.column); ok {
			played := s.engine.PlayNoteForDepth(d, voice.SectorForColumn(s.column), voice.DefaultVelocity)
			intensity = played.Proximity
		}
	case Simultaneous:
		s.engine.StopAllNotes()
		for col := 0; col < s.grid.Cols(); col++ {
			d, ok := s.grid.NormalizedDepth(row, col)
			if !ok {
				continue
			}
			played := s.engine.PlayNoteForDepth(d, voice.SectorForColumn(col), voice.DefaultVelocity)
			if played.Proximity > intensity {
				intensity = played.Proximity
			}
		}
	}

	onRow := s.onRow
	s.mu.Unlock()

	if onRow != nil {
		onRow(RowHighlight{Row: row, Intensity: intensity})
	}
}

// finish is the terminal teardown event at t=duration.
func (s *Scheduler) finish(gen uint64) {
	s.mu.Lock()
	if s.state != Sweeping || s.gen != gen {
		s.mu.Unlock()
		return
	}

	id := s.sweepID
	onComplete := s.onComplete
	s.teardownLocked()
	s.mu.Unlock()

	s.logger.Info("sweep completed", "sweep_id", id.String())

	if onComplete != nil {
		onComplete()
	}
}

// Cancel stops the active sweep immediately: pending events are
// invalidated, all sectors silenced, and the state reset to Idle before
// Cancel returns. A no-op when idle.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	if s.state != Sweeping {
		s.mu.Unlock()
		return
	}
	id := s.sweepID
	s.teardownLocked()
	s.mu.Unlock()

	s.logger.Info("sweep cancelled", "sweep_id", id.String())
}

// teardownLocked is the authoritative cancellation point: it stops all
// pending timers, bumps the generation so already-dispatched callbacks
// become no-ops, silences every sector, and resets the state machine.
func (s *Scheduler) teardownLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.gen++
	s.engine.StopAllNotes()
	s.state = Idle
	s.grid = nil
	s.onRow = nil
	s.onComplete = nil
}
