// Package sonify is the façade of the depth-to-audio pipeline: it owns
// the grid capture, the continuous sampling mode, and the scan entry
// points the UI layer calls.
package sonify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mariovpereira/Iris/pkg/depth"
	"github.com/mariovpereira/Iris/pkg/music"
	"github.com/mariovpereira/Iris/pkg/scan"
	"github.com/mariovpereira/Iris/pkg/voice"
)

// Config holds the tunable parameters of the pipeline.
type Config struct {
	// MinDepth and MaxDepth are the calibration bounds in meters.
	// MinDepth < MaxDepth is a caller contract.
	MinDepth float64
	MaxDepth float64

	// ScanDuration is the total length of one sweep.
	ScanDuration time.Duration

	// ContinuousPeriod is the cadence of the continuous sampling mode.
	ContinuousPeriod time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MinDepth:         0.0,
		MaxDepth:         1.8,
		ScanDuration:     scan.DefaultDuration,
		ContinuousPeriod: 150 * time.Millisecond,
	}
}

// Sonifier wires source → sampler → grid → pitch → voices and exposes
// the operations the UI layer consumes.
type Sonifier struct {
	cfg     Config
	source  depth.Source
	sampler *depth.Sampler
	grid    *depth.Grid
	engine  *voice.Engine
	sched   *scan.Scheduler
	logger  *slog.Logger

	mu          sync.Mutex
	contStop    chan struct{}
	contRunning bool
}

// New creates a Sonifier. clock may be nil for the real clock; logger
// may be nil.
func New(cfg Config, source depth.Source, engine *voice.Engine, clock scan.Clock, logger *slog.Logger) *Sonifier {
	if logger == nil {
		logger = slog.Default()
	}
	sampler := depth.NewSampler(logger)
	return &Sonifier{
		cfg:     cfg,
		source:  source,
		sampler: sampler,
		grid:    depth.NewGrid(sampler, logger),
		engine:  engine,
		sched:   scan.NewScheduler(engine, clock, cfg.ScanDuration, logger),
		logger:  logger,
	}
}

// Grid returns the logical grid. Read-only between captures.
func (s *Sonifier) Grid() *depth.Grid { return s.grid }

// Engine returns the voice engine.
func (s *Sonifier) Engine() *voice.Engine { return s.engine }

// CaptureGrid snapshots the depth buffer and repopulates the grid.
// Refused while a sweep is active: the grid must not change under a
// running scan.
func (s *Sonifier) CaptureGrid() error {
	if s.sched.Active() {
		return fmt.Errorf("capture refused: sweep in progress")
	}

	buf, err := s.source.Snapshot()
	if err != nil {
		return fmt.Errorf("depth snapshot: %w", err)
	}

	s.grid.Populate(buf, s.cfg.MinDepth, s.cfg.MaxDepth)
	return nil
}

// SampleContinuous reads the depth under a display-space position,
// plays the mapped note on the sector covering that position, and
// returns the raw and normalized depth. The grid is bypassed entirely.
//
// x is vertical (0=top), y horizontal (0=right) in display orientation;
// the sensor axis swap applies here exactly as in grid population.
func (s *Sonifier) SampleContinuous(x, y float64) (meters, normalized float64, err error) {
	buf, err := s.source.Snapshot()
	if err != nil {
		return 0, 0, fmt.Errorf("depth snapshot: %w", err)
	}

	meters, ok := s.sampler.SampleWithRetry(buf, y, x)
	if !ok {
		return 0, 0, fmt.Errorf("no valid depth reading at (%.2f, %.2f)", x, y)
	}

	normalized = depth.Normalize(meters, s.cfg.MinDepth, s.cfg.MaxDepth)
	s.engine.PlayNoteForDepth(normalized, voice.SectorForPosition(y), voice.DefaultVelocity)
	return meters, normalized, nil
}

// StartContinuous begins fixed-cadence sampling of one display
// position. Ticks are suppressed while a sweep occupies the sectors.
// A second call while the loop is running is a no-op; StopContinuous
// first to move the sampling point.
func (s *Sonifier) StartContinuous(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.contRunning {
		return
	}
	s.contRunning = true
	s.contStop = make(chan struct{})

	go s.continuousLoop(x, y, s.contStop)
}

func (s *Sonifier) continuousLoop(x, y float64, stop chan struct{}) {
	ticker := time.NewTicker(s.cfg.ContinuousPeriod)
	defer ticker.Stop()

	s.logger.Info("continuous sampling started", "x", x, "y", y, "period", s.cfg.ContinuousPeriod)

	for {
		select {
		case <-stop:
			s.logger.Info("continuous sampling stopped")
			return
		case <-ticker.C:
			// Scan mode owns the sectors while a sweep runs.
			if s.sched.Active() {
				continue
			}
			if _, _, err := s.SampleContinuous(x, y); err != nil {
				s.logger.Debug("continuous sample skipped", "err", err)
			}
		}
	}
}

// StopContinuous halts the continuous sampling loop and silences all
// sectors.
func (s *Sonifier) StopContinuous() {
	s.mu.Lock()
	if !s.contRunning {
		s.mu.Unlock()
		return
	}
	s.contRunning = false
	close(s.contStop)
	s.mu.Unlock()

	s.engine.StopAllNotes()
}

// StartSequentialScan sweeps one column bottom-to-top over the
// configured duration. The grid must have been captured first.
func (s *Sonifier) StartSequentialScan(column int, onRow scan.HighlightFunc, onComplete scan.CompleteFunc) error {
	return s.sched.StartSequential(s.grid, column, onRow, onComplete)
}

// StartSimultaneousScan sweeps all columns together bottom-to-top.
func (s *Sonifier) StartSimultaneousScan(onRow scan.HighlightFunc, onComplete scan.CompleteFunc) error {
	return s.sched.StartSimultaneous(s.grid, onRow, onComplete)
}

// CancelScan stops any active sweep synchronously.
func (s *Sonifier) CancelScan() {
	s.sched.Cancel()
}

// ScanActive reports whether a sweep is in progress.
func (s *Sonifier) ScanActive() bool {
	return s.sched.Active()
}

// ChangeInstrument rebinds a sector to an instrument.
func (s *Sonifier) ChangeInstrument(sector voice.Sector, inst music.Instrument) {
	s.engine.ChangeInstrument(inst, sector)
}

// Close stops continuous sampling, cancels any sweep, and silences all
// sectors.
func (s *Sonifier) Close() {
	s.StopContinuous()
	s.sched.Cancel()
	s.engine.StopAllNotes()
}
