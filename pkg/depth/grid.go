package depth

import (
	"log/slog"
)

// Default logical grid dimensions.
const (
	GridRows = 9
	GridCols = 3
)

// Coordinate is a position in the display orientation: X is vertical
// (0=top, 1=bottom), Y is horizontal (0=right, 1=left).
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cell is one populated grid cell.
type Cell struct {
	// Raw is the sampled (or synthesized) depth in meters.
	Raw float64 `json:"raw"`
	// Normalized is Raw rescaled into [0,1] via the calibration bounds.
	Normalized float64 `json:"normalized"`
	// Coord is the cell center in display orientation.
	Coord Coordinate `json:"coord"`
	// Fallback is true when no valid sample was found and Raw was
	// synthesized instead.
	Fallback bool `json:"fallback"`
}

// Grid is a fixed rows×cols logical grid built from one depth-buffer
// snapshot. It is rebuilt wholesale on each Populate call and read-only
// in between, so concurrent readers never observe a partial capture.
type Grid struct {
	rows, cols int
	cells      []Cell
	sampler    *Sampler
	logger     *slog.Logger
	populated  bool
}

// NewGrid creates an empty grid with the default 9×3 dimensions.
// logger may be nil.
func NewGrid(sampler *Sampler, logger *slog.Logger) *Grid {
	return NewGridSize(sampler, GridRows, GridCols, logger)
}

// NewGridSize creates an empty grid with explicit dimensions.
func NewGridSize(sampler *Sampler, rows, cols int, logger *slog.Logger) *Grid {
	if logger == nil {
		logger = slog.Default()
	}
	return &Grid{
		rows:    rows,
		cols:    cols,
		sampler: sampler,
		logger:  logger,
	}
}

// Rows returns the number of grid rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of grid columns.
func (g *Grid) Cols() int { return g.cols }

// Populated reports whether Populate has completed at least once.
func (g *Grid) Populated() bool { return g.populated }

// Populate samples every cell of the grid from one buffer snapshot.
//
// Cell centers are laid out in display orientation, with the column
// index mirrored so column 0 lands on the rightmost display position.
// The sensor's native frame and the display's portrait frame differ by
// a 90° axis swap, so the display coordinate is transposed before
// sampling: bufferX=displayY, bufferY=displayX.
//
// Sampling retries with decreasing radii and accepts the first average
// inside the plausibility window. When every radius fails, the cell gets
// a deterministic synthesized depth that grows with the row index (a
// proxy for the floor getting farther down-frame), so the grid never
// contains gaps.
func (g *Grid) Populate(buf Buffer, minDepth, maxDepth float64) {
	cells := make([]Cell, g.rows*g.cols)
	fallbacks := 0

	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			displayX := float64(row)/float64(g.rows) + 1/(2*float64(g.rows))
			displayY := float64(g.cols-1-col)/float64(g.cols) + 1/(2*float64(g.cols))

			raw, ok := g.sampler.SampleWithRetry(buf, displayY, displayX)
			if !ok {
				raw = fallbackDepth(row, col)
				fallbacks++
			}

			cells[row*g.cols+col] = Cell{
				Raw:        raw,
				Normalized: Normalize(raw, minDepth, maxDepth),
				Coord:      Coordinate{X: displayX, Y: displayY},
				Fallback:   !ok,
			}
		}
	}

	g.cells = cells
	g.populated = true

	g.logger.Debug("depth grid populated",
		"rows", g.rows,
		"cols", g.cols,
		"fallback_cells", fallbacks,
	)
}

// fallbackDepth synthesizes a depth for a cell with no valid sample,
// monotonically increasing with row.
func fallbackDepth(row, col int) float64 {
	return 0.9 + float64(row)*0.1 + float64(col)*0.05
}

// RawDepth returns the sampled depth in meters for a cell.
// ok is false for out-of-range indices or an unpopulated grid.
func (g *Grid) RawDepth(row, col int) (float64, bool) {
	c, ok := g.cell(row, col)
	if !ok {
		return 0, false
	}
	return c.Raw, true
}

// NormalizedDepth returns the normalized depth in [0,1] for a cell.
func (g *Grid) NormalizedDepth(row, col int) (float64, bool) {
	c, ok := g.cell(row, col)
	if !ok {
		return 0, false
	}
	return c.Normalized, true
}

// CoordinateAt returns the display-oriented center of a cell.
func (g *Grid) CoordinateAt(row, col int) (Coordinate, bool) {
	c, ok := g.cell(row, col)
	if !ok {
		return Coordinate{}, false
	}
	return c.Coord, true
}

// CellAt returns a copy of a cell.
func (g *Grid) CellAt(row, col int) (Cell, bool) {
	return g.cell(row, col)
}

func (g *Grid) cell(row, col int) (Cell, bool) {
	if !g.populated || row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return Cell{}, false
	}
	return g.cells[row*g.cols+col], true
}
