package depth

import (
	"math"
	"testing"
)

func newTestGrid() *Grid {
	return NewGrid(NewSampler(nil), nil)
}

func TestGrid_Dimensions(t *testing.T) {
	g := newTestGrid()
	if g.Rows() != 9 || g.Cols() != 3 {
		t.Fatalf("expected 9x3 grid, got %dx%d", g.Rows(), g.Cols())
	}
	if g.Populated() {
		t.Error("fresh grid must not report populated")
	}
}

func TestGrid_AccessorsBeforePopulate(t *testing.T) {
	g := newTestGrid()
	if _, ok := g.RawDepth(0, 0); ok {
		t.Error("unpopulated grid must not return depths")
	}
}

func TestGrid_PopulateUniform(t *testing.T) {
	g := newTestGrid()
	g.Populate(UniformBuffer(100, 100, 0.9), 0.0, 1.8)

	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			raw, ok := g.RawDepth(row, col)
			if !ok {
				t.Fatalf("cell (%d,%d) missing", row, col)
			}
			if math.Abs(raw-0.9) > 1e-9 {
				t.Errorf("cell (%d,%d) raw = %f, want 0.9", row, col, raw)
			}
			norm, _ := g.NormalizedDepth(row, col)
			if math.Abs(norm-0.5) > 1e-9 {
				t.Errorf("cell (%d,%d) normalized = %f, want 0.5", row, col, norm)
			}
			cell, _ := g.CellAt(row, col)
			if cell.Fallback {
				t.Errorf("cell (%d,%d) unexpectedly used fallback", row, col)
			}
		}
	}
}

func TestGrid_DisplayCoordinates(t *testing.T) {
	g := newTestGrid()
	g.Populate(UniformBuffer(100, 100, 1.0), 0.0, 1.8)

	// displayX = row/R + 1/(2R), displayY mirrors the column.
	coord, ok := g.CoordinateAt(0, 0)
	if !ok {
		t.Fatal("coordinate missing")
	}
	if math.Abs(coord.X-(0.0/9.0+1.0/18.0)) > 1e-9 {
		t.Errorf("row 0 X = %f", coord.X)
	}
	if math.Abs(coord.Y-(2.0/3.0+1.0/6.0)) > 1e-9 {
		t.Errorf("col 0 Y = %f", coord.Y)
	}

	coord, _ = g.CoordinateAt(8, 2)
	if math.Abs(coord.X-(8.0/9.0+1.0/18.0)) > 1e-9 {
		t.Errorf("row 8 X = %f", coord.X)
	}
	if math.Abs(coord.Y-1.0/6.0) > 1e-9 {
		t.Errorf("col 2 Y = %f", coord.Y)
	}
}

func TestGrid_SensorAxisSwap(t *testing.T) {
	// Depth depends only on the buffer's horizontal pixel axis. If the
	// display→sensor transpose is applied, cells in one row but
	// different columns sample different depths; without it they would
	// all read the same value.
	buf := &MockBuffer{
		W: 100, H: 100,
		ReadFn: func(x, y int) (float64, bool) {
			return 0.5 + 2.0*float64(x)/99.0, true
		},
	}

	g := newTestGrid()
	g.Populate(buf, 0.0, 1.8)

	left, _ := g.RawDepth(4, 0)
	right, _ := g.RawDepth(4, 2)
	if math.Abs(left-right) < 0.1 {
		t.Fatalf("axis swap missing: col 0 = %f, col 2 = %f", left, right)
	}
	// Column 0 has the larger displayY, hence the larger bufferX.
	if left <= right {
		t.Errorf("expected col 0 (%f) deeper than col 2 (%f)", left, right)
	}
}

func TestGrid_FallbackFillsEveryCell(t *testing.T) {
	g := newTestGrid()
	g.Populate(InvalidBuffer(100, 100), 0.0, 1.8)

	for col := 0; col < g.Cols(); col++ {
		prev := -1.0
		for row := 0; row < g.Rows(); row++ {
			cell, ok := g.CellAt(row, col)
			if !ok {
				t.Fatalf("cell (%d,%d) missing after fallback", row, col)
			}
			if !cell.Fallback {
				t.Errorf("cell (%d,%d) should be a fallback", row, col)
			}
			want := 0.9 + float64(row)*0.1 + float64(col)*0.05
			if math.Abs(cell.Raw-want) > 1e-9 {
				t.Errorf("cell (%d,%d) fallback = %f, want %f", row, col, cell.Raw, want)
			}
			if cell.Normalized < 0 || cell.Normalized > 1 {
				t.Errorf("cell (%d,%d) normalized %f out of range", row, col, cell.Normalized)
			}
			if cell.Normalized < prev {
				t.Errorf("fallback not monotone at row %d col %d", row, col)
			}
			prev = cell.Normalized
		}
	}
}

func TestGrid_OutOfRangeIndices(t *testing.T) {
	g := newTestGrid()
	g.Populate(UniformBuffer(50, 50, 1.0), 0.0, 1.8)

	cases := [][2]int{{-1, 0}, {0, -1}, {9, 0}, {0, 3}, {100, 100}}
	for _, c := range cases {
		if _, ok := g.RawDepth(c[0], c[1]); ok {
			t.Errorf("RawDepth(%d,%d) should be absent", c[0], c[1])
		}
		if _, ok := g.NormalizedDepth(c[0], c[1]); ok {
			t.Errorf("NormalizedDepth(%d,%d) should be absent", c[0], c[1])
		}
		if _, ok := g.CoordinateAt(c[0], c[1]); ok {
			t.Errorf("CoordinateAt(%d,%d) should be absent", c[0], c[1])
		}
	}
}
