package web

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/mariovpereira/Iris/pkg/depth"
	"github.com/mariovpereira/Iris/pkg/music"
	"github.com/mariovpereira/Iris/pkg/scan"
	"github.com/mariovpereira/Iris/pkg/voice"
)

// gridResponse is the JSON shape of the populated grid.
type gridResponse struct {
	Rows  int          `json:"rows"`
	Cols  int          `json:"cols"`
	Cells []depth.Cell `json:"cells"`
}

// handleGrid returns the current grid contents.
func (s *Server) handleGrid(c *fiber.Ctx) error {
	g := s.son.Grid()
	if !g.Populated() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "grid not captured yet",
		})
	}

	resp := gridResponse{Rows: g.Rows(), Cols: g.Cols()}
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			cell, _ := g.CellAt(row, col)
			resp.Cells = append(resp.Cells, cell)
		}
	}
	return c.JSON(resp)
}

// handleCapture repopulates the grid from a fresh depth snapshot.
func (s *Server) handleCapture(c *fiber.Ctx) error {
	if err := s.son.CaptureGrid(); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"captured": true})
}

// handleSample plays and returns a one-shot continuous sample at
// display position (x, y).
func (s *Server) handleSample(c *fiber.Ctx) error {
	x, errX := strconv.ParseFloat(c.Query("x", "0.5"), 64)
	y, errY := strconv.ParseFloat(c.Query("y", "0.5"), 64)
	if errX != nil || errY != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "x and y must be numbers"})
	}

	meters, normalized, err := s.son.SampleContinuous(x, y)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"meters":     meters,
		"normalized": normalized,
		"sector":     voice.SectorForPosition(y).String(),
	})
}

// instrumentInfo describes one catalog entry.
type instrumentInfo struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Program  uint8  `json:"program"`
}

// handleListInstruments returns the instrument catalog.
func (s *Server) handleListInstruments(c *fiber.Ctx) error {
	var out []instrumentInfo
	for _, inst := range music.Instruments() {
		out = append(out, instrumentInfo{
			Name:     inst.String(),
			Category: inst.Category().String(),
			Program:  inst.Program(),
		})
	}
	return c.JSON(out)
}

// changeInstrumentRequest is the body of POST /api/instrument.
type changeInstrumentRequest struct {
	Sector     string `json:"sector"`
	Instrument string `json:"instrument"`
}

// handleChangeInstrument rebinds a sector's timbre.
func (s *Server) handleChangeInstrument(c *fiber.Ctx) error {
	var req changeInstrumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	sector, ok := voice.ParseSector(req.Sector)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown sector " + req.Sector})
	}
	inst, err := music.ParseInstrument(req.Instrument)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s.son.ChangeInstrument(sector, inst)
	return c.JSON(fiber.Map{
		"sector":     sector.String(),
		"instrument": inst.String(),
	})
}

// sequentialScanRequest is the body of POST /api/scan/sequential.
type sequentialScanRequest struct {
	Column int `json:"column"`
}

// handleSequentialScan starts a single-column sweep; progress streams
// over the scan WebSocket.
func (s *Server) handleSequentialScan(c *fiber.Ctx) error {
	req := sequentialScanRequest{Column: 1}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
	}

	err := s.son.StartSequentialScan(req.Column,
		func(h scan.RowHighlight) {
			s.broadcast(ScanEvent{Type: "row", Row: h.Row, Intensity: h.Intensity})
		},
		func() {
			s.broadcast(ScanEvent{Type: "complete"})
		},
	)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"started": true, "kind": "sequential", "column": req.Column})
}

// handleSimultaneousScan starts an all-column sweep.
func (s *Server) handleSimultaneousScan(c *fiber.Ctx) error {
	err := s.son.StartSimultaneousScan(
		func(h scan.RowHighlight) {
			s.broadcast(ScanEvent{Type: "row", Row: h.Row, Intensity: h.Intensity})
		},
		func() {
			s.broadcast(ScanEvent{Type: "complete"})
		},
	)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"started": true, "kind": "simultaneous"})
}

// handleCancelScan cancels any active sweep.
func (s *Server) handleCancelScan(c *fiber.Ctx) error {
	s.son.CancelScan()
	return c.JSON(fiber.Map{"cancelled": true})
}
