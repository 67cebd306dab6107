// Package web exposes the depth-to-audio pipeline to the UI layer over
// HTTP, with a WebSocket stream of scan progress events.
package web

import (
	"log/slog"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/mariovpereira/Iris/pkg/sonify"
)

// ScanEvent is broadcast to WebSocket clients during a sweep.
type ScanEvent struct {
	// Type is "row" for a highlight update, "complete" at teardown.
	Type string `json:"type"`
	// Row and Intensity carry the highlight for "row" events.
	Row       int     `json:"row"`
	Intensity float64 `json:"intensity"`
}

// Server is the control API server.
type Server struct {
	app    *fiber.App
	port   string
	son    *sonify.Sonifier
	logger *slog.Logger

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]bool
}

// NewServer creates the control server around a Sonifier.
// logger may be nil.
func NewServer(port string, son *sonify.Sonifier, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		port:    port,
		son:     son,
		logger:  logger,
		clients: make(map[*websocket.Conn]bool),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Iris Control",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/grid", s.handleGrid)
	api.Post("/capture", s.handleCapture)
	api.Get("/sample", s.handleSample)
	api.Get("/instruments", s.handleListInstruments)
	api.Post("/instrument", s.handleChangeInstrument)
	api.Post("/scan/sequential", s.handleSequentialScan)
	api.Post("/scan/simultaneous", s.handleSimultaneousScan)
	api.Post("/scan/cancel", s.handleCancelScan)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/scan", websocket.New(s.handleScanWS))

	s.app = app
	return s
}

// App returns the underlying fiber app (used by tests).
func (s *Server) App() *fiber.App { return s.app }

// Start begins serving. Blocks until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("control api listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// broadcast sends a scan event to every connected WebSocket client.
// Slow or broken clients are dropped.
func (s *Server) broadcast(ev ScanEvent) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for c := range s.clients {
		if err := c.WriteJSON(ev); err != nil {
			c.Close()
			delete(s.clients, c)
			s.logger.Debug("dropped scan websocket client", "err", err)
		}
	}
}

// handleScanWS holds a client connection open and streams scan events.
func (s *Server) handleScanWS(c *websocket.Conn) {
	s.clientsMu.Lock()
	s.clients[c] = true
	count := len(s.clients)
	s.clientsMu.Unlock()

	s.logger.Info("scan websocket client connected", "clients", count)

	// Keep connection alive until the client goes away.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	s.clientsMu.Lock()
	delete(s.clients, c)
	s.clientsMu.Unlock()
}
