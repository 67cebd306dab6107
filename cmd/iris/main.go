// Iris - depth-to-audio translation for non-visual navigation.
//
// Captures depth frames, quantizes them onto a 9x3 musical grid, and
// plays spatial sweeps over MIDI. The control API drives capture,
// scans, and instrument changes.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mariovpereira/Iris/internal/config"
	"github.com/mariovpereira/Iris/internal/log"
	"github.com/mariovpereira/Iris/pkg/depth"
	"github.com/mariovpereira/Iris/pkg/music"
	"github.com/mariovpereira/Iris/pkg/sonify"
	"github.com/mariovpereira/Iris/pkg/voice"
	"github.com/mariovpereira/Iris/pkg/web"
)

func main() {
	var (
		camera    = flag.Int("camera", 0, "depth capture device index")
		synthetic = flag.Bool("synthetic", false, "use a synthetic depth source instead of a camera")
	)
	flag.Parse()

	log.Init(config.LogLevel())
	logger := log.L()

	// Audio collaborator: MIDI out if available, silent mocks otherwise.
	voices, cleanup := openVoices(logger)
	defer cleanup()

	engine := voice.NewEngine(voices, music.NewMapper(), logger)

	// Default timbres, one family per sector.
	engine.ChangeInstrument(music.Cello, voice.SectorLeft)
	engine.ChangeInstrument(music.Piano, voice.SectorCenter)
	engine.ChangeInstrument(music.Flute, voice.SectorRight)

	// Camera collaborator.
	source, closeSource := openSource(*camera, *synthetic, logger)
	defer closeSource()

	cfg := sonify.DefaultConfig()
	cfg.MinDepth = config.MinDepth()
	cfg.MaxDepth = config.MaxDepth()
	cfg.ScanDuration = config.ScanDuration()

	son := sonify.New(cfg, source, engine, nil, logger)
	defer son.Close()

	server := web.NewServer(config.Port(), son, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		son.Close()
		server.Shutdown()
	}()

	if err := server.Start(); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// openVoices opens the MIDI output, degrading to silent mock voices
// when no port is available so the pipeline still runs end to end.
func openVoices(logger *slog.Logger) ([voice.NumSectors]voice.Voice, func()) {
	out, err := voice.OpenMIDIOutput(config.MIDIPort(), logger)
	if err != nil {
		logger.Warn("midi unavailable, running silent", "err", err)
		_, voices := voice.MockVoices()
		return voices, func() {}
	}
	return out.Voices(), func() { out.Close() }
}

// openSource opens the depth camera, or a deterministic synthetic field
// for development without hardware.
func openSource(device int, synthetic bool, logger *slog.Logger) (depth.Source, func()) {
	if !synthetic {
		cam, err := depth.OpenCamera(device, logger)
		if err == nil {
			return cam, func() { cam.Close() }
		}
		logger.Warn("depth camera unavailable, using synthetic source", "err", err)
	}

	// Vertical gradient, depth increasing down-frame.
	buf := &depth.MockBuffer{
		W: 640, H: 480,
		ReadFn: func(x, y int) (float64, bool) {
			return 0.4 + 1.4*float64(y)/480.0, true
		},
	}
	return &depth.MockSource{Buf: buf}, func() {}
}
