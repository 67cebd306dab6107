// Package config provides configuration helpers for Iris commands.
package config

import (
	"os"
	"strconv"
	"time"
)

// Default calibration and playback configuration.
const (
	// DefaultMinDepth is the near calibration bound in meters.
	DefaultMinDepth = 0.0
	// DefaultMaxDepth is the far calibration bound in meters.
	DefaultMaxDepth = 1.8
	// DefaultScanDuration is the total duration of one grid sweep.
	DefaultScanDuration = 5 * time.Second
	// DefaultContinuousPeriod is the cadence of continuous sampling.
	DefaultContinuousPeriod = 150 * time.Millisecond
	// DefaultPort is the control API listen port.
	DefaultPort = "8090"
)

// MinDepth returns the near calibration bound from IRIS_MIN_DEPTH.
func MinDepth() float64 {
	return envFloat("IRIS_MIN_DEPTH", DefaultMinDepth)
}

// MaxDepth returns the far calibration bound from IRIS_MAX_DEPTH.
func MaxDepth() float64 {
	return envFloat("IRIS_MAX_DEPTH", DefaultMaxDepth)
}

// ScanDuration returns the sweep duration from IRIS_SCAN_SECONDS.
func ScanDuration() time.Duration {
	if v := os.Getenv("IRIS_SCAN_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return time.Duration(f * float64(time.Second))
		}
	}
	return DefaultScanDuration
}

// Port returns the control API port from IRIS_PORT.
func Port() string {
	if p := os.Getenv("IRIS_PORT"); p != "" {
		return p
	}
	return DefaultPort
}

// MIDIPort returns the preferred MIDI output port name from IRIS_MIDI_PORT.
// Empty means "first available output".
func MIDIPort() string {
	return os.Getenv("IRIS_MIDI_PORT")
}

// LogLevel returns the log level from LOG_LEVEL.
func LogLevel() string {
	if l := os.Getenv("LOG_LEVEL"); l != "" {
		return l
	}
	return "info"
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
