package depth

import (
	"log/slog"
)

// minValidReading is the floor below which a raw reading is treated as a
// sensor dropout rather than a real distance.
const minValidReading = 0.01

// Plausibility window for retried area samples, in meters. Averages
// outside this window are discarded and the next (smaller) radius is
// tried.
const (
	minPlausibleDepth = 0.1
	maxPlausibleDepth = 5.0
)

// sampleRadii is the decreasing retry sequence for area sampling: trade
// spatial precision for stability first, precision last.
var sampleRadii = [...]int{6, 4, 2}

// Sampler reads point and area samples out of a raw depth buffer.
//
// Single-pixel reads from depth sensors are noisy near edges and in
// low-confidence regions, so Sample averages a square window around the
// requested point and rejects invalid readings instead of trusting any
// one pixel.
type Sampler struct {
	logger *slog.Logger
}

// NewSampler creates a sampler. logger may be nil.
func NewSampler(logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{logger: logger}
}

// Sample averages all valid readings in a square window of half-width
// radius pixels centered on the normalized coordinate (x, y). Coordinates
// are clamped into [0,1]. ok is false when the window contains no valid
// reading; the caller decides the fallback.
func (s *Sampler) Sample(buf Buffer, x, y float64, radius int) (meters float64, ok bool) {
	w, h := buf.Width(), buf.Height()
	if w <= 0 || h <= 0 {
		return 0, false
	}

	x = clamp01(x)
	y = clamp01(y)

	cx := int(x * float64(w-1))
	cy := int(y * float64(h-1))

	var sum float64
	var count int
	for py := cy - radius; py <= cy+radius; py++ {
		if py < 0 || py >= h {
			continue
		}
		for px := cx - radius; px <= cx+radius; px++ {
			if px < 0 || px >= w {
				continue
			}
			d, valid := buf.DepthAt(px, py)
			if !valid || d < minValidReading {
				continue
			}
			sum += d
			count++
		}
	}

	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// SampleWithRetry walks the decreasing radius sequence and accepts the
// first average inside the plausibility window. ok is false when every
// radius fails.
func (s *Sampler) SampleWithRetry(buf Buffer, x, y float64) (meters float64, ok bool) {
	for _, radius := range sampleRadii {
		d, valid := s.Sample(buf, x, y, radius)
		if valid && d >= minPlausibleDepth && d <= maxPlausibleDepth {
			return d, true
		}
	}
	return 0, false
}

// Normalize rescales a depth reading against the calibration bounds so
// that minDepth maps to 0.0 and maxDepth maps to 1.0. Readings outside
// the bounds are clamped first. minDepth < maxDepth is a caller contract.
func Normalize(depth, minDepth, maxDepth float64) float64 {
	if depth < minDepth {
		depth = minDepth
	}
	if depth > maxDepth {
		depth = maxDepth
	}
	return (depth - minDepth) / (maxDepth - minDepth)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
