// Package depth samples raw depth-camera buffers into a fixed logical grid.
//
// The camera collaborator owns buffer capture and lifecycle; this package
// only reads per-pixel distance values (in meters) and turns them into
// stable, display-oriented grid cells that the rest of the pipeline can
// consume without caring about sensor noise or orientation.
package depth

// Buffer is a read-only 2D field of per-pixel distance readings.
//
// Implementations are snapshots: the values behind a Buffer must not
// change while the sampler is reading it.
type Buffer interface {
	// Width returns the buffer width in pixels.
	Width() int

	// Height returns the buffer height in pixels.
	Height() int

	// DepthAt returns the distance in meters at the given pixel.
	// ok is false for invalid or missing readings (sensor dropouts,
	// out-of-range pixels).
	DepthAt(x, y int) (meters float64, ok bool)
}

// Source produces depth-buffer snapshots on demand.
// It is the seam to the external camera collaborator.
type Source interface {
	// Snapshot captures the current depth frame.
	Snapshot() (Buffer, error)
}
