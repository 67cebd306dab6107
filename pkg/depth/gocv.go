package depth

import (
	"fmt"
	"log/slog"
	"math"

	"gocv.io/x/gocv"
)

// MatBuffer adapts a gocv.Mat depth frame to the Buffer interface.
// Supported element types: CV_16U (millimeters, the common OpenNI/
// RealSense wire format) and CV_32F (meters).
type MatBuffer struct {
	mat gocv.Mat
}

// NewMatBuffer wraps a depth Mat. The Mat stays owned by the caller.
func NewMatBuffer(mat gocv.Mat) (*MatBuffer, error) {
	switch mat.Type() {
	case gocv.MatTypeCV16U, gocv.MatTypeCV32F:
		return &MatBuffer{mat: mat}, nil
	default:
		return nil, fmt.Errorf("unsupported depth mat type %v", mat.Type())
	}
}

// Width returns the frame width in pixels.
func (b *MatBuffer) Width() int { return b.mat.Cols() }

// Height returns the frame height in pixels.
func (b *MatBuffer) Height() int { return b.mat.Rows() }

// DepthAt returns the distance in meters at a pixel.
func (b *MatBuffer) DepthAt(x, y int) (float64, bool) {
	if x < 0 || x >= b.mat.Cols() || y < 0 || y >= b.mat.Rows() {
		return 0, false
	}

	var d float64
	switch b.mat.Type() {
	case gocv.MatTypeCV16U:
		// Millimeter-encoded depth; zero means no reading.
		d = float64(uint16(b.mat.GetShortAt(y, x))) / 1000.0
	case gocv.MatTypeCV32F:
		d = float64(b.mat.GetFloatAt(y, x))
	default:
		return 0, false
	}

	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, false
	}
	return d, true
}

// CameraSource captures depth frames from a gocv video device.
//
// The returned buffer is valid until the next Snapshot call; the source
// reuses its frame storage between captures.
type CameraSource struct {
	cap    *gocv.VideoCapture
	frame  gocv.Mat
	logger *slog.Logger
}

// OpenCamera opens a depth-capable capture device. logger may be nil.
func OpenCamera(device int, logger *slog.Logger) (*CameraSource, error) {
	if logger == nil {
		logger = slog.Default()
	}

	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("open capture device %d: %w", device, err)
	}

	logger.Info("depth camera opened", "device", device)

	return &CameraSource{
		cap:    vc,
		frame:  gocv.NewMat(),
		logger: logger,
	}, nil
}

// Snapshot captures the current depth frame.
func (c *CameraSource) Snapshot() (Buffer, error) {
	if ok := c.cap.Read(&c.frame); !ok || c.frame.Empty() {
		return nil, fmt.Errorf("depth frame capture failed")
	}
	return NewMatBuffer(c.frame)
}

// Close releases the capture device and frame storage.
func (c *CameraSource) Close() error {
	c.frame.Close()
	return c.cap.Close()
}

var _ Source = (*CameraSource)(nil)
