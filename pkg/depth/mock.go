package depth

// MockBuffer is an in-memory depth buffer for testing.
// ReadFn decides the reading for each pixel; a nil ReadFn means every
// pixel is invalid.
type MockBuffer struct {
	W, H   int
	ReadFn func(x, y int) (float64, bool)
}

// Width returns the buffer width in pixels.
func (m *MockBuffer) Width() int { return m.W }

// Height returns the buffer height in pixels.
func (m *MockBuffer) Height() int { return m.H }

// DepthAt returns the reading produced by ReadFn.
func (m *MockBuffer) DepthAt(x, y int) (float64, bool) {
	if m.ReadFn == nil {
		return 0, false
	}
	return m.ReadFn(x, y)
}

// UniformBuffer returns a buffer reading the same depth at every pixel.
func UniformBuffer(w, h int, meters float64) *MockBuffer {
	return &MockBuffer{
		W: w, H: h,
		ReadFn: func(x, y int) (float64, bool) { return meters, true },
	}
}

// InvalidBuffer returns a buffer with no valid reading anywhere.
func InvalidBuffer(w, h int) *MockBuffer {
	return &MockBuffer{W: w, H: h}
}

// MockSource is a Source returning a fixed buffer, for testing.
type MockSource struct {
	Buf Buffer
	Err error
}

// Snapshot returns the fixed buffer.
func (m *MockSource) Snapshot() (Buffer, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Buf, nil
}

var (
	_ Buffer = (*MockBuffer)(nil)
	_ Source = (*MockSource)(nil)
)
