package depth

import (
	"math"
	"testing"
)

func TestSampler_UniformWindow(t *testing.T) {
	s := NewSampler(nil)
	buf := UniformBuffer(40, 40, 1.5)

	d, ok := s.Sample(buf, 0.5, 0.5, 4)
	if !ok {
		t.Fatal("expected a valid sample")
	}
	if math.Abs(d-1.5) > 1e-9 {
		t.Errorf("expected 1.5, got %f", d)
	}
}

func TestSampler_ClampsCoordinates(t *testing.T) {
	s := NewSampler(nil)
	buf := UniformBuffer(40, 40, 2.0)

	// Far outside [0,1] on both axes; must clamp, not panic or miss.
	d, ok := s.Sample(buf, -5.0, 7.0, 2)
	if !ok {
		t.Fatal("expected a valid sample at clamped coordinates")
	}
	if math.Abs(d-2.0) > 1e-9 {
		t.Errorf("expected 2.0, got %f", d)
	}
}

func TestSampler_SkipsInvalidReadings(t *testing.T) {
	s := NewSampler(nil)

	// Half the pixels report 1.0, the rest are dropouts. The mean of
	// the valid half must come out exactly 1.0.
	buf := &MockBuffer{
		W: 40, H: 40,
		ReadFn: func(x, y int) (float64, bool) {
			if x%2 == 0 {
				return 1.0, true
			}
			return 0, false
		},
	}

	d, ok := s.Sample(buf, 0.5, 0.5, 3)
	if !ok {
		t.Fatal("expected a valid sample")
	}
	if math.Abs(d-1.0) > 1e-9 {
		t.Errorf("expected 1.0, got %f", d)
	}
}

func TestSampler_NearZeroIsDropout(t *testing.T) {
	s := NewSampler(nil)
	buf := UniformBuffer(40, 40, 0.001)

	if _, ok := s.Sample(buf, 0.5, 0.5, 3); ok {
		t.Error("near-zero readings must not produce a sample")
	}
}

func TestSampler_NoValidReadings(t *testing.T) {
	s := NewSampler(nil)

	if _, ok := s.Sample(InvalidBuffer(40, 40), 0.5, 0.5, 6); ok {
		t.Error("expected no sample from an all-invalid buffer")
	}
}

func TestSampler_RetryRejectsImplausible(t *testing.T) {
	s := NewSampler(nil)

	// Valid readings but far outside the plausibility window.
	buf := UniformBuffer(40, 40, 20.0)
	if _, ok := s.SampleWithRetry(buf, 0.5, 0.5); ok {
		t.Error("implausible depth must fail the retry chain")
	}

	buf = UniformBuffer(40, 40, 2.2)
	d, ok := s.SampleWithRetry(buf, 0.5, 0.5)
	if !ok || math.Abs(d-2.2) > 1e-9 {
		t.Errorf("expected 2.2, got %f (ok=%v)", d, ok)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name               string
		depth, min, max    float64
		want               float64
	}{
		{"midpoint", 0.9, 0.0, 1.8, 0.5},
		{"at min", 0.0, 0.0, 1.8, 0.0},
		{"at max", 1.8, 0.0, 1.8, 1.0},
		{"below min clamps", -1.0, 0.0, 1.8, 0.0},
		{"above max clamps", 5.0, 0.0, 1.8, 1.0},
		{"shifted bounds", 0.5, 0.5, 1.5, 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.depth, tc.min, tc.max)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Normalize(%f, %f, %f) = %f, want %f",
					tc.depth, tc.min, tc.max, got, tc.want)
			}
		})
	}
}

func TestNormalize_AlwaysInRange(t *testing.T) {
	for d := -2.0; d <= 10.0; d += 0.37 {
		got := Normalize(d, 0.0, 1.8)
		if got < 0 || got > 1 {
			t.Fatalf("Normalize(%f) = %f out of [0,1]", d, got)
		}
	}
}
