package music

import (
	"math"
	"testing"
)

func TestNote_MIDI(t *testing.T) {
	cases := []struct {
		note Note
		want int
	}{
		{Note{C, 4}, 60},
		{Note{A, 4}, 69},
		{Note{C, 1}, 24},
		{Note{C, 8}, 108},
		{Note{B, 3}, 59},
		{Note{CSharp, 4}, 61},
	}
	for _, tc := range cases {
		if got := tc.note.MIDI(); got != tc.want {
			t.Errorf("%s MIDI = %d, want %d", tc.note, got, tc.want)
		}
	}
}

func TestNote_Frequency(t *testing.T) {
	if f := (Note{A, 4}).Frequency(); math.Abs(f-440.0) > 1e-9 {
		t.Errorf("A4 = %f Hz, want 440", f)
	}
	if f := (Note{A, 5}).Frequency(); math.Abs(f-880.0) > 1e-6 {
		t.Errorf("A5 = %f Hz, want 880", f)
	}
	if f := (Note{C, 4}).Frequency(); math.Abs(f-261.6255653) > 1e-4 {
		t.Errorf("C4 = %f Hz, want ~261.63", f)
	}
}

func TestNote_String(t *testing.T) {
	if s := (Note{CSharp, 3}).String(); s != "C#3" {
		t.Errorf("got %q, want C#3", s)
	}
	if s := (Note{C, 8}).String(); s != "C8" {
		t.Errorf("got %q, want C8", s)
	}
}
