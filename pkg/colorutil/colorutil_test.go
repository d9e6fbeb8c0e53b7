package colorutil

import "testing"

func TestSquaredDistance(t *testing.T) {
	a := RGB{0, 0, 0}
	b := RGB{3, 4, 0}
	if d := SquaredDistance(a, b); d != 25 {
		t.Errorf("SquaredDistance = %v, want 25", d)
	}
	if d := SquaredDistance(b, b); d != 0 {
		t.Errorf("SquaredDistance of identical colors = %v, want 0", d)
	}
}

func TestNearest(t *testing.T) {
	tests := []struct {
		name string
		in   RGB
		want string
	}{
		{"dark red maps to Red", RGB{200, 10, 10}, "Red"},
		{"pure black", RGB{0, 0, 0}, "Black"},
		{"pure white", RGB{255, 255, 255}, "White"},
		{"near navy", RGB{10, 10, 120}, "Navy"},
		{"warm gray", RGB{130, 125, 120}, "Gray"},
		// (64,0,64) is equidistant from Black, Purple, Navy and Maroon;
		// the first table entry wins.
		{"tie broken by table order", RGB{64, 0, 64}, "Black"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Nearest(tt.in); got != tt.want {
				t.Errorf("Nearest(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
