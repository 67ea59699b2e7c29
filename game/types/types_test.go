package types

import "testing"

func TestDirectionOpposite(t *testing.T) {
	for _, d := range []Direction{Up, Right, Down, Left} {
		p, o := d.ToPoint(), d.Opposite().ToPoint()
		if p.X != -o.X || p.Y != -o.Y {
			t.Errorf("%v: opposite delta %v is not the reverse of %v", d, o, p)
		}
		if d.TurnLeft().TurnRight() != d {
			t.Errorf("%v: left then right should be identity", d)
		}
	}
	if NONE.Opposite() != NONE {
		t.Error("Expected NONE to have no opposite")
	}
}

func TestGridContains(t *testing.T) {
	walled := Grid{Width: 10, Height: 6, Boundary: Walled}
	torus := Grid{Width: 10, Height: 6, Boundary: Toroidal}

	tests := []struct {
		p             Point
		walled, torus bool
	}{
		{Point{0, 0}, false, true},
		{Point{1, 1}, true, true},
		{Point{8, 4}, true, true},
		{Point{9, 4}, false, true},
		{Point{8, 5}, false, true},
		{Point{10, 3}, false, false},
		{Point{-1, 3}, false, false},
	}
	for _, tt := range tests {
		if got := walled.Contains(tt.p); got != tt.walled {
			t.Errorf("walled.Contains(%v) = %v, want %v", tt.p, got, tt.walled)
		}
		if got := torus.Contains(tt.p); got != tt.torus {
			t.Errorf("torus.Contains(%v) = %v, want %v", tt.p, got, tt.torus)
		}
	}
	if walled.Cells() != 32 || torus.Cells() != 60 {
		t.Errorf("Unexpected cell counts %d and %d", walled.Cells(), torus.Cells())
	}
}

func TestGridWrap(t *testing.T) {
	g := Grid{Width: 20, Height: 20, Boundary: Toroidal}
	tests := []struct{ in, want Point }{
		{Point{20, 5}, Point{0, 5}},
		{Point{-1, 5}, Point{19, 5}},
		{Point{3, -1}, Point{3, 19}},
		{Point{3, 20}, Point{3, 0}},
		{Point{7, 7}, Point{7, 7}},
	}
	for _, tt := range tests {
		if got := g.Wrap(tt.in); got != tt.want {
			t.Errorf("Wrap(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	walled := Grid{Width: 20, Height: 20, Boundary: Walled}
	if got := walled.Wrap(Point{20, 5}); got != (Point{20, 5}) {
		t.Errorf("Walled grid should not wrap, got %v", got)
	}
	if !g.Adjacent(Point{19, 3}, Point{0, 3}) {
		t.Error("Expected cells across the seam to be adjacent")
	}
	if walled.Adjacent(Point{19, 3}, Point{0, 3}) {
		t.Error("Walled grid has no seam")
	}
}
