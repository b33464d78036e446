package shared

import (
	"math"
	"testing"
)

func TestNormalizeAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{-math.Pi / 2, -math.Pi / 2},
		{5 * math.Pi / 2, math.Pi / 2},
	}
	for _, c := range cases {
		got := NormalizeAngle(c.in)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", c.in, got, c.want)
		}
		if got <= -math.Pi || got > math.Pi {
			t.Errorf("NormalizeAngle(%v) = %v, outside (-pi, pi]", c.in, got)
		}
	}
}

func TestAngleDiffShortestPath(t *testing.T) {
	// Crossing the wrap: from 170° to -170° is a +20° turn, not -340°.
	a := math.Pi - 0.1
	b := -math.Pi + 0.1
	if d := AngleDiff(b, a); math.Abs(d-0.2) > 1e-9 {
		t.Errorf("AngleDiff = %v, want 0.2", d)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5,0,3) = %v", got)
	}
	if got := Clamp(-1, 0, 3); got != 0 {
		t.Errorf("Clamp(-1,0,3) = %v", got)
	}
	if got := Clamp(2, 0, 3); got != 2 {
		t.Errorf("Clamp(2,0,3) = %v", got)
	}
}

func TestSmoothstepEdges(t *testing.T) {
	if got := Smoothstep(0, 1, -1); got != 0 {
		t.Errorf("below edge0: got %v", got)
	}
	if got := Smoothstep(0, 1, 2); got != 1 {
		t.Errorf("above edge1: got %v", got)
	}
	if got := Smoothstep(0, 1, 0.5); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("midpoint: got %v", got)
	}
}

func TestNoiseDeterministicAndBounded(t *testing.T) {
	for i := 0; i < 100; i++ {
		x := float64(i) * 0.37
		y := float64(i) * 0.73
		a := Noise2D(x, y, 42)
		b := Noise2D(x, y, 42)
		if a != b {
			t.Fatalf("Noise2D not deterministic at (%v, %v)", x, y)
		}
		if a < 0 || a > 1 {
			t.Fatalf("Noise2D(%v, %v) = %v outside [0, 1]", x, y, a)
		}
	}

	if Noise2D(1.5, 2.5, 1) == Noise2D(1.5, 2.5, 2) {
		t.Error("different seeds produced identical noise")
	}
}

func TestFBMBounded(t *testing.T) {
	for i := 0; i < 50; i++ {
		v := FBM(float64(i)*0.11, float64(i)*0.29, 3, 2.0, 0.5, 7)
		if v < 0 || v > 1 {
			t.Fatalf("FBM out of range: %v", v)
		}
	}
}
