package shared

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestVectorArithmetic(t *testing.T) {
	a := Vector3{1, 2, 3}
	b := Vector3{4, 5, 6}

	sum := a.Add(b)
	if sum != (Vector3{5, 7, 9}) {
		t.Errorf("Add = %+v", sum)
	}

	diff := b.Sub(a)
	if diff != (Vector3{3, 3, 3}) {
		t.Errorf("Sub = %+v", diff)
	}

	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v", got)
	}

	if got := a.Scale(2); got != (Vector3{2, 4, 6}) {
		t.Errorf("Scale = %+v", got)
	}
}

func TestNormalizedUnitLength(t *testing.T) {
	v := Vector3{3, 4, 0}.Normalized()
	if !almostEqual(v.Length(), 1) {
		t.Errorf("length = %v", v.Length())
	}
	if !almostEqual(v.X, 0.6) || !almostEqual(v.Y, 0.8) {
		t.Errorf("Normalized = %+v", v)
	}
}

func TestNormalizedDegenerateVector(t *testing.T) {
	// Shorter than Epsilon: returned unchanged, never NaN.
	tiny := Vector3{1e-4, 0, 0}
	got := tiny.Normalized()
	if got != tiny {
		t.Errorf("tiny vector changed: %+v", got)
	}

	zero := Vector3{}.Normalized()
	if math.IsNaN(zero.X) || math.IsNaN(zero.Y) || math.IsNaN(zero.Z) {
		t.Error("zero vector normalization produced NaN")
	}
}

func TestPlanarDistanceIgnoresY(t *testing.T) {
	a := Vector3{0, 100, 0}
	b := Vector3{3, -50, 4}
	if got := a.PlanarDistanceSqTo(b); !almostEqual(got, 25) {
		t.Errorf("PlanarDistanceSqTo = %v", got)
	}
}

func TestLerpEndpoints(t *testing.T) {
	a := Vector3{0, 0, 0}
	b := Vector3{10, 20, 30}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("t=0: %+v", got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("t=1: %+v", got)
	}
	if got := a.Lerp(b, 0.5); got != (Vector3{5, 10, 15}) {
		t.Errorf("t=0.5: %+v", got)
	}
}
