package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mark3labs/battletanks/game/shared"
)

func TestCircleVsCirclePlanar(t *testing.T) {
	a := shared.Vector3{X: 0, Y: 50, Z: 0}
	b := shared.Vector3{X: 3, Y: -50, Z: 0}

	// Height difference is ignored; only XZ distance counts.
	if !CircleVsCircle(a, 2, b, 2) {
		t.Error("overlapping circles reported separate")
	}
	if CircleVsCircle(a, 1, b, 1) {
		t.Error("separate circles reported overlapping")
	}
}

func TestPointVsAABB(t *testing.T) {
	box := AABB{
		Min: shared.Vector3{X: -1, Y: -1, Z: -1},
		Max: shared.Vector3{X: 1, Y: 1, Z: 1},
	}

	if !PointVsAABB(shared.Vector3{}, box) {
		t.Error("center not inside")
	}
	if !PointVsAABB(shared.Vector3{X: 1, Y: 1, Z: 1}, box) {
		t.Error("corner not inside (boundary is inclusive)")
	}
	if PointVsAABB(shared.Vector3{X: 1.01}, box) {
		t.Error("outside point reported inside")
	}
}

func TestRayVsAABB(t *testing.T) {
	box := AABB{
		Min: shared.Vector3{X: -1, Y: -1, Z: 4},
		Max: shared.Vector3{X: 1, Y: 1, Z: 6},
	}

	tHit, ok := RayVsAABB(shared.Vector3{}, shared.Vector3{Z: 1}, box)
	if !ok {
		t.Fatal("ray through box missed")
	}
	if math.Abs(tHit-4) > 1e-9 {
		t.Errorf("hit distance = %v, want 4", tHit)
	}

	if _, ok := RayVsAABB(shared.Vector3{}, shared.Vector3{Z: -1}, box); ok {
		t.Error("ray pointing away reported a hit")
	}

	// Axis-parallel ray offset outside the slab on another axis.
	if _, ok := RayVsAABB(shared.Vector3{X: 5}, shared.Vector3{Z: 1}, box); ok {
		t.Error("parallel offset ray reported a hit")
	}
}

func TestRayVsSphere(t *testing.T) {
	center := shared.Vector3{Z: 10}

	tHit, ok := RayVsSphere(shared.Vector3{}, shared.Vector3{Z: 1}, center, 2)
	if !ok {
		t.Fatal("ray through sphere missed")
	}
	if math.Abs(tHit-8) > 1e-9 {
		t.Errorf("hit distance = %v, want 8", tHit)
	}

	if _, ok := RayVsSphere(shared.Vector3{}, shared.Vector3{X: 1}, center, 2); ok {
		t.Error("miss reported a hit")
	}

	// Origin inside the sphere: nearest non-negative root is the exit.
	tHit, ok = RayVsSphere(center, shared.Vector3{Z: 1}, center, 2)
	if !ok || math.Abs(tHit-2) > 1e-9 {
		t.Errorf("inside origin: t = %v, ok = %v", tHit, ok)
	}
}

func TestSegmentVsCircle(t *testing.T) {
	// Segment from z=0 to z=20 through a circle at z=10 radius 2.
	tHit, ok := SegmentVsCircle(0, 0, 0, 20, 0, 10, 2)
	if !ok {
		t.Fatal("crossing segment missed")
	}
	if math.Abs(tHit-0.4) > 1e-9 {
		t.Errorf("entry parameter = %v, want 0.4", tHit)
	}

	// Segment ending short of the circle.
	if _, ok := SegmentVsCircle(0, 0, 0, 7, 0, 10, 2); ok {
		t.Error("short segment reported a hit")
	}

	// Degenerate zero-length segment inside the circle.
	if _, ok := SegmentVsCircle(0, 10, 0, 10, 0, 10, 2); !ok {
		t.Error("point inside circle not reported")
	}
}

func TestResolveCircleOverlapSeparates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := &Body{Position: shared.Vector3{}, CollisionRadius: 2, Alive: true}
	b := &Body{Position: shared.Vector3{X: 3}, CollisionRadius: 2, Alive: true}

	if !ResolveCircleOverlap(a, b, rng) {
		t.Fatal("overlap not detected")
	}

	dist := math.Hypot(b.Position.X-a.Position.X, b.Position.Z-a.Position.Z)
	if math.Abs(dist-4) > 1e-9 {
		t.Errorf("separation distance = %v, want 4", dist)
	}

	// Symmetric push: each body moved half the overlap.
	if math.Abs(a.Position.X+0.5) > 1e-9 || math.Abs(b.Position.X-3.5) > 1e-9 {
		t.Errorf("asymmetric push: a = %v, b = %v", a.Position.X, b.Position.X)
	}
}

func TestResolveCircleOverlapCoincidentCenters(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := &Body{CollisionRadius: 1, Alive: true}
	b := &Body{CollisionRadius: 1, Alive: true}

	if !ResolveCircleOverlap(a, b, rng) {
		t.Fatal("stacked bodies not detected")
	}
	if a.Position == b.Position {
		t.Error("stacked bodies were not separated")
	}
	// A single resolution clears the whole overlap, even from dead center.
	dist := math.Sqrt(a.Position.PlanarDistanceSqTo(b.Position))
	if math.Abs(dist-2) > 1e-9 {
		t.Errorf("residual overlap after separation: dist = %v, want 2", dist)
	}
}

func TestResolveCircleOverlapNoContact(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := &Body{CollisionRadius: 1, Alive: true}
	b := &Body{Position: shared.Vector3{X: 5}, CollisionRadius: 1, Alive: true}

	if ResolveCircleOverlap(a, b, rng) {
		t.Error("separate bodies reported overlapping")
	}
	if a.Position != (shared.Vector3{}) {
		t.Error("separate body was moved")
	}
}
