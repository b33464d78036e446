package physics

import (
	"math"
	"math/rand"

	"github.com/mark3labs/battletanks/game/shared"
)

// rayEpsilon is the direction-component threshold below which a ray is
// treated as parallel to an axis.
const rayEpsilon = 1e-4

// CircleVsCircle reports whether two ground circles overlap in the XZ plane.
// Squared distances are compared so no square root is taken.
func CircleVsCircle(a shared.Vector3, ra float64, b shared.Vector3, rb float64) bool {
	sum := ra + rb
	return a.PlanarDistanceSqTo(b) < sum*sum
}

// PointVsCircle reports whether point p lies inside the ground circle at c.
func PointVsCircle(p, c shared.Vector3, radius float64) bool {
	return p.PlanarDistanceSqTo(c) < radius*radius
}

// AABB is an axis-aligned box.
type AABB struct {
	Min shared.Vector3
	Max shared.Vector3
}

// PointVsAABB reports whether p lies inside the box.
func PointVsAABB(p shared.Vector3, box AABB) bool {
	return p.X >= box.Min.X && p.X <= box.Max.X &&
		p.Y >= box.Min.Y && p.Y <= box.Max.Y &&
		p.Z >= box.Min.Z && p.Z <= box.Max.Z
}

// AABBVsAABB reports whether two boxes overlap.
func AABBVsAABB(a, b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// RayVsAABB intersects a ray with a box using the slab method and returns
// the nearest hit distance t ≥ 0. Rays parallel to an axis degrade to an
// interval containment check on that axis.
func RayVsAABB(origin, dir shared.Vector3, box AABB) (float64, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	axes := [3]struct {
		o, d, lo, hi float64
	}{
		{origin.X, dir.X, box.Min.X, box.Max.X},
		{origin.Y, dir.Y, box.Min.Y, box.Max.Y},
		{origin.Z, dir.Z, box.Min.Z, box.Max.Z},
	}

	for _, ax := range axes {
		if math.Abs(ax.d) < rayEpsilon {
			if ax.o < ax.lo || ax.o > ax.hi {
				return 0, false
			}
			continue
		}
		t1 := (ax.lo - ax.o) / ax.d
		t2 := (ax.hi - ax.o) / ax.d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		return 0, true
	}
	return tMin, true
}

// RayVsSphere intersects a ray with a sphere and returns the nearest
// non-negative hit distance.
func RayVsSphere(origin, dir, center shared.Vector3, radius float64) (float64, bool) {
	d := dir.Normalized()
	oc := origin.Sub(center)

	b := 2 * oc.Dot(d)
	c := oc.LengthSq() - radius*radius

	discriminant := b*b - 4*c
	if discriminant < 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b - sqrtD) / 2
	t2 := (-b + sqrtD) / 2

	if t1 >= 0 {
		return t1, true
	}
	if t2 >= 0 {
		return t2, true
	}
	return 0, false
}

// SegmentVsCircle intersects the 2D segment (ax,az)→(bx,bz) with a circle
// and returns the earliest hit parameter t in [0, 1].
func SegmentVsCircle(ax, az, bx, bz, cx, cz, radius float64) (float64, bool) {
	dx := bx - ax
	dz := bz - az
	fx := ax - cx
	fz := az - cz

	a := dx*dx + dz*dz
	if a < shared.Epsilon*shared.Epsilon {
		if fx*fx+fz*fz <= radius*radius {
			return 0, true
		}
		return 0, false
	}

	b := 2 * (fx*dx + fz*dz)
	c := fx*fx + fz*fz - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b - sqrtD) / (2 * a)
	t2 := (-b + sqrtD) / (2 * a)

	if t1 >= 0 && t1 <= 1 {
		return t1, true
	}
	if t2 >= 0 && t2 <= 1 {
		return t2, true
	}
	return 0, false
}

// ResolveCircleOverlap separates two interpenetrating circular bodies by
// moving each half the overlap distance along the separating normal.
// Coincident centers get a random separating direction so the pair never
// stays stacked. Returns whether the bodies overlapped.
func ResolveCircleOverlap(a, b *Body, rng *rand.Rand) bool {
	sum := a.CollisionRadius + b.CollisionRadius
	distSq := a.Position.PlanarDistanceSqTo(b.Position)
	if distSq >= sum*sum {
		return false
	}

	dist := math.Sqrt(distSq)

	var nx, nz float64
	if dist < shared.Epsilon {
		angle := rng.Float64() * 2 * math.Pi
		nx = math.Sin(angle)
		nz = math.Cos(angle)
		dist = 0
	} else {
		nx = (b.Position.X - a.Position.X) / dist
		nz = (b.Position.Z - a.Position.Z) / dist
	}

	push := (sum - dist) / 2

	a.Position.X -= nx * push
	a.Position.Z -= nz * push
	b.Position.X += nx * push
	b.Position.Z += nz * push
	return true
}
