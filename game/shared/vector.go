package shared

import "math"

// Epsilon is the threshold below which a vector length is treated as zero.
// Normalization of a shorter vector is skipped rather than dividing by a
// near-zero magnitude.
const Epsilon = 1e-3

// Vector3 represents a 3D position or direction. It is a value type; all
// methods return new values and never mutate the receiver.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// LengthSq returns the squared length of v.
func (v Vector3) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length returns the length of v.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.LengthSq())
}

// Normalized returns a unit-length copy of v. A vector shorter than Epsilon
// is returned unchanged so degenerate directions never produce NaN.
func (v Vector3) Normalized() Vector3 {
	l := v.Length()
	if l < Epsilon {
		return v
	}
	inv := 1 / l
	return Vector3{v.X * inv, v.Y * inv, v.Z * inv}
}

// Lerp returns the linear interpolation from v toward o by t.
func (v Vector3) Lerp(o Vector3, t float64) Vector3 {
	return Vector3{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

// DistanceSqTo returns the squared distance between v and o.
func (v Vector3) DistanceSqTo(o Vector3) float64 {
	return v.Sub(o).LengthSq()
}

// DistanceTo returns the distance between v and o.
func (v Vector3) DistanceTo(o Vector3) float64 {
	return v.Sub(o).Length()
}

// PlanarDistanceSqTo returns the squared distance between v and o in the XZ
// plane, ignoring height. Ground entities collide planar-first.
func (v Vector3) PlanarDistanceSqTo(o Vector3) float64 {
	dx := v.X - o.X
	dz := v.Z - o.Z
	return dx*dx + dz*dz
}

// PlanarLength returns the length of v projected on the XZ plane.
func (v Vector3) PlanarLength() float64 {
	return math.Hypot(v.X, v.Z)
}
