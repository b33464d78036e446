package physics

import (
	"math"

	"github.com/mark3labs/battletanks/game/shared"
)

// Body is the kinematic state every simulated entity carries. Entity types
// embed a Body and layer their own behavior on top; the integrators in this
// package only ever read and write Body fields.
type Body struct {
	Position        shared.Vector3
	Velocity        shared.Vector3
	Rotation        float64 // yaw in radians, kept in (-π, π]
	CollisionRadius float64
	Height          float64
	Alive           bool
	UseGravity      bool
}

// Forward returns the unit heading vector in the XZ plane. Rotation zero
// faces +Z.
func (b *Body) Forward() shared.Vector3 {
	return shared.Vector3{X: math.Sin(b.Rotation), Y: 0, Z: math.Cos(b.Rotation)}
}

// FaceVelocity sets the body's yaw from its velocity direction. A
// near-stationary body keeps its current facing.
func (b *Body) FaceVelocity() {
	if b.Velocity.PlanarLength() < shared.Epsilon {
		return
	}
	b.Rotation = shared.NormalizeAngle(math.Atan2(b.Velocity.X, b.Velocity.Z))
}

// Grounded reports whether the body is resting at ground level.
func (b *Body) Grounded() bool {
	return b.Position.Y <= groundEpsilon
}

const groundEpsilon = 1e-3
