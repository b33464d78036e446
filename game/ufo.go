package game

import (
	"math"
	"math/rand"

	"github.com/mark3labs/battletanks/game/physics"
	"github.com/mark3labs/battletanks/game/shared"
)

const (
	ufoAltitude  = 12.0
	ufoBobAmp    = 1.5
	ufoBobRate   = 2.0
	ufoSpeed     = 10.0
	ufoDriftRate = 0.4
	ufoFireRange = 70.0
	ufoCooldown  = 3.0
)

// UFO is the high-level bonus enemy. It hovers above the battlefield on a
// drifting course and fires straight at the nearest player.
type UFO struct {
	physics.Body

	ID     string
	Health int

	moveAngle     float64
	bobClock      float64
	shootCooldown float64
}

// NewUFO spawns a UFO at the given XZ position at cruise altitude.
func NewUFO(id string, pos shared.Vector3, rng *rand.Rand) *UFO {
	pos.Y = ufoAltitude
	return &UFO{
		Body: physics.Body{
			Position:        pos,
			CollisionRadius: 3.0,
			Height:          1.0,
			Alive:           true,
		},
		ID:        id,
		Health:    50,
		moveAngle: rng.Float64() * 2 * math.Pi,
	}
}

// Update advances the drift course and bobbing. The course heading turns at
// a fixed low rate, tracing a slow circle; altitude follows a sine bob
// around cruise height.
func (u *UFO) Update(t *Terrain, dt float64) {
	if !u.Alive {
		return
	}

	u.moveAngle += ufoDriftRate * dt
	u.bobClock += dt
	if u.shootCooldown > 0 {
		u.shootCooldown -= dt
	}

	u.Velocity = shared.Vector3{
		X: math.Sin(u.moveAngle) * ufoSpeed,
		Z: math.Cos(u.moveAngle) * ufoSpeed,
	}
	u.Position = u.Position.Add(u.Velocity.Scale(dt))
	u.Position.Y = ufoAltitude + math.Sin(u.bobClock*ufoBobRate)*ufoBobAmp
	u.Rotation = shared.NormalizeAngle(u.moveAngle)

	if !t.InBounds(u.Position.X, u.Position.Z, 0) {
		// Turn back toward the center when drifting off the map.
		u.moveAngle = math.Atan2(-u.Position.X, -u.Position.Z)
	}
}

// ShouldFire reports whether the UFO fires at the target this tick and, if
// so, resets its cooldown. The UFO aims directly, no hull alignment needed.
func (u *UFO) ShouldFire(target *Player) bool {
	if !u.Alive || u.shootCooldown > 0 || target == nil || !target.Alive {
		return false
	}
	if u.Position.DistanceTo(target.Position) > ufoFireRange {
		return false
	}
	u.shootCooldown = ufoCooldown
	return true
}

// AimAt returns the normalized firing direction toward the target.
func (u *UFO) AimAt(target *Player) shared.Vector3 {
	return target.Position.Sub(u.Position).Normalized()
}

// TakeDamage applies damage and reports whether it destroyed the UFO.
func (u *UFO) TakeDamage(amount int) bool {
	if !u.Alive {
		return false
	}
	u.Health -= amount
	if u.Health <= 0 {
		u.Health = 0
		u.Alive = false
		return true
	}
	return false
}

// Snapshot renders the UFO for state publishing.
func (u *UFO) Snapshot() EnemySnapshot {
	return EnemySnapshot{
		ID:       u.ID,
		Kind:     "ufo",
		Position: u.Position,
		Rotation: u.Rotation,
		Health:   u.Health,
	}
}
