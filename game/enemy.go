package game

import (
	"math"
	"math/rand"

	"github.com/mark3labs/battletanks/game/physics"
	"github.com/mark3labs/battletanks/game/shared"
)

// AIState is the enemy tank behaviour state.
type AIState string

const (
	StateWander AIState = "wander"
	StatePursue AIState = "pursue"
	StateShoot  AIState = "shoot"
)

const (
	// Firing requires heading within this many radians of the target.
	fireAlignmentTolerance = 0.3
	// Spread applied to the bearing when a pursuit heading is rolled.
	pursueHeadingJitter = 0.5
)

// EnemyTank is an AI-driven hostile tank.
type EnemyTank struct {
	physics.Body

	ID       string
	Callsign string
	Health   int
	State    AIState

	// MoveTimer counts down to the next movement decision.
	MoveTimer     float64
	shootCooldown float64
	seekChance    float64
	heading       float64
	fireReady     bool

	rng *rand.Rand
}

// NewEnemyTank creates an enemy at the given position. seekChance is the
// per-decision probability the tank pursues the nearest player instead of
// wandering; cooldown is the initial delay before the first shot attempt.
func NewEnemyTank(id, callsign string, pos shared.Vector3, seekChance, cooldown float64, rng *rand.Rand) *EnemyTank {
	e := &EnemyTank{
		Body: physics.Body{
			Position:        pos,
			Rotation:        shared.NormalizeAngle(rng.Float64() * 2 * math.Pi),
			CollisionRadius: 2.0,
			Height:          1.2,
			Alive:           true,
		},
		ID:            id,
		Callsign:      callsign,
		Health:        100,
		State:         StateWander,
		seekChance:    seekChance,
		shootCooldown: cooldown,
		rng:           rng,
	}
	e.heading = e.Rotation
	e.pickWanderMove()
	return e
}

// pickWanderMove rolls a new heading and decision timer.
func (e *EnemyTank) pickWanderMove() {
	e.MoveTimer = 2 + e.rng.Float64()*3
	e.heading = shared.NormalizeAngle(e.rng.Float64() * 2 * math.Pi)
}

// Update advances the AI for one tick. The target is the nearest live
// player, nil when none exists. Two independent triggers drive the state:
// the decision timer re-rolls pursue-vs-wander every 2-5 seconds, and the
// shoot cooldown arms a one-shot fire flag whenever it expires with the
// hull aligned on a visible target.
func (e *EnemyTank) Update(t *Terrain, target *Player, dt float64, cfg EnemyTuning) {
	if !e.Alive {
		return
	}

	if e.shootCooldown > 0 {
		e.shootCooldown -= dt
	}

	hasTarget := target != nil && target.Alive

	e.MoveTimer -= dt
	if e.MoveTimer <= 0 {
		if hasTarget && e.rng.Float64() < e.seekChance {
			e.MoveTimer = 2 + e.rng.Float64()*3
			e.State = StatePursue
			bearing := math.Atan2(target.Position.X-e.Position.X, target.Position.Z-e.Position.Z)
			e.heading = shared.NormalizeAngle(bearing + (e.rng.Float64()-0.5)*pursueHeadingJitter)
		} else {
			e.State = StateWander
			e.pickWanderMove()
		}
	}

	if e.shootCooldown <= 0 && hasTarget {
		want := math.Atan2(target.Position.X-e.Position.X, target.Position.Z-e.Position.Z)
		if math.Abs(shared.AngleDiff(want, e.Rotation)) < fireAlignmentTolerance &&
			t.LineOfSight(e.Position, target.Position) {
			e.State = StateShoot
			e.heading = want
			e.fireReady = true
			e.shootCooldown = cfg.ShootCooldown
		}
	}

	e.steer(dt, cfg)

	if e.State == StateShoot {
		// Turret locked: no translation until the next decision roll.
		e.Velocity = shared.Vector3{}
		return
	}

	prev := e.Position
	speed := cfg.MaxSpeed * (0.5 + e.rng.Float64()*0.5)
	fwd := e.Forward()
	e.Position = e.Position.Add(fwd.Scale(speed * dt))
	e.Velocity = fwd.Scale(speed)

	if t.ObstructedAt(e.Position, e.CollisionRadius) || t.MountainAt(e.Position, e.CollisionRadius) {
		e.Position = prev
		e.Velocity = shared.Vector3{}
		e.RecoverFromCollision()
	}
	t.ClampToBounds(&e.Position, e.CollisionRadius)
}

// steer turns the hull toward the current heading at the configured rate.
func (e *EnemyTank) steer(dt float64, cfg EnemyTuning) {
	diff := shared.AngleDiff(e.heading, e.Rotation)
	maxTurn := cfg.TurnSpeed * dt
	turn := shared.Clamp(diff, -maxTurn, maxTurn)
	e.Rotation = shared.NormalizeAngle(e.Rotation + turn)
}

// RecoverFromCollision kicks the tank onto a fresh heading after running
// into something: at least a quarter turn away, randomized up to a half
// turn more, with a short timer so the escape move actually plays out.
func (e *EnemyTank) RecoverFromCollision() {
	e.heading = shared.NormalizeAngle(e.Rotation + math.Pi/2 + e.rng.Float64()*math.Pi)
	e.MoveTimer = 1 + e.rng.Float64()
	if e.State != StateShoot {
		e.State = StateWander
	}
}

// ShouldFire consumes the one-shot fire flag armed by Update when the
// cooldown expired with the hull aligned on a visible target.
func (e *EnemyTank) ShouldFire() bool {
	if !e.fireReady {
		return false
	}
	e.fireReady = false
	return true
}

// TakeDamage applies damage and reports whether it destroyed the tank.
func (e *EnemyTank) TakeDamage(amount int) bool {
	if !e.Alive {
		return false
	}
	e.Health -= amount
	if e.Health <= 0 {
		e.Health = 0
		e.Alive = false
		e.Velocity = shared.Vector3{}
		return true
	}
	return false
}

// MuzzlePosition is the projectile spawn point for this tank.
func (e *EnemyTank) MuzzlePosition() shared.Vector3 {
	pos := e.Position.Add(e.Forward().Scale(e.CollisionRadius + 0.5))
	pos.Y += e.Height
	return pos
}

// Snapshot renders the enemy for state publishing.
func (e *EnemyTank) Snapshot() EnemySnapshot {
	return EnemySnapshot{
		ID:       e.ID,
		Callsign: e.Callsign,
		Kind:     "tank",
		Position: e.Position,
		Rotation: e.Rotation,
		State:    e.State,
		Health:   e.Health,
	}
}
