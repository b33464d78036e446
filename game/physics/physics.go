package physics

import (
	"math"

	"github.com/mark3labs/battletanks/game/shared"
)

// Engine holds the global physics constants. It carries no per-entity state;
// every method is a pure function over the bodies it is handed plus a delta
// time, so entities can be integrated in any order.
type Engine struct {
	Gravity        float64 // downward acceleration, units/s²
	AirResistance  float64 // velocity decay rate while airborne, 1/s
	GroundFriction float64 // velocity decay rate on ground contact, 1/s
}

// NewEngine creates an engine with the standard constants.
func NewEngine() *Engine {
	return &Engine{
		Gravity:        9.8,
		AirResistance:  0.1,
		GroundFriction: 4.0,
	}
}

// TankMovementConfig tunes the drive model for one tank class.
type TankMovementConfig struct {
	MaxSpeed        float64 // forward speed cap, units/s
	Acceleration    float64 // throttle ramp, units/s²
	Deceleration    float64 // braking ramp, units/s²
	TurnSpeed       float64 // yaw rate while stationary, rad/s
	TurnSpeedMoving float64 // reduced yaw rate while moving, rad/s
}

// GuidedConfig tunes homing missile flight.
type GuidedConfig struct {
	Speed         float64 // fixed flight speed, units/s
	TurnRate      float64 // steering rate toward the target, 1/s
	AimHeightBias float64 // vertical offset added to the target aim point
	MinAltitude   float64 // hover floor the missile never sinks below
}

// IntegrateFreeBody advances an unpowered body: gravity while airborne, air
// resistance as a single-step velocity decay, and a ground clamp at y=0 that
// zeroes vertical velocity and applies rolling friction.
func (e *Engine) IntegrateFreeBody(b *Body, dt float64) {
	if b.UseGravity && !b.Grounded() {
		b.Velocity.Y -= e.Gravity * dt
	}

	decay := 1 - e.AirResistance*dt
	if decay < 0 {
		decay = 0
	}
	b.Velocity = b.Velocity.Scale(decay)

	b.Position = b.Position.Add(b.Velocity.Scale(dt))

	if b.Position.Y <= 0 {
		b.Position.Y = 0
		if b.Velocity.Y < 0 {
			b.Velocity.Y = 0
		}
		friction := 1 - e.GroundFriction*dt
		if friction < 0 {
			friction = 0
		}
		b.Velocity.X *= friction
		b.Velocity.Z *= friction
	}
}

// DriveTank advances a tank body one step from its input intent. The signed
// forward speed is ramped toward the intent's target speed (full speed
// forward, half speed in reverse, decaying to zero with no intent), heading
// turns at a reduced rate while moving, and the position is integrated from
// the resulting velocity. The returned signed speed is exposed for engine
// audio pitch on the presentation side.
func (e *Engine) DriveTank(b *Body, intent shared.InputIntent, dt float64, cfg TankMovementConfig) float64 {
	forward := b.Forward()
	speed := b.Velocity.Dot(forward)

	var target float64
	switch {
	case intent.Forward:
		target = cfg.MaxSpeed
	case intent.Backward:
		target = -0.5 * cfg.MaxSpeed
	}

	var rate float64
	switch {
	case target == 0:
		// Coasting: decay toward rest at half the braking rate.
		rate = cfg.Deceleration * 0.5
	case speed*target < 0 || math.Abs(target) < math.Abs(speed):
		rate = cfg.Deceleration
	default:
		rate = cfg.Acceleration
	}

	if speed < target {
		speed = math.Min(target, speed+rate*dt)
	} else if speed > target {
		speed = math.Max(target, speed-rate*dt)
	}

	turnRate := cfg.TurnSpeed
	if math.Abs(speed) > 0.1 {
		turnRate = cfg.TurnSpeedMoving
	}
	if intent.Left {
		b.Rotation += turnRate * dt
	}
	if intent.Right {
		b.Rotation -= turnRate * dt
	}
	b.Rotation = shared.NormalizeAngle(b.Rotation)

	forward = b.Forward()
	b.Velocity.X = forward.X * speed
	b.Velocity.Z = forward.Z * speed
	b.Position.X += b.Velocity.X * dt
	b.Position.Z += b.Velocity.Z * dt

	return speed
}

// IntegrateBallistic advances a gravity-affected projectile and reports
// whether it crossed ground level this step. On a ground hit the position is
// clamped to y=0.
func (e *Engine) IntegrateBallistic(b *Body, dt float64) bool {
	b.Velocity.Y -= e.Gravity * dt
	b.Position = b.Position.Add(b.Velocity.Scale(dt))

	if b.Position.Y <= 0 {
		b.Position.Y = 0
		return true
	}
	return false
}

// IntegrateStraight advances a constant-velocity projectile with no gravity.
func (e *Engine) IntegrateStraight(b *Body, dt float64) {
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}

// IntegrateGuided steers a missile toward the target point. The velocity
// direction is blended toward the aim direction by min(1, turnRate·dt) and
// the fixed speed is re-applied, which keeps the turn frame-rate independent
// and converges to a straight-at-target heading without oscillating at high
// turn rates. A missile whose target is gone flies on in a straight line.
func (e *Engine) IntegrateGuided(b *Body, target shared.Vector3, targetAlive bool, cfg GuidedConfig, dt float64) {
	if !targetAlive {
		e.IntegrateStraight(b, dt)
		b.FaceVelocity()
		return
	}

	aim := target
	aim.Y += cfg.AimHeightBias

	toTarget := aim.Sub(b.Position)
	if toTarget.Length() < shared.Epsilon {
		e.IntegrateStraight(b, dt)
		return
	}
	desired := toTarget.Normalized()

	dir := b.Velocity.Normalized()
	if dir.Length() < shared.Epsilon {
		dir = b.Forward()
	}

	blend := math.Min(1, cfg.TurnRate*dt)
	dir = dir.Lerp(desired, blend).Normalized()

	b.Velocity = dir.Scale(cfg.Speed)
	b.Position = b.Position.Add(b.Velocity.Scale(dt))

	if b.Position.Y < cfg.MinAltitude {
		b.Position.Y = cfg.MinAltitude
		if b.Velocity.Y < 0 {
			b.Velocity.Y = 0
		}
	}

	b.FaceVelocity()
}

// BallisticLaunchVelocity solves for the launch velocity that carries a
// projectile of fixed speed from origin to target under gravity, choosing
// the low trajectory. When the target is out of range at that speed the
// quadratic has no real solution; the shot degrades to a straight-line
// velocity with a small upward bias instead of failing to fire.
func (e *Engine) BallisticLaunchVelocity(origin, target shared.Vector3, speed float64) shared.Vector3 {
	delta := target.Sub(origin)
	horizontal := math.Hypot(delta.X, delta.Z)

	v2 := speed * speed
	discriminant := v2*v2 - e.Gravity*(e.Gravity*horizontal*horizontal+2*delta.Y*v2)

	if discriminant < 0 || horizontal < shared.Epsilon {
		dir := delta.Normalized()
		if dir.Length() < shared.Epsilon {
			dir = shared.Vector3{Z: 1}
		}
		dir.Y += straightShotUpBias
		return dir.Normalized().Scale(speed)
	}

	angle := math.Atan((v2 - math.Sqrt(discriminant)) / (e.Gravity * horizontal))
	cos := math.Cos(angle)
	sin := math.Sin(angle)

	return shared.Vector3{
		X: delta.X / horizontal * cos * speed,
		Y: sin * speed,
		Z: delta.Z / horizontal * cos * speed,
	}
}

// straightShotUpBias lifts the fallback straight shot so it clears ground
// clutter near the muzzle.
const straightShotUpBias = 0.2

// ApplyExplosionImpulse kicks every live body inside the blast radius away
// from the center. The impulse falls off linearly with distance and carries
// an upward bias so victims visibly pop off the ground.
func (e *Engine) ApplyExplosionImpulse(center shared.Vector3, radius, force float64, bodies []*Body) {
	if radius <= 0 {
		return
	}
	for _, b := range bodies {
		if !b.Alive {
			continue
		}
		offset := b.Position.Sub(center)
		dist := offset.Length()
		if dist > radius {
			continue
		}

		falloff := 1 - dist/radius
		dir := offset.Normalized()
		if dir.Length() < shared.Epsilon {
			dir = shared.Vector3{Y: 1}
		}

		impulse := dir.Scale(force * falloff)
		impulse.Y += force * falloff * 0.5
		b.Velocity = b.Velocity.Add(impulse)
	}
}
