package game

import (
	"math"

	"github.com/mark3labs/battletanks/game/physics"
	"github.com/mark3labs/battletanks/game/shared"
)

// Turret pitch limits in radians.
const (
	turretPitchMin  = -math.Pi / 12
	turretPitchMax  = math.Pi / 4
	turretPitchRate = 1.2
)

// Player is a human-controlled tank.
type Player struct {
	physics.Body

	ID       string
	Callsign string
	Health   int
	Speed    float64 // signed drive speed, set each tick

	TurretPitch float64
	CameraMode  CameraMode

	// Invulnerability window after spawn or respawn, in seconds.
	InvulnRemaining float64
	// Countdown until a destroyed player respawns, in seconds.
	RespawnRemaining float64

	Kills int

	blinkClock float64
}

// NewPlayer creates a live player at the given position facing rotation.
func NewPlayer(id, callsign string, pos shared.Vector3, rotation float64, invulnDuration float64) *Player {
	return &Player{
		Body: physics.Body{
			Position:        pos,
			Rotation:        shared.NormalizeAngle(rotation),
			CollisionRadius: 2.0,
			Height:          1.2,
			Alive:           true,
		},
		ID:              id,
		Callsign:        callsign,
		Health:          100,
		CameraMode:      ThirdPersonCamera,
		InvulnRemaining: invulnDuration,
	}
}

// Update advances drive physics and turret pitch from the input intent.
func (p *Player) Update(eng *physics.Engine, t *Terrain, intent shared.InputIntent, dt float64, cfg physics.TankMovementConfig) {
	if !p.Alive {
		p.RespawnRemaining -= dt
		return
	}

	if p.InvulnRemaining > 0 {
		p.InvulnRemaining -= dt
		p.blinkClock += dt
	}

	prev := p.Position
	p.Speed = eng.DriveTank(&p.Body, intent, dt, cfg)
	if t.ObstructedAt(p.Position, p.CollisionRadius) || t.MountainAt(p.Position, p.CollisionRadius) {
		p.Position = prev
		p.Velocity = shared.Vector3{}
		p.Speed = 0
	}

	switch {
	case intent.TurretUp:
		p.TurretPitch += turretPitchRate * dt
	case intent.TurretDown:
		p.TurretPitch -= turretPitchRate * dt
	}
	p.TurretPitch = shared.Clamp(p.TurretPitch, turretPitchMin, turretPitchMax)

	t.ClampToBounds(&p.Position, p.CollisionRadius)
}

// Invulnerable reports whether incoming damage is ignored.
func (p *Player) Invulnerable() bool {
	return p.InvulnRemaining > 0
}

// Visible drives the spawn-protection blink: during invulnerability the
// tank toggles every tenth of a second, deterministic in the elapsed time.
func (p *Player) Visible() bool {
	if p.InvulnRemaining <= 0 {
		return true
	}
	return int(p.blinkClock*10)%2 == 0
}

// TakeDamage applies damage and reports whether the player was destroyed by
// it. Damage during invulnerability is ignored.
func (p *Player) TakeDamage(amount int) bool {
	if !p.Alive || p.Invulnerable() {
		return false
	}
	p.Health -= amount
	if p.Health <= 0 {
		p.Health = 0
		p.Alive = false
		p.Velocity = shared.Vector3{}
		p.Speed = 0
		return true
	}
	return false
}

// Respawn revives the player at the given position with full health and a
// fresh invulnerability window.
func (p *Player) Respawn(pos shared.Vector3, rotation, invulnDuration float64) {
	p.Position = pos
	p.Rotation = shared.NormalizeAngle(rotation)
	p.Velocity = shared.Vector3{}
	p.Speed = 0
	p.TurretPitch = 0
	p.Health = 100
	p.Alive = true
	p.InvulnRemaining = invulnDuration
	p.RespawnRemaining = 0
	p.blinkClock = 0
}

// MuzzlePosition is the projectile spawn point: ahead of the hull at turret
// height.
func (p *Player) MuzzlePosition() shared.Vector3 {
	fwd := p.Forward()
	pos := p.Position.Add(fwd.Scale(p.CollisionRadius + 0.5))
	pos.Y += p.Height
	return pos
}

// AimDirection is the turret's firing direction including pitch.
func (p *Player) AimDirection() shared.Vector3 {
	fwd := p.Forward()
	cosP := math.Cos(p.TurretPitch)
	return shared.Vector3{
		X: fwd.X * cosP,
		Y: math.Sin(p.TurretPitch),
		Z: fwd.Z * cosP,
	}
}

// Snapshot renders the player for state publishing.
func (p *Player) Snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		ID:           p.ID,
		Callsign:     p.Callsign,
		Position:     p.Position,
		Rotation:     p.Rotation,
		TurretPitch:  p.TurretPitch,
		Health:       p.Health,
		Speed:        p.Speed,
		Kills:        p.Kills,
		Alive:        p.Alive,
		Invulnerable: p.Invulnerable(),
		Visible:      p.Visible(),
		Camera:       p.CameraMode,
	}
}
