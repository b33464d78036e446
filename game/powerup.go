package game

import (
	"math"

	"github.com/mark3labs/battletanks/game/shared"
)

// PowerUpType identifies a collectible effect.
type PowerUpType string

const (
	ShieldPowerUp PowerUpType = "shield"
	FreezePowerUp PowerUpType = "freeze"
	XRayPowerUp   PowerUpType = "xray"
)

// AllPowerUpTypes lists the spawnable types in spawn-roll order.
var AllPowerUpTypes = []PowerUpType{ShieldPowerUp, FreezePowerUp, XRayPowerUp}

// EffectDuration returns how long the collected effect lasts, in seconds.
func (t PowerUpType) EffectDuration() float64 {
	switch t {
	case ShieldPowerUp:
		return 8
	case FreezePowerUp:
		return 5
	case XRayPowerUp:
		return 10
	}
	return 0
}

// Color is the display color used by the presentation layer.
func (t PowerUpType) Color() string {
	switch t {
	case ShieldPowerUp:
		return "#4fc3f7"
	case FreezePowerUp:
		return "#b3e5fc"
	case XRayPowerUp:
		return "#ba68c8"
	}
	return "#ffffff"
}

const (
	powerUpRadius   = 1.5
	powerUpLifetime = 20.0
	powerUpBobAmp   = 0.4
	powerUpBobRate  = 2.5
	powerUpSpinRate = 1.5
	powerUpBaseY    = 1.0
)

// PowerUp is a collectible pickup on the field.
type PowerUp struct {
	ID       string
	Type     PowerUpType
	Position shared.Vector3
	Rotation float64

	// Collected marks the pickup consumed, either by a tank or by timing
	// out. Collected pickups are culled on the next manager pass.
	Collected bool

	age      float64
	bobPhase float64
}

// NewPowerUp creates a pickup at the given XZ position. The bob phase is
// derived from the position so identical worlds animate identically.
func NewPowerUp(id string, typ PowerUpType, pos shared.Vector3) *PowerUp {
	pos.Y = powerUpBaseY
	return &PowerUp{
		ID:       id,
		Type:     typ,
		Position: pos,
		bobPhase: math.Mod(pos.X+pos.Z, 2*math.Pi),
	}
}

// Update animates the pickup and expires it after its lifetime. Timed-out
// pickups are marked Collected the same as picked-up ones; only the
// collection event differs.
func (p *PowerUp) Update(dt float64) {
	if p.Collected {
		return
	}
	p.age += dt
	if p.age >= powerUpLifetime {
		p.Collected = true
		return
	}
	p.Rotation = shared.NormalizeAngle(p.Rotation + powerUpSpinRate*dt)
	p.Position.Y = powerUpBaseY + math.Sin(p.age*powerUpBobRate+p.bobPhase)*powerUpBobAmp
}

// TryCollect reports whether a tank at pos with the given radius picks up
// this power-up, marking it collected if so.
func (p *PowerUp) TryCollect(pos shared.Vector3, radius float64) bool {
	if p.Collected {
		return false
	}
	if p.Position.PlanarDistanceSqTo(pos) > (powerUpRadius+radius)*(powerUpRadius+radius) {
		return false
	}
	p.Collected = true
	return true
}

// Snapshot renders the pickup for state publishing.
func (p *PowerUp) Snapshot() PowerUpSnapshot {
	return PowerUpSnapshot{
		ID:       p.ID,
		Type:     p.Type,
		Position: p.Position,
		Rotation: p.Rotation,
		Color:    p.Type.Color(),
	}
}
