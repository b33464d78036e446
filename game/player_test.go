package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mark3labs/battletanks/game/physics"
	"github.com/mark3labs/battletanks/game/shared"
)

func TestPlayerTurretPitchClamped(t *testing.T) {
	p := NewPlayer("p1", "Tester", shared.Vector3{}, 0, 0)
	eng := physics.NewEngine()
	terrain := openTerrain()
	cfg := DefaultConfig()

	for i := 0; i < 600; i++ {
		p.Update(eng, terrain, shared.InputIntent{TurretUp: true}, 1.0/60, cfg.Player)
	}
	assert.Equal(t, turretPitchMax, p.TurretPitch)

	for i := 0; i < 600; i++ {
		p.Update(eng, terrain, shared.InputIntent{TurretDown: true}, 1.0/60, cfg.Player)
	}
	assert.Equal(t, turretPitchMin, p.TurretPitch)
}

func TestPlayerInvulnerabilityWindow(t *testing.T) {
	p := NewPlayer("p1", "Tester", shared.Vector3{}, 0, 3)
	eng := physics.NewEngine()
	terrain := openTerrain()
	cfg := DefaultConfig()

	assert.True(t, p.Invulnerable())
	assert.False(t, p.TakeDamage(50), "damage applied during invulnerability")
	assert.Equal(t, 100, p.Health)

	for i := 0; i < 200; i++ {
		p.Update(eng, terrain, shared.InputIntent{}, 1.0/60, cfg.Player)
	}
	assert.False(t, p.Invulnerable())
	assert.False(t, p.TakeDamage(50))
	assert.Equal(t, 50, p.Health)
}

func TestPlayerBlinkTogglesWhileInvulnerable(t *testing.T) {
	p := NewPlayer("p1", "Tester", shared.Vector3{}, 0, 3)
	eng := physics.NewEngine()
	terrain := openTerrain()
	cfg := DefaultConfig()

	seenHidden := false
	for i := 0; i < 60; i++ {
		p.Update(eng, terrain, shared.InputIntent{}, 1.0/60, cfg.Player)
		if !p.Visible() {
			seenHidden = true
		}
	}
	assert.True(t, seenHidden, "tank never blinked during invulnerability")

	p.InvulnRemaining = 0
	assert.True(t, p.Visible(), "tank hidden after invulnerability ended")
}

func TestPlayerDeathAndRespawn(t *testing.T) {
	p := NewPlayer("p1", "Tester", shared.Vector3{X: 5}, 1, 0)

	assert.True(t, p.TakeDamage(120))
	assert.False(t, p.Alive)
	assert.Equal(t, 0, p.Health)

	p.Respawn(shared.Vector3{X: -20}, 2, 3)
	assert.True(t, p.Alive)
	assert.Equal(t, 100, p.Health)
	assert.Equal(t, shared.Vector3{X: -20}, p.Position)
	assert.True(t, p.Invulnerable())
	assert.Equal(t, shared.Vector3{}, p.Velocity)
}

func TestPlayerAimDirectionFollowsPitch(t *testing.T) {
	p := NewPlayer("p1", "Tester", shared.Vector3{}, 0, 0)
	p.TurretPitch = math.Pi / 6

	aim := p.AimDirection()
	assert.InDelta(t, 0.5, aim.Y, 1e-9)
	assert.InDelta(t, math.Cos(math.Pi/6), aim.Z, 1e-9)
	assert.InDelta(t, 1, aim.Length(), 1e-9)
}

func TestPlayerMuzzleAheadOfHull(t *testing.T) {
	p := NewPlayer("p1", "Tester", shared.Vector3{}, 0, 0)

	muzzle := p.MuzzlePosition()
	assert.Greater(t, muzzle.Z, p.CollisionRadius)
	assert.Greater(t, muzzle.Y, 0.0)
}

func TestPlayerStaysInsideBounds(t *testing.T) {
	terrain := openTerrain()
	eng := physics.NewEngine()
	cfg := DefaultConfig()

	p := NewPlayer("p1", "Tester", shared.Vector3{Z: 95}, 0, 0)
	for i := 0; i < 600; i++ {
		p.Update(eng, terrain, shared.InputIntent{Forward: true}, 1.0/60, cfg.Player)
	}

	assert.LessOrEqual(t, p.Position.Z, 100-p.CollisionRadius)
}
