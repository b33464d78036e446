package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mark3labs/battletanks/game/shared"
)

func TestPowerUpCollectByProximity(t *testing.T) {
	p := NewPowerUp("pu1", ShieldPowerUp, shared.Vector3{X: 10})

	assert.False(t, p.TryCollect(shared.Vector3{X: 20}, 2), "collected from too far")
	assert.True(t, p.TryCollect(shared.Vector3{X: 11}, 2))
	assert.True(t, p.Collected)
	assert.False(t, p.TryCollect(shared.Vector3{X: 11}, 2), "collected twice")
}

func TestPowerUpExpiresAsCollected(t *testing.T) {
	p := NewPowerUp("pu1", FreezePowerUp, shared.Vector3{})

	p.Update(powerUpLifetime - 0.1)
	assert.False(t, p.Collected)

	p.Update(0.2)
	assert.True(t, p.Collected, "expired pickup not marked collected")
}

func TestPowerUpBobsDeterministically(t *testing.T) {
	a := NewPowerUp("a", XRayPowerUp, shared.Vector3{X: 5, Z: 7})
	b := NewPowerUp("b", XRayPowerUp, shared.Vector3{X: 5, Z: 7})

	for i := 0; i < 60; i++ {
		a.Update(1.0 / 60)
		b.Update(1.0 / 60)
	}
	assert.Equal(t, a.Position, b.Position)
	assert.Equal(t, a.Rotation, b.Rotation)
}

func TestPowerUpEffectDurations(t *testing.T) {
	for _, typ := range AllPowerUpTypes {
		assert.Greater(t, typ.EffectDuration(), 0.0, "type %s", typ)
		assert.NotEmpty(t, typ.Color(), "type %s", typ)
	}
}
