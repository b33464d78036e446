package game

import (
	"github.com/mark3labs/battletanks/game/physics"
	"github.com/mark3labs/battletanks/game/shared"
)

// ProjectileType selects the flight model.
type ProjectileType string

const (
	BallisticProjectile ProjectileType = "ballistic"
	StraightProjectile  ProjectileType = "straight"
	GuidedProjectile    ProjectileType = "guided"
)

// Projectiles that leave the play area by this much are expired. Negative:
// shells may arc slightly past the boundary and come back down.
const outOfBoundsMargin = -10.0

const trailLength = 8

// Projectile is a live shell, beam bolt, or guided missile.
type Projectile struct {
	physics.Body

	ID      string
	OwnerID string
	Type    ProjectileType
	Damage  int

	// TargetID locks a guided projectile onto an entity; resolved to a
	// body each tick by the manager.
	TargetID string

	Age      float64
	Lifetime float64

	trail     [trailLength]shared.Vector3
	trailHead int
	trailLen  int
}

// Update advances the projectile one tick and reports whether it expired
// this tick (ground hit, lifetime, or out of bounds). Guided flight needs
// the resolved target body; pass nil when the target is gone.
func (p *Projectile) Update(eng *physics.Engine, t *Terrain, target *physics.Body, guided physics.GuidedConfig, dt float64) bool {
	if !p.Alive {
		return false
	}

	p.pushTrail(p.Position)

	groundHit := false
	switch p.Type {
	case BallisticProjectile:
		groundHit = eng.IntegrateBallistic(&p.Body, dt)
	case GuidedProjectile:
		targetAlive := target != nil && target.Alive
		var aim shared.Vector3
		if targetAlive {
			aim = target.Position
		}
		eng.IntegrateGuided(&p.Body, aim, targetAlive, guided, dt)
	default:
		eng.IntegrateStraight(&p.Body, dt)
		if p.Position.Y <= 0 {
			groundHit = true
		}
	}

	p.Age += dt
	if groundHit || p.Age >= p.Lifetime || !t.InBounds(p.Position.X, p.Position.Z, outOfBoundsMargin) {
		p.Alive = false
		return true
	}
	return false
}

func (p *Projectile) pushTrail(pos shared.Vector3) {
	p.trail[p.trailHead] = pos
	p.trailHead = (p.trailHead + 1) % trailLength
	if p.trailLen < trailLength {
		p.trailLen++
	}
}

// Trail returns recent positions oldest first.
func (p *Projectile) Trail() []shared.Vector3 {
	out := make([]shared.Vector3, 0, p.trailLen)
	start := p.trailHead - p.trailLen
	if start < 0 {
		start += trailLength
	}
	for i := 0; i < p.trailLen; i++ {
		out = append(out, p.trail[(start+i)%trailLength])
	}
	return out
}

// Snapshot renders the projectile for state publishing.
func (p *Projectile) Snapshot() ProjectileSnapshot {
	return ProjectileSnapshot{
		ID:       p.ID,
		OwnerID:  p.OwnerID,
		Type:     p.Type,
		Position: p.Position,
		Rotation: p.Rotation,
		Trail:    p.Trail(),
	}
}
