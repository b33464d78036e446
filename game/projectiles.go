package game

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mark3labs/battletanks/game/physics"
	"github.com/mark3labs/battletanks/game/shared"
)

// ProjectileManager owns the live projectile pool. Capacity is fixed; when a
// spawn would exceed it the oldest live projectile is evicted first. Each
// firer gets one standard slot and one guided slot: a new shot is refused
// while the previous one from the same slot is still flying, which models
// reloading.
type ProjectileManager struct {
	projectiles []*Projectile
	capacity    int
	speed       float64
	lifetime    float64
	damage      int
}

// NewProjectileManager creates an empty pool with the configured limits.
func NewProjectileManager(cfg Config) *ProjectileManager {
	return &ProjectileManager{
		projectiles: make([]*Projectile, 0, cfg.MaxProjectiles),
		capacity:    cfg.MaxProjectiles,
		speed:       cfg.ProjectileSpeed,
		lifetime:    cfg.ProjectileLifetime,
		damage:      cfg.ProjectileDamage,
	}
}

// Live returns the live projectile slice. Callers must not retain it across
// ticks.
func (m *ProjectileManager) Live() []*Projectile {
	return m.projectiles
}

// Count returns the number of pooled projectiles, live or pending cull.
func (m *ProjectileManager) Count() int {
	return len(m.projectiles)
}

// slotID derives the reload-slot identifier for a firer. Guided shots get
// their own slot so a flying shell does not block a missile launch.
func slotID(ownerID string, guided bool) string {
	if guided {
		return fmt.Sprintf("proj_%s_guided", ownerID)
	}
	return fmt.Sprintf("proj_%s", ownerID)
}

// slotFree reports whether the firer's slot has no projectile in flight.
func (m *ProjectileManager) slotFree(slot string) bool {
	for _, p := range m.projectiles {
		if p.Alive && p.ID == slot {
			return false
		}
	}
	return true
}

func (m *ProjectileManager) add(p *Projectile) {
	if len(m.projectiles) >= m.capacity {
		evicted := m.projectiles[0]
		evicted.Alive = false
		m.projectiles = m.projectiles[1:]
		log.Debug("Projectile pool full, evicting oldest", "id", evicted.ID)
	}
	m.projectiles = append(m.projectiles, p)
}

// Spawn launches a projectile from the given origin along dir at the pool's
// standard muzzle speed. Returns nil while the firer is still reloading.
func (m *ProjectileManager) Spawn(ownerID string, typ ProjectileType, origin, dir shared.Vector3) *Projectile {
	return m.SpawnWithSpeed(ownerID, typ, origin, dir, m.speed)
}

// SpawnWithSpeed launches a projectile with an explicit muzzle speed.
// Returns nil while the firer is still reloading.
func (m *ProjectileManager) SpawnWithSpeed(ownerID string, typ ProjectileType, origin, dir shared.Vector3, speed float64) *Projectile {
	slot := slotID(ownerID, false)
	if !m.slotFree(slot) {
		return nil
	}
	p := &Projectile{
		Body: physics.Body{
			Position:        origin,
			Velocity:        dir.Normalized().Scale(speed),
			CollisionRadius: 0.4,
			Alive:           true,
			UseGravity:      typ == BallisticProjectile,
		},
		ID:       slot,
		OwnerID:  ownerID,
		Type:     typ,
		Damage:   m.damage,
		Lifetime: m.lifetime,
	}
	p.FaceVelocity()
	m.add(p)
	return p
}

// SpawnArc launches a ballistic projectile whose initial velocity is solved
// to land on the target point at the standard muzzle speed. Returns nil
// while the firer is still reloading.
func (m *ProjectileManager) SpawnArc(eng *physics.Engine, ownerID string, origin, target shared.Vector3) *Projectile {
	slot := slotID(ownerID, false)
	if !m.slotFree(slot) {
		return nil
	}
	p := &Projectile{
		Body: physics.Body{
			Position:        origin,
			Velocity:        eng.BallisticLaunchVelocity(origin, target, m.speed),
			CollisionRadius: 0.4,
			Alive:           true,
			UseGravity:      true,
		},
		ID:       slot,
		OwnerID:  ownerID,
		Type:     BallisticProjectile,
		Damage:   m.damage,
		Lifetime: m.lifetime,
	}
	p.FaceVelocity()
	m.add(p)
	return p
}

// SpawnGuided launches a guided missile locked onto targetID. Returns nil
// while the firer's guided slot is occupied.
func (m *ProjectileManager) SpawnGuided(ownerID, targetID string, origin, dir shared.Vector3, cfg physics.GuidedConfig) *Projectile {
	slot := slotID(ownerID, true)
	if !m.slotFree(slot) {
		return nil
	}
	p := &Projectile{
		Body: physics.Body{
			Position:        origin,
			Velocity:        dir.Normalized().Scale(cfg.Speed),
			CollisionRadius: 0.4,
			Alive:           true,
		},
		ID:       slot,
		OwnerID:  ownerID,
		Type:     GuidedProjectile,
		Damage:   m.damage,
		TargetID: targetID,
		Lifetime: m.lifetime * 2,
	}
	p.FaceVelocity()
	m.add(p)
	return p
}

// Update advances every live projectile. resolveTarget maps a guided
// projectile's target ID to a body, nil when the target no longer exists.
func (m *ProjectileManager) Update(eng *physics.Engine, t *Terrain, guided physics.GuidedConfig, resolveTarget func(string) *physics.Body, dt float64) {
	for _, p := range m.projectiles {
		var target *physics.Body
		if p.Type == GuidedProjectile {
			target = resolveTarget(p.TargetID)
		}
		p.Update(eng, t, target, guided, dt)
	}
}

// Cull drops expired projectiles from the pool, preserving order.
func (m *ProjectileManager) Cull() {
	live := m.projectiles[:0]
	for _, p := range m.projectiles {
		if p.Alive {
			live = append(live, p)
		}
	}
	m.projectiles = live
}

// Snapshots renders all live projectiles for state publishing.
func (m *ProjectileManager) Snapshots() []ProjectileSnapshot {
	out := make([]ProjectileSnapshot, 0, len(m.projectiles))
	for _, p := range m.projectiles {
		if p.Alive {
			out = append(out, p.Snapshot())
		}
	}
	return out
}
