package game

import (
	"math"
	"math/rand"

	"github.com/mark3labs/battletanks/game/physics"
	"github.com/mark3labs/battletanks/game/shared"
)

const (
	explosionParticleCount = 16
	particleLifetimeMin    = 0.4
	particleLifetimeMax    = 1.0
	particleSpeedMin       = 4.0
	particleSpeedMax       = 12.0
)

type particle struct {
	body     physics.Body
	age      float64
	lifetime float64
}

// ParticleManager owns transient explosion debris. Purely cosmetic: nothing
// collides with particles.
type ParticleManager struct {
	particles []particle
	capacity  int
	engine    *physics.Engine
	rng       *rand.Rand
}

// NewParticleManager creates an empty pool using the given random source.
func NewParticleManager(eng *physics.Engine, cfg Config, rng *rand.Rand) *ParticleManager {
	return &ParticleManager{
		particles: make([]particle, 0, cfg.MaxParticles),
		capacity:  cfg.MaxParticles,
		engine:    eng,
		rng:       rng,
	}
}

// SpawnExplosion emits a burst of debris at the given position. When the
// pool is full the oldest particles are evicted to make room.
func (m *ParticleManager) SpawnExplosion(pos shared.Vector3) {
	overflow := len(m.particles) + explosionParticleCount - m.capacity
	if overflow > 0 {
		m.particles = m.particles[overflow:]
	}

	for i := 0; i < explosionParticleCount; i++ {
		yaw := m.rng.Float64() * 2 * math.Pi
		pitch := m.rng.Float64() * math.Pi / 2
		speed := particleSpeedMin + m.rng.Float64()*(particleSpeedMax-particleSpeedMin)

		m.particles = append(m.particles, particle{
			body: physics.Body{
				Position: pos,
				Velocity: shared.Vector3{
					X: math.Sin(yaw) * math.Cos(pitch) * speed,
					Y: math.Sin(pitch) * speed,
					Z: math.Cos(yaw) * math.Cos(pitch) * speed,
				},
				UseGravity: true,
				Alive:      true,
			},
			lifetime: particleLifetimeMin + m.rng.Float64()*(particleLifetimeMax-particleLifetimeMin),
		})
	}
}

// Update advances every particle as a free body and drops the expired ones.
func (m *ParticleManager) Update(dt float64) {
	live := m.particles[:0]
	for _, p := range m.particles {
		p.age += dt
		if p.age >= p.lifetime {
			continue
		}
		m.engine.IntegrateFreeBody(&p.body, dt)
		live = append(live, p)
	}
	m.particles = live
}

// Count returns the number of live particles.
func (m *ParticleManager) Count() int {
	return len(m.particles)
}

// Snapshots renders all live particles for state publishing.
func (m *ParticleManager) Snapshots() []ParticleSnapshot {
	out := make([]ParticleSnapshot, 0, len(m.particles))
	for _, p := range m.particles {
		out = append(out, ParticleSnapshot{
			Position: p.body.Position,
			Age:      p.age,
			Lifetime: p.lifetime,
		})
	}
	return out
}
