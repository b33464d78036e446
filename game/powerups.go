package game

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/mark3labs/battletanks/game/shared"
)

// PowerUpManager owns the field pickups and the periodic spawn timer.
type PowerUpManager struct {
	powerUps []*PowerUp

	cfg        Config
	rng        *rand.Rand
	nextID     uint64
	spawnTimer float64
}

// NewPowerUpManager creates an empty pool using the given random source.
func NewPowerUpManager(cfg Config, rng *rand.Rand) *PowerUpManager {
	return &PowerUpManager{
		cfg:        cfg,
		rng:        rng,
		spawnTimer: cfg.PowerUpSpawnInterval,
	}
}

// Live returns the uncollected pickup slice. Callers must not retain it
// across ticks.
func (m *PowerUpManager) Live() []*PowerUp {
	return m.powerUps
}

// Update runs the spawn timer and animates every pickup.
func (m *PowerUpManager) Update(t *Terrain, avoid []shared.Vector3, dt float64) {
	m.spawnTimer -= dt
	if m.spawnTimer <= 0 {
		if m.liveCount() < m.cfg.MaxPowerUps {
			m.spawn(t, avoid)
		}
		m.spawnTimer = m.cfg.PowerUpSpawnInterval
	}

	for _, p := range m.powerUps {
		p.Update(dt)
	}
}

func (m *PowerUpManager) liveCount() int {
	n := 0
	for _, p := range m.powerUps {
		if !p.Collected {
			n++
		}
	}
	return n
}

func (m *PowerUpManager) spawn(t *Terrain, avoid []shared.Vector3) {
	pos := t.FindSpawnPosition(m.rng, avoid, 8, powerUpRadius)
	typ := AllPowerUpTypes[m.rng.Intn(len(AllPowerUpTypes))]

	m.nextID++
	p := NewPowerUp(fmt.Sprintf("powerup_%d", m.nextID), typ, pos)
	m.powerUps = append(m.powerUps, p)

	log.Debug("Power-up spawned", "id", p.ID, "type", typ)
}

// Cull drops collected and expired pickups from the pool.
func (m *PowerUpManager) Cull() {
	live := m.powerUps[:0]
	for _, p := range m.powerUps {
		if !p.Collected {
			live = append(live, p)
		}
	}
	m.powerUps = live
}

// Snapshots renders all uncollected pickups for state publishing.
func (m *PowerUpManager) Snapshots() []PowerUpSnapshot {
	out := make([]PowerUpSnapshot, 0, len(m.powerUps))
	for _, p := range m.powerUps {
		if !p.Collected {
			out = append(out, p.Snapshot())
		}
	}
	return out
}
