package game

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/mark3labs/battletanks/game/physics"
	"github.com/mark3labs/battletanks/game/shared"
	"github.com/mark3labs/battletanks/utils"
)

// Half-angle of the cone in front of the player that enemy spawns avoid.
const spawnConeHalfAngle = math.Pi / 3

// EnemyManager owns the hostile tank pool and the single UFO slot, and runs
// the spawn timers.
type EnemyManager struct {
	tanks []*EnemyTank
	ufo   *UFO

	cfg        Config
	rng        *rand.Rand
	nextID     uint64
	spawnTimer float64
}

// NewEnemyManager creates an empty pool using the given random source.
func NewEnemyManager(cfg Config, rng *rand.Rand) *EnemyManager {
	return &EnemyManager{
		cfg:        cfg,
		rng:        rng,
		spawnTimer: enemySpawnInterval(cfg.EnemySpawnInterval, 1),
	}
}

// Tanks returns the live tank slice. Callers must not retain it across
// ticks.
func (m *EnemyManager) Tanks() []*EnemyTank {
	return m.tanks
}

// UFO returns the active UFO, or nil.
func (m *EnemyManager) UFO() *UFO {
	return m.ufo
}

// Update runs the spawn timers and advances every enemy. The viewer is the
// player new tanks must not spawn in front of. The caller skips this phase
// entirely while a freeze effect is active.
func (m *EnemyManager) Update(t *Terrain, target *Player, viewer *Player, level int, dt float64) {
	m.spawnTimer -= dt
	if m.spawnTimer <= 0 && m.liveCount() < m.cfg.MaxEnemies {
		m.spawnTank(t, viewer, level)
		m.spawnTimer = enemySpawnInterval(m.cfg.EnemySpawnInterval, level)
	}

	if m.ufo == nil && level >= m.cfg.UFOLevelThreshold && m.rng.Float64() < m.cfg.UFOSpawnChance {
		m.spawnUFO(t)
	}

	tuning := m.cfg.Enemy
	tuning.ShootCooldown = enemyShootCooldown(m.cfg.Enemy.ShootCooldown, level)
	for _, e := range m.tanks {
		e.Update(t, target, dt, tuning)
	}
	if m.ufo != nil {
		m.ufo.Update(t, dt)
	}
}

func (m *EnemyManager) liveCount() int {
	n := 0
	for _, e := range m.tanks {
		if e.Alive {
			n++
		}
	}
	return n
}

func (m *EnemyManager) spawnTank(t *Terrain, viewer *Player, level int) {
	var avoid []shared.Vector3
	viewerPos := shared.Vector3{}
	viewerRot := 0.0
	if viewer != nil {
		avoid = append(avoid, viewer.Position)
		viewerPos = viewer.Position
		viewerRot = viewer.Rotation
	}
	for _, e := range m.tanks {
		if e.Alive {
			avoid = append(avoid, e.Position)
		}
	}

	pos := t.EdgeSpawnPosition(m.rng, viewerPos, viewerRot, spawnConeHalfAngle, avoid, 10)

	m.nextID++
	seek := enemySeekChance(m.cfg.Enemy.SeekBias, level)
	cooldown := enemyShootCooldown(m.cfg.Enemy.ShootCooldown, level)
	e := NewEnemyTank(
		fmt.Sprintf("enemy_%d", m.nextID),
		utils.GenerateCallsign(m.rng),
		pos, seek, cooldown, m.rng,
	)
	m.tanks = append(m.tanks, e)

	log.Debug("Enemy tank spawned",
		"id", e.ID,
		"callsign", e.Callsign,
		"level", level,
		"seekChance", seek)
}

func (m *EnemyManager) spawnUFO(t *Terrain) {
	m.nextID++
	angle := m.rng.Float64() * 2 * math.Pi
	pos := shared.Vector3{
		X: math.Cos(angle) * m.cfg.Terrain.HalfWidth * 0.9,
		Z: math.Sin(angle) * m.cfg.Terrain.HalfDepth * 0.9,
	}
	m.ufo = NewUFO(fmt.Sprintf("ufo_%d", m.nextID), pos, m.rng)
	log.Info("UFO spawned", "id", m.ufo.ID)
}

// ResolveBody maps an enemy ID to its physics body, nil when unknown or
// dead. Used for guided missile target resolution.
func (m *EnemyManager) ResolveBody(id string) *physics.Body {
	for _, e := range m.tanks {
		if e.ID == id && e.Alive {
			return &e.Body
		}
	}
	if m.ufo != nil && m.ufo.ID == id && m.ufo.Alive {
		return &m.ufo.Body
	}
	return nil
}

// NearestLiveTo returns the ID and distance of the closest live enemy to
// pos, or an empty ID when none exist.
func (m *EnemyManager) NearestLiveTo(pos shared.Vector3) (string, float64) {
	bestID := ""
	bestDist := math.Inf(1)
	for _, e := range m.tanks {
		if !e.Alive {
			continue
		}
		if d := pos.DistanceSqTo(e.Position); d < bestDist {
			bestDist = d
			bestID = e.ID
		}
	}
	if m.ufo != nil && m.ufo.Alive {
		if d := pos.DistanceSqTo(m.ufo.Position); d < bestDist {
			bestDist = d
			bestID = m.ufo.ID
		}
	}
	if bestID == "" {
		return "", 0
	}
	return bestID, math.Sqrt(bestDist)
}

// Cull drops dead tanks from the pool and clears a destroyed UFO slot.
func (m *EnemyManager) Cull() {
	live := m.tanks[:0]
	for _, e := range m.tanks {
		if e.Alive {
			live = append(live, e)
		}
	}
	m.tanks = live
	if m.ufo != nil && !m.ufo.Alive {
		m.ufo = nil
	}
}

// Snapshots renders all live enemies for state publishing.
func (m *EnemyManager) Snapshots() []EnemySnapshot {
	out := make([]EnemySnapshot, 0, len(m.tanks)+1)
	for _, e := range m.tanks {
		if e.Alive {
			out = append(out, e.Snapshot())
		}
	}
	if m.ufo != nil && m.ufo.Alive {
		out = append(out, m.ufo.Snapshot())
	}
	return out
}
