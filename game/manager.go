package game

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mark3labs/battletanks/game/physics"
	"github.com/mark3labs/battletanks/game/shared"
	"github.com/mark3labs/battletanks/utils"
)

// Single ticks never integrate more than this much simulated time; stalls
// are absorbed as slowdown instead of tunneling.
const maxTickDt = 0.1

const (
	tankKillScore = 100
	ufoKillScore  = 500
	hitScore      = 10
)

// levelKillQuota is how many kills advance the given level.
func levelKillQuota(level int) int {
	return 4 + level
}

// Manager orchestrates the whole simulation: it owns the terrain, every
// entity pool, the score state, and publishes a snapshot to the KV bucket
// after each tick.
type Manager struct {
	mutex sync.Mutex

	cfg     Config
	engine  *physics.Engine
	terrain *Terrain
	rng     *rand.Rand

	players   map[string]*Player
	playerIDs []string // tick order
	inputs    map[string]shared.InputIntent
	fires     map[string]shared.FireIntent

	projectiles *ProjectileManager
	enemies     *EnemyManager
	powerUps    *PowerUpManager
	particles   *ParticleManager
	grid        *physics.SpatialHash

	effects map[PowerUpType]float64

	score          int
	lives          int
	level          int
	killsThisLevel int
	gameOver       bool

	events []GameEvent

	kv      jetstream.KeyValue
	ctx     context.Context
	getTime TimeStamper
}

// NewManager builds a simulation from the config, generates the terrain from
// seed, and stores the initial snapshot in the KV bucket. A nil kv disables
// publishing, which the tests use.
func NewManager(ctx context.Context, kv jetstream.KeyValue, cfg Config, seed int64) (*Manager, error) {
	cfg.Normalize()
	rng := rand.New(rand.NewSource(seed))

	m := &Manager{
		cfg:     cfg,
		engine:  physics.NewEngine(),
		terrain: GenerateTerrain(cfg.Terrain, rng),
		rng:     rng,
		players: make(map[string]*Player),
		inputs:  make(map[string]shared.InputIntent),
		fires:   make(map[string]shared.FireIntent),
		effects: make(map[PowerUpType]float64),
		lives:   cfg.Lives,
		level:   1,
		kv:      kv,
		ctx:     ctx,
		getTime: DefaultTimeStamper,
	}
	m.projectiles = NewProjectileManager(cfg)
	m.enemies = NewEnemyManager(cfg, rng)
	m.powerUps = NewPowerUpManager(cfg, rng)
	m.particles = NewParticleManager(m.engine, cfg, rng)
	m.grid = physics.NewSpatialHash(16)

	if err := m.publishState(); err != nil {
		return nil, fmt.Errorf("failed to save initial game state: %w", err)
	}
	return m, nil
}

// SetTimeStamper overrides the snapshot clock. Tests use this for
// deterministic timestamps.
func (m *Manager) SetTimeStamper(ts TimeStamper) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.getTime = ts
}

// AddPlayer registers a new player tank and returns it. Spawn position is
// chosen clear of obstacles and existing tanks.
func (m *Manager) AddPlayer(id string) *Player {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if p, ok := m.players[id]; ok {
		return p
	}

	avoid := m.tankPositionsLocked()
	pos := m.terrain.FindSpawnPosition(m.rng, avoid, 15, 2.0)
	p := NewPlayer(id, utils.GenerateCallsign(m.rng), pos, m.rng.Float64()*2*math.Pi, m.cfg.InvulnDuration)

	m.players[id] = p
	m.playerIDs = append(m.playerIDs, id)

	log.Info("Player joined", "id", id, "callsign", p.Callsign)
	return p
}

// Player returns the registered player, or nil.
func (m *Manager) Player(id string) *Player {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.players[id]
}

// SetInput stores the player's held controls for the next tick.
func (m *Manager) SetInput(id string, in shared.InputIntent) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.inputs[id] = in
}

// SetFire stores the player's fire intents for the next tick. Fire intents
// are edge-triggered and consumed by the tick that sees them.
func (m *Manager) SetFire(id string, f shared.FireIntent) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	prev := m.fires[id]
	prev.Shoot = prev.Shoot || f.Shoot
	prev.ShootGuided = prev.ShootGuided || f.ShootGuided
	m.fires[id] = prev
}

// SetCameraMode switches the player's published camera mode.
func (m *Manager) SetCameraMode(id string, mode CameraMode) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if p, ok := m.players[id]; ok {
		p.CameraMode = mode
	}
}

// Terrain exposes the generated world, read-only by convention.
func (m *Manager) Terrain() *Terrain {
	return m.terrain
}

// Score returns score, lives, and level.
func (m *Manager) Score() (score, lives, level int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.score, m.lives, m.level
}

// GameOver reports whether all lives are spent.
func (m *Manager) GameOver() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.gameOver
}

// DrainEvents returns the events recorded since the last drain.
func (m *Manager) DrainEvents() []GameEvent {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	out := m.events
	m.events = nil
	return out
}

// Tick advances the simulation by dt seconds and publishes the new state.
// Phases run in a fixed order: players, enemies, projectiles and hits,
// power-ups, particles.
func (m *Manager) Tick(dt float64) error {
	m.mutex.Lock()

	if dt > maxTickDt {
		dt = maxTickDt
	}

	m.tickEffects(dt)
	m.tickPlayers(dt)

	if m.effects[FreezePowerUp] <= 0 {
		hadUFO := m.enemies.UFO() != nil
		m.enemies.Update(m.terrain, m.primaryTargetLocked(), m.firstPlayerLocked(), m.level, dt)
		if ufo := m.enemies.UFO(); ufo != nil && !hadUFO {
			m.recordEvent(EventUFOSpawned, ufo.ID, "")
		}
		m.tickEnemyFire()
	}

	m.tickProjectiles(dt)
	m.tickPowerUps(dt)
	m.particles.Update(dt)

	// Dead entities are culled lazily at the end of the tick, after every
	// phase that might still inspect them.
	m.projectiles.Cull()
	m.enemies.Cull()
	m.powerUps.Cull()

	m.mutex.Unlock()
	return m.publishState()
}

func (m *Manager) tickEffects(dt float64) {
	for typ, remaining := range m.effects {
		remaining -= dt
		if remaining <= 0 {
			delete(m.effects, typ)
		} else {
			m.effects[typ] = remaining
		}
	}
}

func (m *Manager) tickPlayers(dt float64) {
	for _, id := range m.playerIDs {
		p := m.players[id]

		if !p.Alive {
			p.RespawnRemaining -= dt
			if p.RespawnRemaining <= 0 && m.lives > 0 {
				m.respawnPlayerLocked(p)
			}
			continue
		}

		p.Update(m.engine, m.terrain, m.inputs[id], dt, m.cfg.Player)

		fire := m.fires[id]
		m.fires[id] = shared.FireIntent{}
		if fire.Shoot {
			if shot := m.projectiles.Spawn(p.ID, StraightProjectile, p.MuzzlePosition(), p.AimDirection()); shot != nil {
				m.recordEvent(EventProjectileFired, p.ID, "")
			}
		}
		if fire.ShootGuided {
			if targetID, _ := m.enemies.NearestLiveTo(p.Position); targetID != "" {
				if shot := m.projectiles.SpawnGuided(p.ID, targetID, p.MuzzlePosition(), p.AimDirection(), m.cfg.Guided); shot != nil {
					m.recordEvent(EventProjectileFired, p.ID, "")
				}
			}
		}
	}

	// Tank-vs-tank overlap resolution: players against enemies, then
	// enemy siblings against each other.
	tanks := m.enemies.Tanks()
	for _, id := range m.playerIDs {
		p := m.players[id]
		if !p.Alive {
			continue
		}
		for _, e := range tanks {
			physics.ResolveCircleOverlap(&p.Body, &e.Body, m.rng)
		}
		m.terrain.ClampToBounds(&p.Position, p.CollisionRadius)
	}
	for i := 0; i < len(tanks); i++ {
		if !tanks[i].Alive {
			continue
		}
		for j := i + 1; j < len(tanks); j++ {
			if tanks[j].Alive {
				physics.ResolveCircleOverlap(&tanks[i].Body, &tanks[j].Body, m.rng)
			}
		}
	}
}

func (m *Manager) tickEnemyFire() {
	target := m.primaryTargetLocked()
	if target == nil {
		return
	}

	for _, e := range m.enemies.Tanks() {
		if e.ShouldFire() {
			if shot := m.projectiles.SpawnArc(m.engine, e.ID, e.MuzzlePosition(), target.Position); shot != nil {
				m.recordEvent(EventProjectileFired, e.ID, "")
			}
		}
	}

	if ufo := m.enemies.UFO(); ufo != nil && ufo.ShouldFire(target) {
		if shot := m.projectiles.SpawnWithSpeed(ufo.ID, StraightProjectile, ufo.Position, ufo.AimAt(target), m.cfg.ProjectileSpeed*0.6); shot != nil {
			m.recordEvent(EventProjectileFired, ufo.ID, "")
		}
	}
}

func (m *Manager) tickProjectiles(dt float64) {
	m.projectiles.Update(m.engine, m.terrain, m.cfg.Guided, m.enemies.ResolveBody, dt)

	// Broad phase: index live enemies, query per projectile.
	m.grid.Reset()
	tanks := m.enemies.Tanks()
	for i, e := range tanks {
		if e.Alive {
			m.grid.Insert(e.Position, i)
		}
	}

	for _, p := range m.projectiles.Live() {
		if !p.Alive {
			m.explodeAt(p.Position)
			continue
		}

		if m.ownerIsPlayer(p.OwnerID) {
			if m.resolvePlayerProjectile(p) {
				continue
			}
		} else if m.resolveEnemyProjectile(p) {
			continue
		}
	}
}

func (m *Manager) resolvePlayerProjectile(p *Projectile) bool {
	tanks := m.enemies.Tanks()
	for _, idx := range m.grid.Nearby(p.Position, p.CollisionRadius+4) {
		e := tanks[idx]
		if !e.Alive || !m.projectileHits(p, &e.Body) {
			continue
		}
		loc, mult := hitLocation(p.Velocity, e.Rotation)
		dmg := int(float64(p.Damage) * mult)
		m.recordHit(e.ID, p.OwnerID, loc, dmg)
		log.Debug("Enemy hit", "id", e.ID, "location", loc, "damage", dmg)
		m.score += hitScore
		if e.TakeDamage(dmg) {
			m.onEnemyKilled(e.ID, p.OwnerID, tankKillScore)
		}
		m.detonate(p)
		return true
	}

	if ufo := m.enemies.UFO(); ufo != nil && ufo.Alive && m.projectileHits(p, &ufo.Body) {
		m.recordHit(ufo.ID, p.OwnerID, "side", p.Damage)
		m.score += hitScore
		if ufo.TakeDamage(p.Damage) {
			m.onEnemyKilled(ufo.ID, p.OwnerID, ufoKillScore)
		}
		m.detonate(p)
		return true
	}
	return false
}

func (m *Manager) resolveEnemyProjectile(p *Projectile) bool {
	for _, id := range m.playerIDs {
		pl := m.players[id]
		if !pl.Alive || !m.projectileHits(p, &pl.Body) {
			continue
		}
		// Shielded or blinking tanks are excluded from the hit check
		// entirely; the shell flies on.
		if m.effects[ShieldPowerUp] > 0 || pl.Invulnerable() {
			continue
		}
		loc, mult := hitLocation(p.Velocity, pl.Rotation)
		dmg := int(float64(p.Damage) * mult)
		m.recordHit(pl.ID, p.OwnerID, loc, dmg)
		log.Debug("Player hit", "id", pl.ID, "location", loc, "damage", dmg)
		if pl.TakeDamage(dmg) {
			m.onPlayerKilled(pl, p.OwnerID)
		}
		m.detonate(p)
		return true
	}
	return false
}

// projectileHits tests a projectile against a tank body: planar circle
// overlap plus the vertical band from the hull base to its height.
func (m *Manager) projectileHits(p *Projectile, b *physics.Body) bool {
	if !physics.CircleVsCircle(p.Position, p.CollisionRadius, b.Position, b.CollisionRadius) {
		return false
	}
	return p.Position.Y >= b.Position.Y && p.Position.Y <= b.Position.Y+b.Height
}

// hitLocation classifies where a shell moving with the given velocity
// strikes a tank facing rotation, and the damage multiplier for it.
func hitLocation(vel shared.Vector3, rotation float64) (string, float64) {
	speed := vel.Length()
	if speed > shared.Epsilon && vel.Y < -0.7*speed {
		return "top", 2.0
	}

	facing := shared.Vector3{X: math.Sin(rotation), Z: math.Cos(rotation)}
	dir := vel.Normalized()
	dot := dir.X*facing.X + dir.Z*facing.Z
	switch {
	case dot > math.Sqrt2/2:
		// Shell travelling the way the tank faces strikes it from behind.
		return "rear", 1.5
	case dot < -math.Sqrt2/2:
		return "front", 0.75
	}
	return "side", 1.0
}

func (m *Manager) detonate(p *Projectile) {
	p.Alive = false
	m.explodeAt(p.Position)
}

// explodeAt spawns debris and shoves nearby tanks away from the blast.
func (m *Manager) explodeAt(pos shared.Vector3) {
	m.particles.SpawnExplosion(pos)

	bodies := make([]*physics.Body, 0, len(m.playerIDs)+len(m.enemies.Tanks()))
	for _, id := range m.playerIDs {
		bodies = append(bodies, &m.players[id].Body)
	}
	for _, e := range m.enemies.Tanks() {
		bodies = append(bodies, &e.Body)
	}
	m.engine.ApplyExplosionImpulse(pos, 6, 20, bodies)
}

func (m *Manager) onEnemyKilled(enemyID, killerID string, score int) {
	m.score += score
	m.killsThisLevel++
	if p, ok := m.players[killerID]; ok {
		p.Kills++
	}
	m.recordEvent(EventTankDeath, enemyID, killerID)
	log.Info("Enemy destroyed", "id", enemyID, "by", killerID, "score", m.score)

	if m.killsThisLevel >= levelKillQuota(m.level) {
		m.level++
		m.killsThisLevel = 0
		m.recordEvent(EventLevelUp, "", "")
		log.Info("Level up", "level", m.level)
	}
}

func (m *Manager) onPlayerKilled(p *Player, killerID string) {
	m.lives--
	p.RespawnRemaining = m.cfg.RespawnDelay
	m.recordEvent(EventTankDeath, p.ID, killerID)
	log.Info("Player destroyed", "id", p.ID, "by", killerID, "lives", m.lives)

	if m.lives <= 0 {
		m.lives = 0
		m.gameOver = true
		log.Info("Game over", "score", m.score, "level", m.level)
	}
}

func (m *Manager) respawnPlayerLocked(p *Player) {
	avoid := m.tankPositionsLocked()
	pos := m.terrain.FindSpawnPosition(m.rng, avoid, 15, p.CollisionRadius)
	p.Respawn(pos, m.rng.Float64()*2*math.Pi, m.cfg.InvulnDuration)
	m.recordEvent(EventTankRespawn, p.ID, "")
	log.Info("Player respawned", "id", p.ID)
}

func (m *Manager) tickPowerUps(dt float64) {
	avoid := m.tankPositionsLocked()
	m.powerUps.Update(m.terrain, avoid, dt)

	for _, pu := range m.powerUps.Live() {
		for _, id := range m.playerIDs {
			p := m.players[id]
			if !p.Alive || !pu.TryCollect(p.Position, p.CollisionRadius) {
				continue
			}
			m.effects[pu.Type] = pu.Type.EffectDuration()
			m.recordEvent(EventPowerUpCollected, pu.ID, p.ID)
			log.Info("Power-up collected", "type", pu.Type, "by", p.ID)
			break
		}
	}
}

func (m *Manager) tankPositionsLocked() []shared.Vector3 {
	out := make([]shared.Vector3, 0, len(m.playerIDs)+len(m.enemies.Tanks()))
	for _, id := range m.playerIDs {
		if m.players[id].Alive {
			out = append(out, m.players[id].Position)
		}
	}
	for _, e := range m.enemies.Tanks() {
		if e.Alive {
			out = append(out, e.Position)
		}
	}
	return out
}

// primaryTargetLocked is the live player enemies aim for: the first
// registered one that is alive.
func (m *Manager) primaryTargetLocked() *Player {
	for _, id := range m.playerIDs {
		if p := m.players[id]; p.Alive {
			return p
		}
	}
	return nil
}

func (m *Manager) firstPlayerLocked() *Player {
	if len(m.playerIDs) == 0 {
		return nil
	}
	return m.players[m.playerIDs[0]]
}

func (m *Manager) ownerIsPlayer(id string) bool {
	_, ok := m.players[id]
	return ok
}

func (m *Manager) recordEvent(typ EventType, entityID, sourceID string) {
	m.events = append(m.events, GameEvent{
		Type:      typ,
		EntityID:  entityID,
		SourceID:  sourceID,
		Timestamp: m.getTime(),
	})
}

func (m *Manager) recordHit(targetID, sourceID, location string, damage int) {
	m.events = append(m.events, GameEvent{
		Type:     EventTankHit,
		EntityID: targetID,
		SourceID: sourceID,
		Data: HitData{
			TargetID:     targetID,
			SourceID:     sourceID,
			HitLocation:  location,
			DamageAmount: damage,
		},
		Timestamp: m.getTime(),
	})
}

// Snapshot builds the full published state. Everything is copied; the
// caller can hold the result as long as it likes.
func (m *Manager) Snapshot() GameState {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() GameState {
	state := GameState{
		Players:     make(map[string]PlayerSnapshot, len(m.players)),
		Enemies:     m.enemies.Snapshots(),
		Projectiles: m.projectiles.Snapshots(),
		PowerUps:    m.powerUps.Snapshots(),
		Particles:   m.particles.Snapshots(),
		Effects:     make(map[PowerUpType]float64, len(m.effects)),
		Score:       m.score,
		Lives:       m.lives,
		Level:       m.level,
		GameOver:    m.gameOver,
		Timestamp:   m.getTime(),
	}
	for id, p := range m.players {
		state.Players[id] = p.Snapshot()
	}
	for typ, remaining := range m.effects {
		state.Effects[typ] = remaining
	}
	return state
}

// publishState stores the current snapshot in the KV bucket under the
// "current" key. The KV write happens outside the state lock.
func (m *Manager) publishState() error {
	if m.kv == nil {
		return nil
	}

	m.mutex.Lock()
	state := m.snapshotLocked()
	m.mutex.Unlock()

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("error marshaling game state: %w", err)
	}

	if _, err := m.kv.Put(m.ctx, "current", stateJSON); err != nil {
		return fmt.Errorf("error saving game state to KV: %w", err)
	}
	return nil
}

// WatchState creates a watcher for game state changes. Returns the
// KeyWatcher directly so the caller can use its Updates() channel.
func (m *Manager) WatchState(ctx context.Context) (jetstream.KeyWatcher, error) {
	if m.kv == nil {
		return nil, fmt.Errorf("state publishing is disabled")
	}
	watcher, err := m.kv.Watch(ctx, "current", jetstream.UpdatesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to create KV watcher: %w", err)
	}
	return watcher, nil
}
