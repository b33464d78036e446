package game

import (
	"time"

	"github.com/mark3labs/battletanks/game/shared"
)

// PlayerSnapshot is the per-tick read-only view of a player tank handed to
// the presentation layer.
type PlayerSnapshot struct {
	ID           string         `json:"id"`
	Callsign     string         `json:"callsign"`
	Position     shared.Vector3 `json:"position"`
	Rotation     float64        `json:"rotation"`
	TurretPitch  float64        `json:"turretPitch"`
	Speed        float64        `json:"speed"`
	Health       int            `json:"health"`
	Kills        int            `json:"kills"`
	Visible      bool           `json:"visible"`
	Alive        bool           `json:"alive"`
	Invulnerable bool           `json:"invulnerable"`
	Camera       CameraMode     `json:"camera"`
}

// EnemySnapshot is the read-only view of an enemy tank or the UFO.
type EnemySnapshot struct {
	ID       string         `json:"id"`
	Callsign string         `json:"callsign,omitempty"`
	Kind     string         `json:"kind"` // "tank" or "ufo"
	Position shared.Vector3 `json:"position"`
	Rotation float64        `json:"rotation"`
	State    AIState        `json:"state,omitempty"`
	Health   int            `json:"health"`
}

// ProjectileSnapshot is the read-only view of a live projectile.
type ProjectileSnapshot struct {
	ID       string           `json:"id"`
	OwnerID  string           `json:"ownerId"`
	Type     ProjectileType   `json:"type"`
	Position shared.Vector3   `json:"position"`
	Rotation float64          `json:"rotation"`
	Trail    []shared.Vector3 `json:"trail,omitempty"`
}

// PowerUpSnapshot is the read-only view of an uncollected power-up.
type PowerUpSnapshot struct {
	ID       string         `json:"id"`
	Type     PowerUpType    `json:"type"`
	Position shared.Vector3 `json:"position"`
	Rotation float64        `json:"rotation"`
	Color    string         `json:"color"`
}

// ParticleSnapshot is the read-only view of an explosion particle.
type ParticleSnapshot struct {
	Position shared.Vector3 `json:"position"`
	Age      float64        `json:"age"`
	Lifetime float64        `json:"lifetime"`
}

// GameState is the full snapshot published to the presentation layer every
// tick. Everything in it is a copy; consumers can never reach back into live
// entity state.
type GameState struct {
	Players     map[string]PlayerSnapshot `json:"players"`
	Enemies     []EnemySnapshot           `json:"enemies"`
	Projectiles []ProjectileSnapshot      `json:"projectiles"`
	PowerUps    []PowerUpSnapshot         `json:"powerUps"`
	Particles   []ParticleSnapshot        `json:"particles"`
	Effects     map[PowerUpType]float64   `json:"effects"`
	Score       int                       `json:"score"`
	Lives       int                       `json:"lives"`
	Level       int                       `json:"level"`
	GameOver    bool                      `json:"gameOver"`
	Timestamp   int64                     `json:"timestamp"`
}

// EventType identifies a discrete game event.
type EventType string

// Event types published alongside state snapshots.
const (
	EventProjectileFired  EventType = "PROJECTILE_FIRED"
	EventTankHit          EventType = "TANK_HIT"
	EventTankDeath        EventType = "TANK_DEATH"
	EventTankRespawn      EventType = "TANK_RESPAWN"
	EventPowerUpCollected EventType = "POWERUP_COLLECTED"
	EventLevelUp          EventType = "LEVEL_UP"
	EventUFOSpawned       EventType = "UFO_SPAWNED"
)

// GameEvent is a consolidated game event record. Data carries an optional
// type-specific payload such as HitData for TANK_HIT.
type GameEvent struct {
	Type      EventType `json:"type"`
	EntityID  string    `json:"entityId,omitempty"`
	SourceID  string    `json:"sourceId,omitempty"`
	Data      any       `json:"data,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// HitData records a projectile striking a tank.
type HitData struct {
	TargetID     string `json:"targetId"`
	SourceID     string `json:"sourceId"`
	HitLocation  string `json:"hitLocation,omitempty"`
	DamageAmount int    `json:"damageAmount"`
}

// CameraMode selects the player's view for the presentation layer. It is
// carried through the core untouched so snapshots stay self-contained.
type CameraMode string

const (
	ThirdPersonCamera CameraMode = "third"
	FirstPersonCamera CameraMode = "first"
)

// TimeStamper supplies wall-clock timestamps for snapshots and events.
type TimeStamper func() int64

// DefaultTimeStamper returns the current time in milliseconds.
func DefaultTimeStamper() int64 {
	return time.Now().UnixMilli()
}
