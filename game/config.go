package game

import (
	"fmt"
	"math"

	"github.com/spf13/viper"

	"github.com/mark3labs/battletanks/game/physics"
)

// EnemyTuning holds the per-instance difficulty parameters an enemy tank is
// spawned with. Higher levels scale cooldowns and seek bias on top of these.
type EnemyTuning struct {
	MaxSpeed      float64 // units/s
	TurnSpeed     float64 // rad/s
	ShootCooldown float64 // seconds between shot attempts
	SeekBias      float64 // base probability of heading toward the player
}

// Config collects every tunable the simulation reads. Fields left zero are
// filled with the documented defaults by Normalize.
type Config struct {
	// Terrain
	Terrain TerrainConfig

	// Drive models
	Player physics.TankMovementConfig
	Enemy  EnemyTuning
	Guided physics.GuidedConfig

	// Projectiles
	ProjectileSpeed    float64 // muzzle speed for standard shots, units/s
	ProjectileLifetime float64 // seconds
	ProjectileDamage   int

	// Pool capacities
	MaxProjectiles int
	MaxEnemies     int
	MaxPowerUps    int
	MaxParticles   int

	// Spawning
	EnemySpawnInterval   float64 // seconds at level 1, divided by level
	PowerUpSpawnInterval float64 // seconds
	UFOLevelThreshold    int     // UFO eligible from this level
	UFOSpawnChance       float64 // per-tick roll once eligible

	// Player lifecycle
	Lives          int
	RespawnDelay   float64 // seconds between death and respawn
	InvulnDuration float64 // post-respawn invulnerability window, seconds
}

// DefaultConfig returns the medium-difficulty tuning.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.Normalize()
	return cfg
}

// Normalize fills zero-valued fields with defaults. Called by every
// constructor so partially specified configs are always safe to run.
func (c *Config) Normalize() {
	t := &c.Terrain
	if t.HalfWidth == 0 {
		t.HalfWidth = 100
	}
	if t.HalfDepth == 0 {
		t.HalfDepth = 100
	}
	if t.ObstacleCount == 0 {
		t.ObstacleCount = 20
	}
	if t.MountainCount == 0 {
		t.MountainCount = 24
	}
	if t.MinObstacleSpacing == 0 {
		t.MinObstacleSpacing = 12
	}
	if t.HeightmapSize == 0 {
		t.HeightmapSize = 64
	}
	if t.HeightScale == 0 {
		t.HeightScale = 6
	}

	p := &c.Player
	if p.MaxSpeed == 0 {
		p.MaxSpeed = 15
	}
	if p.Acceleration == 0 {
		p.Acceleration = 20
	}
	if p.Deceleration == 0 {
		p.Deceleration = 30
	}
	if p.TurnSpeed == 0 {
		p.TurnSpeed = 2.5
	}
	if p.TurnSpeedMoving == 0 {
		p.TurnSpeedMoving = 1.8
	}

	e := &c.Enemy
	if e.MaxSpeed == 0 {
		e.MaxSpeed = 8
	}
	if e.TurnSpeed == 0 {
		e.TurnSpeed = 1.5
	}
	if e.ShootCooldown == 0 {
		e.ShootCooldown = 4
	}
	if e.SeekBias == 0 {
		e.SeekBias = 0.4
	}

	g := &c.Guided
	if g.Speed == 0 {
		g.Speed = 30
	}
	if g.TurnRate == 0 {
		g.TurnRate = 3.5
	}
	if g.AimHeightBias == 0 {
		g.AimHeightBias = 1.0
	}
	if g.MinAltitude == 0 {
		g.MinAltitude = 0.5
	}

	if c.ProjectileSpeed == 0 {
		c.ProjectileSpeed = 60
	}
	if c.ProjectileLifetime == 0 {
		c.ProjectileLifetime = 5
	}
	if c.ProjectileDamage == 0 {
		c.ProjectileDamage = 25
	}

	if c.MaxProjectiles == 0 {
		c.MaxProjectiles = 32
	}
	if c.MaxEnemies == 0 {
		c.MaxEnemies = 6
	}
	if c.MaxPowerUps == 0 {
		c.MaxPowerUps = 3
	}
	if c.MaxParticles == 0 {
		c.MaxParticles = 128
	}

	if c.EnemySpawnInterval == 0 {
		c.EnemySpawnInterval = 8
	}
	if c.PowerUpSpawnInterval == 0 {
		c.PowerUpSpawnInterval = 15
	}
	if c.UFOLevelThreshold == 0 {
		c.UFOLevelThreshold = 3
	}
	if c.UFOSpawnChance == 0 {
		c.UFOSpawnChance = 0.001
	}

	if c.Lives == 0 {
		c.Lives = 3
	}
	if c.RespawnDelay == 0 {
		c.RespawnDelay = 3
	}
	if c.InvulnDuration == 0 {
		c.InvulnDuration = 3
	}
}

// PresetConfig returns the tuning for a named difficulty. Unknown names fall
// back to medium.
func PresetConfig(difficulty string) Config {
	cfg := DefaultConfig()
	switch difficulty {
	case "easy":
		cfg.Enemy.MaxSpeed = 6
		cfg.Enemy.ShootCooldown = 6
		cfg.Enemy.SeekBias = 0.25
		cfg.MaxEnemies = 4
		cfg.Lives = 5
	case "hard":
		cfg.Enemy.MaxSpeed = 10
		cfg.Enemy.TurnSpeed = 2.0
		cfg.Enemy.ShootCooldown = 2.5
		cfg.Enemy.SeekBias = 0.6
		cfg.MaxEnemies = 8
		cfg.EnemySpawnInterval = 5
		cfg.Lives = 2
	}
	return cfg
}

// LoadConfig reads overrides from battletanks.json in configDir on top of
// the named difficulty preset. A missing file is not an error; the preset is
// returned as-is.
func LoadConfig(configDir, difficulty string) (Config, error) {
	cfg := PresetConfig(difficulty)

	v := viper.New()
	v.SetDefault("player.maxSpeed", cfg.Player.MaxSpeed)
	v.SetDefault("player.acceleration", cfg.Player.Acceleration)
	v.SetDefault("player.deceleration", cfg.Player.Deceleration)
	v.SetDefault("player.turnSpeed", cfg.Player.TurnSpeed)
	v.SetDefault("player.turnSpeedMoving", cfg.Player.TurnSpeedMoving)
	v.SetDefault("enemy.maxSpeed", cfg.Enemy.MaxSpeed)
	v.SetDefault("enemy.turnSpeed", cfg.Enemy.TurnSpeed)
	v.SetDefault("enemy.shootCooldown", cfg.Enemy.ShootCooldown)
	v.SetDefault("enemy.seekBias", cfg.Enemy.SeekBias)
	v.SetDefault("pools.maxProjectiles", cfg.MaxProjectiles)
	v.SetDefault("pools.maxEnemies", cfg.MaxEnemies)
	v.SetDefault("pools.maxPowerUps", cfg.MaxPowerUps)
	v.SetDefault("lives", cfg.Lives)

	v.SetConfigName("battletanks")
	v.SetConfigType("json")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return cfg, nil
		}
		return cfg, fmt.Errorf("error reading config file: %w", err)
	}

	cfg.Player.MaxSpeed = v.GetFloat64("player.maxSpeed")
	cfg.Player.Acceleration = v.GetFloat64("player.acceleration")
	cfg.Player.Deceleration = v.GetFloat64("player.deceleration")
	cfg.Player.TurnSpeed = v.GetFloat64("player.turnSpeed")
	cfg.Player.TurnSpeedMoving = v.GetFloat64("player.turnSpeedMoving")
	cfg.Enemy.MaxSpeed = v.GetFloat64("enemy.maxSpeed")
	cfg.Enemy.TurnSpeed = v.GetFloat64("enemy.turnSpeed")
	cfg.Enemy.ShootCooldown = v.GetFloat64("enemy.shootCooldown")
	cfg.Enemy.SeekBias = v.GetFloat64("enemy.seekBias")
	cfg.MaxProjectiles = v.GetInt("pools.maxProjectiles")
	cfg.MaxEnemies = v.GetInt("pools.maxEnemies")
	cfg.MaxPowerUps = v.GetInt("pools.maxPowerUps")
	cfg.Lives = v.GetInt("lives")

	cfg.Normalize()
	return cfg, nil
}

// Per-level scaling formulas.

// enemySeekChance is the probability an enemy re-rolls its heading toward
// the player instead of wandering.
func enemySeekChance(bias float64, level int) float64 {
	return math.Min(0.9, bias+float64(level)*0.05)
}

// enemyShootCooldown shrinks with level but never drops below one second.
func enemyShootCooldown(base float64, level int) float64 {
	return math.Max(1, base-float64(level)*0.2)
}

// enemySpawnInterval shrinks inversely with level.
func enemySpawnInterval(base float64, level int) float64 {
	if level < 1 {
		level = 1
	}
	return base / float64(level)
}
