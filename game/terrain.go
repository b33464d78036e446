package game

import (
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/mark3labs/battletanks/game/physics"
	"github.com/mark3labs/battletanks/game/shared"
)

// ObstacleType selects the obstacle mesh and, with it, the footprint shape.
type ObstacleType string

const (
	CubeObstacle    ObstacleType = "cube"
	PyramidObstacle ObstacleType = "pyramid"
)

// Obstacle is a static blocking prop inside the play area.
type Obstacle struct {
	Position        shared.Vector3 `json:"position"`
	Rotation        float64        `json:"rotation"`
	Type            ObstacleType   `json:"type"`
	Size            shared.Vector3 `json:"size"`
	CollisionRadius float64        `json:"collisionRadius"`
}

// footprintHalf returns the obstacle's blocking half-extent per horizontal
// axis. The pyramid mesh's base half-extent is the full size value, so a
// pyramid blocks twice the width a cube of the same size does.
func (o Obstacle) footprintHalf() (hx, hz float64) {
	if o.Type == PyramidObstacle {
		return o.Size.X, o.Size.Z
	}
	return o.Size.X / 2, o.Size.Z / 2
}

// Mountain is a perimeter landmark. Mountains block line of sight and
// movement by radius.
type Mountain struct {
	Position shared.Vector3 `json:"position"`
	Scale    float64        `json:"scale"`
	Rotation float64        `json:"rotation"`
	Radius   float64        `json:"radius"`
}

// TerrainConfig tunes terrain generation.
type TerrainConfig struct {
	HalfWidth          float64 // half extent along X
	HalfDepth          float64 // half extent along Z
	ObstacleCount      int
	MountainCount      int
	MinObstacleSpacing float64
	Heightmap          bool // generate the optional heightmap
	HeightmapSize      int  // grid resolution per axis
	HeightScale        float64
	Seed               int64 // heightmap noise seed
}

// Terrain is the static world model: bounds, generated props, and the
// optional heightmap. Immutable after generation.
type Terrain struct {
	Obstacles []Obstacle
	Mountains []Mountain

	halfW, halfD float64
	heights      []float64
	hmSize       int
	heightScale  float64
}

// Obstacle placement gives up after this many rejection-sampling attempts
// and keeps the last tried position, overlap or not. Tightening this would
// change observable spawn distributions, so it stays.
const placementAttempts = 20

// GenerateTerrain builds a terrain from the config using the given random
// source. The same source state always produces the same world.
func GenerateTerrain(cfg TerrainConfig, rng *rand.Rand) *Terrain {
	t := &Terrain{
		halfW:       cfg.HalfWidth,
		halfD:       cfg.HalfDepth,
		heightScale: cfg.HeightScale,
	}

	t.generateMountains(cfg, rng)
	t.generateObstacles(cfg, rng)

	if cfg.Heightmap {
		t.generateHeightmap(cfg)
	}

	log.Debug("Terrain generated",
		"obstacles", len(t.Obstacles),
		"mountains", len(t.Mountains),
		"heightmap", cfg.Heightmap)

	return t
}

// generateMountains places a ring of mountains around the play area
// perimeter with per-instance scale and rotation jitter.
func (t *Terrain) generateMountains(cfg TerrainConfig, rng *rand.Rand) {
	ringW := cfg.HalfWidth * 1.15
	ringD := cfg.HalfDepth * 1.15

	for i := 0; i < cfg.MountainCount; i++ {
		angle := float64(i) / float64(cfg.MountainCount) * 2 * math.Pi
		jitter := (rng.Float64() - 0.5) * 0.2

		scale := 0.7 + rng.Float64()*0.6
		m := Mountain{
			Position: shared.Vector3{
				X: math.Cos(angle+jitter) * ringW,
				Z: math.Sin(angle+jitter) * ringD,
			},
			Scale:    scale,
			Rotation: shared.NormalizeAngle(rng.Float64() * 2 * math.Pi),
			Radius:   8 * scale,
		}
		t.Mountains = append(t.Mountains, m)
	}
}

// generateObstacles places alternating cube/pyramid obstacles using
// rejection sampling against a minimum pairwise separation.
func (t *Terrain) generateObstacles(cfg TerrainConfig, rng *rand.Rand) {
	for i := 0; i < cfg.ObstacleCount; i++ {
		typ := CubeObstacle
		if i%2 == 1 {
			typ = PyramidObstacle
		}

		var pos shared.Vector3
		placed := false
		for attempt := 0; attempt < placementAttempts; attempt++ {
			pos = shared.Vector3{
				X: (rng.Float64()*2 - 1) * cfg.HalfWidth * 0.85,
				Z: (rng.Float64()*2 - 1) * cfg.HalfDepth * 0.85,
			}
			if t.farFromObstacles(pos, cfg.MinObstacleSpacing) {
				placed = true
				break
			}
		}
		if !placed {
			// Accepted-overlap fallback: keep the last tried position.
			log.Debug("Obstacle placement attempts exhausted", "index", i)
		}

		base := 2 + rng.Float64()*3
		size := shared.Vector3{X: base, Y: base * (1 + rng.Float64()), Z: base}

		radius := base / 2
		if typ == PyramidObstacle {
			radius = base
		}

		t.Obstacles = append(t.Obstacles, Obstacle{
			Position:        pos,
			Rotation:        shared.NormalizeAngle(rng.Float64() * 2 * math.Pi),
			Type:            typ,
			Size:            size,
			CollisionRadius: radius,
		})
	}
}

func (t *Terrain) farFromObstacles(pos shared.Vector3, minDist float64) bool {
	for _, o := range t.Obstacles {
		if pos.PlanarDistanceSqTo(o.Position) < minDist*minDist {
			return false
		}
	}
	return true
}

// generateHeightmap fills the height grid with three octaves of value noise
// (weights ½, ¼, ⅛) attenuated toward zero near the map center so the spawn
// area stays flat.
func (t *Terrain) generateHeightmap(cfg TerrainConfig) {
	t.hmSize = cfg.HeightmapSize
	t.heights = make([]float64, t.hmSize*t.hmSize)

	maxDist := math.Hypot(cfg.HalfWidth, cfg.HalfDepth)
	seed := int(cfg.Seed)

	for gz := 0; gz < t.hmSize; gz++ {
		for gx := 0; gx < t.hmSize; gx++ {
			wx := (float64(gx)/float64(t.hmSize-1)*2 - 1) * cfg.HalfWidth
			wz := (float64(gz)/float64(t.hmSize-1)*2 - 1) * cfg.HalfDepth

			n := shared.FBM(wx*0.02, wz*0.02, 3, 2.0, 0.5, seed)

			dist := math.Hypot(wx, wz) / maxDist
			falloff := shared.Smoothstep(0.15, 0.5, dist)

			t.heights[gz*t.hmSize+gx] = n * cfg.HeightScale * falloff
		}
	}
}

// HeightAt samples the terrain height at a world position with bilinear
// interpolation. Without a heightmap the ground is flat at zero.
func (t *Terrain) HeightAt(x, z float64) float64 {
	if t.heights == nil {
		return 0
	}

	fx := (x/t.halfW + 1) / 2 * float64(t.hmSize-1)
	fz := (z/t.halfD + 1) / 2 * float64(t.hmSize-1)

	fx = shared.Clamp(fx, 0, float64(t.hmSize-1))
	fz = shared.Clamp(fz, 0, float64(t.hmSize-1))

	x0 := int(fx)
	z0 := int(fz)
	x1 := x0 + 1
	z1 := z0 + 1
	if x1 >= t.hmSize {
		x1 = t.hmSize - 1
	}
	if z1 >= t.hmSize {
		z1 = t.hmSize - 1
	}

	tx := fx - float64(x0)
	tz := fz - float64(z0)

	h00 := t.heights[z0*t.hmSize+x0]
	h10 := t.heights[z0*t.hmSize+x1]
	h01 := t.heights[z1*t.hmSize+x0]
	h11 := t.heights[z1*t.hmSize+x1]

	top := shared.Lerp(h00, h10, tx)
	bottom := shared.Lerp(h01, h11, tx)
	return shared.Lerp(top, bottom, tz)
}

// NormalAt estimates the surface normal at a world position with central
// differences. Flat ground yields straight up.
func (t *Terrain) NormalAt(x, z float64) shared.Vector3 {
	if t.heights == nil {
		return shared.Vector3{Y: 1}
	}

	const e = 1.0
	hl := t.HeightAt(x-e, z)
	hr := t.HeightAt(x+e, z)
	hd := t.HeightAt(x, z-e)
	hu := t.HeightAt(x, z+e)

	return shared.Vector3{X: hl - hr, Y: 2 * e, Z: hd - hu}.Normalized()
}

// InBounds reports whether the XZ position lies inside the play area, inset
// by margin.
func (t *Terrain) InBounds(x, z, margin float64) bool {
	return x >= -t.halfW+margin && x <= t.halfW-margin &&
		z >= -t.halfD+margin && z <= t.halfD-margin
}

// ClampToBounds clamps the position in place to the play area inset by
// margin. Clamping an already-clamped position is a no-op.
func (t *Terrain) ClampToBounds(p *shared.Vector3, margin float64) {
	p.X = shared.Clamp(p.X, -t.halfW+margin, t.halfW-margin)
	p.Z = shared.Clamp(p.Z, -t.halfD+margin, t.halfD-margin)
}

// ObstructedAt reports whether a circular probe at pos overlaps any obstacle
// footprint. Footprints are inflated by the probe radius before the
// containment test; pyramids block their full size per axis, cubes half.
func (t *Terrain) ObstructedAt(pos shared.Vector3, radius float64) bool {
	for _, o := range t.Obstacles {
		hx, hz := o.footprintHalf()
		box := physics.AABB{
			Min: shared.Vector3{X: o.Position.X - hx - radius, Y: -math.MaxFloat64, Z: o.Position.Z - hz - radius},
			Max: shared.Vector3{X: o.Position.X + hx + radius, Y: math.MaxFloat64, Z: o.Position.Z + hz + radius},
		}
		if physics.PointVsAABB(pos, box) {
			return true
		}
	}
	return false
}

// MountainAt reports whether a circular probe overlaps any mountain.
func (t *Terrain) MountainAt(pos shared.Vector3, radius float64) bool {
	for _, m := range t.Mountains {
		if physics.CircleVsCircle(pos, radius, m.Position, m.Radius) {
			return true
		}
	}
	return false
}

// losSampleStep is the spacing of line-of-sight samples in world units.
const losSampleStep = 5.0

// LineOfSight reports whether the segment between two positions is clear of
// mountains. The segment is sampled every losSampleStep units and blocked if
// any sample falls inside a mountain's radius.
func (t *Terrain) LineOfSight(from, to shared.Vector3) bool {
	delta := to.Sub(from)
	dist := delta.PlanarLength()
	if dist < shared.Epsilon {
		return true
	}

	steps := int(dist/losSampleStep) + 1
	for step := 1; step < steps; step++ {
		d := float64(step) * losSampleStep
		if d > dist {
			d = dist
		}
		sample := from.Add(delta.Scale(d / dist))
		for _, m := range t.Mountains {
			if physics.PointVsCircle(sample, m.Position, m.Radius) {
				return false
			}
		}
	}
	return true
}

// FindSpawnPosition searches for an interior position at least minDist away
// from every avoid position and clear of obstacles. After the attempt cap
// the last tried position is returned even if it is not viable.
func (t *Terrain) FindSpawnPosition(rng *rand.Rand, avoid []shared.Vector3, minDist, probeRadius float64) shared.Vector3 {
	var pos shared.Vector3
	for attempt := 0; attempt < placementAttempts; attempt++ {
		pos = shared.Vector3{
			X: (rng.Float64()*2 - 1) * t.halfW * 0.8,
			Z: (rng.Float64()*2 - 1) * t.halfD * 0.8,
		}
		if t.ObstructedAt(pos, probeRadius) || t.MountainAt(pos, probeRadius) {
			continue
		}
		if !farFrom(pos, avoid, minDist) {
			continue
		}
		return pos
	}
	return pos
}

// edgeSpawnAttempts caps the edge spawn search before falling back to the
// best candidate seen.
const edgeSpawnAttempts = 12

// EdgeSpawnPosition picks a position on the map edge ring outside the
// viewer's forward cone and at least minDist away from every avoid
// position. When no attempt passes every test, the candidate furthest
// outside the cone is returned.
func (t *Terrain) EdgeSpawnPosition(rng *rand.Rand, viewer shared.Vector3, viewerRotation, coneHalfAngle float64, avoid []shared.Vector3, minDist float64) shared.Vector3 {
	var best shared.Vector3
	bestError := -1.0

	for attempt := 0; attempt < edgeSpawnAttempts; attempt++ {
		angle := rng.Float64() * 2 * math.Pi
		pos := shared.Vector3{
			X: math.Cos(angle) * t.halfW * 0.9,
			Z: math.Sin(angle) * t.halfD * 0.9,
		}

		toSpawn := math.Atan2(pos.X-viewer.X, pos.Z-viewer.Z)
		angErr := math.Abs(shared.AngleDiff(toSpawn, viewerRotation))

		if angErr > bestError {
			bestError = angErr
			best = pos
		}

		if angErr <= coneHalfAngle {
			continue
		}
		if !farFrom(pos, avoid, minDist) {
			continue
		}
		return pos
	}
	return best
}

func farFrom(pos shared.Vector3, avoid []shared.Vector3, minDist float64) bool {
	for _, a := range avoid {
		if pos.PlanarDistanceSqTo(a) < minDist*minDist {
			return false
		}
	}
	return true
}
