package physics

import (
	"math"
	"testing"

	"github.com/mark3labs/battletanks/game/shared"
)

const testDt = 1.0 / 60

func testDriveConfig() TankMovementConfig {
	return TankMovementConfig{
		MaxSpeed:        15,
		Acceleration:    20,
		Deceleration:    30,
		TurnSpeed:       2.5,
		TurnSpeedMoving: 1.8,
	}
}

func TestDriveTankReachesMaxSpeed(t *testing.T) {
	eng := NewEngine()
	cfg := testDriveConfig()
	b := &Body{Alive: true}

	var speed float64
	for i := 0; i < 60; i++ {
		speed = eng.DriveTank(b, shared.InputIntent{Forward: true}, testDt, cfg)
	}

	if math.Abs(speed-cfg.MaxSpeed) > 1e-9 {
		t.Errorf("speed after 1s = %v, want %v", speed, cfg.MaxSpeed)
	}
	if b.Position.Z <= 0 {
		t.Errorf("tank did not move forward: z = %v", b.Position.Z)
	}
	if b.Position.X != 0 {
		t.Errorf("tank drifted sideways: x = %v", b.Position.X)
	}
}

func TestDriveTankReverseHalfSpeed(t *testing.T) {
	eng := NewEngine()
	cfg := testDriveConfig()
	b := &Body{Alive: true}

	var speed float64
	for i := 0; i < 120; i++ {
		speed = eng.DriveTank(b, shared.InputIntent{Backward: true}, testDt, cfg)
	}

	if math.Abs(speed+cfg.MaxSpeed/2) > 1e-9 {
		t.Errorf("reverse speed = %v, want %v", speed, -cfg.MaxSpeed/2)
	}
}

func TestDriveTankCoastsToRest(t *testing.T) {
	eng := NewEngine()
	cfg := testDriveConfig()
	b := &Body{Alive: true}

	for i := 0; i < 60; i++ {
		eng.DriveTank(b, shared.InputIntent{Forward: true}, testDt, cfg)
	}
	var speed float64
	for i := 0; i < 120; i++ {
		speed = eng.DriveTank(b, shared.InputIntent{}, testDt, cfg)
	}

	if speed != 0 {
		t.Errorf("coasting speed after 2s = %v, want 0", speed)
	}
}

func TestDriveTankRotationStaysNormalized(t *testing.T) {
	eng := NewEngine()
	cfg := testDriveConfig()
	b := &Body{Alive: true}

	// Ten full seconds of continuous turning wraps several times.
	for i := 0; i < 600; i++ {
		eng.DriveTank(b, shared.InputIntent{Left: true}, testDt, cfg)
		if b.Rotation <= -math.Pi || b.Rotation > math.Pi {
			t.Fatalf("rotation %v left (-pi, pi] at step %d", b.Rotation, i)
		}
	}
}

func TestForwardConvention(t *testing.T) {
	b := &Body{}
	f := b.Forward()
	if math.Abs(f.Z-1) > 1e-9 || math.Abs(f.X) > 1e-9 {
		t.Errorf("rotation 0 forward = %+v, want +Z", f)
	}

	b.Rotation = math.Pi / 2
	f = b.Forward()
	if math.Abs(f.X-1) > 1e-9 || math.Abs(f.Z) > 1e-9 {
		t.Errorf("rotation pi/2 forward = %+v, want +X", f)
	}
}

func TestIntegrateBallisticFlightAndDrop(t *testing.T) {
	eng := NewEngine()
	b := &Body{
		Position: shared.Vector3{Y: 100},
		Velocity: shared.Vector3{Z: 60},
		Alive:    true,
	}

	for i := 0; i < 60; i++ {
		if eng.IntegrateBallistic(b, testDt) {
			t.Fatalf("hit ground early at step %d", i)
		}
	}

	if math.Abs(b.Position.Z-60) > 1e-9 {
		t.Errorf("z after 1s = %v, want 60", b.Position.Z)
	}
	// Explicit Euler drop over 60 steps: g·dt²·(1+2+…+60).
	wantY := 100 - 9.8*testDt*testDt*1830
	if math.Abs(b.Position.Y-wantY) > 1e-6 {
		t.Errorf("y after 1s = %v, want %v", b.Position.Y, wantY)
	}
}

func TestIntegrateBallisticGroundHit(t *testing.T) {
	eng := NewEngine()
	b := &Body{
		Position: shared.Vector3{Y: 0.1},
		Velocity: shared.Vector3{Y: -10},
		Alive:    true,
	}

	if !eng.IntegrateBallistic(b, testDt) {
		t.Fatal("expected ground hit")
	}
	if b.Position.Y != 0 {
		t.Errorf("position not clamped to ground: y = %v", b.Position.Y)
	}
}

func TestIntegrateGuidedConvergesOnTarget(t *testing.T) {
	eng := NewEngine()
	cfg := GuidedConfig{Speed: 30, TurnRate: 3.5, AimHeightBias: 1.0, MinAltitude: 0.5}

	// Launched 90° off the bearing to a distant target.
	b := &Body{
		Position: shared.Vector3{Y: 5},
		Velocity: shared.Vector3{X: 30},
		Alive:    true,
	}
	target := shared.Vector3{Z: 400}

	for i := 0; i < 120; i++ {
		eng.IntegrateGuided(b, target, true, cfg, testDt)
	}

	aim := target
	aim.Y += cfg.AimHeightBias
	desired := aim.Sub(b.Position).Normalized()
	dir := b.Velocity.Normalized()
	angle := math.Acos(shared.Clamp(dir.Dot(desired), -1, 1))
	if angle > 0.05 {
		t.Errorf("heading error after 2s = %v rad, want < 0.05", angle)
	}

	if math.Abs(b.Velocity.Length()-cfg.Speed) > 1e-6 {
		t.Errorf("speed drifted to %v, want %v", b.Velocity.Length(), cfg.Speed)
	}
}

func TestIntegrateGuidedDeadTargetFliesStraight(t *testing.T) {
	eng := NewEngine()
	cfg := GuidedConfig{Speed: 30, TurnRate: 3.5}
	b := &Body{
		Position: shared.Vector3{Y: 5},
		Velocity: shared.Vector3{X: 30},
		Alive:    true,
	}

	eng.IntegrateGuided(b, shared.Vector3{Z: 100}, false, cfg, testDt)

	if b.Velocity.Z != 0 || b.Velocity.X != 30 {
		t.Errorf("dead-target missile steered: %+v", b.Velocity)
	}
}

func TestIntegrateGuidedAltitudeFloor(t *testing.T) {
	eng := NewEngine()
	cfg := GuidedConfig{Speed: 30, TurnRate: 3.5, MinAltitude: 0.5}
	b := &Body{
		Position: shared.Vector3{Y: 0.6},
		Velocity: shared.Vector3{Y: -25, Z: 16},
		Alive:    true,
	}

	for i := 0; i < 30; i++ {
		eng.IntegrateGuided(b, shared.Vector3{Z: 100}, true, cfg, testDt)
		if b.Position.Y < cfg.MinAltitude {
			t.Fatalf("missile sank below floor: y = %v", b.Position.Y)
		}
	}
}

func TestBallisticLaunchVelocityInRange(t *testing.T) {
	eng := NewEngine()
	origin := shared.Vector3{}
	target := shared.Vector3{X: 10}

	vel := eng.BallisticLaunchVelocity(origin, target, 30)

	if math.Abs(vel.Length()-30) > 1e-9 {
		t.Errorf("launch speed = %v, want 30", vel.Length())
	}
	if vel.Y <= 0 {
		t.Errorf("low trajectory should still arc upward: vy = %v", vel.Y)
	}

	// Integrate the shot and confirm it lands near the target.
	b := &Body{Position: origin, Velocity: vel, Alive: true}
	for i := 0; i < 600; i++ {
		if eng.IntegrateBallistic(b, testDt) {
			break
		}
	}
	if math.Abs(b.Position.X-10) > 1.0 {
		t.Errorf("landed at x = %v, want near 10", b.Position.X)
	}
}

func TestBallisticLaunchVelocityOutOfRangeFallback(t *testing.T) {
	eng := NewEngine()
	vel := eng.BallisticLaunchVelocity(shared.Vector3{}, shared.Vector3{X: 50}, 10)

	if math.Abs(vel.Length()-10) > 1e-9 {
		t.Errorf("fallback speed = %v, want 10", vel.Length())
	}
	if vel.Y <= 0 {
		t.Errorf("fallback shot should carry an upward bias: vy = %v", vel.Y)
	}
	if vel.X <= 0 {
		t.Errorf("fallback shot not aimed at target: vx = %v", vel.X)
	}
}

func TestApplyExplosionImpulseFalloff(t *testing.T) {
	eng := NewEngine()
	near := &Body{Position: shared.Vector3{X: 3}, Alive: true}
	far := &Body{Position: shared.Vector3{X: 10}, Alive: true}
	dead := &Body{Position: shared.Vector3{X: 1}}

	eng.ApplyExplosionImpulse(shared.Vector3{}, 6, 20, []*Body{near, far, dead})

	if math.Abs(near.Velocity.X-10) > 1e-9 {
		t.Errorf("near impulse x = %v, want 10", near.Velocity.X)
	}
	if math.Abs(near.Velocity.Y-5) > 1e-9 {
		t.Errorf("near impulse y = %v, want 5", near.Velocity.Y)
	}
	if far.Velocity != (shared.Vector3{}) {
		t.Errorf("body outside radius was pushed: %+v", far.Velocity)
	}
	if dead.Velocity != (shared.Vector3{}) {
		t.Errorf("dead body was pushed: %+v", dead.Velocity)
	}
}

func TestIntegrateFreeBodyGroundFriction(t *testing.T) {
	eng := NewEngine()
	b := &Body{
		Velocity:   shared.Vector3{X: 10},
		Alive:      true,
		UseGravity: true,
	}

	for i := 0; i < 120; i++ {
		eng.IntegrateFreeBody(b, testDt)
	}

	if math.Abs(b.Velocity.X) > 0.01 {
		t.Errorf("friction did not stop the body: vx = %v", b.Velocity.X)
	}
	if b.Position.Y != 0 {
		t.Errorf("grounded body left the ground: y = %v", b.Position.Y)
	}
}
