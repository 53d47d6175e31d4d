package control

import (
	"math"
	"testing"

	"github.com/PossumXI/Asgard/Selene/internal/scenario"
	"github.com/PossumXI/Asgard/Selene/internal/units"
)

func TestTranslationQuadrants(t *testing.T) {
	cases := []struct {
		name       string
		a          units.Vec2
		wantTheta  float64
		wantThrust float64
	}{
		{"pure +x", units.Vec2{X: 10, Y: 0}, 0, 10000},
		{"first quadrant", units.Vec2{X: 10, Y: 10}, math.Pi / 4, 1000 * math.Hypot(10, 10)},
		{"second quadrant", units.Vec2{X: -10, Y: 10}, 3 * math.Pi / 4, 1000 * math.Hypot(10, 10)},
	}
	massKg := 1000.0
	thrustMax := 1_000_000.0 // ample, never saturates
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			thrust, theta, sat := Translation(c.a, massKg, thrustMax)
			if sat {
				t.Fatalf("unexpected saturation")
			}
			if math.Abs(float64(theta)-c.wantTheta) > 1e-9 {
				t.Errorf("theta = %v, want %v", theta, c.wantTheta)
			}
			if math.Abs(thrust-c.wantThrust) > 1e-6 {
				t.Errorf("thrust = %v, want %v", thrust, c.wantThrust)
			}
		})
	}
}

func TestTranslationNegativeYFreefalls(t *testing.T) {
	thrust, theta, sat := Translation(units.Vec2{X: 5, Y: -10}, 1000, 20000)
	if !sat {
		t.Fatalf("expected saturated/warned")
	}
	if thrust != 20000 {
		t.Errorf("thrust = %v, want F_max", thrust)
	}
	if math.Abs(float64(theta)-math.Pi) > 1e-9 {
		t.Errorf("theta = %v, want pi", theta)
	}
}

func TestTranslationThrustMagnitude(t *testing.T) {
	// scenario 2: unit-mass translation
	thrust, theta, sat := Translation(units.Vec2{X: 10, Y: 0}, 1000, 20000)
	if sat || thrust != 10000 || theta != 0 {
		t.Errorf("got thrust=%v theta=%v sat=%v", thrust, theta, sat)
	}

	// scenario 3: thrust-saturated
	thrust, theta, sat = Translation(units.Vec2{X: 30, Y: 0}, 1000, 20000)
	if !sat || thrust != 20000 {
		t.Errorf("expected saturated at F_max, got thrust=%v sat=%v", thrust, sat)
	}
	if math.Abs(float64(theta)) > 1e-9 {
		t.Errorf("theta = %v, want 0", theta)
	}

	// scenario 4: gravity assist
	thrust, theta, sat = Translation(units.Vec2{X: 0, Y: -10}, 1000, 20000)
	if thrust != 20000 || math.Abs(float64(theta)-math.Pi) > 1e-9 || !sat {
		t.Errorf("gravity assist: thrust=%v theta=%v sat=%v", thrust, theta, sat)
	}
}

func TestAngularLinearityBelowSaturation(t *testing.T) {
	// scenario 5: kp=2.25, kd=0, dt=1s, m=1000kg, F=20000N, phi=0, theta_g0=0.
	// Below both rate and position saturation, the asin small-angle cascade
	// is ~linear in theta*: doubling/tripling theta* should double/triple
	// the resulting gimbal command.
	sc := &scenario.Scenario{
		Kp: 2.25, Kd: 0,
		WidthM: 2, HeightM: 4,
		ThetaMax: units.Degrees(90).ToRadians(),
		OmegaMax: units.Degrees(1000).ToRadians(), // effectively unconstrained
	}

	massKg := 1000.0
	thrustN := 20000.0

	var gimbals [3]float64
	degs := [3]float64{10, 20, 30}
	for i, thetaDeg := range degs {
		gimbal, sat := Angular(sc, 1.0, massKg, thrustN, 0, 0, 0, units.Degrees(thetaDeg).ToRadians())
		if sat {
			t.Fatalf("theta*=%v deg: unexpected saturation", thetaDeg)
		}
		gimbals[i] = gimbal
	}

	if gimbals[0] <= 0 {
		t.Fatalf("expected a positive gimbal command, got %v", gimbals[0])
	}
	if ratio := gimbals[1] / gimbals[0]; math.Abs(ratio-2) > 0.01 {
		t.Errorf("gimbal(20deg)/gimbal(10deg) = %v, want ~2 (near-linear region)", ratio)
	}
	if ratio := gimbals[2] / gimbals[0]; math.Abs(ratio-3) > 0.01 {
		t.Errorf("gimbal(30deg)/gimbal(10deg) = %v, want ~3 (near-linear region)", ratio)
	}
}

func TestAngularRateLimit(t *testing.T) {
	sc := &scenario.Scenario{
		Kp: 100, Kd: 0, // large gain forces saturation
		WidthM: 2, HeightM: 4,
		ThetaMax: units.Degrees(20).ToRadians(),
		OmegaMax: units.Degrees(5).ToRadians(),
	}
	dt := 0.1
	gimbal1, _ := Angular(sc, dt, 1000, 20000, 0, 0, 0, units.Degrees(90).ToRadians())
	gimbal2, sat := Angular(sc, dt, 1000, 20000, 0, 0, gimbal1, units.Degrees(-90).ToRadians())
	if !sat {
		t.Fatalf("expected rate saturation on a 180deg reversal")
	}
	deltaRad := (gimbal2 - gimbal1) * float64(sc.ThetaMax)
	maxStep := float64(sc.OmegaMax) * dt
	if math.Abs(deltaRad) > maxStep+1e-9 {
		t.Errorf("|delta gimbal| = %v rad, want <= %v", math.Abs(deltaRad), maxStep)
	}
}

func TestAngularPositionLimit(t *testing.T) {
	sc := &scenario.Scenario{
		Kp: 1000, Kd: 0,
		WidthM: 2, HeightM: 4,
		ThetaMax: units.Degrees(15).ToRadians(),
		OmegaMax: units.Degrees(1000).ToRadians(),
	}
	gimbal, sat := Angular(sc, 0.1, 1000, 20000, 0, 0, 0, units.Degrees(90).ToRadians())
	if !sat {
		t.Fatalf("expected position saturation")
	}
	if math.Abs(gimbal) > 1.0+1e-9 {
		t.Errorf("gimbal = %v, want within [-1,1]", gimbal)
	}
}
