// Package control maps the commanded acceleration a* from guidance to
// actuator commands: a translation controller (thrust magnitude + ideal
// attitude), an ascent-to-orbit constant-pitch override for the first
// moments of the burn, and a cascaded angular PD controller producing a
// gimbal command that respects rate and position limits. Saturation is
// never an error: every path returns a flyable command.
package control

import (
	"math"

	"github.com/PossumXI/Asgard/Selene/internal/scenario"
	"github.com/PossumXI/Asgard/Selene/internal/state"
	"github.com/PossumXI/Asgard/Selene/internal/units"
	"github.com/sirupsen/logrus"
)

// constantPitchDurationS is the ascent-to-orbit override window, during
// which attitude is interpolated from 90° to the translation controller's
// θ* rather than commanded directly.
const constantPitchDurationS = 50.0

// Translation computes thrust magnitude F_c and ideal attitude θ* from the
// commanded acceleration a*. Returns (thrustN, thetaRad, saturated).
func Translation(aStar units.Vec2, massKg, thrustMaxN float64) (float64, units.Radians, bool) {
	if aStar.Y < 0 {
		// Freefall rather than spend propellant pushing downward; nose down
		// is a safe attitude, throttle reserved for attitude authority.
		return thrustMaxN, units.Radians(math.Pi), true
	}

	required := massKg * aStar.Norm()
	if required < thrustMaxN {
		theta := math.Atan2(aStar.Y, aStar.X)
		return required, units.Radians(theta), false
	}

	// Saturate thrust to F, sacrifice x to preserve y.
	theta := math.Asin(units.Saturate(aStar.Y*massKg/thrustMaxN, -1, 1))
	if aStar.X < 0 {
		theta = math.Pi - theta
	}
	return thrustMaxN, units.Radians(theta), true
}

// AscentOverride returns the commanded attitude during the first moments
// of an ascent-to-orbit burn: a linear ramp from 90° to the translation
// controller's θ*, thrust held at nominal. tSinceIgnition is seconds since
// the burn began. Returns the overridden theta and whether the override is
// still active.
func AscentOverride(tSinceIgnition float64, thetaStar units.Radians) (units.Radians, bool) {
	if tSinceIgnition >= constantPitchDurationS {
		return thetaStar, false
	}
	frac := tSinceIgnition / constantPitchDurationS
	ninety := math.Pi / 2
	theta := ninety + frac*(float64(thetaStar)-ninety)
	return units.Radians(theta), true
}

// Angular runs the cascaded PD angular controller for one step and returns
// the new gimbal command (dimensionless, [-1,+1], normalised by theta_max)
// plus whether it saturated on rate or position.
func Angular(sc *scenario.Scenario, dt, massKg, thrustN float64, angPos, angVel units.Radians, prevGimbal float64, thetaStar units.Radians) (float64, bool) {
	e := (thetaStar - angPos).Wrap()
	u := sc.Kp*float64(e) + sc.Kd*float64(angVel)

	// Fixed dimensional transfer: angle command -> angular acceleration
	// command with unit (1 s²) time constant.
	alphaStar := u

	momentOfInertia := 0.5 * massKg * (sc.WidthM / 2) * (sc.WidthM / 2)
	torque := momentOfInertia * alphaStar

	armLength := sc.HeightM / 2
	sinGimbal := units.Saturate(torque/(armLength*thrustN), -1, 1)
	gimbalRad := units.Radians(math.Asin(sinGimbal))

	prevGimbalRad := units.Radians(prevGimbal) * sc.ThetaMax
	saturated := false

	if dt > 0 {
		maxStep := sc.OmegaMax * units.Radians(dt)
		delta := gimbalRad - prevGimbalRad
		if units.Radians(math.Abs(float64(delta))) > maxStep {
			gimbalRad = prevGimbalRad + units.Radians(units.Sign(float64(delta)))*maxStep
			saturated = true
		}
	}

	clamped := units.Saturate(float64(gimbalRad), -float64(sc.ThetaMax), float64(sc.ThetaMax))
	if clamped != float64(gimbalRad) {
		saturated = true
	}
	gimbalRad = units.Radians(clamped)

	return float64(gimbalRad) / float64(sc.ThetaMax), saturated
}

// Step runs the full cascade for one loop iteration: translation -> optional
// ascent override -> angular, and returns the actuator command. log, when
// non-nil, receives a warning on any saturation event.
func Step(s *state.SpacecraftState, sc *scenario.Scenario, tSinceIgnitionS float64, log *logrus.Entry) (throttle, gimbal float64) {
	massKg := sc.DryMassKg + s.FuelMassKg

	thrustN, thetaStar, transSat := Translation(s.Gui, massKg, sc.ThrustN)

	if sc.ControlProfile == scenario.ProfileAscentToOrbit {
		if overridden, active := AscentOverride(tSinceIgnitionS, thetaStar); active {
			thetaStar = overridden
			thrustN = sc.ThrustN
		}
	}

	throttle = units.Saturate(thrustN/sc.ThrustN, 0, 1)

	gimbalCmd, angSat := Angular(sc, s.Dt, massKg, thrustN, s.AngPos, s.AngVel, s.EngGimbal, thetaStar)

	if log != nil && (transSat || angSat) {
		log.WithFields(logrus.Fields{
			"translation_saturated": transSat,
			"angular_saturated":     angSat,
			"theta_star_deg":        float64(thetaStar.ToDegrees()),
		}).Warn("control saturation")
	}

	return throttle, gimbalCmd
}
