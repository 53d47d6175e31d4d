// Package nav integrates sensor-derived acceleration into velocity and
// position, integrates angular rate into attitude, accumulates delta-v, and
// tracks remaining propellant mass.
package nav

import (
	"math"

	"github.com/PossumXI/Asgard/Selene/internal/adaptor"
	"github.com/PossumXI/Asgard/Selene/internal/scenario"
	"github.com/PossumXI/Asgard/Selene/internal/state"
	"github.com/PossumXI/Asgard/Selene/internal/units"
	"github.com/sirupsen/logrus"
)

// Step advances s in place by one sensor sample. The sensor's acceleration
// is trusted outright for integration; the forward-modeled thrust/drag/
// gravity/centrifugal components are recomputed alongside it only for
// logging and for estimator paths that need them populated.
func Step(s *state.SpacecraftState, sensors adaptor.Sensors, sc *scenario.Scenario, log *logrus.Entry) {
	dt := sensors.Dt
	s.T += dt
	s.Dt = dt

	s.FuelMassKg -= sc.MdotKgS * s.EngThrottle * dt
	if s.FuelMassKg < 0 {
		s.FuelMassKg = 0
	}

	m := sc.DryMassKg + s.FuelMassKg
	h := s.Pos.Y

	s.AccThrust = s.EngThrottle * sc.ThrustN / m
	q := 0.5 * sc.Body.AtmDensity(h) * s.Vel.Norm() * s.Vel.Norm()
	area := math.Pi * (sc.WidthM / 2) * (sc.WidthM / 2)
	drag := q * area * sc.DragCoeff
	s.AccAtm = -drag / m
	s.AccGravity = -sc.Body.Gravity(h)
	s.AccCentrifugal = sc.Body.Centrifugal(s.Vel.X, h)

	s.Acc = sensors.Acc
	s.Vel = s.Vel.Add(s.Acc.Scale(dt))
	s.Pos = s.Pos.Add(s.Vel.Scale(dt))

	s.DV += s.AccThrust * dt

	s.AngAcc = sensors.AngAcc
	s.AngVel += units.Radians(float64(s.AngAcc) * dt)
	s.AngPos = (s.AngPos + units.Radians(float64(s.AngVel)*dt)).Wrap()

	if log != nil {
		log.WithFields(logrus.Fields{
			"t": s.T, "pos_y": s.Pos.Y, "vel_x": s.Vel.X, "vel_y": s.Vel.Y,
			"fuel_kg": s.FuelMassKg,
		}).Debug("nav step")
	}
}
