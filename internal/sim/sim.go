// Package sim implements the closed-loop rigid-body plant: a
// self-contained simulator usable as ground truth for verification, and as
// an adaptor.Adaptor so the loop driver can treat it exactly like the
// external bridge. Models gimballed thrust, gravity, centrifugal
// acceleration and exponential-atmosphere drag on a 2-D rigid body.
package sim

import (
	"fmt"
	"math"

	"github.com/PossumXI/Asgard/Selene/internal/adaptor"
	"github.com/PossumXI/Asgard/Selene/internal/scenario"
	"github.com/PossumXI/Asgard/Selene/internal/state"
	"github.com/PossumXI/Asgard/Selene/internal/units"
)

// Plant is the rigid-body simulator: the internal sensor/actuator source for
// closed-loop verification runs.
type Plant struct {
	sc      *scenario.Scenario
	st      state.SpacecraftState
	history state.History
	lastCmd adaptor.Actuators
}

// New creates a Plant initialised from the scenario's initial conditions.
func New(sc *scenario.Scenario) *Plant {
	return &Plant{
		sc: sc,
		st: state.SpacecraftState{
			Pos:        sc.InitPos,
			Vel:        sc.InitVel,
			AngPos:     sc.InitAttitude,
			FuelMassKg: sc.InitFuelKg,
		},
	}
}

// ReadSensors returns the most recent acceleration, angular acceleration,
// optional altitude, and dt computed by the last WriteActuators call.
func (p *Plant) ReadSensors() (adaptor.Sensors, error) {
	return adaptor.Sensors{
		Dt:       p.sc.DtStepS,
		Acc:      p.st.Acc,
		AngAcc:   p.st.AngAcc,
		Altitude: altitudePtr(p.st.Pos.Y),
	}, nil
}

func altitudePtr(h float64) *float64 {
	v := h
	return &v
}

// WriteActuators advances the plant one dt_step: fuel burn, angular
// dynamics, thrust/drag/gravity/centrifugal acceleration, and integration,
// in that order.
func (p *Plant) WriteActuators(cmd adaptor.Actuators) error {
	if cmd.Throttle < 0 || cmd.Throttle > 1 {
		return fmt.Errorf("%w: throttle %v out of [0,1]", adaptor.ErrAdaptorFailure, cmd.Throttle)
	}
	if cmd.Gimbal < -1 || cmd.Gimbal > 1 {
		return fmt.Errorf("%w: gimbal %v out of [-1,1]", adaptor.ErrAdaptorFailure, cmd.Gimbal)
	}
	p.lastCmd = cmd
	sc := p.sc
	dt := sc.DtStepS

	p.st.T += dt
	p.st.Dt = dt
	p.st.FuelMassKg -= sc.MdotKgS * cmd.Throttle * dt
	if p.st.FuelMassKg < 0 {
		p.st.FuelMassKg = 0
	}
	m := sc.DryMassKg + p.st.FuelMassKg

	// Angular dynamics first, so thrust direction reflects the new attitude
	// on the next step.
	armLength := sc.HeightM / 2
	I := 0.5 * m * (sc.WidthM / 2) * (sc.WidthM / 2)
	torque := armLength * cmd.Throttle * sc.ThrustN * math.Sin(cmd.Gimbal*float64(sc.ThetaMax))
	alpha := torque / I
	p.st.AngAcc = units.Radians(alpha)
	p.st.AngVel += units.Radians(alpha * dt)
	p.st.AngPos = (p.st.AngPos + units.Radians(float64(p.st.AngVel)*dt)).Wrap()

	phi := float64(p.st.AngPos)
	dir := units.Vec2{X: math.Cos(phi), Y: math.Sin(phi)}

	aEng := dir.Scale(cmd.Throttle * sc.ThrustN / m)

	h := p.st.Pos.Y
	q := 0.5 * sc.Body.AtmDensity(h) * p.st.Vel.Norm() * p.st.Vel.Norm()
	area := math.Pi * (sc.WidthM / 2) * (sc.WidthM / 2)
	aDrag := dir.Scale(-(q * area * sc.DragCoeff) / m)

	aGrav := units.Vec2{X: 0, Y: -sc.Body.Gravity(h)}
	aCentr := units.Vec2{X: 0, Y: sc.Body.Centrifugal(p.st.Vel.X, h)}

	p.st.Acc = aEng.Add(aDrag).Add(aGrav).Add(aCentr)
	p.st.Vel = p.st.Vel.Add(p.st.Acc.Scale(dt))
	p.st.Pos = p.st.Pos.Add(p.st.Vel.Scale(dt))

	p.st.AccThrust = aEng.Norm()
	p.st.AccAtm = aDrag.Norm()
	p.st.AccGravity = -aGrav.Y
	p.st.AccCentrifugal = aCentr.Y
	p.st.DV += p.st.AccThrust * dt
	p.st.EngThrottle = cmd.Throttle
	p.st.EngGimbal = cmd.Gimbal

	p.history.Append(p.st)
	return nil
}

// ExportConfig returns the scenario the plant was constructed from.
func (p *Plant) ExportConfig() (*scenario.Scenario, error) { return p.sc, nil }

// ExportState returns the current spacecraft state.
func (p *Plant) ExportState() (state.SpacecraftState, error) { return p.st, nil }

// Close is a no-op for the internal plant; it owns no external resources.
func (p *Plant) Close() error { return nil }

// History exposes the plant's own step history.
func (p *Plant) History() *state.History { return &p.history }

// State returns a copy of the current state.
func (p *Plant) State() state.SpacecraftState { return p.st }
