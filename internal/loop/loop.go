// Package loop sequences NAV -> GUI -> CTR -> Actuators each fixed time
// step, manages tgo per the scenario's mode, enforces invariants when the
// plant is internal, and classifies the completed run as a landing success
// or failure.
package loop

import (
	"context"
	"fmt"

	"github.com/PossumXI/Asgard/Selene/internal/adaptor"
	"github.com/PossumXI/Asgard/Selene/internal/control"
	"github.com/PossumXI/Asgard/Selene/internal/guidance"
	"github.com/PossumXI/Asgard/Selene/internal/nav"
	"github.com/PossumXI/Asgard/Selene/internal/scenario"
	"github.com/PossumXI/Asgard/Selene/internal/state"
	"github.com/PossumXI/Asgard/Selene/internal/telemetry/tracing"
	"github.com/PossumXI/Asgard/Selene/internal/tgo"
	"github.com/sirupsen/logrus"
)

// Outcome is the landing classifier's verdict.
type Outcome string

const (
	Success Outcome = "SUCCESS"
	Failure Outcome = "FAILURE"
)

// StepHook is invoked once per completed step, e.g. to export telemetry.
type StepHook func(state.SpacecraftState)

// Driver owns the one SpacecraftState and history exclusively for the
// duration of a run.
type Driver struct {
	Scenario *scenario.Scenario
	Adaptor  adaptor.Adaptor
	Internal bool // true iff Adaptor is the internal sim.Plant
	Log      *logrus.Logger

	// OnStep, when set, is invoked once per completed step (e.g. to export a
	// telemetry snapshot or update metrics). It must not mutate state.
	OnStep StepHook

	state         state.SpacecraftState
	history       state.History
	initialFuelKg float64
	tgoS          float64
	ignitionT     float64
}

// TgoS returns the driver's current time-to-go estimate, for telemetry
// hooks that run alongside OnStep.
func (d *Driver) TgoS() float64 { return d.tgoS }

// Result is returned by Run.
type Result struct {
	Outcome Outcome
	Steps   int
	Final   state.SpacecraftState
	History []state.SpacecraftState
}

// Run executes the loop to completion: until tgo drops below the
// scenario's stop threshold or a 15-minute sanity cap, whichever comes
// first.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	sc := d.Scenario
	d.state = state.SpacecraftState{
		Pos:        sc.InitPos,
		Vel:        sc.InitVel,
		AngPos:     sc.InitAttitude,
		FuelMassKg: sc.InitFuelKg,
	}
	d.initialFuelKg = sc.InitFuelKg
	d.tgoS = tgo.InitialTgo(d.state, sc)

	navLog := d.entry("nav")
	ctrLog := d.entry("ctr")
	tracer := tracing.Tracer()

	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		stepCtx, stepSpan := tracer.Start(ctx, "gnc.step")

		if sc.TgoMode == scenario.TgoEstimatedUpdating {
			d.tgoS = tgo.Estimate(d.state, sc)
		}

		sensors, err := d.Adaptor.ReadSensors()
		if err != nil {
			stepSpan.End()
			return Result{}, fmt.Errorf("loop: read_sensors: %w", err)
		}

		_, navSpan := tracer.Start(stepCtx, "nav")
		nav.Step(&d.state, sensors, sc, navLog)
		navSpan.End()

		_, guiSpan := tracer.Start(stepCtx, "guidance")
		a, err := guidance.Compute(d.state, d.tgoS, sc)
		guiSpan.End()
		if err != nil {
			stepSpan.End()
			return Result{}, fmt.Errorf("loop: guidance: %w", err)
		}
		d.state.Gui = a

		_, ctrSpan := tracer.Start(stepCtx, "control")
		throttle, gimbal := control.Step(&d.state, sc, d.state.T-d.ignitionT, ctrLog)
		ctrSpan.End()
		d.state.EngThrottle = throttle
		d.state.EngGimbal = gimbal

		if err := d.Adaptor.WriteActuators(adaptor.Actuators{Throttle: throttle, Gimbal: gimbal}); err != nil {
			stepSpan.End()
			return Result{}, fmt.Errorf("loop: write_actuators: %w", err)
		}

		if d.Internal {
			if err := state.CheckInvariants(d.state, d.initialFuelKg); err != nil {
				stepSpan.End()
				return Result{}, err
			}
		}

		d.history.Append(d.state)
		if d.OnStep != nil {
			d.OnStep(d.state)
		}

		stepSpan.End()

		if d.tgoS < sc.TgoStopS {
			break
		}
		d.tgoS -= sensors.Dt

		if d.state.T > 15*60 {
			break
		}
	}

	outcome := Classify(d.state)
	return Result{
		Outcome: outcome,
		Steps:   d.history.Len(),
		Final:   d.state,
		History: d.history.Entries(),
	}, nil
}

func (d *Driver) entry(component string) *logrus.Entry {
	if d.Log == nil {
		return nil
	}
	return d.Log.WithField("component", component)
}

// Classify returns SUCCESS iff the vehicle is low, slow, throttled down and
// upright, otherwise FAILURE.
func Classify(s state.SpacecraftState) Outcome {
	if s.Pos.Y < 1 &&
		s.Vel.Y < 0.2 &&
		s.Vel.X < 1 &&
		s.EngThrottle < 0.30 &&
		float64(s.AngPos.ToDegrees()) < 100 {
		return Success
	}
	return Failure
}
