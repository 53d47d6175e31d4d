// Package state holds the mutable per-step SpacecraftState snapshot and the
// invariant checks that guard it when the plant is the internal simulator.
package state

import (
	"errors"
	"fmt"

	"github.com/PossumXI/Asgard/Selene/internal/units"
)

// ErrInvariantViolation is returned by CheckInvariants when a state value
// falls outside its allowed bounds. Fatal only when the plant is internal.
var ErrInvariantViolation = errors.New("state: invariant violation")

// SpacecraftState is the instantaneous, mutable vehicle snapshot.
type SpacecraftState struct {
	T  float64 // wall-clock since start, seconds
	Dt float64

	FuelMassKg float64

	AccThrust      float64 // scalar, m/s²
	AccAtm         float64
	AccGravity     float64
	AccCentrifugal float64

	Pos units.Vec2
	Vel units.Vec2
	Acc units.Vec2

	DV float64 // cumulative ΔV applied by thrust

	AngPos units.Radians
	AngVel units.Radians // rad/s
	AngAcc units.Radians // rad/s²

	Gui units.Vec2 // commanded acceleration returned by GUI

	EngThrottle float64 // [0,1]
	EngGimbal   float64 // [-1,+1], normalised to theta_max
}

// History is an append-only ordered sequence of snapshots for post-mortem
// export. Readers only ever see completed steps.
type History struct {
	entries []SpacecraftState
}

// Append records a completed step. Must only be called after a step is fully
// computed (by the loop driver, and by sim.Plant for its own history).
func (h *History) Append(s SpacecraftState) { h.entries = append(h.entries, s) }

// Entries returns the recorded history in step order.
func (h *History) Entries() []SpacecraftState { return h.entries }

// Len returns the number of recorded steps.
func (h *History) Len() int { return len(h.entries) }

// Last returns the most recently appended entry and true, or the zero value
// and false if the history is empty.
func (h *History) Last() (SpacecraftState, bool) {
	if len(h.entries) == 0 {
		return SpacecraftState{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// CheckInvariants validates s against its physical bounds. initialFuelMassKg
// is needed because fuel_mass must never exceed its starting value.
func CheckInvariants(s SpacecraftState, initialFuelMassKg float64) error {
	switch {
	case s.FuelMassKg < 0 || s.FuelMassKg > initialFuelMassKg:
		return fmt.Errorf("%w: fuel_mass=%.3f out of [0,%.3f]", ErrInvariantViolation, s.FuelMassKg, initialFuelMassKg)
	case s.EngThrottle < 0 || s.EngThrottle > 1:
		return fmt.Errorf("%w: eng_throttle=%.3f out of [0,1]", ErrInvariantViolation, s.EngThrottle)
	case s.EngGimbal < -1 || s.EngGimbal > 1:
		return fmt.Errorf("%w: eng_gimbal=%.3f out of [-1,1]", ErrInvariantViolation, s.EngGimbal)
	case s.T < 0 || s.T > 15*60:
		return fmt.Errorf("%w: t=%.3f out of [0,900]s", ErrInvariantViolation, s.T)
	case s.Pos.Y < 0 || s.Pos.Y > 1_000_000:
		return fmt.Errorf("%w: pos.y=%.3f out of [0,1e6]m", ErrInvariantViolation, s.Pos.Y)
	case abs(s.Vel.X) >= 10_000:
		return fmt.Errorf("%w: |vel.x|=%.3f >= 10000 m/s", ErrInvariantViolation, s.Vel.X)
	case abs(s.Vel.Y) >= 1_000:
		return fmt.Errorf("%w: |vel.y|=%.3f >= 1000 m/s", ErrInvariantViolation, s.Vel.Y)
	case abs(s.Acc.X) >= 100 || abs(s.Acc.Y) >= 100:
		return fmt.Errorf("%w: |acc| out of (-100,100) m/s²", ErrInvariantViolation)
	case abs(float64(s.AngPos.ToDegrees())) > 180.1:
		return fmt.Errorf("%w: |ang_pos|=%.3f deg > 180.1", ErrInvariantViolation, float64(s.AngPos.ToDegrees()))
	case abs(float64(s.AngVel.ToDegrees())) > 5:
		return fmt.Errorf("%w: |ang_vel|=%.3f deg/s > 5", ErrInvariantViolation, float64(s.AngVel.ToDegrees()))
	case abs(float64(s.AngAcc.ToDegrees())) > 5:
		return fmt.Errorf("%w: |ang_acc|=%.3f deg/s² > 5", ErrInvariantViolation, float64(s.AngAcc.ToDegrees()))
	}
	return nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
