// Package guidance computes the commanded acceleration a* via three
// closed-form polynomial profiles - descent, ascent-to-orbit and
// ascent-to-hover - each parameterized by time-to-go and re-evaluated
// every step against the current state.
package guidance

import (
	"fmt"

	"github.com/PossumXI/Asgard/Selene/internal/scenario"
	"github.com/PossumXI/Asgard/Selene/internal/state"
	"github.com/PossumXI/Asgard/Selene/internal/units"
)

// Compute returns a* - the thrust-induced acceleration the controller must
// realise - for the scenario's guidance profile at the given tgo. The body
// acceleration (gravity net of centrifugal) felt by the vehicle is computed
// and subtracted internally so only the thrust contribution remains.
func Compute(s state.SpacecraftState, tgo float64, sc *scenario.Scenario) (units.Vec2, error) {
	aBodyY := -sc.Body.Gravity(s.Pos.Y) + sc.Body.Centrifugal(s.Vel.X, s.Pos.Y)

	var a units.Vec2
	switch sc.GuidanceProfile {
	case scenario.ProfileDescent:
		a = descent(s, tgo, sc)
	case scenario.ProfileAscentToOrbit:
		a = ascentToOrbit(s, tgo, sc)
	case scenario.ProfileAscentToHover:
		a = ascentToHover(s, tgo, sc)
	default:
		return units.Vec2{}, fmt.Errorf("guidance: unknown profile %q", sc.GuidanceProfile)
	}

	return units.Vec2{X: a.X, Y: a.Y - aBodyY}, nil
}

// descent applies the quadratic boundary-value law independently on both
// axes: a = a_f - 6/tgo·(v0+vf) + 12/tgo²·(pf-p0).
func descent(s state.SpacecraftState, tgo float64, sc *scenario.Scenario) units.Vec2 {
	ax := quadratic(sc.TargetAX, s.Vel.X, sc.TargetVX, s.Pos.X, sc.TargetPX, tgo)
	ay := quadratic(sc.TargetAY, s.Vel.Y, sc.TargetVY, s.Pos.Y, sc.TargetPY, tgo)
	return units.Vec2{X: ax, Y: ay}
}

func quadratic(af, v0, vf, p0, pf, tgo float64) float64 {
	return af - 6/tgo*(v0+vf) + 12/(tgo*tgo)*(pf-p0)
}

// ascentToOrbit: x is linear (terminal position free), y is quadratic.
// a_x = -a_fx + 2/tgo·(v_fx - v_0x)
func ascentToOrbit(s state.SpacecraftState, tgo float64, sc *scenario.Scenario) units.Vec2 {
	ax := -sc.TargetAX + 2/tgo*(sc.TargetVX-s.Vel.X)
	ay := quadratic(sc.TargetAY, s.Vel.Y, sc.TargetVY, s.Pos.Y, sc.TargetPY, tgo)
	return units.Vec2{X: ax, Y: ay}
}

// ascentToHover: x is linear (no terminal acceleration), y is quadratic.
// a_x = -2/tgo·(v_fx + 2·v_0x) + 6/tgo²·(p_fx - p_0x)
func ascentToHover(s state.SpacecraftState, tgo float64, sc *scenario.Scenario) units.Vec2 {
	ax := -2/tgo*(sc.TargetVX+2*s.Vel.X) + 6/(tgo*tgo)*(sc.TargetPX-s.Pos.X)
	ay := quadratic(sc.TargetAY, s.Vel.Y, sc.TargetVY, s.Pos.Y, sc.TargetPY, tgo)
	return units.Vec2{X: ax, Y: ay}
}
