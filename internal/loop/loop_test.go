package loop

import (
	"context"
	"testing"

	"github.com/PossumXI/Asgard/Selene/internal/body"
	"github.com/PossumXI/Asgard/Selene/internal/scenario"
	"github.com/PossumXI/Asgard/Selene/internal/sim"
	"github.com/PossumXI/Asgard/Selene/internal/state"
	"github.com/PossumXI/Asgard/Selene/internal/units"
)

func TestClassifySuccess(t *testing.T) {
	s := state.SpacecraftState{
		Pos:         units.Vec2{X: 0, Y: 0.5},
		Vel:         units.Vec2{X: 0.1, Y: 0.1},
		EngThrottle: 0.2,
		AngPos:      units.Degrees(5).ToRadians(),
	}
	if got := Classify(s); got != Success {
		t.Errorf("Classify() = %v, want SUCCESS", got)
	}
}

func TestClassifyFailureCases(t *testing.T) {
	base := state.SpacecraftState{
		Pos:         units.Vec2{X: 0, Y: 0.5},
		Vel:         units.Vec2{X: 0.1, Y: 0.1},
		EngThrottle: 0.2,
		AngPos:      units.Degrees(5).ToRadians(),
	}

	cases := map[string]func(state.SpacecraftState) state.SpacecraftState{
		"too high":         func(s state.SpacecraftState) state.SpacecraftState { s.Pos.Y = 10; return s },
		"climbing away":    func(s state.SpacecraftState) state.SpacecraftState { s.Vel.Y = 5; return s },
		"drifting fast":    func(s state.SpacecraftState) state.SpacecraftState { s.Vel.X = 5; return s },
		"still throttling": func(s state.SpacecraftState) state.SpacecraftState { s.EngThrottle = 0.9; return s },
		"tipped over":      func(s state.SpacecraftState) state.SpacecraftState { s.AngPos = units.Degrees(170).ToRadians(); return s },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			if got := Classify(mutate(base)); got != Failure {
				t.Errorf("Classify() = %v, want FAILURE", got)
			}
		})
	}
}

func TestRunInternalSimToCompletion(t *testing.T) {
	sc := &scenario.Scenario{
		Body: body.Body{RadiusM: 1737400, MassKg: 7.342e22, Mu: 4.9028695e12},

		InitPos:      units.Vec2{X: 0, Y: 100},
		InitVel:      units.Vec2{X: 0, Y: 0},
		InitAttitude: 0,
		InitFuelKg:   500,

		WidthM: 2, HeightM: 3,
		DryMassKg: 500,
		ThrustN:   3000,
		IspS:      300,
		MdotKgS:   1,

		TauS:     0.5,
		ThetaMax: units.Degrees(15).ToRadians(),
		OmegaMax: units.Degrees(20).ToRadians(),
		Kp:       2.25,
		Kd:       -2.87,

		TgoMode:      scenario.TgoGivenFixed,
		TgoInitS:     0.3,
		TgoThrustMul: 0.8,
		TgoStopS:     0.2,

		GuidanceProfile: scenario.ProfileDescent,
		ControlProfile:  scenario.ProfileDescent,

		DtStepS: 0.1,
	}

	plant := sim.New(sc)
	driver := &Driver{Scenario: sc, Adaptor: plant, Internal: true}

	result, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Steps == 0 {
		t.Fatalf("Run() produced zero steps")
	}
	if result.Final.T <= 0 {
		t.Errorf("Final.T = %v, want > 0", result.Final.T)
	}
}
