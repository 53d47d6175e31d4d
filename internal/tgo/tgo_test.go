package tgo

import (
	"math"
	"testing"

	"github.com/PossumXI/Asgard/Selene/internal/body"
	"github.com/PossumXI/Asgard/Selene/internal/scenario"
	"github.com/PossumXI/Asgard/Selene/internal/state"
	"github.com/PossumXI/Asgard/Selene/internal/units"
)

func apolloScenario() *scenario.Scenario {
	return &scenario.Scenario{
		Body: body.Body{
			RadiusM: 1737400,
			MassKg:  7.342e22,
			Mu:      4.9028695e12,
		},
		DryMassKg:    6800,
		ThrustN:      45000,
		IspS:         311,
		MdotKgS:      14.75,
		TgoThrustMul: 0.80,
		TgoMode:      scenario.TgoEstimatedUpdating,
		TargetVX:     0,
		TargetVY:     0,
	}
}

func apolloState() state.SpacecraftState {
	return state.SpacecraftState{
		FuelMassKg: 8400,
		Pos:        units.Vec2{X: 0, Y: 15000},
		Vel:        units.Vec2{X: 1673, Y: 0},
	}
}

func TestEstimateConvergesWithinOnePercentOfTenIterations(t *testing.T) {
	sc := apolloScenario()
	s := apolloState()

	five := Estimate(s, sc)
	ten := EstimateN(s, sc, 10)

	if ten == 0 {
		t.Fatalf("ten-iteration reference is zero")
	}
	relErr := math.Abs(five-ten) / ten
	if relErr > 0.01 {
		t.Errorf("5-iteration estimate %v differs from 10-iteration %v by %.4f%%, want <=1%%", five, ten, relErr*100)
	}
}

func TestEstimateIsNonNegative(t *testing.T) {
	sc := apolloScenario()
	s := apolloState()
	if got := Estimate(s, sc); got < 0 {
		t.Errorf("Estimate() = %v, want >= 0", got)
	}
}

func TestInitialTgoGivenFixedSkipsEstimator(t *testing.T) {
	sc := apolloScenario()
	sc.TgoMode = scenario.TgoGivenFixed
	sc.TgoInitS = 600
	s := apolloState()

	if got := InitialTgo(s, sc); got != 600 {
		t.Errorf("InitialTgo() = %v, want 600 (pass-through)", got)
	}
}

func TestInitialTgoEstimatedFixedRunsEstimator(t *testing.T) {
	sc := apolloScenario()
	sc.TgoMode = scenario.TgoEstimatedFixed
	s := apolloState()

	got := InitialTgo(s, sc)
	want := Estimate(s, sc)
	if got != want {
		t.Errorf("InitialTgo() = %v, want Estimate() = %v", got, want)
	}
}
