// Package scenario loads the immutable per-run Scenario from a YAML
// document, validates it, and derives the controller gains from the
// gimbal time constant at load time.
package scenario

import (
	"fmt"
	"math"
	"os"

	"github.com/PossumXI/Asgard/Selene/internal/body"
	"github.com/PossumXI/Asgard/Selene/internal/units"
	yaml "go.yaml.in/yaml/v2"
)

// TgoMode selects how the time-to-go estimator is driven.
type TgoMode string

const (
	TgoGivenFixed        TgoMode = "GIVEN_FIXED"
	TgoEstimatedFixed    TgoMode = "ESTIMATED_FIXED"
	TgoEstimatedUpdating TgoMode = "ESTIMATED_UPDATING"
)

// Profile selects the closed-form guidance/control law.
type Profile string

const (
	ProfileDescent        Profile = "DESCENT"
	ProfileAscentToOrbit  Profile = "ASCENT_TO_ORBIT"
	ProfileAscentToHover  Profile = "ASCENT_TO_HOVER"
)

// Raw is the literal YAML document shape.
type Raw struct {
	Body struct {
		RadiusM      float64 `yaml:"radius_m"`
		MassKg       float64 `yaml:"mass_kg"`
		Mu           float64 `yaml:"mu"`
		RhoSeaLevel  float64 `yaml:"rho_sea_level"`
		PressureSea  float64 `yaml:"pressure_sea_level"`
		ScaleHeightM float64 `yaml:"scale_height_m"`
	} `yaml:"body"`

	Initial struct {
		PosX     float64 `yaml:"pos_x"`
		PosY     float64 `yaml:"pos_y"`
		VelX     float64 `yaml:"vel_x"`
		VelY     float64 `yaml:"vel_y"`
		AttitudeDeg float64 `yaml:"attitude_deg"`
		FuelKg   float64 `yaml:"fuel_kg"`
	} `yaml:"initial"`

	Vehicle struct {
		WidthM      float64 `yaml:"width_m"`
		HeightM     float64 `yaml:"height_m"`
		DryMassKg   float64 `yaml:"dry_mass_kg"`
		DragCoeff   float64 `yaml:"drag_coeff"`
		ThrustN     float64 `yaml:"thrust_n"`
		IspS        float64 `yaml:"isp_s"`
		MdotKgS     float64 `yaml:"mdot_kg_s"`
	} `yaml:"vehicle"`

	Target struct {
		AX float64 `yaml:"a_x"`
		AY float64 `yaml:"a_y"`
		VX float64 `yaml:"v_x"`
		VY float64 `yaml:"v_y"`
		PX float64 `yaml:"p_x"`
		PY float64 `yaml:"p_y"`
	} `yaml:"target"`

	Controller struct {
		TauS      float64 `yaml:"tau_s"`
		ThetaMaxDeg float64 `yaml:"theta_max_deg"`
		OmegaMaxDegS float64 `yaml:"omega_max_deg_s"`
	} `yaml:"controller"`

	Tgo struct {
		Mode         string  `yaml:"mode"`
		InitS        float64 `yaml:"init_s"`
		ThrustMul    float64 `yaml:"thrust_mul"`
		StopS        float64 `yaml:"stop_s"`
	} `yaml:"tgo"`

	GuidanceProfile string `yaml:"guidance_profile"`
	ControlProfile  string `yaml:"control_profile"`

	DtStepS  float64 `yaml:"dt_step_s"`
	DtSleepS float64 `yaml:"dt_sleep_s"`
	LogLevel string  `yaml:"log_level"`
}

// Scenario is the immutable, validated, fully-derived run configuration.
type Scenario struct {
	Body body.Body

	InitPos      units.Vec2
	InitVel      units.Vec2
	InitAttitude units.Radians
	InitFuelKg   float64

	WidthM, HeightM float64
	DryMassKg       float64
	DragCoeff       float64
	ThrustN         float64
	IspS            float64
	MdotKgS         float64

	TargetAX, TargetAY float64
	TargetVX, TargetVY float64
	TargetPX, TargetPY float64

	TauS         float64
	ThetaMax     units.Radians
	OmegaMax     units.Radians // rad/s
	Kp, Kd       float64

	TgoMode       TgoMode
	TgoInitS      float64
	TgoThrustMul  float64
	TgoStopS      float64

	GuidanceProfile Profile
	ControlProfile  Profile

	DtStepS  float64
	DtSleepS float64
	LogLevel string
}

// Load reads, unmarshals, validates and derives a Scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	var raw Raw
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("scenario: parse %s: %w", path, err)
	}
	return fromRaw(raw)
}

func fromRaw(raw Raw) (*Scenario, error) {
	s := &Scenario{
		Body: body.Body{
			RadiusM:      raw.Body.RadiusM,
			MassKg:       raw.Body.MassKg,
			Mu:           raw.Body.Mu,
			RhoSeaLevel:  raw.Body.RhoSeaLevel,
			PressureSea:  raw.Body.PressureSea,
			ScaleHeightM: raw.Body.ScaleHeightM,
		},
		InitPos:      units.Vec2{X: raw.Initial.PosX, Y: raw.Initial.PosY},
		InitVel:      units.Vec2{X: raw.Initial.VelX, Y: raw.Initial.VelY},
		InitAttitude: units.Degrees(raw.Initial.AttitudeDeg).ToRadians(),
		InitFuelKg:   raw.Initial.FuelKg,

		WidthM:    raw.Vehicle.WidthM,
		HeightM:   raw.Vehicle.HeightM,
		DryMassKg: raw.Vehicle.DryMassKg,
		DragCoeff: raw.Vehicle.DragCoeff,
		ThrustN:   raw.Vehicle.ThrustN,
		IspS:      raw.Vehicle.IspS,
		MdotKgS:   raw.Vehicle.MdotKgS,

		TargetAX: raw.Target.AX, TargetAY: raw.Target.AY,
		TargetVX: raw.Target.VX, TargetVY: raw.Target.VY,
		TargetPX: raw.Target.PX, TargetPY: raw.Target.PY,

		TauS:     raw.Controller.TauS,
		ThetaMax: units.Degrees(raw.Controller.ThetaMaxDeg).ToRadians(),
		OmegaMax: units.Degrees(raw.Controller.OmegaMaxDegS).ToRadians(),

		TgoMode:      TgoMode(raw.Tgo.Mode),
		TgoInitS:     raw.Tgo.InitS,
		TgoThrustMul: raw.Tgo.ThrustMul,
		TgoStopS:     raw.Tgo.StopS,

		GuidanceProfile: Profile(raw.GuidanceProfile),
		ControlProfile:  Profile(raw.ControlProfile),

		DtStepS:  raw.DtStepS,
		DtSleepS: raw.DtSleepS,
		LogLevel: raw.LogLevel,
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	// k_p = 4.224639·τ^(−1.524106), k_d = −2.203941·τ^(−0.759514).
	s.Kp = 4.224639 * math.Pow(s.TauS, -1.524106)
	s.Kd = -2.203941 * math.Pow(s.TauS, -0.759514)

	return s, nil
}

func (s *Scenario) validate() error {
	switch s.TgoMode {
	case TgoGivenFixed, TgoEstimatedFixed, TgoEstimatedUpdating:
	default:
		return fmt.Errorf("invalid tgo mode %q", s.TgoMode)
	}
	switch s.GuidanceProfile {
	case ProfileDescent, ProfileAscentToOrbit, ProfileAscentToHover:
	default:
		return fmt.Errorf("invalid guidance profile %q", s.GuidanceProfile)
	}
	switch s.ControlProfile {
	case ProfileDescent, ProfileAscentToOrbit, ProfileAscentToHover:
	default:
		return fmt.Errorf("invalid control profile %q", s.ControlProfile)
	}
	if s.TgoThrustMul <= 0 || s.TgoThrustMul > 1 {
		return fmt.Errorf("tgo_thrust_mul must be in (0,1], got %v", s.TgoThrustMul)
	}
	if s.TauS <= 0 {
		return fmt.Errorf("controller.tau_s must be positive, got %v", s.TauS)
	}
	if s.ThetaMax <= 0 {
		return fmt.Errorf("controller.theta_max_deg must be positive")
	}
	if s.OmegaMax <= 0 {
		return fmt.Errorf("controller.omega_max_deg_s must be positive")
	}
	if s.DtStepS <= 0 {
		return fmt.Errorf("dt_step_s must be positive")
	}
	if s.ThrustN <= 0 || s.IspS <= 0 || s.MdotKgS <= 0 {
		return fmt.Errorf("vehicle thrust/isp/mdot must be positive")
	}
	if s.InitFuelKg < 0 {
		return fmt.Errorf("initial.fuel_kg must be non-negative")
	}
	return nil
}

// TotalInitialMassKg is the vehicle's wet mass at ignition.
func (s *Scenario) TotalInitialMassKg() float64 { return s.DryMassKg + s.InitFuelKg }
