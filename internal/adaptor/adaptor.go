// Package adaptor defines the sensor/actuator contract that both the
// internal rigid-body simulator and the external websocket bridge
// implement, abstracting "where state comes from" behind a small
// lifecycle plus read/write interface.
package adaptor

import (
	"errors"

	"github.com/PossumXI/Asgard/Selene/internal/scenario"
	"github.com/PossumXI/Asgard/Selene/internal/state"
	"github.com/PossumXI/Asgard/Selene/internal/units"
)

// ErrAdaptorFailure is returned when a sensor read or actuator write cannot
// complete. Always fatal: the core does not attempt to recover.
var ErrAdaptorFailure = errors.New("adaptor: failure")

// Sensors is one sample returned by read_sensors().
type Sensors struct {
	Dt       float64
	Acc      units.Vec2
	AngAcc   units.Radians
	Altitude *float64 // optional radar altimeter cross-check
}

// Actuators is the command written by write_actuators().
type Actuators struct {
	Throttle float64 // [0,1]
	Gimbal   float64 // [-1,+1]
}

// Adaptor is any sensor/actuator source: the internal simulator (closed loop)
// or the external game/physics-engine bridge (open loop). All calls are
// synchronous; a failure is native to the adaptor and terminates the run.
type Adaptor interface {
	ReadSensors() (Sensors, error)
	WriteActuators(Actuators) error
	ExportConfig() (*scenario.Scenario, error)
	ExportState() (state.SpacecraftState, error)
	Close() error
}
