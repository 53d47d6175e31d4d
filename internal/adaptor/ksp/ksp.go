// Package ksp implements the external remote-procedure bridge adaptor: an
// opaque sensor/actuator source driven over a websocket connection to a
// third-party game/physics engine, one JSON text frame per call.
package ksp

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/PossumXI/Asgard/Selene/internal/adaptor"
	"github.com/PossumXI/Asgard/Selene/internal/scenario"
	"github.com/PossumXI/Asgard/Selene/internal/state"
	"github.com/PossumXI/Asgard/Selene/internal/units"
	"github.com/gorilla/websocket"
)

// Bridge is a websocket-backed adaptor.Adaptor talking to an external
// game/physics engine. All calls are synchronous round trips; a failed
// dial, write, read, or decode is an adaptor failure and is fatal.
type Bridge struct {
	conn *websocket.Conn
	sc   *scenario.Scenario
}

type request struct {
	Op       string             `json:"op"`
	Throttle float64            `json:"throttle,omitempty"`
	Gimbal   float64            `json:"gimbal,omitempty"`
}

type sensorResponse struct {
	Dt       float64  `json:"dt"`
	Acc      vec2JSON `json:"acc"`
	AngAcc   float64  `json:"ang_acc"`
	Altitude *float64 `json:"altitude,omitempty"`
}

type stateResponse struct {
	T          float64  `json:"t"`
	Pos        vec2JSON `json:"pos"`
	Vel        vec2JSON `json:"vel"`
	AngPos     float64  `json:"ang_pos"`
	FuelMassKg float64  `json:"fuel_mass_kg"`
}

type vec2JSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dial connects to the external bridge at addr (e.g. "localhost:27015") and
// returns a ready-to-use Bridge scoped to sc.
func Dial(addr string, sc *scenario.Scenario) (*Bridge, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/gnc"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", adaptor.ErrAdaptorFailure, addr, err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return &Bridge{conn: conn, sc: sc}, nil
}

func (b *Bridge) roundTrip(req request, out interface{}) error {
	if err := b.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("%w: write %s: %v", adaptor.ErrAdaptorFailure, req.Op, err)
	}
	b.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := b.conn.ReadJSON(out); err != nil {
		return fmt.Errorf("%w: read %s: %v", adaptor.ErrAdaptorFailure, req.Op, err)
	}
	return nil
}

// ReadSensors requests one sensor sample from the external engine.
func (b *Bridge) ReadSensors() (adaptor.Sensors, error) {
	var resp sensorResponse
	if err := b.roundTrip(request{Op: "read_sensors"}, &resp); err != nil {
		return adaptor.Sensors{}, err
	}
	return adaptor.Sensors{
		Dt:       resp.Dt,
		Acc:      toVec2(resp.Acc),
		AngAcc:   radiansOf(resp.AngAcc),
		Altitude: resp.Altitude,
	}, nil
}

// WriteActuators sends a throttle/gimbal command to the external engine.
func (b *Bridge) WriteActuators(cmd adaptor.Actuators) error {
	var ack struct {
		OK bool `json:"ok"`
	}
	err := b.roundTrip(request{Op: "write_actuators", Throttle: cmd.Throttle, Gimbal: cmd.Gimbal}, &ack)
	if err == nil && !ack.OK {
		return fmt.Errorf("%w: write_actuators rejected by bridge", adaptor.ErrAdaptorFailure)
	}
	return err
}

// ExportConfig returns the scenario the bridge was dialed with; the external
// engine is not asked to echo it back, it is a pass-through for the loop
// driver's configuration export step.
func (b *Bridge) ExportConfig() (*scenario.Scenario, error) { return b.sc, nil }

// ExportState requests the engine's current ground-truth state, used
// informationally since invariants are not enforced against an external
// plant.
func (b *Bridge) ExportState() (state.SpacecraftState, error) {
	var resp stateResponse
	if err := b.roundTrip(request{Op: "export_state"}, &resp); err != nil {
		return state.SpacecraftState{}, err
	}
	return state.SpacecraftState{
		T:          resp.T,
		Pos:        toVec2(resp.Pos),
		Vel:        toVec2(resp.Vel),
		AngPos:     radiansOf(resp.AngPos),
		FuelMassKg: resp.FuelMassKg,
	}, nil
}

// Close shuts down the websocket connection.
func (b *Bridge) Close() error {
	if b.conn == nil {
		return nil
	}
	return b.conn.Close()
}

func toVec2(v vec2JSON) units.Vec2 { return units.Vec2{X: v.X, Y: v.Y} }

func radiansOf(x float64) units.Radians { return units.Radians(x) }
