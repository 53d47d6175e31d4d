package ksp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PossumXI/Asgard/Selene/internal/adaptor"
	"github.com/PossumXI/Asgard/Selene/internal/scenario"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

// engineHandler stands in for the external game/physics engine: it answers
// read_sensors and write_actuators with canned responses so the Bridge's wire
// framing can be exercised without a real bridge. When reject is true,
// write_actuators always nacks, to exercise the Bridge's error path.
func engineHandler(t *testing.T, reject bool) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			var req request
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			switch req.Op {
			case "read_sensors":
				conn.WriteJSON(sensorResponse{Dt: 0.1, Acc: vec2JSON{X: 1.5, Y: -0.2}, AngAcc: 0.01})
			case "write_actuators":
				conn.WriteJSON(map[string]bool{"ok": !reject})
			default:
				conn.WriteJSON(map[string]string{"error": "unknown op"})
			}
		}
	}
}

func dialTestServer(t *testing.T, handler http.HandlerFunc) (*Bridge, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/gnc"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	return &Bridge{conn: conn, sc: &scenario.Scenario{}}, srv
}

func TestBridgeRoundTripsReadSensorsAndWriteActuators(t *testing.T) {
	b, srv := dialTestServer(t, engineHandler(t, false))
	defer srv.Close()
	defer b.Close()

	sensors, err := b.ReadSensors()
	if err != nil {
		t.Fatalf("ReadSensors() error = %v", err)
	}
	if sensors.Dt != 0.1 || sensors.Acc.X != 1.5 {
		t.Errorf("ReadSensors() = %+v, want dt=0.1 acc.x=1.5", sensors)
	}

	if err := b.WriteActuators(adaptor.Actuators{Throttle: 0.5, Gimbal: 0.1}); err != nil {
		t.Errorf("WriteActuators() error = %v", err)
	}
}

func TestBridgeWriteActuatorsRejectedByEngine(t *testing.T) {
	b, srv := dialTestServer(t, engineHandler(t, true))
	defer srv.Close()
	defer b.Close()

	err := b.WriteActuators(adaptor.Actuators{Throttle: 0.5, Gimbal: 0.1})
	if err == nil {
		t.Error("WriteActuators() with rejecting engine: want error, got nil")
	}
}

func TestBridgeExportConfigIsPassThrough(t *testing.T) {
	sc := &scenario.Scenario{TgoInitS: 42}
	b := &Bridge{sc: sc}
	got, err := b.ExportConfig()
	if err != nil {
		t.Fatalf("ExportConfig() error = %v", err)
	}
	if got != sc {
		t.Errorf("ExportConfig() = %p, want %p (same scenario, no round trip)", got, sc)
	}
}
