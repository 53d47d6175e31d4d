// Package metrics exposes Prometheus instrumentation for the GNC loop: the
// handful of gauges and counters a single-vehicle lander or ascent run
// produces.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the GNC loop's Prometheus instruments.
type Metrics struct {
	StepsTotal    prometheus.Counter
	AltitudeM     prometheus.Gauge
	VelocityXMPS  prometheus.Gauge
	VelocityYMPS  prometheus.Gauge
	FuelFraction  prometheus.Gauge
	Throttle      prometheus.Gauge
	Gimbal        prometheus.Gauge
	TgoSeconds    prometheus.Gauge
	LandingsTotal *prometheus.CounterVec
}

var (
	global     *Metrics
	globalOnce sync.Once
)

// Get returns the process-wide Metrics instance, registering it with the
// default registry on first use.
func Get() *Metrics {
	globalOnce.Do(func() {
		global = &Metrics{
			StepsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "selene", Name: "steps_total", Help: "Completed GNC loop steps.",
			}),
			AltitudeM: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "selene", Name: "altitude_meters", Help: "Current altitude above the surface.",
			}),
			VelocityXMPS: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "selene", Name: "velocity_x_mps", Help: "Current horizontal velocity.",
			}),
			VelocityYMPS: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "selene", Name: "velocity_y_mps", Help: "Current vertical velocity.",
			}),
			FuelFraction: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "selene", Name: "fuel_fraction", Help: "Remaining propellant, 0-1.",
			}),
			Throttle: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "selene", Name: "engine_throttle", Help: "Commanded throttle, 0-1.",
			}),
			Gimbal: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "selene", Name: "engine_gimbal", Help: "Commanded gimbal, normalised to theta_max.",
			}),
			TgoSeconds: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "selene", Name: "tgo_seconds", Help: "Current time-to-go estimate.",
			}),
			LandingsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "selene", Name: "landings_total", Help: "Terminal outcomes by classification.",
			}, []string{"outcome"}),
		}
	})
	return global
}
