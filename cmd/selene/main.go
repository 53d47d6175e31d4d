// SELENE - 2-D lander/ascent GNC core
//
// Sequences NAV -> GUI -> CTR -> Actuators each fixed time step against
// either the internal rigid-body simulator or an external game/physics
// engine reached over a websocket bridge.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PossumXI/Asgard/Selene/internal/adaptor"
	"github.com/PossumXI/Asgard/Selene/internal/adaptor/ksp"
	"github.com/PossumXI/Asgard/Selene/internal/httpapi"
	"github.com/PossumXI/Asgard/Selene/internal/loop"
	"github.com/PossumXI/Asgard/Selene/internal/scenario"
	"github.com/PossumXI/Asgard/Selene/internal/selenelog"
	"github.com/PossumXI/Asgard/Selene/internal/sim"
	"github.com/PossumXI/Asgard/Selene/internal/state"
	"github.com/PossumXI/Asgard/Selene/internal/telemetry/metrics"
	"github.com/PossumXI/Asgard/Selene/internal/telemetry/tracing"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

var (
	configPath  = flag.String("config", "configs/scenario.yaml", "Scenario YAML file path")
	httpPort    = flag.Int("http-port", 0, "Status HTTP port, 0 disables it")
	metricsPort = flag.Int("metrics-port", 0, "Prometheus metrics port, 0 disables it")
	enableTrace = flag.Bool("trace", false, "Emit OpenTelemetry spans to stdout")
	kspAddr     = flag.String("ksp-addr", "localhost:27015", "host:port of the external bridge, ksp mode only")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	args := flag.Args()
	if len(args) != 1 || (args[0] != "sim" && args[0] != "ksp") {
		fmt.Fprintln(os.Stderr, "usage: selene [--config PATH] (sim|ksp)")
		return 2
	}
	mode := args[0]

	sc, err := scenario.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	switch mode {
	case "sim":
		sc.DtSleepS = 0
	case "ksp":
		sc.DtSleepS = 0.1
	}

	log := selenelog.New(sc.LogLevel, "stdout")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	shutdownTracing, err := tracing.Setup(ctx, *enableTrace)
	if err != nil {
		log.Warnf("tracing setup failed: %v", err)
		shutdownTracing = func(context.Context) error { return nil }
	}
	defer shutdownTracing(context.Background())

	var a adaptor.Adaptor
	internal := mode == "sim"
	if internal {
		a = sim.New(sc)
	} else {
		bridge, err := ksp.Dial(*kspAddr, sc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "adaptor failure: %v\n", err)
			return 1
		}
		a = bridge
	}
	defer a.Close()

	status := httpapi.NewServer()
	if *httpPort != 0 {
		srv := &http.Server{Addr: fmt.Sprintf(":%d", *httpPort), Handler: status.Router()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("status http server: %v", err)
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}
	if *metricsPort != 0 {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(fmt.Sprintf(":%d", *metricsPort), mux); err != nil {
				log.Warnf("metrics http server: %v", err)
			}
		}()
	}

	m := metrics.Get()
	var limiter *rate.Limiter
	if sc.DtSleepS > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Duration(sc.DtSleepS*float64(time.Second))), 1)
	}

	var driver *loop.Driver
	driver = &loop.Driver{
		Scenario: sc,
		Adaptor:  a,
		Internal: internal,
		Log:      log,
		OnStep: func(s state.SpacecraftState) {
			status.Update(s)
			m.StepsTotal.Inc()
			m.AltitudeM.Set(s.Pos.Y)
			m.VelocityXMPS.Set(s.Vel.X)
			m.VelocityYMPS.Set(s.Vel.Y)
			m.FuelFraction.Set(s.FuelMassKg / sc.InitFuelKg)
			m.Throttle.Set(s.EngThrottle)
			m.Gimbal.Set(s.EngGimbal)
			m.TgoSeconds.Set(driver.TgoS())
			if limiter != nil {
				limiter.Wait(context.Background())
			}
		},
	}

	result, err := driver.Run(ctx)
	if err != nil {
		log.Errorf("loop terminated: %v", err)
		return 1
	}

	m.LandingsTotal.WithLabelValues(string(result.Outcome)).Inc()
	log.WithField("outcome", result.Outcome).WithField("steps", result.Steps).Info("run complete")

	return 0
}
