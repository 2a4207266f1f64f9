package metricsapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Methdul/fitgym-pro-sub000/internal/lib/logger/sl"
)

type App struct {
	log               *slog.Logger
	server            *http.Server
	reg               *prometheus.Registry
	FailedPinsCounter *prometheus.CounterVec
}

func New(log *slog.Logger, port int) *App {
	reg := prometheus.NewRegistry()

	failedPins := promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "failed_pin_attempts_total",
		Help: "Total number of failed staff PIN verification attempts.",
	}, []string{"branch"})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		reg,
		promhttp.HandlerOpts{
			// Opt into OpenMetrics e.g. to support exemplars.
			EnableOpenMetrics: true,
		},
	))

	return &App{
		log:               log,
		reg:               reg,
		server:            &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux},
		FailedPinsCounter: failedPins,
	}
}

func (a *App) MustRun() {
	err := a.Run()
	if errors.Is(err, http.ErrServerClosed) {
		a.log.Info("Prometheus server closed", sl.Err(err))
	} else if err != nil {
		a.log.Error("Failed to start Prometheus", sl.Err(err))
		panic(err)
	}
}

func (a *App) Run() error {
	const op = "metricsapp.Run"
	log := a.log.With(slog.String("op", op), slog.String("addr", a.server.Addr))

	log.Info("exposing Prometheus metrics")

	return a.server.ListenAndServe()
}

func (a *App) Stop(ctx context.Context) error {
	const op = "metricsapp.Stop"
	a.log.With(slog.String("op", op)).Info("stopping metrics server")
	return a.server.Shutdown(ctx)
}
