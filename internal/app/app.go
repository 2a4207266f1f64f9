package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	httpapp "github.com/Methdul/fitgym-pro-sub000/internal/app/httpserver"
	metricsapp "github.com/Methdul/fitgym-pro-sub000/internal/app/metrics"
	storageapp "github.com/Methdul/fitgym-pro-sub000/internal/app/storage"
	redisapp "github.com/Methdul/fitgym-pro-sub000/internal/app/storage/redis"
	"github.com/Methdul/fitgym-pro-sub000/internal/config"
	"github.com/Methdul/fitgym-pro-sub000/internal/http/handlers"
	"github.com/Methdul/fitgym-pro-sub000/internal/http/middleware"
	"github.com/Methdul/fitgym-pro-sub000/internal/kafka"
	"github.com/Methdul/fitgym-pro-sub000/internal/services/analytics"
	eventsender "github.com/Methdul/fitgym-pro-sub000/internal/services/event_sender"
	"github.com/Methdul/fitgym-pro-sub000/internal/services/members"
	"github.com/Methdul/fitgym-pro-sub000/internal/services/pinattempts"
	"github.com/Methdul/fitgym-pro-sub000/internal/services/staffauth"
	"github.com/Methdul/fitgym-pro-sub000/internal/storage/memory"
)

const (
	eventsLimit       = 100
	producingInterval = time.Millisecond * 1000
	shutdownTimeout   = 10 * time.Second
)

type App struct {
	log           *slog.Logger
	httpServer    *httpapp.App
	metrics       *metricsapp.App
	storage       *storageapp.App
	redisStorage  *redisapp.App
	eventSender   *eventsender.Sender
	tracker       *pinattempts.Tracker
	limiter       *middleware.RateLimiter
	sweepInterval time.Duration
	cancel        context.CancelFunc
}

func New(log *slog.Logger, cfg *config.Config) *App {
	metrics := metricsapp.New(log, cfg.Metrics.Port)
	storage := storageapp.MustCreateApp(cfg.Postgres.DSN, log)

	// Attempt state lives in Redis when a shared store is configured and in
	// process memory otherwise. The lockout duration doubles as the Redis TTL.
	var (
		attemptStore pinattempts.Store
		redisStorage *redisapp.App
	)
	if cfg.Redis.Enabled {
		redisStorage = redisapp.New(log, cfg.Redis.Addr, cfg.PinLimits.LockoutDuration)
		attemptStore = redisStorage.Storage
	} else {
		attemptStore = memory.New()
	}

	tracker := pinattempts.New(log, attemptStore,
		pinattempts.WithMaxAttempts(cfg.PinLimits.MaxAttempts),
		pinattempts.WithAttemptWindow(cfg.PinLimits.AttemptWindow),
		pinattempts.WithLockoutDuration(cfg.PinLimits.LockoutDuration),
	)

	kafkaPublisher := kafka.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	eventSender := eventsender.NewSender(log, kafkaPublisher, storage.Storage)

	authService := staffauth.New(
		log,
		storage.Storage,
		storage.Storage,
		storage.Storage,
		tracker,
		[]byte(cfg.Auth.Secret),
		cfg.Auth.TokenTTL,
		metrics.FailedPinsCounter,
	)
	memberService := members.New(
		log,
		storage.Storage,
		storage.Storage,
		storage.Storage,
		storage.Storage,
		storage.Storage,
	)
	analyticsService := analytics.New(log, storage.Storage)

	api := handlers.New(log, authService, memberService, analyticsService)
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	handler := http.Handler(mux)
	handler = limiter.Middleware()(handler)
	handler = middleware.Logging(log)(handler)
	handler = middleware.Recovery(log)(handler)

	httpServer := httpapp.New(log, cfg.HTTP.Port, cfg.HTTP.Timeout, handler)

	return &App{
		log:           log,
		httpServer:    httpServer,
		metrics:       metrics,
		storage:       storage,
		redisStorage:  redisStorage,
		eventSender:   eventSender,
		tracker:       tracker,
		limiter:       limiter,
		sweepInterval: cfg.PinLimits.SweepInterval,
	}
}

func (a *App) MustRun() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.limiter.StartJanitor(ctx)
	go a.runSweeper(ctx)
	go a.httpServer.MustRun()
	go a.metrics.MustRun()
	a.eventSender.StartProducing(ctx, eventsLimit, producingInterval)
}

// runSweeper periodically clears stale failed-PIN records; the tracker itself
// never schedules anything.
func (a *App) runSweeper(ctx context.Context) {
	if a.sweepInterval <= 0 {
		return
	}

	ticker := time.NewTicker(a.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.tracker.Sweep(ctx)
		}
	}
}

func (a *App) Stop() error {
	if a.cancel != nil {
		a.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		return err
	}
	if err := a.metrics.Stop(ctx); err != nil {
		return err
	}

	a.eventSender.StopSending()
	a.storage.Stop()

	if a.redisStorage != nil {
		return a.redisStorage.Stop()
	}
	return nil
}
