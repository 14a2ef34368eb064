package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jomkit/KitchenSync/internal/auth"
	"github.com/Jomkit/KitchenSync/internal/config"
	"github.com/Jomkit/KitchenSync/internal/event"
	handler "github.com/Jomkit/KitchenSync/internal/handler/http"
	"github.com/Jomkit/KitchenSync/internal/notify"
	"github.com/Jomkit/KitchenSync/internal/params"
	"github.com/Jomkit/KitchenSync/internal/repository/postgres"
	"github.com/Jomkit/KitchenSync/internal/service"
	"github.com/Jomkit/KitchenSync/migrations"
	"github.com/Jomkit/KitchenSync/pkg/database"
	"github.com/Jomkit/KitchenSync/pkg/health"
	pkgkafka "github.com/Jomkit/KitchenSync/pkg/kafka"
	"github.com/Jomkit/KitchenSync/pkg/middleware"
	"github.com/Jomkit/KitchenSync/pkg/tracing"
)

// App wires together all dependencies and runs the service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	producer       *pkgkafka.Producer
	hub            *notify.Hub
	reservations   *service.ReservationService
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "kitchensync",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		URL:             cfg.PostgresDSN(),
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL")
	database.RegisterPoolMetrics(pool, "kitchensync")
	database.SetSlowQueryLogging(time.Duration(cfg.DBSlowQueryThresholdMs)*time.Millisecond, logger)

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Kafka is optional; without it domain events are dropped.
	var producer *pkgkafka.Producer
	if cfg.KafkaEnabled {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		producer = pkgkafka.NewProducer(kafkaCfg, logger)
		if err := producer.Ping(ctx); err != nil {
			logger.Warn("kafka producer ping failed, continuing in degraded mode",
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
		}
	}

	// Build the dependency graph.
	registry := params.New(cfg.ReservationTTLSeconds, cfg.ReservationWarningSeconds)
	hub := notify.NewHub(logger)
	eventProducer := event.NewProducer(producer, logger)

	ingredientRepo := postgres.NewIngredientRepository(pool)
	menuRepo := postgres.NewMenuRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	tokens := auth.NewManager(cfg.JWTSecretKey, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	authService := service.NewAuthService(userRepo, tokens, logger)
	inventoryService := service.NewInventoryService(pool, ingredientRepo, menuRepo, hub, eventProducer, logger)
	reservationService := service.NewReservationService(pool, registry, hub, eventProducer, logger)

	// Health checks. Kafka is optional, so its check only degrades the
	// readiness report instead of taking the service out of rotation.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", producer.Ping)
	}

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		AuthService:        authService,
		InventoryService:   inventoryService,
		ReservationService: reservationService,
		Params:             registry,
		Hub:                hub,
		Tokens:             tokens,
		Health:             healthHandler,
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		InternalSecret: cfg.InternalExpireSecret,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		producer:       producer,
		hub:            hub,
		reservations:   reservationService,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and background jobs, then blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if a.shouldRunExpirationJob() {
		go a.runExpirationSweep(ctx)
	} else {
		a.logger.Info("expiration sweep disabled")
	}

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// shouldRunExpirationJob reports whether the in-process sweep should run.
// Tests drive expiry through the internal endpoint instead.
func (a *App) shouldRunExpirationJob() bool {
	return a.cfg.EnableExpirationJob && !a.cfg.IsTest()
}

// runExpirationSweep periodically flips overdue active reservations to
// expired.
func (a *App) runExpirationSweep(ctx context.Context) {
	interval := time.Duration(a.cfg.ExpirationIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.logger.Info("expiration sweep started", slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, err := a.reservations.ExpireOverdue(ctx)
			if err != nil {
				a.logger.Error("expiration sweep error", slog.String("error", err.Error()))
			} else if expired > 0 {
				a.logger.Info("expired overdue reservations", slog.Int("expired", expired))
			}
		}
	}
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer
// 4. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// 1. Drain in-flight HTTP requests, 5s at most.
	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 2. Flush pending spans after HTTP drain so in-flight request spans are captured.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// 3. Close Kafka producer.
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// 4. Close PostgreSQL pool.
	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
