// Package main is the entry point for the SurrealDB-backed user registry. It
// wires all dependencies using samber/do v2, starts the background
// availability prober and the HTTP server, and handles graceful shutdown on
// SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	adapthttp "github.com/jsamuelsen11/user-registry/internal/adapters/http"
	"github.com/jsamuelsen11/user-registry/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/user-registry/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/user-registry/internal/adapters/notify"
	"github.com/jsamuelsen11/user-registry/internal/adapters/store/surreal"
	"github.com/jsamuelsen11/user-registry/internal/app"
	"github.com/jsamuelsen11/user-registry/internal/platform/availability"
	"github.com/jsamuelsen11/user-registry/internal/platform/config"
	"github.com/jsamuelsen11/user-registry/internal/platform/health"
	"github.com/jsamuelsen11/user-registry/internal/platform/httpclient"
	"github.com/jsamuelsen11/user-registry/internal/platform/logging"
	"github.com/jsamuelsen11/user-registry/internal/platform/telemetry"
	"github.com/jsamuelsen11/user-registry/internal/ports"
)

const (
	serviceName           = "user-registry-surreal"
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Store.Kind != config.StoreKindSurreal {
		return fmt.Errorf("store.kind must be %q for this binary, got %q", config.StoreKindSurreal, cfg.Store.Kind)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otelp, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	store, err := surreal.New(ctx, cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("connecting to surrealdb store: %w", err)
	}
	defer func() { _ = store.Close(context.Background()) }()

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otelp.metrics)
	do.ProvideValue[ports.UserStore](injector, store)

	registerDependencies(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	tracker := do.MustInvoke[*availability.Tracker](injector)
	prober := do.MustInvoke[*availability.Prober](injector)

	// Datastore availability drives readiness via the prober-backed checker.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	registry.Register(availability.NewChecker(prober, "datastore"))

	if _, err := availability.RegisterStatusGauge(
		otel.GetMeterProvider().Meter(serviceName), tracker,
	); err != nil {
		return fmt.Errorf("registering status gauge: %w", err)
	}

	// Background probe loop.
	probeCtx, stopProber := context.WithCancel(ctx)
	defer stopProber()
	go prober.Run(probeCtx)

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	logger.Info("service started",
		slog.String("service", serviceName),
		slog.String("addr", server.Addr()),
		slog.String("profile", profile),
	)

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests, then stop the probe loop.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	<-serverErr
	stopProber()

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otelp.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*availability.Tracker, error) {
		observers := []availability.TransitionFunc{availability.LogTransitions(logger)}

		if cfg.Notifier.BaseURL != "" {
			metrics := do.MustInvoke[*telemetry.Metrics](i)
			client := httpclient.New(&cfg.Notifier, "webhook", metrics, logger)
			webhook := notify.NewWebhook(client, serviceName, logger)
			observers = append(observers, webhook.Notify())
		}

		return availability.NewTracker(observers...), nil
	})

	do.Provide(injector, func(i do.Injector) (*availability.Prober, error) {
		store := do.MustInvoke[ports.UserStore](i)
		tracker := do.MustInvoke[*availability.Tracker](i)
		return availability.NewProber(store, tracker, cfg.Probe.Interval, cfg.Probe.Timeout, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*availability.Guard, error) {
		tracker := do.MustInvoke[*availability.Tracker](i)
		return availability.NewGuard(tracker, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.UserService, error) {
		store := do.MustInvoke[ports.UserStore](i)
		guard := do.MustInvoke[*availability.Guard](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return app.NewUserService(store, guard, metrics, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.UserHandler, error) {
		svc := do.MustInvoke[ports.UserService](i)
		return handlers.NewUserHandler(svc), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.StatusHandler, error) {
		svc := do.MustInvoke[ports.UserService](i)
		tracker := do.MustInvoke[*availability.Tracker](i)
		return handlers.NewStatusHandler(svc, tracker, serviceName), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		userH := do.MustInvoke[*handlers.UserHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		statusH := do.MustInvoke[*handlers.StatusHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(userH, healthH, statusH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
