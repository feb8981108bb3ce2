package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"schoolapi/docs"
	"schoolapi/internal/config"
	handlers "schoolapi/internal/http/handler"
	"schoolapi/internal/http/middleware"
	"schoolapi/internal/logger"
	"schoolapi/internal/otel"
	"schoolapi/internal/service"
	"schoolapi/internal/store"
)

// @title School API
// @version 1.0
// @description CRUD service for students and teachers backed by a document store.
// @BasePath /
func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// Used until the configured logger exists.
	bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		bootLog.Error().Err(err).Msg("failed to load config")
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		bootLog.Error().Err(err).Msg("failed to build logger")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, cfg.Tracing, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize tracing")
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error().Err(err).Msg("failed to flush traces")
		}
	}()

	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	app, err := newApp(cfg, st, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to build app")
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msgf("Server is running on port %s", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("failed to start server")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout()); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	return nil
}

func newApp(cfg *config.AppConfig, st *store.Store, log zerolog.Logger) (*fiber.App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, err
	}

	docs.SwaggerInfo.Host = cfg.AppHost

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	app.Use(middleware.CORS(cfg.CORS.PreflightStatus))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics"
	})))
	app.Use(middleware.Logger(log))
	app.Use(prom.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, handlers.Deps{
		Store:    st,
		Students: service.NewStudentService(st.Students),
		Teachers: service.NewTeacherService(st.Teachers),
		Log:      log,
		DocsHost: cfg.AppHost,
	})

	return app, nil
}
