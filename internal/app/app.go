package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"gamelens/internal/analytics"
	"gamelens/internal/config"
	"gamelens/internal/errors"
	"gamelens/internal/infrastructure"
	customMiddleware "gamelens/internal/middleware"
	"gamelens/internal/services"
	"gamelens/internal/store"
	handlers "gamelens/internal/transport/http"
)

const (
	// Version is the application version, overridable at build time.
	Version = "1.0.0"
	AppName = "GameLens"
)

// Application wires the dataset repository, the analytics service and the
// HTTP transport together.
type Application struct {
	Config     *config.Config
	Router     *chi.Mux
	Server     *http.Server
	Repository *store.Repository
	Analytics  *services.AnalyticsService
	Metrics    *infrastructure.Metrics
	Logger     *slog.Logger
}

// NewApplication creates a new application instance with dependency injection.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("dataset_dir", cfg.GetDatasetDir()))

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: infrastructure.NewMetrics(),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the repository and the analytics service.
func (a *Application) initializeServices() {
	a.Repository = store.NewWithLogger(a.Config.GetDatasetDir(), a.Logger)

	source := &instrumentedSource{repo: a.Repository, metrics: a.Metrics}
	a.Analytics = services.NewAnalyticsServiceWithLogger(source, a.Logger)
}

// instrumentedSource reports dataset gauge and reload counts while delegating
// to the repository.
type instrumentedSource struct {
	repo    *store.Repository
	metrics *infrastructure.Metrics
}

func (s *instrumentedSource) All(ctx context.Context) ([]analytics.GameRecord, error) {
	records, err := s.repo.All(ctx)
	if err == nil {
		s.metrics.DatasetRecords.Set(float64(len(records)))
	}
	return records, err
}

func (s *instrumentedSource) Reload(ctx context.Context) ([]analytics.GameRecord, error) {
	records, err := s.repo.Reload(ctx)
	if err == nil {
		s.metrics.DatasetRecords.Set(float64(len(records)))
		s.metrics.DatasetReloads.Inc()
	}
	return records, err
}

// setupRouter configures the HTTP router with all routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.Metrics(a.Metrics))
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	a.setupAPIRoutes(r)

	// Metrics endpoint stays outside the JSON content-type group
	r.Handle("/metrics", a.Metrics.Handler())

	a.Router = r
}

// setupAPIRoutes configures API endpoints.
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		errorHandler := errors.NewErrorHandler(a.Logger, false)

		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(customMiddleware.NewValidationMiddleware(a.Logger, errorHandler).ValidateRequest)

		healthHandler := handlers.NewHealthHandler(a.Repository, a.Logger, Version)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		// Mounted at the group root; explicit routes above keep precedence
		analyticsHandler := handlers.NewAnalyticsHandler(a.Analytics, a.Logger, errorHandler)
		r.Mount("/", analyticsHandler.Routes())
	})
}

// getCORSConfig returns CORS configuration from the security settings.
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}
}

// createServer creates the HTTP server.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the HTTP server and warms the dataset cache.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	// Warm the cache so the first request doesn't pay the load cost.
	// A missing dataset directory is fatal; the server is useless without it.
	records, err := a.Repository.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	a.Metrics.DatasetRecords.Set(float64(len(records)))
	a.Logger.InfoContext(ctx, "Dataset ready",
		slog.String("dir", a.Repository.Dir()),
		slog.Int("records", len(records)))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return nil
}

// Stop gracefully stops the application.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "Error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
