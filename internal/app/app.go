package app

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vadim/slack-threads/internal/config"
	httpcontroller "github.com/vadim/slack-threads/internal/controller/http"
	"github.com/vadim/slack-threads/internal/domain/conversation/policy"
	"github.com/vadim/slack-threads/internal/domain/conversation/service"
	"github.com/vadim/slack-threads/internal/httpx/cors"
	"github.com/vadim/slack-threads/internal/httpx/response"
	"github.com/vadim/slack-threads/internal/httpx/upstream/slack"
)

//go:embed openapi.yaml
var OpenAPISpec []byte

// App is the main application container
type App struct {
	cfg        config.Config
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger

	conversationPolicy *policy.Policy
}

// NewApp creates and initializes the application
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	logger := NewLogger(cfg)
	slog.SetDefault(logger)

	// Initialize router with middleware
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors.Handler)
	if cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}

	app := &App{
		cfg:    cfg,
		router: r,
		logger: logger,
	}

	if err := app.initDomains(ctx); err != nil {
		return nil, fmt.Errorf("initializing domains: %w", err)
	}

	if err := app.registerRoutes(); err != nil {
		return nil, fmt.Errorf("registering routes: %w", err)
	}

	app.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      app.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// NewLogger returns a JSON logger in production and a text logger in development
func NewLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.IsDevelopment() {
		opts.Level = slog.LevelDebug
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// initDomains initializes domain layers (client, service, policy)
func (a *App) initDomains(_ context.Context) error {
	slackClient := slack.New(
		slack.WithBaseURL(a.cfg.Slack.BaseURL),
		slack.WithTimeout(a.cfg.Slack.Timeout),
		slack.WithRateLimit(a.cfg.Slack.RateLimitPerMinute),
		slack.WithLogger(a.logger),
	)

	if a.cfg.Slack.UserToken == "" {
		a.logger.Warn("SLACK_USER_TOKEN is not set, conversation requests will fail with 500")
	}

	convService := service.New(slackClient)
	a.conversationPolicy = policy.New(convService, policy.StaticToken(a.cfg.Slack.UserToken))

	return nil
}

// registerRoutes registers all HTTP routes
func (a *App) registerRoutes() error {
	a.router.Get("/healthz", a.healthHandler)
	a.router.Get("/readyz", a.readyHandler)

	swaggerHandler, err := httpcontroller.NewSwaggerHandler("Slack Conversations API", OpenAPISpec)
	if err != nil {
		return err
	}
	swaggerHandler.RegisterRoutes(a.router)

	convHandler := httpcontroller.NewConversationHandler(a.conversationPolicy, a.logger)
	convHandler.RegisterRoutes(a.router, a.cfg.Endpoint.Paths()...)

	return nil
}

// Handler returns the root HTTP handler
func (a *App) Handler() http.Handler {
	return a.router
}

// healthHandler handles health check requests
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// readyHandler reports ready only when a Slack token is configured
func (a *App) readyHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.conversationPolicy.Authorize(r.Context()); err != nil {
		response.Error(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	response.OK(w, map[string]string{"status": "ready"})
}

// Run starts the application and blocks until shutdown signal
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", "addr", a.cfg.Server.Address())
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info("context cancelled")
	}

	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}

	a.logger.Info("shutdown complete")
	return nil
}
