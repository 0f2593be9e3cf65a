// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/vibecard/internal/api"
	"github.com/starford/vibecard/internal/cardservice"
	"github.com/starford/vibecard/internal/mcpserver"
	"github.com/starford/vibecard/internal/message"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev"}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// NewHTTPHandler builds the root router: health probes plus the card API
// mounted under /api.
func NewHTTPHandler(svc *cardservice.Service, auth AuthConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", api.NewRouter(svc, auth.AuthEnabled(), auth.Token))
	return r
}

// watchPrompts starts the prompt reloader when a prompts file is configured.
func watchPrompts(ctx context.Context, g *errgroup.Group, cfg ProviderConfig, prompts *message.Prompts, logger *slog.Logger) {
	if cfg.PromptsPath == "" {
		return
	}
	g.Go(func() error {
		if err := message.WatchPrompts(ctx, prompts, cfg.PromptsPath, logger); err != nil {
			// Serving continues with the prompts already loaded.
			logger.Warn("prompts watcher unavailable", slog.String("error", err.Error()))
		}
		return nil
	})
}

// Run starts the HTTP API with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	out := app.logOutput
	if out == nil {
		out = os.Stdout
	}
	logger := NewLogger(cfg, out)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("share_base_url", cfg.Share.BaseURL),
		slog.String("provider_mode", cfg.Provider.Mode),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, prompts, err := NewCardService(ctx, cfg, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           NewHTTPHandler(svc, cfg.Auth),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	watchPrompts(gCtx, g, cfg.Provider, prompts, logger)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Stops the prompts watcher when shutdown came from a signal.
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools over stdio. Logs go to stderr.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	out := app.logOutput
	if out == nil {
		out = os.Stderr
	}
	logger := NewLogger(cfg, out)
	slog.SetDefault(logger)

	svc, prompts, err := NewCardService(ctx, cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	watchPrompts(gCtx, g, cfg.Provider, prompts, logger)

	g.Go(func() error {
		logger.Info("Starting MCP server on stdio", slog.String("provider_mode", cfg.Provider.Mode))
		srv := mcpserver.New(svc, app.version)
		err := srv.ServeStdio(gCtx, log.New(out, "mcp: ", log.LstdFlags))
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP server error: %w", err)
		}
		// stdin closed: stop the watcher too.
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("MCP server stopped")
	return nil
}
