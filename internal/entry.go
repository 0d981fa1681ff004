// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/jotpad/internal/api"
	"github.com/starford/jotpad/internal/idgen"
	"github.com/starford/jotpad/internal/mcpserver"
	"github.com/starford/jotpad/internal/noteservice"
	"github.com/starford/jotpad/internal/notestore"
	"github.com/starford/jotpad/internal/reload"
	"github.com/starford/jotpad/internal/sse"
	pkgconfig "github.com/starford/jotpad/pkg/config"
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

// newLogger builds the JSON logger. The returned LevelVar lets the config
// watcher change the level at runtime.
func newLogger(w io.Writer, level slog.Level) (*slog.Logger, *slog.LevelVar) {
	lv := new(slog.LevelVar)
	lv.Set(level)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lv})), lv
}

func newIDGenerator(cfg IDConfig) idgen.Generator {
	if cfg.Strategy == IDStrategySequence {
		return idgen.NewSequence(cfg.Start)
	}
	return idgen.NewClock()
}

// reloadLevel re-reads the config file and applies its log level.
func reloadLevel(path string, lv *slog.LevelVar) reload.ApplyFunc {
	return func() error {
		next := NewDefaultConfig()
		if err := pkgconfig.Load(path, next); err != nil {
			return err
		}
		lv.Set(next.App.LogLevel)
		return nil
	}
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger, level := newLogger(os.Stdout, cfg.App.LogLevel)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("id_strategy", cfg.IDs.Strategy),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := notestore.Open(ctx, cfg.Store.Driver)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer store.Close()

	broker := sse.NewBroker(cfg.Events.ListThrottle)
	defer broker.Close()

	svc := noteservice.NewService(store,
		noteservice.WithIDGenerator(newIDGenerator(cfg.IDs)),
		noteservice.WithNotifier(broker),
		noteservice.WithLogger(logger),
	)

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

	r.Mount("/api", api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if app.configPath != "" {
		if _, statErr := os.Stat(app.configPath); statErr == nil {
			g.Go(func() error {
				if err := reload.Watch(gCtx, app.configPath, reload.DefaultDebounce, logger, reloadLevel(app.configPath, level)); err != nil {
					logger.Warn("config watcher disabled", slog.String("error", err.Error()))
				}
				return nil
			})
		}
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

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
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the config watcher exits with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools over stdin/stdout. Logs go to stderr so they
// do not corrupt the protocol stream.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger, _ := newLogger(os.Stderr, cfg.App.LogLevel)
	slog.SetDefault(logger)

	store, err := notestore.Open(ctx, cfg.Store.Driver)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer store.Close()

	svc := noteservice.NewService(store,
		noteservice.WithIDGenerator(newIDGenerator(cfg.IDs)),
		noteservice.WithLogger(logger),
	)

	logger.Info("MCP server starting on stdio", slog.String("store_driver", cfg.Store.Driver))
	return mcpserver.New(svc, app.version).ServeStdio()
}
