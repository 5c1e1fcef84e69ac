// Package internal provides the application initialization and runtime logic
// for the build, serve, and mcp commands.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/dagaz/internal/index"
	"github.com/starford/dagaz/internal/mcpserver"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/server"
	"github.com/starford/dagaz/internal/site"
	"github.com/starford/dagaz/internal/sse"
	"github.com/starford/dagaz/internal/vault"
	"github.com/starford/dagaz/internal/watch"
)

func setup(opts []Option) (*application, *slog.Logger, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)

	return app, logger, nil
}

func (a *application) siteMeta() models.SiteMeta {
	return models.SiteMeta{
		Title:       a.config.Site.Title,
		Description: a.config.Site.Description,
		URL:         a.config.Site.URL,
		Logo:        a.config.Site.Logo,
		AuthorName:  a.config.Site.AuthorName,
		AuthorEmail: a.config.Site.AuthorEmail,
	}
}

func (a *application) newBuilder(v *vault.Vault, outputDir string, clean bool, logger *slog.Logger) (*site.Builder, error) {
	return site.NewBuilder(v, outputDir, a.config.Pages, a.siteMeta(), clean, logger)
}

// RunBuild generates the site once and exits.
func RunBuild(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger.Info("Configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("output_path", cfg.Output.Path),
		slog.Int("pages", len(cfg.Pages)))

	v, err := vault.New(cfg.Vault.Path, cfg.Vault.AttachmentsDir)
	if err != nil {
		return fmt.Errorf("open vault: %w", err)
	}

	builder, err := app.newBuilder(v, cfg.Output.Path, cfg.Output.Clean || app.clean, logger)
	if err != nil {
		return err
	}
	if _, err := builder.Build(); err != nil {
		return fmt.Errorf("build site: %w", err)
	}
	return nil
}

// RunServe builds the site, then serves it while watching the vault for
// changes; every settled change triggers an index resync and a rebuild.
func RunServe(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	v, err := vault.New(cfg.Vault.Path, cfg.Vault.AttachmentsDir)
	if err != nil {
		return fmt.Errorf("open vault: %w", err)
	}

	outputDir, err := filepath.Abs(cfg.Output.Path)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	// Rebuilds never clean: clearing the directory out from under the file
	// server would serve 404s mid-edit.
	builder, err := app.newBuilder(v, outputDir, false, logger)
	if err != nil {
		return err
	}

	if cfg.Output.Clean || app.clean {
		if err := os.RemoveAll(outputDir); err != nil {
			return fmt.Errorf("clean output dir: %w", err)
		}
	}
	pages, err := builder.Build()
	if err != nil {
		return fmt.Errorf("initial build: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer db.Close()

	if err := index.Sync(db, v, logger); err != nil {
		logger.Warn("initial index sync failed", slog.String("error", err.Error()))
	}

	broker := sse.NewBroker()
	defer broker.Close()

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: server.NewRouter(outputDir, db, broker, logger),
	}

	logger.Info("Preview server starting",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.Int("pages", len(pages)))

	// Signal delivery cancels the context; every goroutine below hangs off
	// gCtx, so shutdown reaches the watcher as well as the HTTP server.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	rebuild := func() {
		if err := index.Sync(db, v, logger); err != nil {
			logger.Warn("index sync failed", slog.String("error", err.Error()))
		}
		built, err := builder.Build()
		if err != nil {
			logger.Error("rebuild failed", slog.String("error", err.Error()))
			return
		}
		broker.PublishBuildFinished(len(built), len(cfg.Pages)-len(built))
	}

	g.Go(func() error {
		return watch.Watch(gCtx, v.Root(), outputDir, 250*time.Millisecond, logger, rebuild)
	})

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP syncs the index and serves the MCP tools over stdio.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	v, err := vault.New(cfg.Vault.Path, cfg.Vault.AttachmentsDir)
	if err != nil {
		return fmt.Errorf("open vault: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer db.Close()

	if err := index.Sync(db, v, logger); err != nil {
		logger.Warn("index sync failed", slog.String("error", err.Error()))
	}

	return mcpserver.New(v, db, cfg.Pages).ServeStdio()
}
