// Package server initializes and runs the application: it wires the storage
// backends, services, and HTTP layer together, applies schema migrations,
// and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mlezhnev/moviehub/internal/logging"
	"github.com/mlezhnev/moviehub/internal/server/authz"
	"github.com/mlezhnev/moviehub/internal/server/config"
	"github.com/mlezhnev/moviehub/internal/server/repositories/repomanager"
	"github.com/mlezhnev/moviehub/internal/server/services"
	"github.com/mlezhnev/moviehub/internal/server/web"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	web    *web.Server
	db     *sql.DB
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	manager, db, err := repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := manager.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	credentials := services.NewCredentialService(manager.Users(), cfg.BcryptCost)
	sessions := services.NewSessionService(manager.Sessions(), cfg.SessionTTL, cfg.SessionTouchInterval)
	movies := services.NewMovieService(manager.Movies())
	guard := authz.NewGuard(sessions)

	renderer, err := web.NewHTMLRenderer()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	srv := web.NewServer(credentials, sessions, movies, guard, renderer,
		web.NewFlashSigner(cfg.FlashSecret), logger.With("module", "web"))

	return &App{config: cfg, logger: logger, web: srv, db: db}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.Addr,
		Handler: app.web.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting HTTP server", "address", app.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "Shutdown error", "error", err)
		}
		<-errCh
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.closeDB(ctx)
			return err
		}
	}

	app.closeDB(ctx)
	return nil
}

func (app *App) closeDB(ctx context.Context) {
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "Closing database", "error", err)
	}
}
