// Package app initializes and runs the main application service.
// It configures logging, storage, authentication, routing and the
// liveness sweeper, and handles graceful shutdown.
package app

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/patric-chuzhbe/linkwatch/internal/auth"
	"github.com/patric-chuzhbe/linkwatch/internal/config"
	"github.com/patric-chuzhbe/linkwatch/internal/db/jsondb"
	"github.com/patric-chuzhbe/linkwatch/internal/db/memorystorage"
	"github.com/patric-chuzhbe/linkwatch/internal/db/postgresdb"
	"github.com/patric-chuzhbe/linkwatch/internal/db/storage"
	"github.com/patric-chuzhbe/linkwatch/internal/logger"
	"github.com/patric-chuzhbe/linkwatch/internal/models"
	"github.com/patric-chuzhbe/linkwatch/internal/prober"
	"github.com/patric-chuzhbe/linkwatch/internal/registry"
	"github.com/patric-chuzhbe/linkwatch/internal/router"
	"github.com/patric-chuzhbe/linkwatch/internal/sweeper"
	"github.com/patric-chuzhbe/linkwatch/internal/view"
)

// App encapsulates the configuration, HTTP handler, storage backend and
// the background liveness sweeper needed to run the service.
type App struct {
	cfg         *config.Config
	db          storage.Storage
	sweeper     *sweeper.Sweeper
	stopSweeper context.CancelFunc
	httpHandler http.Handler
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - selecting and setting up storage
// - starting the background liveness sweeper
// - setting up the router and middleware
func New() (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app.db, err = getStorageByType(app.cfg)
	if err != nil {
		return nil, err
	}

	authCookieSigningSecretKey, err := base64.URLEncoding.DecodeString(app.cfg.AuthCookieSigningSecretKey)
	if err != nil {
		return nil, err
	}

	linkProber := prober.New(app.cfg.ProbeTimeout)

	app.sweeper = sweeper.New(app.db, linkProber, app.cfg.SweepInterval)
	sweeperRunCtx, stopSweeper := context.WithCancel(context.Background())
	app.stopSweeper = stopSweeper

	app.sweeper.Run(sweeperRunCtx)
	app.sweeper.ListenErrors(func(err error) {
		logger.Log.Errorln("sweep tick aborted:", zap.Error(err))
	})

	views, err := view.New()
	if err != nil {
		return nil, err
	}

	app.httpHandler = router.New(
		registry.New(app.db, linkProber),
		auth.New(
			app.db,
			app.cfg.AuthCookieName,
			authCookieSigningSecretKey,
			app.cfg.AuthTokenTTL,
		),
		views,
	)

	return app, nil
}

// Run starts the HTTP server with graceful shutdown support.
// It listens for system signals and cleans up resources upon termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Saving database and exiting...")
		a.stopSweeper()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.db.Close()

	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.DatabaseDSN != "" {
		return models.StorageTypePostgresql
	}

	if cfg.DBFileName != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypeMemory
}

func getStorageByType(cfg *config.Config) (storage.Storage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypeUnknown:
		return nil, errors.New("unknown storage type")

	case models.StorageTypePostgresql:
		return postgresdb.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
			cfg.MigrationsDir,
		)

	case models.StorageTypeFile:
		return jsondb.New(cfg.DBFileName)
	}

	return memorystorage.New()
}
