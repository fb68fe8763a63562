// Package server wires the stores, the sync handler and the HTTP front
// together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/tasksync/internal/common"
	"github.com/dmitrijs2005/tasksync/internal/filex"
	"github.com/dmitrijs2005/tasksync/internal/logging"
	"github.com/dmitrijs2005/tasksync/internal/server/api"
	"github.com/dmitrijs2005/tasksync/internal/server/broadcast"
	"github.com/dmitrijs2005/tasksync/internal/server/config"
	"github.com/dmitrijs2005/tasksync/internal/server/credentials"
	"github.com/dmitrijs2005/tasksync/internal/server/registry"
	"github.com/dmitrijs2005/tasksync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tasksync/internal/server/sessions"
	"github.com/dmitrijs2005/tasksync/internal/server/tasks"
	"github.com/dmitrijs2005/tasksync/internal/server/ws"
)

// openDB is a seam for tests.
var openDB = repomanager.Open

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	credentials *credentials.Store
	sessions    *sessions.Manager
	tasks       *tasks.Store
	sync        *ws.Handler
}

func NewApp(c *config.Config) (*App, error) {
	return newApp(context.Background(), c, logging.NewJSONLogger(os.Stdout, c.LogLevel))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	if c.SecretKey == "" {
		key, err := common.MakeRandHexString(common.HashSize)
		if err != nil {
			return nil, fmt.Errorf("generate cookie secret: %w", err)
		}
		c.SecretKey = key
		logger.Info(ctx, "no secret key configured, sessions are signed with a random key")
	}

	var (
		credOpts []credentials.Option
		taskOpts []tasks.Option
	)

	if c.DatabaseDSN != "" {
		db, err := openDB(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}

		rm := repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db migration error: %w", err)
		}

		app.db = db
		credOpts = append(credOpts, credentials.WithRepository(rm.Users(db)))
		taskOpts = append(taskOpts, tasks.WithPersister(tasks.NewDBPersister(db, rm)))
	}

	app.credentials = credentials.NewStore(credOpts...)
	app.tasks = tasks.NewStore(taskOpts...)
	app.sessions = sessions.NewManager()

	if err := app.credentials.Load(ctx); err != nil {
		app.closeDB()
		return nil, err
	}
	if err := app.tasks.Load(ctx); err != nil {
		app.closeDB()
		return nil, err
	}

	reg := registry.New(logger.With("module", "registry"))
	b := broadcast.New(app.tasks, app.sessions, reg, logger.With("module", "broadcast"))

	app.sync = ws.NewHandler(app.sessions, app.tasks, reg, b, ws.Options{
		SecretKey:         []byte(c.SecretKey),
		WriteTimeout:      c.WriteTimeout,
		KeepaliveInterval: c.KeepaliveInterval,
		PongWait:          c.PongWait(),
	}, logger.With("module", "ws"))

	return app, nil
}

func (app *App) closeDB() {
	if app.db != nil {
		_ = app.db.Close()
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) assetsDir(ctx context.Context) string {
	dir, err := filex.ResolveDir(app.config.AssetsDir)
	if err != nil {
		app.logger.Warn(ctx, "assets directory unavailable, web client disabled", "error", err)
		return app.config.AssetsDir
	}
	return dir
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := api.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.credentials, app.sessions,
		app.sync, app.assetsDir(ctx), app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.closeDB()
	app.logger.Info(ctx, "App stopped")
}
