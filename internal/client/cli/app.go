package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/tasksync/internal/client/client"
	"github.com/dmitrijs2005/tasksync/internal/client/config"
	"github.com/dmitrijs2005/tasksync/internal/client/repositories/snapshots"
	"github.com/dmitrijs2005/tasksync/internal/client/repositories/verifiers"
	"github.com/dmitrijs2005/tasksync/internal/client/services"
	"github.com/dmitrijs2005/tasksync/internal/logging"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// syncService is the part of services.SyncService the commands use.
type syncService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	Reconnect(ctx context.Context) error
	Add(summary string) error
	Remove(id int32) error
	Current() models.Tasks
	User() string
	Online() bool
	OnUpdate(fn func(models.Tasks))
	Close() error
}

type App struct {
	config *config.Config
	sync   syncService
	db     *sql.DB
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.CacheFile)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := services.NewSyncService(api, snapshots.NewSQLiteRepository(db), verifiers.NewSQLiteRepository(db), logger)

	return &App{
		config: c,
		sync:   s,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		_ = a.sync.Close()
		if a.db != nil {
			_ = a.db.Close()
		}
	}()

	a.sync.OnUpdate(func(t models.Tasks) {
		fmt.Fprintln(a.out, "\nList updated:")
		a.printTasks(t)
	})

	fmt.Fprintln(a.out, "Welcome to tasksync (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) mode() Mode {
	if a.sync.Online() {
		return ModeOnline
	}
	return ModeOffline
}

func (a *App) isLoggedIn() bool {
	return a.sync.User() != ""
}

func (a *App) getStatus() string {
	user := a.sync.User()
	if user == "" {
		return ""
	}
	return fmt.Sprintf("(%s %s)", user, a.mode())
}
