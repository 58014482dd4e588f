// Package cli is the terminal presentation layer: it renders state
// snapshots from the core components and forwards user intents into them.
package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/dmitrijs2005/recipedeck/internal/client/api"
	"github.com/dmitrijs2005/recipedeck/internal/client/collection"
	"github.com/dmitrijs2005/recipedeck/internal/client/config"
	"github.com/dmitrijs2005/recipedeck/internal/client/form"
	"github.com/dmitrijs2005/recipedeck/internal/client/health"
	"github.com/dmitrijs2005/recipedeck/internal/client/repositories/sessionstore"
	"github.com/dmitrijs2005/recipedeck/internal/client/session"
	"github.com/dmitrijs2005/recipedeck/internal/common"
	"github.com/dmitrijs2005/recipedeck/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger

	client     api.Client
	session    *session.Manager
	collection *collection.Controller
	form       *form.Machine
	probe      *health.Probe

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	db, err := sessionstore.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		return nil, err
	}
	store := sessionstore.NewSQLiteRepository(db)

	client := api.NewHTTPClient(c.BackendURL, c.RequestTimeout)
	coll := collection.NewController(client, log)

	return &App{
		config:     c,
		log:        log,
		client:     client,
		session:    session.NewManager(client, store, log),
		collection: coll,
		form:       form.NewMachine(coll),
		probe:      health.NewProbe(client, log),
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}, nil
}

// Run restores the session and probes the backend concurrently, performs
// the initial listing once a session exists, starts the reachability
// watcher and enters the command loop.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.session.Restore(ctx)
	}()
	go func() {
		defer wg.Done()
		a.probe.Check(ctx)
	}()
	wg.Wait()

	if a.session.Snapshot().Status == session.Authenticated {
		if err := a.collection.Refresh(ctx); err != nil {
			a.printf("Could not load recipes: %v\n", err)
		}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.probe.Watch(watchCtx, a.config.HealthCheckInterval)

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().Status == session.Authenticated
}

// requireLogin guards commands that only make sense with a session.
func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}
	return nil
}
