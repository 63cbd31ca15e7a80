package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/pharmafhe/internal/client/cache"
	"github.com/dmitrijs2005/pharmafhe/internal/client/chain"
	"github.com/dmitrijs2005/pharmafhe/internal/client/client"
	"github.com/dmitrijs2005/pharmafhe/internal/client/config"
	"github.com/dmitrijs2005/pharmafhe/internal/client/models"
	"github.com/dmitrijs2005/pharmafhe/internal/client/services"
	"github.com/dmitrijs2005/pharmafhe/internal/client/status"
	"github.com/dmitrijs2005/pharmafhe/internal/filex"
	"github.com/dmitrijs2005/pharmafhe/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// writerFactory binds a signer key to the record store.
// hexKey is wiped by the caller as soon as the factory returns.
type writerFactory func(ctx context.Context, hexKey []byte, confirm chain.ConfirmFunc) (chain.Writer, error)

// availabilityChecker is polled by the online watcher.
type availabilityChecker interface {
	IsAvailable(ctx context.Context) (bool, error)
}

// accountBinder receives the active account so relayer tokens carry it.
type accountBinder interface {
	SetAccount(account string)
}

type App struct {
	config   *config.Config
	log      logging.Logger
	workflow services.WorkflowService
	status   *status.Tracker

	newWriter    writerFactory
	availability availabilityChecker
	relayer      accountBinder
	closers      []func() error

	// draft survives failed submissions so they can be retried.
	draft models.Draft

	mu   sync.RWMutex
	mode Mode

	reader *bufio.Reader
	out    io.Writer
}

// NewApp dials the record store and the relayer, opens the local snapshot
// database and wires the workflow service.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, err := chain.Dial(ctx, c.RPCEndpoint, c.ContractAddress)
	if err != nil {
		log.Error(ctx, "error connecting to record store", "error", err)
		return nil, err
	}

	relayer, err := client.NewRelayerClient(c.RelayerEndpoint, c.RelayerSecret, log.With("component", "relayer"))
	if err != nil {
		store.Close()
		return nil, err
	}

	dbPath, err := filex.EnsureParentDir(c.DatabasePath)
	if err != nil {
		_ = relayer.Close()
		store.Close()
		return nil, err
	}

	repos, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		_ = relayer.Close()
		store.Close()
		return nil, err
	}

	tracker := status.NewTracker(c.SuccessDisplay, c.ErrorDisplay)

	wf := services.NewWorkflowService(services.Dependencies{
		Reader:    store,
		Encryptor: relayer,
		Decryptor: relayer,
		Relayer:   relayer,
		Cache:     cache.New(),
		Status:    tracker,
		Records:   repos.Records,
		Metadata:  repos.Metadata,
		Logger:    log,
	}, services.Options{
		RecordPrefix:        c.RecordPrefix,
		ConfirmationTimeout: c.ConfirmationTimeout,
		DecryptionTimeout:   c.DecryptionTimeout,
	})

	newWriter := func(ctx context.Context, hexKey []byte, confirm chain.ConfirmFunc) (chain.Writer, error) {
		return chain.NewWriter(ctx, store, hexKey, c.ChainID, confirm)
	}

	app := &App{
		config:       c,
		log:          log,
		workflow:     wf,
		status:       tracker,
		newWriter:    newWriter,
		availability: store,
		relayer:      relayer,
		closers: []func() error{
			relayer.Close,
			func() error { store.Close(); return nil },
			repos.Close,
		},
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	tracker.Subscribe(app.printStatus)

	return app, nil
}

// Run blocks in the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close releases the store, relayer and database handles.
func (a *App) Close() {
	if a.status != nil {
		a.status.Stop()
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn(context.Background(), "close", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) isConnected() bool {
	return a.workflow.Connected()
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "switched mode", "mode", mode)
	}
}

func (a *App) printStatus(st status.Status) {
	if st.State == status.Idle {
		return
	}
	fmt.Fprintf(a.out, "[%s] %s\n", st.State, st.Message)
}

// StartOnlineStatusWatcher polls the record store every interval and flips
// the App between online and offline mode. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	ok, err := a.availability.IsAvailable(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	// The store answered; its own availability flag is reported separately.
	a.setMode(ctx, ModeOnline)
	if !ok {
		a.log.Debug(ctx, "store reports unavailable")
	}
}
