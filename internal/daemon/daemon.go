package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofrs/flock"

	"printq/internal/api"
	"printq/internal/config"
	"printq/internal/generation"
	"printq/internal/logging"
	"printq/internal/notifications"
	"printq/internal/printing"
	"printq/internal/queue"
	"printq/internal/worker"
)

// Daemon coordinates the background services and enforces single-instance
// execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *queue.Store

	workers   []*worker.Worker
	apiServer *api.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	QueueDBPath  string
	LockFilePath string
	APIAddr      string
}

// New constructs a daemon with both workers and the API server wired to
// the shared store.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	notifier := notifications.NewService(cfg)
	generator := generation.New(cfg, logger, nil)
	printer := printing.NewCommandPrinter(cfg, logger)

	lockPath := cfg.LockFilePath()
	return &Daemon{
		cfg:    cfg,
		logger: logger,
		store:  store,
		workers: []*worker.Worker{
			worker.New(cfg, store, logger, notifier, worker.NewGenerateHandler(generator)),
			worker.New(cfg, store, logger, notifier, worker.NewPrintHandler(printer)),
		},
		apiServer: api.NewServer(cfg, store, logger, notifier),
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, launches the workers, and begins serving
// the API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another printq daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i, w := range d.workers {
		if err := w.Start(runCtx); err != nil {
			for _, started := range d.workers[:i] {
				started.Stop()
			}
			d.releaseLock()
			cancel()
			d.cancel = nil
			return fmt.Errorf("start worker: %w", err)
		}
	}
	if err := d.apiServer.Start(runCtx); err != nil {
		for _, w := range d.workers {
			w.Stop()
		}
		d.releaseLock()
		cancel()
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("printq daemon started",
		logging.String("lock", d.lockPath),
		logging.String("api", d.apiServer.Addr()),
	)
	return nil
}

// Stop shuts everything down and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.apiServer.Stop()
	for _, w := range d.workers {
		w.Stop()
	}
	d.releaseLock()
	d.running.Store(false)
	d.logger.Info("printq daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		QueueDBPath:  d.cfg.DatabasePath(),
		LockFilePath: d.lockPath,
		APIAddr:      d.apiServer.Addr(),
	}
}

func (d *Daemon) releaseLock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
}
