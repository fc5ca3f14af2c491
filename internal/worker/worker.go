package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"printq/internal/config"
	"printq/internal/logging"
	"printq/internal/notifications"
	"printq/internal/queue"
)

// Worker drives a single handler against the queue until stopped.
type Worker struct {
	store    *queue.Store
	logger   *slog.Logger
	notifier notifications.Service
	handler  Handler

	pollInterval      time.Duration
	heartbeatInterval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New builds a worker around the given handler. Poll and heartbeat cadence
// come from the workflow config; a zero heartbeat interval disables idle
// heartbeat logging.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, notifier notifications.Service, handler Handler) *Worker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Worker{
		store:             store,
		logger:            logger.With(logging.String(logging.FieldComponent, handler.Name())),
		notifier:          notifier,
		handler:           handler,
		pollInterval:      time.Duration(cfg.Workflow.PollInterval) * time.Second,
		heartbeatInterval: time.Duration(cfg.Workflow.HeartbeatInterval) * time.Second,
	}
}

// Start begins the polling loop in a background goroutine.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return errors.New("worker already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.wg.Add(1)
	go w.run(runCtx)
	return nil
}

// Stop terminates the loop and waits for the in-flight job to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	w.running = false
	w.cancel = nil
	w.mu.Unlock()

	cancel()
	w.wg.Wait()
}

// RunOnce claims and processes at most one job, reporting whether a job
// was handled. The daemon loop uses it between idle waits; it is also the
// building block for draining a queue synchronously.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.store.ClaimNext(ctx, w.handler.Filter())
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}
	w.processJob(ctx, job)
	return true, nil
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	w.logger.Info("worker started",
		logging.Duration("poll_interval", w.pollInterval),
		logging.Duration("heartbeat_interval", w.heartbeatInterval),
	)
	lastBeat := time.Now()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopped")
			return
		default:
		}

		handled, err := w.RunOnce(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				continue
			}
			w.logger.Error("failed to claim next job", logging.Error(err))
			w.sleep(ctx)
			continue
		}
		if !handled {
			lastBeat = w.maybeHeartbeat(ctx, lastBeat)
			w.sleep(ctx)
			continue
		}

		lastBeat = time.Now()
	}
}

// maybeHeartbeat emits a periodic idle log so operators can tell a quiet
// worker from a dead one. Returns the updated last-beat time.
func (w *Worker) maybeHeartbeat(ctx context.Context, lastBeat time.Time) time.Time {
	if w.heartbeatInterval <= 0 {
		return lastBeat
	}
	if time.Since(lastBeat) < w.heartbeatInterval {
		return lastBeat
	}

	attrs := []logging.Attr{logging.String("state", "idle")}
	if health, err := w.store.Health(ctx); err == nil {
		attrs = append(attrs,
			logging.Int("queued_total", health.Total),
			logging.Int("pending", health.Pending),
			logging.Int("ready", health.Ready),
		)
	}
	w.logger.Info("worker heartbeat", logging.Args(attrs...)...)
	return time.Now()
}

func (w *Worker) processJob(ctx context.Context, job *queue.Job) {
	filter := w.handler.Filter()
	logger := w.logger.With(
		logging.Int64(logging.FieldJobID, job.ID),
		logging.String(logging.FieldJobType, string(job.Type)),
	)
	logger.Info("job claimed", logging.String(logging.FieldStatus, string(job.Status)))
	w.recordTransition(ctx, logger, job.ID, &filter.Eligible, filter.InProgress)

	started := time.Now()
	processErr := w.handler.Process(ctx, job)
	if processErr != nil && errors.Is(processErr, context.Canceled) && ctx.Err() != nil {
		// Shutdown mid-job. The job stays in its in-progress status and an
		// operator reset returns it to the queue.
		logger.Warn("job interrupted by shutdown")
		return
	}

	if processErr != nil {
		job.Status = queue.StatusError
		job.ErrorMsg = processErr.Error()
	}

	if err := w.store.Update(ctx, job); err != nil {
		logger.Error("failed to persist job result", logging.Error(err))
		return
	}
	w.recordTransition(ctx, logger, job.ID, &filter.InProgress, job.Status)

	if processErr != nil {
		logger.Error("job failed",
			logging.Error(processErr),
			logging.Duration("elapsed", time.Since(started)),
		)
		if err := w.notifier.NotifyJobFailed(ctx, job.ID, string(job.Type), processErr.Error()); err != nil {
			logger.Warn("failure notification not delivered", logging.Error(err))
		}
		return
	}

	logger.Info("job processed",
		logging.String(logging.FieldStatus, string(job.Status)),
		logging.Duration("elapsed", time.Since(started)),
	)
	if printed := len(job.Payload.PrintedFiles); printed > 0 {
		if err := w.notifier.NotifyJobPrinted(ctx, job.ID, string(job.Type), printed); err != nil {
			logger.Warn("print notification not delivered", logging.Error(err))
		}
	}
}

// recordTransition appends to the audit log and only logs on failure. The
// job update is the source of truth; a lost audit row must not fail the job.
func (w *Worker) recordTransition(ctx context.Context, logger *slog.Logger, jobID int64, from *queue.Status, to queue.Status) {
	if err := w.store.RecordStatusEvent(ctx, jobID, from, to, w.handler.Name()); err != nil {
		logger.Warn("status event not recorded",
			logging.Error(err),
			logging.String(logging.FieldStatus, string(to)),
		)
	}
}

func (w *Worker) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(w.pollInterval):
	}
}
