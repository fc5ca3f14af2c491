package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"printq/internal/config"
)

// Store manages queue persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// ErrNotFound is returned by lookups for job ids that do not exist.
var ErrNotFound = errors.New("job not found")

// Open initializes or connects to the queue database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.DatabasePath())
}

// OpenPath opens the queue database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Create inserts a new job with the given type, initial status, and payload.
// Callers are expected to follow up with a creation status event
// (from_status nil) via RecordStatusEvent.
func (s *Store) Create(ctx context.Context, jobType JobType, status Status, payload Payload, filePath string) (*Job, error) {
	encoded, err := encodePayload(payload)
	if err != nil {
		return nil, err
	}

	timestamp := formatTime(time.Now())

	var res sql.Result
	if err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(
			ctx,
			`INSERT INTO print_jobs (job_type, status, payload, file_path, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?)`,
			jobType,
			status,
			encoded,
			nullableString(filePath),
			timestamp,
			timestamp,
		)
		return execErr
	}); err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a job by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM print_jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// Update persists changes to an existing job and bumps updated_at. The job
// row commits on its own; any status event for the same logical transition
// is written afterwards in a separate commit via RecordStatusEvent.
func (s *Store) Update(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is nil")
	}
	encoded, err := encodePayload(job.Payload)
	if err != nil {
		return err
	}
	job.UpdatedAt = time.Now().UTC()

	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE print_jobs
         SET job_type = ?, status = ?, payload = ?, file_path = ?, error_msg = ?,
             updated_at = ?, printed_at = ?
         WHERE id = ?`,
		job.Type,
		job.Status,
		encoded,
		nullableString(job.FilePath),
		nullableString(job.ErrorMsg),
		formatTime(job.UpdatedAt),
		nullableTime(job.PrintedAt),
		job.ID,
	); err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

// List returns jobs filtered by status set (or all jobs when no status is
// provided), oldest first.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Job, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + jobColumns + ` FROM print_jobs`
	orderClause := ` ORDER BY created_at, id`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Stats returns a count of jobs grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM print_jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates queue state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusReady:
			health.Ready += count
		case StatusDone:
			health.Done += count
		case StatusError:
			health.Errored += count
		default:
			if IsProcessingStatus(status) {
				health.Processing += count
			}
		}
	}
	return health, nil
}

// ResetStuckProcessing returns jobs stuck in an in-progress status to the
// eligible status they were claimed from, appending an operator-sourced
// status event per reset job. There is no automatic reclaim of crashed
// workers; this is the explicit operator recovery path.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	stuck, err := s.findStuckJobs(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, entry := range stuck {
		to := StatusPending
		if entry.from == StatusPrinting {
			to = StatusReady
		}
		res, err := s.execWithRetry(
			ctx,
			`UPDATE print_jobs SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
			to,
			formatTime(time.Now()),
			entry.id,
			entry.from,
		)
		if err != nil {
			return total, fmt.Errorf("reset stuck job %d: %w", entry.id, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			continue
		}
		total++
		// Best effort, like every other transition's audit row.
		from := entry.from
		_ = s.RecordStatusEvent(ctx, entry.id, &from, to, "operator")
	}
	return total, nil
}

type stuckJob struct {
	id   int64
	from Status
}

func (s *Store) findStuckJobs(ctx context.Context) ([]stuckJob, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, status FROM print_jobs WHERE status IN (?, ?) ORDER BY id`,
		StatusGenerating,
		StatusPrinting,
	)
	if err != nil {
		return nil, fmt.Errorf("find stuck jobs: %w", err)
	}
	defer rows.Close()

	var stuck []stuckJob
	for rows.Next() {
		var entry stuckJob
		if err := rows.Scan(&entry.id, &entry.from); err != nil {
			return nil, fmt.Errorf("scan stuck job: %w", err)
		}
		stuck = append(stuck, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find stuck jobs: %w", err)
	}
	return stuck, nil
}

// Remove deletes a job by identifier. Status events cascade with it.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM print_jobs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClearDone removes only finished jobs from the queue.
func (s *Store) ClearDone(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM print_jobs WHERE status = ?`, StatusDone)
	if err != nil {
		return 0, fmt.Errorf("clear done: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all jobs from the queue.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM print_jobs`)
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	return res.RowsAffected()
}
