package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ClaimFilter describes the eligible set a worker polls and the in-progress
// status a claimed job is advanced to.
type ClaimFilter struct {
	// Eligible is the status a job must hold to be claimable.
	Eligible Status
	// Type restricts the claim to a single job type; empty claims any type.
	Type JobType
	// InProgress is the status assigned at claim time.
	InProgress Status
}

// GenerationFilter claims pending shipping-document jobs for generation.
func GenerationFilter() ClaimFilter {
	return ClaimFilter{Eligible: StatusPending, Type: TypeShippingDocs, InProgress: StatusGenerating}
}

// PrintFilter claims ready jobs of any type for printing.
func PrintFilter() ClaimFilter {
	return ClaimFilter{Eligible: StatusReady, InProgress: StatusPrinting}
}

// ClaimNext atomically hands the single oldest eligible job to the caller,
// advancing it to the filter's in-progress status in the same statement.
//
// The SELECT-and-UPDATE run as one SQLite write statement, so concurrent
// claimants serialize on the database write lock rather than observing the
// same row: each eligible job is returned to exactly one caller. The guard
// on the outer status means a row stolen between planning and execution
// simply matches nothing. Contention surfaces as SQLITE_BUSY and is absorbed
// by the busy-retry helper instead of blocking claimants behind one another.
//
// Returns nil when no eligible job exists. If the statement fails before
// commit the row keeps its prior status and stays eligible for the next
// poll; that is the whole crash-recovery story for unclaimed work.
func (s *Store) ClaimNext(ctx context.Context, filter ClaimFilter) (*Job, error) {
	if filter.Eligible == "" || filter.InProgress == "" {
		return nil, errors.New("claim filter requires eligible and in-progress statuses")
	}

	now := formatTime(time.Now())

	query := `UPDATE print_jobs
        SET status = ?, updated_at = ?
        WHERE id = (
            SELECT id FROM print_jobs
            WHERE status = ?`
	args := []any{filter.InProgress, now, filter.Eligible}
	if filter.Type != "" {
		query += ` AND job_type = ?`
		args = append(args, filter.Type)
	}
	query += `
            ORDER BY created_at, id
            LIMIT 1
        ) AND status = ?
        RETURNING ` + jobColumns
	args = append(args, filter.Eligible)

	var job *Job
	err := retryOnBusy(ctx, func() error {
		row := s.db.QueryRowContext(ctx, query, args...)
		claimed, scanErr := scanJob(row)
		if scanErr != nil {
			return scanErr
		}
		job = claimed
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim next job: %w", err)
	}
	return job, nil
}
