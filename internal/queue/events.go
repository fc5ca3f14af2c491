package queue

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// StatusEvent is an immutable audit record of one status transition.
// FromStatus is nil for the creation event.
type StatusEvent struct {
	ID         int64
	JobID      int64
	FromStatus *Status
	ToStatus   Status
	OccurredAt time.Time
	Source     string
}

// RecordStatusEvent appends a transition to the audit log in its own commit.
// It is always called after the job's own update has committed. Callers are
// expected to log and swallow the returned error: a failed event write must
// never undo or block the transition it describes.
func (s *Store) RecordStatusEvent(ctx context.Context, jobID int64, from *Status, to Status, source string) error {
	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO print_job_status_events (job_id, from_status, to_status, occurred_at, source)
         VALUES (?, ?, ?, ?, ?)`,
		jobID,
		nullableStatus(from),
		to,
		formatTime(time.Now()),
		nullableString(source),
	); err != nil {
		return fmt.Errorf("record status event: %w", err)
	}
	return nil
}

// EventsForJob returns the job's transition history in occurrence order.
func (s *Store) EventsForJob(ctx context.Context, jobID int64) ([]StatusEvent, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, job_id, from_status, to_status, occurred_at, source
         FROM print_job_status_events
         WHERE job_id = ?
         ORDER BY occurred_at, id`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("query status events: %w", err)
	}
	defer rows.Close()

	var events []StatusEvent
	for rows.Next() {
		event, err := scanStatusEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanStatusEvent(scanner interface{ Scan(dest ...any) error }) (StatusEvent, error) {
	var (
		id          int64
		jobID       int64
		fromRaw     sql.NullString
		toRaw       string
		occurredRaw sql.NullString
		source      sql.NullString
	)
	if err := scanner.Scan(&id, &jobID, &fromRaw, &toRaw, &occurredRaw, &source); err != nil {
		return StatusEvent{}, err
	}

	event := StatusEvent{
		ID:       id,
		JobID:    jobID,
		ToStatus: Status(toRaw),
		Source:   source.String,
	}
	if fromRaw.Valid {
		from := Status(fromRaw.String)
		event.FromStatus = &from
	}
	if occurred, err := parseTimeString(occurredRaw.String); err == nil {
		event.OccurredAt = occurred
	}
	return event, nil
}

func nullableStatus(value *Status) any {
	if value == nil {
		return nil
	}
	return *value
}
