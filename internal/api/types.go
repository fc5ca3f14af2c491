package api

import (
	"time"

	"printq/internal/queue"
)

// JobView is the wire projection of a queue job.
type JobView struct {
	ID        int64         `json:"id"`
	JobType   string        `json:"job_type"`
	Status    string        `json:"status"`
	FilePath  string        `json:"file_path,omitempty"`
	Payload   queue.Payload `json:"payload"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
	PrintedAt string        `json:"printed_at,omitempty"`
	ErrorMsg  string        `json:"error_msg,omitempty"`
}

// EventView is the wire projection of one status transition.
type EventView struct {
	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status"`
	OccurredAt string `json:"occurred_at"`
	Source     string `json:"source,omitempty"`
}

// JobDetailResponse is the body of GET /api/jobs/{id}.
type JobDetailResponse struct {
	JobView
	Events []EventView `json:"events"`
}

// EnqueueGenerateRequest is the body of POST /api/jobs/generate.
type EnqueueGenerateRequest struct {
	What    string `json:"what"`
	Date    string `json:"date,omitempty"`
	VentaID string `json:"venta_id,omitempty"`
}

// EnqueueResponse confirms a created job.
type EnqueueResponse struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"`
	JobType string `json:"job_type"`
}

// QueueListResponse is the body of GET /api/queue.
type QueueListResponse struct {
	Jobs []JobView `json:"jobs"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status     string `json:"status"`
	Total      int    `json:"total"`
	Pending    int    `json:"pending"`
	Processing int    `json:"processing"`
	Ready      int    `json:"ready"`
	Done       int    `json:"done"`
	Errored    int    `json:"errored"`
}

// FromJob converts a stored job to its wire projection.
func FromJob(job *queue.Job) JobView {
	view := JobView{
		ID:        job.ID,
		JobType:   string(job.Type),
		Status:    string(job.Status),
		FilePath:  job.FilePath,
		Payload:   job.Payload,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
		UpdatedAt: job.UpdatedAt.Format(time.RFC3339),
		ErrorMsg:  job.ErrorMsg,
	}
	if job.PrintedAt != nil {
		view.PrintedAt = job.PrintedAt.Format(time.RFC3339)
	}
	return view
}

// FromEvent converts a stored status event to its wire projection.
func FromEvent(event queue.StatusEvent) EventView {
	view := EventView{
		ToStatus:   string(event.ToStatus),
		OccurredAt: event.OccurredAt.Format(time.RFC3339),
		Source:     event.Source,
	}
	if event.FromStatus != nil {
		view.FromStatus = string(*event.FromStatus)
	}
	return view
}
