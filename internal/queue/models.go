package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a print job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusReady      Status = "ready"
	StatusPrinting   Status = "printing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// JobType distinguishes generated shipping documents from direct uploads.
type JobType string

const (
	TypeShippingDocs JobType = "shipping_docs"
	TypeUpload       JobType = "upload"
)

var allStatuses = []Status{
	StatusPending,
	StatusGenerating,
	StatusReady,
	StatusPrinting,
	StatusDone,
	StatusError,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// processingStatuses are held by a worker between claim and completion.
var processingStatuses = map[Status]struct{}{
	StatusGenerating: {},
	StatusPrinting:   {},
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// ParseJobType converts a string into a known JobType.
func ParseJobType(value string) (JobType, bool) {
	switch JobType(strings.ToLower(strings.TrimSpace(value))) {
	case TypeShippingDocs:
		return TypeShippingDocs, true
	case TypeUpload:
		return TypeUpload, true
	default:
		return "", false
	}
}

// IsProcessingStatus reports whether a status reflects an in-flight claim.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// Job is a unit of work persisted in the queue.
type Job struct {
	ID        int64
	Type      JobType
	Status    Status
	Payload   Payload
	FilePath  string
	ErrorMsg  string
	CreatedAt time.Time
	UpdatedAt time.Time
	PrintedAt *time.Time
}

// IsProcessing returns true when the job is held by a worker.
func (j Job) IsProcessing() bool {
	return IsProcessingStatus(j.Status)
}

// IsTerminal reports whether no worker will pick the job up again.
func (j Job) IsTerminal() bool {
	return j.Status == StatusDone || j.Status == StatusError
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Ready      int
	Done       int
	Errored    int
}
