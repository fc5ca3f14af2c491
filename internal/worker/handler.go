package worker

import (
	"context"

	"printq/internal/queue"
)

// Handler describes the contract a worker loop needs from each job processor.
// Process mutates the claimed job in place: on success it must leave the job
// in its next status with any payload updates applied. On error the loop
// marks the job errored with the returned message.
type Handler interface {
	Name() string
	Filter() queue.ClaimFilter
	Process(ctx context.Context, job *queue.Job) error
}
