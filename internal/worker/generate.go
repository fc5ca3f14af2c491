package worker

import (
	"context"
	"fmt"

	"printq/internal/queue"
)

// GenerationResult is what a generator hands back for a claimed job.
// An empty Files slice means there was nothing to print; the handler
// finishes the job as done and keeps the note for operators.
type GenerationResult struct {
	Files       []string
	OrdersCount int
	Note        string
}

// DocumentGenerator produces the shipping documents a claimed job asks for.
type DocumentGenerator interface {
	Generate(ctx context.Context, job *queue.Job) (GenerationResult, error)
}

// GenerateHandler advances pending shipping-document jobs through generation.
type GenerateHandler struct {
	generator DocumentGenerator
}

// NewGenerateHandler wraps a generator in the handler contract.
func NewGenerateHandler(generator DocumentGenerator) *GenerateHandler {
	return &GenerateHandler{generator: generator}
}

func (h *GenerateHandler) Name() string { return "generate_worker" }

func (h *GenerateHandler) Filter() queue.ClaimFilter { return queue.GenerationFilter() }

// Process runs generation and leaves the job ready for printing, or done
// when no documents came out of it.
func (h *GenerateHandler) Process(ctx context.Context, job *queue.Job) error {
	result, err := h.generator.Generate(ctx, job)
	if err != nil {
		return fmt.Errorf("generate %s for %s: %w", job.Payload.What, job.Payload.Date, err)
	}

	job.Payload.SetOrdersCount(result.OrdersCount)
	job.Payload.Files = result.Files
	job.Payload.Note = result.Note
	job.ErrorMsg = ""

	files := job.Payload.CleanFiles()
	if len(files) == 0 {
		job.Status = queue.StatusDone
		job.FilePath = ""
		return nil
	}
	job.Status = queue.StatusReady
	job.FilePath = files[0]
	return nil
}
