package worker

import (
	"context"
	"fmt"
	"time"

	"printq/internal/queue"
)

// PrintResult reports which files actually reached the printer.
type PrintResult struct {
	PrintedFiles []string
}

// Printer sends a ready job's files to the physical printer.
type Printer interface {
	Print(ctx context.Context, job *queue.Job) (PrintResult, error)
}

// PrintHandler advances ready jobs of any type through printing.
type PrintHandler struct {
	printer Printer
}

// NewPrintHandler wraps a printer in the handler contract.
func NewPrintHandler(printer Printer) *PrintHandler {
	return &PrintHandler{printer: printer}
}

func (h *PrintHandler) Name() string { return "print_worker" }

func (h *PrintHandler) Filter() queue.ClaimFilter { return queue.PrintFilter() }

// Process prints the job's files and finishes it as done, stamping the
// print time on both the row and the payload.
func (h *PrintHandler) Process(ctx context.Context, job *queue.Job) error {
	result, err := h.printer.Print(ctx, job)
	if err != nil {
		return fmt.Errorf("print job %d: %w", job.ID, err)
	}

	printedAt := time.Now().UTC()
	job.Status = queue.StatusDone
	job.ErrorMsg = ""
	job.PrintedAt = &printedAt
	job.Payload.PrintedFiles = result.PrintedFiles
	job.Payload.PrintedAt = printedAt.Format(time.RFC3339)
	return nil
}
