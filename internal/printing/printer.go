package printing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"printq/internal/config"
	"printq/internal/logging"
	"printq/internal/queue"
	"printq/internal/worker"
)

var commandContext = exec.CommandContext

// CommandPrinter prints through an external lp-style command. Each file is
// one invocation: the configured command line, plus the printer name when
// set, plus the file path.
type CommandPrinter struct {
	command     string
	printerName string
	logger      *slog.Logger
}

// NewCommandPrinter builds a printer from the printer config section.
func NewCommandPrinter(cfg *config.Config, logger *slog.Logger) *CommandPrinter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CommandPrinter{
		command:     strings.TrimSpace(cfg.Printer.Command),
		printerName: strings.TrimSpace(cfg.Printer.Name),
		logger:      logger.With(logging.String(logging.FieldComponent, "printer")),
	}
}

// Print sends the job's files to the printer in payload order, stopping at
// the first failure. The returned result lists only files that actually
// printed, so a partial run is visible in the job's error message while the
// printed ones are never re-sent.
func (p *CommandPrinter) Print(ctx context.Context, job *queue.Job) (worker.PrintResult, error) {
	files := job.Payload.CleanFiles()
	if len(files) == 0 {
		return worker.PrintResult{}, errors.New("ready job has no payload files to print")
	}

	result := worker.PrintResult{}
	for _, file := range files {
		if err := p.printFile(ctx, job.ID, file); err != nil {
			if len(result.PrintedFiles) > 0 {
				return result, fmt.Errorf("%w (already printed: %s)", err, strings.Join(result.PrintedFiles, ", "))
			}
			return result, err
		}
		result.PrintedFiles = append(result.PrintedFiles, file)
	}
	return result, nil
}

func (p *CommandPrinter) printFile(ctx context.Context, jobID int64, file string) error {
	if p.command == "" {
		return errors.New("print command not configured")
	}
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("file to print does not exist: %s", file)
	}

	fields := strings.Fields(p.command)
	args := fields[1:]
	if p.printerName != "" {
		args = append(args, "-d", p.printerName)
	}
	args = append(args, file)

	p.logger.Info("printing file",
		logging.Int64(logging.FieldJobID, jobID),
		logging.String("file", file),
	)
	cmd := commandContext(ctx, fields[0], args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			return fmt.Errorf("print %s: %w: %s", file, err, detail)
		}
		return fmt.Errorf("print %s: %w", file, err)
	}
	return nil
}

var _ worker.Printer = (*CommandPrinter)(nil)
