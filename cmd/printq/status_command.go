package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"printq/internal/queue"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and queue status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			health, healthErr := client.Health(cmd.Context())
			if healthErr == nil {
				fmt.Fprintln(out, statusLine("Daemon", statusOK, "reachable", colorize))
				fmt.Fprintln(out, statusLine("Queue", statusInfo,
					fmt.Sprintf("%d total, %d pending, %d processing, %d ready", health.Total, health.Pending, health.Processing, health.Ready), colorize))
				reportErrored(out, health.Errored, colorize)
				return nil
			}

			fmt.Fprintln(out, statusLine("Daemon", statusWarn, "not reachable, reading queue directly", colorize))
			return ctx.withStore(func(store *queue.Store) error {
				summary, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, statusLine("Queue", statusInfo,
					fmt.Sprintf("%d total, %d pending, %d processing, %d ready", summary.Total, summary.Pending, summary.Processing, summary.Ready), colorize))
				reportErrored(out, summary.Errored, colorize)
				if summary.Processing > 0 {
					fmt.Fprintln(out, statusLine("Stuck jobs", statusWarn,
						fmt.Sprintf("%d in-flight with no daemon, run `printq queue reset-stuck`", summary.Processing), colorize))
				}
				fmt.Fprintln(out, statusLine("Database", statusInfo, cfg.DatabasePath(), colorize))
				return nil
			})
		},
	}
}

func reportErrored(out io.Writer, errored int, colorize bool) {
	if errored > 0 {
		fmt.Fprintln(out, statusLine("Errors", statusError, fmt.Sprintf("%d failed jobs", errored), colorize))
	}
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func statusLine(label string, kind statusKind, message string, colorize bool) string {
	line := fmt.Sprintf("  %-12s %s", label+":", message)
	if !colorize {
		return line
	}
	switch kind {
	case statusOK:
		return ansiGreen + line + ansiReset
	case statusWarn:
		return ansiYellow + line + ansiReset
	case statusError:
		return ansiRed + line + ansiReset
	default:
		return line
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
