package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"printq/internal/queue"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show jobID",
		Short: "Show one job with its status history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}

			return ctx.withStore(func(store *queue.Store) error {
				job, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				events, err := store.EventsForJob(cmd.Context(), id)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Job %d\n", job.ID)
				fmt.Fprintf(out, "  Type:     %s\n", job.Type)
				fmt.Fprintf(out, "  Status:   %s\n", job.Status)
				if summary := jobSummary(job); summary != "" {
					fmt.Fprintf(out, "  Details:  %s\n", summary)
				}
				if job.FilePath != "" {
					fmt.Fprintf(out, "  File:     %s\n", job.FilePath)
				}
				for _, file := range job.Payload.CleanFiles() {
					fmt.Fprintf(out, "  Output:   %s\n", file)
				}
				if job.Payload.Note != "" {
					fmt.Fprintf(out, "  Note:     %s\n", job.Payload.Note)
				}
				fmt.Fprintf(out, "  Created:  %s\n", job.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "  Updated:  %s\n", job.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
				if job.PrintedAt != nil {
					fmt.Fprintf(out, "  Printed:  %s\n", formatTimestamp(job.PrintedAt))
				}
				if job.ErrorMsg != "" {
					fmt.Fprintf(out, "  Error:    %s\n", job.ErrorMsg)
				}

				if len(events) == 0 {
					return nil
				}
				fmt.Fprintln(out, "History:")
				for _, event := range events {
					from := "-"
					if event.FromStatus != nil {
						from = string(*event.FromStatus)
					}
					fmt.Fprintf(out, "  %s  %s -> %s (%s)\n",
						event.OccurredAt.Local().Format("2006-01-02 15:04:05"),
						from,
						event.ToStatus,
						event.Source,
					)
				}
				return nil
			})
		},
	}
}
