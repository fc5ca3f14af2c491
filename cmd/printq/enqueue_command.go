package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"printq/internal/api"
	"printq/internal/generation"
)

func newEnqueueCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var ventaFlag string

	cmd := &cobra.Command{
		Use:   "enqueue {shipping_list|guides|both|egreso}",
		Short: "Queue shipping document generation via the daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := generation.ParseKind(args[0])
			if err != nil {
				return err
			}
			if kind == generation.KindEgreso && strings.TrimSpace(ventaFlag) == "" {
				return fmt.Errorf("kind %s requires --venta", generation.KindEgreso)
			}
			if trimmed := strings.TrimSpace(dateFlag); trimmed != "" {
				if _, err := time.Parse("2006-01-02", trimmed); err != nil {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateFlag)
				}
				dateFlag = trimmed
			}

			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			resp, err := client.EnqueueGenerate(cmd.Context(), api.EnqueueGenerateRequest{
				What:    string(kind),
				Date:    dateFlag,
				VentaID: strings.TrimSpace(ventaFlag),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queued %s job %d (%s)\n", kind.Label(), resp.ID, resp.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Day to generate for (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&ventaFlag, "venta", "", "Sale id, required for egreso")
	return cmd
}

func newUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload file.pdf",
		Short: "Upload a PDF for printing via the daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			resp, err := client.Upload(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded as job %d (%s)\n", resp.ID, resp.Status)
			return nil
		},
	}
}
