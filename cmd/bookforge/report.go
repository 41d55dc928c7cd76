package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bluecalif/bookforge/internal/api"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a book's final report",
}

var reportWriteCmd = &cobra.Command{
	Use:   "write <book-id>",
	Short: "Aggregate and write the book report (Stage 3)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, orch, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}

		report, err := orch.WriteReport(ctx, args[0])
		if err != nil {
			return fmt.Errorf("write_report failed: %w", err)
		}
		return api.Output(report)
	},
}

func init() {
	reportCmd.AddCommand(reportWriteCmd)
}
