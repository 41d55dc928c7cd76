package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bluecalif/bookforge/internal/api"
	"github.com/bluecalif/bookforge/internal/orchestrator"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run a page- or chapter-level extraction stage",
}

var extractPagesCmd = &cobra.Command{
	Use:   "pages <book-id>",
	Short: "Extract entities and a summary from every body page (Stage 1)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, orch, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}

		result, err := orch.ExtractPages(ctx, args[0], func(p orchestrator.Progress) {
			fmt.Fprintf(cmd.ErrOrStderr(), "pages: %d/%d (%d failed), elapsed %s, eta %s\n",
				p.Completed, p.Total, p.Failed, p.Elapsed.Round(time.Second), p.EstimatedRemaining.Round(time.Second))
		})
		if err != nil {
			return fmt.Errorf("extract_pages failed: %w", err)
		}
		return api.Output(result)
	},
}

var extractChaptersCmd = &cobra.Command{
	Use:   "chapters <book-id>",
	Short: "Synthesize each chapter from its constituent pages (Stage 2)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, orch, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}

		result, err := orch.ExtractChapters(ctx, args[0])
		if err != nil {
			return fmt.Errorf("extract_chapters failed: %w", err)
		}
		return api.Output(result)
	},
}

func init() {
	extractCmd.AddCommand(extractPagesCmd, extractChaptersCmd)
}
