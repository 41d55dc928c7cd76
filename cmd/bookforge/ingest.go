package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bluecalif/bookforge/internal/api"
	"github.com/bluecalif/bookforge/internal/ingest"
	"github.com/bluecalif/bookforge/internal/model"
	"github.com/bluecalif/bookforge/internal/svcctx"
)

var (
	ingestTitle    string
	ingestAuthor   string
	ingestCategory string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <pdf-path>",
	Short: "Ingest a source PDF as a new book, then parse it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, orch, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}

		book, err := ingest.Ingest(ctx, svcctx.BookStoreFrom(ctx), svcctx.HomeFrom(ctx), ingest.Request{
			PDFPath:  args[0],
			Title:    ingestTitle,
			Author:   ingestAuthor,
			Category: model.Category(ingestCategory),
			Logger:   svcctx.LoggerFrom(ctx),
		})
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}

		parsed, err := orch.ParseBook(ctx, book.ID)
		if err != nil {
			return fmt.Errorf("parse failed after ingest: %w", err)
		}
		return api.Output(parsed)
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "book title (default: derived from filename)")
	ingestCmd.Flags().StringVar(&ingestAuthor, "author", "", "book author")
	ingestCmd.Flags().StringVar(&ingestCategory, "category", "", "domain category: history, economy, humanities, science, misc (default: misc)")
}
