package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bluecalif/bookforge/internal/api"
	"github.com/bluecalif/bookforge/internal/svcctx"
)

var bookCmd = &cobra.Command{
	Use:   "book <book-id>",
	Short: "Print the current snapshot of a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}

		book, err := svcctx.BookStoreFrom(ctx).GetBook(ctx, args[0])
		if err != nil {
			return fmt.Errorf("read_book failed: %w", err)
		}
		return api.Output(book)
	},
}
