package orchestrator

import (
	"context"

	"github.com/bluecalif/bookforge/internal/model"
)

// ParseBook runs the split-parse controller over a freshly ingested
// book's source PDF and transitions uploaded → parsed on success, or
// uploaded → error_parsing on failure. page_count is updated to the
// normalized page count so it reflects post-split pages rather than the
// raw PDF's physical page count.
func (o *Orchestrator) ParseBook(ctx context.Context, bookID string) (*model.Book, error) {
	book, err := o.Books.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	pages, parseErr := o.normalizedPages(ctx, book)
	if parseErr != nil {
		return o.Books.Transition(ctx, bookID, model.StatusErrorParsing, func(b *model.Book) {
			b.ErrorDetail = parseErr.Error()
		})
	}

	return o.Books.Transition(ctx, bookID, model.StatusParsed, func(b *model.Book) {
		b.PageCount = len(pages)
		b.ErrorDetail = ""
	})
}
