// Package bookstore persists Book records and their page/chapter
// extraction artifacts. Store is the seam the orchestrator programs
// against, with a filesystem-backed implementation alongside an in-memory
// one for tests.
package bookstore

import (
	"context"

	"github.com/bluecalif/bookforge/internal/model"
)

// Store is the durable record of books and the artifacts produced while
// processing them. Every mutating method enforces model.CanTransition
// before writing a new Status, so an invalid jump in the DAG fails here
// rather than silently corrupting state.
type Store interface {
	// CreateBook inserts a new book at model.StatusUploaded.
	CreateBook(ctx context.Context, book *model.Book) error

	// GetBook returns the book with the given id, or model.ErrNotFound.
	GetBook(ctx context.Context, id string) (*model.Book, error)

	// Transition moves book id from its current status to next, applying
	// mutate to the cloned record before the status change is checked and
	// persisted. mutate may be nil. Returns model.ErrPreconditionViolated
	// if the DAG does not allow the requested edge.
	Transition(ctx context.Context, id string, next model.Status, mutate func(*model.Book)) (*model.Book, error)

	// SavePageArtifact persists a single page extraction. Artifacts are
	// immutable once written: a second call for the same (book, page)
	// overwrites the prior value, it never merges.
	SavePageArtifact(ctx context.Context, artifact *model.PageArtifact) error

	// ListPageArtifacts returns every stored page artifact for book,
	// ordered by PageNumber.
	ListPageArtifacts(ctx context.Context, bookID string) ([]*model.PageArtifact, error)

	// SaveChapterArtifact persists a single chapter synthesis.
	SaveChapterArtifact(ctx context.Context, artifact *model.ChapterArtifact) error

	// ListChapterArtifacts returns every stored chapter artifact for book,
	// ordered by OrderIndex.
	ListChapterArtifacts(ctx context.Context, bookID string) ([]*model.ChapterArtifact, error)
}
