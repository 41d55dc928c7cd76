package bookstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bluecalif/bookforge/internal/home"
	"github.com/bluecalif/bookforge/internal/model"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()
	h, err := home.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, h.EnsureExists())

	return map[string]Store{
		"mem":  NewMemStore(),
		"file": NewFileStore(h),
	}
}

func seedBook(t *testing.T, ctx context.Context, s Store, id string) *model.Book {
	t.Helper()
	b := &model.Book{ID: id, Title: "t", Category: model.CategoryHistory, Status: model.StatusUploaded}
	require.NoError(t, s.CreateBook(ctx, b))
	return b
}

func TestStoreGetBookNotFound(t *testing.T) {
	ctx := t.Context()
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.GetBook(ctx, "missing")
			require.Error(t, err)
			require.ErrorAs(t, err, new(*model.ErrNotFound))
		})
	}
}

func TestStoreCreateAndGetBookRoundtrips(t *testing.T) {
	ctx := t.Context()
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			seedBook(t, ctx, s, "book-1")

			got, err := s.GetBook(ctx, "book-1")
			require.NoError(t, err)
			require.Equal(t, "book-1", got.ID)
			require.Equal(t, model.StatusUploaded, got.Status)
		})
	}
}

func TestStoreTransitionAppliesMutateThenChecksDAG(t *testing.T) {
	ctx := t.Context()
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			seedBook(t, ctx, s, "book-1")

			got, err := s.Transition(ctx, "book-1", model.StatusParsed, func(b *model.Book) {
				b.PageCount = 42
			})
			require.NoError(t, err)
			require.Equal(t, model.StatusParsed, got.Status)
			require.Equal(t, 42, got.PageCount)

			reread, err := s.GetBook(ctx, "book-1")
			require.NoError(t, err)
			require.Equal(t, model.StatusParsed, reread.Status)
			require.Equal(t, 42, reread.PageCount)
		})
	}
}

func TestStoreTransitionRejectsInvalidEdge(t *testing.T) {
	ctx := t.Context()
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			seedBook(t, ctx, s, "book-1")

			_, err := s.Transition(ctx, "book-1", model.StatusSummarized, nil)
			require.Error(t, err)
			require.ErrorAs(t, err, new(*model.ErrPreconditionViolated))

			reread, err := s.GetBook(ctx, "book-1")
			require.NoError(t, err)
			require.Equal(t, model.StatusUploaded, reread.Status, "rejected transition must not mutate stored state")
		})
	}
}

func TestStorePageArtifactsRoundtripSortedByPageNumber(t *testing.T) {
	ctx := t.Context()
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			seedBook(t, ctx, s, "book-1")

			for _, n := range []int{3, 1, 2} {
				require.NoError(t, s.SavePageArtifact(ctx, &model.PageArtifact{
					BookID:     "book-1",
					PageNumber: n,
					Language:   "en",
				}))
			}

			pages, err := s.ListPageArtifacts(ctx, "book-1")
			require.NoError(t, err)
			require.Len(t, pages, 3)
			require.Equal(t, []int{1, 2, 3}, []int{pages[0].PageNumber, pages[1].PageNumber, pages[2].PageNumber})
		})
	}
}

func TestStorePageArtifactOverwritesRatherThanMerges(t *testing.T) {
	ctx := t.Context()
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			seedBook(t, ctx, s, "book-1")

			require.NoError(t, s.SavePageArtifact(ctx, &model.PageArtifact{BookID: "book-1", PageNumber: 1, SummaryText: "first"}))
			require.NoError(t, s.SavePageArtifact(ctx, &model.PageArtifact{BookID: "book-1", PageNumber: 1, SummaryText: "second"}))

			pages, err := s.ListPageArtifacts(ctx, "book-1")
			require.NoError(t, err)
			require.Len(t, pages, 1)
			require.Equal(t, "second", pages[0].SummaryText)
		})
	}
}

func TestStoreChapterArtifactsRoundtripSortedByOrderIndex(t *testing.T) {
	ctx := t.Context()
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			seedBook(t, ctx, s, "book-1")

			for _, idx := range []int{2, 0, 1} {
				require.NoError(t, s.SaveChapterArtifact(ctx, &model.ChapterArtifact{
					BookID:     "book-1",
					OrderIndex: idx,
				}))
			}

			chapters, err := s.ListChapterArtifacts(ctx, "book-1")
			require.NoError(t, err)
			require.Len(t, chapters, 3)
			require.Equal(t, []int{0, 1, 2}, []int{chapters[0].OrderIndex, chapters[1].OrderIndex, chapters[2].OrderIndex})
		})
	}
}

func TestStoreListArtifactsEmptyForUnknownBook(t *testing.T) {
	ctx := t.Context()
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			pages, err := s.ListPageArtifacts(ctx, "nobody")
			require.NoError(t, err)
			require.Empty(t, pages)

			chapters, err := s.ListChapterArtifacts(ctx, "nobody")
			require.NoError(t, err)
			require.Empty(t, chapters)
		})
	}
}
