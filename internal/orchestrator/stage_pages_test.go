package orchestrator

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bluecalif/bookforge/internal/bookstore"
	"github.com/bluecalif/bookforge/internal/cachestore"
	"github.com/bluecalif/bookforge/internal/model"
	"github.com/bluecalif/bookforge/internal/normalizer"
	"github.com/bluecalif/bookforge/internal/providers"
	"github.com/bluecalif/bookforge/internal/schema"
	"github.com/bluecalif/bookforge/internal/structure"
)

func pageSchemaResponse() *providers.ChatResult {
	payload := map[string]any{
		"summary":      "A page about origins.",
		"function_tag": "narrative",
		"key_periods":  []string{"1914-1918"},
	}
	raw, _ := json.Marshal(payload)
	return &providers.ChatResult{ParsedJSON: raw}
}

func TestExtractPagesRejectsWrongStatus(t *testing.T) {
	books := bookstore.NewMemStore()
	book := seedStructuredBook(t, books, chapterTestStructure(), model.StatusParsed)

	o := New(books, nil, nil, &providers.MockClient{}, nil, slog.Default(), DefaultOptions())
	_, err := o.ExtractPages(context.Background(), book.ID, nil)
	require.Error(t, err)
	var precond *model.ErrPreconditionViolated
	require.ErrorAs(t, err, &precond)
}

func TestBuildPageWorkItemsSkipsMissingPages(t *testing.T) {
	s := chapterTestStructure() // chapters span pages 1-5 and 6-7
	byPage := map[int]normalizer.NormalizedPage{
		1: {PageNumber: 1},
		3: {PageNumber: 3},
		6: {PageNumber: 6},
		// pages 2, 4, 5, 7 are missing: digitization/normalization never
		// produced them, so they must not appear as work items.
	}

	items := buildPageWorkItems(s, byPage)
	require.Len(t, items, 3)
	require.Equal(t, 1, items[0].page.PageNumber)
	require.Equal(t, 3, items[1].page.PageNumber)
	require.Equal(t, 6, items[2].page.PageNumber)
	require.Equal(t, 0, items[0].chapter.OrderIndex)
	require.Equal(t, 1, items[2].chapter.OrderIndex)
}

// TestExtractOnePageReusesCacheOnResume exercises the S4 resume property: a
// page whose content hash is already present in the cache store is served
// from cache on a second pass rather than re-dispatched to the LLM, so a
// partially-committed run can resume without re-billing already-succeeded
// pages.
func TestExtractOnePageReusesCacheOnResume(t *testing.T) {
	cache, err := cachestore.New(t.TempDir(), slog.Default())
	require.NoError(t, err)

	domainSchema, err := schema.For(model.CategoryHistory)
	require.NoError(t, err)

	llm := &providers.MockClient{Responses: []providers.MockResponse{{Result: pageSchemaResponse()}}}
	o := New(bookstore.NewMemStore(), cache, nil, llm, nil, slog.Default(), DefaultOptions())

	book := &model.Book{ID: "book-1", Category: model.CategoryHistory, Title: "A Short History"}
	item := pageWorkItem{
		chapter: structure.Chapter{OrderIndex: 0, Number: 1, Title: "Origins", StartPage: 1, EndPage: 5},
		page:    normalizer.NormalizedPage{PageNumber: 1, RawText: "In the beginning, the region was divided."},
	}

	first, err := o.extractOnePage(context.Background(), book, item, domainSchema)
	require.NoError(t, err)
	require.Equal(t, 1, llm.Calls())

	second, err := o.extractOnePage(context.Background(), book, item, domainSchema)
	require.NoError(t, err)
	require.Equal(t, 1, llm.Calls(), "a cache hit must not dispatch a second LLM call")
	require.Equal(t, first.ContentHash, second.ContentHash)
	require.Equal(t, first.SummaryText, second.SummaryText)
}

func TestExtractOnePageTruncatesRawTextForLLMButHashesFullText(t *testing.T) {
	domainSchema, err := schema.For(model.CategoryHistory)
	require.NoError(t, err)

	llm := &providers.MockClient{Responses: []providers.MockResponse{{Result: pageSchemaResponse()}}}
	opts := DefaultOptions()
	opts.PageTruncationLength = 4
	o := New(bookstore.NewMemStore(), nil, nil, llm, nil, slog.Default(), opts)

	book := &model.Book{ID: "book-1", Category: model.CategoryHistory}
	rawText := "a much longer page body than the truncation length allows"
	item := pageWorkItem{
		chapter: structure.Chapter{OrderIndex: 0, Number: 1, StartPage: 1, EndPage: 1},
		page:    normalizer.NormalizedPage{PageNumber: 1, RawText: rawText},
	}

	artifact, err := o.extractOnePage(context.Background(), book, item, domainSchema)
	require.NoError(t, err)
	require.Equal(t, cachestore.ContentFingerprint(rawText), artifact.ContentHash)
}
