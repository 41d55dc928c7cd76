package orchestrator

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bluecalif/bookforge/internal/bookstore"
	"github.com/bluecalif/bookforge/internal/model"
	"github.com/bluecalif/bookforge/internal/providers"
	"github.com/bluecalif/bookforge/internal/structure"
)

func chapterTestStructure() structure.Structure {
	return structure.Structure{
		BodyStart: 1,
		BodyEnd:   10,
		Chapters: []structure.Chapter{
			{OrderIndex: 0, Number: 1, Title: "Origins", StartPage: 1, EndPage: 5},
			{OrderIndex: 1, Number: 2, Title: "Aftermath", StartPage: 6, EndPage: 7},
		},
	}
}

func seedStructuredBook(t *testing.T, books bookstore.Store, s structure.Structure, status model.Status) *model.Book {
	t.Helper()
	blob, err := json.Marshal(s)
	require.NoError(t, err)

	book := &model.Book{
		ID:         "book-1",
		Title:      "A Short History",
		Author:     "Jane Doe",
		Category:   model.CategoryHistory,
		SourcePath: "/tmp/book-1.pdf",
		Status:     model.StatusUploaded,
	}
	require.NoError(t, books.CreateBook(context.Background(), book))

	_, err = books.Transition(context.Background(), book.ID, model.StatusParsed, func(b *model.Book) {
		b.PageCount = 7
	})
	require.NoError(t, err)
	if status == model.StatusParsed {
		got, err := books.GetBook(context.Background(), book.ID)
		require.NoError(t, err)
		return got
	}
	_, err = books.Transition(context.Background(), book.ID, model.StatusStructured, func(b *model.Book) {
		b.StructureBlob = blob
	})
	require.NoError(t, err)
	if status == model.StatusStructured {
		got, err := books.GetBook(context.Background(), book.ID)
		require.NoError(t, err)
		return got
	}
	_, err = books.Transition(context.Background(), book.ID, status, nil)
	require.NoError(t, err)
	got, err := books.GetBook(context.Background(), book.ID)
	require.NoError(t, err)
	return got
}

func chapterSchemaResponse() *providers.ChatResult {
	payload := map[string]any{
		"core_message":          "War reshaped the region.",
		"summary_3_5_sentences": "The chapter covers the origins of the conflict and its aftermath.",
		"key_periods":           []string{"1914-1918"},
	}
	raw, _ := json.Marshal(payload)
	return &providers.ChatResult{ParsedJSON: raw}
}

func TestExtractChaptersSynthesizesEachChapterAndTransitions(t *testing.T) {
	books := bookstore.NewMemStore()
	book := seedStructuredBook(t, books, chapterTestStructure(), model.StatusPageSummarized)

	for i := 1; i <= 7; i++ {
		require.NoError(t, books.SavePageArtifact(context.Background(), &model.PageArtifact{
			BookID:      book.ID,
			PageNumber:  i,
			SummaryText: "page summary",
			StructuredData: map[string]any{
				"function_tag": "narrative",
				"key_periods":  []any{"1914"},
			},
		}))
	}

	llm := &providers.MockClient{Responses: []providers.MockResponse{
		{Result: chapterSchemaResponse()},
		{Result: chapterSchemaResponse()},
	}}

	o := New(books, nil, nil, llm, nil, slog.Default(), DefaultOptions())
	o.Opts.ChapterSkipMinPages = 2

	result, err := o.ExtractChapters(context.Background(), book.ID)
	require.NoError(t, err)
	require.Equal(t, 0, result.ChaptersSkipped)

	chapters, err := books.ListChapterArtifacts(context.Background(), book.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	require.Equal(t, 0, chapters[0].OrderIndex)
	require.Equal(t, 1, chapters[1].OrderIndex)

	got, err := books.GetBook(context.Background(), book.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusSummarized, got.Status)
}

func TestExtractChaptersSkipsChaptersBelowMinPages(t *testing.T) {
	books := bookstore.NewMemStore()
	book := seedStructuredBook(t, books, chapterTestStructure(), model.StatusPageSummarized)

	for i := 1; i <= 5; i++ {
		require.NoError(t, books.SavePageArtifact(context.Background(), &model.PageArtifact{
			BookID:      book.ID,
			PageNumber:  i,
			SummaryText: "page summary",
		}))
	}
	// Chapter 2 (pages 6-7) has no page artifacts at all: zero members.

	llm := &providers.MockClient{Responses: []providers.MockResponse{{Result: chapterSchemaResponse()}}}
	o := New(books, nil, nil, llm, nil, slog.Default(), DefaultOptions())
	o.Opts.ChapterSkipMinPages = 3

	result, err := o.ExtractChapters(context.Background(), book.ID)
	require.NoError(t, err)
	require.Equal(t, 1, result.ChaptersSkipped)

	chapters, err := books.ListChapterArtifacts(context.Background(), book.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
}

func TestExtractChaptersRejectsWrongStatus(t *testing.T) {
	books := bookstore.NewMemStore()
	book := seedStructuredBook(t, books, chapterTestStructure(), model.StatusStructured)

	o := New(books, nil, nil, &providers.MockClient{}, nil, slog.Default(), DefaultOptions())
	_, err := o.ExtractChapters(context.Background(), book.ID)
	require.Error(t, err)
}

func TestBuildDigestIsDeterministic(t *testing.T) {
	members := []*model.PageArtifact{
		{PageNumber: 1, SummaryText: "a", StructuredData: map[string]any{"function_tag": "narrative"}},
	}
	digestA := buildDigest(members)
	digestB := buildDigest(members)
	require.Equal(t, digestA, digestB)
}
