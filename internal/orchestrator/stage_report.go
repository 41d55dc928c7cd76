package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bluecalif/bookforge/internal/model"
	"github.com/bluecalif/bookforge/internal/prompts/bookreport"
	"github.com/bluecalif/bookforge/internal/providers"
	"github.com/bluecalif/bookforge/internal/schema"
	"github.com/bluecalif/bookforge/internal/structure"
)

// WriteReport runs Stage 3: book report aggregation. It does
// not advance book status — the terminal artifact is the report file
// itself, written to home.ReportsRoot()/{book_title}.json.
// Precondition: status == summarized.
func (o *Orchestrator) WriteReport(ctx context.Context, bookID string) (*model.BookReport, error) {
	book, err := o.Books.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.Status != model.StatusSummarized {
		return nil, &model.ErrPreconditionViolated{Operation: "write_report", Have: book.Status, Want: string(model.StatusSummarized)}
	}

	s, err := loadStructure(book)
	if err != nil {
		return nil, err
	}
	chapters, err := o.Books.ListChapterArtifacts(ctx, bookID)
	if err != nil {
		return nil, err
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].OrderIndex < chapters[j].OrderIndex })

	chapterByIndex := make(map[int]*model.ChapterArtifact, len(chapters))
	for _, c := range chapters {
		chapterByIndex[c.OrderIndex] = c
	}

	entries := buildChapterEntries(s, chapterByIndex)

	group, groupCtx := errgroup.WithContext(ctx)
	var bookSummary model.BookSummary
	var entityMu sync.Mutex
	entitySynthesis := make(map[string]any)
	var failures []string

	// fail logs and records a part's failure and returns nil, so one failed
	// part never cancels the others through groupCtx.
	fail := func(part string, err error) error {
		o.Logger.Warn("report part failed", "book_id", bookID, "part", part, "error", err)
		entityMu.Lock()
		failures = append(failures, fmt.Sprintf("%s: %v", part, err))
		entityMu.Unlock()
		return nil
	}

	group.Go(func() error {
		summary, err := o.synthesizeBookSummary(groupCtx, book, chapters)
		if err != nil {
			return fail("book_summary", err)
		}
		bookSummary = summary
		return nil
	})

	groups := append(schema.CommonEntityGroups(), schema.ExtraEntityGroup(string(book.Category)))
	for _, g := range groups {
		g := g
		group.Go(func() error {
			values, err := o.synthesizeEntityGroup(groupCtx, book, chapters, g)
			if err != nil {
				return fail("entity_synthesis."+g, err)
			}
			entityMu.Lock()
			entitySynthesis[g] = values
			entityMu.Unlock()
			return nil
		})
	}

	_ = group.Wait()
	if len(failures) == len(groups)+1 {
		return nil, &ErrStageFailed{Stage: "write_report", Reason: strings.Join(failures, "; ")}
	}

	report := &model.BookReport{
		Metadata: model.ReportMetadata{
			BookID:       book.ID,
			Title:        book.Title,
			Author:       book.Author,
			Category:     book.Category,
			PageCount:    book.PageCount,
			ChapterCount: len(s.Chapters),
		},
		BookSummary:     bookSummary,
		ChapterEntries:  entries,
		EntitySynthesis: entitySynthesis,
		Statistics: map[string]int{
			"chapter_count":   len(s.Chapters),
			"page_count":      book.PageCount,
			"chapters_synced": len(chapters),
		},
	}

	if err := o.persistReport(book, report); err != nil {
		return nil, err
	}
	return report, nil
}

// buildChapterEntries passes each ChapterArtifact's LLM-synthesized fields
// through into the report directly, joined against the applied Structure
// for title/page-range fields ( Stage 3: "simple aggregations
// requiring no further LLM calls"). Chapters skipped during Stage 2 (too
// few body pages) have no artifact and are omitted from the report.
func buildChapterEntries(s structure.Structure, byIndex map[int]*model.ChapterArtifact) []model.ChapterEntry {
	entries := make([]model.ChapterEntry, 0, len(s.Chapters))
	for _, ch := range s.Chapters {
		artifact, ok := byIndex[ch.OrderIndex]
		if !ok {
			continue
		}
		coreMessage, _ := artifact.StructuredData["core_message"].(string)
		entries = append(entries, model.ChapterEntry{
			OrderIndex:           ch.OrderIndex,
			Title:                ch.Title,
			StartPage:            ch.StartPage,
			EndPage:              ch.EndPage,
			PageCount:            artifact.PageCount,
			CoreMessage:          coreMessage,
			Summary3To5Sentences: artifact.SummaryText,
		})
	}
	return entries
}

// persistReport writes report as JSON to home.ReportsRoot()/{title}.json.
func (o *Orchestrator) persistReport(book *model.Book, report *model.BookReport) error {
	if err := os.MkdirAll(o.Home.ReportsRoot(), 0o755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	path := filepath.Join(o.Home.ReportsRoot(), reportFileName(book.Title))
	tmp, err := os.CreateTemp(o.Home.ReportsRoot(), ".report-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp report file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp report file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}
	return nil
}

// reportFileName derives a filesystem-safe report name from a book title.
func reportFileName(title string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == '\x00':
			return '_'
		default:
			return r
		}
	}, title)
	safe = strings.TrimSpace(safe)
	if safe == "" {
		safe = "untitled"
	}
	return safe + ".json"
}

func (o *Orchestrator) synthesizeBookSummary(ctx context.Context, book *model.Book, chapters []*model.ChapterArtifact) (model.BookSummary, error) {
	var b strings.Builder
	for _, c := range chapters {
		fmt.Fprintf(&b, "%d. %s\n", c.OrderIndex+1, c.SummaryText)
	}

	req := &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: bookreport.SummarySystemPrompt()},
			{Role: "user", Content: bookreport.SummaryUserPrompt(bookreport.SummaryPromptData{
				BookTitle:        book.Title,
				Author:           book.Author,
				ChapterSummaries: b.String(),
			})},
		},
		Temperature: llmTemperature,
		Timeout:     llmTimeout,
		ResponseFormat: &providers.ResponseFormat{
			Name:   "book_summary",
			Strict: true,
			Schema: bookSummarySchema,
		},
	}

	res, err := o.LLM.Chat(ctx, req)
	if err != nil {
		return model.BookSummary{}, err
	}
	var summary model.BookSummary
	if err := json.Unmarshal(res.ParsedJSON, &summary); err != nil {
		return model.BookSummary{}, fmt.Errorf("failed to decode book summary: %w", err)
	}
	return summary, nil
}

func (o *Orchestrator) synthesizeEntityGroup(ctx context.Context, book *model.Book, chapters []*model.ChapterArtifact, group string) ([]string, error) {
	var b strings.Builder
	for _, c := range chapters {
		values, ok := c.StructuredData[group].([]any)
		if !ok {
			continue
		}
		for _, v := range values {
			if s, ok := v.(string); ok {
				fmt.Fprintf(&b, "- [%s] %s\n", c.SummaryText, s)
			}
		}
	}
	if b.Len() == 0 {
		return nil, nil
	}

	req := &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: bookreport.GroupSystemPrompt()},
			{Role: "user", Content: bookreport.GroupUserPrompt(bookreport.GroupPromptData{
				BookTitle:        book.Title,
				GroupName:        group,
				PerChapterValues: b.String(),
			})},
		},
		Temperature: llmTemperature,
		Timeout:     llmTimeout,
		ResponseFormat: &providers.ResponseFormat{
			Name:   "entity_group",
			Strict: true,
			Schema: entityGroupSchema,
		},
	}

	res, err := o.LLM.Chat(ctx, req)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Values []string `json:"values"`
	}
	if err := json.Unmarshal(res.ParsedJSON, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode entity group %s: %w", group, err)
	}
	return payload.Values, nil
}

var bookSummarySchema = []byte(`{
	"type": "object",
	"required": ["core_message", "summary_3_5_sentences", "main_themes", "argument_flow"],
	"properties": {
		"core_message": {"type": "string"},
		"summary_3_5_sentences": {"type": "string"},
		"main_themes": {"type": "array", "items": {"type": "string"}, "maxItems": 8},
		"argument_flow": {"type": "string"}
	},
	"additionalProperties": false
}`)

var entityGroupSchema = []byte(`{
	"type": "object",
	"required": ["values"],
	"properties": {
		"values": {"type": "array", "items": {"type": "string"}, "maxItems": 20}
	},
	"additionalProperties": false
}`)
