package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bluecalif/bookforge/internal/cachestore"
	"github.com/bluecalif/bookforge/internal/model"
	"github.com/bluecalif/bookforge/internal/normalizer"
	"github.com/bluecalif/bookforge/internal/prompts/pageextract"
	"github.com/bluecalif/bookforge/internal/providers"
	"github.com/bluecalif/bookforge/internal/schema"
	"github.com/bluecalif/bookforge/internal/structure"
)

// llmTemperature and llmTimeout are the fixed LLM invocation contract
// shared by every stage.
const (
	llmTemperature = 0.3
	llmTimeout     = 60 * time.Second
)

// pageWorkItem is one dispatchable unit for Stage 1: a body page within a
// chapter.
type pageWorkItem struct {
	chapter structure.Chapter
	page    normalizer.NormalizedPage
}

// ExtractPages runs Stage 1: page entity extraction.
// Precondition: status == structured.
func (o *Orchestrator) ExtractPages(ctx context.Context, bookID string, onProgress ProgressFunc) (StageResult, error) {
	book, err := o.Books.GetBook(ctx, bookID)
	if err != nil {
		return StageResult{}, err
	}
	if book.Status != model.StatusStructured {
		return StageResult{}, &model.ErrPreconditionViolated{Operation: "extract_pages", Have: book.Status, Want: string(model.StatusStructured)}
	}

	s, err := loadStructure(book)
	if err != nil {
		return StageResult{}, err
	}
	pages, err := o.normalizedPages(ctx, book)
	if err != nil {
		return StageResult{}, err
	}
	byPage := make(map[int]normalizer.NormalizedPage, len(pages))
	for _, p := range pages {
		byPage[p.PageNumber] = p
	}

	domainSchema, err := schema.For(book.Category)
	if err != nil {
		return StageResult{}, err
	}

	items := buildPageWorkItems(s, byPage)

	started := time.Now()
	var succeeded, failed int
	artifacts := make([]*model.PageArtifact, len(items))
	pending := make([]*model.PageArtifact, 0, o.Opts.CommitCadencePages)

	commit := func() {
		for _, a := range pending {
			if err := o.Books.SavePageArtifact(ctx, a); err != nil {
				o.Logger.Warn("failed to persist page artifact", "book_id", bookID, "page", a.PageNumber, "error", err)
			}
		}
		pending = pending[:0]
	}

	// Each worker writes only its own index of artifacts, so concurrent
	// writes never race; onResult (run on the single orchestrator
	// goroutine consuming the pool's results) is the only reader.
	runPool(ctx, o.Opts.WorkerPoolSize, len(items), func(idx int) error {
		artifact, err := o.extractOnePage(ctx, book, items[idx], domainSchema)
		if err != nil {
			return err
		}
		artifacts[idx] = artifact
		return nil
	}, func(r result) {
		if r.err != nil {
			failed++
			o.Logger.Warn("page extraction failed", "book_id", bookID, "error", r.err)
		} else {
			succeeded++
			pending = append(pending, artifacts[r.index])
		}
		if (succeeded+failed)%o.Opts.CommitCadencePages == 0 {
			commit()
		}
		if onProgress != nil {
			onProgress(newProgress(succeeded, failed, len(items), started))
		}
	})
	commit()
	if onProgress != nil {
		onProgress(newProgress(succeeded, failed, len(items), started))
	}
	if err := ctx.Err(); err != nil {
		return StageResult{PagesSucceeded: succeeded, PagesFailed: failed}, err
	}

	result := StageResult{PagesSucceeded: succeeded, PagesFailed: failed}
	if succeeded == 0 {
		return result, &ErrStageFailed{Stage: "extract_pages", Reason: "no page succeeded"}
	}

	if _, err := o.Books.Transition(ctx, bookID, model.StatusPageSummarized, nil); err != nil {
		return result, err
	}
	return result, nil
}

func buildPageWorkItems(s structure.Structure, byPage map[int]normalizer.NormalizedPage) []pageWorkItem {
	var items []pageWorkItem
	for _, ch := range s.Chapters {
		for pn := ch.StartPage; pn <= ch.EndPage; pn++ {
			p, ok := byPage[pn]
			if !ok {
				continue
			}
			items = append(items, pageWorkItem{chapter: ch, page: p})
		}
	}
	return items
}

// extractOnePage runs the cache-check-then-LLM-call path for a single
// page Stage 1.
func (o *Orchestrator) extractOnePage(ctx context.Context, book *model.Book, item pageWorkItem, domainSchema schema.DomainSchemas) (*model.PageArtifact, error) {
	rawText := item.page.RawText
	contentHash := cachestore.ContentFingerprint(rawText)

	var cached model.PageArtifact
	if o.Cache != nil {
		if hit, _ := o.Cache.Lookup(cachestore.NamespacePageArtifact, contentHash, &cached); hit {
			return &cached, nil
		}
	}

	truncated := rawText
	if o.Opts.PageTruncationLength > 0 && len(truncated) > o.Opts.PageTruncationLength {
		truncated = truncated[:o.Opts.PageTruncationLength]
	}

	req := &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: pageextract.SystemPrompt()},
			{Role: "user", Content: pageextract.UserPrompt(pageextract.UserPromptData{
				BookTitle:     book.Title,
				ChapterTitle:  item.chapter.Title,
				ChapterNumber: item.chapter.Number,
				Category:      string(book.Category),
				RawText:       truncated,
			})},
		},
		Temperature: llmTemperature,
		Timeout:     llmTimeout,
		ResponseFormat: &providers.ResponseFormat{
			Name:   "page_extraction",
			Strict: true,
			Schema: domainSchema.PageSchema,
		},
	}

	res, err := o.LLM.Chat(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", item.page.PageNumber, err)
	}

	var fields map[string]any
	if err := json.Unmarshal(res.ParsedJSON, &fields); err != nil {
		return nil, fmt.Errorf("page %d: failed to decode structured output: %w", item.page.PageNumber, err)
	}
	summary, _ := fields["summary"].(string)

	artifact := &model.PageArtifact{
		BookID:         book.ID,
		PageNumber:     item.page.PageNumber,
		SummaryText:    summary,
		StructuredData: fields,
		ContentHash:    contentHash,
		Language:       detectLanguage(rawText),
	}

	if o.Cache != nil {
		o.Cache.StoreArtifact(cachestore.NamespacePageArtifact, contentHash, artifact, cachestore.Meta{Category: string(book.Category)})
	}
	return artifact, nil
}
