package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bluecalif/bookforge/internal/cachestore"
	"github.com/bluecalif/bookforge/internal/model"
	"github.com/bluecalif/bookforge/internal/prompts/chapterextract"
	"github.com/bluecalif/bookforge/internal/providers"
	"github.com/bluecalif/bookforge/internal/schema"
	"github.com/bluecalif/bookforge/internal/structure"
)

// pageDigestEntry is the bounded, deterministic per-page digest a
// PageArtifact compresses into: its summary, function tag, and top few
// entities per category, never the raw page text.
type pageDigestEntry struct {
	PageNumber  int                 `json:"page_number"`
	Summary     string              `json:"summary"`
	FunctionTag string              `json:"function_tag,omitempty"`
	Entities    map[string][]string `json:"entities,omitempty"`
}

// maxDigestEntitiesPerGroup bounds how many entities per category survive
// into the chapter digest, keeping the compression a digest and not raw
// text.
const maxDigestEntitiesPerGroup = 3

// bookContext is the canonical JSON envelope Stage 2 hashes
// alongside the digest: `content_hash = content_fingerprint(digest ∥
// book_context)`.
type bookContext struct {
	BookTitle     string `json:"book_title"`
	ChapterTitle  string `json:"chapter_title"`
	ChapterNumber int    `json:"chapter_number"`
	BookSummary   string `json:"book_summary"`
}

// ExtractChapters runs Stage 2: chapter synthesis.
// Precondition: status == page_summarized.
func (o *Orchestrator) ExtractChapters(ctx context.Context, bookID string) (StageResult, error) {
	book, err := o.Books.GetBook(ctx, bookID)
	if err != nil {
		return StageResult{}, err
	}
	if book.Status != model.StatusPageSummarized {
		return StageResult{}, &model.ErrPreconditionViolated{Operation: "extract_chapters", Have: book.Status, Want: string(model.StatusPageSummarized)}
	}

	s, err := loadStructure(book)
	if err != nil {
		return StageResult{}, err
	}
	pageArtifacts, err := o.Books.ListPageArtifacts(ctx, bookID)
	if err != nil {
		return StageResult{}, err
	}

	domainSchema, err := schema.For(book.Category)
	if err != nil {
		return StageResult{}, err
	}

	var succeeded, skipped int
	for _, ch := range s.Chapters {
		if ctx.Err() != nil {
			break
		}
		members := pagesInChapter(pageArtifacts, ch)
		if len(members) < o.Opts.ChapterSkipMinPages {
			skipped++
			continue
		}

		artifact, err := o.synthesizeOneChapter(ctx, book, ch, members, domainSchema)
		if err != nil {
			o.Logger.Warn("chapter synthesis failed", "book_id", bookID, "order_index", ch.OrderIndex, "error", err)
			continue
		}
		if err := o.Books.SaveChapterArtifact(ctx, artifact); err != nil {
			o.Logger.Warn("failed to persist chapter artifact", "book_id", bookID, "order_index", ch.OrderIndex, "error", err)
			continue
		}
		succeeded++
	}

	result := StageResult{ChaptersSkipped: skipped}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if succeeded == 0 {
		return result, &ErrStageFailed{Stage: "extract_chapters", Reason: "no chapter succeeded"}
	}
	if _, err := o.Books.Transition(ctx, bookID, model.StatusSummarized, nil); err != nil {
		return result, err
	}
	return result, nil
}

func pagesInChapter(pages []*model.PageArtifact, ch structure.Chapter) []*model.PageArtifact {
	var out []*model.PageArtifact
	for _, p := range pages {
		if p.PageNumber >= ch.StartPage && p.PageNumber <= ch.EndPage {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PageNumber < out[j].PageNumber })
	return out
}

// buildDigest applies Stage 2's compression rule: it is a
// pure function of member artifacts, so identical inputs always yield an
// identical digest.
func buildDigest(members []*model.PageArtifact) []pageDigestEntry {
	digest := make([]pageDigestEntry, 0, len(members))
	for _, m := range members {
		entities := make(map[string][]string)
		for key, val := range m.StructuredData {
			list, ok := val.([]any)
			if !ok {
				continue
			}
			strs := make([]string, 0, len(list))
			for _, v := range list {
				if s, ok := v.(string); ok {
					strs = append(strs, s)
				}
				if len(strs) >= maxDigestEntitiesPerGroup {
					break
				}
			}
			if len(strs) > 0 {
				entities[key] = strs
			}
		}
		functionTag, _ := m.StructuredData["function_tag"].(string)
		digest = append(digest, pageDigestEntry{
			PageNumber:  m.PageNumber,
			Summary:     m.SummaryText,
			FunctionTag: functionTag,
			Entities:    entities,
		})
	}
	return digest
}

func (o *Orchestrator) synthesizeOneChapter(ctx context.Context, book *model.Book, ch structure.Chapter, members []*model.PageArtifact, domainSchema schema.DomainSchemas) (*model.ChapterArtifact, error) {
	digest := buildDigest(members)
	digestJSON, err := json.Marshal(digest)
	if err != nil {
		return nil, fmt.Errorf("chapter %d: failed to encode digest: %w", ch.OrderIndex, err)
	}
	ctxJSON, err := json.Marshal(bookContext{
		BookTitle:     book.Title,
		ChapterTitle:  ch.Title,
		ChapterNumber: ch.Number,
		BookSummary:   "",
	})
	if err != nil {
		return nil, fmt.Errorf("chapter %d: failed to encode book context: %w", ch.OrderIndex, err)
	}
	contentHash := cachestore.ContentFingerprint(string(digestJSON) + string(ctxJSON))

	var cached model.ChapterArtifact
	if o.Cache != nil {
		if hit, _ := o.Cache.Lookup(cachestore.NamespaceChapterArtifact, contentHash, &cached); hit {
			return &cached, nil
		}
	}

	req := &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: chapterextract.SystemPrompt()},
			{Role: "user", Content: chapterextract.UserPrompt(chapterextract.UserPromptData{
				BookTitle:     book.Title,
				ChapterTitle:  ch.Title,
				ChapterNumber: ch.Number,
				Digest:        string(digestJSON),
			})},
		},
		Temperature: llmTemperature,
		Timeout:     llmTimeout,
		ResponseFormat: &providers.ResponseFormat{
			Name:   "chapter_synthesis",
			Strict: true,
			Schema: domainSchema.ChapterSchema,
		},
	}

	res, err := o.LLM.Chat(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chapter %d: %w", ch.OrderIndex, err)
	}

	var fields map[string]any
	if err := json.Unmarshal(res.ParsedJSON, &fields); err != nil {
		return nil, fmt.Errorf("chapter %d: failed to decode structured output: %w", ch.OrderIndex, err)
	}
	summary, _ := fields["summary_3_5_sentences"].(string)

	artifact := &model.ChapterArtifact{
		BookID:         book.ID,
		OrderIndex:     ch.OrderIndex,
		SummaryText:    summary,
		StructuredData: fields,
		ContentHash:    contentHash,
		PageCount:      len(members),
	}

	if o.Cache != nil {
		o.Cache.StoreArtifact(cachestore.NamespaceChapterArtifact, contentHash, artifact, cachestore.Meta{Category: string(book.Category)})
	}
	return artifact, nil
}
