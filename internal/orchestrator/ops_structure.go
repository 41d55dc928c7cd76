package orchestrator

import (
	"context"
	"fmt"

	"github.com/bluecalif/bookforge/internal/model"
	"github.com/bluecalif/bookforge/internal/normalizer"
	"github.com/bluecalif/bookforge/internal/structure"
)

// StructureCandidates implements structure_candidates(id):
// auto-detected candidates, chapter-title hints, and page samples, without
// mutating the book. Precondition: status ≥ parsed.
func (o *Orchestrator) StructureCandidates(ctx context.Context, bookID string) (structure.Structure, structure.Candidates, error) {
	book, err := o.Books.GetBook(ctx, bookID)
	if err != nil {
		return structure.Structure{}, structure.Candidates{}, err
	}
	if !model.AtLeast(book.Status, model.StatusParsed) {
		return structure.Structure{}, structure.Candidates{}, &model.ErrPreconditionViolated{Operation: "structure_candidates", Have: book.Status, Want: string(model.StatusParsed) + " or later"}
	}

	pages, err := o.normalizedPages(ctx, book)
	if err != nil {
		return structure.Structure{}, structure.Candidates{}, err
	}

	s := structure.Analyze(pages)
	return s, structure.BuildCandidates(s), nil
}

// normalizedPages re-derives the normalized page stream from the book's
// source PDF. The digitization response is cached by file fingerprint
// (internal/digitization), and normalization itself is cheap and
// deterministic, so nothing about this recomputation is itself cached.
func (o *Orchestrator) normalizedPages(ctx context.Context, book *model.Book) ([]normalizer.NormalizedPage, error) {
	pages, err := o.Parse.Parse(ctx, book.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", book.SourcePath, err)
	}
	return pages, nil
}

// ApplyStructure implements apply_structure(id, structure):
// the supplied Structure replaces any prior one, chapters regenerate from
// it, and status advances to structured. Precondition: status ≥ parsed.
func (o *Orchestrator) ApplyStructure(ctx context.Context, bookID string, s structure.Structure) (*model.Book, error) {
	if err := validateStructure(s); err != nil {
		return nil, err
	}

	blob, err := encodeStructure(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode structure: %w", err)
	}

	book, err := o.Books.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !model.AtLeast(book.Status, model.StatusParsed) {
		return nil, &model.ErrPreconditionViolated{Operation: "apply_structure", Have: book.Status, Want: string(model.StatusParsed) + " or later"}
	}

	return o.Books.Transition(ctx, bookID, model.StatusStructured, func(b *model.Book) {
		b.StructureBlob = blob
	})
}

// validateStructure enforces the shape invariants required of any
// Structure accepted by apply_structure.
func validateStructure(s structure.Structure) error {
	if s.BodyStart <= 0 || s.BodyEnd < s.BodyStart {
		return &model.ErrInvalidStructure{Reason: "body span must be non-empty and ordered"}
	}
	for i, ch := range s.Chapters {
		if ch.OrderIndex != i {
			return &model.ErrInvalidStructure{Reason: "chapter order_index must be contiguous from 0"}
		}
		if ch.StartPage > ch.EndPage {
			return &model.ErrInvalidStructure{Reason: "chapter start page must not exceed its end page"}
		}
		if i > 0 && ch.StartPage <= s.Chapters[i-1].StartPage {
			return &model.ErrInvalidStructure{Reason: "chapters must be strictly ordered by start page"}
		}
	}
	return nil
}
