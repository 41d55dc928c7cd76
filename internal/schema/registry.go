// Package schema is a closed tagged-variant registry mapping a book's
// domain category to the concrete JSON Schemas its page and chapter
// extractions must validate against: a closed enumeration of domains, each
// mapped to a concrete schema record for pages and one for chapters. The
// LLM invocation takes the schema by value and returns a validated record
// of that variant.
package schema

import (
	"fmt"

	"github.com/bluecalif/bookforge/internal/model"
)

// DomainSchemas pairs a domain's page-extraction and chapter-synthesis
// JSON Schemas, each a github.com/santhosh-tekuri/jsonschema/v5-compatible
// document.
type DomainSchemas struct {
	PageSchema    []byte
	ChapterSchema []byte
}

// registry is the closed enumeration: every model.Category maps to exactly
// one entry, resolved at compile time rather than looked up by a dynamic
// string key.
var registry = map[model.Category]DomainSchemas{
	model.CategoryHistory:    {PageSchema: historyPageSchema, ChapterSchema: historyChapterSchema},
	model.CategoryEconomy:    {PageSchema: economyPageSchema, ChapterSchema: economyChapterSchema},
	model.CategoryHumanities: {PageSchema: humanitiesPageSchema, ChapterSchema: humanitiesChapterSchema},
	model.CategoryScience:    {PageSchema: sciencePageSchema, ChapterSchema: scienceChapterSchema},
	model.CategoryMisc:       {PageSchema: miscPageSchema, ChapterSchema: miscChapterSchema},
}

// For returns the schema pair registered for category. An unrecognized
// category indicates a caller bug, since model.ValidCategory already gates
// ingest before a category ever reaches this package.
func For(category model.Category) (DomainSchemas, error) {
	s, ok := registry[category]
	if !ok {
		return DomainSchemas{}, fmt.Errorf("no schema registered for category %q", category)
	}
	return s, nil
}

// Categories returns every category with a registered schema pair, in the
// closed enumeration's declaration order.
func Categories() []model.Category {
	return []model.Category{
		model.CategoryHistory,
		model.CategoryEconomy,
		model.CategoryHumanities,
		model.CategoryScience,
		model.CategoryMisc,
	}
}
