package schema

import "fmt"

// commonEntityGroups are the entity categories every domain's page schema
// extracts, matching the entity_synthesis groups names:
// insights, key_events, key_examples, key_persons, key_concepts,
// key_arguments.
var commonEntityGroups = []string{"insights", "key_events", "key_examples", "key_persons", "key_concepts", "key_arguments"}

// extraEntityGroups maps each domain category to the one extra entity
// group its schema adds on top of commonEntityGroups.
var extraEntityGroups = map[string]string{
	"history":    "key_periods",
	"economy":    "key_indicators",
	"humanities": "key_themes",
	"science":    "key_experiments",
	"misc":       "key_topics",
}

// CommonEntityGroups returns the entity categories shared by every domain,
// the groups Stage 3 synthesizes into entity_synthesis
// regardless of book category.
func CommonEntityGroups() []string {
	return append([]string{}, commonEntityGroups...)
}

// ExtraEntityGroup returns the single domain-specific entity group for
// category, e.g. "key_periods" for history.
func ExtraEntityGroup(category string) string {
	return extraEntityGroups[category]
}

// pageSchema builds a domain page-extraction schema: a function tag plus
// the common entity groups plus this domain's extra group, each capped to
// a bounded top-N list "bounded digest, not raw text".
func pageSchema(extraGroup string) []byte {
	properties := `"function_tag":{"type":"string","enum":["narrative","argument","data","description","dialogue"]},"summary":{"type":"string"}`
	for _, group := range append(append([]string{}, commonEntityGroups...), extraGroup) {
		properties += fmt.Sprintf(`,%q:{"type":"array","items":{"type":"string"},"maxItems":5}`, group)
	}
	return []byte(fmt.Sprintf(`{
		"type": "object",
		"required": ["function_tag", "summary"],
		"properties": {%s},
		"additionalProperties": false
	}`, properties))
}

// chapterSchema builds a domain chapter-synthesis schema: the fields
// Stage 3's chapter_entries pass through directly
// (core_message, summary_3_5_sentences) plus this domain's extra group.
func chapterSchema(extraGroup string) []byte {
	properties := `"core_message":{"type":"string"},"summary_3_5_sentences":{"type":"string"}`
	for _, group := range append(append([]string{}, commonEntityGroups...), extraGroup) {
		properties += fmt.Sprintf(`,%q:{"type":"array","items":{"type":"string"},"maxItems":10}`, group)
	}
	return []byte(fmt.Sprintf(`{
		"type": "object",
		"required": ["core_message", "summary_3_5_sentences"],
		"properties": {%s},
		"additionalProperties": false
	}`, properties))
}

var (
	historyPageSchema    = pageSchema("key_periods")
	historyChapterSchema = chapterSchema("key_periods")

	economyPageSchema    = pageSchema("key_indicators")
	economyChapterSchema = chapterSchema("key_indicators")

	humanitiesPageSchema    = pageSchema("key_themes")
	humanitiesChapterSchema = chapterSchema("key_themes")

	sciencePageSchema    = pageSchema("key_experiments")
	scienceChapterSchema = chapterSchema("key_experiments")

	miscPageSchema    = pageSchema("key_topics")
	miscChapterSchema = chapterSchema("key_topics")
)
