// Package prompts holds the embedded system/user prompt templates for the
// orchestrator's three LLM-backed stages (page entity extraction, chapter
// synthesis, book report). Each stage's prompts live in their own
// subpackage as `.tmpl` files compiled in via `go:embed`, following the
// teacher's prompt-management convention: embedded text is the source of
// truth, rendered through text/template, and registered with its content
// hash for traceability.
package prompts

// EmbeddedPrompt describes one registered prompt template for
// traceability: which LLM call it drives and a hash of its exact text, so
// a logged content_hash can be traced back to the prompt version that
// produced it.
type EmbeddedPrompt struct {
	Key  string // hierarchical key, e.g. "stages.page_extract.system"
	Text string
	Hash string
}
