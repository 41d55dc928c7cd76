// Package pageextract holds the prompt templates for Stage 1 of the
// extraction orchestrator: per-page entity extraction.
package pageextract

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/bluecalif/bookforge/internal/prompts"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPromptTmpl string

var userTemplate = template.Must(template.New("page_extract_user").Parse(userPromptTmpl))

// UserPromptData is the template input for UserPrompt.
type UserPromptData struct {
	BookTitle     string
	ChapterTitle  string
	ChapterNumber int
	Category      string
	RawText       string
}

// SystemPrompt returns the page-extraction system prompt.
func SystemPrompt() string { return systemPrompt }

// UserPrompt renders the page-extraction user prompt for one page, from a
// `(book_title, chapter_title, chapter_number, category, raw_text)` tuple.
func UserPrompt(data UserPromptData) string {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, data); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}

// SystemPromptKey and UserPromptKey identify these templates for
// traceability alongside a run's logged content hashes.
const (
	SystemPromptKey = "stages.page_extract.system"
	UserPromptKey   = "stages.page_extract.user"
)

// Registered returns the embedded prompts for this stage, for a caller
// that wants to log/hash them once at startup.
func Registered() []prompts.EmbeddedPrompt {
	return []prompts.EmbeddedPrompt{
		{Key: SystemPromptKey, Text: systemPrompt, Hash: prompts.HashText(systemPrompt)},
		{Key: UserPromptKey, Text: userPromptTmpl, Hash: prompts.HashText(userPromptTmpl)},
	}
}
