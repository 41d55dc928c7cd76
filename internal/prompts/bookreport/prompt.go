// Package bookreport holds the prompt templates for Stage 3 of the
// extraction orchestrator: the LLM-synthesized sections of
// the book report (book_summary and each entity_synthesis group).
package bookreport

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/bluecalif/bookforge/internal/prompts"
)

//go:embed summary_system.tmpl
var summarySystemPrompt string

//go:embed summary_user.tmpl
var summaryUserPromptTmpl string

//go:embed group_system.tmpl
var groupSystemPrompt string

//go:embed group_user.tmpl
var groupUserPromptTmpl string

var summaryUserTemplate = template.Must(template.New("book_summary_user").Parse(summaryUserPromptTmpl))
var groupUserTemplate = template.Must(template.New("entity_group_user").Parse(groupUserPromptTmpl))

// SummaryPromptData is the template input for SummaryUserPrompt.
type SummaryPromptData struct {
	BookTitle        string
	Author           string
	ChapterSummaries string
}

// GroupPromptData is the template input for GroupUserPrompt.
type GroupPromptData struct {
	BookTitle        string
	GroupName        string
	PerChapterValues string
}

// SummarySystemPrompt returns the book_summary stage's system prompt.
func SummarySystemPrompt() string { return summarySystemPrompt }

// SummaryUserPrompt renders the book_summary stage's user prompt.
func SummaryUserPrompt(data SummaryPromptData) string {
	var buf bytes.Buffer
	if err := summaryUserTemplate.Execute(&buf, data); err != nil {
		return summaryUserPromptTmpl
	}
	return buf.String()
}

// GroupSystemPrompt returns the entity-group synthesis system prompt,
// shared across every entity_synthesis group.
func GroupSystemPrompt() string { return groupSystemPrompt }

// GroupUserPrompt renders one entity group's user prompt.
func GroupUserPrompt(data GroupPromptData) string {
	var buf bytes.Buffer
	if err := groupUserTemplate.Execute(&buf, data); err != nil {
		return groupUserPromptTmpl
	}
	return buf.String()
}

const (
	SummarySystemPromptKey = "stages.book_report.summary_system"
	SummaryUserPromptKey   = "stages.book_report.summary_user"
	GroupSystemPromptKey   = "stages.book_report.group_system"
	GroupUserPromptKey     = "stages.book_report.group_user"
)

// Registered returns the embedded prompts for this stage.
func Registered() []prompts.EmbeddedPrompt {
	return []prompts.EmbeddedPrompt{
		{Key: SummarySystemPromptKey, Text: summarySystemPrompt, Hash: prompts.HashText(summarySystemPrompt)},
		{Key: SummaryUserPromptKey, Text: summaryUserPromptTmpl, Hash: prompts.HashText(summaryUserPromptTmpl)},
		{Key: GroupSystemPromptKey, Text: groupSystemPrompt, Hash: prompts.HashText(groupSystemPrompt)},
		{Key: GroupUserPromptKey, Text: groupUserPromptTmpl, Hash: prompts.HashText(groupUserPromptTmpl)},
	}
}
