// Package chapterextract holds the prompt templates for Stage 2 of the
// extraction orchestrator: chapter synthesis from a
// compressed digest of its page artifacts.
package chapterextract

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

var userTemplate = template.Must(template.New("chapter_extract_user").Parse(userPromptTmpl))

// UserPromptData is the template input for UserPrompt.
type UserPromptData struct {
	BookTitle     string
	ChapterTitle  string
	ChapterNumber int
	Digest        string
}

// SystemPrompt returns the chapter-synthesis system prompt.
func SystemPrompt() string { return systemPrompt }

// UserPrompt renders the chapter-synthesis user prompt.
func UserPrompt(data UserPromptData) string {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, data); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}

const (
	SystemPromptKey = "stages.chapter_extract.system"
	UserPromptKey   = "stages.chapter_extract.user"
)

// Registered returns the embedded prompts for this stage.
func Registered() []prompts.EmbeddedPrompt {
	return []prompts.EmbeddedPrompt{
		{Key: SystemPromptKey, Text: systemPrompt, Hash: prompts.HashText(systemPrompt)},
		{Key: UserPromptKey, Text: userPromptTmpl, Hash: prompts.HashText(userPromptTmpl)},
	}
}
