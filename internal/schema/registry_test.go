package schema

import (
	"bytes"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/bluecalif/bookforge/internal/model"
)

func TestForReturnsSchemasForEveryRegisteredCategory(t *testing.T) {
	for _, cat := range Categories() {
		s, err := For(cat)
		require.NoError(t, err)
		require.NotEmpty(t, s.PageSchema)
		require.NotEmpty(t, s.ChapterSchema)
	}
}

func TestForRejectsUnknownCategory(t *testing.T) {
	_, err := For(model.Category("unknown"))
	require.Error(t, err)
}

func TestPageSchemasAreValidJSONSchema(t *testing.T) {
	for _, cat := range Categories() {
		s, err := For(cat)
		require.NoError(t, err)

		compiler := jsonschema.NewCompiler()
		require.NoError(t, compiler.AddResource("page.json", bytes.NewReader(s.PageSchema)))
		_, err = compiler.Compile("page.json")
		require.NoError(t, err, "page schema for %s must compile", cat)
	}
}

func TestChapterSchemasAreValidJSONSchema(t *testing.T) {
	for _, cat := range Categories() {
		s, err := For(cat)
		require.NoError(t, err)

		compiler := jsonschema.NewCompiler()
		require.NoError(t, compiler.AddResource("chapter.json", bytes.NewReader(s.ChapterSchema)))
		_, err = compiler.Compile("chapter.json")
		require.NoError(t, err, "chapter schema for %s must compile", cat)
	}
}

func TestDomainSchemasDifferPerCategory(t *testing.T) {
	history, _ := For(model.CategoryHistory)
	science, _ := For(model.CategoryScience)
	require.NotEqual(t, string(history.PageSchema), string(science.PageSchema))
}
