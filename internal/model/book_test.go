package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"uploaded to parsed", StatusUploaded, StatusParsed, true},
		{"uploaded to error_parsing", StatusUploaded, StatusErrorParsing, true},
		{"uploaded to structured skips a step", StatusUploaded, StatusStructured, false},
		{"structured to page_summarized", StatusStructured, StatusPageSummarized, true},
		{"page_summarized to summarized", StatusPageSummarized, StatusSummarized, true},
		{"summarized has no outgoing edges", StatusSummarized, StatusSummarized, false},
		{"unknown source status", Status("bogus"), StatusParsed, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, CanTransition(c.from, c.to))
		})
	}
}

func TestAtLeast(t *testing.T) {
	require.True(t, AtLeast(StatusStructured, StatusParsed))
	require.True(t, AtLeast(StatusParsed, StatusParsed))
	require.False(t, AtLeast(StatusParsed, StatusStructured))
	require.False(t, AtLeast(StatusErrorParsing, StatusParsed), "error states are off the primary chain")
}

func TestValidCategory(t *testing.T) {
	require.True(t, ValidCategory(CategoryHistory))
	require.True(t, ValidCategory(CategoryMisc))
	require.False(t, ValidCategory(Category("fiction")))
}

func TestBookCloneDeepCopiesStructureBlob(t *testing.T) {
	original := &Book{ID: "book-1", StructureBlob: []byte(`{"body_start":1}`)}
	clone := original.Clone()

	clone.StructureBlob[0] = 'X'
	require.NotEqual(t, string(original.StructureBlob), string(clone.StructureBlob))
	require.Equal(t, original.ID, clone.ID)
}

func TestErrPreconditionViolatedMessage(t *testing.T) {
	err := &ErrPreconditionViolated{Operation: "extract_pages", Have: StatusParsed, Want: "structured"}
	require.Contains(t, err.Error(), "extract_pages")
	require.Contains(t, err.Error(), "structured")
	require.Contains(t, err.Error(), "parsed")
}
