package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	require.Equal(t, "en", detectLanguage("This is plain English prose."))
	require.Equal(t, "ko", detectLanguage("이것은 한국어 문장입니다 전부 한글로만 구성되어 있습니다"))
	require.Equal(t, "mixed", detectLanguage("이것은 한국어와 English가 섞인 mixed 문장 text with lots of english words here too"))
}
