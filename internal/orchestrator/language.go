package orchestrator

import "unicode"

// detectLanguage applies deterministic heuristic for
// PageArtifact.Language: the ratio of Hangul/CJK codepoints to Latin
// codepoints in the page's raw text, rather than an LLM call.
func detectLanguage(text string) string {
	var hangulCJK, latin int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Hangul, r) || unicode.Is(unicode.Han, r):
			hangulCJK++
		case unicode.IsLetter(r) && r < unicode.MaxLatin1:
			latin++
		}
	}
	switch {
	case hangulCJK == 0 && latin == 0:
		return "en"
	case hangulCJK > 0 && latin == 0:
		return "ko"
	case hangulCJK == 0 && latin > 0:
		return "en"
	default:
		ratio := float64(hangulCJK) / float64(hangulCJK+latin)
		switch {
		case ratio > 0.8:
			return "ko"
		case ratio < 0.2:
			return "en"
		default:
			return "mixed"
		}
	}
}
