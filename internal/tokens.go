package internal

import (
	"strings"
	"unicode"
)

// bytesPerToken is the estimate used to convert token bounds into byte
// bounds. Four bytes per token tracks English prose closely enough for
// budget enforcement; the generation service does its own exact counting.
const bytesPerToken = 4

// EstimateTokens approximates how many tokens a string costs.
func EstimateTokens(s string) int {
	return (len(s) + bytesPerToken - 1) / bytesPerToken
}

// TruncateTokens bounds text to at most maxTokens estimated tokens. The
// returned text is exactly the retained prefix, cut back to the last word
// boundary - nothing is reordered, dropped entries stay dropped. It is
// deterministic and idempotent: re-truncating at the same bound returns
// the input unchanged. Short input is never padded.
func TruncateTokens(s string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	limit := maxTokens * bytesPerToken
	if len(s) <= limit {
		return s
	}

	cut := s[:limit]
	// Step back to a word boundary unless the limit happens to land on one.
	if !unicode.IsSpace(rune(s[limit])) {
		if idx := strings.LastIndexFunc(cut, unicode.IsSpace); idx > 0 {
			cut = cut[:idx]
		}
	}
	return strings.TrimRightFunc(cut, unicode.IsSpace)
}
