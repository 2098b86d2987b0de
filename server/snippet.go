package server

import "strings"

const snippetLength = 200

// extractSnippet returns a window of text around the earliest occurrence
// of any query term, with ellipses marking truncated edges.
func extractSnippet(text, query string) string {
	lower := strings.ToLower(text)
	terms := strings.Fields(strings.ToLower(query))

	if len(terms) == 0 {
		if len(text) > snippetLength {
			return text[:snippetLength] + "..."
		}
		return text
	}

	bestPos := len(text)
	for _, term := range terms {
		if pos := strings.Index(lower, term); pos != -1 && pos < bestPos {
			bestPos = pos
		}
	}

	start := bestPos - 50
	if start < 0 {
		start = 0
	}
	end := bestPos + snippetLength - 50
	if end > len(text) {
		end = len(text)
	}

	snippet := text[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet = snippet + "..."
	}
	return snippet
}
