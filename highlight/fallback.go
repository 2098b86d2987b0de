package highlight

import (
	"regexp"
	"strings"
)

// FallbackRanges recovers highlight ranges by case-insensitive literal
// substring search when no usable offset-based ranges exist. The query is
// split on whitespace into distinct lowercase terms; each term is escaped
// and matched literally against the original text, preserving the matched
// casing. The result feeds the same Merge and render pipeline as the
// offset path, so overlapping terms fuse instead of nesting.
func FallbackRanges(text, query string) []Range {
	if text == "" {
		return nil
	}

	seen := make(map[string]bool)
	var ranges []Range
	for _, field := range strings.Fields(query) {
		term := strings.ToLower(field)
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true

		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(term))
		if err != nil {
			continue
		}
		for _, loc := range re.FindAllStringIndex(text, -1) {
			ranges = append(ranges, Range{Start: loc[0], End: loc[1], Term: term})
		}
	}

	return ranges
}
