package highlight

import (
	"github.com/docsift/docsift/core"
)

// Range is a half-open byte interval [Start, End) into a document text
// marked for visual emphasis. Term records which matched term produced the
// range; after merging it identifies only the first contributing term and
// carries no rendering semantics.
type Range struct {
	Start int
	End   int
	Term  string
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// BuildRanges converts server-reported matches into highlight ranges over
// text. Offsets are clamped to [0, len(text)], ranges that collapse to
// nothing are dropped, and match entries without a term or positions are
// skipped entirely. The result is unsorted and may overlap; an empty result
// means the caller should fall back to substring matching.
func BuildRanges(text string, matches []core.Match) []Range {
	length := len(text)
	var ranges []Range

	for _, m := range matches {
		if m.Term == "" || len(m.Positions) == 0 {
			continue
		}
		for _, p := range m.Positions {
			start := clamp(p, 0, length)
			end := clamp(start+len(m.Term), start, length)
			if end > start {
				ranges = append(ranges, Range{Start: start, End: end, Term: m.Term})
			}
		}
	}

	return ranges
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
