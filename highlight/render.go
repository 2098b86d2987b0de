package highlight

import (
	"html"
	"strings"
)

// Wrapper element emitted around highlighted spans. Fixed and never
// user-controlled, so escaping the span contents is sufficient to keep the
// markup well formed.
const (
	markOpen  = `<mark class="match">`
	markClose = `</mark>`
)

// Segment is a run of document text with an emphasis flag.
type Segment struct {
	Text        string
	Highlighted bool
}

// Segments splits text into plain and highlighted runs according to the
// merged range list. Ranges must be sorted and disjoint (the output of
// Merge); bounds are clamped defensively. The concatenation of all segment
// texts always reproduces text exactly.
func Segments(text string, merged []Range) []Segment {
	if len(merged) == 0 {
		if text == "" {
			return nil
		}
		return []Segment{{Text: text}}
	}

	segments := make([]Segment, 0, len(merged)*2+1)
	cursor := 0
	for _, r := range merged {
		start := clamp(r.Start, cursor, len(text))
		end := clamp(r.End, start, len(text))
		if start > cursor {
			segments = append(segments, Segment{Text: text[cursor:start]})
		}
		if end > start {
			segments = append(segments, Segment{Text: text[start:end], Highlighted: true})
		}
		cursor = end
	}
	if cursor < len(text) {
		segments = append(segments, Segment{Text: text[cursor:]})
	}

	return segments
}

// RenderHTML renders text with the merged ranges highlighted. Every
// segment, plain or highlighted, is HTML-escaped before insertion so
// markup-significant characters in the document cannot break the rendered
// structure. Stripping the wrapper elements and unescaping yields the
// original text.
func RenderHTML(text string, merged []Range) string {
	var b strings.Builder
	for _, seg := range Segments(text, merged) {
		if seg.Highlighted {
			b.WriteString(markOpen)
			b.WriteString(html.EscapeString(seg.Text))
			b.WriteString(markClose)
		} else {
			b.WriteString(html.EscapeString(seg.Text))
		}
	}
	return b.String()
}
