package index

import "regexp"

// FindTermPositions returns the byte offsets of every case-insensitive
// occurrence of term in text. The term is matched literally, not as a
// pattern. Exact query terms are searched (not preprocessed tokens) so
// every visible occurrence is found.
func FindTermPositions(text, term string) []int {
	if term == "" {
		return nil
	}

	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(term))
	if err != nil {
		return nil
	}

	var positions []int
	for _, loc := range re.FindAllStringIndex(text, -1) {
		positions = append(positions, loc[0])
	}
	return positions
}
