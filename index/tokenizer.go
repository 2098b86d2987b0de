package index

import "strings"

// Stop words excluded from indexing and query preprocessing.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"if": true, "then": true, "else": true, "for": true, "to": true,
	"of": true, "in": true, "on": true, "at": true, "by": true, "with": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "it": true, "its": true, "as": true,
	"that": true, "this": true, "these": true, "those": true, "not": true,
	"no": true, "do": true, "does": true, "did": true, "how": true,
	"why": true, "what": true, "which": true, "who": true, "whom": true,
	"from": true,
}

// Tokenize lowercases text, strips non-alphanumeric characters, splits into
// tokens and removes stop words.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	lowered := strings.ToLower(text)
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" && !stopWords[f] {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// UniqueTerms returns the number of distinct tokens in text.
func UniqueTerms(text string) int {
	seen := make(map[string]bool)
	for _, tok := range Tokenize(text) {
		seen[tok] = true
	}
	return len(seen)
}

// NormalizeQuery produces a canonical cache key for a query: its token
// stream joined by single spaces. An empty key means the query has no
// indexable content.
func NormalizeQuery(query string) string {
	return strings.Join(Tokenize(query), " ")
}
