package index

import (
	"testing"

	"github.com/docsift/docsift/core"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize("The Quick, brown fox -- jumps over the lazy dog!")
	want := []string{"quick", "brown", "fox", "jumps", "over", "lazy", "dog"}
	if len(tokens) != len(want) {
		t.Fatalf("Expected %v, got %v", want, tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, tokens)
		}
	}

	if got := Tokenize(""); got != nil {
		t.Fatalf("Expected nil for empty text, got %v", got)
	}
	if got := Tokenize("the and of"); len(got) != 0 {
		t.Fatalf("Expected all stop words removed, got %v", got)
	}
}

func TestUniqueTerms(t *testing.T) {
	if n := UniqueTerms("cat dog cat DOG bird"); n != 3 {
		t.Fatalf("Expected 3 unique terms, got %d", n)
	}
}

func TestNormalizeQuery(t *testing.T) {
	if key := NormalizeQuery("  The  CAT   sat "); key != "cat sat" {
		t.Fatalf("Expected 'cat sat', got %q", key)
	}
	if key := NormalizeQuery("the of and"); key != "" {
		t.Fatalf("Expected empty key for stop-word query, got %q", key)
	}
}

func TestFindTermPositions(t *testing.T) {
	text := "Cat cat CAT scattered"
	positions := FindTermPositions(text, "cat")
	want := []int{0, 4, 8, 13}
	if len(positions) != len(want) {
		t.Fatalf("Expected positions %v, got %v", want, positions)
	}
	for i := range want {
		if positions[i] != want[i] {
			t.Fatalf("Expected positions %v, got %v", want, positions)
		}
	}

	if got := FindTermPositions(text, ""); got != nil {
		t.Fatalf("Expected nil for empty term, got %v", got)
	}
	if got := FindTermPositions("price $5.00", "$5.00"); len(got) != 1 || got[0] != 6 {
		t.Fatalf("Expected literal metacharacter match at 6, got %v", got)
	}
}

func TestIndexSearch(t *testing.T) {
	ix := New()
	ix.Add(1, "search engines index documents quickly")
	ix.Add(2, "documents describe search engines")
	ix.Add(3, "cooking recipes with garlic")

	results := ix.Search("search engines")
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.DocId == 3 {
			t.Fatal("Document 3 must not match")
		}
		if r.Score <= 0 {
			t.Fatalf("Expected positive score, got %f", r.Score)
		}
	}

	// AND semantics: all terms must be present.
	if got := ix.Search("search garlic"); len(got) != 0 {
		t.Fatalf("Expected no results for disjoint terms, got %v", got)
	}

	if got := ix.Search("unknownterm"); len(got) != 0 {
		t.Fatalf("Expected no results for unknown term, got %v", got)
	}
	if got := ix.Search("the of"); len(got) != 0 {
		t.Fatalf("Expected no results for stop-word query, got %v", got)
	}
}

func TestIndexAddReplacesAndRemove(t *testing.T) {
	ix := New()
	ix.Add(1, "alpha beta")
	ix.Add(1, "gamma delta")

	if got := ix.Search("alpha"); len(got) != 0 {
		t.Fatalf("Expected old postings replaced, got %v", got)
	}
	if got := ix.Search("gamma"); len(got) != 1 {
		t.Fatalf("Expected replacement postings searchable, got %v", got)
	}

	ix.Remove(1)
	if ix.Size() != 0 {
		t.Fatalf("Expected empty index, got size %d", ix.Size())
	}
	if got := ix.Search("gamma"); len(got) != 0 {
		t.Fatalf("Expected no results after removal, got %v", got)
	}

	// Removing an unknown document is a no-op.
	ix.Remove(core.ID(42))
}

func TestIndexRankingPrefersHigherTF(t *testing.T) {
	ix := New()
	ix.Add(1, "whale")
	ix.Add(2, "whale whale whale whale")

	results := ix.Search("whale")
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	// Single-term cosine-normalized scores tie here; ties break by ID.
	if results[0].Score < results[1].Score {
		t.Fatal("Expected descending score order")
	}
}
