package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestIDFromContent(t *testing.T) {
	id1 := IDFromContent("the quick brown fox")
	id2 := IDFromContent("the quick brown fox")
	id3 := IDFromContent("the quick brown fox.")

	if id1 != id2 {
		t.Fatalf("Expected identical IDs for identical content, got %d and %d", id1, id2)
	}
	if id1 == id3 {
		t.Fatal("Expected different IDs for different content")
	}
	if id1 == 0 {
		t.Fatal("Expected non-zero ID")
	}
}

func TestMatchUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		term string
		want []int
	}{
		{
			name: "well formed",
			in:   `{"term":"cat","positions":[0,4,10]}`,
			term: "cat",
			want: []int{0, 4, 10},
		},
		{
			name: "non-numeric positions skipped",
			in:   `{"term":"cat","positions":[3,"x",null,7]}`,
			term: "cat",
			want: []int{3, 7},
		},
		{
			name: "float positions truncated",
			in:   `{"term":"cat","positions":[3.9]}`,
			term: "cat",
			want: []int{3},
		},
		{
			name: "missing positions",
			in:   `{"term":"cat"}`,
			term: "cat",
			want: nil,
		},
		{
			name: "positions not a list",
			in:   `{"term":"cat","positions":5}`,
			term: "cat",
			want: nil,
		},
		{
			name: "positions null",
			in:   `{"term":"cat","positions":null}`,
			term: "cat",
			want: nil,
		},
		{
			name: "all positions malformed",
			in:   `{"term":"cat","positions":[null,"a",{}]}`,
			term: "cat",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var m Match
			if err := json.Unmarshal([]byte(tc.in), &m); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if m.Term != tc.term {
				t.Fatalf("Expected term %q, got %q", tc.term, m.Term)
			}
			if len(m.Positions) != len(tc.want) {
				t.Fatalf("Expected positions %v, got %v", tc.want, m.Positions)
			}
			for i := range tc.want {
				if m.Positions[i] != tc.want[i] {
					t.Fatalf("Expected positions %v, got %v", tc.want, m.Positions)
				}
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	valid := &Document{
		Name:        "report.txt",
		ContentType: "txt",
		Text:        "some contents",
		InsertedAt:  time.Now().UTC(),
	}
	if err := ValidateDocument(valid); err != nil {
		t.Fatalf("Expected valid document, got %v", err)
	}

	if err := ValidateDocument(nil); err == nil {
		t.Fatal("Expected error for nil document")
	}

	noName := *valid
	noName.Name = ""
	if err := ValidateDocument(&noName); err == nil {
		t.Fatal("Expected error for empty name")
	}

	blank := *valid
	blank.Text = "   \n\t "
	if err := ValidateDocument(&blank); err == nil {
		t.Fatal("Expected error for whitespace-only text")
	}

	pdf := *valid
	pdf.ContentType = "pdf"
	if err := ValidateDocument(&pdf); err == nil {
		t.Fatal("Expected error for unsupported content type")
	}

	future := *valid
	future.InsertedAt = time.Now().Add(48 * time.Hour)
	if err := ValidateDocument(&future); err == nil {
		t.Fatal("Expected error for future timestamp")
	}
}

func TestDocumentMUSRoundTrip(t *testing.T) {
	doc := Document{
		Id:          IDFromContent("abc"),
		Name:        "notes.docx",
		ContentType: "docx",
		Text:        "The cat sat on the mat.",
		DocLength:   23,
		UniqueTerms: 4,
		InsertedAt:  time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	buf := make([]byte, DocumentMUS.Size(doc))
	n := DocumentMUS.Marshal(doc, buf)
	if n != len(buf) {
		t.Fatalf("Size reported %d bytes, Marshal wrote %d", len(buf), n)
	}

	got, n, err := DocumentMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("Expected to consume %d bytes, consumed %d", len(buf), n)
	}

	if got.Id != doc.Id || got.Name != doc.Name || got.Text != doc.Text {
		t.Fatalf("Round trip mismatch: %+v != %+v", got, doc)
	}
	if !got.InsertedAt.Equal(doc.InsertedAt) {
		t.Fatalf("Expected InsertedAt %v, got %v", doc.InsertedAt, got.InsertedAt)
	}

	skipped, err := DocumentMUS.Skip(buf)
	if err != nil {
		t.Fatalf("Failed to skip: %v", err)
	}
	if skipped != len(buf) {
		t.Fatalf("Expected Skip to consume %d bytes, consumed %d", len(buf), skipped)
	}
}
