package core

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Document IDs are generated from content hashing so that re-uploading
// identical content produces the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document represents a single uploaded document held by the system.
type Document struct {
	Id          ID
	Name        string
	ContentType string // Source format: "txt" or "docx"
	Text        string // Full extracted plain text
	DocLength   int    // Length of Text in bytes
	UniqueTerms int    // Number of distinct index terms (populated by the pipeline)
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// Match is a server-reported term together with the byte offsets of its
// occurrences in the document text.
type Match struct {
	Term      string `json:"term"`
	Positions []int  `json:"positions"`
}

// UnmarshalJSON decodes a match entry while tolerating malformed input.
// Null, non-numeric and non-finite position values are skipped rather
// than rejected; a missing or non-list positions field leaves Positions
// nil.
func (m *Match) UnmarshalJSON(data []byte) error {
	var raw struct {
		Term      string          `json:"term"`
		Positions json.RawMessage `json:"positions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Term = raw.Term
	m.Positions = nil

	var entries []json.RawMessage
	if json.Unmarshal(raw.Positions, &entries) != nil {
		return nil
	}
	for _, p := range entries {
		var v *float64
		if err := json.Unmarshal(p, &v); err != nil || v == nil {
			continue
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		m.Positions = append(m.Positions, int(*v))
	}
	return nil
}

// SearchResult is the outcome of searching the current document.
type SearchResult struct {
	Query        string  `json:"query"`
	Matches      []Match `json:"matches"`
	TotalMatches int     `json:"total_matches"`
	TimeMs       float64 `json:"time_ms"`
	Cache        string  `json:"cache"` // "HIT" or "MISS"
}

// RankedDocument is a corpus retrieval hit with a relevance score.
type RankedDocument struct {
	DocId ID
	Score float64
}
