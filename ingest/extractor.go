package ingest

import (
	"context"
	"path/filepath"
	"strings"
)

// Extractor converts the raw bytes of one file format into plain text.
// Implementations must be safe for concurrent use.
type Extractor interface {
	// Extract decodes data and returns the document text.
	// Returns an error if the data cannot be decoded or yields no text.
	Extract(ctx context.Context, data []byte) (string, error)

	// ContentType reports the canonical format name, e.g. "txt" or "docx".
	ContentType() string
}

// ExtractorFor selects an extractor by file name extension.
// Returns UnsupportedFormatError when no extractor handles the format.
func ExtractorFor(filename string) (Extractor, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "txt", "text", "md", "log":
		return PlainTextExtractor{}, nil
	case "docx":
		return DocxExtractor{}, nil
	default:
		return nil, &UnsupportedFormatError{Format: ext}
	}
}
