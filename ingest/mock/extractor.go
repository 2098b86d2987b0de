// Package mock provides a test double for the ingest.Extractor interface.
// It allows tests to run without real file payloads and enables controlled,
// deterministic behavior via function field injection.
package mock

import (
	"context"
	"strings"

	"github.com/docsift/docsift/ingest"
)

// MockExtractor is a test double for ingest.Extractor.
// It allows custom behavior injection via function fields.
type MockExtractor struct {
	// ExtractFunc is called by Extract if set.
	// If nil, the data bytes are returned as a string.
	ExtractFunc func(ctx context.Context, data []byte) (string, error)

	// Format is the content type reported by ContentType.
	// If empty, "txt" is reported.
	Format string

	callCount int
}

var _ ingest.Extractor = (*MockExtractor)(nil)

// NewMockExtractor creates a mock extractor with default pass-through behavior.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// Extract returns the data as text, or delegates to ExtractFunc if set.
func (m *MockExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	m.callCount++

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, data)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", ingest.ErrEmptyDocument
	}
	return text, nil
}

// ContentType reports the configured format, defaulting to "txt".
func (m *MockExtractor) ContentType() string {
	if m.Format == "" {
		return "txt"
	}
	return m.Format
}

// CallCount returns the number of Extract calls made.
func (m *MockExtractor) CallCount() int {
	return m.callCount
}
