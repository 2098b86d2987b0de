// Copyright 2025 Docsift Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"fmt"
	"strings"
	"time"
)

// ContentTypes accepted by the system. PDF and legacy DOC are rejected at
// the extraction layer before a Document is ever constructed.
var validContentTypes = map[string]bool{
	"txt":  true,
	"docx": true,
}

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Text must contain at least one non-whitespace character
//   - ContentType must be a supported format
//   - InsertedAt must not be in the future
//
// NOT validated (populated later by the pipeline):
//   - UniqueTerms (0 until the document has been indexed)
//   - DocLength (derived from Text on store)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyName)
	}

	if strings.TrimSpace(doc.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyText)
	}

	if !validContentTypes[doc.ContentType] {
		return fmt.Errorf("%w: %w: %q", ErrInvalidDocument, ErrInvalidContentType, doc.ContentType)
	}

	if !IsValidTimestamp(doc.InsertedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrInvalidTimestamp)
	}

	return nil
}

// IsValidTimestamp reports whether the timestamp is zero or not in the future.
// A small clock-skew allowance is applied.
func IsValidTimestamp(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	return !t.After(time.Now().Add(time.Minute))
}
