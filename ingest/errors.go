package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrRepositoryRequired is returned when a document repository is not provided.
	ErrRepositoryRequired = errors.New("document repository required")

	// ErrIndexRequired is returned when a corpus index is not provided.
	ErrIndexRequired = errors.New("corpus index required")

	// ErrEmptyDocument is returned when extraction yields no text.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrUndecodableText is returned when file bytes cannot be decoded
	// with any supported encoding.
	ErrUndecodableText = errors.New("could not decode file as text")
)

// UnsupportedFormatError is returned for file formats no extractor handles.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %q", e.Format)
}
