package reindex

import (
	"context"
	"fmt"
	"time"

	"github.com/docsift/docsift/core"
	"github.com/docsift/docsift/index"
	"github.com/docsift/docsift/storage"
)

// BatchProcessor recomputes derived statistics for batches of documents
// and feeds their text back into the corpus index.
type BatchProcessor struct {
	repo           storage.DocumentRepository
	idx            *index.Index
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for storage updates
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.DocumentRepository, idx *index.Index, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		idx:            idx,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process recomputes statistics for a batch of documents, persists any
// changes, and adds each document to the corpus index.
func (bp *BatchProcessor) Process(ctx context.Context, docs []*core.Document) error {
	if len(docs) == 0 {
		return nil
	}

	var changed []*core.Document
	for _, doc := range docs {
		docLength := len(doc.Text)
		uniqueTerms := index.UniqueTerms(doc.Text)

		if doc.DocLength != docLength || doc.UniqueTerms != uniqueTerms {
			doc.DocLength = docLength
			doc.UniqueTerms = uniqueTerms
			changed = append(changed, doc)
		}

		bp.idx.Add(doc.Id, doc.Text)
	}

	if len(changed) == 0 {
		return nil
	}

	err := RetryWithBackoff(ctx, func() error {
		_, updateErr := bp.repo.UpdateDocuments(ctx, changed...)
		return updateErr
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to update documents after %d attempts: %w", bp.maxRetries, err)
	}

	return nil
}
