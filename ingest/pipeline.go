package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"

	"github.com/docsift/docsift/core"
	"github.com/docsift/docsift/index"
	"github.com/docsift/docsift/storage"
)

// Pipeline orchestrates extraction, storage and index maintenance for
// uploaded files. Corpus index updates run asynchronously on a worker
// pool; errors there are logged but do not fail the ingestion.
type Pipeline struct {
	repository   storage.DocumentRepository
	idx          *index.Index
	indexPool    *ants.Pool
	extractorFor func(filename string) (Extractor, error)
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for index updates.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.indexPool != nil {
			p.indexPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.indexPool = pool
		return nil
	}
}

// WithExtractorFunc overrides how extractors are selected per file name.
// Default is ExtractorFor.
func WithExtractorFunc(fn func(filename string) (Extractor, error)) Option {
	return func(p *Pipeline) error {
		if fn == nil {
			fn = ExtractorFor
		}
		p.extractorFor = fn
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repository storage.DocumentRepository, idx *index.Index, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository:   repository,
		idx:          idx,
		indexPool:    pool,
		extractorFor: ExtractorFor,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest extracts text from data, stores the resulting document and
// schedules a corpus index update. The extractor is chosen from the
// file name extension; unsupported formats fail with
// UnsupportedFormatError.
func (p *Pipeline) Ingest(ctx context.Context, filename string, data []byte) (*core.Document, error) {
	extractor, err := p.extractorFor(filename)
	if err != nil {
		return nil, err
	}

	text, err := extractor.Extract(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("extracting %q: %w", filename, err)
	}

	doc := &core.Document{
		Name:        filename,
		ContentType: extractor.ContentType(),
		Text:        text,
		UniqueTerms: index.UniqueTerms(text),
	}

	added, err := p.repository.AddDocuments(ctx, doc)
	if err != nil {
		return nil, err
	}
	stored := added[0]

	p.submitIndexUpdate(stored.Id, stored.Text)

	p.logger.Info("ingested document",
		"name", stored.Name,
		"id", stored.Id,
		"doc_length", stored.DocLength,
		"unique_terms", stored.UniqueTerms)

	return stored, nil
}

// Remove deletes a stored document and drops it from the corpus index.
func (p *Pipeline) Remove(ctx context.Context, id core.ID) error {
	if err := p.repository.DeleteDocuments(ctx, id); err != nil {
		return err
	}
	p.idx.Remove(id)
	return nil
}

func (p *Pipeline) submitIndexUpdate(id core.ID, text string) {
	err := p.indexPool.Submit(func() {
		p.idx.Add(id, text)
	})
	if err != nil {
		p.logger.Error("error scheduling index update", "id", id, "err", err)
		p.idx.Add(id, text)
	}
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.indexPool != nil {
		p.indexPool.Release()
	}
}
