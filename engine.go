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

// Package docsift wires the document search engine together: persistent
// document storage, the in-memory ranked corpus index, the per-document
// search service and the ingestion pipeline.
package docsift

import (
	"context"
	"io"
	"log/slog"

	"github.com/docsift/docsift/index"
	"github.com/docsift/docsift/ingest"
	"github.com/docsift/docsift/reindex"
	"github.com/docsift/docsift/service"
	"github.com/docsift/docsift/storage"
	"github.com/docsift/docsift/storage/badger"
)

// Engine is the top-level handle over the search system's components.
type Engine struct {
	backend *badger.Backend
	repo    storage.DocumentRepository
	idx     *index.Index
	svc     *service.SearchService
	logger  *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	inMemory      bool
	cacheCapacity int
	logger        *slog.Logger
}

// WithInMemory opens the storage backend without a backing file.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithCacheCapacity sets the search result cache capacity.
func WithCacheCapacity(capacity int) EngineOption {
	return func(o *engineOptions) {
		o.cacheCapacity = capacity
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// NewEngine opens storage at filePath and wires up the search components.
// The corpus index is rebuilt from stored documents on startup.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repo := badger.NewDocumentRepository(backend)

	svcOpts := []service.Option{service.WithLogger(logger)}
	if options.cacheCapacity > 0 {
		svcOpts = append(svcOpts, service.WithCacheCapacity(options.cacheCapacity))
	}
	svc, err := service.NewSearchService(svcOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	e := &Engine{
		backend: backend,
		repo:    repo,
		idx:     index.New(),
		svc:     svc,
		logger:  logger,
	}

	if err := e.loadIndex(context.Background()); err != nil {
		backend.Close()
		return nil, err
	}

	return e, nil
}

// loadIndex populates the corpus index from stored documents.
func (e *Engine) loadIndex(ctx context.Context) error {
	docs, err := e.repo.GetAllDocuments(ctx)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		e.idx.Add(doc.Id, doc.Text)
	}
	if len(docs) > 0 {
		e.logger.Info("corpus index loaded", "documents", len(docs))
	}
	return nil
}

// Close releases all engine resources.
func (e *Engine) Close() error {
	if err := e.repo.Close(); err != nil {
		e.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// DocumentRepository returns the persistent document store.
func (e *Engine) DocumentRepository() storage.DocumentRepository {
	return e.repo
}

// Index returns the in-memory corpus index.
func (e *Engine) Index() *index.Index {
	return e.idx
}

// SearchService returns the per-document search service.
func (e *Engine) SearchService() *service.SearchService {
	return e.svc
}

// NewIngestionPipeline creates a pipeline bound to this engine's
// repository and corpus index.
func (e *Engine) NewIngestionPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(e.repo, e.idx, opts...)
}

// NewReindexer creates a reindexer over this engine's repository.
// Progress output is written to progress.
func (e *Engine) NewReindexer(cfg *reindex.Config, progress io.Writer) (*reindex.Reindexer, error) {
	return reindex.NewReindexer(e.repo, e.idx, cfg, progress)
}
