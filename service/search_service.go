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

// Package service wraps document search with query normalization, LRU
// caching, latency measurement and stats exposure.
package service

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/docsift/docsift/core"
	"github.com/docsift/docsift/index"
)

// Cache tags reported on search results.
const (
	CacheHit  = "HIT"
	CacheMiss = "MISS"
)

// CacheStats reports LRU cache effectiveness.
type CacheStats struct {
	Capacity int     `json:"capacity"`
	Size     int     `json:"size"`
	Hits     int     `json:"hits"`
	Misses   int     `json:"misses"`
	HitRatio float64 `json:"hit_ratio"`
}

// Stats aggregates service-level metrics.
type Stats struct {
	TotalQueries int        `json:"total_queries"`
	AvgLatencyMs float64    `json:"avg_latency_ms"`
	Cache        CacheStats `json:"cache"`
}

// SearchService searches the single active document for exact query terms
// and reports their byte positions. Results are cached per normalized
// query; loading a new document clears the cache. Safe for concurrent use.
type SearchService struct {
	mu           sync.Mutex
	doc          *core.Document
	cache        *LRUCache
	totalQueries int
	totalTimeMs  float64
	logger       *slog.Logger
}

// Option configures a SearchService.
type Option func(*SearchService) error

// WithCacheCapacity sets the LRU cache capacity.
// Default is 256.
func WithCacheCapacity(capacity int) Option {
	return func(s *SearchService) error {
		cache, err := NewLRUCache(capacity)
		if err != nil {
			return err
		}
		s.cache = cache
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *SearchService) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearchService creates a search service with no document loaded.
func NewSearchService(opts ...Option) (*SearchService, error) {
	cache, err := NewLRUCache(256)
	if err != nil {
		return nil, err
	}

	s := &SearchService{
		cache:  cache,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SetDocument installs the active document, discarding cached results for
// the previous one.
func (s *SearchService) SetDocument(doc *core.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.cache.Reset()
}

// Document returns the active document, or nil.
func (s *SearchService) Document() *core.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// ClearDocument unloads the active document and its cached results.
func (s *SearchService) ClearDocument() {
	s.SetDocument(nil)
}

// Search finds every case-insensitive occurrence of each distinct query
// word in the active document. Exact terms are searched, not preprocessed
// tokens, so all visible occurrences are found. Returns ErrNoDocument when
// no document is loaded and ErrEmptyQuery for blank queries.
func (s *SearchService) Search(query string) (*core.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchLocked(query)
}

// SearchText runs Search and also returns the text of the document the
// result was computed against. Both come from the same lock acquisition,
// so a concurrent SetDocument cannot pair positions with swapped text.
func (s *SearchService) SearchText(query string) (*core.SearchResult, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.searchLocked(query)
	if err != nil {
		return nil, "", err
	}
	return result, s.doc.Text, nil
}

func (s *SearchService) searchLocked(query string) (*core.SearchResult, error) {
	start := time.Now()
	s.totalQueries++

	if s.doc == nil {
		return nil, ErrNoDocument
	}

	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}

	cacheKey := strings.ToLower(q)
	if matches, ok := s.cache.Get(cacheKey); ok {
		elapsed := s.observe(start)
		return &core.SearchResult{
			Query:        query,
			Matches:      matches,
			TotalMatches: countPositions(matches),
			TimeMs:       elapsed,
			Cache:        CacheHit,
		}, nil
	}

	matches := []core.Match{}
	seen := make(map[string]bool)
	for _, word := range strings.Fields(q) {
		lower := strings.ToLower(word)
		if seen[lower] {
			continue
		}
		seen[lower] = true

		positions := index.FindTermPositions(s.doc.Text, word)
		if len(positions) > 0 {
			matches = append(matches, core.Match{Term: word, Positions: positions})
		}
	}

	s.cache.Put(cacheKey, matches)
	s.logger.Debug("document searched", "query", q, "terms", len(matches))

	elapsed := s.observe(start)
	return &core.SearchResult{
		Query:        query,
		Matches:      matches,
		TotalMatches: countPositions(matches),
		TimeMs:       elapsed,
		Cache:        CacheMiss,
	}, nil
}

// Stats returns aggregate service metrics.
func (s *SearchService) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	avg := 0.0
	if s.totalQueries > 0 {
		avg = s.totalTimeMs / float64(s.totalQueries)
	}
	return Stats{
		TotalQueries: s.totalQueries,
		AvgLatencyMs: avg,
		Cache:        s.cache.Stats(),
	}
}

// observe records the elapsed time and returns it in milliseconds.
// Caller holds the lock.
func (s *SearchService) observe(start time.Time) float64 {
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	s.totalTimeMs += elapsed
	return elapsed
}

func countPositions(matches []core.Match) int {
	total := 0
	for _, m := range matches {
		total += len(m.Positions)
	}
	return total
}
