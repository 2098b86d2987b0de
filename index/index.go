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

// Package index provides lexical indexing and retrieval: tokenization with
// stop-word removal, TF-IDF corpus indexing with cosine normalization, and
// exact term position lookup for highlighting.
package index

import (
	"math"
	"sort"
	"sync"

	"github.com/docsift/docsift/core"
)

// Posting records a term occurrence count within one document.
type Posting struct {
	DocId core.ID
	TF    int
}

// Index is an inverted TF-IDF index over a document corpus. It supports
// concurrent readers; writes go through Add and Remove which take the
// write lock.
type Index struct {
	mu       sync.RWMutex
	postings map[string][]Posting
	df       map[string]int
	idf      map[string]float64
	docNorm  map[core.ID]float64
	docs     map[core.ID]bool
}

// New creates an empty index.
func New() *Index {
	return &Index{
		postings: make(map[string][]Posting),
		df:       make(map[string]int),
		idf:      make(map[string]float64),
		docNorm:  make(map[core.ID]float64),
		docs:     make(map[core.ID]bool),
	}
}

// Add indexes a document's text. Adding an already indexed document
// replaces its previous postings.
func (ix *Index) Add(id core.ID, text string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.docs[id] {
		ix.removeLocked(id)
	}

	counts := make(map[string]int)
	for _, tok := range Tokenize(text) {
		counts[tok]++
	}

	for term, tf := range counts {
		plist := append(ix.postings[term], Posting{DocId: id, TF: tf})
		sort.Slice(plist, func(i, j int) bool { return plist[i].DocId < plist[j].DocId })
		ix.postings[term] = plist
		ix.df[term]++
	}

	ix.docs[id] = true
	ix.recomputeLocked()
}

// Remove drops a document from the index.
func (ix *Index) Remove(id core.ID) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if !ix.docs[id] {
		return
	}
	ix.removeLocked(id)
	ix.recomputeLocked()
}

// Size returns the number of indexed documents.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

// removeLocked strips a document's postings. Caller holds the write lock.
func (ix *Index) removeLocked(id core.ID) {
	for term, plist := range ix.postings {
		kept := plist[:0]
		removed := false
		for _, p := range plist {
			if p.DocId == id {
				removed = true
				continue
			}
			kept = append(kept, p)
		}
		if !removed {
			continue
		}
		if len(kept) == 0 {
			delete(ix.postings, term)
			delete(ix.df, term)
		} else {
			ix.postings[term] = kept
			ix.df[term]--
		}
	}
	delete(ix.docs, id)
	delete(ix.docNorm, id)
}

// recomputeLocked rebuilds idf weights and per-document cosine norms.
// Caller holds the write lock.
func (ix *Index) recomputeLocked() {
	n := len(ix.docs)

	ix.idf = make(map[string]float64, len(ix.df))
	for term, dfi := range ix.df {
		ix.idf[term] = math.Log(float64(n+1)/float64(dfi+1)) + 1.0
	}

	ix.docNorm = make(map[core.ID]float64, n)
	for term, plist := range ix.postings {
		wIdf := ix.idf[term]
		for _, p := range plist {
			wTf := 1.0 + math.Log(float64(p.TF))
			ix.docNorm[p.DocId] += (wTf * wIdf) * (wTf * wIdf)
		}
	}
	for id, norm := range ix.docNorm {
		ix.docNorm[id] = math.Sqrt(norm)
	}
}
