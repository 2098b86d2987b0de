package index

import (
	"math"
	"sort"

	"github.com/docsift/docsift/core"
)

// Search performs AND-based retrieval with TF-IDF scoring and cosine
// normalization. Every query token must appear in a document for it to be
// a candidate. Results are ranked by score descending, document ID
// ascending on ties.
func (ix *Index) Search(query string) []core.RankedDocument {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	lists := make([][]Posting, 0, len(tokens))
	for _, tok := range tokens {
		plist, ok := ix.postings[tok]
		if !ok {
			return nil
		}
		lists = append(lists, plist)
	}

	candidates := intersect(lists)
	if len(candidates) == 0 {
		return nil
	}

	// Deduplicate tokens for scoring.
	unique := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		unique[tok] = true
	}

	tfByTerm := make(map[string]map[core.ID]int, len(unique))
	for tok := range unique {
		byDoc := make(map[core.ID]int)
		for _, p := range ix.postings[tok] {
			byDoc[p.DocId] = p.TF
		}
		tfByTerm[tok] = byDoc
	}

	ranked := make([]core.RankedDocument, 0, len(candidates))
	for _, id := range candidates {
		var score float64
		for tok := range unique {
			tf := tfByTerm[tok][id]
			if tf == 0 {
				score = 0
				break
			}
			wTf := 1.0 + math.Log(float64(tf))
			score += wTf * ix.idf[tok]
		}
		if norm := ix.docNorm[id]; norm > 0 {
			score /= norm
		}
		ranked = append(ranked, core.RankedDocument{DocId: id, Score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].DocId < ranked[j].DocId
	})

	return ranked
}

// intersect returns the sorted intersection of document IDs present in all
// posting lists. The smallest list drives the scan.
func intersect(lists [][]Posting) []core.ID {
	if len(lists) == 0 {
		return nil
	}

	sort.Slice(lists, func(i, j int) bool { return len(lists[i]) < len(lists[j]) })

	common := make(map[core.ID]bool, len(lists[0]))
	for _, p := range lists[0] {
		common[p.DocId] = true
	}
	for _, plist := range lists[1:] {
		next := make(map[core.ID]bool, len(common))
		for _, p := range plist {
			if common[p.DocId] {
				next[p.DocId] = true
			}
		}
		common = next
		if len(common) == 0 {
			return nil
		}
	}

	ids := make([]core.ID, 0, len(common))
	for id := range common {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
