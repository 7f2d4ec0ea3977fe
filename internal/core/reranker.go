// ABOUTME: Reranker fuses vector similarity with lexical term overlap
// ABOUTME: Over-fetches candidates so the lexical signal has room to reorder
package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/satchellabs/satchel/internal/models"
)

// Fusion weights. Fixed constants of the design, not derived.
const (
	similarityWeight = 0.7
	overlapWeight    = 0.3
)

// overFetchFactor controls how many candidates are requested from the
// store relative to the number ultimately returned.
const overFetchFactor = 2

// Searcher provides threshold-filtered similarity search, nearest first.
type Searcher interface {
	Search(query string, topK int) ([]models.SearchResult, error)
}

// Reranker reorders an over-fetched candidate set by a fused score.
// It holds no mutable state and is safe for concurrent use.
type Reranker struct {
	store Searcher
}

// NewReranker creates a Reranker over the given store.
func NewReranker(store Searcher) *Reranker {
	return &Reranker{store: store}
}

// Rerank fetches 2*topK candidates, scores each as
// 0.7*similarity + 0.3*termOverlap, and returns the best topK in
// descending combined-score order. Ties keep the earlier similarity rank.
// Fewer than topK surviving candidates is not an error; all are returned.
func (r *Reranker) Rerank(query string, topK int) ([]models.RankedResult, error) {
	candidates, err := r.store.Search(query, topK*overFetchFactor)
	if err != nil {
		return nil, fmt.Errorf("fetching candidates: %w", err)
	}

	queryTerms := uniqueTerms(query)

	ranked := make([]models.RankedResult, 0, len(candidates))
	for _, cand := range candidates {
		overlap := termOverlap(queryTerms, cand.Content)
		ranked = append(ranked, models.RankedResult{
			SearchResult:  cand,
			CombinedScore: similarityWeight*cand.SimilarityScore + overlapWeight*overlap,
		})
	}

	// Candidates arrive in similarity-rank order; the stable sort keeps
	// that order for equal combined scores.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CombinedScore > ranked[j].CombinedScore
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked, nil
}

// uniqueTerms returns the set of unique lowercase whitespace-delimited
// terms in text.
func uniqueTerms(text string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, term := range strings.Fields(strings.ToLower(text)) {
		terms[term] = struct{}{}
	}
	return terms
}

// termOverlap is the fraction of query terms that also appear as terms in
// content. A query with zero terms has overlap 0.
func termOverlap(queryTerms map[string]struct{}, content string) float64 {
	if len(queryTerms) == 0 {
		return 0
	}
	contentTerms := uniqueTerms(content)
	matched := 0
	for term := range queryTerms {
		if _, ok := contentTerms[term]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTerms))
}
