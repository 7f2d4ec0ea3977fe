// ABOUTME: Search, rerank and context assembly result structures
// ABOUTME: Ephemeral per-query values, discarded after use
package models

// SearchResult is a threshold-filtered similarity match for one query.
// SimilarityScore is 1 - cosine distance, in [0,1]; Rank is the 1-based
// position in the index's native nearest-first ordering after filtering.
type SearchResult struct {
	Content         string         `json:"content"`
	Metadata        map[string]any `json:"metadata"`
	SimilarityScore float64        `json:"similarity_score"`
	Rank            int            `json:"rank"`
}

// Source returns the result's originating filename, or "Unknown".
func (r SearchResult) Source() string {
	if v, ok := r.Metadata["filename"].(string); ok && v != "" {
		return v
	}
	return "Unknown"
}

// RankedResult is a SearchResult with the fused vector + lexical score.
type RankedResult struct {
	SearchResult
	CombinedScore float64 `json:"combined_score"`
}

// ContextBundle is the bounded context handed to the generation stage.
// An empty Context means "no relevant information", not an error.
type ContextBundle struct {
	Context       string   `json:"context"`
	Sources       []string `json:"sources"`
	NumChunks     int      `json:"num_chunks"`
	ContextLength int      `json:"context_length"`
}

// CollectionStats summarizes the indexed collection.
type CollectionStats struct {
	TotalChunks    int    `json:"total_chunks"`
	CollectionName string `json:"collection_name"`
	EmbeddingModel string `json:"embedding_model"`
}

// ConversationTurn is one prior user/assistant exchange passed to the
// generation stage for conversational continuity.
type ConversationTurn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}
