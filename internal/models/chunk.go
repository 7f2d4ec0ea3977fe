// ABOUTME: Chunk represents a token window of source text for embedding
// ABOUTME: Token offsets are relative to the chunking tokenizer, not characters
package models

// Chunk is a bounded token window of document text, the atomic retrieval unit.
// Chunks are immutable once produced by the chunker.
type Chunk struct {
	Text       string `json:"text"`
	StartToken int    `json:"start_token"`
	EndToken   int    `json:"end_token"`
	TokenCount int    `json:"token_count"`
}

// Document is a processed source file ready for chunking and indexing.
// Metadata carries at least "filename"; the ingest pipeline adds "title",
// "word_count" and "char_count" before chunking.
type Document struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// Filename returns the document's filename metadata, or "" if unset.
func (d Document) Filename() string {
	if v, ok := d.Metadata["filename"].(string); ok {
		return v
	}
	return ""
}
