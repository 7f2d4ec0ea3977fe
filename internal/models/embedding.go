// ABOUTME: Stored chunk record and raw index query match structures
// ABOUTME: Shared between the index backends and the store adapter
package models

import "time"

// ChunkRecord is a chunk as persisted in an index collection: the chunk
// text, its embedding vector, and per-chunk metadata merged with the
// owning document's metadata. Records are created on ingestion and deleted
// by filename filter, never mutated in place.
type ChunkRecord struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Vector    []float64      `json:"vector"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

// QueryMatch is a single nearest-neighbor match returned by an index
// backend, ordered nearest first. Distance is cosine distance; the store
// adapter converts it to a similarity score.
type QueryMatch struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
	Distance float64        `json:"distance"`
}
