// ABOUTME: Ports for index backends and the embedding collaborator
// ABOUTME: Implemented by the sqlite and charmkv packages
package storage

import "github.com/satchellabs/satchel/internal/models"

// Embedder converts text into a fixed-length vector. Deterministic for
// identical input within a single embedding-model version.
type Embedder interface {
	GenerateEmbedding(text string) ([]float64, error)
}

// Collection is a resolved handle to one named index collection. Handles
// may go stale after external mutation; callers re-resolve through
// Backend.GetOrCreateCollection before every operation rather than caching
// a handle for their lifetime.
type Collection interface {
	// Add persists records in one batch. A batch either lands or fails
	// whole; completed batches stay durable regardless of later failures.
	Add(records []models.ChunkRecord) error
	// Query returns the k nearest records by cosine distance, nearest
	// first.
	Query(vector []float64, k int) ([]models.QueryMatch, error)
	// DeleteWhere removes every record whose metadata field equals value
	// and reports how many were removed. Zero matches is not an error.
	DeleteWhere(field, value string) (int, error)
	// Metadatas returns the metadata of every record in the collection.
	Metadatas() ([]map[string]any, error)
	// Count returns the number of records in the collection.
	Count() (int, error)
}

// Backend is an index store that manages named collections.
type Backend interface {
	// GetOrCreateCollection resolves a collection handle, creating the
	// collection if absent.
	GetOrCreateCollection(name string) (Collection, error)
	// DeleteCollection drops a collection. The bool reports whether a
	// collection existed; deleting an absent collection is not an error.
	DeleteCollection(name string) (bool, error)
	// Close releases backend resources.
	Close() error
}
