// ABOUTME: IndexStore adapts an index backend with embedding and filtering
// ABOUTME: Re-resolves the collection handle before every operation
package storage

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/satchellabs/satchel/internal/config"
	"github.com/satchellabs/satchel/internal/models"
)

// IndexStore wraps an index backend and the embedding collaborator. It
// owns chunk identifiers, metadata merging, batching, and the similarity
// threshold filter on query results.
type IndexStore struct {
	backend  Backend
	embedder Embedder
	cfg      *config.Config
}

// NewIndexStore creates an IndexStore over the given backend and embedder.
func NewIndexStore(backend Backend, embedder Embedder, cfg *config.Config) *IndexStore {
	return &IndexStore{backend: backend, embedder: embedder, cfg: cfg}
}

// collection re-resolves the collection handle, creating it if absent.
// An external process may have dropped or recreated the collection since
// the last call; resolving fresh avoids operating on a dangling handle.
func (s *IndexStore) collection() (Collection, error) {
	return s.backend.GetOrCreateCollection(s.cfg.CollectionName)
}

// Upsert embeds and stores the chunks of one document, merging per-chunk
// metadata with the document metadata. Writes go to the backend in batches;
// a failure on one batch leaves previously written batches durable. Returns
// the number of chunks written.
func (s *IndexStore) Upsert(doc models.Document, chunks []models.Chunk) (int, error) {
	col, err := s.collection()
	if err != nil {
		return 0, fmt.Errorf("resolving collection: %w", err)
	}

	records := make([]models.ChunkRecord, 0, len(chunks))
	for i, chunk := range chunks {
		vector, err := s.embedder.GenerateEmbedding(chunk.Text)
		if err != nil {
			return 0, fmt.Errorf("embedding chunk %d: %w", i, err)
		}

		metadata := make(map[string]any, len(doc.Metadata)+3)
		for k, v := range doc.Metadata {
			metadata[k] = v
		}
		metadata["chunk_index"] = i
		metadata["total_chunks"] = len(chunks)
		metadata["token_count"] = chunk.TokenCount

		records = append(records, models.ChunkRecord{
			ID:        uuid.New().String(),
			Text:      chunk.Text,
			Vector:    vector,
			Metadata:  metadata,
			CreatedAt: time.Now(),
		})
	}

	written := 0
	for start := 0; start < len(records); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := col.Add(records[start:end]); err != nil {
			return written, fmt.Errorf("writing batch at %d: %w", start, err)
		}
		written = end
	}
	return written, nil
}

// Search embeds the query once, fetches topK nearest matches, converts
// distance to similarity, and drops results strictly below the similarity
// threshold. Ranks are 1-based positions in the filtered nearest-first
// order.
func (s *IndexStore) Search(query string, topK int) ([]models.SearchResult, error) {
	col, err := s.collection()
	if err != nil {
		return nil, fmt.Errorf("resolving collection: %w", err)
	}

	vector, err := s.embedder.GenerateEmbedding(query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := col.Query(vector, topK)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	var results []models.SearchResult
	for _, match := range matches {
		similarity := 1 - match.Distance
		if similarity < s.cfg.SimilarityThreshold {
			continue
		}
		results = append(results, models.SearchResult{
			Content:         match.Text,
			Metadata:        match.Metadata,
			SimilarityScore: similarity,
			Rank:            len(results) + 1,
		})
	}
	return results, nil
}

// DeleteByFilename removes every stored chunk whose filename metadata
// equals name. Removing an unknown filename is a no-op, not an error.
func (s *IndexStore) DeleteByFilename(name string) (int, error) {
	col, err := s.collection()
	if err != nil {
		return 0, fmt.Errorf("resolving collection: %w", err)
	}
	deleted, err := col.DeleteWhere("filename", name)
	if err != nil {
		return 0, fmt.Errorf("deleting chunks for %q: %w", name, err)
	}
	return deleted, nil
}

// ListFilenames returns the distinct filenames present in the collection,
// sorted.
func (s *IndexStore) ListFilenames() ([]string, error) {
	col, err := s.collection()
	if err != nil {
		return nil, fmt.Errorf("resolving collection: %w", err)
	}

	metadatas, err := col.Metadatas()
	if err != nil {
		return nil, fmt.Errorf("listing metadata: %w", err)
	}

	seen := make(map[string]struct{})
	for _, md := range metadatas {
		if name, ok := md["filename"].(string); ok && name != "" {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Stats reports the collection size and identity.
func (s *IndexStore) Stats() (models.CollectionStats, error) {
	col, err := s.collection()
	if err != nil {
		return models.CollectionStats{}, fmt.Errorf("resolving collection: %w", err)
	}
	count, err := col.Count()
	if err != nil {
		return models.CollectionStats{}, fmt.Errorf("counting chunks: %w", err)
	}
	return models.CollectionStats{
		TotalChunks:    count,
		CollectionName: s.cfg.CollectionName,
		EmbeddingModel: s.cfg.EmbeddingModel,
	}, nil
}

// Clear drops and recreates the collection. Dropping an absent collection
// is not an error.
func (s *IndexStore) Clear() error {
	if _, err := s.backend.DeleteCollection(s.cfg.CollectionName); err != nil {
		return fmt.Errorf("dropping collection: %w", err)
	}
	if _, err := s.collection(); err != nil {
		return fmt.Errorf("recreating collection: %w", err)
	}
	return nil
}
