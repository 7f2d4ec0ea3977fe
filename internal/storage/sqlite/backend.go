// ABOUTME: SQLite-backed index backend with brute-force cosine queries
// ABOUTME: Vectors and metadata are stored as JSON columns per chunk
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/satchellabs/satchel/internal/models"
	"github.com/satchellabs/satchel/internal/storage"
)

// Backend stores collections of embedded chunks in a local SQLite file.
type Backend struct {
	db *sql.DB
}

var _ storage.Backend = (*Backend)(nil)

// NewBackend opens (or creates) the index database at path. An empty path
// uses the default XDG location.
func NewBackend(path string) (*Backend, error) {
	if path == "" {
		path = DefaultDBPath()
	}
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	return &Backend{db: db}, nil
}

// GetOrCreateCollection resolves the collection id for name, inserting a
// row if absent. Callers re-resolve before every operation, so a
// collection dropped by another process is recreated here rather than
// surfacing as a dangling handle.
func (b *Backend) GetOrCreateCollection(name string) (storage.Collection, error) {
	if _, err := b.db.Exec(`INSERT INTO collections (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
		return nil, fmt.Errorf("creating collection %q: %w", name, err)
	}

	var id int64
	if err := b.db.QueryRow(`SELECT id FROM collections WHERE name = ?`, name).Scan(&id); err != nil {
		return nil, fmt.Errorf("resolving collection %q: %w", name, err)
	}
	return &collection{db: b.db, id: id}, nil
}

// DeleteCollection drops the collection and its chunks. Returns false
// when no collection by that name existed.
func (b *Backend) DeleteCollection(name string) (bool, error) {
	tx, err := b.db.Begin()
	if err != nil {
		return false, fmt.Errorf("starting delete transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM chunks WHERE collection_id IN (SELECT id FROM collections WHERE name = ?)`, name); err != nil {
		return false, fmt.Errorf("deleting chunks: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM collections WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("deleting collection row: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing delete: %w", err)
	}
	return affected > 0, nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// collection is a resolved handle to one collection row. Handles are
// short-lived; the store adapter resolves a fresh one per operation.
type collection struct {
	db *sql.DB
	id int64
}

func (c *collection) Add(records []models.ChunkRecord) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("starting batch transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO chunks (id, collection_id, text, metadata, vector, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		metadata, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata for %s: %w", rec.ID, err)
		}
		vector, err := json.Marshal(rec.Vector)
		if err != nil {
			return fmt.Errorf("encoding vector for %s: %w", rec.ID, err)
		}
		if _, err := stmt.Exec(rec.ID, c.id, rec.Text, string(metadata), string(vector), rec.CreatedAt); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

func (c *collection) Query(vector []float64, k int) ([]models.QueryMatch, error) {
	rows, err := c.db.Query(`SELECT text, metadata, vector FROM chunks WHERE collection_id = ?`, c.id)
	if err != nil {
		return nil, fmt.Errorf("scanning chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []models.QueryMatch
	for rows.Next() {
		var text, metadataJSON, vectorJSON string
		if err := rows.Scan(&text, &metadataJSON, &vectorJSON); err != nil {
			return nil, fmt.Errorf("reading chunk row: %w", err)
		}

		var metadata map[string]any
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata: %w", err)
		}
		var stored []float64
		if err := json.Unmarshal([]byte(vectorJSON), &stored); err != nil {
			return nil, fmt.Errorf("decoding vector: %w", err)
		}

		matches = append(matches, models.QueryMatch{
			Text:     text,
			Metadata: metadata,
			Distance: storage.CosineDistance(vector, stored),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (c *collection) DeleteWhere(field, value string) (int, error) {
	res, err := c.db.Exec(
		`DELETE FROM chunks WHERE collection_id = ? AND CAST(json_extract(metadata, ?) AS TEXT) = ?`,
		c.id, "$."+field, value,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting chunks by %s: %w", field, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return int(affected), nil
}

func (c *collection) Metadatas() ([]map[string]any, error) {
	rows, err := c.db.Query(`SELECT metadata FROM chunks WHERE collection_id = ?`, c.id)
	if err != nil {
		return nil, fmt.Errorf("scanning metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []map[string]any
	for rows.Next() {
		var metadataJSON string
		if err := rows.Scan(&metadataJSON); err != nil {
			return nil, fmt.Errorf("reading metadata row: %w", err)
		}
		var metadata map[string]any
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata: %w", err)
		}
		out = append(out, metadata)
	}
	return out, rows.Err()
}

func (c *collection) Count() (int, error) {
	var count int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM chunks WHERE collection_id = ?`, c.id).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}
