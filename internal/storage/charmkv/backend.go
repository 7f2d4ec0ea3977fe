// ABOUTME: Charm KV index backend for cloud-synced chunk storage
// ABOUTME: Stores chunk records as prefix-keyed JSON with cosine scan search
package charmkv

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/kv"

	"github.com/satchellabs/satchel/internal/models"
	"github.com/satchellabs/satchel/internal/storage"
)

// Backend stores collections in Charm KV, synced to a Charm server with
// SSH key auth. The KV handle is re-opened on demand: operations after an
// external close or reset reacquire it instead of failing on a dangling
// reference.
type Backend struct {
	host     string
	dbName   string
	autoSync bool

	mu sync.Mutex
	kv *kv.KV
}

var _ storage.Backend = (*Backend)(nil)

// NewBackend opens the named Charm KV database on the given host.
func NewBackend(host, dbName string, autoSync bool) (*Backend, error) {
	b := &Backend{host: host, dbName: dbName, autoSync: autoSync}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.ensureOpen(); err != nil {
		return nil, err
	}
	return b, nil
}

// ensureOpen returns the KV handle, opening it if absent. Callers hold mu.
func (b *Backend) ensureOpen() (*kv.KV, error) {
	if b.kv != nil {
		return b.kv, nil
	}

	// kv.OpenWithDefaults reads CHARM_HOST from the environment.
	os.Setenv("CHARM_HOST", b.host)
	db, err := kv.OpenWithDefaults(b.dbName)
	if err != nil {
		return nil, fmt.Errorf("opening charm kv %q: %w", b.dbName, err)
	}
	b.kv = db

	if b.autoSync {
		_ = db.Sync()
	}
	return b.kv, nil
}

func (b *Backend) syncIfEnabled() {
	if b.autoSync && b.kv != nil {
		_ = b.kv.Sync()
	}
}

// GetOrCreateCollection writes the collection marker key if absent and
// returns a handle scoped to the collection's key prefix.
func (b *Backend) GetOrCreateCollection(name string) (storage.Collection, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	db, err := b.ensureOpen()
	if err != nil {
		return nil, err
	}

	marker := markerKey(name)
	if existing, err := db.Get([]byte(marker)); err != nil || existing == nil {
		if err := db.Set([]byte(marker), []byte("1")); err != nil {
			return nil, fmt.Errorf("creating collection %q: %w", name, err)
		}
		b.syncIfEnabled()
	}
	return &collection{backend: b, name: name}, nil
}

// DeleteCollection removes the marker and every chunk key under the
// collection prefix. Returns false when the collection did not exist.
func (b *Backend) DeleteCollection(name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	db, err := b.ensureOpen()
	if err != nil {
		return false, err
	}

	marker, err := db.Get([]byte(markerKey(name)))
	existed := err == nil && marker != nil
	if !existed {
		return false, nil
	}

	keys, err := b.listKeys(chunkPrefix(name))
	if err != nil {
		return true, fmt.Errorf("listing chunks for %q: %w", name, err)
	}
	for _, key := range keys {
		if err := db.Delete([]byte(key)); err != nil {
			return true, fmt.Errorf("deleting key %s: %w", key, err)
		}
	}
	if err := db.Delete([]byte(markerKey(name))); err != nil {
		return true, fmt.Errorf("deleting collection marker: %w", err)
	}
	b.syncIfEnabled()
	return true, nil
}

// Sync pushes and pulls against the Charm server.
func (b *Backend) Sync() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	db, err := b.ensureOpen()
	if err != nil {
		return err
	}
	return db.Sync()
}

// Reset wipes all local KV data. Cloud data is re-synced on next access.
func (b *Backend) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	db, err := b.ensureOpen()
	if err != nil {
		return err
	}
	return db.Reset()
}

// Close closes the KV database. A later operation re-opens it.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.kv == nil {
		return nil
	}
	err := b.kv.Close()
	b.kv = nil
	return err
}

// listKeys returns all keys with the given prefix. Callers hold mu.
func (b *Backend) listKeys(prefix string) ([]string, error) {
	keys, err := b.kv.Keys()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, key := range keys {
		if s := string(key); strings.HasPrefix(s, prefix) {
			out = append(out, s)
		}
	}
	return out, nil
}

func markerKey(name string) string   { return "col:" + name + ":meta" }
func chunkPrefix(name string) string { return "col:" + name + ":chunk:" }

// collection is a prefix-scoped handle into the backend's KV space.
type collection struct {
	backend *Backend
	name    string
}

func (c *collection) Add(records []models.ChunkRecord) error {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()

	db, err := c.backend.ensureOpen()
	if err != nil {
		return err
	}

	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding chunk %s: %w", rec.ID, err)
		}
		if err := db.Set([]byte(chunkPrefix(c.name)+rec.ID), data); err != nil {
			return fmt.Errorf("storing chunk %s: %w", rec.ID, err)
		}
	}
	c.backend.syncIfEnabled()
	return nil
}

func (c *collection) Query(vector []float64, k int) ([]models.QueryMatch, error) {
	records, err := c.scan()
	if err != nil {
		return nil, err
	}

	matches := make([]models.QueryMatch, 0, len(records))
	for _, rec := range records {
		matches = append(matches, models.QueryMatch{
			Text:     rec.Text,
			Metadata: rec.Metadata,
			Distance: storage.CosineDistance(vector, rec.Vector),
		})
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
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()

	db, err := c.backend.ensureOpen()
	if err != nil {
		return 0, err
	}

	keys, err := c.backend.listKeys(chunkPrefix(c.name))
	if err != nil {
		return 0, fmt.Errorf("listing chunks: %w", err)
	}

	deleted := 0
	for _, key := range keys {
		data, err := db.Get([]byte(key))
		if err != nil || data == nil {
			continue
		}
		var rec models.ChunkRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		if fmt.Sprint(rec.Metadata[field]) != value {
			continue
		}
		if err := db.Delete([]byte(key)); err != nil {
			return deleted, fmt.Errorf("deleting chunk %s: %w", key, err)
		}
		deleted++
	}
	if deleted > 0 {
		c.backend.syncIfEnabled()
	}
	return deleted, nil
}

func (c *collection) Metadatas() ([]map[string]any, error) {
	records, err := c.scan()
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, len(records))
	for i, rec := range records {
		out[i] = rec.Metadata
	}
	return out, nil
}

func (c *collection) Count() (int, error) {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()

	if _, err := c.backend.ensureOpen(); err != nil {
		return 0, err
	}
	keys, err := c.backend.listKeys(chunkPrefix(c.name))
	if err != nil {
		return 0, fmt.Errorf("listing chunks: %w", err)
	}
	return len(keys), nil
}

// scan loads every chunk record in the collection.
func (c *collection) scan() ([]models.ChunkRecord, error) {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()

	db, err := c.backend.ensureOpen()
	if err != nil {
		return nil, err
	}

	keys, err := c.backend.listKeys(chunkPrefix(c.name))
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}

	var records []models.ChunkRecord
	for _, key := range keys {
		data, err := db.Get([]byte(key))
		if err != nil || data == nil {
			continue
		}
		var rec models.ChunkRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decoding chunk %s: %w", key, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
