// ABOUTME: Centralized configuration for the Satchel knowledge base
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Index backend selection values.
const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
)

// Config holds all configuration for the knowledge base. It is constructed
// once and passed into component constructors; there is no ambient global.
type Config struct {
	// Chunking settings (token units)
	ChunkSize    int
	ChunkOverlap int

	// Retrieval settings
	TopKResults         int
	SimilarityThreshold float64
	MaxContextLength    int

	// Index settings
	CollectionName string
	IndexBackend   string
	BatchSize      int
	DataDir        string

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Charm settings (charm backend only)
	CharmHost   string
	CharmDBName string
	AutoSync    bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		ChunkSize:           getEnvInt("SATCHEL_CHUNK_SIZE", 1000),
		ChunkOverlap:        getEnvInt("SATCHEL_CHUNK_OVERLAP", 200),
		TopKResults:         getEnvInt("SATCHEL_TOP_K_RESULTS", 5),
		SimilarityThreshold: getEnvFloat("SATCHEL_SIMILARITY_THRESHOLD", 0.7),
		MaxContextLength:    getEnvInt("SATCHEL_MAX_CONTEXT_LENGTH", 4000),
		CollectionName:      getEnv("SATCHEL_COLLECTION", "knowledge_base"),
		IndexBackend:        getEnv("SATCHEL_INDEX_BACKEND", BackendSQLite),
		BatchSize:           getEnvInt("SATCHEL_BATCH_SIZE", 100),
		DataDir:             os.Getenv("SATCHEL_DATA_DIR"),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		ChatModel:           getEnv("SATCHEL_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel:      getEnv("SATCHEL_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:             getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:          getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:          getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		CharmHost:           getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:         getEnv("CHARM_DB", "satchel"),
		AutoSync:            getEnvBool("CHARM_AUTO_SYNC", true),
	}

	return cfg, cfg.Validate()
}

// Validate checks configuration invariants. It runs before any work starts;
// an invalid configuration is fatal.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("SATCHEL_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("SATCHEL_CHUNK_OVERLAP must be non-negative, got %d", c.ChunkOverlap)
	}
	// An overlap >= size would keep the chunk window from ever advancing.
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("SATCHEL_CHUNK_OVERLAP (%d) must be smaller than SATCHEL_CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.TopKResults <= 0 {
		return fmt.Errorf("SATCHEL_TOP_K_RESULTS must be positive, got %d", c.TopKResults)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("SATCHEL_SIMILARITY_THRESHOLD must be 0-1, got %f", c.SimilarityThreshold)
	}
	if c.MaxContextLength <= 0 {
		return fmt.Errorf("SATCHEL_MAX_CONTEXT_LENGTH must be positive, got %d", c.MaxContextLength)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("SATCHEL_BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	if c.IndexBackend != BackendSQLite && c.IndexBackend != BackendCharm {
		return fmt.Errorf("SATCHEL_INDEX_BACKEND must be %q or %q, got %q", BackendSQLite, BackendCharm, c.IndexBackend)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
