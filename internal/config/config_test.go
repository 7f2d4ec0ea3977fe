// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Verifies defaults, env overrides, and fail-fast invariants
package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ChunkSize != 1000 {
		t.Errorf("ChunkSize = %d, want 1000", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 200 {
		t.Errorf("ChunkOverlap = %d, want 200", cfg.ChunkOverlap)
	}
	if cfg.TopKResults != 5 {
		t.Errorf("TopKResults = %d, want 5", cfg.TopKResults)
	}
	if cfg.SimilarityThreshold != 0.7 {
		t.Errorf("SimilarityThreshold = %f, want 0.7", cfg.SimilarityThreshold)
	}
	if cfg.MaxContextLength != 4000 {
		t.Errorf("MaxContextLength = %d, want 4000", cfg.MaxContextLength)
	}
	if cfg.CollectionName != "knowledge_base" {
		t.Errorf("CollectionName = %q, want %q", cfg.CollectionName, "knowledge_base")
	}
	if cfg.IndexBackend != BackendSQLite {
		t.Errorf("IndexBackend = %q, want %q", cfg.IndexBackend, BackendSQLite)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SATCHEL_CHUNK_SIZE", "512")
	t.Setenv("SATCHEL_CHUNK_OVERLAP", "64")
	t.Setenv("SATCHEL_SIMILARITY_THRESHOLD", "0.5")
	t.Setenv("SATCHEL_INDEX_BACKEND", "charm")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ChunkSize != 512 {
		t.Errorf("ChunkSize = %d, want 512", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 64 {
		t.Errorf("ChunkOverlap = %d, want 64", cfg.ChunkOverlap)
	}
	if cfg.SimilarityThreshold != 0.5 {
		t.Errorf("SimilarityThreshold = %f, want 0.5", cfg.SimilarityThreshold)
	}
	if cfg.IndexBackend != BackendCharm {
		t.Errorf("IndexBackend = %q, want charm", cfg.IndexBackend)
	}
}

func TestValidate_Invariants(t *testing.T) {
	base := func() *Config {
		return &Config{
			ChunkSize:           1000,
			ChunkOverlap:        200,
			TopKResults:         5,
			SimilarityThreshold: 0.7,
			MaxContextLength:    4000,
			BatchSize:           100,
			IndexBackend:        BackendSQLite,
			MaxRetries:          3,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"overlap equals size", func(c *Config) { c.ChunkOverlap = c.ChunkSize }, "CHUNK_OVERLAP"},
		{"overlap exceeds size", func(c *Config) { c.ChunkOverlap = c.ChunkSize + 1 }, "CHUNK_OVERLAP"},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, "CHUNK_SIZE"},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }, "CHUNK_OVERLAP"},
		{"threshold too high", func(c *Config) { c.SimilarityThreshold = 1.5 }, "SIMILARITY_THRESHOLD"},
		{"threshold negative", func(c *Config) { c.SimilarityThreshold = -0.1 }, "SIMILARITY_THRESHOLD"},
		{"zero top k", func(c *Config) { c.TopKResults = 0 }, "TOP_K_RESULTS"},
		{"zero context length", func(c *Config) { c.MaxContextLength = 0 }, "MAX_CONTEXT_LENGTH"},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, "BATCH_SIZE"},
		{"unknown backend", func(c *Config) { c.IndexBackend = "redis" }, "INDEX_BACKEND"},
		{"retries out of range", func(c *Config) { c.MaxRetries = 11 }, "MAX_RETRIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
