// ABOUTME: Shared pipeline construction for CLI commands
// ABOUTME: Wires config, backend, LLM client, and core components together
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/satchellabs/satchel/internal/config"
	"github.com/satchellabs/satchel/internal/core"
	"github.com/satchellabs/satchel/internal/ingest"
	"github.com/satchellabs/satchel/internal/llm"
	"github.com/satchellabs/satchel/internal/storage"
	"github.com/satchellabs/satchel/internal/storage/charmkv"
	"github.com/satchellabs/satchel/internal/storage/sqlite"
)

// newPipeline builds the full pipeline from environment configuration.
// The returned cleanup closes the index backend.
func newPipeline() (*core.Pipeline, func(), error) {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	if cfg.OpenAIKey == "" {
		return nil, nil, fmt.Errorf("OPENAI_API_KEY is not set (put it in the environment or a .env file)")
	}

	client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: llm.EmbeddingModelFromName(cfg.EmbeddingModel),
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initializing OpenAI client: %w", err)
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = backend.Close() }

	store := storage.NewIndexStore(backend, client, cfg)

	chunker, err := core.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("initializing chunker: %w", err)
	}

	reranker := core.NewReranker(store)
	assembler := core.NewAssembler(reranker, cfg.TopKResults)

	pipeline := core.NewPipeline(
		ingest.NewProcessor(),
		chunker,
		store,
		reranker,
		assembler,
		client,
		core.PipelineOptions{
			TopK:             cfg.TopKResults,
			MaxContextLength: cfg.MaxContextLength,
		},
	)
	return pipeline, cleanup, nil
}

// newStore builds just the index store, for commands that never embed or
// generate (list, remove, clear). No API key is required.
func newStore() (*storage.IndexStore, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = backend.Close() }

	return storage.NewIndexStore(backend, nil, cfg), cleanup, nil
}

// newBackend selects the index backend from configuration.
func newBackend(cfg *config.Config) (storage.Backend, error) {
	switch cfg.IndexBackend {
	case config.BackendCharm:
		backend, err := charmkv.NewBackend(cfg.CharmHost, cfg.CharmDBName, cfg.AutoSync)
		if err != nil {
			return nil, fmt.Errorf("initializing charm backend: %w", err)
		}
		return backend, nil
	default:
		path := ""
		if cfg.DataDir != "" {
			path = filepath.Join(cfg.DataDir, "index.db")
		}
		backend, err := sqlite.NewBackend(path)
		if err != nil {
			return nil, fmt.Errorf("initializing sqlite backend: %w", err)
		}
		return backend, nil
	}
}
