// ABOUTME: Pipeline facade exposing the knowledge base operations
// ABOUTME: Every public operation returns a success-flag result struct
package core

import (
	"fmt"

	"github.com/satchellabs/satchel/internal/models"
)

// NoRelevantInfoAnswer is returned when retrieval produces no context.
const NoRelevantInfoAnswer = "I couldn't find any relevant information in the knowledge base to answer that question."

// GreetingAnswer is returned for small-talk queries without touching
// retrieval or the LLM.
const GreetingAnswer = "Hello! Ask me anything about the documents in your knowledge base."

// DocumentLoader loads files into documents and discovers ingestable
// paths under a directory.
type DocumentLoader interface {
	LoadFile(path string) (models.Document, error)
	DiscoverFiles(root string) ([]string, error)
}

// TextChunker splits normalized text into token windows.
type TextChunker interface {
	Chunk(text string) []models.Chunk
}

// Store is the persistence surface the pipeline writes to and reads from.
type Store interface {
	Upsert(doc models.Document, chunks []models.Chunk) (int, error)
	DeleteByFilename(name string) (int, error)
	ListFilenames() ([]string, error)
	Stats() (models.CollectionStats, error)
	Clear() error
}

// AnswerGenerator produces a grounded answer from a question and context.
type AnswerGenerator interface {
	GenerateAnswer(question, contextText string, history []models.ConversationTurn) (string, error)
}

// ContextBuilder assembles a budgeted context string for a query.
type ContextBuilder interface {
	Assemble(query string, maxContextLength int) (models.ContextBundle, error)
}

// Pipeline wires the loader, chunker, store, ranker, assembler, and LLM
// into the operations the CLI and MCP front ends call.
type Pipeline struct {
	loader    DocumentLoader
	chunker   TextChunker
	store     Store
	ranker    Ranker
	assembler ContextBuilder
	generator AnswerGenerator
	router    *Router

	topK             int
	maxContextLength int
}

// PipelineOptions carries the retrieval knobs the pipeline needs.
type PipelineOptions struct {
	TopK             int
	MaxContextLength int
}

// NewPipeline assembles a pipeline from its collaborators.
func NewPipeline(
	loader DocumentLoader,
	chunker TextChunker,
	store Store,
	ranker Ranker,
	assembler ContextBuilder,
	generator AnswerGenerator,
	opts PipelineOptions,
) *Pipeline {
	return &Pipeline{
		loader:    loader,
		chunker:   chunker,
		store:     store,
		ranker:    ranker,
		assembler: assembler,
		generator: generator,
		router:    NewRouter(),

		topK:             opts.TopK,
		maxContextLength: opts.MaxContextLength,
	}
}

// IngestResult reports the outcome of an ingestion run.
type IngestResult struct {
	Success       bool     `json:"success"`
	Error         string   `json:"error,omitempty"`
	FilesFound    int      `json:"files_found"`
	FilesIngested int      `json:"files_ingested"`
	ChunksWritten int      `json:"chunks_written"`
	Failures      []string `json:"failures,omitempty"`
}

// IngestFile loads, chunks, embeds, and stores one file.
func (p *Pipeline) IngestFile(path string) IngestResult {
	result := IngestResult{FilesFound: 1}

	written, err := p.ingestOne(path)
	result.ChunksWritten = written
	if err != nil {
		result.Error = err.Error()
		result.Failures = []string{fmt.Sprintf("%s: %v", path, err)}
		return result
	}

	result.Success = true
	result.FilesIngested = 1
	return result
}

// IngestDirectory ingests every supported file under root. A failing file
// is recorded and skipped; the run succeeds if at least one file ingested
// or the directory was legitimately empty of supported files.
func (p *Pipeline) IngestDirectory(root string) IngestResult {
	var result IngestResult

	paths, err := p.loader.DiscoverFiles(root)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.FilesFound = len(paths)

	for _, path := range paths {
		written, err := p.ingestOne(path)
		result.ChunksWritten += written
		if err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		result.FilesIngested++
	}

	if len(paths) > 0 && result.FilesIngested == 0 {
		result.Error = fmt.Sprintf("all %d files failed to ingest", len(paths))
		return result
	}

	result.Success = true
	return result
}

func (p *Pipeline) ingestOne(path string) (int, error) {
	doc, err := p.loader.LoadFile(path)
	if err != nil {
		return 0, err
	}
	chunks := p.chunker.Chunk(doc.Content)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no chunks produced")
	}
	written, err := p.store.Upsert(doc, chunks)
	if err != nil {
		return written, fmt.Errorf("storing: %w", err)
	}
	return written, nil
}

// QueryResult is the answer to one question.
type QueryResult struct {
	Success       bool     `json:"success"`
	Error         string   `json:"error,omitempty"`
	Answer        string   `json:"answer,omitempty"`
	Sources       []string `json:"sources,omitempty"`
	NumChunks     int      `json:"num_chunks"`
	ContextLength int      `json:"context_length"`
}

// Query answers a question against the knowledge base. Greetings bypass
// retrieval entirely; an empty context is a successful "nothing relevant"
// answer, not an error.
func (p *Pipeline) Query(question string, history []models.ConversationTurn) QueryResult {
	if p.router.Classify(question) == QueryKindGreeting {
		return QueryResult{Success: true, Answer: GreetingAnswer}
	}

	bundle, err := p.assembler.Assemble(question, p.maxContextLength)
	if err != nil {
		return QueryResult{Error: fmt.Sprintf("retrieving context: %v", err)}
	}

	if bundle.Context == "" {
		return QueryResult{Success: true, Answer: NoRelevantInfoAnswer}
	}

	answer, err := p.generator.GenerateAnswer(question, bundle.Context, history)
	if err != nil {
		return QueryResult{Error: fmt.Sprintf("generating answer: %v", err)}
	}

	return QueryResult{
		Success:       true,
		Answer:        answer,
		Sources:       bundle.Sources,
		NumChunks:     bundle.NumChunks,
		ContextLength: bundle.ContextLength,
	}
}

// SearchResult lists reranked matches for display.
type SearchResult struct {
	Success bool                  `json:"success"`
	Error   string                `json:"error,omitempty"`
	Results []models.RankedResult `json:"results"`
}

// Search returns reranked matches for the query. No matches is a success
// with an empty result list.
func (p *Pipeline) Search(query string, topK int) SearchResult {
	if topK <= 0 {
		topK = p.topK
	}
	results, err := p.ranker.Rerank(query, topK)
	if err != nil {
		return SearchResult{Error: err.Error()}
	}
	return SearchResult{Success: true, Results: results}
}

// RemoveResult reports a document removal.
type RemoveResult struct {
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
	Found         bool   `json:"found"`
	ChunksDeleted int    `json:"chunks_deleted"`
}

// Remove deletes all chunks of the named document. Removing a filename
// that is not in the index succeeds with Found=false.
func (p *Pipeline) Remove(filename string) RemoveResult {
	deleted, err := p.store.DeleteByFilename(filename)
	if err != nil {
		return RemoveResult{Error: err.Error()}
	}
	return RemoveResult{Success: true, Found: deleted > 0, ChunksDeleted: deleted}
}

// StatsResult reports collection statistics.
type StatsResult struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error,omitempty"`
	Stats   models.CollectionStats `json:"stats"`
	NumDocs int                    `json:"num_documents"`
}

// Stats returns chunk and document counts for the collection.
func (p *Pipeline) Stats() StatsResult {
	stats, err := p.store.Stats()
	if err != nil {
		return StatsResult{Error: err.Error()}
	}
	names, err := p.store.ListFilenames()
	if err != nil {
		return StatsResult{Error: err.Error()}
	}
	return StatsResult{Success: true, Stats: stats, NumDocs: len(names)}
}

// ListResult lists the documents in the index.
type ListResult struct {
	Success   bool     `json:"success"`
	Error     string   `json:"error,omitempty"`
	Filenames []string `json:"filenames"`
}

// ListDocuments returns the distinct document filenames, sorted.
func (p *Pipeline) ListDocuments() ListResult {
	names, err := p.store.ListFilenames()
	if err != nil {
		return ListResult{Error: err.Error()}
	}
	return ListResult{Success: true, Filenames: names}
}

// ClearResult reports a collection reset.
type ClearResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Clear drops and recreates the collection.
func (p *Pipeline) Clear() ClearResult {
	if err := p.store.Clear(); err != nil {
		return ClearResult{Error: err.Error()}
	}
	return ClearResult{Success: true}
}
