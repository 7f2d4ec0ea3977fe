// ABOUTME: Assembler builds a bounded context string from reranked results
// ABOUTME: Enforces a hard character budget with deterministic truncation
package core

import (
	"fmt"
	"strings"

	"github.com/satchellabs/satchel/internal/models"
)

const (
	// safetyMargin is subtracted from the remaining budget before a
	// partial fit is attempted.
	safetyMargin = 50
	// minViableChunk is the smallest truncated content worth emitting.
	minViableChunk = 100
	// blockSeparator joins included blocks in the final context.
	blockSeparator = "\n---\n"
	// ellipsis marks truncated content.
	ellipsis = "..."
)

// Ranker produces reranked results for a query.
type Ranker interface {
	Rerank(query string, topK int) ([]models.RankedResult, error)
}

// Assembler accumulates ranked results into a single context string under
// a character budget. It holds no mutable state and is safe for
// concurrent use.
type Assembler struct {
	ranker Ranker
	topK   int
}

// NewAssembler creates an Assembler using the given default top-k.
func NewAssembler(ranker Ranker, topK int) *Assembler {
	return &Assembler{ranker: ranker, topK: topK}
}

// Assemble reranks results for the query and accumulates them as labeled
// blocks while the running character total stays within maxContextLength.
// When a full block would overflow, a partial fit is attempted: content is
// truncated to the remaining space (after the header and a safety margin)
// if at least minViableChunk characters remain, and no further results are
// processed after a truncation. An empty bundle means "no relevant
// information", not an error.
func (a *Assembler) Assemble(query string, maxContextLength int) (models.ContextBundle, error) {
	results, err := a.ranker.Rerank(query, a.topK)
	if err != nil {
		return models.ContextBundle{}, fmt.Errorf("reranking results: %w", err)
	}

	var (
		blocks      []string
		totalLength int
		sources     = make(map[string]struct{})
	)

	for _, res := range results {
		source := res.Source()
		header := fmt.Sprintf("[Source: %s]\n", source)
		block := header + res.Content + "\n"

		if totalLength+len(block) <= maxContextLength {
			blocks = append(blocks, block)
			totalLength += len(block)
			sources[source] = struct{}{}
			continue
		}

		// Partial fit, then stop: nothing after a truncated block.
		remaining := maxContextLength - totalLength - len(header) - safetyMargin
		if remaining > minViableChunk {
			truncated := truncateRunes(res.Content, remaining) + ellipsis
			block = header + truncated + "\n"
			blocks = append(blocks, block)
			totalLength += len(block)
			sources[source] = struct{}{}
		}
		break
	}

	bundle := models.ContextBundle{
		Context:       strings.Join(blocks, blockSeparator),
		Sources:       make([]string, 0, len(sources)),
		NumChunks:     len(blocks),
		ContextLength: totalLength,
	}
	for source := range sources {
		bundle.Sources = append(bundle.Sources, source)
	}
	return bundle, nil
}

// truncateRunes cuts s to at most n runes without splitting a character.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
