// ABOUTME: Chunker splits normalized text into overlapping token windows
// ABOUTME: Uses the cl100k_base subword tokenizer for predictable chunk sizes
package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/satchellabs/satchel/internal/models"
)

// chunkEncoding is the fixed tokenizer shared across the system. It exists
// purely to bound chunk size in token units; embedding and generation use
// their own tokenizers.
const chunkEncoding = "cl100k_base"

var (
	spaceRuns   = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlineRuns = regexp.MustCompile(`\n+`)
)

// Tokenizer encodes text to token IDs and back. The production
// implementation is tiktoken's cl100k_base; tests substitute a
// deterministic fake.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenizer struct {
	enc *tiktoken.Tiktoken
}

func (t tiktokenizer) Encode(text string) []int   { return t.enc.Encode(text, nil, nil) }
func (t tiktokenizer) Decode(tokens []int) string { return t.enc.Decode(tokens) }

// Chunker produces overlapping token-window chunks. It holds no mutable
// state and is safe for concurrent use.
type Chunker struct {
	tok       Tokenizer
	chunkSize int
	overlap   int
}

// NewChunker creates a Chunker backed by the cl100k_base tokenizer.
// An overlap >= chunk size is an illegal configuration: the window would
// never advance.
func NewChunker(chunkSize, chunkOverlap int) (*Chunker, error) {
	enc, err := tiktoken.GetEncoding(chunkEncoding)
	if err != nil {
		return nil, fmt.Errorf("loading %s encoding: %w", chunkEncoding, err)
	}
	return NewChunkerWithTokenizer(tiktokenizer{enc}, chunkSize, chunkOverlap)
}

// NewChunkerWithTokenizer creates a Chunker with an explicit tokenizer.
func NewChunkerWithTokenizer(tok Tokenizer, chunkSize, chunkOverlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("chunk overlap must be non-negative, got %d", chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", chunkOverlap, chunkSize)
	}
	return &Chunker{tok: tok, chunkSize: chunkSize, overlap: chunkOverlap}, nil
}

// NormalizeText collapses runs of whitespace to a single space, runs of
// newlines to a single newline, and strips leading/trailing whitespace.
// Applying it twice yields the same result as once.
func NormalizeText(text string) string {
	text = spaceRuns.ReplaceAllString(text, " ")
	text = newlineRuns.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// Chunk normalizes text and splits it into overlapping token windows.
// Consecutive windows overlap by exactly the configured overlap except
// possibly the final window, which may be shorter than the chunk size.
// Empty input produces no chunks.
func (c *Chunker) Chunk(text string) []models.Chunk {
	tokens := c.tok.Encode(NormalizeText(text))

	var chunks []models.Chunk
	start := 0

	for start < len(tokens) {
		end := start + c.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}

		window := tokens[start:end]
		chunks = append(chunks, models.Chunk{
			Text:       c.tok.Decode(window),
			StartToken: start,
			EndToken:   end,
			TokenCount: len(window),
		})

		start = end - c.overlap
		if start >= len(tokens)-c.overlap {
			break
		}
	}

	return chunks
}
