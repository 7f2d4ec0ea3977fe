// ABOUTME: Tests for token-window chunking and text normalization
// ABOUTME: Verifies window math, overlap invariants, and illegal configs
package core

import (
	"fmt"
	"strings"
	"testing"
)

// wordTokenizer treats each whitespace-delimited word as one token.
type wordTokenizer struct {
	words []string
	ids   map[string]int
}

func newWordTokenizer() *wordTokenizer {
	return &wordTokenizer{ids: make(map[string]int)}
}

func (w *wordTokenizer) Encode(text string) []int {
	var tokens []int
	for _, word := range strings.Fields(text) {
		id, ok := w.ids[word]
		if !ok {
			id = len(w.words)
			w.words = append(w.words, word)
			w.ids[word] = id
		}
		tokens = append(tokens, id)
	}
	return tokens
}

func (w *wordTokenizer) Decode(tokens []int) string {
	parts := make([]string, len(tokens))
	for i, id := range tokens {
		parts[i] = w.words[id]
	}
	return strings.Join(parts, " ")
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses spaces", "a   b\t\tc", "a b c"},
		{"collapses newlines", "a\n\n\nb", "a\nb"},
		{"strips edges", "  hello world \n", "hello world"},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
			// Idempotence
			if again := NormalizeText(got); again != got {
				t.Errorf("NormalizeText not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNewChunker_IllegalConfig(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
		{"zero size", 0, 0},
		{"negative overlap", 100, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewChunkerWithTokenizer(newWordTokenizer(), tt.size, tt.overlap); err == nil {
				t.Errorf("NewChunkerWithTokenizer(%d, %d) = nil error, want config error", tt.size, tt.overlap)
			}
		})
	}
}

func TestChunk_ShortInputSingleChunk(t *testing.T) {
	chunker, err := NewChunkerWithTokenizer(newWordTokenizer(), 1000, 200)
	if err != nil {
		t.Fatalf("NewChunkerWithTokenizer() error = %v", err)
	}

	text := "Machine learning uses neural networks."
	chunks := chunker.Chunk(text)

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != NormalizeText(text) {
		t.Errorf("chunk text = %q, want normalized input %q", chunks[0].Text, NormalizeText(text))
	}
	if chunks[0].StartToken != 0 {
		t.Errorf("StartToken = %d, want 0", chunks[0].StartToken)
	}
	wantTokens := len(strings.Fields(text))
	if chunks[0].TokenCount != wantTokens {
		t.Errorf("TokenCount = %d, want %d", chunks[0].TokenCount, wantTokens)
	}
	if chunks[0].EndToken != wantTokens {
		t.Errorf("EndToken = %d, want %d", chunks[0].EndToken, wantTokens)
	}
}

func TestChunk_ExactSizeSingleChunk(t *testing.T) {
	chunker, err := NewChunkerWithTokenizer(newWordTokenizer(), 10, 3)
	if err != nil {
		t.Fatalf("NewChunkerWithTokenizer() error = %v", err)
	}

	chunks := chunker.Chunk(words(10))
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].TokenCount != 10 {
		t.Errorf("TokenCount = %d, want 10", chunks[0].TokenCount)
	}
}

func TestChunk_OverlapInvariants(t *testing.T) {
	const (
		size    = 10
		overlap = 3
		total   = 25
	)

	chunker, err := NewChunkerWithTokenizer(newWordTokenizer(), size, overlap)
	if err != nil {
		t.Fatalf("NewChunkerWithTokenizer() error = %v", err)
	}

	chunks := chunker.Chunk(words(total))
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}

	for i, ch := range chunks {
		if ch.EndToken-ch.StartToken > size {
			t.Errorf("chunk %d spans %d tokens, exceeds size %d", i, ch.EndToken-ch.StartToken, size)
		}
		if ch.TokenCount != ch.EndToken-ch.StartToken {
			t.Errorf("chunk %d TokenCount = %d, want %d", i, ch.TokenCount, ch.EndToken-ch.StartToken)
		}
		if i == 0 {
			continue
		}
		prev := chunks[i-1]
		got := prev.EndToken - ch.StartToken
		if got != overlap {
			t.Errorf("chunks %d/%d overlap by %d tokens, want %d", i-1, i, got, overlap)
		}
	}

	// Union of windows covers every token.
	if chunks[0].StartToken != 0 {
		t.Errorf("first chunk starts at %d, want 0", chunks[0].StartToken)
	}
	if last := chunks[len(chunks)-1]; last.EndToken != total {
		t.Errorf("last chunk ends at %d, want %d", last.EndToken, total)
	}
}

func TestChunk_EmptyText(t *testing.T) {
	chunker, err := NewChunkerWithTokenizer(newWordTokenizer(), 10, 3)
	if err != nil {
		t.Fatalf("NewChunkerWithTokenizer() error = %v", err)
	}

	for _, text := range []string{"", "   ", "\n\n"} {
		if chunks := chunker.Chunk(text); chunks != nil {
			t.Errorf("Chunk(%q) = %d chunks, want none", text, len(chunks))
		}
	}
}
