// ABOUTME: Tests for document loading, extraction, and discovery
// ABOUTME: Uses temp directories with real txt and md files
package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFile_PlainText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "Machine learning uses neural networks.")

	doc, err := NewProcessor().LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if doc.Content != "Machine learning uses neural networks." {
		t.Errorf("Content = %q", doc.Content)
	}
	if doc.Metadata["filename"] != "notes.txt" {
		t.Errorf("filename = %v", doc.Metadata["filename"])
	}
	if doc.Metadata["title"] != "notes" {
		t.Errorf("title = %v, want notes", doc.Metadata["title"])
	}
	if doc.Metadata["word_count"] != 5 {
		t.Errorf("word_count = %v, want 5", doc.Metadata["word_count"])
	}
	if doc.Metadata["file_ext"] != ".txt" {
		t.Errorf("file_ext = %v", doc.Metadata["file_ext"])
	}
}

func TestLoadFile_MarkdownStripped(t *testing.T) {
	dir := t.TempDir()
	md := "# Getting Started\n\nSee the [docs](https://example.com) for `setup` details.\n\n- **bold** item\n> quoted line\n"
	path := writeFile(t, dir, "guide.md", md)

	doc, err := NewProcessor().LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	content := doc.Content
	for _, forbidden := range []string{"#", "[", "](", "**", "`", ">"} {
		if strings.Contains(content, forbidden) {
			t.Errorf("content still contains %q: %q", forbidden, content)
		}
	}
	for _, want := range []string{"Getting Started", "docs", "setup", "bold item", "quoted line"} {
		if !strings.Contains(content, want) {
			t.Errorf("content missing %q: %q", want, content)
		}
	}
	if doc.Metadata["title"] != "Getting Started" {
		t.Errorf("title = %v, want Getting Started", doc.Metadata["title"])
	}
}

func TestLoadFile_MarkdownCodeFenceKeptAsText(t *testing.T) {
	dir := t.TempDir()
	md := "# Snippets\n\n```go\nfunc main() {}\n```\n"
	path := writeFile(t, dir, "code.md", md)

	doc, err := NewProcessor().LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if !strings.Contains(doc.Content, "func main() {}") {
		t.Errorf("code block content dropped: %q", doc.Content)
	}
	if strings.Contains(doc.Content, "```") {
		t.Errorf("fence markers survived: %q", doc.Content)
	}
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "report.pdf", "%PDF-1.4")

	if _, err := NewProcessor().LoadFile(path); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestLoadFile_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.txt", "   \n\n  ")

	if _, err := NewProcessor().LoadFile(path); err == nil {
		t.Error("expected error for file with no extractable text")
	}
}

func TestLoadFile_InvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "binary.txt")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x01}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := NewProcessor().LoadFile(path); err == nil {
		t.Error("expected error for invalid UTF-8")
	}
}

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "alpha")
	writeFile(t, dir, "sub/b.md", "# beta")
	writeFile(t, dir, "sub/c.pdf", "binary")
	writeFile(t, dir, ".hidden.txt", "secret")
	writeFile(t, dir, ".git/config.txt", "repo")

	paths, err := NewProcessor().DiscoverFiles(dir)
	if err != nil {
		t.Fatalf("DiscoverFiles() error = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2: %v", len(paths), paths)
	}
	if filepath.Base(paths[0]) != "a.txt" || filepath.Base(paths[1]) != "b.md" {
		t.Errorf("unexpected paths: %v", paths)
	}
}

func TestDiscoverFiles_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "alpha")

	if _, err := NewProcessor().DiscoverFiles(path); err == nil {
		t.Error("expected error for non-directory root")
	}
}

func TestSupportedExtensions(t *testing.T) {
	p := NewProcessor()
	exts := p.SupportedExtensions()
	want := map[string]bool{".txt": true, ".md": true}
	found := 0
	for _, ext := range exts {
		if want[ext] {
			found++
		}
	}
	if found != 2 {
		t.Errorf("SupportedExtensions() = %v, missing built-ins", exts)
	}

	p.Register(".rst", func(data []byte) (string, error) { return string(data), nil })
	if !p.Supported("doc.rst") {
		t.Error("registered extension not supported")
	}
}
