// ABOUTME: Document loading and text extraction for ingestion
// ABOUTME: Supports plain text and Markdown with metadata enrichment
package ingest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/satchellabs/satchel/internal/models"
)

// Extractor converts raw file bytes into plain text. Registering one per
// extension keeps format support open without touching the processor.
type Extractor func(data []byte) (string, error)

// Processor loads files into Documents ready for chunking.
type Processor struct {
	extractors map[string]Extractor
}

// NewProcessor returns a processor with the built-in txt and md extractors.
func NewProcessor() *Processor {
	p := &Processor{extractors: map[string]Extractor{}}
	p.Register(".txt", extractPlainText)
	p.Register(".text", extractPlainText)
	p.Register(".md", extractMarkdown)
	p.Register(".markdown", extractMarkdown)
	return p
}

// Register installs an extractor for a file extension (with leading dot).
func (p *Processor) Register(ext string, fn Extractor) {
	p.extractors[strings.ToLower(ext)] = fn
}

// Supported reports whether the processor can extract the given path.
func (p *Processor) Supported(path string) bool {
	_, ok := p.extractors[strings.ToLower(filepath.Ext(path))]
	return ok
}

// SupportedExtensions lists the registered extensions, sorted.
func (p *Processor) SupportedExtensions() []string {
	exts := make([]string, 0, len(p.extractors))
	for ext := range p.extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// LoadFile reads and extracts one file into a Document with metadata.
func (p *Processor) LoadFile(path string) (models.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	extract, ok := p.extractors[ext]
	if !ok {
		return models.Document{}, fmt.Errorf("unsupported file type %q", ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return models.Document{}, fmt.Errorf("reading file info: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Document{}, fmt.Errorf("reading file: %w", err)
	}
	if !utf8.Valid(data) {
		return models.Document{}, fmt.Errorf("file %s is not valid UTF-8 text", filepath.Base(path))
	}

	content, err := extract(data)
	if err != nil {
		return models.Document{}, fmt.Errorf("extracting %s: %w", filepath.Base(path), err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Document{}, fmt.Errorf("file %s has no extractable text", filepath.Base(path))
	}

	filename := filepath.Base(path)
	title := documentTitle(data, ext, filename)

	return models.Document{
		Content: content,
		Metadata: map[string]any{
			"filename":    filename,
			"title":       title,
			"file_path":   path,
			"file_ext":    ext,
			"file_size":   info.Size(),
			"modified_at": info.ModTime().UTC().Format("2006-01-02T15:04:05Z"),
			"word_count":  len(strings.Fields(content)),
			"char_count":  len(content),
		},
	}, nil
}

// DiscoverFiles walks root recursively and returns supported file paths,
// sorted. Hidden files and directories are skipped.
func (p *Processor) DiscoverFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && p.Supported(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

func extractPlainText(data []byte) (string, error) {
	return string(data), nil
}

var (
	codeFenceRe  = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`([^`]*)`")
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasisRe   = regexp.MustCompile(`(\*{1,3}|_{1,3})([^*_]+)(\*{1,3}|_{1,3})`)
	blockquoteRe = regexp.MustCompile(`(?m)^>\s?`)
	listMarkerRe = regexp.MustCompile(`(?m)^[\s]*[-*+]\s+`)
)

// extractMarkdown strips Markdown syntax down to readable text. Code
// blocks are kept as text since they often carry the actual content.
func extractMarkdown(data []byte) (string, error) {
	text := string(data)

	text = codeFenceRe.ReplaceAllStringFunc(text, func(block string) string {
		block = strings.TrimPrefix(block, "```")
		block = strings.TrimSuffix(block, "```")
		// Drop the language tag on the opening fence.
		if idx := strings.Index(block, "\n"); idx >= 0 {
			block = block[idx+1:]
		}
		return block
	})
	text = imageRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	text = inlineCodeRe.ReplaceAllString(text, "$1")
	text = headingRe.ReplaceAllString(text, "")
	text = emphasisRe.ReplaceAllString(text, "$2")
	text = blockquoteRe.ReplaceAllString(text, "")
	text = listMarkerRe.ReplaceAllString(text, "")

	return text, nil
}

var titleHeadingRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// documentTitle picks the first H1 heading of a Markdown file, falling
// back to the filename without extension.
func documentTitle(data []byte, ext, filename string) string {
	if ext == ".md" || ext == ".markdown" {
		if m := titleHeadingRe.FindSubmatch(data); m != nil {
			return strings.TrimSpace(string(m[1]))
		}
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
