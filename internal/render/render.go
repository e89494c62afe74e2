// Package render turns source documents into WordprocessingML documents
// whose lists are numbered through a numbering.Context.
package render

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/dgallion1/docxlist/internal/wordml"
)

// Renderer writes the content of a source document into a Builder.
type Renderer interface {
	Render(ctx context.Context, r io.Reader, b *Builder) error
}

// SupportedExtensions lists file extensions this service can render.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Options tune renderer selection.
type Options struct {
	// PDFFallback enables pdftotext when the PDF library fails.
	PDFFallback bool
}

// ForFile returns the appropriate renderer for a filename.
func ForFile(filename string, opts Options) (Renderer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextRenderer{}, nil
	case ".md", ".markdown":
		return &MarkdownRenderer{}, nil
	case ".csv":
		return &CSVRenderer{}, nil
	case ".html", ".htm":
		return &HTMLRenderer{}, nil
	case ".pdf":
		return &PDFRenderer{FallbackPdftotext: opts.PDFFallback}, nil
	case ".docx":
		return &DOCXRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Format returns the lower-case extension of filename without the dot.
func Format(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// TitleFromFilename strips directory and extension.
func TitleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// File renders the source read from r, picking the renderer by filename.
func File(ctx context.Context, r io.Reader, filename string, opts Options, bopts ...BuilderOption) (*wordml.Document, error) {
	renderer, err := ForFile(filename, opts)
	if err != nil {
		return nil, err
	}
	b := NewBuilder(TitleFromFilename(filename), bopts...)
	if err := renderer.Render(ctx, r, b); err != nil {
		return nil, fmt.Errorf("render %s: %w", filepath.Base(filename), err)
	}
	doc, err := b.Finish()
	if err != nil {
		return nil, err
	}
	b.log.Debug("Rendered", zap.String("file", filename), zap.Int("paragraphs", len(doc.Body)))
	return doc, nil
}
