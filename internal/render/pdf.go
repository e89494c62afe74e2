package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/docxlist/internal/wordml"
)

// PDFRenderer handles PDF files. It tries the Go library first, then falls
// back to pdftotext if enabled. Each page gets a heading followed by its
// blank-line separated paragraphs.
type PDFRenderer struct {
	FallbackPdftotext bool
}

func (r *PDFRenderer) Render(ctx context.Context, in io.Reader, b *Builder) error {
	// ledongthuc/pdf opens by path, so spool to a temp file.
	tmp, err := os.CreateTemp("", "docxlist-pdf-*.pdf")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil && r.FallbackPdftotext {
		text, err = extractPdftotext(ctx, tmpPath)
	}
	if err != nil {
		return fmt.Errorf("extract pdf text: %w", err)
	}

	for i, page := range strings.Split(text, "\f") {
		if err := ctx.Err(); err != nil {
			return err
		}
		paras := pageParagraphs(page)
		if len(paras) == 0 {
			continue
		}
		b.Paragraph(wordml.HeadingStyle(2)).AddRun(fmt.Sprintf("Page %d", i+1), wordml.RunStyle{})
		for _, para := range paras {
			b.Paragraph("").AddRun(para, wordml.RunStyle{})
		}
	}
	return nil
}

// pageParagraphs splits page text on blank lines and joins wrapped lines.
func pageParagraphs(page string) []string {
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, " "))
			cur = nil
		}
	}
	for _, line := range strings.Split(page, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return out
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if i > 1 {
			buf.WriteString("\f")
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
