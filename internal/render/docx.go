package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/docxlist/internal/wordml"
)

// DOCXRenderer re-renders .docx files. Heading styles are kept and runs of
// paragraphs styled as list paragraphs ("List Bullet 2", "List Number") are
// rebuilt as lists with fresh numbering.
type DOCXRenderer struct{}

func (r *DOCXRenderer) Render(ctx context.Context, in io.Reader, b *Builder) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("parse docx: %w", err)
	}

	lists := listStack{b: b}
	for _, item := range doc.Document.Body.Items {
		if err := ctx.Err(); err != nil {
			return err
		}
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		style := docxStyle(para)

		if depth, ordered, ok := docxListLevel(style); ok {
			if err := lists.enter(depth, ordered); err != nil {
				return err
			}
			p, err := b.Item()
			if err != nil {
				return err
			}
			docxRuns(p, para)
			continue
		}

		if err := lists.closeTo(0); err != nil {
			return err
		}
		if level := docxHeadingLevel(style); level > 0 {
			docxRuns(b.Paragraph(wordml.HeadingStyle(level)), para)
			continue
		}
		if strings.EqualFold(style, wordml.StyleTitle) {
			b.SetTitle(docxParagraphText(para))
			docxRuns(b.Paragraph(wordml.StyleTitle), para)
			continue
		}
		docxRuns(b.Paragraph(""), para)
	}
	return lists.closeTo(0)
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

// docxHeadingLevel reads "Heading3" or "heading 3".
func docxHeadingLevel(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if !strings.HasPrefix(s, "heading") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "heading"))
	if err != nil || n < 1 {
		return 0
	}
	return min(n, 6)
}

// docxListLevel recognizes the built-in list paragraph styles. A trailing
// digit is the nesting depth.
func docxListLevel(style string) (depth int, ordered bool, ok bool) {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	switch {
	case strings.HasPrefix(s, "listbullet"):
		s = strings.TrimPrefix(s, "listbullet")
	case strings.HasPrefix(s, "listnumber"):
		s, ordered = strings.TrimPrefix(s, "listnumber"), true
	case s == "listparagraph":
		return 1, false, true
	default:
		return 0, false, false
	}
	if s == "" {
		return 1, ordered, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false, false
	}
	return n, ordered, true
}

// docxRuns copies the text of para into p, keeping bold and italic.
func docxRuns(p *wordml.Paragraph, para *docx.Paragraph) {
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		var rs wordml.RunStyle
		if props := run.RunProperties; props != nil {
			rs.Bold = props.Bold != nil
			rs.Italic = props.Italic != nil
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok && t.Text != "" {
				p.AddRun(t.Text, rs)
			}
		}
	}
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
