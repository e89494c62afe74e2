package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/docxlist/internal/liststyle"
	"github.com/dgallion1/docxlist/internal/wordml"
)

// MarkdownRenderer renders Markdown files using goldmark.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(ctx context.Context, in io.Reader, b *Builder) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Strikethrough))
	doc := md.Parser().Parse(text.NewReader(src))

	w := &mdWalker{b: b, src: src}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.block(n); err != nil {
			return err
		}
	}
	return nil
}

type mdWalker struct {
	b   *Builder
	src []byte
	// item is the paragraph of the innermost list item until its first
	// block fills it.
	item  *wordml.Paragraph
	quote bool
}

// paragraph returns the pending item paragraph or a new one in style.
func (w *mdWalker) paragraph(style string) *wordml.Paragraph {
	if p := w.item; p != nil {
		w.item = nil
		if p.Empty() {
			return p
		}
	}
	if style == "" && w.quote {
		style = wordml.StyleQuote
	}
	return w.b.Paragraph(style)
}

func (w *mdWalker) block(n ast.Node) error {
	switch node := n.(type) {
	case *ast.Heading:
		w.item = nil
		p := w.b.Paragraph(wordml.HeadingStyle(node.Level))
		w.inlines(p, node, wordml.RunStyle{})

	case *ast.Paragraph, *ast.TextBlock:
		p := w.paragraph("")
		w.inlines(p, node, wordml.RunStyle{})

	case *ast.List:
		return w.list(node)

	case *ast.FencedCodeBlock:
		w.code(node)
	case *ast.CodeBlock:
		w.code(node)

	case *ast.Blockquote:
		quote := w.quote
		w.quote = true
		defer func() { w.quote = quote }()
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if err := w.block(c); err != nil {
				return err
			}
		}

	case *ast.ThematicBreak, *ast.HTMLBlock:
		// Neither carries text worth keeping.

	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if err := w.block(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *mdWalker) list(node *ast.List) error {
	w.item = nil
	w.b.StartList(liststyle.Default(node.IsOrdered(), w.b.BulletDepth()))
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*ast.ListItem); !ok {
			continue
		}
		p, err := w.b.Item()
		if err != nil {
			return err
		}
		w.item = p
		for cc := c.FirstChild(); cc != nil; cc = cc.NextSibling() {
			if err := w.block(cc); err != nil {
				return err
			}
		}
		w.item = nil
	}
	if err := w.b.EndList(); err != nil {
		return fmt.Errorf("close markdown list: %w", err)
	}
	return nil
}

func (w *mdWalker) code(n ast.Node) {
	p := w.paragraph(wordml.StyleCode)
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		if i > 0 {
			p.AddBreak()
		}
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(w.src)), "\r\n")
		if line != "" {
			p.AddRun(line, wordml.RunStyle{Font: "Courier New"})
		}
	}
}

func (w *mdWalker) inlines(p *wordml.Paragraph, n ast.Node, rs wordml.RunStyle) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.inline(p, c, rs)
	}
}

func (w *mdWalker) inline(p *wordml.Paragraph, n ast.Node, rs wordml.RunStyle) {
	switch node := n.(type) {
	case *ast.Text:
		if s := string(node.Segment.Value(w.src)); s != "" {
			p.AddRun(s, rs)
		}
		switch {
		case node.HardLineBreak():
			p.AddBreak()
		case node.SoftLineBreak():
			p.AddRun(" ", rs)
		}

	case *ast.String:
		p.AddRun(string(node.Value), rs)

	case *ast.Emphasis:
		if node.Level >= 2 {
			rs.Bold = true
		} else {
			rs.Italic = true
		}
		w.inlines(p, node, rs)

	case *ast.CodeSpan:
		rs.Font = "Courier New"
		w.inlines(p, node, rs)

	case *ast.Link:
		rs.Underline, rs.Color = true, "0563C1"
		w.inlines(p, node, rs)

	case *ast.AutoLink:
		rs.Underline, rs.Color = true, "0563C1"
		p.AddRun(string(node.Label(w.src)), rs)

	case *east.Strikethrough:
		rs.Strike = true
		w.inlines(p, node, rs)

	case *ast.Image:
		w.inlines(p, node, rs)

	case *ast.RawHTML:
		// Inline markup is dropped, its text siblings are kept.

	default:
		w.inlines(p, node, rs)
	}
}
