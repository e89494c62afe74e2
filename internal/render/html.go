package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/docxlist/internal/liststyle"
	"github.com/dgallion1/docxlist/internal/wordml"
)

// HTMLRenderer renders HTML documents.
type HTMLRenderer struct{}

func (r *HTMLRenderer) Render(ctx context.Context, in io.Reader, b *Builder) error {
	doc, err := html.Parse(in)
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	if title := findTitle(doc); title != "" {
		b.SetTitle(title)
	}

	w := &htmlWalker{b: b}
	root := findBody(doc)
	if root == nil {
		root = doc
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.walk(c, wordml.RunStyle{}); err != nil {
			return err
		}
	}
	return nil
}

type htmlWalker struct {
	b *Builder
	// cur receives inline content, nil until some text needs a paragraph.
	cur *wordml.Paragraph
	// item is the paragraph of the innermost list item, while nothing but
	// inline content has been written to it.
	item  *wordml.Paragraph
	pre   bool
	quote bool
}

func (w *htmlWalker) walk(n *html.Node, rs wordml.RunStyle) error {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data, rs)
		return nil
	case html.ElementNode:
	default:
		return w.children(n, rs)
	}

	decl := parseInlineStyle(attr(n, "style"))
	rs = decl.apply(inlineStyle(n.Data, rs))

	switch n.Data {
	case "script", "style", "head", "title", "noscript", "template":
		return nil

	case "br":
		w.paragraph().AddBreak()
		return nil

	case "mark":
		if _, ok := decl["background-color"]; !ok {
			if _, ok := decl["background"]; !ok {
				rs.Highlight, rs.Shading = "yellow", ""
			}
		}
		return w.children(n, rs)

	case "h1", "h2", "h3", "h4", "h5", "h6":
		w.breakBlock()
		w.cur = w.b.Paragraph(wordml.HeadingStyle(int(n.Data[1] - '0')))
		err := w.children(n, rs)
		w.breakBlock()
		return err

	case "ul", "ol":
		return w.list(n, decl, rs)

	case "li":
		if w.b.ListDepth() == 0 {
			return w.block(n, "", rs)
		}
		return w.listItem(n, rs)

	case "pre":
		w.pre = true
		err := w.block(n, wordml.StyleCode, rs)
		w.pre = false
		return err

	case "blockquote":
		quote := w.quote
		w.quote = true
		err := w.block(n, wordml.StyleQuote, rs)
		w.quote = quote
		return err

	case "p", "div", "section", "article", "header", "footer", "main", "aside",
		"address", "figure", "figcaption", "dl", "dt", "dd", "hr", "table", "tr":
		return w.block(n, "", rs)

	case "td", "th":
		if w.cur != nil && !w.cur.Empty() {
			w.cur.AddRun(" ", wordml.RunStyle{})
		}
		return w.children(n, rs)
	}
	return w.children(n, rs)
}

func (w *htmlWalker) children(n *html.Node, rs wordml.RunStyle) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := w.walk(c, rs); err != nil {
			return err
		}
	}
	return nil
}

// breakBlock ends the current paragraph; following inline content starts a
// new one.
func (w *htmlWalker) breakBlock() {
	w.cur = nil
	w.item = nil
}

func (w *htmlWalker) paragraph() *wordml.Paragraph {
	if w.cur == nil {
		style := ""
		switch {
		case w.pre:
			style = wordml.StyleCode
		case w.quote:
			style = wordml.StyleQuote
		}
		w.cur = w.b.Paragraph(style)
	}
	return w.cur
}

func (w *htmlWalker) block(n *html.Node, style string, rs wordml.RunStyle) error {
	// The first block inside a list item shares the item's paragraph.
	if w.item == nil || w.cur != w.item || !w.item.Empty() {
		w.breakBlock()
		if style != "" {
			w.cur = w.b.Paragraph(style)
		}
	}
	w.item = nil
	err := w.children(n, rs)
	w.breakBlock()
	return err
}

func (w *htmlWalker) list(n *html.Node, decl declarations, rs wordml.RunStyle) error {
	style, ok := decl.listStyle()
	if !ok {
		if t := attr(n, "type"); t != "" {
			style, ok = liststyle.FromTypeAttr(t)
		}
	}
	if !ok {
		style = liststyle.Default(n.Data == "ol", w.b.BulletDepth())
	}

	w.breakBlock()
	w.b.StartList(style)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		if err := w.walk(c, rs); err != nil {
			return err
		}
	}
	w.breakBlock()
	if err := w.b.EndList(); err != nil {
		return fmt.Errorf("close <%s>: %w", n.Data, err)
	}
	return nil
}

func (w *htmlWalker) listItem(n *html.Node, rs wordml.RunStyle) error {
	p, err := w.b.Item()
	if err != nil {
		return err
	}
	w.cur, w.item = p, p
	err = w.children(n, rs)
	w.breakBlock()
	return err
}

func (w *htmlWalker) text(data string, rs wordml.RunStyle) {
	if w.pre {
		lines := strings.Split(data, "\n")
		for i, line := range lines {
			if i > 0 {
				w.paragraph().AddBreak()
			}
			if line != "" {
				w.paragraph().AddRun(line, rs)
			}
		}
		return
	}

	text := collapseSpace(data)
	if w.cur == nil || w.cur.Empty() {
		text = strings.TrimLeft(text, " ")
	}
	if text == "" {
		return
	}
	w.paragraph().AddRun(text, rs)
}

// collapseSpace replaces each run of HTML whitespace with one space.
func collapseSpace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			space = true
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteRune(r)
	}
	if space {
		sb.WriteByte(' ')
	}
	return sb.String()
}

// inlineStyle applies the formatting implied by an element name.
func inlineStyle(tag string, rs wordml.RunStyle) wordml.RunStyle {
	switch tag {
	case "b", "strong":
		rs.Bold = true
	case "i", "em", "cite", "var", "dfn":
		rs.Italic = true
	case "u", "ins":
		rs.Underline = true
	case "s", "strike", "del":
		rs.Strike = true
	case "code", "kbd", "samp", "tt":
		rs.Font = "Courier New"
	case "sup":
		rs.VertAlign = "superscript"
	case "sub":
		rs.VertAlign = "subscript"
	case "a":
		rs.Underline = true
		rs.Color = "0563C1"
	}
	return rs
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
