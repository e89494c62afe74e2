package render

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dgallion1/docxlist/internal/liststyle"
	"github.com/dgallion1/docxlist/internal/numbering"
	"github.com/dgallion1/docxlist/internal/wordml"
)

// ErrUnclosedList is returned by Finish when a renderer left a list open.
var ErrUnclosedList = errors.New("render: list left open at end of document")

// Builder is one document build: a document plus the numbering context that
// labels its list paragraphs. A Builder must not be shared between builds.
type Builder struct {
	doc    *wordml.Document
	num    *numbering.Context
	log    *zap.Logger
	indent int

	// ordered flags of the open lists, outermost first
	lists []bool
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithIndent sets the per-level list indent in twips.
func WithIndent(unit int) BuilderOption {
	return func(b *Builder) {
		if unit > 0 {
			b.indent = unit
		}
	}
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(log *zap.Logger) BuilderOption {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBuilder starts a document titled title.
func NewBuilder(title string, opts ...BuilderOption) *Builder {
	b := &Builder{
		doc:    wordml.New(title),
		log:    zap.NewNop(),
		indent: numbering.DefaultIndent,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.num = numbering.New(b.doc.Numbering, numbering.WithIndent(b.indent))
	return b
}

// Document returns the document under construction.
func (b *Builder) Document() *wordml.Document {
	return b.doc
}

// SetTitle replaces the document title.
func (b *Builder) SetTitle(title string) {
	b.doc.Title = title
}

// Paragraph appends a non-list paragraph. Inside a list it is indented to
// the innermost level so it reads as a continuation of the current item.
func (b *Builder) Paragraph(style string) *wordml.Paragraph {
	if depth := b.ListDepth(); depth > 0 {
		if style == "" || style == wordml.StyleNormal {
			style = wordml.StyleListParagraph
		}
		p := b.doc.AddParagraph(style)
		p.IndentLeft = b.indent * depth
		return p
	}
	return b.doc.AddParagraph(style)
}

// StartList opens a nested list level.
func (b *Builder) StartList(style liststyle.Style) {
	b.num.StartLevel(style)
	b.lists = append(b.lists, style.Ordered())
	b.log.Debug("List opened", zap.Stringer("style", style), zap.Int("depth", len(b.lists)))
}

// Item appends a list item paragraph to the innermost open list.
func (b *Builder) Item() (*wordml.Paragraph, error) {
	p := &wordml.Paragraph{Style: wordml.StyleListParagraph}
	if err := b.num.Add(p); err != nil {
		return nil, err
	}
	b.doc.Body = append(b.doc.Body, p)
	return p, nil
}

// EndList closes the innermost list.
func (b *Builder) EndList() error {
	if err := b.num.EndLevel(); err != nil {
		return err
	}
	b.lists = b.lists[:len(b.lists)-1]
	return nil
}

// ListDepth returns the number of open lists.
func (b *Builder) ListDepth() int {
	return len(b.lists)
}

// BulletDepth returns how many of the open lists are unordered.
func (b *Builder) BulletDepth() int {
	n := 0
	for _, ordered := range b.lists {
		if !ordered {
			n++
		}
	}
	return n
}

// Finish returns the completed document.
func (b *Builder) Finish() (*wordml.Document, error) {
	if depth := b.ListDepth(); depth > 0 {
		return nil, fmt.Errorf("%w (depth %d)", ErrUnclosedList, depth)
	}
	b.log.Debug("Document built",
		zap.Int("paragraphs", len(b.doc.Body)),
		zap.Int("definitions", b.num.Definitions()))
	return b.doc, nil
}
