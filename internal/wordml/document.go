// Package wordml is a small WordprocessingML document model: paragraphs,
// runs and numbering definitions, written out as a .docx package.
package wordml

import (
	"strings"
)

// Paragraph styles defined in styles.xml.
const (
	StyleNormal        = "Normal"
	StyleListParagraph = "ListParagraph"
	StyleQuote         = "Quote"
	StyleCode          = "Code"
	StyleTitle         = "Title"
)

// HeadingStyle returns the style id of heading level 1-6.
func HeadingStyle(level int) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return "Heading" + string(rune('0'+level))
}

// Document is the in-memory form of a generated document.
type Document struct {
	Title     string
	Author    string
	Body      []*Paragraph
	Numbering *Numbering
}

// New returns an empty document.
func New(title string) *Document {
	return &Document{Title: title, Numbering: NewNumbering()}
}

// AddParagraph appends an empty paragraph with the given style.
func (d *Document) AddParagraph(style string) *Paragraph {
	p := &Paragraph{Style: style}
	d.Body = append(d.Body, p)
	return p
}

// Paragraph is a w:p element.
type Paragraph struct {
	Style string
	Runs  []*Run

	// NumID is 0 for paragraphs that are not list items.
	NumID int
	Ilvl  int

	IndentLeft int
	Align      string
}

// SetNumbering makes the paragraph a list item of definition numID at level.
func (p *Paragraph) SetNumbering(numID, level int) {
	p.NumID = numID
	p.Ilvl = level
}

// Numbered reports whether the paragraph references a numbering definition.
func (p *Paragraph) Numbered() bool {
	return p.NumID != 0
}

// AddRun appends a run of text.
func (p *Paragraph) AddRun(text string, style RunStyle) *Run {
	r := &Run{Text: text, Style: style}
	p.Runs = append(p.Runs, r)
	return r
}

// AddBreak appends a line break.
func (p *Paragraph) AddBreak() {
	p.Runs = append(p.Runs, &Run{Break: true})
}

// Empty reports whether the paragraph carries no visible text.
func (p *Paragraph) Empty() bool {
	for _, r := range p.Runs {
		if r.Break || strings.TrimSpace(r.Text) != "" {
			return false
		}
	}
	return true
}

// Text returns the concatenated run text, breaks as newlines.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		if r.Break {
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Run is a w:r element holding text with uniform formatting.
type Run struct {
	Text  string
	Style RunStyle
	Break bool
}

// RunStyle is the subset of w:rPr the renderers produce.
type RunStyle struct {
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	// Color and Shading are RRGGBB hex values.
	Color   string
	Shading string
	// Highlight is one of the fixed w:highlight color names.
	Highlight string
	Font      string
	// Size is in half points, 0 keeps the paragraph style size.
	Size      int
	VertAlign string
}
