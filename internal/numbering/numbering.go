// Package numbering assigns shared multi-level numbering definitions to list
// paragraphs.
//
// A Context follows the renderer through one document: StartLevel opens a
// list level, Add buffers a paragraph against the innermost open level and
// EndLevel closes it. Closing a level resolves a definition for the style
// sequence from the outermost level down to the closing one, reusing any
// definition already built for that sequence or for a deeper list sharing it
// as a prefix, and labels every paragraph buffered for that level.
//
// A Context is not safe for concurrent use. Each document build owns its own.
package numbering

import (
	"errors"
	"fmt"

	"github.com/dgallion1/docxlist/internal/liststyle"
)

// DefaultIndent is the per-level left indent in twentieths of a point.
const DefaultIndent = 360

// ErrNoOpenLevel is returned when a paragraph is added, or a level closed,
// while no list level is open.
var ErrNoOpenLevel = errors.New("numbering: no open list level, call StartLevel first")

// Paragraph is a document paragraph that can carry a numbering reference.
type Paragraph interface {
	SetNumbering(numID, level int)
}

// Level is one level entry of a numbering definition.
type Level struct {
	Index  int
	Indent int
	Format liststyle.Format
	Text   string
	Start  int
	Align  string
	Font   string
}

// Definer persists numbering definitions in the owning document. It returns
// the id paragraphs use to reference the new definition.
type Definer interface {
	DefineNumbering(levels []Level) (int, error)
}

type pending struct {
	p     Paragraph
	level int
}

// Context is the numbering state of a single document build.
type Context struct {
	definer Definer
	indent  int
	cache   cache

	depth   int
	styles  []liststyle.Style
	pending []pending
	created int
}

// Option configures a Context.
type Option func(*Context)

// WithIndent sets the left indent added per level.
func WithIndent(unit int) Option {
	return func(c *Context) { c.indent = unit }
}

// New returns a Context that stores definitions through d.
func New(d Definer, opts ...Option) *Context {
	c := &Context{definer: d, indent: DefaultIndent}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetIndent changes the per-level indent. Call it before the first list is
// opened; definitions that already exist keep their indentation.
func (c *Context) SetIndent(unit int) {
	c.indent = unit
}

// Depth returns the number of currently open levels.
func (c *Context) Depth() int {
	return c.depth
}

// Definitions returns how many definitions this context has created.
func (c *Context) Definitions() int {
	return c.created
}

// StartLevel opens a new innermost level numbered with style.
func (c *Context) StartLevel(style liststyle.Style) {
	if c.depth == 0 {
		c.pending = make([]pending, 0, 8)
		c.styles = make([]liststyle.Style, 0, 4)
	}
	c.depth++
	c.styles = append(c.styles, style)
}

// Add buffers p as an item of the innermost open level. The paragraph is
// labeled when that level ends.
func (c *Context) Add(p Paragraph) error {
	if c.pending == nil {
		return ErrNoOpenLevel
	}
	c.pending = append(c.pending, pending{p: p, level: c.depth - 1})
	return nil
}

// EndLevel closes the innermost level and labels its paragraphs.
func (c *Context) EndLevel() error {
	if c.depth == 0 {
		return ErrNoOpenLevel
	}
	level := c.depth - 1

	numID, err := c.resolve(c.key())
	if err != nil {
		return fmt.Errorf("resolve numbering for level %d: %w", level, err)
	}

	// Descendant levels are closed before their parent, so this level's
	// paragraphs are always the tail of the buffer.
	i := len(c.pending) - 1
	for ; i >= 0 && c.pending[i].level == level; i-- {
		c.pending[i].p.SetNumbering(numID, level)
		c.pending[i] = pending{}
	}
	c.pending = c.pending[:i+1]
	c.styles = c.styles[:level]

	c.depth--
	if c.depth == 0 {
		c.pending = nil
		c.styles = nil
	}
	return nil
}

func (c *Context) key() []string {
	k := make([]string, len(c.styles))
	for i, s := range c.styles {
		k[i] = s.Name
	}
	return k
}

func (c *Context) resolve(key []string) (int, error) {
	if id, ok := c.cache.lookup(key); ok {
		return id, nil
	}
	id, err := c.definer.DefineNumbering(c.levels())
	if err != nil {
		return 0, err
	}
	c.cache.store(key, id)
	c.created++
	return id, nil
}

func (c *Context) levels() []Level {
	levels := make([]Level, len(c.styles))
	for i, s := range c.styles {
		levels[i] = Level{
			Index:  i,
			Indent: c.indent * i,
			Format: s.Format,
			Text:   s.LevelText(i),
			Start:  1,
			Align:  "left",
			Font:   s.Font,
		}
	}
	return levels
}
