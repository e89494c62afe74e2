package render

import (
	"bufio"
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/dgallion1/docxlist/internal/liststyle"
	"github.com/dgallion1/docxlist/internal/wordml"
)

// TextRenderer handles plain text files. Blank lines separate paragraphs;
// lines led by "-", "*", "+" or "1." (or "1)") are list items, nested two
// spaces per level.
type TextRenderer struct{}

var listLine = regexp.MustCompile(`^([ \t]*)([-*+]|\d+[.)])\s+(.*)$`)

func (r *TextRenderer) Render(ctx context.Context, in io.Reader, b *Builder) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	t := &textState{b: b, lists: listStack{b: b}}
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.line(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return t.closeLists(0)
}

type textState struct {
	b     *Builder
	lists listStack
	// para is the open plain paragraph, item the last list item
	para *wordml.Paragraph
	item *wordml.Paragraph
}

func (t *textState) line(line string) error {
	if strings.TrimSpace(line) == "" {
		t.para = nil
		return t.closeLists(0)
	}

	if m := listLine.FindStringSubmatch(line); m != nil {
		t.para = nil
		return t.listItem(indentWidth(m[1])/2+1, isDigit(m[2][0]), m[3])
	}

	if t.item != nil && (line[0] == ' ' || line[0] == '\t') {
		t.item.AddRun(" "+strings.TrimSpace(line), wordml.RunStyle{})
		return nil
	}

	if err := t.closeLists(0); err != nil {
		return err
	}
	if t.para == nil {
		t.para = t.b.Paragraph("")
	} else {
		t.para.AddBreak()
	}
	t.para.AddRun(line, wordml.RunStyle{})
	return nil
}

func (t *textState) listItem(depth int, ordered bool, content string) error {
	if err := t.lists.enter(depth, ordered); err != nil {
		return err
	}
	p, err := t.b.Item()
	if err != nil {
		return err
	}
	p.AddRun(content, wordml.RunStyle{})
	t.item = p
	return nil
}

func (t *textState) closeLists(depth int) error {
	if depth == 0 {
		t.item = nil
	}
	return t.lists.closeTo(depth)
}

// listStack tracks lists opened from flat input where each item states its
// own depth.
type listStack struct {
	b       *Builder
	ordered []bool
}

// enter makes depth lists open with the innermost of the given kind. A
// depth more than one past the current one is clamped.
func (s *listStack) enter(depth int, ordered bool) error {
	depth = min(depth, len(s.ordered)+1)
	if err := s.closeTo(depth); err != nil {
		return err
	}
	if len(s.ordered) == depth && s.ordered[depth-1] != ordered {
		if err := s.closeTo(depth - 1); err != nil {
			return err
		}
	}
	if len(s.ordered) < depth {
		s.b.StartList(liststyle.Default(ordered, s.b.BulletDepth()))
		s.ordered = append(s.ordered, ordered)
	}
	return nil
}

// closeTo ends lists until depth remain open.
func (s *listStack) closeTo(depth int) error {
	for len(s.ordered) > depth {
		if err := s.b.EndList(); err != nil {
			return err
		}
		s.ordered = s.ordered[:len(s.ordered)-1]
	}
	return nil
}

func indentWidth(s string) int {
	n := 0
	for _, r := range s {
		if r == '\t' {
			n += 4
		} else {
			n++
		}
	}
	return n
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
