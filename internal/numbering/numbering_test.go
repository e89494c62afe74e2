package numbering

import (
	"errors"
	"testing"

	"github.com/dgallion1/docxlist/internal/liststyle"
)

type fakeDefiner struct {
	defs [][]Level
	err  error
}

func (f *fakeDefiner) DefineNumbering(levels []Level) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.defs = append(f.defs, levels)
	return len(f.defs), nil
}

type para struct {
	name    string
	numID   int
	level   int
	labeled int
}

func (p *para) SetNumbering(numID, level int) {
	p.numID = numID
	p.level = level
	p.labeled++
}

func mustAdd(t *testing.T, c *Context, p *para) {
	t.Helper()
	if err := c.Add(p); err != nil {
		t.Fatalf("add %s: %v", p.name, err)
	}
}

func mustEnd(t *testing.T, c *Context) {
	t.Helper()
	if err := c.EndLevel(); err != nil {
		t.Fatalf("end level: %v", err)
	}
}

func TestContext_NestedSharesOneDefinition(t *testing.T) {
	d := &fakeDefiner{}
	c := New(d)
	p1, p2, p3 := &para{name: "p1"}, &para{name: "p2"}, &para{name: "p3"}

	c.StartLevel(liststyle.Decimal)
	mustAdd(t, c, p1)
	c.StartLevel(liststyle.Disc)
	mustAdd(t, c, p2)
	mustEnd(t, c)
	mustAdd(t, c, p3)
	mustEnd(t, c)

	if len(d.defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(d.defs))
	}
	for _, p := range []*para{p1, p2, p3} {
		if p.numID != 1 {
			t.Errorf("%s: expected numID 1, got %d", p.name, p.numID)
		}
		if p.labeled != 1 {
			t.Errorf("%s: expected to be labeled once, got %d", p.name, p.labeled)
		}
	}
	if p1.level != 0 || p3.level != 0 {
		t.Errorf("expected p1 and p3 at level 0, got %d and %d", p1.level, p3.level)
	}
	if p2.level != 1 {
		t.Errorf("expected p2 at level 1, got %d", p2.level)
	}
	if c.Depth() != 0 {
		t.Errorf("expected depth 0, got %d", c.Depth())
	}
}

func TestContext_DefinitionLevels(t *testing.T) {
	d := &fakeDefiner{}
	c := New(d, WithIndent(400))

	c.StartLevel(liststyle.UpperRoman)
	c.StartLevel(liststyle.Square)
	c.StartLevel(liststyle.None)
	mustEnd(t, c)
	mustEnd(t, c)
	mustEnd(t, c)

	if len(d.defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(d.defs))
	}
	levels := d.defs[0]
	if len(levels) != 3 {
		t.Fatalf("expected 3 levels, got %d", len(levels))
	}

	want := []Level{
		{Index: 0, Indent: 0, Format: liststyle.FormatUpperRoman, Text: "%1.", Start: 1, Align: "left"},
		{Index: 1, Indent: 400, Format: liststyle.FormatBullet, Text: "\uF0A7", Start: 1, Align: "left", Font: "Wingdings"},
		{Index: 2, Indent: 800, Format: liststyle.FormatNone, Text: "", Start: 1, Align: "left"},
	}
	for i, w := range want {
		if levels[i] != w {
			t.Errorf("level %d: expected %+v, got %+v", i, w, levels[i])
		}
	}
}

func TestContext_ReuseAcrossSessions(t *testing.T) {
	d := &fakeDefiner{}
	c := New(d)
	a, b := &para{name: "a"}, &para{name: "b"}

	c.StartLevel(liststyle.LowerAlpha)
	mustAdd(t, c, a)
	mustEnd(t, c)

	c.StartLevel(liststyle.LowerAlpha)
	mustAdd(t, c, b)
	mustEnd(t, c)

	if len(d.defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(d.defs))
	}
	if a.numID != b.numID {
		t.Errorf("expected same numID, got %d and %d", a.numID, b.numID)
	}
}

func TestContext_PrefixReusesDeeperDefinition(t *testing.T) {
	d := &fakeDefiner{}
	c := New(d)

	c.StartLevel(liststyle.Decimal)
	c.StartLevel(liststyle.Disc)
	c.StartLevel(liststyle.Circle)
	deep := &para{name: "deep"}
	mustAdd(t, c, deep)
	mustEnd(t, c)
	mustEnd(t, c)
	mustEnd(t, c)

	shallow := &para{name: "shallow"}
	c.StartLevel(liststyle.Decimal)
	c.StartLevel(liststyle.Disc)
	mustAdd(t, c, shallow)
	mustEnd(t, c)
	mustEnd(t, c)

	if len(d.defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(d.defs))
	}
	if shallow.numID != deep.numID {
		t.Errorf("expected prefix list to reuse numID %d, got %d", deep.numID, shallow.numID)
	}
	if shallow.level != 1 || deep.level != 2 {
		t.Errorf("expected levels 1 and 2, got %d and %d", shallow.level, deep.level)
	}
}

func TestContext_DivergingSequenceCreatesOneDefinition(t *testing.T) {
	d := &fakeDefiner{}
	c := New(d)

	c.StartLevel(liststyle.Decimal)
	c.StartLevel(liststyle.Disc)
	mustEnd(t, c)
	mustEnd(t, c)

	c.StartLevel(liststyle.Decimal)
	c.StartLevel(liststyle.Circle)
	p := &para{name: "p"}
	mustAdd(t, c, p)
	mustEnd(t, c)
	mustEnd(t, c)

	if len(d.defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(d.defs))
	}
	if p.numID != 2 {
		t.Errorf("expected numID 2, got %d", p.numID)
	}
	if c.Definitions() != 2 {
		t.Errorf("expected Definitions()=2, got %d", c.Definitions())
	}
}

func TestContext_ReverseOrderMatchWins(t *testing.T) {
	d := &fakeDefiner{}
	c := New(d)

	for _, inner := range []liststyle.Style{liststyle.Circle, liststyle.Square} {
		c.StartLevel(liststyle.Decimal)
		c.StartLevel(inner)
		mustEnd(t, c)
		mustEnd(t, c)
	}
	// ["decimal"] is a prefix of both stored keys; the greatest one,
	// ["decimal","square"], is found first.
	p := &para{name: "p"}
	c.StartLevel(liststyle.Decimal)
	mustAdd(t, c, p)
	mustEnd(t, c)

	if len(d.defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(d.defs))
	}
	if p.numID != 2 {
		t.Errorf("expected numID 2, got %d", p.numID)
	}
}

func TestContext_AddWithoutLevel(t *testing.T) {
	c := New(&fakeDefiner{})
	p := &para{name: "p"}
	if err := c.Add(p); !errors.Is(err, ErrNoOpenLevel) {
		t.Fatalf("expected ErrNoOpenLevel, got %v", err)
	}
	if c.Depth() != 0 || c.pending != nil || c.styles != nil {
		t.Error("expected no state after failed add")
	}
	if p.labeled != 0 {
		t.Error("expected paragraph to stay unlabeled")
	}
}

func TestContext_AddAfterOutermostEnd(t *testing.T) {
	c := New(&fakeDefiner{})
	c.StartLevel(liststyle.Decimal)
	mustAdd(t, c, &para{name: "p1"})
	mustEnd(t, c)

	if err := c.Add(&para{name: "p2"}); !errors.Is(err, ErrNoOpenLevel) {
		t.Fatalf("expected ErrNoOpenLevel after outermost end, got %v", err)
	}
}

func TestContext_EndWithoutLevel(t *testing.T) {
	c := New(&fakeDefiner{})
	if err := c.EndLevel(); !errors.Is(err, ErrNoOpenLevel) {
		t.Fatalf("expected ErrNoOpenLevel, got %v", err)
	}
}

func TestContext_DefinerError(t *testing.T) {
	boom := errors.New("boom")
	c := New(&fakeDefiner{err: boom})
	c.StartLevel(liststyle.Decimal)
	mustAdd(t, c, &para{name: "p"})
	if err := c.EndLevel(); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped definer error, got %v", err)
	}
}

func TestContext_LevelsMatchDepth(t *testing.T) {
	// A well nested session: every paragraph ends up at its depth-1.
	d := &fakeDefiner{}
	c := New(d)
	type added struct {
		p     *para
		level int
	}
	var all []added
	add := func(name string) {
		p := &para{name: name}
		mustAdd(t, c, p)
		all = append(all, added{p: p, level: c.Depth() - 1})
	}

	c.StartLevel(liststyle.Decimal)
	add("1")
	c.StartLevel(liststyle.LowerAlpha)
	add("1.a")
	c.StartLevel(liststyle.LowerRoman)
	add("1.a.i")
	add("1.a.ii")
	mustEnd(t, c)
	add("1.b")
	mustEnd(t, c)
	add("2")
	c.StartLevel(liststyle.Disc)
	add("2.*")
	mustEnd(t, c)
	add("3")
	mustEnd(t, c)

	for _, a := range all {
		if a.p.labeled != 1 {
			t.Errorf("%s: expected labeled once, got %d", a.p.name, a.p.labeled)
		}
		if a.p.level != a.level {
			t.Errorf("%s: expected level %d, got %d", a.p.name, a.level, a.p.level)
		}
	}
	if len(d.defs) != 2 {
		t.Errorf("expected 2 definitions, got %d", len(d.defs))
	}
}

func TestContext_SetIndentBeforeFirstList(t *testing.T) {
	d := &fakeDefiner{}
	c := New(d)
	c.SetIndent(720)
	c.StartLevel(liststyle.Decimal)
	c.StartLevel(liststyle.Decimal)
	mustEnd(t, c)
	mustEnd(t, c)
	if got := d.defs[0][1].Indent; got != 720 {
		t.Errorf("expected indent 720, got %d", got)
	}
}
