package render

import (
	"testing"

	"github.com/dgallion1/docxlist/internal/liststyle"
)

func TestTextRenderer_ParagraphsAndLists(t *testing.T) {
	input := `First paragraph
continues here.

- a
  - b
    wrapped
- c
1. x
2) y

Last.
`
	doc := renderString(t, &TextRenderer{}, input)
	checkParagraphs(t, doc, []wantPara{
		{"First paragraph\ncontinues here.", 0, 0},
		{"a", 1, 0},
		{"b wrapped", 1, 1},
		{"c", 1, 0},
		{"x", 2, 0},
		{"y", 2, 0},
		{"Last.", 0, 0},
	})

	if got := abstractFormats(doc, 1); len(got) != 2 || got[1] != liststyle.FormatBullet {
		t.Errorf("expected two bullet levels, got %v", got)
	}
	if got := abstractFormats(doc, 2); len(got) != 1 || got[0] != liststyle.FormatDecimal {
		t.Errorf("expected one decimal level, got %v", got)
	}
}

func TestTextRenderer_SkippedLevelIsClamped(t *testing.T) {
	doc := renderString(t, &TextRenderer{}, "      - deep\n- top\n")
	checkParagraphs(t, doc, []wantPara{
		{"deep", 1, 0},
		{"top", 1, 0},
	})
}

func TestTextRenderer_Empty(t *testing.T) {
	doc := renderString(t, &TextRenderer{}, "")
	if len(doc.Body) != 0 {
		t.Errorf("expected no paragraphs, got %d", len(doc.Body))
	}
	if !doc.Numbering.Empty() {
		t.Error("expected no numbering definitions")
	}
}
