package render

import (
	"testing"

	"github.com/dgallion1/docxlist/internal/liststyle"
)

func TestCSVRenderer_RecordsBecomeNestedLists(t *testing.T) {
	input := "name,age\nAda,36\nBob,41\n"
	doc := renderString(t, &CSVRenderer{}, input)
	checkParagraphs(t, doc, []wantPara{
		{"Ada", 1, 0},
		{"name: Ada", 1, 1},
		{"age: 36", 1, 1},
		{"Bob", 1, 0},
		{"name: Bob", 1, 1},
		{"age: 41", 1, 1},
	})
	if n := len(doc.Numbering.Abstracts()); n != 1 {
		t.Errorf("expected 1 definition for all records, got %d", n)
	}
	got := abstractFormats(doc, 1)
	if len(got) != 2 || got[0] != liststyle.FormatDecimal || got[1] != liststyle.FormatBullet {
		t.Errorf("expected [decimal bullet], got %v", got)
	}
}

func TestCSVRenderer_HeaderOnly(t *testing.T) {
	doc := renderString(t, &CSVRenderer{}, "a,b\n")
	checkParagraphs(t, doc, []wantPara{{"a, b", 0, 0}})
}

func TestCSVRenderer_BlankRecordTitle(t *testing.T) {
	doc := renderString(t, &CSVRenderer{}, "k,v\n,\n")
	if got := doc.Body[0].Text(); got != "Row 2" {
		t.Errorf("expected fallback title, got %q", got)
	}
}
