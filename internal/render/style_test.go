package render

import (
	"testing"

	"github.com/dgallion1/docxlist/internal/liststyle"
	"github.com/dgallion1/docxlist/internal/wordml"
)

func TestParseInlineStyle(t *testing.T) {
	decl := parseInlineStyle(`Color: rgb(255, 0, 0); font-family: "Times New Roman", serif; font-weight: 700 !important`)
	rs := decl.apply(wordml.RunStyle{})
	if rs.Color != "FF0000" {
		t.Errorf("expected color FF0000, got %q", rs.Color)
	}
	if rs.Font != "Times New Roman" {
		t.Errorf("expected Times New Roman, got %q", rs.Font)
	}
	if !rs.Bold {
		t.Error("expected bold from font-weight 700")
	}
}

func TestParseInlineStyle_Empty(t *testing.T) {
	if decl := parseInlineStyle("  "); len(decl) != 0 {
		t.Errorf("expected no declarations, got %v", decl)
	}
}

func TestDeclarations_ListStyle(t *testing.T) {
	tests := []struct {
		style string
		want  string
		ok    bool
	}{
		{"list-style-type: square", "square", true},
		{"list-style: upper-roman outside", "upper-roman", true},
		{`list-style-type: "-"`, "literal:-", true},
		{"list-style-type: bogus", "", false},
		{"color: red", "", false},
	}
	for _, tt := range tests {
		s, ok := parseInlineStyle(tt.style).listStyle()
		if ok != tt.ok || (ok && s.Name != tt.want) {
			t.Errorf("%q: expected %q/%v, got %q/%v", tt.style, tt.want, tt.ok, s.Name, ok)
		}
	}
	s, _ := parseInlineStyle(`list-style-type: "-"`).listStyle()
	if !s.Literal || s.LevelText(0) != "-" {
		t.Errorf("expected literal marker, got %+v", s)
	}
	if s.Format != liststyle.FormatBullet {
		t.Errorf("expected bullet format for a custom marker, got %s", s.Format)
	}
}

func TestDeclarations_Decoration(t *testing.T) {
	rs := parseInlineStyle("text-decoration: underline line-through; vertical-align: super").apply(wordml.RunStyle{})
	if !rs.Underline || !rs.Strike || rs.VertAlign != "superscript" {
		t.Errorf("unexpected run style %+v", rs)
	}
	rs = parseInlineStyle("text-decoration: none").apply(rs)
	if rs.Underline || rs.Strike {
		t.Errorf("expected decoration cleared, got %+v", rs)
	}
}

func TestWithBackground(t *testing.T) {
	tests := []struct {
		value     string
		highlight string
		shading   string
	}{
		{"yellow", "yellow", ""},
		{"Lime", "green", ""},
		{"#abc", "", "AABBCC"},
		{"transparent", "", ""},
	}
	for _, tt := range tests {
		rs := withBackground(wordml.RunStyle{Highlight: "red"}, tt.value)
		if rs.Highlight != tt.highlight || rs.Shading != tt.shading {
			t.Errorf("%q: expected %q/%q, got %q/%q", tt.value, tt.highlight, tt.shading, rs.Highlight, rs.Shading)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#ff8800", "FF8800", true},
		{"#F80", "FF8800", true},
		{"rgb(0, 128, 255)", "0080FF", true},
		{"orange", "FFA500", true},
		{"#12", "", false},
		{"rgb(300, 0, 0)", "", false},
		{"chartreuse-ish", "", false},
	}
	for _, tt := range tests {
		got, ok := parseColor(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseColor(%q): expected %q/%v, got %q/%v", tt.in, tt.want, tt.ok, got, ok)
		}
	}
}

func TestHalfPoints(t *testing.T) {
	tests := map[string]int{"12pt": 24, "10.5pt": 21, "16px": 24}
	for in, want := range tests {
		got, ok := halfPoints(in)
		if !ok || got != want {
			t.Errorf("halfPoints(%q): expected %d, got %d (ok=%v)", in, want, got, ok)
		}
	}
	if _, ok := halfPoints("1em"); ok {
		t.Error("expected em sizes to be ignored")
	}
}
