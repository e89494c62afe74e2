// Package liststyle describes how a single list level is numbered: the format
// kind, the marker text and an optional marker font.
package liststyle

import (
	"strconv"
	"strings"
)

// Format is a WordprocessingML numbering format (the w:numFmt value).
type Format string

const (
	FormatDecimal     Format = "decimal"
	FormatDecimalZero Format = "decimalZero"
	FormatLowerRoman  Format = "lowerRoman"
	FormatUpperRoman  Format = "upperRoman"
	FormatLowerLetter Format = "lowerLetter"
	FormatUpperLetter Format = "upperLetter"
	FormatBullet      Format = "bullet"
	FormatNone        Format = "none"
)

// Style is one level of a list. It is a value type and is never modified
// after it has been handed to a numbering context.
type Style struct {
	// Name identifies the style in numbering cache keys.
	Name   string
	Format Format
	// Glyph is the literal marker text, used only when Literal is set. A
	// literal style with an empty glyph renders no marker at all.
	Glyph   string
	Literal bool
	Font    string
}

// Ordinal returns a style whose marker is the running count of its level.
func Ordinal(name string, format Format) Style {
	return Style{Name: name, Format: format}
}

// Bullet returns a style that draws the same glyph for every item.
func Bullet(name, glyph, font string) Style {
	return Style{Name: name, Format: FormatBullet, Glyph: glyph, Literal: true, Font: font}
}

// Custom returns a literal marker style for an arbitrary marker string, such
// as the value of `list-style-type: "-> "`.
func Custom(glyph string) Style {
	return Style{Name: "literal:" + glyph, Format: FormatBullet, Glyph: glyph, Literal: true}
}

// LevelText returns the w:lvlText pattern for this style at the given
// zero-based level.
func (s Style) LevelText(level int) string {
	if !s.Literal {
		return "%" + strconv.Itoa(level+1) + "."
	}
	return s.Glyph
}

// Ordered reports whether items are counted rather than bulleted.
func (s Style) Ordered() bool {
	return !s.Literal
}

func (s Style) String() string {
	return s.Name
}

var (
	Decimal     = Ordinal("decimal", FormatDecimal)
	DecimalZero = Ordinal("decimal-leading-zero", FormatDecimalZero)
	LowerRoman  = Ordinal("lower-roman", FormatLowerRoman)
	UpperRoman  = Ordinal("upper-roman", FormatUpperRoman)
	LowerAlpha  = Ordinal("lower-alpha", FormatLowerLetter)
	UpperAlpha  = Ordinal("upper-alpha", FormatUpperLetter)

	// Word draws its default bullets from symbol fonts.
	Disc   = Bullet("disc", "\uF0B7", "Symbol")
	Circle = Bullet("circle", "o", "Courier New")
	Square = Bullet("square", "\uF0A7", "Wingdings")
	None   = Style{Name: "none", Format: FormatNone, Literal: true}
)

var byName = map[string]Style{
	"decimal":              Decimal,
	"decimal-leading-zero": DecimalZero,
	"lower-roman":          LowerRoman,
	"upper-roman":          UpperRoman,
	"lower-alpha":          LowerAlpha,
	"lower-latin":          LowerAlpha,
	"upper-alpha":          UpperAlpha,
	"upper-latin":          UpperAlpha,
	"disc":                 Disc,
	"circle":               Circle,
	"square":               Square,
	"none":                 None,
}

// Lookup resolves a CSS list-style-type value. Quoted strings become custom
// literal markers.
func Lookup(value string) (Style, bool) {
	value = strings.TrimSpace(value)
	if n := len(value); n >= 2 && (value[0] == '"' || value[0] == '\'') && value[n-1] == value[0] {
		return Custom(value[1 : n-1]), true
	}
	s, ok := byName[strings.ToLower(value)]
	return s, ok
}

// FromTypeAttr maps the legacy HTML type attribute of ol and ul elements.
// The ordered variants are case sensitive.
func FromTypeAttr(value string) (Style, bool) {
	switch value {
	case "1":
		return Decimal, true
	case "a":
		return LowerAlpha, true
	case "A":
		return UpperAlpha, true
	case "i":
		return LowerRoman, true
	case "I":
		return UpperRoman, true
	}
	switch strings.ToLower(value) {
	case "disc":
		return Disc, true
	case "circle":
		return Circle, true
	case "square":
		return Square, true
	}
	return Style{}, false
}

// Default returns the browser default for a list. bulletDepth counts the
// unordered lists enclosing this one.
func Default(ordered bool, bulletDepth int) Style {
	if ordered {
		return Decimal
	}
	switch bulletDepth {
	case 0:
		return Disc
	case 1:
		return Circle
	default:
		return Square
	}
}
