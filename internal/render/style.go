package render

import (
	"fmt"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/dgallion1/docxlist/internal/liststyle"
	"github.com/dgallion1/docxlist/internal/wordml"
)

// declarations are the properties of an inline style attribute, names in
// lower case.
type declarations map[string]string

// parseInlineStyle parses the value of an HTML style attribute.
func parseInlineStyle(style string) declarations {
	decl := make(declarations)
	if strings.TrimSpace(style) == "" {
		return decl
	}

	p := css.NewParser(parse.NewInputString(style), true)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			return decl
		case css.DeclarationGrammar:
			value := joinValues(p.Values())
			value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
			if value != "" {
				decl[strings.ToLower(string(data))] = value
			}
		}
	}
}

func wordLike(tt css.TokenType) bool {
	switch tt {
	case css.IdentToken, css.NumberToken, css.DimensionToken, css.PercentageToken, css.HashToken, css.StringToken:
		return true
	}
	return false
}

// joinValues rebuilds a declaration value from its tokens with single spaces
// between words.
func joinValues(tokens []css.Token) string {
	var sb strings.Builder
	prev := css.ErrorToken
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			sb.WriteByte(' ')
			prev = t.TokenType
			continue
		}
		if wordLike(prev) && wordLike(t.TokenType) {
			sb.WriteByte(' ')
		}
		sb.Write(t.Data)
		prev = t.TokenType
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// listStyle returns the list-style-type given by list-style-type or the
// list-style shorthand.
func (d declarations) listStyle() (liststyle.Style, bool) {
	if v, ok := d["list-style-type"]; ok {
		if s, ok := liststyle.Lookup(v); ok {
			return s, true
		}
	}
	if v, ok := d["list-style"]; ok {
		if s, ok := liststyle.Lookup(v); ok {
			return s, true
		}
		for _, part := range strings.Fields(v) {
			if s, ok := liststyle.Lookup(part); ok {
				return s, true
			}
		}
	}
	return liststyle.Style{}, false
}

// apply overlays the declarations on a run style.
func (d declarations) apply(rs wordml.RunStyle) wordml.RunStyle {
	if v, ok := d["color"]; ok {
		if hex, ok := parseColor(v); ok {
			rs.Color = hex
		}
	}
	bg, ok := d["background-color"]
	if !ok {
		bg, ok = d["background"]
	}
	if ok {
		rs = withBackground(rs, bg)
	}
	if v, ok := d["font-family"]; ok {
		if family := firstFontFamily(v); family != "" {
			rs.Font = family
		}
	}
	if v, ok := d["font-weight"]; ok {
		rs.Bold = isBold(v)
	}
	if v, ok := d["font-style"]; ok {
		rs.Italic = v == "italic" || v == "oblique"
	}
	if v, ok := d["font-size"]; ok {
		if hp, ok := halfPoints(v); ok {
			rs.Size = hp
		}
	}
	if v, ok := d["text-decoration"]; ok {
		for _, part := range strings.Fields(strings.ToLower(v)) {
			switch part {
			case "underline":
				rs.Underline = true
			case "line-through":
				rs.Strike = true
			case "none":
				rs.Underline, rs.Strike = false, false
			}
		}
	}
	if v, ok := d["vertical-align"]; ok {
		switch strings.ToLower(v) {
		case "super":
			rs.VertAlign = "superscript"
		case "sub":
			rs.VertAlign = "subscript"
		case "baseline":
			rs.VertAlign = ""
		}
	}
	return rs
}

// withBackground maps a CSS background to a highlight when Word has a
// matching highlight color, and to shading otherwise.
func withBackground(rs wordml.RunStyle, value string) wordml.RunStyle {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "transparent" || value == "none" || value == "" {
		rs.Highlight, rs.Shading = "", ""
		return rs
	}
	if hl, ok := highlights[value]; ok {
		rs.Highlight, rs.Shading = hl, ""
		return rs
	}
	if hex, ok := parseColor(value); ok {
		rs.Highlight, rs.Shading = "", hex
	}
	return rs
}

// highlights are the CSS color names with an exact w:highlight equivalent.
var highlights = map[string]string{
	"yellow":      "yellow",
	"lime":        "green",
	"aqua":        "cyan",
	"cyan":        "cyan",
	"fuchsia":     "magenta",
	"magenta":     "magenta",
	"blue":        "blue",
	"red":         "red",
	"navy":        "darkBlue",
	"teal":        "darkCyan",
	"green":       "darkGreen",
	"purple":      "darkMagenta",
	"maroon":      "darkRed",
	"olive":       "darkYellow",
	"gray":        "darkGray",
	"grey":        "darkGray",
	"silver":      "lightGray",
	"black":       "black",
	"white":       "white",
	"lightgray":   "lightGray",
	"lightgrey":   "lightGray",
	"darkgray":    "darkGray",
	"darkgrey":    "darkGray",
	"darkblue":    "darkBlue",
	"darkcyan":    "darkCyan",
	"darkgreen":   "darkGreen",
	"darkmagenta": "darkMagenta",
	"darkred":     "darkRed",
}

var namedColors = map[string]string{
	"black":   "000000",
	"white":   "FFFFFF",
	"red":     "FF0000",
	"lime":    "00FF00",
	"green":   "008000",
	"blue":    "0000FF",
	"yellow":  "FFFF00",
	"aqua":    "00FFFF",
	"cyan":    "00FFFF",
	"fuchsia": "FF00FF",
	"magenta": "FF00FF",
	"navy":    "000080",
	"teal":    "008080",
	"purple":  "800080",
	"maroon":  "800000",
	"olive":   "808000",
	"gray":    "808080",
	"grey":    "808080",
	"silver":  "C0C0C0",
	"orange":  "FFA500",
	"pink":    "FFC0CB",
	"brown":   "A52A2A",
}

// parseColor converts #rgb, #rrggbb, rgb() and basic named colors to
// upper-case RRGGBB.
func parseColor(value string) (string, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if hex, ok := namedColors[value]; ok {
		return hex, true
	}
	if strings.HasPrefix(value, "#") {
		h := value[1:]
		if len(h) == 3 {
			h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
		}
		if len(h) != 6 {
			return "", false
		}
		if _, err := strconv.ParseUint(h, 16, 32); err != nil {
			return "", false
		}
		return strings.ToUpper(h), true
	}
	if strings.HasPrefix(value, "rgb(") && strings.HasSuffix(value, ")") {
		parts := strings.Split(value[4:len(value)-1], ",")
		if len(parts) != 3 {
			return "", false
		}
		var sb strings.Builder
		for _, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || n < 0 || n > 255 {
				return "", false
			}
			fmt.Fprintf(&sb, "%02X", n)
		}
		return sb.String(), true
	}
	return "", false
}

func firstFontFamily(value string) string {
	first, _, _ := strings.Cut(value, ",")
	return strings.Trim(strings.TrimSpace(first), `"'`)
}

func isBold(value string) bool {
	switch strings.ToLower(value) {
	case "bold", "bolder":
		return true
	}
	n, err := strconv.Atoi(value)
	return err == nil && n >= 600
}

// halfPoints converts pt and px sizes to half points.
func halfPoints(value string) (int, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	var factor float64
	switch {
	case strings.HasSuffix(value, "pt"):
		factor = 2
	case strings.HasSuffix(value, "px"):
		factor = 1.5
	default:
		return 0, false
	}
	f, err := strconv.ParseFloat(value[:len(value)-2], 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return int(f*factor + 0.5), true
}
