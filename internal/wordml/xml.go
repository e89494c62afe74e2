package wordml

import (
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

const (
	nsW       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsRelPkg  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT      = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsCP      = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDC      = "http://purl.org/dc/elements/1.1/"
	nsDCTerms = "http://purl.org/dc/terms/"
	nsXSI     = "http://www.w3.org/2001/XMLSchema-instance"

	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relNumbering      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"

	ctMain      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles    = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctNumbering = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	ctCore      = "application/vnd.openxmlformats-package.core-properties+xml"
	ctRels      = "application/vnd.openxmlformats-package.relationships+xml"
)

func newXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

func setVal(parent *etree.Element, tag, val string) *etree.Element {
	el := parent.CreateElement(tag)
	el.CreateAttr("w:val", val)
	return el
}

// DocumentXML builds word/document.xml.
func (d *Document) DocumentXML() *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)
	body := root.CreateElement("w:body")

	for _, p := range d.Body {
		writeParagraph(body, p)
	}

	sect := body.CreateElement("w:sectPr")
	pgSz := sect.CreateElement("w:pgSz")
	pgSz.CreateAttr("w:w", "11906")
	pgSz.CreateAttr("w:h", "16838")
	pgMar := sect.CreateElement("w:pgMar")
	for _, a := range [][2]string{{"w:top", "1440"}, {"w:right", "1440"}, {"w:bottom", "1440"}, {"w:left", "1440"}, {"w:header", "708"}, {"w:footer", "708"}, {"w:gutter", "0"}} {
		pgMar.CreateAttr(a[0], a[1])
	}
	return doc
}

func writeParagraph(body *etree.Element, p *Paragraph) {
	el := body.CreateElement("w:p")

	if p.Style != "" || p.Numbered() || p.IndentLeft > 0 || p.Align != "" {
		pPr := el.CreateElement("w:pPr")
		if p.Style != "" {
			setVal(pPr, "w:pStyle", p.Style)
		}
		if p.Numbered() {
			numPr := pPr.CreateElement("w:numPr")
			setVal(numPr, "w:ilvl", strconv.Itoa(p.Ilvl))
			setVal(numPr, "w:numId", strconv.Itoa(p.NumID))
		}
		if p.IndentLeft > 0 {
			pPr.CreateElement("w:ind").CreateAttr("w:left", strconv.Itoa(p.IndentLeft))
		}
		if p.Align != "" {
			setVal(pPr, "w:jc", p.Align)
		}
	}

	for _, r := range p.Runs {
		writeRun(el, r)
	}
}

func writeRun(parent *etree.Element, r *Run) {
	el := parent.CreateElement("w:r")
	if r.Break {
		el.CreateElement("w:br")
		return
	}
	writeRunProperties(el, r.Style)
	t := el.CreateElement("w:t")
	if strings.TrimSpace(r.Text) != r.Text {
		t.CreateAttr("xml:space", "preserve")
	}
	t.SetText(r.Text)
}

func writeRunProperties(parent *etree.Element, s RunStyle) {
	if s == (RunStyle{}) {
		return
	}
	rPr := parent.CreateElement("w:rPr")
	if s.Font != "" {
		fonts := rPr.CreateElement("w:rFonts")
		fonts.CreateAttr("w:ascii", s.Font)
		fonts.CreateAttr("w:hAnsi", s.Font)
	}
	if s.Bold {
		rPr.CreateElement("w:b")
	}
	if s.Italic {
		rPr.CreateElement("w:i")
	}
	if s.Strike {
		rPr.CreateElement("w:strike")
	}
	if s.Color != "" {
		setVal(rPr, "w:color", s.Color)
	}
	if s.Size > 0 {
		setVal(rPr, "w:sz", strconv.Itoa(s.Size))
	}
	if s.Highlight != "" {
		setVal(rPr, "w:highlight", s.Highlight)
	}
	if s.Underline {
		setVal(rPr, "w:u", "single")
	}
	if s.Shading != "" {
		shd := rPr.CreateElement("w:shd")
		shd.CreateAttr("w:val", "clear")
		shd.CreateAttr("w:color", "auto")
		shd.CreateAttr("w:fill", s.Shading)
	}
	if s.VertAlign != "" {
		setVal(rPr, "w:vertAlign", s.VertAlign)
	}
}

// NumberingXML builds word/numbering.xml. All abstract definitions precede
// the instances, as the schema requires.
func (n *Numbering) NumberingXML() *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("w:numbering")
	root.CreateAttr("xmlns:w", nsW)

	for _, a := range n.abstracts {
		el := root.CreateElement("w:abstractNum")
		el.CreateAttr("w:abstractNumId", strconv.Itoa(a.ID))
		setVal(el, "w:multiLevelType", a.MultiLevelType)
		for _, l := range a.Levels {
			lvl := el.CreateElement("w:lvl")
			lvl.CreateAttr("w:ilvl", strconv.Itoa(l.Index))
			setVal(lvl, "w:start", strconv.Itoa(l.Start))
			setVal(lvl, "w:numFmt", string(l.Format))
			setVal(lvl, "w:lvlText", l.Text)
			setVal(lvl, "w:lvlJc", l.Align)
			lvl.CreateElement("w:pPr").CreateElement("w:ind").CreateAttr("w:left", strconv.Itoa(l.Indent))
			if font := strings.TrimSpace(l.Font); font != "" {
				fonts := lvl.CreateElement("w:rPr").CreateElement("w:rFonts")
				fonts.CreateAttr("w:ascii", font)
				fonts.CreateAttr("w:hAnsi", font)
				fonts.CreateAttr("w:hint", "default")
			}
		}
	}
	for _, num := range n.nums {
		el := root.CreateElement("w:num")
		el.CreateAttr("w:numId", strconv.Itoa(num.ID))
		setVal(el, "w:abstractNumId", strconv.Itoa(num.AbstractNumID))
	}
	return doc
}

type styleDef struct {
	id, name, basedOn string
	paragraph         bool
	bold, italic      bool
	size              int
	font              string
	indent            int
	spacingBefore     int
}

var styleDefs = []styleDef{
	{id: StyleNormal, name: "Normal", paragraph: true, size: 22},
	{id: StyleTitle, name: "Title", basedOn: StyleNormal, paragraph: true, size: 56},
	{id: "Heading1", name: "heading 1", basedOn: StyleNormal, paragraph: true, bold: true, size: 32, spacingBefore: 240},
	{id: "Heading2", name: "heading 2", basedOn: StyleNormal, paragraph: true, bold: true, size: 28, spacingBefore: 200},
	{id: "Heading3", name: "heading 3", basedOn: StyleNormal, paragraph: true, bold: true, size: 26, spacingBefore: 200},
	{id: "Heading4", name: "heading 4", basedOn: StyleNormal, paragraph: true, bold: true, italic: true, size: 24, spacingBefore: 200},
	{id: "Heading5", name: "heading 5", basedOn: StyleNormal, paragraph: true, bold: true, size: 22, spacingBefore: 200},
	{id: "Heading6", name: "heading 6", basedOn: StyleNormal, paragraph: true, italic: true, size: 22, spacingBefore: 200},
	{id: StyleListParagraph, name: "List Paragraph", basedOn: StyleNormal, paragraph: true},
	{id: StyleQuote, name: "Quote", basedOn: StyleNormal, paragraph: true, italic: true, indent: 720},
	{id: StyleCode, name: "Code", basedOn: StyleNormal, paragraph: true, font: "Courier New", size: 20},
}

// StylesXML builds word/styles.xml.
func StylesXML() *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("w:styles")
	root.CreateAttr("xmlns:w", nsW)

	for _, s := range styleDefs {
		el := root.CreateElement("w:style")
		el.CreateAttr("w:type", "paragraph")
		if s.id == StyleNormal {
			el.CreateAttr("w:default", "1")
		}
		el.CreateAttr("w:styleId", s.id)
		setVal(el, "w:name", s.name)
		if s.basedOn != "" {
			setVal(el, "w:basedOn", s.basedOn)
		}
		el.CreateElement("w:qFormat")

		if s.indent > 0 || s.spacingBefore > 0 {
			pPr := el.CreateElement("w:pPr")
			if s.spacingBefore > 0 {
				pPr.CreateElement("w:spacing").CreateAttr("w:before", strconv.Itoa(s.spacingBefore))
			}
			if s.indent > 0 {
				pPr.CreateElement("w:ind").CreateAttr("w:left", strconv.Itoa(s.indent))
			}
		}
		writeRunProperties(el, RunStyle{Bold: s.bold, Italic: s.italic, Size: s.size, Font: s.font})
	}
	return doc
}

// ContentTypesXML builds [Content_Types].xml.
func (d *Document) ContentTypesXML() *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("Types")
	root.CreateAttr("xmlns", nsCT)

	def := root.CreateElement("Default")
	def.CreateAttr("Extension", "rels")
	def.CreateAttr("ContentType", ctRels)
	def = root.CreateElement("Default")
	def.CreateAttr("Extension", "xml")
	def.CreateAttr("ContentType", "application/xml")

	override := func(part, ct string) {
		o := root.CreateElement("Override")
		o.CreateAttr("PartName", part)
		o.CreateAttr("ContentType", ct)
	}
	override("/"+partDocument, ctMain)
	override("/"+partStyles, ctStyles)
	if !d.Numbering.Empty() {
		override("/"+partNumbering, ctNumbering)
	}
	override("/"+partCore, ctCore)
	return doc
}

func relationships(rels [][3]string) *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsRelPkg)
	for _, r := range rels {
		el := root.CreateElement("Relationship")
		el.CreateAttr("Id", r[0])
		el.CreateAttr("Type", r[1])
		el.CreateAttr("Target", r[2])
	}
	return doc
}

// PackageRelsXML builds _rels/.rels.
func PackageRelsXML() *etree.Document {
	return relationships([][3]string{
		{"rId1", relOfficeDocument, partDocument},
		{"rId2", relCoreProps, partCore},
	})
}

// DocumentRelsXML builds word/_rels/document.xml.rels.
func (d *Document) DocumentRelsXML() *etree.Document {
	rels := [][3]string{{"rId1", relStyles, "styles.xml"}}
	if !d.Numbering.Empty() {
		rels = append(rels, [3]string{"rId2", relNumbering, "numbering.xml"})
	}
	return relationships(rels)
}

// CoreXML builds docProps/core.xml.
func (d *Document) CoreXML(created time.Time) *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("cp:coreProperties")
	root.CreateAttr("xmlns:cp", nsCP)
	root.CreateAttr("xmlns:dc", nsDC)
	root.CreateAttr("xmlns:dcterms", nsDCTerms)
	root.CreateAttr("xmlns:xsi", nsXSI)

	if d.Title != "" {
		root.CreateElement("dc:title").SetText(d.Title)
	}
	if d.Author != "" {
		root.CreateElement("dc:creator").SetText(d.Author)
	}
	ts := created.UTC().Format(time.RFC3339)
	for _, tag := range []string{"dcterms:created", "dcterms:modified"} {
		el := root.CreateElement(tag)
		el.CreateAttr("xsi:type", "dcterms:W3CDTF")
		el.SetText(ts)
	}
	return doc
}
