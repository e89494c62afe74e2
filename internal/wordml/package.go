package wordml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
)

const (
	partContentTypes = "[Content_Types].xml"
	partPackageRels  = "_rels/.rels"
	partDocument     = "word/document.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partStyles       = "word/styles.xml"
	partNumbering    = "word/numbering.xml"
	partCore         = "docProps/core.xml"
)

// MimeType is the media type of a .docx package.
const MimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteTo writes the document as a .docx package.
func (d *Document) WriteTo(w io.Writer) (n int64, err error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	defer func() {
		if er := zw.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to finish package: %w", er))
		}
		n = cw.n
	}()

	parts := []struct {
		name string
		doc  *etree.Document
	}{
		{partContentTypes, d.ContentTypesXML()},
		{partPackageRels, PackageRelsXML()},
		{partDocument, d.DocumentXML()},
		{partDocumentRels, d.DocumentRelsXML()},
		{partStyles, StylesXML()},
		{partCore, d.CoreXML(time.Now())},
	}
	if !d.Numbering.Empty() {
		parts = append(parts, struct {
			name string
			doc  *etree.Document
		}{partNumbering, d.Numbering.NumberingXML()})
	}

	for _, part := range parts {
		if err := writeXMLToZip(zw, part.name, part.doc); err != nil {
			return cw.n, fmt.Errorf("unable to write %s: %w", part.name, err)
		}
	}
	return cw.n, nil
}

// Bytes returns the .docx package in memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeXMLToZip(zw *zip.Writer, name string, doc *etree.Document) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}
