// Package docx reads paragraph and table text out of a .docx container.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

// ErrUnreadable is returned when the bytes are not a readable document container.
var ErrUnreadable = errors.New("unreadable document")

// Document holds the body-level text of a word-processor document.
type Document struct {
	// Paragraphs in body order. Paragraphs nested in tables are not included.
	Paragraphs []string
	Tables     []Table
}

// Table is a body-level table. Every cell holds its paragraphs joined by newlines.
type Table struct {
	Rows [][]string
}

// Read decodes the document container. Empty input yields an empty document.
func Read(data []byte) (*Document, error) {
	if len(data) == 0 {
		return &Document{}, nil
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}

	// a container without a main part degrades to an empty document
	if part == nil {
		return &Document{}, nil
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrUnreadable, documentPart, err)
	}
	defer rc.Close()

	return decode(rc)
}

func decode(r io.Reader) (*Document, error) {
	var raw xmlDocument
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrUnreadable, documentPart, err)
	}

	doc := &Document{
		Paragraphs: make([]string, 0, len(raw.Body.Paragraphs)),
		Tables:     make([]Table, 0, len(raw.Body.Tables)),
	}

	for _, p := range raw.Body.Paragraphs {
		doc.Paragraphs = append(doc.Paragraphs, p.Text)
	}

	for _, t := range raw.Body.Tables {
		doc.Tables = append(doc.Tables, t.table())
	}

	return doc, nil
}

type xmlDocument struct {
	Body xmlBody `xml:"body"`
}

type xmlBody struct {
	Paragraphs []xmlParagraph `xml:"p"`
	Tables     []xmlTable     `xml:"tbl"`
}

type xmlTable struct {
	Rows []xmlRow `xml:"tr"`
}

type xmlRow struct {
	Cells []xmlCell `xml:"tc"`
}

type xmlCell struct {
	Paragraphs []xmlParagraph `xml:"p"`
}

func (t xmlTable) table() Table {
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			texts := make([]string, 0, len(cell.Paragraphs))
			for _, p := range cell.Paragraphs {
				texts = append(texts, p.Text)
			}
			cells = append(cells, strings.Join(texts, "\n"))
		}
		rows = append(rows, cells)
	}

	return Table{Rows: rows}
}

type xmlParagraph struct {
	Text string
}

// UnmarshalXML flattens every text run below the paragraph, including runs
// wrapped in hyperlinks, smart tags and tracked insertions.
func (p *xmlParagraph) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	var b strings.Builder
	depth := 0

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				var s string
				if err := d.DecodeElement(&s, &el); err != nil {
					return err
				}
				b.WriteString(s)
				continue
			case "pPr", "rPr", "delText", "instrText":
				// properties carry tab stops and field codes, not text
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			case "AlternateContent", "drawing", "pict", "txbxContent", "object":
				// anchored shapes and text boxes are not part of the paragraph line
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			case "noBreakHyphen":
				b.WriteByte('-')
			}
			depth++
		case xml.EndElement:
			if depth == 0 {
				p.Text = b.String()
				return nil
			}
			depth--
		}
	}
}
