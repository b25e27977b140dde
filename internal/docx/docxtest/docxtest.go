// Package docxtest builds minimal .docx containers for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strings"
)

const (
	header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	footer = `</w:body></w:document>`
)

// Build returns a container whose body holds the paragraphs followed by the tables.
// Every table is a list of rows, every row a list of cell texts.
func Build(paragraphs []string, tables ...[][]string) []byte {
	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString(Paragraph(p))
	}

	for _, t := range tables {
		body.WriteString("<w:tbl>")
		for _, row := range t {
			body.WriteString("<w:tr>")
			for _, cell := range row {
				body.WriteString("<w:tc>")
				for _, line := range strings.Split(cell, "\n") {
					body.WriteString(Paragraph(line))
				}
				body.WriteString("</w:tc>")
			}
			body.WriteString("</w:tr>")
		}
		body.WriteString("</w:tbl>")
	}

	return BuildRaw(body.String())
}

// BuildRaw wraps raw body XML into a container.
func BuildRaw(bodyXML string) []byte {
	return Container(map[string]string{
		"word/document.xml": header + bodyXML + footer,
	})
}

// Paragraph renders a single-run paragraph.
func Paragraph(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + escape(text) + `</w:t></w:r></w:p>`
}

// Container zips the given parts.
func Container(parts map[string]string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range parts {
		f, err := w.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			panic(err)
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}

	return buf.Bytes()
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
