// Package resume turns a resume document into a structured Record.
//
// Extraction is line based: headings switch the current section, bullet
// markers open list entries and non-bulleted lines that follow an entry are
// merged into it to repair word-wrap. Unknown structure never fails, it only
// leaves the matching fields empty.
package resume

import (
	"fmt"
	"strings"

	"github.com/spigell/portfolio/internal/docx"
)

// Options selects the revision-dependent behaviour of the extractor.
type Options struct {
	// SkillsFromTables fills Record.Skills from category/skills table rows.
	SkillsFromTables bool `mapstructure:"skills-from-tables"`
	// IncludeTableText appends table cell lines after the paragraph lines.
	IncludeTableText bool `mapstructure:"include-table-text"`
}

// DefaultOptions reads skills from tables and leaves table text out of the line scan.
func DefaultOptions() Options {
	return Options{SkillsFromTables: true}
}

// Parse reads a .docx container and extracts a Record from it.
// Empty input yields an empty record.
func Parse(data []byte, opts Options) (*Record, error) {
	doc, err := docx.Read(data)
	if err != nil {
		return nil, fmt.Errorf("reading resume document: %w", err)
	}

	return Extract(doc, opts), nil
}

// Extract builds a Record from an already decoded document.
func Extract(doc *docx.Document, opts Options) *Record {
	record := newRecord()
	if doc == nil {
		return record
	}

	lines := Lines(doc, opts.IncludeTableText)
	if len(lines) > 0 {
		record.Name = lines[0]
	}
	if len(lines) > 1 {
		record.Contact = lines[1]
	}

	e := &extractor{record: record, job: -1}
	for i := 2; i < len(lines); i++ {
		e.feed(lines[i])
	}
	e.finish()

	if opts.SkillsFromTables {
		record.Skills = append(record.Skills, tableSkills(doc.Tables)...)
	}

	return record
}

// Lines returns the trimmed non-empty lines of the document, paragraphs
// first and then, when requested, table cells row by row.
func Lines(doc *docx.Document, includeTables bool) []string {
	lines := make([]string, 0, len(doc.Paragraphs))
	for _, p := range doc.Paragraphs {
		lines = appendLines(lines, p)
	}

	if !includeTables {
		return lines
	}

	for _, t := range doc.Tables {
		for _, row := range t.Rows {
			for _, cell := range row {
				lines = appendLines(lines, cell)
			}
		}
	}

	return lines
}

// appendLines splits on soft line breaks so each visual line is classified on its own.
func appendLines(lines []string, text string) []string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

type extractor struct {
	record  *Record
	section section
	// job is the index of the current experience entry, -1 when none.
	job int

	summary strings.Builder
	skills  strings.Builder
}

func (e *extractor) feed(line string) {
	if s, ok := headingSection(line); ok {
		e.section = s
		e.job = -1
		return
	}

	switch e.section {
	case sectionSummary:
		e.summary.WriteString(line)
		e.summary.WriteByte('\n')
	case sectionSkills:
		e.skills.WriteString(line)
		e.skills.WriteByte('\n')
	case sectionPublications:
		e.record.Publications = appendEntry(e.record.Publications, line)
	case sectionCertifications:
		e.record.Certifications = appendEntry(e.record.Certifications, line)
	case sectionEducation:
		e.record.Education = append(e.record.Education, line)
	case sectionExperience:
		e.experience(line)
	}
}

func (e *extractor) experience(line string) {
	if isJobHeader(line) {
		e.record.Experience = append(e.record.Experience, Job{Header: line, Bullets: []string{}})
		e.job = len(e.record.Experience) - 1
		return
	}

	if e.job < 0 {
		return
	}

	job := &e.record.Experience[e.job]
	switch {
	case isBullet(line):
		job.Bullets = append(job.Bullets, cleanBullet(line))
	case len(job.Bullets) > 0:
		last := len(job.Bullets) - 1
		job.Bullets[last] = job.Bullets[last] + " " + line
	}
}

func (e *extractor) finish() {
	e.record.Summary = strings.TrimSpace(e.summary.String())
	e.record.SkillsText = strings.TrimSpace(e.skills.String())
}

// appendEntry opens a new entry for bulleted lines and merges other lines
// into the previous entry.
func appendEntry(entries []string, line string) []string {
	if isBullet(line) || len(entries) == 0 {
		return append(entries, cleanBullet(line))
	}

	last := len(entries) - 1
	entries[last] = entries[last] + " " + line

	return entries
}

func tableSkills(tables []docx.Table) []SkillGroup {
	groups := make([]SkillGroup, 0)
	for _, t := range tables {
		for _, row := range t.Rows {
			if len(row) < 2 {
				continue
			}

			category := strings.TrimSpace(row[0])
			skills := strings.TrimSpace(row[1])
			if category == "" || skills == "" {
				continue
			}

			if strings.EqualFold(category, "Category") && strings.HasPrefix(strings.ToLower(skills), "skills") {
				continue
			}

			groups = append(groups, SkillGroup{Category: category, Skills: skills})
		}
	}

	return groups
}
