package resume

import "strings"

// Record is the structured content of a resume document.
type Record struct {
	Name    string `json:"name"`
	Contact string `json:"contact_line"`
	Summary string `json:"summary"`

	// Skills is filled from skills tables, in table order.
	Skills []SkillGroup `json:"skills"`
	// SkillsText holds the raw lines found under a skills heading.
	SkillsText string `json:"skills_text"`

	Publications   []string `json:"publications"`
	Experience     []Job    `json:"experience"`
	Education      []string `json:"education"`
	Certifications []string `json:"certifications"`
}

// SkillGroup is a single category row of a skills table.
type SkillGroup struct {
	Category string `json:"category"`
	Skills   string `json:"skills"`
}

// Job is an experience entry keyed by its header line.
type Job struct {
	Header  string   `json:"header"`
	Bullets []string `json:"bullets"`
}

func newRecord() *Record {
	return &Record{
		Skills:         []SkillGroup{},
		Publications:   []string{},
		Experience:     []Job{},
		Education:      []string{},
		Certifications: []string{},
	}
}

// FindJob returns the experience entry with the given header.
func (r *Record) FindJob(header string) *Job {
	for i := range r.Experience {
		if r.Experience[i].Header == header {
			return &r.Experience[i]
		}
	}

	return nil
}

// IsEmpty reports whether nothing was extracted.
func (r *Record) IsEmpty() bool {
	return r.Name == "" && r.Contact == "" && r.Summary == "" && r.SkillsText == "" &&
		len(r.Skills) == 0 && len(r.Publications) == 0 && len(r.Experience) == 0 &&
		len(r.Education) == 0 && len(r.Certifications) == 0
}

// Items splits the skills text on commas and line breaks.
func (g SkillGroup) Items() []string {
	fields := strings.FieldsFunc(g.Skills, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})

	items := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			items = append(items, f)
		}
	}

	return items
}
