// Package render turns a portfolio page into HTML.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/spigell/portfolio/internal/portfolio"
	"github.com/spigell/portfolio/internal/resume"
)

// PageTemplate is the name of the full page template.
const PageTemplate = "page.html"

//go:embed templates/*.html
var templatesFS embed.FS

type Options struct {
	// Title overrides the document title. Defaults to the resume name.
	Title string
}

// NavItem is an entry of the sticky navigation header.
type NavItem struct {
	ID    string
	Label string
}

// View is the data passed to the page template.
type View struct {
	Title         string
	Record        *resume.Record
	ResumeError   string
	Projects      []Project
	ProjectsError string
	Nav           []NavItem
	Summary       []string
	Year          int
}

type Project struct {
	Name        string
	Description string
	URL         string
	Homepage    string
	Language    string
	Stars       int
	Topics      []string
}

var funcs = template.FuncMap{
	"lines": splitLines,
}

// Templates parses the embedded templates.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}

// Page writes the complete HTML document for the page.
func Page(w io.Writer, page *portfolio.Page, opts Options) error {
	tmpl, err := Templates()
	if err != nil {
		return err
	}

	if err := tmpl.ExecuteTemplate(w, PageTemplate, NewView(page, opts)); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}

	return nil
}

// NewView prepares the template data. A missing record renders as empty.
func NewView(page *portfolio.Page, opts Options) *View {
	if page == nil {
		page = &portfolio.Page{}
	}

	record := page.Resume
	if record == nil {
		record = &resume.Record{}
	}

	v := &View{
		Title:         opts.Title,
		Record:        record,
		ResumeError:   page.ResumeError,
		ProjectsError: page.ProjectsError,
		Summary:       splitLines(record.Summary),
		Year:          page.GeneratedAt.Year(),
	}

	if page.GeneratedAt.IsZero() {
		v.Year = time.Now().Year()
	}

	if v.Title == "" {
		v.Title = record.Name
	}
	if v.Title == "" {
		v.Title = "Portfolio"
	}

	for _, repo := range page.Projects {
		v.Projects = append(v.Projects, Project{
			Name:        repo.Name,
			Description: repo.Description,
			URL:         repo.HTMLURL,
			Homepage:    repo.Homepage,
			Language:    repo.Language,
			Stars:       repo.Stars,
			Topics:      repo.Topics,
		})
	}

	v.Nav = navigation(v)

	return v
}

func navigation(v *View) []NavItem {
	r := v.Record
	var nav []NavItem

	add := func(ok bool, id, label string) {
		if ok {
			nav = append(nav, NavItem{ID: id, Label: label})
		}
	}

	add(r.Summary != "", "about", "About")
	add(len(r.Skills) > 0 || r.SkillsText != "", "skills", "Skills")
	add(len(r.Experience) > 0, "experience", "Experience")
	add(len(v.Projects) > 0 || v.ProjectsError != "", "projects", "Projects")
	add(len(r.Publications) > 0, "publications", "Publications")
	add(len(r.Certifications) > 0, "certifications", "Certifications")
	add(len(r.Education) > 0, "education", "Education")

	return nav
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
