package resume

import (
	"regexp"
	"strings"
)

type section int

const (
	sectionNone section = iota
	sectionSummary
	sectionSkills
	sectionPublications
	sectionExperience
	sectionEducation
	sectionCertifications
)

var sectionNames = map[section]string{
	sectionNone:           "none",
	sectionSummary:        "summary",
	sectionSkills:         "skills",
	sectionPublications:   "publications",
	sectionExperience:     "experience",
	sectionEducation:      "education",
	sectionCertifications: "certifications",
}

func (s section) String() string {
	return sectionNames[s]
}

// headings maps uppercased heading text to the section it opens.
var headings = map[string]section{
	"PROFESSIONAL SUMMARY":      sectionSummary,
	"SUMMARY":                   sectionSummary,
	"PROFILE":                   sectionSummary,
	"SKILLS":                    sectionSkills,
	"TECHNICAL SKILLS":          sectionSkills,
	"CORE SKILLS":               sectionSkills,
	"PUBLICATIONS":              sectionPublications,
	"PROFESSIONAL EXPERIENCE":   sectionExperience,
	"EXPERIENCE":                sectionExperience,
	"WORK EXPERIENCE":           sectionExperience,
	"EDUCATION":                 sectionEducation,
	"CERTIFICATIONS":            sectionCertifications,
	"CERTIFICATES":              sectionCertifications,
	"LICENSES & CERTIFICATIONS": sectionCertifications,
}

// headingSection returns the section a heading line opens.
func headingSection(line string) (section, bool) {
	s, ok := headings[strings.ToUpper(strings.TrimSpace(line))]
	return s, ok
}

const bulletMarkers = "•●▪◦‣"

const month = `(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|June?|July?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?`

// dateRange matches "…, Jan 2020 – Dec 2021" and "…, Mar. 2019 - Present".
var dateRange = regexp.MustCompile(`(?i),.*\b` + month + `\s+\d{4}\s*[-–—]\s*(?:Present|` + month + `\s+\d{4})`)

func isBullet(line string) bool {
	r := []rune(line)
	return len(r) > 0 && strings.ContainsRune(bulletMarkers, r[0])
}

func hasBullet(line string) bool {
	return strings.ContainsAny(line, bulletMarkers)
}

func isJobHeader(line string) bool {
	return dateRange.MatchString(line) && !hasBullet(line)
}

// cleanBullet strips the leading marker and surrounding spaces.
func cleanBullet(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, bulletMarkers+" \t"))
}
