package resume

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/portfolio/internal/docx"
	"github.com/spigell/portfolio/internal/docx/docxtest"
)

func parseLines(t *testing.T, lines ...string) *Record {
	t.Helper()

	record, err := Parse(docxtest.Build(lines), DefaultOptions())
	require.NoError(t, err)

	return record
}

func withHeader(lines ...string) []string {
	return append([]string{"Jane Doe", "jane@x.com | LinkedIn | GitHub"}, lines...)
}

func TestParseEmptyInput(t *testing.T) {
	record, err := Parse(nil, DefaultOptions())
	require.NoError(t, err)

	assert.Empty(t, record.Name)
	assert.Empty(t, record.Contact)
	assert.Empty(t, record.Summary)
	assert.Empty(t, record.SkillsText)
	assert.NotNil(t, record.Skills)
	assert.Empty(t, record.Skills)
	assert.NotNil(t, record.Publications)
	assert.Empty(t, record.Publications)
	assert.NotNil(t, record.Experience)
	assert.Empty(t, record.Experience)
	assert.NotNil(t, record.Education)
	assert.Empty(t, record.Education)
	assert.NotNil(t, record.Certifications)
	assert.Empty(t, record.Certifications)
	assert.True(t, record.IsEmpty())
}

func TestParseUnreadableInput(t *testing.T) {
	_, err := Parse([]byte("plain text"), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, docx.ErrUnreadable))
}

func TestParseNameAndContactOnly(t *testing.T) {
	record := parseLines(t, withHeader()...)

	assert.Equal(t, "Jane Doe", record.Name)
	assert.Equal(t, "jane@x.com | LinkedIn | GitHub", record.Contact)
	assert.Empty(t, record.Summary)
	assert.Empty(t, record.Experience)
	assert.Empty(t, record.Education)
	assert.Empty(t, record.Publications)
	assert.Empty(t, record.Certifications)
	assert.Empty(t, record.Skills)
}

func TestParseSkipsBlankParagraphs(t *testing.T) {
	record := parseLines(t, "", "  Jane Doe  ", "", "jane@x.com")

	assert.Equal(t, "Jane Doe", record.Name)
	assert.Equal(t, "jane@x.com", record.Contact)
}

func TestParseSummary(t *testing.T) {
	record := parseLines(t, withHeader("PROFESSIONAL SUMMARY", "Experienced engineer.", "Loves systems.")...)

	assert.Equal(t, "Experienced engineer.\nLoves systems.", record.Summary)
}

func TestParseHeadingIsCaseInsensitive(t *testing.T) {
	record := parseLines(t, withHeader("  Professional Summary ", "Short.")...)

	assert.Equal(t, "Short.", record.Summary)
}

func TestParseLinesOutsideSectionsAreIgnored(t *testing.T) {
	record := parseLines(t, withHeader("Some tagline", "• stray bullet", "EDUCATION", "BSc CS")...)

	assert.Empty(t, record.Summary)
	assert.Equal(t, []string{"BSc CS"}, record.Education)
}

func TestParseExperienceMergesWrappedBullet(t *testing.T) {
	header := "Engineer, Acme Corp, NY  Jan 2020 – Dec 2021"
	record := parseLines(t, withHeader("PROFESSIONAL EXPERIENCE", header, "• Built system X", "that scaled to Y")...)

	require.Len(t, record.Experience, 1)
	assert.Equal(t, header, record.Experience[0].Header)
	assert.Equal(t, []string{"Built system X that scaled to Y"}, record.Experience[0].Bullets)
}

func TestParseExperienceMultipleJobs(t *testing.T) {
	record := parseLines(t, withHeader(
		"EXPERIENCE",
		"Senior Engineer, Globex, Remote  Mar. 2022 - Present",
		"• Led the platform team",
		"• Cut costs",
		"Engineer, Acme Corp, NY  January 2019 — February 2022",
		"• Shipped things",
	)...)

	require.Len(t, record.Experience, 2)
	assert.Equal(t, []string{"Led the platform team", "Cut costs"}, record.Experience[0].Bullets)
	assert.Equal(t, []string{"Shipped things"}, record.Experience[1].Bullets)

	job := record.FindJob("Engineer, Acme Corp, NY  January 2019 — February 2022")
	require.NotNil(t, job)
	assert.Equal(t, []string{"Shipped things"}, job.Bullets)
	assert.Nil(t, record.FindJob("missing"))
}

func TestParseExperienceLinesBeforeFirstBullet(t *testing.T) {
	record := parseLines(t, withHeader(
		"EXPERIENCE",
		"• Bullet without a job",
		"Engineer, Acme, NY  Jan 2020 – Present",
		"Team of five",
		"• First",
	)...)

	require.Len(t, record.Experience, 1)
	assert.Equal(t, []string{"First"}, record.Experience[0].Bullets)
}

func TestParseExperienceBulletWithDateIsNotAHeader(t *testing.T) {
	record := parseLines(t, withHeader(
		"EXPERIENCE",
		"Engineer, Acme, NY  Jan 2020 – Present",
		"• Migrated, Jan 2021 – Mar 2021",
	)...)

	require.Len(t, record.Experience, 1)
	assert.Equal(t, []string{"Migrated, Jan 2021 – Mar 2021"}, record.Experience[0].Bullets)
}

func TestParseHeadingResetsCurrentJob(t *testing.T) {
	record := parseLines(t, withHeader(
		"EXPERIENCE",
		"Engineer, Acme, NY  Jan 2020 – Present",
		"• First",
		"EDUCATION",
		"EXPERIENCE",
		"continuation that has no job",
	)...)

	require.Len(t, record.Experience, 1)
	assert.Equal(t, []string{"First"}, record.Experience[0].Bullets)
}

func TestParseCertificationsMergeRule(t *testing.T) {
	record := parseLines(t, withHeader("CERTIFICATIONS", "• Cert A", "Cert B")...)

	assert.Equal(t, []string{"Cert A Cert B"}, record.Certifications)
}

func TestParsePublications(t *testing.T) {
	record := parseLines(t, withHeader(
		"PUBLICATIONS",
		"First paper without bullet",
		"• Second paper,",
		"continued title",
		"● Third paper",
	)...)

	assert.Equal(t, []string{
		"First paper without bullet",
		"Second paper, continued title",
		"Third paper",
	}, record.Publications)
}

func TestParseEducationKeepsLinesVerbatim(t *testing.T) {
	record := parseLines(t, withHeader("EDUCATION", "BSc Computer Science, MIT", "• Honors")...)

	assert.Equal(t, []string{"BSc Computer Science, MIT", "• Honors"}, record.Education)
}

func TestParseFlatSkills(t *testing.T) {
	record := parseLines(t, withHeader("SKILLS", "Go, Python", "Kubernetes", "EDUCATION", "BSc")...)

	assert.Equal(t, "Go, Python\nKubernetes", record.SkillsText)
	assert.Empty(t, record.Skills)
}

func TestParseTableSkills(t *testing.T) {
	data := docxtest.Build(withHeader("SKILLS"), [][]string{
		{"Category", "Skills & Tools"},
		{"Languages", "Go, Python"},
		{"Cloud", ""},
		{"Single"},
		{"Infra", "Kubernetes\nTerraform"},
	})

	record, err := Parse(data, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []SkillGroup{
		{Category: "Languages", Skills: "Go, Python"},
		{Category: "Infra", Skills: "Kubernetes\nTerraform"},
	}, record.Skills)
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, record.Skills[1].Items())
	assert.Empty(t, record.SkillsText)
}

func TestParseTableSkillsDisabled(t *testing.T) {
	data := docxtest.Build(withHeader(), [][]string{{"Languages", "Go"}})

	record, err := Parse(data, Options{})
	require.NoError(t, err)
	assert.Empty(t, record.Skills)
}

func TestParseIncludeTableText(t *testing.T) {
	data := docxtest.Build(withHeader("EDUCATION"), [][]string{{"MSc, Stanford", "2018"}})

	record, err := Parse(data, Options{IncludeTableText: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"MSc, Stanford", "2018"}, record.Education)
}

func TestParseSoftLineBreaksSplitLines(t *testing.T) {
	body := docxtest.Paragraph("Jane Doe") +
		`<w:p><w:r><w:t>jane@x.com</w:t><w:br/><w:t>EDUCATION</w:t></w:r></w:p>` +
		docxtest.Paragraph("BSc")

	record, err := Parse(docxtest.BuildRaw(body), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", record.Contact)
	assert.Equal(t, []string{"BSc"}, record.Education)
}

func TestParseIsRepeatable(t *testing.T) {
	data := docxtest.Build(withHeader(
		"SUMMARY", "Builds things.",
		"EXPERIENCE", "Engineer, Acme, NY  Jan 2020 – Present", "• One", "two",
		"CERTIFICATIONS", "• CKA",
	), [][]string{{"Languages", "Go"}})

	first, err := Parse(data, DefaultOptions())
	require.NoError(t, err)
	second, err := Parse(data, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtractNilDocument(t *testing.T) {
	record := Extract(nil, DefaultOptions())
	assert.True(t, record.IsEmpty())
}
