package render

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airesume/internal/types"
)

func fullDocument() types.ResumeDocument {
	return types.ResumeDocument{
		PersonalInfo: types.PersonalInfo{
			Name:     "Jordan Diaz",
			Email:    "jordan.diaz@example.com",
			Phone:    "+1 (555) 010-2030",
			Location: "Austin, TX",
		},
		Summary: "Backend engineer with six years of distributed-systems experience.",
		Skills: types.Skills{
			Technical: []string{"Go", "PostgreSQL"},
			Soft:      []string{"Communication"},
			Tools:     []string{"Docker"},
		},
		Experience: []types.Experience{
			{
				Company:      "Acme Corp",
				Role:         "Senior Engineer",
				Duration:     "2020 - Present",
				Achievements: []string{"Cut p99 latency by 40%"},
			},
		},
		Education: []types.Education{
			{Degree: "BS Computer Science", Institution: "UT Austin", Year: "2018"},
		},
		Projects: []types.Project{
			{Title: "Queue Broker", Description: "At-least-once delivery", Technologies: []string{"Go", "Redis"}},
		},
		Certifications: []string{"AWS Solutions Architect"},
	}
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestHTMLFullDocument(t *testing.T) {
	html, err := HTML(fullDocument(), types.Theme{})
	require.NoError(t, err)

	doc := parse(t, html)

	assert.Equal(t, "Jordan Diaz", doc.Find("h1").Text())
	for _, id := range []string{"summary", "skills", "experience", "education", "projects", "certifications"} {
		assert.Equal(t, 1, doc.Find("#"+id).Length(), "section %s missing", id)
	}
	assert.Contains(t, doc.Find("#experience").Text(), "Acme Corp")
	assert.Contains(t, doc.Find("#projects").Text(), "Technologies: Go, Redis")
}

func TestHTMLSectionOrder(t *testing.T) {
	html, err := HTML(fullDocument(), types.Theme{})
	require.NoError(t, err)

	order := []string{`id="summary"`, `id="skills"`, `id="experience"`, `id="education"`, `id="projects"`, `id="certifications"`}
	last := -1
	for _, marker := range order {
		idx := strings.Index(html, marker)
		require.GreaterOrEqual(t, idx, 0, "marker %s not found", marker)
		assert.Greater(t, idx, last, "%s out of order", marker)
		last = idx
	}
}

func TestHTMLOmitsEmptySections(t *testing.T) {
	doc := types.ResumeDocument{
		PersonalInfo: types.PersonalInfo{Name: "Jordan Diaz"},
		Summary:      "Short summary.",
	}

	html, err := HTML(doc, types.Theme{})
	require.NoError(t, err)

	parsed := parse(t, html)
	assert.Equal(t, 1, parsed.Find("#summary").Length())
	for _, id := range []string{"skills", "experience", "education", "projects", "certifications"} {
		assert.Equal(t, 0, parsed.Find("#"+id).Length(), "empty section %s should be omitted", id)
	}
}

func TestHTMLScalarFallbacks(t *testing.T) {
	doc := types.ResumeDocument{
		Experience: []types.Experience{{}},
		Education:  []types.Education{{}},
	}

	html, err := HTML(doc, types.Theme{})
	require.NoError(t, err)

	parsed := parse(t, html)
	assert.Equal(t, "Your Name", parsed.Find("h1").Text())
	text := parsed.Find("#experience").Text()
	assert.Contains(t, text, "Job Title")
	assert.Contains(t, text, "Company Name")
	eduText := parsed.Find("#education").Text()
	assert.Contains(t, eduText, "Degree")
	assert.Contains(t, eduText, "Institution")
}

func TestHTMLThemeAccent(t *testing.T) {
	html, err := HTML(fullDocument(), types.Theme{Primary: "#16a34a"})
	require.NoError(t, err)
	assert.Contains(t, html, "#16a34a")
	assert.NotContains(t, html, types.DefaultTheme.Primary)

	html, err = HTML(fullDocument(), types.Theme{})
	require.NoError(t, err)
	assert.Contains(t, html, types.DefaultTheme.Primary)
}

func TestHTMLRejectsMalformedAccent(t *testing.T) {
	accent := "#fff}body{display:none}"
	html, err := HTML(fullDocument(), types.Theme{Primary: accent})
	require.NoError(t, err)
	assert.NotContains(t, html, accent)
	assert.NotContains(t, html, "display:none")
	assert.Contains(t, html, types.DefaultTheme.Primary)
}

func TestHTMLDeterministic(t *testing.T) {
	doc := fullDocument()
	first, err := HTML(doc, types.Theme{})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := HTML(doc, types.Theme{})
		require.NoError(t, err)
		assert.Equal(t, first, again, "render %d differs", i)
	}
}

func TestHTMLEscapesContent(t *testing.T) {
	doc := types.ResumeDocument{
		PersonalInfo: types.PersonalInfo{Name: `<script>alert("x")</script>`},
	}

	html, err := HTML(doc, types.Theme{})
	require.NoError(t, err)
	assert.NotContains(t, html, `<script>alert`)
}

func TestLayoutBundlesSourceData(t *testing.T) {
	doc := fullDocument()
	layout, err := Layout(doc, types.Theme{})
	require.NoError(t, err)

	assert.Equal(t, doc, layout.Data)
	assert.Equal(t, types.DefaultTheme, layout.Theme)
	assert.NotEmpty(t, layout.HTMLContent)

	html, err := HTML(doc, types.Theme{})
	require.NoError(t, err)
	assert.Equal(t, html, layout.HTMLContent)
}
