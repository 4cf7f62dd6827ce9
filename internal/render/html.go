// Package render turns a resume document into its output formats: an HTML
// page, a printed PDF of that page, and a PPTX slide deck. HTML rendering is
// a pure function of (document, theme) so repeated renders after incremental
// modifications produce byte-identical output.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"airesume/internal/types"
)

//go:embed resume.html.tmpl
var templateFS embed.FS

var resumeTemplate = template.Must(
	template.New("resume.html.tmpl").
		Funcs(template.FuncMap{
			"join": func(items []string) string { return strings.Join(items, ", ") },
		}).
		ParseFS(templateFS, "resume.html.tmpl"),
)

type templateData struct {
	Data   types.ResumeDocument
	Accent template.CSS
}

// HTML renders the resume document as a standalone HTML page. Sections with
// no underlying data are omitted entirely; missing scalar fields inside a
// present section fall back to placeholder labels.
func HTML(doc types.ResumeDocument, theme types.Theme) (string, error) {
	theme = theme.Normalize()

	var sb strings.Builder
	err := resumeTemplate.Execute(&sb, templateData{
		Data:   doc,
		Accent: template.CSS(theme.Primary),
	})
	if err != nil {
		return "", fmt.Errorf("resume template: %w", err)
	}
	return sb.String(), nil
}

// Layout renders the document and bundles it with its source data and theme,
// the unit the preview endpoints exchange with clients.
func Layout(doc types.ResumeDocument, theme types.Theme) (types.ResumeLayout, error) {
	theme = theme.Normalize()
	html, err := HTML(doc, theme)
	if err != nil {
		return types.ResumeLayout{}, err
	}
	return types.ResumeLayout{
		Data:        doc,
		HTMLContent: html,
		Theme:       theme,
	}, nil
}
