package types

import "regexp"

// ResumeDocument is the structured resume contract exchanged with the model
// and consumed by the document renderers. Every list field may be empty or
// absent; renderers must emit nothing for an empty section. The document is
// always replaced wholesale, never field-merged.
type ResumeDocument struct {
	PersonalInfo   PersonalInfo `json:"personalInfo"`
	Summary        string       `json:"summary,omitempty"`
	Skills         Skills       `json:"skills,omitempty"`
	Experience     []Experience `json:"experience,omitempty"`
	Education      []Education  `json:"education,omitempty"`
	Projects       []Project    `json:"projects,omitempty"`
	Certifications []string     `json:"certifications,omitempty"`
}

// PersonalInfo is the resume header block.
type PersonalInfo struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// Skills groups skills into the three rendered sub-sections.
type Skills struct {
	Technical []string `json:"technical,omitempty"`
	Soft      []string `json:"soft,omitempty"`
	Tools     []string `json:"tools,omitempty"`
}

// IsEmpty reports whether no skills sub-group has entries.
func (s Skills) IsEmpty() bool {
	return len(s.Technical) == 0 && len(s.Soft) == 0 && len(s.Tools) == 0
}

// Experience is one employment entry.
type Experience struct {
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Duration     string   `json:"duration"`
	Achievements []string `json:"achievements,omitempty"`
}

// Education is one education entry.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year,omitempty"`
}

// Project is one project entry.
type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
}

// Theme carries the single accent color threaded through every rendered
// section.
type Theme struct {
	Primary string `json:"primary"`
}

// DefaultTheme is the accent used when the caller supplies none.
var DefaultTheme = Theme{Primary: "#2563eb"}

// accentPattern accepts hex colors only. The accent is interpolated into a
// stylesheet, so anything else must not reach the renderer.
var accentPattern = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)

// Normalize returns the theme with the default accent substituted for an
// empty or malformed one.
func (t Theme) Normalize() Theme {
	if !accentPattern.MatchString(t.Primary) {
		return DefaultTheme
	}
	return t
}

// ResumeLayout is a rendered resume: the source document plus its HTML
// rendering and the theme used. It is refreshed after every modification.
type ResumeLayout struct {
	Data        ResumeDocument `json:"data"`
	HTMLContent string         `json:"htmlContent"`
	Theme       Theme          `json:"theme"`
}
