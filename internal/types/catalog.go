package types

// ResumeMethod is a storytelling framework used to structure achievement
// bullets during profile analysis.
type ResumeMethod struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ResumeMethods are the supported frameworks, keyed by short tag.
var ResumeMethods = map[string]ResumeMethod{
	"star": {Name: "STAR Method", Description: "Situation–Task–Action–Result"},
	"car":  {Name: "CAR Method", Description: "Challenge–Action–Result"},
	"par":  {Name: "PAR Method", Description: "Problem–Action–Result"},
	"soar": {Name: "SOAR Method", Description: "Situation–Obstacle–Action–Result"},
	"fab":  {Name: "FAB Method", Description: "Features–Advantages–Benefits"},
}

// IndustryStandard captures per-industry presentation conventions.
type IndustryStandard struct {
	Colors   []string `json:"colors"`
	Sections []string `json:"sections"`
}

// IndustryStandards are the supported target industries, keyed by short tag.
var IndustryStandards = map[string]IndustryStandard{
	"tech": {
		Colors:   []string{"#2563eb", "#1f2937"},
		Sections: []string{"contact", "summary", "skills", "experience", "projects", "education"},
	},
	"medical": {
		Colors:   []string{"#dc2626", "#1f2937"},
		Sections: []string{"contact", "summary", "education", "certifications", "experience", "skills"},
	},
	"ai": {
		Colors:   []string{"#7c3aed", "#1f2937"},
		Sections: []string{"contact", "summary", "skills", "research", "projects", "experience"},
	},
}

// MethodOrDefault resolves a method tag, falling back to STAR.
func MethodOrDefault(tag string) (string, ResumeMethod) {
	if m, ok := ResumeMethods[tag]; ok {
		return tag, m
	}
	return "star", ResumeMethods["star"]
}

// IndustryOrDefault resolves an industry tag, falling back to ai.
func IndustryOrDefault(tag string) (string, IndustryStandard) {
	if ind, ok := IndustryStandards[tag]; ok {
		return tag, ind
	}
	return "ai", IndustryStandards["ai"]
}
