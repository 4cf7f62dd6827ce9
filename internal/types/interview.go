// Package types defines the shared domain types exchanged between the
// interview flow, the prompt builders, and the document renderers.
package types

// QAItem is a single interview question with its (possibly absent) answer.
type QAItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
	Answered bool   `json:"-"`
	// Category is free-form coverage bookkeeping (personal, education,
	// experience, skills, combined, supplementary, general, ...). It is
	// never validated against a closed set.
	Category string `json:"category,omitempty"`
	// Type is a presentation hint: text, mcq, boolean or scale.
	Type                   string `json:"type,omitempty"`
	RequiresMultipleFields bool   `json:"requiresMultipleFields,omitempty"`
}

// QuestionReply is the JSON contract the model is asked to honor when
// generating the next interview question. Done set to true is the sentinel
// for "no further questions".
type QuestionReply struct {
	Question               string   `json:"question"`
	Category               string   `json:"category"`
	Type                   string   `json:"type"`
	Options                []string `json:"options"`
	RequiresMultipleFields bool     `json:"requiresMultipleFields"`
	Done                   bool     `json:"done"`
}

// Interview levels map to question budgets.
const (
	LevelBasic    = "basic"
	LevelStandard = "standard"
	LevelAdvanced = "advanced"
)

// QuestionBudget returns the maximum question count for a level. Unrecognized
// input falls back to the basic budget.
func QuestionBudget(level string) (string, int) {
	switch level {
	case LevelStandard:
		return LevelStandard, 8
	case LevelAdvanced:
		return LevelAdvanced, 15
	case LevelBasic:
		return LevelBasic, 1
	default:
		return LevelBasic, 1
	}
}

// RequiredCategories are the resume sections the interview must cover before
// the budget runs out. The combining directives in the interview prompt are
// driven by how many of these remain uncovered.
var RequiredCategories = []string{"personal", "education", "experience", "skills"}

// UncoveredRequired returns the required categories not yet present among the
// asked questions, in the fixed required-category order.
func UncoveredRequired(qa []QAItem) []string {
	covered := make(map[string]bool, len(qa))
	for _, item := range qa {
		covered[item.Category] = true
	}

	var missing []string
	for _, cat := range RequiredCategories {
		if !covered[cat] {
			missing = append(missing, cat)
		}
	}
	return missing
}
