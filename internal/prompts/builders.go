package prompts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"airesume/internal/types"
)

// doneSentinel is appended to the interview prompt once the budget is
// exhausted; the only acceptable model output is then the done object.
const doneSentinel = `OUTPUT: {"done": true}`

// marshalIndent serializes state into the prompt body. Prompt construction
// is total: a marshal failure (impossible for our domain types) degrades to
// an empty JSON object rather than an error return.
func marshalIndent(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// BuildInterviewPrompt constructs the next-question prompt from the asked
// questions, the most recent answer, and the session budget. The combining
// directives react to how many required categories remain uncovered versus
// remaining slots; the mechanics stay in the prompt text, the code only
// computes the two counts deterministically.
func BuildInterviewPrompt(previousQA []types.QAItem, lastAnswer string, maxQuestions int) string {
	remainingSlots := maxQuestions - len(previousQA)
	uncovered := types.UncoveredRequired(previousQA)

	uncoveredJSON := []byte("[]")
	if len(uncovered) > 0 {
		uncoveredJSON, _ = json.Marshal(uncovered)
	}

	if lastAnswer == "" {
		lastAnswer = "N/A"
	}

	doneDirective := ""
	if remainingSlots <= 0 {
		doneDirective = doneSentinel
	}

	return Format(MustGet("interview_next.txt"), map[string]string{
		"RemainingSlots": strconv.Itoa(remainingSlots),
		"UncoveredJSON":  string(uncoveredJSON),
		"UncoveredList":  strings.Join(uncovered, ", "),
		"AskedCount":     strconv.Itoa(len(previousQA)),
		"MaxQuestions":   strconv.Itoa(maxQuestions),
		"PreviousQA":     marshalIndent(previousQA),
		"LastAnswer":     lastAnswer,
		"DoneDirective":  doneDirective,
	})
}

// BuildAnalysisPrompt constructs the interview-to-resume analysis prompt.
func BuildAnalysisPrompt(qa []types.QAItem, method, industry string) string {
	return Format(MustGet("analysis.txt"), map[string]string{
		"InterviewData": marshalIndent(qa),
		"Method":        method,
		"Industry":      industry,
	})
}

// BuildResumePrompt constructs the full resume-generation prompt.
func BuildResumePrompt(qa []types.QAItem, preference string, highlights []string) string {
	if preference == "" {
		preference = "ats_friendly"
	}
	highlightsJSON, _ := json.Marshal(highlights)
	if highlights == nil {
		highlightsJSON = []byte("[]")
	}

	return Format(MustGet("resume_generate.txt"), map[string]string{
		"InterviewData": marshalIndent(qa),
		"Preference":    preference,
		"Highlights":    string(highlightsJSON),
	})
}

// BuildModificationPrompt constructs the whole-document edit prompt. The
// entire current document is resubmitted; the model returns a complete
// replacement.
func BuildModificationPrompt(current types.ResumeDocument, request, section string) string {
	sectionLine := ""
	if section != "" {
		sectionLine = fmt.Sprintf("Focused Section: %q", section)
	}

	return Format(MustGet("resume_modify.txt"), map[string]string{
		"CurrentData": marshalIndent(current),
		"Request":     request,
		"SectionLine": sectionLine,
	})
}

// BuildSelectionPrompt constructs the selected-text modification prompt.
func BuildSelectionPrompt(current types.ResumeDocument, selectedText, context, modification string) string {
	return Format(MustGet("resume_select.txt"), map[string]string{
		"CurrentData":  marshalIndent(current),
		"SelectedText": selectedText,
		"Context":      context,
		"Modification": modification,
	})
}

// BuildCorrectionPrompt constructs the targeted missing-item correction
// prompt.
func BuildCorrectionPrompt(current types.ResumeDocument, field, issue, value string) string {
	return Format(MustGet("resume_correct.txt"), map[string]string{
		"CurrentData": marshalIndent(current),
		"Field":       field,
		"Issue":       issue,
		"Value":       value,
	})
}

// BuildQualityPrompt constructs the resume quality audit prompt. The HTML
// preview is truncated to keep the prompt within token budget.
func BuildQualityPrompt(doc types.ResumeDocument, htmlContent string) string {
	preview := htmlContent
	if len(preview) > 1000 {
		preview = preview[:1000] + "..."
	}

	return Format(MustGet("quality.txt"), map[string]string{
		"ResumeData":  marshalIndent(doc),
		"HTMLPreview": preview,
	})
}

// BuildMissingInfoPrompt constructs the critical-gap analysis prompt run
// before resume generation.
func BuildMissingInfoPrompt(qa []types.QAItem) string {
	return Format(MustGet("missing_info.txt"), map[string]string{
		"InterviewData": marshalIndent(qa),
	})
}

// BuildReadinessPrompt constructs the quick can-proceed check used by the
// generation flow when the full gap analysis is skipped.
func BuildReadinessPrompt(qa []types.QAItem) string {
	return Format(MustGet("readiness.txt"), map[string]string{
		"InterviewData": marshalIndent(qa),
	})
}

// BuildProfilePrompt constructs the benchmark profile analysis prompt.
func BuildProfilePrompt(qa []types.QAItem, method, industry string) string {
	return Format(MustGet("profile.txt"), map[string]string{
		"InterviewData": marshalIndent(qa),
		"Method":        method,
		"Industry":      industry,
	})
}

// BuildPresentationPrompt constructs the slide-deck outline prompt.
func BuildPresentationPrompt(topic string, slideCount int, tone string) string {
	if slideCount <= 0 {
		slideCount = 5
	}
	if tone == "" {
		tone = "professional"
	}

	return Format(MustGet("presentation.txt"), map[string]string{
		"Topic":      topic,
		"SlideCount": strconv.Itoa(slideCount),
		"Tone":       tone,
	})
}

// BuildRefinementPrompt constructs the review/refinement rewrite prompt from
// a history record's source data and the user's feedback.
func BuildRefinementPrompt(sourceData json.RawMessage, feedback string) string {
	var pretty string
	var v any
	if err := json.Unmarshal(sourceData, &v); err == nil {
		pretty = marshalIndent(v)
	} else {
		pretty = string(sourceData)
	}

	return Format(MustGet("refinement.txt"), map[string]string{
		"SourceData": pretty,
		"Feedback":   feedback,
	})
}
