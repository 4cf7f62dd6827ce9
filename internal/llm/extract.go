package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

var (
	// Reasoning-capable models interleave scratch work inside
	// <think>...</think> markers; it must never reach the parser.
	thinkPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)
	fencePattern = regexp.MustCompile("(?s)```json(.*?)```")
)

// StripReasoning removes every <think>...</think> span from text,
// regardless of position or repetition, and trims surrounding whitespace.
func StripReasoning(text string) string {
	return strings.TrimSpace(thinkPattern.ReplaceAllString(text, ""))
}

// ExtractJSON converts raw model output into a well-formed JSON value.
//
// The candidate is the content of the first ```json fenced block when one
// exists, otherwise the whole post-strip text. A strict parse is attempted
// first; on failure a lenient JSON5 parse (trailing commas, unquoted keys,
// single quotes) is tried. If both fail the returned *ParseError carries the
// candidate text as diagnostic payload.
func ExtractJSON(text string) (json.RawMessage, error) {
	cleaned := StripReasoning(text)

	candidate := cleaned
	if m := fencePattern.FindStringSubmatch(cleaned); m != nil {
		candidate = m[1]
	}
	candidate = strings.TrimSpace(candidate)

	var strict any
	if err := json.Unmarshal([]byte(candidate), &strict); err == nil {
		return json.RawMessage(candidate), nil
	}

	var lenient any
	if err := json5.Unmarshal([]byte(candidate), &lenient); err != nil {
		return nil, &ParseError{Candidate: candidate, Err: err}
	}

	normalized, err := json.Marshal(lenient)
	if err != nil {
		return nil, &ParseError{Candidate: candidate, Err: err}
	}
	return json.RawMessage(normalized), nil
}
