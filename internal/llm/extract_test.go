package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestStripReasoning(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single think block",
			input:    "<think>working it out</think>{\"a\":1}",
			expected: `{"a":1}`,
		},
		{
			name:     "multiple think blocks",
			input:    "<think>one</think>hello<think>two</think> world",
			expected: "hello world",
		},
		{
			name:     "multiline think block",
			input:    "<think>line one\nline two\n</think>\nresult",
			expected: "result",
		},
		{
			name:     "no think block",
			input:    "  plain text  ",
			expected: "plain text",
		},
		{
			name:     "think block in the middle",
			input:    "before <think>scratch</think> after",
			expected: "before  after",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StripReasoning(tt.input)
			if result != tt.expected {
				t.Errorf("StripReasoning() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSON_Strict(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare object",
			input:    `{"question": "What is your name?", "category": "personal"}`,
			expected: `{"question": "What is your name?", "category": "personal"}`,
		},
		{
			name:     "json fenced block",
			input:    "```json\n{\"done\": true}\n```",
			expected: `{"done": true}`,
		},
		{
			name:     "think block before fence",
			input:    "<think>ignore</think>```json\n{\"a\":1}\n```",
			expected: `{"a":1}`,
		},
		{
			name:     "array value",
			input:    `["one", "two"]`,
			expected: `["one", "two"]`,
		},
		{
			name:     "nested structure",
			input:    `{"skills": {"technical": ["Go", "SQL"]}}`,
			expected: `{"skills": {"technical": ["Go", "SQL"]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ExtractJSON(tt.input)
			if err != nil {
				t.Fatalf("ExtractJSON() error = %v", err)
			}
			var got, want any
			if err := json.Unmarshal(raw, &got); err != nil {
				t.Fatalf("result is not valid JSON: %v", err)
			}
			if err := json.Unmarshal([]byte(tt.expected), &want); err != nil {
				t.Fatalf("bad expectation: %v", err)
			}
			gotJSON, _ := json.Marshal(got)
			wantJSON, _ := json.Marshal(want)
			if string(gotJSON) != string(wantJSON) {
				t.Errorf("ExtractJSON() = %s, want %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestExtractJSON_Lenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, raw json.RawMessage)
	}{
		{
			name:  "trailing comma",
			input: `{"question": "Tell me about yourself",}`,
			check: func(t *testing.T, raw json.RawMessage) {
				var v map[string]string
				if err := json.Unmarshal(raw, &v); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if v["question"] != "Tell me about yourself" {
					t.Errorf("question = %q", v["question"])
				}
			},
		},
		{
			name:  "unquoted keys and single quotes",
			input: `{done: true, message: 'finished'}`,
			check: func(t *testing.T, raw json.RawMessage) {
				var v struct {
					Done    bool   `json:"done"`
					Message string `json:"message"`
				}
				if err := json.Unmarshal(raw, &v); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if !v.Done || v.Message != "finished" {
					t.Errorf("got %+v", v)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ExtractJSON(tt.input)
			if err != nil {
				t.Fatalf("ExtractJSON() error = %v", err)
			}
			tt.check(t, raw)
		})
	}
}

func TestExtractJSON_Malformed(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		candidate string
	}{
		{
			name:      "plain prose",
			input:     "I am sorry, I cannot produce JSON for that.",
			candidate: "I am sorry, I cannot produce JSON for that.",
		},
		{
			name:      "prose after think strip",
			input:     "<think>hmm</think>no json here",
			candidate: "no json here",
		},
		{
			name:      "empty response",
			input:     "",
			candidate: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractJSON(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if parseErr.Candidate != tt.candidate {
				t.Errorf("Candidate = %q, want %q", parseErr.Candidate, tt.candidate)
			}
		})
	}
}
