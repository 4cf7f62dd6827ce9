// Package prompts provides the instruction templates sent to the model and
// the builders that fill them from interview and resume state. Templates are
// embedded at compile time; builders are pure functions over their inputs.
package prompts

import (
	"embed"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.txt
var promptFiles embed.FS

var (
	cache   = make(map[string]string)
	cacheMu sync.RWMutex
)

// Get retrieves a prompt template by filename (e.g. "interview_next.txt").
func Get(filename string) (string, error) {
	cacheMu.RLock()
	if tmpl, ok := cache[filename]; ok {
		cacheMu.RUnlock()
		return tmpl, nil
	}
	cacheMu.RUnlock()

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = string(data)
	cacheMu.Unlock()

	return string(data), nil
}

// MustGet retrieves a prompt template, panicking if it does not exist. Use
// for templates required at initialization time.
func MustGet(filename string) string {
	tmpl, err := Get(filename)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return tmpl
}

// Format replaces placeholders of the form {{.Key}} with values from data.
// Plain string substitution is used instead of text/template because prompt
// bodies are full of literal braces from example JSON.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, fmt.Sprintf("{{.%s}}", key), value)
	}
	return result
}
