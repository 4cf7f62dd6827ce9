// Package llm provides the gateway to the external text-generation service.
// It sends prompts to the model endpoint and converts raw completions into
// well-formed JSON values.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Options are the sampling parameters passed through to the model service.
// Zero values are replaced with the service defaults before sending.
type Options struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Default sampling parameters. Call sites override Temperature for
// higher-stakes structured output (e.g. 0.2 for corrections).
const (
	DefaultTemperature = 0.6
	DefaultTopP        = 0.9
	DefaultMaxTokens   = 800
)

func (o Options) withDefaults() Options {
	if o.Temperature == 0 {
		o.Temperature = DefaultTemperature
	}
	if o.TopP == 0 {
		o.TopP = DefaultTopP
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	return o
}

// Client is an abstraction over the model service.
type Client interface {
	// Generate sends a prompt and returns the raw completion text.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
	// GenerateJSON sends a prompt and returns the first well-formed JSON
	// value extracted from the completion.
	GenerateJSON(ctx context.Context, prompt string, opts Options) (json.RawMessage, error)
}

// OllamaClient implements Client against an Ollama-compatible
// /api/generate endpoint.
type OllamaClient struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaClient creates a client for the given endpoint and model name.
func NewOllamaClient(baseURL, model string) *OllamaClient {
	return &OllamaClient{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends a single non-streaming completion request.
// Sampling options are passed through verbatim after defaulting; no retry
// is performed at this layer.
func (c *OllamaClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	opts = opts.withDefaults()

	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: opts.Temperature,
			TopP:        opts.TopP,
			MaxTokens:   opts.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &GatewayError{Message: "model endpoint unreachable", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GatewayError{Status: resp.StatusCode, Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &GatewayError{Status: resp.StatusCode, Message: string(body)}
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", &GatewayError{Status: resp.StatusCode, Message: "malformed response envelope", Err: err}
	}

	// Missing "response" field decodes to an empty string; extraction
	// downstream will reject it with a ParseError.
	return gr.Response, nil
}

// GenerateJSON sends a completion request and extracts the JSON value from
// the raw completion text.
func (c *OllamaClient) GenerateJSON(ctx context.Context, prompt string, opts Options) (json.RawMessage, error) {
	raw, err := c.Generate(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}
	return ExtractJSON(raw)
}
