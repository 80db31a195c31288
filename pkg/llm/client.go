// Package llm is the language-model fallback extractor: a narrow
// client for an Ollama-compatible text-generation endpoint plus
// best-effort parsing of structured facts out of free-text answers.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Generator produces model text for a prompt. The core pipeline and
// its tests depend on this interface, never on a concrete backend.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RequestTimeout bounds a single generation call. There is no retry.
const RequestTimeout = 60 * time.Second

// Client talks to an Ollama-style /api/generate endpoint.
type Client struct {
	BaseURL string
	Model   string

	httpClient *http.Client
}

// NewClient builds a client for the given endpoint and model, with
// sensible local defaults.
func NewClient(baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	return &Client{
		BaseURL:    baseURL,
		Model:      model,
		httpClient: &http.Client{Timeout: RequestTimeout},
	}
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate posts the prompt and returns the model's text. Low
// temperature keeps extraction answers stable.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(generateRequest{
		Model:   c.Model,
		Prompt:  prompt,
		Stream:  false,
		Options: generateOptions{Temperature: 0.1, TopP: 0.9},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("generate status %d: %s", resp.StatusCode, b)
	}
	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Response == "" {
		return "No response from model", nil
	}
	return out.Response, nil
}

// Ask degrades any generation failure to a descriptive string in
// place of model output, so the extraction pipeline never halts on
// model unavailability. Downstream JSON parsing of such a string
// yields an empty mapping and callers fall back to defaults.
func Ask(ctx context.Context, g Generator, prompt string) string {
	out, err := g.Generate(ctx, prompt)
	if err == nil {
		return out
	}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return "Request timed out"
	}
	return fmt.Sprintf("Error: %v", err)
}
