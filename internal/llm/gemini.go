// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm implements the Gemini API client used by the
// identification and synthesis stages.
// Implements: prd001-identification (R4), prd003-synthesis (R3).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/caselaw-engine/internal/httputil"
	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// geminiAPIBase is the Gemini API root. Package-level var for test
// substitution.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// Default model pair. The fallback model handles overload errors the
// retry loop cannot clear.
const (
	DefaultModel         = "gemini-2.0-flash"
	DefaultFallbackModel = "gemini-1.5-flash"
)

// GeminiClient calls the Gemini generateContent API. Rate-limit and
// overload responses are retried with backoff; if the primary model
// stays overloaded the fallback model is tried once.
type GeminiClient struct {
	APIKey        string
	Model         string
	FallbackModel string
	MaxRetries    int
	Client        *http.Client
}

// NewGeminiClient builds a client from config, applying model defaults.
func NewGeminiClient(cfg types.AIConfig) *GeminiClient {
	c := &GeminiClient{
		APIKey:        cfg.APIKey,
		Model:         cfg.Model,
		FallbackModel: cfg.FallbackModel,
		MaxRetries:    cfg.MaxRetries,
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.FallbackModel == "" {
		c.FallbackModel = DefaultFallbackModel
	}
	return c
}

// IsConfigured reports whether an API key is set.
func (c *GeminiClient) IsConfigured() bool { return c.APIKey != "" }

// geminiRequest is the request body for the generateContent endpoint.
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text    string `json:"text"`
	Thought bool   `json:"thought,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// geminiResponse is the response body from the generateContent endpoint.
type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Ask sends a prompt to the configured model and returns the generated
// text. Thought parts emitted by reasoning models are skipped. If the
// primary model is still rate limited or overloaded after retries, the
// fallback model is tried once before giving up.
func (c *GeminiClient) Ask(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("Gemini API key not configured")
	}

	text, status, err := c.generate(ctx, c.Model, prompt, temperature, maxTokens)
	if err == nil {
		return text, nil
	}
	if c.FallbackModel == "" || c.FallbackModel == c.Model || !fallbackWorthy(status) {
		return "", err
	}

	text, _, fbErr := c.generate(ctx, c.FallbackModel, prompt, temperature, maxTokens)
	if fbErr != nil {
		return "", fmt.Errorf("%w (fallback %s: %v)", err, c.FallbackModel, fbErr)
	}
	return text, nil
}

// fallbackWorthy reports whether a status justifies switching models.
func fallbackWorthy(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// generate performs one generateContent call against a specific model.
// The returned status is the final HTTP status, zero on transport errors.
func (c *GeminiClient) generate(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, int, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", 0, fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", geminiAPIBase, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		return "", 0, fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", resp.StatusCode, fmt.Errorf("Gemini API (%s) returned %d: %s", model, resp.StatusCode, string(body))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", resp.StatusCode, fmt.Errorf("decoding Gemini response: %w", err)
	}
	if gResp.Error != nil {
		return "", gResp.Error.Code, fmt.Errorf("Gemini API error %d: %s", gResp.Error.Code, gResp.Error.Message)
	}
	if len(gResp.Candidates) == 0 {
		return "", resp.StatusCode, fmt.Errorf("Gemini API returned no candidates")
	}

	var out strings.Builder
	for _, part := range gResp.Candidates[0].Content.Parts {
		if part.Thought {
			continue
		}
		out.WriteString(part.Text)
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", resp.StatusCode, fmt.Errorf("Gemini API returned no text parts")
	}
	return text, resp.StatusCode, nil
}
