// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "caselaw-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Workers is the fixed size of the fetch worker pool (default 5).
	Workers int `json:"workers" yaml:"workers"`

	// MaxCaseResults caps results requested per named-case query (default 3).
	MaxCaseResults int `json:"max_case_results" yaml:"max_case_results"`

	// MaxSearchResults caps results kept per free-text search query (default 5).
	MaxSearchResults int `json:"max_search_results" yaml:"max_search_results"`
}

// AIConfig holds settings for stages that call the Gemini API.
type AIConfig struct {
	// Model is the primary model identifier (e.g. "gemini-2.5-pro").
	Model string `json:"model" yaml:"model"`

	// FallbackModel is tried once when the primary model fails or
	// returns an empty response (default "gemini-2.0-flash").
	FallbackModel string `json:"fallback_model" yaml:"fallback_model"`

	// APIKey is the authentication key for the Gemini API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the retry budget for rate-limited API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// HistoryConfig holds settings for the research-run history store.
type HistoryConfig struct {
	// Dir is the directory holding the history database (default "history/").
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	AI      AIConfig      `json:"ai" yaml:"ai"`
	History HistoryConfig `json:"history" yaml:"history"`
}
