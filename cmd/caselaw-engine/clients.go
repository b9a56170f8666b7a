// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/caselaw-engine/internal/fetch"
	"github.com/pdiddy/caselaw-engine/internal/llm"
	"github.com/pdiddy/caselaw-engine/internal/sources"
	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// Secret file names under .secrets/.
const (
	geminiKeySecret     = "gemini-api-key"
	courtListenerSecret = "courtlistener-api-token"
	congressKeySecret   = "congress-api-key"
	defaultHTTPTimeout  = 30 * time.Second
	defaultUserAgent    = "caselaw-engine/0.1 (legal research tool)"
)

// fetchConfigFromFlags builds the fetch stage config from flags, falling
// back to viper-bound config file and environment values.
func fetchConfigFromFlags(cmd *cobra.Command) types.FetchConfig {
	workers, _ := cmd.Flags().GetInt("workers")
	if workers == 0 {
		workers = viper.GetInt("fetch.workers")
	}
	maxCase, _ := cmd.Flags().GetInt("max-case-results")
	if maxCase == 0 {
		maxCase = viper.GetInt("fetch.max_case_results")
	}
	maxSearch, _ := cmd.Flags().GetInt("max-search-results")
	if maxSearch == 0 {
		maxSearch = viper.GetInt("fetch.max_search_results")
	}

	timeout := viper.GetDuration("fetch.timeout")
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	userAgent := viper.GetString("fetch.user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return types.FetchConfig{
		HTTPConfig:       types.HTTPConfig{Timeout: timeout, UserAgent: userAgent},
		Workers:          workers,
		MaxCaseResults:   maxCase,
		MaxSearchResults: maxSearch,
	}
}

// aiConfigFromFlags builds the AI config from flags, config, and secrets.
func aiConfigFromFlags(cmd *cobra.Command) types.AIConfig {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("ai.model")
	}
	apiKey, _ := cmd.Flags().GetString("api-key")

	return types.AIConfig{
		Model:         model,
		FallbackModel: viper.GetString("ai.fallback_model"),
		APIKey:        secretDefault(geminiKeySecret, apiKey),
		MaxRetries:    viper.GetInt("ai.max_retries"),
	}
}

// historyConfigFromFlags builds the history store config.
func historyConfigFromFlags(cmd *cobra.Command) types.HistoryConfig {
	dir, _ := cmd.Flags().GetString("history-dir")
	if dir == "" {
		dir = viper.GetString("history.dir")
	}
	if dir == "" {
		dir = "history"
	}
	return types.HistoryConfig{Dir: dir}
}

// newFetcher wires the source clients into a fetch stage.
func newFetcher(cmd *cobra.Command) *fetch.Fetcher {
	cfg := fetchConfigFromFlags(cmd)
	httpClient := &http.Client{Timeout: cfg.Timeout}

	clToken, _ := cmd.Flags().GetString("courtlistener-token")
	congressKey, _ := cmd.Flags().GetString("congress-key")

	return &fetch.Fetcher{
		Cases: &sources.CourtListenerClient{
			Client:    httpClient,
			APIToken:  secretDefault(courtListenerSecret, clToken),
			UserAgent: cfg.UserAgent,
		},
		Statutes: &sources.CongressClient{
			Client:    httpClient,
			APIKey:    secretDefault(congressKeySecret, congressKey),
			UserAgent: cfg.UserAgent,
		},
		Landmarks: &sources.SCOTUSClient{
			Client:    httpClient,
			UserAgent: cfg.UserAgent,
		},
		Config: cfg,
	}
}

// newAI builds the Gemini client from flags and secrets.
func newAI(cmd *cobra.Command) *llm.GeminiClient {
	cfg := aiConfigFromFlags(cmd)
	client := llm.NewGeminiClient(cfg)
	client.Client = &http.Client{Timeout: 2 * time.Minute}
	return client
}

// sourceFlags registers the flags shared by commands that hit the data
// sources.
func sourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("courtlistener-token", "", "CourtListener API token (default: .secrets/courtlistener-api-token)")
	cmd.Flags().String("congress-key", "", "Congress.gov API key (default: .secrets/congress-api-key)")
	cmd.Flags().Int("workers", 0, "fetch worker pool size (0 = default)")
	cmd.Flags().Int("max-case-results", 0, "results requested per named-case query (0 = default)")
	cmd.Flags().Int("max-search-results", 0, "results kept per search query (0 = default)")
}

// aiFlags registers the flags shared by commands that call the model.
func aiFlags(cmd *cobra.Command) {
	cmd.Flags().String("api-key", "", "Gemini API key (default: .secrets/gemini-api-key)")
	cmd.Flags().String("model", "", "model identifier (default: "+llm.DefaultModel+")")
}
