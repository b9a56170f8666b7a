// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/caselaw-engine/internal/httputil"
	"github.com/pdiddy/caselaw-engine/pkg/types"
)

func withGeminiServer(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	old := geminiAPIBase
	geminiAPIBase = srv.URL
	t.Cleanup(func() { geminiAPIBase = old })

	oldDelay := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	t.Cleanup(func() { httputil.RetryBaseDelay = oldDelay })

	return NewGeminiClient(types.AIConfig{APIKey: "key", MaxRetries: 2})
}

func textResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
}

func TestAskReturnsText(t *testing.T) {
	var gotPath, gotKey string
	var gotReq geminiRequest
	client := withGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(textResponse("TLDR: Qualified immunity shields officials."))
	})

	text, err := client.Ask(context.Background(), "Summarize qualified immunity", 0.3, 1024)
	require.NoError(t, err)
	assert.Equal(t, "TLDR: Qualified immunity shields officials.", text)

	assert.Equal(t, "/models/"+DefaultModel+":generateContent", gotPath)
	assert.Equal(t, "key", gotKey)
	require.Len(t, gotReq.Contents, 1)
	assert.Equal(t, "Summarize qualified immunity", gotReq.Contents[0].Parts[0].Text)
	assert.Equal(t, 0.3, gotReq.GenerationConfig.Temperature)
	assert.Equal(t, 1024, gotReq.GenerationConfig.MaxOutputTokens)
}

func TestAskSkipsThoughtParts(t *testing.T) {
	client := withGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "Let me think about landmark cases...", "thought": true},
					{"text": "Katz v. United States established the privacy test."},
				}}},
			},
		})
	})

	text, err := client.Ask(context.Background(), "x", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, "Katz v. United States established the privacy test.", text)
}

func TestAskRetriesRateLimit(t *testing.T) {
	var calls int
	client := withGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(textResponse("ok"))
	})

	text, err := client.Ask(context.Background(), "x", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 2, calls)
}

func TestAskFallsBackWhenOverloaded(t *testing.T) {
	var models []string
	client := withGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		model := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/models/"), ":generateContent")
		models = append(models, model)
		if model == DefaultModel {
			http.Error(w, "model overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(textResponse("from fallback"))
	})

	text, err := client.Ask(context.Background(), "x", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, "from fallback", text)
	// Primary is retried to exhaustion before the fallback runs once.
	assert.Equal(t, DefaultFallbackModel, models[len(models)-1])
	assert.GreaterOrEqual(t, len(models), 2)
}

func TestAskNoFallbackOnBadRequest(t *testing.T) {
	var calls int
	client := withGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "invalid argument", http.StatusBadRequest)
	})

	_, err := client.Ask(context.Background(), "x", 0, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, 1, calls)
}

func TestAskEmptyCandidates(t *testing.T) {
	client := withGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	})

	_, err := client.Ask(context.Background(), "x", 0, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestAskRequiresAPIKey(t *testing.T) {
	client := NewGeminiClient(types.AIConfig{})
	_, err := client.Ask(context.Background(), "x", 0, 100)
	require.Error(t, err)
	assert.False(t, client.IsConfigured())
}

func TestNewGeminiClientDefaults(t *testing.T) {
	client := NewGeminiClient(types.AIConfig{APIKey: "key"})
	assert.Equal(t, DefaultModel, client.Model)
	assert.Equal(t, DefaultFallbackModel, client.FallbackModel)
}
