// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identify determines what to search for before any database is
// queried: the AI model names the specific cases, statutes, and search
// queries relevant to a legal question.
// Implements: prd001-identification (R1-R5).
package identify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// AI abstracts the language model so tests can supply a mock.
type AI interface {
	Ask(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// identifyPromptTmpl asks the model for a strict-JSON research plan.
var identifyPromptTmpl = template.Must(template.New("identify").Parse(`You are a legal research expert. A user has a legal question and I need to search legal databases to find relevant cases and statutes.

For this question, tell me:
1. The specific court cases (by name) that are most important and relevant
2. Any specific federal statutes that apply
3. Good search queries I should use to find additional relevant cases in a legal database

USER'S QUESTION:
{{.Question}}

Respond in EXACTLY this JSON format and nothing else, with no markdown, no backticks, no explanation:
{
    "cases": ["Case Name v. Other Party", "Another Case v. State"],
    "statutes": ["42 U.S.C. § 1983", "Title VII of the Civil Rights Act"],
    "search_queries": ["qualified immunity excessive force", "clearly established right"]
}

List 5-10 of the most important cases. List any relevant statutes (empty list if none apply). List 2-3 search queries.`))

const (
	identifyTemperature = 0.0
	identifyMaxTokens   = 2048
	maxExtractedCases   = 10
	maxFallbackTerms    = 5
)

// Identifier runs the identification stage against an AI model.
type Identifier struct {
	AI AI
}

// Identify asks the model which cases, statutes, and search queries are
// relevant to the question. A model failure degrades to a keyword query
// built from the question itself; the stage never returns an error for
// a non-empty question, only a weaker plan. Warnings go to w.
func (id *Identifier) Identify(ctx context.Context, question string, w io.Writer) (types.Identification, error) {
	if strings.TrimSpace(question) == "" {
		return types.Identification{}, fmt.Errorf("empty question")
	}

	prompt, err := renderPrompt(question)
	if err != nil {
		return types.Identification{}, fmt.Errorf("rendering prompt: %w", err)
	}

	response, err := id.AI.Ask(ctx, prompt, identifyTemperature, identifyMaxTokens)
	if err != nil {
		fmt.Fprintf(w, "warning: identification model failed, using keyword fallback: %v\n", err)
		return keywordFallback(question), nil
	}

	ident, err := parseResponse(response)
	if err != nil {
		fmt.Fprintf(w, "warning: unparseable identification response, extracting case names from text\n")
		return extractFromText(response), nil
	}
	return ident, nil
}

func renderPrompt(question string) (string, error) {
	var buf bytes.Buffer
	if err := identifyPromptTmpl.Execute(&buf, struct{ Question string }{Question: question}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var (
	openFence  = regexp.MustCompile("^```(?:json)?\\s*")
	closeFence = regexp.MustCompile("\\s*```$")
)

// parseResponse decodes the model's JSON plan, tolerating markdown code
// fences the model adds despite instructions.
func parseResponse(text string) (types.Identification, error) {
	text = strings.TrimSpace(text)
	text = openFence.ReplaceAllString(text, "")
	text = closeFence.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	var ident types.Identification
	if err := json.Unmarshal([]byte(text), &ident); err != nil {
		return types.Identification{}, fmt.Errorf("parsing identification JSON: %w", err)
	}
	return ident, nil
}

// caseNamePattern matches captions like "Something v. Something" in
// free-form model output.
var caseNamePattern = regexp.MustCompile(`([A-Z][a-zA-Z\s\.',]+\s+v\.\s+[A-Z][a-zA-Z\s\.',]+)`)

// extractFromText salvages case names from a plain-text response the
// JSON parser rejected.
func extractFromText(text string) types.Identification {
	var cases []string
	seen := make(map[string]bool)
	for _, m := range caseNamePattern.FindAllString(text, -1) {
		name := strings.TrimRight(strings.TrimSpace(m), ",.")
		if len(name) <= 5 || seen[name] {
			continue
		}
		seen[name] = true
		cases = append(cases, name)
		if len(cases) == maxExtractedCases {
			break
		}
	}
	return types.Identification{Cases: cases}
}

// stopwords excluded from keyword fallback queries.
var stopwords = map[string]bool{
	"what": true, "how": true, "is": true, "the": true, "in": true,
	"for": true, "has": true, "been": true, "are": true, "does": true,
	"do": true, "can": true, "a": true, "an": true, "of": true,
	"to": true, "and": true, "or": true,
}

// keywordFallback builds a single search query from the question's
// significant terms when the model is unavailable.
func keywordFallback(question string) types.Identification {
	var terms []string
	for _, word := range strings.Fields(strings.ToLower(question)) {
		word = strings.Trim(word, "?.,!")
		if stopwords[word] || len(word) <= 3 {
			continue
		}
		terms = append(terms, word)
		if len(terms) == maxFallbackTerms {
			break
		}
	}
	return types.Identification{SearchQueries: []string{strings.Join(terms, " ")}}
}
