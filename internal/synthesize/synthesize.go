// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesize turns fetched legal data into the final sectioned
// answer: TLDR, key cases, relevant statutes, the answer itself, and
// research gaps.
// Implements: prd003-synthesis (R1-R4).
package synthesize

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// AI abstracts the language model so tests can supply a mock.
type AI interface {
	Ask(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

const (
	synthesisTemperature = 0.0
	synthesisMaxTokens   = 8192
)

// Synthesizer runs the synthesis stage against an AI model.
type Synthesizer struct {
	AI AI
}

// Synthesize produces a sectioned answer from the question and the
// fetched data. A model failure degrades to a synthesis carrying the
// error in the TLDR and the raw case list, so a run still yields
// something reviewable.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, data types.FetchResult) (types.Synthesis, error) {
	prompt, err := renderPrompt(question, data)
	if err != nil {
		return types.Synthesis{}, fmt.Errorf("rendering prompt: %w", err)
	}

	response, err := s.AI.Ask(ctx, prompt, synthesisTemperature, synthesisMaxTokens)
	if err != nil {
		return types.Synthesis{
			TLDR:     fmt.Sprintf("Error generating synthesis: %v", err),
			KeyCases: formatCases(data.Cases),
		}, nil
	}
	return parseSections(response), nil
}

// sectionMarkers maps response headers to synthesis fields, in the
// order the prompt demands them.
var sectionMarkers = []struct {
	keyword string
	assign  func(*types.Synthesis, string)
}{
	{"TLDR", func(s *types.Synthesis, v string) { s.TLDR = v }},
	{"KEY CASES", func(s *types.Synthesis, v string) { s.KeyCases = v }},
	{"RELEVANT STATUTES", func(s *types.Synthesis, v string) { s.Statutes = v }},
	{"ANSWER", func(s *types.Synthesis, v string) { s.Answer = v }},
	{"GAPS", func(s *types.Synthesis, v string) { s.Gaps = v }},
}

// parseSections splits the model response on the five section headers.
// Header lines tolerate leading markdown heading characters and any
// casing. A response with no recognizable headers lands whole in the
// Answer section rather than being discarded.
func parseSections(text string) types.Synthesis {
	var synthesis types.Synthesis

	var assign func(*types.Synthesis, string)
	var lines []string

	flush := func() {
		if assign != nil {
			assign(&synthesis, strings.TrimSpace(strings.Join(lines, "\n")))
		}
		lines = nil
	}

	for _, line := range strings.Split(text, "\n") {
		header := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		matched := false
		for _, m := range sectionMarkers {
			if strings.HasPrefix(strings.ToUpper(header), m.keyword) {
				flush()
				assign = m.assign
				matched = true
				break
			}
		}
		if !matched && assign != nil {
			lines = append(lines, line)
		}
	}
	flush()

	if synthesis == (types.Synthesis{}) {
		synthesis.Answer = text
	}
	return synthesis
}
