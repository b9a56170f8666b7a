// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesize

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

type mockAI struct {
	response string
	err      error
	prompt   string
}

func (m *mockAI) Ask(_ context.Context, prompt string, _ float64, _ int) (string, error) {
	m.prompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func sampleData() types.FetchResult {
	return types.FetchResult{
		Cases: []types.CaseRecord{
			{
				CaseName:    "Harlow v. Fitzgerald",
				Citation:    "457 U.S. 800",
				Court:       "Supreme Court of the United States",
				DateFiled:   "1982-06-24",
				AbsoluteURL: "/opinion/110741/harlow-v-fitzgerald/",
				Snippet:     "<em>qualified</em> immunity &amp; discretionary functions",
			},
			{
				CaseName:   "Pearson v. Callahan",
				Citation:   "555 U.S. 223",
				IsLandmark: true,
				Snippet:    "Courts can skip clearly established analysis",
			},
		},
		Statutes: []types.StatuteRecord{
			{Title: "Civil Rights Act of 1964", Number: "7152", PolicyArea: "Civil Rights and Liberties"},
		},
		IdentifiedStatutes: []string{"Civil Rights Act of 1964", "42 U.S.C. § 1983"},
		MissingStatutes:    []string{"42 U.S.C. § 1983"},
	}
}

func TestSynthesizeParsesSections(t *testing.T) {
	ai := &mockAI{response: `## TLDR
Officials get qualified immunity unless the right was clearly established.

## KEY CASES
**Harlow v. Fitzgerald**, 457 U.S. 800 (1982)
- HOLDING: Established the objective qualified immunity standard.

## RELEVANT STATUTES
42 U.S.C. § 1983 creates the cause of action.

## ANSWER
The doctrine works in two steps.

## GAPS
- No circuit split analysis.`}

	s := &Synthesizer{AI: ai}
	syn, err := s.Synthesize(context.Background(), "qualified immunity?", sampleData())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(syn.TLDR, "Officials get qualified immunity") {
		t.Errorf("TLDR = %q", syn.TLDR)
	}
	if !strings.Contains(syn.KeyCases, "Harlow v. Fitzgerald") {
		t.Errorf("KeyCases = %q", syn.KeyCases)
	}
	if !strings.Contains(syn.Statutes, "1983") {
		t.Errorf("Statutes = %q", syn.Statutes)
	}
	if syn.Answer != "The doctrine works in two steps." {
		t.Errorf("Answer = %q", syn.Answer)
	}
	if !strings.Contains(syn.Gaps, "circuit split") {
		t.Errorf("Gaps = %q", syn.Gaps)
	}
}

func TestSynthesizePromptCarriesData(t *testing.T) {
	ai := &mockAI{response: "## TLDR\nok"}
	s := &Synthesizer{AI: ai}

	if _, err := s.Synthesize(context.Background(), "qualified immunity?", sampleData()); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"qualified immunity?",
		"Case 1: Harlow v. Fitzgerald",
		"Case 2: Pearson v. Callahan",
		"[LANDMARK CASE]",
		"https://www.courtlistener.com/opinion/110741/harlow-v-fitzgerald/",
		"Statute 1: Civil Rights Act of 1964 (7152)",
		"Policy Area: Civil Rights and Liberties",
		"- 42 U.S.C. § 1983",
	} {
		if !strings.Contains(ai.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// Snippet HTML is stripped and entities decoded.
	if strings.Contains(ai.prompt, "<em>") {
		t.Error("prompt contains raw HTML tags")
	}
	if !strings.Contains(ai.prompt, "qualified immunity & discretionary functions") {
		t.Error("snippet not cleaned into prompt")
	}
}

func TestSynthesizePromptEmptyData(t *testing.T) {
	ai := &mockAI{response: "## TLDR\nnothing found"}
	s := &Synthesizer{AI: ai}

	if _, err := s.Synthesize(context.Background(), "anything?", types.FetchResult{}); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"No cases were found in the databases.",
		"No relevant statutes found in database.",
		"None.",
	} {
		if !strings.Contains(ai.prompt, want) {
			t.Errorf("prompt missing placeholder %q", want)
		}
	}
}

func TestSynthesizeModelFailureDegrades(t *testing.T) {
	s := &Synthesizer{AI: &mockAI{err: fmt.Errorf("model overloaded")}}

	syn, err := s.Synthesize(context.Background(), "q?", sampleData())
	if err != nil {
		t.Fatalf("Synthesize() error = %v, want graceful degradation", err)
	}
	if !strings.Contains(syn.TLDR, "model overloaded") {
		t.Errorf("TLDR = %q, want the error surfaced", syn.TLDR)
	}
	if !strings.Contains(syn.KeyCases, "Harlow v. Fitzgerald") {
		t.Errorf("KeyCases = %q, want the raw case list", syn.KeyCases)
	}
}

func TestParseSectionsHeaderVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"plain headers", "TLDR\nshort answer\nKEY CASES\ncases here\nGAPS\ngaps here"},
		{"lowercase hash headers", "# tldr\nshort answer\n### key cases\ncases here\n## gaps\ngaps here"},
		{"indented headers", "  ## TLDR  \nshort answer\n ## KEY CASES\ncases here\n## GAPS\ngaps here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syn := parseSections(tt.text)
			if syn.TLDR != "short answer" {
				t.Errorf("TLDR = %q", syn.TLDR)
			}
			if syn.KeyCases != "cases here" {
				t.Errorf("KeyCases = %q", syn.KeyCases)
			}
			if syn.Gaps != "gaps here" {
				t.Errorf("Gaps = %q", syn.Gaps)
			}
		})
	}
}

func TestParseSectionsNoHeadersFallsBackToAnswer(t *testing.T) {
	text := "The model ignored the format and wrote prose."
	syn := parseSections(text)
	if syn.Answer != text {
		t.Errorf("Answer = %q, want the full text", syn.Answer)
	}
	if syn.TLDR != "" || syn.KeyCases != "" {
		t.Errorf("unexpected sections populated: %+v", syn)
	}
}

func TestCleanSnippetTruncates(t *testing.T) {
	long := strings.Repeat("a", maxSnippetLen+100)
	if got := cleanSnippet(long); len(got) != maxSnippetLen {
		t.Errorf("len = %d, want %d", len(got), maxSnippetLen)
	}
}
