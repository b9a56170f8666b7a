// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesize

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// synthesisPromptTmpl grounds the model in the fetched data and demands
// the five fixed answer sections. The hard rule is that only retrieved
// cases may be cited; unsourced statute commentary must carry the
// interpretation label so readers can tell data from model opinion.
var synthesisPromptTmpl = template.Must(template.New("synthesis").Parse(`You are a legal research expert. I searched legal databases and found the case law and statutes below. Use this data to answer the user's question.

CRITICAL RULES:
- ONLY cite cases from the data below. Never invent or hallucinate cases.
- List ALL cases from the data below. They were already filtered for relevance, so do not skip any.
- For statutes: If real statute data was retrieved below, cite it normally. If statutes were identified as relevant but NOT found in the database, you may explain them from your own knowledge BUT you MUST clearly label those as "⚠️ Model Interpretation, not sourced from database."
- Be direct. No filler. Answer like a sharp legal expert.
- Include CourtListener links where available.

USER'S QUESTION:
{{.Question}}

CASE LAW FOUND:
{{.Cases}}

STATUTES FOUND IN DATABASE:
{{.Statutes}}

STATUTES IDENTIFIED BUT NOT FOUND IN DATABASE:
{{.Missing}}

Now produce EXACTLY these five sections. Use these EXACT headers:

## TLDR
2-3 sentences that directly answer the question. Be specific about what the law says. No hedging.

## KEY CASES
List ALL cases from the retrieved data (do not skip any). For each:

**Case Name**, Citation (Year)
- HOLDING: What the court decided in one sentence.
- KEY FACTS: The facts that mattered, 1-2 sentences.
- WHY IT MATTERS: Why this case matters for the user's question.
- LINK: [CourtListener link if available from the data]

## RELEVANT STATUTES
For statutes found in the database, summarize them with proper citations. For statutes identified as relevant but NOT found in database, explain them and prefix each with: ⚠️ Model Interpretation, not sourced from database

## ANSWER
2-4 paragraphs connecting the cases and statutes to answer the question. Explain how the legal standard works in practice. Give concrete examples of what would and wouldn't meet the standard. If courts disagree, explain the split.

## GAPS
2-3 bullet points on what's missing from this analysis and what additional research would help.`))

// courtListenerSiteBase prefixes relative opinion URLs in the prompt.
const courtListenerSiteBase = "https://www.courtlistener.com"

const maxSnippetLen = 800

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// renderPrompt builds the synthesis prompt from the question and the
// fetched data.
func renderPrompt(question string, data types.FetchResult) (string, error) {
	cases := formatCases(data.Cases)
	if cases == "" {
		cases = "No cases were found in the databases."
	}
	statutes := formatStatutes(data.Statutes)
	if statutes == "" {
		statutes = "No relevant statutes found in database."
	}
	missing := formatMissing(data.MissingStatutes)
	if missing == "" {
		missing = "None."
	}

	var buf bytes.Buffer
	err := synthesisPromptTmpl.Execute(&buf, struct {
		Question, Cases, Statutes, Missing string
	}{question, cases, statutes, missing})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatCases renders fetched cases as numbered prompt entries. Search
// snippets arrive as HTML fragments; tags are stripped and the text is
// truncated so one verbose opinion cannot crowd out the rest.
func formatCases(cases []types.CaseRecord) string {
	var entries []string
	for i, c := range cases {
		name := c.CaseName
		if name == "" {
			name = "Unknown"
		}
		citation := c.Citation
		if citation == "" {
			citation = "No citation"
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Case %d: %s\n  Citation: %s", i+1, name, citation)
		if c.Court != "" {
			fmt.Fprintf(&b, "\n  Court: %s", c.Court)
		}
		if c.DateFiled != "" {
			fmt.Fprintf(&b, "\n  Date: %s", c.DateFiled)
		}
		if c.IsLandmark {
			b.WriteString("\n  [LANDMARK CASE]")
		}
		if c.AbsoluteURL != "" {
			fmt.Fprintf(&b, "\n  CourtListener URL: %s%s", courtListenerSiteBase, c.AbsoluteURL)
		}
		if snippet := cleanSnippet(c.Snippet); snippet != "" {
			fmt.Fprintf(&b, "\n  Excerpt/Topic: %s", snippet)
		}
		entries = append(entries, b.String()+"\n")
	}
	return strings.Join(entries, "\n")
}

func cleanSnippet(snippet string) string {
	if snippet == "" {
		return ""
	}
	s := htmlTagPattern.ReplaceAllString(snippet, "")
	s = strings.ReplaceAll(s, "&amp;", "&")
	if len(s) > maxSnippetLen {
		s = s[:maxSnippetLen]
	}
	return s
}

func formatStatutes(statutes []types.StatuteRecord) string {
	var entries []string
	for i, s := range statutes {
		title := s.Title
		if title == "" {
			title = "Unknown"
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Statute %d: %s", i+1, title)
		if s.Number != "" {
			fmt.Fprintf(&b, " (%s)", s.Number)
		}
		if s.PolicyArea != "" {
			fmt.Fprintf(&b, "\n  Policy Area: %s", s.PolicyArea)
		}
		entries = append(entries, b.String())
	}
	return strings.Join(entries, "\n")
}

func formatMissing(missing []string) string {
	var lines []string
	for _, name := range missing {
		lines = append(lines, "- "+name)
	}
	return strings.Join(lines, "\n")
}
