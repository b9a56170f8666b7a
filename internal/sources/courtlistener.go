// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources implements clients for the legal data sources: the
// CourtListener search API, the Congress.gov legislation API, and the
// supremecourt.gov site (landmark table plus slip-opinion scraping).
// Implements: prd002-fetch (source adapter contract).
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// courtListenerSearchBase is the CourtListener search endpoint. Declared
// as a var so tests can substitute an httptest server.
var courtListenerSearchBase = "https://www.courtlistener.com/api/rest/v4/search/"

// federalCourts is the default court filter for constitutional-law
// research: the Supreme Court plus the federal circuit courts.
var federalCourts = []string{
	"scotus",
	"ca1", "ca2", "ca3", "ca4", "ca5", "ca6",
	"ca7", "ca8", "ca9", "ca10", "ca11", "cadc", "cafc",
}

// CourtListenerClient queries the Free Law Project's CourtListener REST API.
type CourtListenerClient struct {
	Client    *http.Client
	APIToken  string
	UserAgent string
}

// Name returns the source identifier.
func (c *CourtListenerClient) Name() string { return "courtlistener" }

// IsConfigured reports whether an API token is set.
func (c *CourtListenerClient) IsConfigured() bool { return c.APIToken != "" }

// SearchOpinions searches court opinions matching query, ranked by
// relevance, limited to federal courts, and capped at maxResults.
func (c *CourtListenerClient) SearchOpinions(ctx context.Context, query string, maxResults int) ([]types.CaseRecord, error) {
	params := url.Values{
		"q":        {query},
		"type":     {"o"}, // opinions
		"order_by": {"score desc"},
		"court":    {strings.Join(federalCourts, " ")},
		"format":   {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, courtListenerSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	if c.APIToken != "" {
		req.Header.Set("Authorization", "Token "+c.APIToken)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CourtListener search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CourtListener API returned HTTP %d", resp.StatusCode)
	}

	var clr courtListenerResponse
	if err := json.NewDecoder(resp.Body).Decode(&clr); err != nil {
		return nil, fmt.Errorf("parsing CourtListener response: %w", err)
	}

	items := clr.Results
	if maxResults > 0 && len(items) > maxResults {
		items = items[:maxResults]
	}

	var records []types.CaseRecord
	for _, item := range items {
		records = append(records, types.CaseRecord{
			Source:         "courtlistener",
			CaseName:       item.CaseName,
			DateFiled:      item.DateFiled,
			Court:          item.Court,
			Citation:       extractCitation(item),
			Snippet:        item.Snippet,
			Judges:         item.Judge,
			OpinionID:      item.ID,
			ClusterID:      item.ClusterID.String(),
			AbsoluteURL:    item.AbsoluteURL,
			Status:         item.Status,
			RelevanceScore: item.Score,
		})
	}
	return records, nil
}

// extractCitation picks the best citation string from a search result:
// the reporter citation when present, then the Lexis or neutral cite,
// then a citation built from the case name, court, and filing year.
func extractCitation(item courtListenerResult) string {
	if s := item.Citation.First(); s != "" {
		return s
	}
	for _, alt := range []string{item.LexisCite, item.NeutralCite} {
		if alt != "" {
			return alt
		}
	}
	if item.CaseName != "" {
		if item.CourtCitation != "" {
			year := item.DateFiled
			if len(year) > 4 {
				year = year[:4]
			}
			return fmt.Sprintf("%s (%s %s)", item.CaseName, item.CourtCitation, year)
		}
		return item.CaseName
	}
	return "Citation unavailable"
}

// CourtListener API JSON structures.
type courtListenerResponse struct {
	Count   int                   `json:"count"`
	Results []courtListenerResult `json:"results"`
}

type courtListenerResult struct {
	ID            int          `json:"id"`
	CaseName      string       `json:"caseName"`
	DateFiled     string       `json:"dateFiled"`
	Court         string       `json:"court"`
	CourtCitation string       `json:"court_citation_string"`
	Citation      stringOrList `json:"citation"`
	LexisCite     string       `json:"lexisCite"`
	NeutralCite   string       `json:"neutralCite"`
	Snippet       string       `json:"snippet"`
	Judge         string       `json:"judge"`
	ClusterID     intOrString  `json:"cluster_id"`
	AbsoluteURL   string       `json:"absolute_url"`
	Status        string       `json:"status"`
	Score         float64      `json:"score"`
}

// stringOrList accepts a JSON string or array of strings. The citation
// field has shipped as both across CourtListener API revisions.
type stringOrList []string

func (s *stringOrList) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*s = nil
		return nil
	}
	if data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*s = []string{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = list
	return nil
}

// First returns the first non-empty element.
func (s stringOrList) First() string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}

// intOrString accepts a JSON number or string and normalizes to string.
type intOrString string

func (v *intOrString) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" {
		raw = ""
	}
	*v = intOrString(raw)
	return nil
}

func (v intOrString) String() string { return string(v) }
