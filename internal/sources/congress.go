// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// congressAPIBase is the Congress.gov API root. Declared as a var so
// tests can substitute an httptest server.
var congressAPIBase = "https://api.congress.gov/v3"

// recentCongresses lists the congress numbers searched by topic lookups,
// most recent first.
var recentCongresses = []int{118, 117, 116}

// CongressClient queries the Library of Congress Congress.gov REST API.
type CongressClient struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the source identifier.
func (c *CongressClient) Name() string { return "congress_gov" }

// IsConfigured reports whether an API key is set.
func (c *CongressClient) IsConfigured() bool { return c.APIKey != "" }

// SearchBills searches legislation across all congresses by keyword,
// sorted by relevance and capped at maxResults.
func (c *CongressClient) SearchBills(ctx context.Context, query string, maxResults int) ([]types.StatuteRecord, error) {
	return c.searchBills(ctx, query, 0, maxResults)
}

// SearchByTopic searches recent congresses for legislation related to a
// topic, stopping once maxResults records are collected.
func (c *CongressClient) SearchByTopic(ctx context.Context, topic string, maxResults int) ([]types.StatuteRecord, error) {
	var all []types.StatuteRecord
	for _, congress := range recentCongresses {
		records, err := c.searchBills(ctx, topic, congress, maxResults)
		if err != nil {
			return all, err
		}
		all = append(all, records...)
		if len(all) >= maxResults {
			break
		}
	}
	if len(all) > maxResults {
		all = all[:maxResults]
	}
	return all, nil
}

func (c *CongressClient) searchBills(ctx context.Context, query string, congress, maxResults int) ([]types.StatuteRecord, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("Congress.gov API key not configured")
	}

	limit := maxResults
	if limit <= 0 || limit > 250 {
		limit = 250
	}
	params := url.Values{
		"api_key": {c.APIKey},
		"query":   {query},
		"limit":   {fmt.Sprintf("%d", limit)},
		"format":  {"json"},
		"sort":    {"relevance"},
	}

	endpoint := congressAPIBase + "/bill"
	if congress > 0 {
		endpoint = fmt.Sprintf("%s/bill/%d", congressAPIBase, congress)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Congress.gov search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Congress.gov API returned HTTP %d", resp.StatusCode)
	}

	var cbr congressBillsResponse
	if err := json.NewDecoder(resp.Body).Decode(&cbr); err != nil {
		return nil, fmt.Errorf("parsing Congress.gov response: %w", err)
	}

	bills := cbr.Bills
	if maxResults > 0 && len(bills) > maxResults {
		bills = bills[:maxResults]
	}

	var records []types.StatuteRecord
	for _, bill := range bills {
		records = append(records, types.StatuteRecord{
			Source:           "congress_gov",
			Title:            bill.Title,
			Number:           bill.Number,
			Type:             bill.Type,
			Congress:         bill.Congress,
			IntroducedDate:   bill.IntroducedDate,
			LatestAction:     bill.LatestAction.Text,
			LatestActionDate: bill.LatestAction.ActionDate,
			PolicyArea:       bill.PolicyArea.Name,
			URL:              bill.URL,
		})
	}
	return records, nil
}

// Congress.gov API JSON structures.
type congressBillsResponse struct {
	Bills []congressBill `json:"bills"`
}

type congressBill struct {
	Title          string             `json:"title"`
	Number         string             `json:"number"`
	Type           string             `json:"type"`
	Congress       int                `json:"congress"`
	IntroducedDate string             `json:"introducedDate"`
	LatestAction   congressAction     `json:"latestAction"`
	PolicyArea     congressPolicyArea `json:"policyArea"`
	URL            string             `json:"url"`
}

type congressAction struct {
	ActionDate string `json:"actionDate"`
	Text       string `json:"text"`
}

type congressPolicyArea struct {
	Name string `json:"name"`
}
