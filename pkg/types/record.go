// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the caselaw-engine pipeline.
// Implements: prd002-fetch (CaseRecord, StatuteRecord, FetchResult);
//
//	prd001-identification (Identification);
//	prd003-synthesis (Synthesis);
//	prd004-history (ResearchRun).
package types

// CaseRecord is a normalized court-opinion result returned by a case-search
// source. Records carry no stable primary key across sources; identity is
// resolved downstream by case-name matching.
type CaseRecord struct {
	// Source identifies which adapter produced this record
	// (e.g. "courtlistener", "scotus_landmark").
	Source string `json:"source" yaml:"source"`

	// CaseName is the display name as returned by the source
	// (e.g. "Harlow v. Fitzgerald").
	CaseName string `json:"case_name" yaml:"case_name"`

	// Citation is the best available citation string
	// (e.g. "457 U.S. 800 (1982)").
	Citation string `json:"citation" yaml:"citation"`

	// Court is the deciding court identifier (e.g. "scotus", "ca9").
	Court string `json:"court,omitempty" yaml:"court,omitempty"`

	// DateFiled is the decision date (YYYY-MM-DD) when known.
	DateFiled string `json:"date_filed,omitempty" yaml:"date_filed,omitempty"`

	// Judges lists the judges as a single source-formatted string.
	Judges string `json:"judges,omitempty" yaml:"judges,omitempty"`

	// AbsoluteURL is the source-relative URL of the opinion page.
	AbsoluteURL string `json:"absolute_url,omitempty" yaml:"absolute_url,omitempty"`

	// Snippet is a relevance excerpt from the opinion text, or the topic
	// line for landmark entries. May contain HTML from the source.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	// OpinionID and ClusterID are CourtListener identifiers when present.
	OpinionID int    `json:"opinion_id,omitempty" yaml:"opinion_id,omitempty"`
	ClusterID string `json:"cluster_id,omitempty" yaml:"cluster_id,omitempty"`

	// Status is the precedential status reported by the source.
	Status string `json:"status,omitempty" yaml:"status,omitempty"`

	// RelevanceScore is the source's relevance ranking score, if any.
	RelevanceScore float64 `json:"relevance_score,omitempty" yaml:"relevance_score,omitempty"`

	// IsLandmark marks records backfilled from the static landmark table.
	IsLandmark bool `json:"is_landmark,omitempty" yaml:"is_landmark,omitempty"`
}

// StatuteRecord is a normalized legislation result returned by the
// statute-search source.
type StatuteRecord struct {
	// Source identifies the adapter (e.g. "congress_gov").
	Source string `json:"source" yaml:"source"`

	// Title is the bill or statute title.
	Title string `json:"title" yaml:"title"`

	// Number is the bill number (e.g. "1319").
	Number string `json:"number,omitempty" yaml:"number,omitempty"`

	// Type is the bill type (hr, s, hjres, ...).
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Congress is the congress number the bill belongs to.
	Congress int `json:"congress,omitempty" yaml:"congress,omitempty"`

	// IntroducedDate is the introduction date (YYYY-MM-DD).
	IntroducedDate string `json:"introduced_date,omitempty" yaml:"introduced_date,omitempty"`

	// LatestAction and LatestActionDate describe the most recent
	// legislative action.
	LatestAction     string `json:"latest_action,omitempty" yaml:"latest_action,omitempty"`
	LatestActionDate string `json:"latest_action_date,omitempty" yaml:"latest_action_date,omitempty"`

	// PolicyArea is the Library of Congress policy-area label.
	PolicyArea string `json:"policy_area,omitempty" yaml:"policy_area,omitempty"`

	// URL is the API URL of the bill record.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// LandmarkEntry is one entry of the static landmark-case table: a
// well-known case filed under a constitutional-law topic keyword. The
// table is seeded at process start and never mutated.
type LandmarkEntry struct {
	CaseName string `json:"case_name" yaml:"case_name"`
	Citation string `json:"citation" yaml:"citation"`
	Topic    string `json:"topic" yaml:"topic"`
}

// FetchResult is the reconciled output of a fetch call. The caller owns
// it exclusively after Fetch returns.
type FetchResult struct {
	// Cases is the deduplicated merged case list, first-seen order.
	// Order follows task completion and is not deterministic across runs.
	Cases []CaseRecord `json:"cases" yaml:"cases"`

	// Statutes holds at most one best match per requested statute name.
	Statutes []StatuteRecord `json:"statutes" yaml:"statutes"`

	// IdentifiedStatutes passes through the originally requested statute
	// names so downstream consumers can detect gaps.
	IdentifiedStatutes []string `json:"identified_statutes" yaml:"identified_statutes"`

	// MissingStatutes lists requested statute names with no retained
	// result. The synthesis stage must never present these as sourced.
	MissingStatutes []string `json:"missing_statutes,omitempty" yaml:"missing_statutes,omitempty"`
}
