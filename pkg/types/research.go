// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Identification is the output of the identification stage: the cases,
// statutes, and exploratory search queries the model suggests looking up
// for a question.
type Identification struct {
	Cases         []string `json:"cases" yaml:"cases"`
	Statutes      []string `json:"statutes" yaml:"statutes"`
	SearchQueries []string `json:"search_queries" yaml:"search_queries"`
}

// IsEmpty reports whether the identification produced nothing to fetch.
func (id Identification) IsEmpty() bool {
	return len(id.Cases) == 0 && len(id.Statutes) == 0 && len(id.SearchQueries) == 0
}

// Synthesis is the sectioned answer produced by the synthesis stage.
type Synthesis struct {
	TLDR     string `json:"tldr" yaml:"tldr"`
	KeyCases string `json:"key_cases" yaml:"key_cases"`
	Statutes string `json:"statutes" yaml:"statutes"`
	Answer   string `json:"answer" yaml:"answer"`
	Gaps     string `json:"gaps" yaml:"gaps"`
}

// ResearchRun is one complete question-to-answer run, as persisted in the
// history store.
type ResearchRun struct {
	ID           int64     `json:"id" yaml:"id"`
	Question     string    `json:"question" yaml:"question"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	CaseCount    int       `json:"case_count" yaml:"case_count"`
	StatuteCount int       `json:"statute_count" yaml:"statute_count"`
	Synthesis    Synthesis `json:"synthesis" yaml:"synthesis"`
}
