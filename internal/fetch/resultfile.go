// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// ResultFile is the on-disk representation of a fetch request and its
// reconciled results. A researcher can save a fetch to a file and feed
// it to later stages without re-querying the sources.
type ResultFile struct {
	Request RequestParams     `yaml:"request"`
	Results types.FetchResult `yaml:"results"`
	Summary ResultSummary     `yaml:"summary"`
}

// RequestParams stores the requested names in serializable form.
type RequestParams struct {
	Cases         []string `yaml:"cases,omitempty"`
	Statutes      []string `yaml:"statutes,omitempty"`
	SearchQueries []string `yaml:"search_queries,omitempty"`
}

// ResultSummary stores result counts and a timestamp.
type ResultSummary struct {
	Cases           int       `yaml:"cases"`
	Statutes        int       `yaml:"statutes"`
	MissingStatutes int       `yaml:"missing_statutes"`
	Timestamp       time.Time `yaml:"timestamp"`
}

// WriteResultFile saves a fetch request and its results to a YAML file.
func WriteResultFile(path string, req RequestParams, result types.FetchResult) error {
	rf := ResultFile{
		Request: req,
		Results: result,
		Summary: ResultSummary{
			Cases:           len(result.Cases),
			Statutes:        len(result.Statutes),
			MissingStatutes: len(result.MissingStatutes),
			Timestamp:       time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing result file %s: %w", path, err)
	}
	return nil
}

// ReadResultFile loads a previously saved result file.
func ReadResultFile(path string) (ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ResultFile{}, fmt.Errorf("reading result file %s: %w", path, err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return ResultFile{}, fmt.Errorf("parsing result file %s: %w", path, err)
	}
	return rf, nil
}
