// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves real legal data for identified case and
// statute names: it fans tasks out to the data sources over a bounded
// worker pool, resolves ambiguous name matches, and reconciles the
// merged results into a deduplicated set.
// Implements: prd002-fetch (R1-R5).
package fetch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// CaseSearcher searches a case-law source by free text, ranked by
// relevance. CourtListener implements this.
type CaseSearcher interface {
	SearchOpinions(ctx context.Context, query string, maxResults int) ([]types.CaseRecord, error)
}

// StatuteSearcher searches a legislation source by free text.
// Congress.gov implements this.
type StatuteSearcher interface {
	SearchBills(ctx context.Context, query string, maxResults int) ([]types.StatuteRecord, error)
}

// LandmarkSource looks up landmark cases by topic keyword. Pure
// in-memory, no network; safe for concurrent reads.
type LandmarkSource interface {
	SearchByTopic(text string, maxResults int) []types.LandmarkEntry
}

// TaskKind classifies a fetch task.
type TaskKind int

const (
	// KindCase looks up one named case and keeps its best match.
	KindCase TaskKind = iota
	// KindStatute looks up one named statute and keeps the top result.
	KindStatute
	// KindSearch runs an exploratory free-text query and keeps all results.
	KindSearch
)

func (k TaskKind) String() string {
	switch k {
	case KindCase:
		return "case"
	case KindStatute:
		return "statute"
	case KindSearch:
		return "search"
	default:
		return "unknown"
	}
}

// task is one ephemeral unit of work, consumed by exactly one worker.
type task struct {
	kind  TaskKind
	query string
}

// taskResult carries one task's output to the single-threaded merge.
// Workers never share accumulators; all merging happens after the join.
type taskResult struct {
	task     task
	cases    []types.CaseRecord
	statutes []types.StatuteRecord
	err      error
}

const (
	defaultWorkers          = 5
	defaultMaxCaseResults   = 3
	defaultMaxSearchResults = 5
	landmarkLookupMax       = 3
)

// Fetcher composes the source adapters into the fetch stage.
type Fetcher struct {
	Cases     CaseSearcher
	Statutes  StatuteSearcher
	Landmarks LandmarkSource
	Config    types.FetchConfig
}

// Fetch retrieves data for the identified case names, statute names, and
// optional exploratory search queries, then reconciles the results.
// Empty inputs are valid and yield an empty result without error. A
// failing task is reported as a warning on w and contributes nothing;
// it never aborts sibling tasks. Progress and warnings go to w.
//
// Result ordering follows task completion, which is nondeterministic;
// consumers must key on membership, not position.
func (f *Fetcher) Fetch(ctx context.Context, caseNames, statuteNames, searchQueries []string, w io.Writer) (types.FetchResult, error) {
	var tasks []task
	for _, name := range caseNames {
		tasks = append(tasks, task{kind: KindCase, query: name})
	}
	for _, name := range statuteNames {
		tasks = append(tasks, task{kind: KindStatute, query: name})
	}
	for _, query := range searchQueries {
		tasks = append(tasks, task{kind: KindSearch, query: query})
	}

	rawCases, rawStatutes := f.runAll(ctx, tasks, w)

	deduped := dedupeCases(rawCases)
	deduped = f.mergeLandmarks(caseNames, deduped)

	return types.FetchResult{
		Cases:              deduped,
		Statutes:           rawStatutes,
		IdentifiedStatutes: statuteNames,
		MissingStatutes:    MissingStatutes(statuteNames, rawStatutes),
	}, nil
}

// runAll executes tasks on a fixed-size worker pool and collects raw
// results in completion order. The call blocks until every task has
// completed or failed.
func (f *Fetcher) runAll(ctx context.Context, tasks []task, w io.Writer) ([]types.CaseRecord, []types.StatuteRecord) {
	if len(tasks) == 0 {
		return nil, nil
	}

	workers := f.Config.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	pending := make(chan task)
	results := make(chan taskResult, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range pending {
				results <- f.runTask(ctx, t)
			}
		}()
	}

	go func() {
		for _, t := range tasks {
			pending <- t
		}
		close(pending)
		wg.Wait()
		close(results)
	}()

	var cases []types.CaseRecord
	var statutes []types.StatuteRecord
	for r := range results {
		if r.err != nil {
			fmt.Fprintf(w, "warning: %s task %q failed: %v\n", r.task.kind, r.task.query, r.err)
			continue
		}
		cases = append(cases, r.cases...)
		statutes = append(statutes, r.statutes...)
	}
	return cases, statutes
}

func (f *Fetcher) runTask(ctx context.Context, t task) taskResult {
	r := taskResult{task: t}
	switch t.kind {
	case KindCase:
		record, ok, err := f.fetchCase(ctx, t.query)
		r.err = err
		if ok {
			r.cases = []types.CaseRecord{record}
		}
	case KindStatute:
		record, ok, err := f.fetchStatute(ctx, t.query)
		r.err = err
		if ok {
			r.statutes = []types.StatuteRecord{record}
		}
	case KindSearch:
		r.cases, r.err = f.searchCases(ctx, t.query)
	}
	return r
}

// fetchCase looks up one named case. It queries with the exact name
// quoted first, falling back to an unquoted looser query only when the
// quoted query returns nothing, then keeps the best match.
func (f *Fetcher) fetchCase(ctx context.Context, name string) (types.CaseRecord, bool, error) {
	maxResults := f.Config.MaxCaseResults
	if maxResults <= 0 {
		maxResults = defaultMaxCaseResults
	}

	candidates, err := f.Cases.SearchOpinions(ctx, `"`+name+`"`, maxResults)
	if err != nil {
		return types.CaseRecord{}, false, err
	}

	if len(candidates) == 0 {
		candidates, err = f.Cases.SearchOpinions(ctx, name, maxResults)
		if err != nil {
			return types.CaseRecord{}, false, err
		}
	}

	record, ok := bestMatch(name, candidates)
	return record, ok, nil
}

// fetchStatute looks up one named statute, stripping statutory-citation
// punctuation before querying, and keeps the top-ranked result.
func (f *Fetcher) fetchStatute(ctx context.Context, name string) (types.StatuteRecord, bool, error) {
	cleaned := strings.TrimSpace(strings.NewReplacer("§", "", "U.S.C.", "").Replace(name))

	results, err := f.Statutes.SearchBills(ctx, cleaned, defaultMaxCaseResults)
	if err != nil {
		return types.StatuteRecord{}, false, err
	}
	if len(results) == 0 {
		return types.StatuteRecord{}, false, nil
	}
	return results[0], true, nil
}

// searchCases runs an exploratory query and keeps every returned record.
// These are exploratory, not confirmatory, so no best-match filtering.
func (f *Fetcher) searchCases(ctx context.Context, query string) ([]types.CaseRecord, error) {
	maxResults := f.Config.MaxSearchResults
	if maxResults <= 0 {
		maxResults = defaultMaxSearchResults
	}
	return f.Cases.SearchOpinions(ctx, query, maxResults)
}
