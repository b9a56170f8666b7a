// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/pdiddy/caselaw-engine/internal/sources"
	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// --- mock adapters ---

// mockCaseSearcher returns canned records per query and counts calls.
type mockCaseSearcher struct {
	mu      sync.Mutex
	byQuery map[string][]types.CaseRecord
	queries []string
	err     error
}

func (m *mockCaseSearcher) SearchOpinions(_ context.Context, query string, maxResults int) ([]types.CaseRecord, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	records := m.byQuery[query]
	if maxResults > 0 && len(records) > maxResults {
		records = records[:maxResults]
	}
	return records, nil
}

func (m *mockCaseSearcher) seen(query string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.queries {
		if q == query {
			return true
		}
	}
	return false
}

type mockStatuteSearcher struct {
	mu      sync.Mutex
	byQuery map[string][]types.StatuteRecord
	queries []string
	err     error
}

func (m *mockStatuteSearcher) SearchBills(_ context.Context, query string, maxResults int) ([]types.StatuteRecord, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	records := m.byQuery[query]
	if maxResults > 0 && len(records) > maxResults {
		records = records[:maxResults]
	}
	return records, nil
}

func newFetcher(cs CaseSearcher, ss StatuteSearcher) *Fetcher {
	return &Fetcher{
		Cases:     cs,
		Statutes:  ss,
		Landmarks: &sources.SCOTUSClient{},
	}
}

func record(name string) types.CaseRecord {
	return types.CaseRecord{Source: "courtlistener", CaseName: name}
}

// --- end-to-end scenarios ---

func TestFetchExactIdentityMatch(t *testing.T) {
	cs := &mockCaseSearcher{byQuery: map[string][]types.CaseRecord{
		`"Harlow v. Fitzgerald"`: {record("Harlow v. Fitzgerald, 457 U.S. 800")},
	}}
	f := newFetcher(cs, &mockStatuteSearcher{})

	result, err := f.Fetch(context.Background(), []string{"Harlow v. Fitzgerald"}, nil, nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Cases) != 1 {
		t.Fatalf("len(Cases) = %d, want 1: %+v", len(result.Cases), result.Cases)
	}
	if result.Cases[0].CaseName != "Harlow v. Fitzgerald, 457 U.S. 800" {
		t.Errorf("CaseName = %q", result.Cases[0].CaseName)
	}
}

func TestFetchInformalNameResolves(t *testing.T) {
	cs := &mockCaseSearcher{byQuery: map[string][]types.CaseRecord{
		`"Katz v US"`: {record("Katz v. United States")},
	}}
	f := newFetcher(cs, &mockStatuteSearcher{})

	result, err := f.Fetch(context.Background(), []string{"Katz v US"}, nil, nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Cases) != 1 {
		t.Fatalf("len(Cases) = %d, want 1", len(result.Cases))
	}
	if result.Cases[0].CaseName != "Katz v. United States" {
		t.Errorf("CaseName = %q", result.Cases[0].CaseName)
	}
}

func TestFetchStatuteGapTracking(t *testing.T) {
	f := newFetcher(&mockCaseSearcher{}, &mockStatuteSearcher{})

	result, err := f.Fetch(context.Background(), nil, []string{"42 U.S.C. § 1983"}, nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Statutes) != 0 {
		t.Errorf("Statutes = %+v, want empty", result.Statutes)
	}
	if len(result.MissingStatutes) != 1 || result.MissingStatutes[0] != "42 U.S.C. § 1983" {
		t.Errorf("MissingStatutes = %v", result.MissingStatutes)
	}
	if len(result.IdentifiedStatutes) != 1 || result.IdentifiedStatutes[0] != "42 U.S.C. § 1983" {
		t.Errorf("IdentifiedStatutes = %v", result.IdentifiedStatutes)
	}
}

func TestFetchTwoNamesOneRecord(t *testing.T) {
	cs := &mockCaseSearcher{byQuery: map[string][]types.CaseRecord{
		`"Roe v Wade"`:                {record("Roe v. Wade, 410 U.S. 113")},
		`"Roe v. Wade, 410 U.S. 113"`: {record("Roe v. Wade, 410 U.S. 113")},
	}}
	f := newFetcher(cs, &mockStatuteSearcher{})

	result, err := f.Fetch(context.Background(), []string{"Roe v Wade", "Roe v. Wade, 410 U.S. 113"}, nil, nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Cases) != 1 {
		t.Errorf("len(Cases) = %d, want 1: %+v", len(result.Cases), result.Cases)
	}
}

// --- orchestration behavior ---

func TestFetchEmptyInputsValid(t *testing.T) {
	f := newFetcher(&mockCaseSearcher{}, &mockStatuteSearcher{})

	result, err := f.Fetch(context.Background(), nil, nil, nil, io.Discard)
	if err != nil {
		t.Fatalf("Fetch() error = %v, want nil", err)
	}
	if len(result.Cases) != 0 || len(result.Statutes) != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}

func TestFetchQuotedThenUnquotedFallback(t *testing.T) {
	cs := &mockCaseSearcher{byQuery: map[string][]types.CaseRecord{
		// Nothing for the quoted form; the loose query hits.
		"Mapp v. Ohio": {record("Mapp v. Ohio, 367 U.S. 643")},
	}}
	f := newFetcher(cs, &mockStatuteSearcher{})

	result, err := f.Fetch(context.Background(), []string{"Mapp v. Ohio"}, nil, nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Cases) != 1 {
		t.Fatalf("len(Cases) = %d, want 1", len(result.Cases))
	}
	if !cs.seen(`"Mapp v. Ohio"`) {
		t.Error("quoted query was never attempted")
	}
	if !cs.seen("Mapp v. Ohio") {
		t.Error("unquoted fallback was never attempted")
	}
}

func TestFetchQuotedHitSkipsLooseQuery(t *testing.T) {
	cs := &mockCaseSearcher{byQuery: map[string][]types.CaseRecord{
		`"Terry v. Ohio"`: {record("Terry v. Ohio")},
		"Terry v. Ohio":   {record("Wrong v. Record")},
	}}
	f := newFetcher(cs, &mockStatuteSearcher{})

	if _, err := f.Fetch(context.Background(), []string{"Terry v. Ohio"}, nil, nil, io.Discard); err != nil {
		t.Fatal(err)
	}
	if cs.seen("Terry v. Ohio") {
		t.Error("loose query ran even though the quoted query had results")
	}
}

func TestFetchStatuteCitationStripped(t *testing.T) {
	ss := &mockStatuteSearcher{byQuery: map[string][]types.StatuteRecord{
		"42   1983": {{Source: "congress_gov", Title: "Civil action for deprivation of rights"}},
	}}
	f := newFetcher(&mockCaseSearcher{}, ss)

	result, err := f.Fetch(context.Background(), nil, []string{"42 U.S.C. § 1983"}, nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Statutes) != 1 {
		t.Fatalf("Statutes = %+v, want 1 record", result.Statutes)
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if len(ss.queries) != 1 || strings.Contains(ss.queries[0], "§") || strings.Contains(ss.queries[0], "U.S.C.") {
		t.Errorf("statute query = %q, want citation punctuation stripped", ss.queries)
	}
}

func TestFetchStatuteKeepsFirstResultOnly(t *testing.T) {
	ss := &mockStatuteSearcher{byQuery: map[string][]types.StatuteRecord{
		"Freedom of Information Act": {
			{Title: "Freedom of Information Act"},
			{Title: "FOIA Improvement Act"},
		},
	}}
	f := newFetcher(&mockCaseSearcher{}, ss)

	result, err := f.Fetch(context.Background(), nil, []string{"Freedom of Information Act"}, nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Statutes) != 1 || result.Statutes[0].Title != "Freedom of Information Act" {
		t.Errorf("Statutes = %+v, want only the top result", result.Statutes)
	}
	if len(result.MissingStatutes) != 0 {
		t.Errorf("MissingStatutes = %v, want empty", result.MissingStatutes)
	}
}

func TestFetchSearchQueriesKeepAllResults(t *testing.T) {
	cs := &mockCaseSearcher{byQuery: map[string][]types.CaseRecord{
		"qualified immunity excessive force": {
			record("Graham v. Connor"),
			record("Kisela v. Hughes"),
			record("Pearson v. Callahan"),
		},
	}}
	f := newFetcher(cs, &mockStatuteSearcher{})

	result, err := f.Fetch(context.Background(), nil, nil, []string{"qualified immunity excessive force"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Cases) != 3 {
		t.Errorf("len(Cases) = %d, want all 3 search results", len(result.Cases))
	}
}

func TestFetchFailingTaskDoesNotAbortSiblings(t *testing.T) {
	cs := &mockCaseSearcher{byQuery: map[string][]types.CaseRecord{
		`"Terry v. Ohio"`: {record("Terry v. Ohio")},
	}}
	ss := &mockStatuteSearcher{err: fmt.Errorf("congress.gov unreachable")}
	f := newFetcher(cs, ss)

	var warnings strings.Builder
	result, err := f.Fetch(context.Background(), []string{"Terry v. Ohio"}, []string{"42 U.S.C. § 1983"}, nil, &warnings)
	if err != nil {
		t.Fatalf("Fetch() error = %v, want nil despite task failure", err)
	}
	if len(result.Cases) != 1 {
		t.Errorf("len(Cases) = %d, want sibling case task to succeed", len(result.Cases))
	}
	if len(result.Statutes) != 0 {
		t.Errorf("Statutes = %+v, want empty", result.Statutes)
	}
	if !strings.Contains(warnings.String(), "statute task") {
		t.Errorf("warnings = %q, want a statute task warning", warnings.String())
	}
}

func TestFetchMembershipDeterministic(t *testing.T) {
	byQuery := map[string][]types.CaseRecord{
		`"Roe v Wade"`:    {record("Roe v. Wade, 410 U.S. 113")},
		`"Katz v US"`:     {record("Katz v. United States")},
		`"Terry v. Ohio"`: {record("Terry v. Ohio")},
		"stop and frisk":  {record("Terry v. Ohio"), record("Illinois v. Wardlow")},
	}
	names := []string{"Roe v Wade", "Katz v US", "Terry v. Ohio"}
	queries := []string{"stop and frisk"}

	keys := func() []string {
		f := newFetcher(&mockCaseSearcher{byQuery: byQuery}, &mockStatuteSearcher{})
		result, err := f.Fetch(context.Background(), names, nil, queries, io.Discard)
		if err != nil {
			t.Fatal(err)
		}
		var ks []string
		for _, c := range result.Cases {
			ks = append(ks, dedupKey(c.CaseName))
		}
		sort.Strings(ks)
		return ks
	}

	first := keys()
	for i := 0; i < 10; i++ {
		if got := keys(); !equalStrings(got, first) {
			t.Fatalf("membership changed across runs:\nfirst = %v\ngot   = %v", first, got)
		}
	}
}

func TestFetchWorkerPoolBounded(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0

	cs := &trackingCaseSearcher{onCall: func() {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
	}, onDone: func() {
		mu.Lock()
		inFlight--
		mu.Unlock()
	}}

	f := &Fetcher{
		Cases:     cs,
		Statutes:  &mockStatuteSearcher{},
		Landmarks: &sources.SCOTUSClient{},
		Config:    types.FetchConfig{Workers: 2},
	}

	var names []string
	for i := 0; i < 12; i++ {
		names = append(names, fmt.Sprintf("Party%d v. State", i))
	}
	if _, err := f.Fetch(context.Background(), names, nil, nil, io.Discard); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if peak > 2 {
		t.Errorf("peak concurrent adapter calls = %d, want <= 2", peak)
	}
}

// trackingCaseSearcher observes call concurrency.
type trackingCaseSearcher struct {
	onCall func()
	onDone func()
}

func (s *trackingCaseSearcher) SearchOpinions(_ context.Context, query string, _ int) ([]types.CaseRecord, error) {
	s.onCall()
	defer s.onDone()
	return []types.CaseRecord{record(strings.Trim(query, `"`))}, nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
