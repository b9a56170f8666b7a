// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"regexp"
	"strings"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// Prefix lengths for party-name comparison. These thresholds are ad hoc
// and have not been tuned against a labeled corpus of case-name
// variants; they trade some false positives for fewer false negatives.
const (
	// matchPrefixLen is used by the strict party-prefix match rule.
	matchPrefixLen = 6

	// partyPrefixLen is used by the looser best-match fallback rule.
	partyPrefixLen = 8
)

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9 ]`)
	vSeparator = regexp.MustCompile(`\s+v\.?\s+`)
)

// normalizeCaseName lowercases a case name, collapses " v. " / " vs. "
// into the canonical " v " separator, strips everything but letters,
// digits, and spaces, and collapses whitespace.
func normalizeCaseName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, " v. ", " v ")
	n = strings.ReplaceAll(n, " vs. ", " v ")
	n = nonAlnum.ReplaceAllString(n, "")
	return strings.Join(strings.Fields(n), " ")
}

// matchRule is one predicate in the name-matching rule table. Rules
// receive normalized names and are evaluated in fixed priority order;
// the first rule that fires decides the match.
type matchRule struct {
	name  string
	apply func(a, b string) bool
}

// matchRules is the ordered rule table for case-name identity. Kept flat
// so the tie-break order stays auditable and each rule testable alone.
var matchRules = []matchRule{
	{"containment", containmentRule},
	{"party-prefix", partyPrefixRule},
}

// containmentRule matches when one normalized name is a substring of the
// other, handling shortened and lengthened forms of the same case name.
func containmentRule(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// partyPrefixRule matches when both names split into exactly two parties
// and the leading matchPrefixLen characters of each corresponding party
// agree. Tolerates suffix variation ("... et al.") while rejecting
// different party pairs.
func partyPrefixRule(a, b string) bool {
	partiesA := strings.Split(a, " v ")
	partiesB := strings.Split(b, " v ")
	if len(partiesA) != 2 || len(partiesB) != 2 {
		return false
	}
	for i := range partiesA {
		pa := prefix(strings.TrimSpace(partiesA[i]), matchPrefixLen)
		pb := prefix(strings.TrimSpace(partiesB[i]), matchPrefixLen)
		if pa != pb {
			return false
		}
	}
	return true
}

// NamesMatch reports whether two free-text legal case names likely refer
// to the same case. Pure and symmetric: every rule treats its arguments
// interchangeably. This is a documented heuristic, not a guarantee.
func NamesMatch(nameA, nameB string) bool {
	a := normalizeCaseName(nameA)
	b := normalizeCaseName(nameB)
	if a == "" || b == "" {
		return false
	}
	for _, rule := range matchRules {
		if rule.apply(a, b) {
			return true
		}
	}
	return false
}

// bestMatch selects the candidate that best represents target. Tie-break
// order: full name match, then loose party-partial containment, then the
// first candidate in the source's relevance order. Returns false only
// when candidates is empty.
func bestMatch(target string, candidates []types.CaseRecord) (types.CaseRecord, bool) {
	for _, c := range candidates {
		if NamesMatch(target, c.CaseName) {
			return c, true
		}
	}

	// Party-partial: both party prefixes appear somewhere in the
	// candidate name. Looser than NamesMatch, used only when the full
	// match found nothing.
	parties := vSeparator.Split(strings.ToLower(strings.TrimSpace(target)), -1)
	if len(parties) == 2 {
		p0 := prefix(strings.TrimSpace(parties[0]), partyPrefixLen)
		p1 := prefix(strings.TrimSpace(parties[1]), partyPrefixLen)
		for _, c := range candidates {
			name := strings.ToLower(c.CaseName)
			if strings.Contains(name, p0) && strings.Contains(name, p1) {
				return c, true
			}
		}
	}

	if len(candidates) > 0 {
		return candidates[0], true
	}
	return types.CaseRecord{}, false
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
