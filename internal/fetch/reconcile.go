// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"strings"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// dedupKeyLen truncates dedup keys so trailing citation noise in long
// display names ("..., 410 U.S. 113 (1973)") does not defeat the key.
const dedupKeyLen = 60

// dedupKey builds the identity key for a case display name: normalized
// (lowercase, alphanumerics and spaces only, collapsed whitespace) and
// truncated to dedupKeyLen.
func dedupKey(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = nonAlnum.ReplaceAllString(n, "")
	n = strings.Join(strings.Fields(n), " ")
	if len(n) > dedupKeyLen {
		n = n[:dedupKeyLen]
	}
	return n
}

// dedupeCases removes duplicate case records, keeping the first record
// seen per dedup key and preserving first-seen order. Records whose
// names normalize to an empty key are dropped. Idempotent.
func dedupeCases(cases []types.CaseRecord) []types.CaseRecord {
	seen := make(map[string]bool, len(cases))
	var unique []types.CaseRecord
	for _, c := range cases {
		key := dedupKey(c.CaseName)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, c)
	}
	return unique
}

// mergeLandmarks backfills the case list from the static landmark table.
// For each requested name it scans landmark topics appearing in the
// name, takes the first landmark entry whose case name matches, and
// appends it unless a fetched case already covers it.
func (f *Fetcher) mergeLandmarks(requestedNames []string, cases []types.CaseRecord) []types.CaseRecord {
	if f.Landmarks == nil {
		return cases
	}
	for _, name := range requestedNames {
		entry, ok := f.checkLandmark(name)
		if !ok {
			continue
		}
		if !containsCase(cases, entry.CaseName) {
			cases = append(cases, types.CaseRecord{
				Source:     "scotus_landmark",
				CaseName:   entry.CaseName,
				Citation:   entry.Citation,
				Snippet:    entry.Topic,
				IsLandmark: true,
			})
		}
	}
	return cases
}

// checkLandmark returns the first landmark entry matching the requested
// case name, if any.
func (f *Fetcher) checkLandmark(name string) (types.LandmarkEntry, bool) {
	entries := f.Landmarks.SearchByTopic(strings.ToLower(name), landmarkLookupMax)
	for _, entry := range entries {
		if NamesMatch(name, entry.CaseName) {
			return entry, true
		}
	}
	return types.LandmarkEntry{}, false
}

// containsCase reports whether any existing record matches name per the
// name matcher.
func containsCase(cases []types.CaseRecord, name string) bool {
	for _, c := range cases {
		if NamesMatch(name, c.CaseName) {
			return true
		}
	}
	return false
}

// MissingStatutes returns the requested statute names with no retained
// result, judged by normalized-title containment in either direction.
// The synthesis stage must present these as unsourced; this keeps it
// from fabricating citations for statutes the databases never returned.
func MissingStatutes(identified []string, found []types.StatuteRecord) []string {
	titles := make([]string, 0, len(found))
	for _, s := range found {
		titles = append(titles, strings.ToLower(s.Title))
	}

	var missing []string
	for _, name := range identified {
		lowered := strings.ToLower(name)
		covered := false
		for _, title := range titles {
			if title == "" {
				continue
			}
			if strings.Contains(title, lowered) || strings.Contains(lowered, title) {
				covered = true
				break
			}
		}
		if !covered {
			missing = append(missing, name)
		}
	}
	return missing
}
