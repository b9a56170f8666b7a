// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

func TestResultFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fetch-results.yaml")

	req := RequestParams{
		Cases:         []string{"Harlow v. Fitzgerald"},
		Statutes:      []string{"42 U.S.C. § 1983"},
		SearchQueries: []string{"qualified immunity excessive force"},
	}
	result := types.FetchResult{
		Cases: []types.CaseRecord{
			{
				Source:     "courtlistener",
				CaseName:   "Harlow v. Fitzgerald, 457 U.S. 800",
				Citation:   "457 U.S. 800",
				Court:      "Supreme Court of the United States",
				IsLandmark: true,
			},
		},
		IdentifiedStatutes: []string{"42 U.S.C. § 1983"},
		MissingStatutes:    []string{"42 U.S.C. § 1983"},
	}

	require.NoError(t, WriteResultFile(path, req, result))

	rf, err := ReadResultFile(path)
	require.NoError(t, err)

	assert.Equal(t, req, rf.Request)
	assert.Equal(t, result, rf.Results)
	assert.Equal(t, 1, rf.Summary.Cases)
	assert.Equal(t, 0, rf.Summary.Statutes)
	assert.Equal(t, 1, rf.Summary.MissingStatutes)
	assert.False(t, rf.Summary.Timestamp.IsZero())
}

func TestReadResultFileMissing(t *testing.T) {
	_, err := ReadResultFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestReadResultFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("request: [not: a: mapping"), 0o644))

	_, err := ReadResultFile(path)
	require.Error(t, err)
}
