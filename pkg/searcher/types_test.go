package searcher

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestJSONToOptions(t *testing.T) {
	payload := `{
		"rootPath": "/repo",
		"pattern": "foo",
		"includeHidden": true,
		"disableIgnore": true,
		"disableGitignore": true,
		"maxDepth": 2,
		"includePatterns": ["*.go"],
		"excludePatterns": ["vendor"]
	}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	assert.Equal(t, "/repo", req.RootPath)
	assert.Equal(t, "foo", req.Pattern)

	opts := req.Options()
	assert.True(t, opts.IncludeHidden)
	assert.True(t, opts.DisableIgnore)
	assert.True(t, opts.DisableGitignore)
	require.NotNil(t, opts.MaxDepth)
	assert.Equal(t, 2, *opts.MaxDepth)
	assert.Equal(t, []string{"*.go"}, opts.IncludeGlobs)
	assert.Equal(t, []string{"vendor"}, opts.ExcludeGlobs)
}

func TestRequestCaseSensitivity(t *testing.T) {
	cases := []struct {
		name       string
		payload    string
		wantIgnore bool
	}{
		{"absent defaults to sensitive", `{"pattern": "x"}`, false},
		{"explicit true is sensitive", `{"pattern": "x", "caseSensitive": true}`, false},
		{"explicit false is insensitive", `{"pattern": "x", "caseSensitive": false}`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req Request
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &req))
			assert.Equal(t, tc.wantIgnore, req.Options().IgnoreCase)
		})
	}
}

func TestRequestOmittedFieldsKeepDefaults(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"rootPath": "/r", "pattern": "p"}`), &req))

	opts := req.Options()
	assert.Equal(t, Options{}, opts, "an empty request maps to the zero options")
	assert.Nil(t, opts.MaxDepth)
}

func TestRequestDrivesSearch(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "shout.txt"), "NEEDLE\n")

	payload := `{"pattern": "needle", "caseSensitive": false}`
	var req Request
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	req.RootPath = root

	engine := NewEngine(nil, nil)
	results, err := engine.SearchContent(req.RootPath, req.Pattern, req.Options())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "shout.txt", filepath.Base(results[0].Path))
	assert.Equal(t, "NEEDLE", results[0].Matches[0].Text)
}
