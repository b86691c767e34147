// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/petar-djukic/docdrift/internal/git"
	"github.com/petar-djukic/docdrift/pkg/types"
)

func sampleResult() types.Result {
	return types.Result{
		Coverage: types.CoverageStats{
			CoveragePercent:      66.67,
			TotalEntities:        3,
			DocumentedEntities:   2,
			UndocumentedEntities: 1,
			TotalReferences:      3,
			BrokenReferences:     1,
		},
		CoverageByFile: map[string]float64{"app.py": 66.67},
		Clusters:       [][]string{{"README.md", "app.py"}},
		Issues: []types.Issue{
			{
				Type:       types.IssueBrokenReference,
				Priority:   0.9,
				Severity:   "high",
				Reason:     "similar to 'Application'",
				Location:   types.IssueLocation{File: "README.md", Line: 5},
				Name:       "Aplication",
				Suggestion: "Application",
			},
			{
				Type:          types.IssueUndocumented,
				Priority:      0.5,
				Severity:      "medium",
				Reason:        "entity is undocumented",
				Location:      types.IssueLocation{File: "app.py", Line: 10},
				Name:          "_helper",
				EntityType:    "function",
				QualifiedName: "app._helper",
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"yml", FormatYAML, false},
		{" text ", FormatText, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleResult(), FormatJSON, TextOptions{}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "coverage")
	assert.Contains(t, decoded, "coverage_by_file")
	assert.Contains(t, decoded, "clusters")
	assert.Contains(t, decoded, "issues")

	issues := decoded["issues"].([]any)
	first := issues[0].(map[string]any)
	assert.Equal(t, "broken_reference", first["type"])
	assert.Equal(t, "Application", first["suggestion"])
	assert.NotContains(t, first, "qualified_name")
}

func TestEncode_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleResult(), FormatYAML, TextOptions{}))

	var decoded types.Result
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleResult(), decoded)
	assert.Contains(t, buf.String(), "coverage_percent: 66.67")
}

func TestEncode_UnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, sampleResult(), Format("xml"), TextOptions{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRenderText(t *testing.T) {
	out := RenderText(sampleResult(), TextOptions{})

	assert.Contains(t, out, "66.7%")
	assert.Contains(t, out, "2 of 3 entities documented")
	assert.Contains(t, out, "3 references, 1 broken")
	assert.Contains(t, out, "app.py")
	assert.Contains(t, out, "1. README.md, app.py")
	assert.Contains(t, out, "Issues (2)")
	assert.Contains(t, out, "[0.90] broken_reference README.md:5 Aplication")
	assert.Contains(t, out, "similar to 'Application'")

	high := strings.Index(out, "HIGH")
	medium := strings.Index(out, "MEDIUM")
	require.NotEqual(t, -1, high)
	require.NotEqual(t, -1, medium)
	assert.Less(t, high, medium)
	assert.NotContains(t, out, "LOW")
	assert.NotContains(t, out, "\x1b[", "no ANSI codes without color")
}

func TestRenderText_NoIssues(t *testing.T) {
	out := RenderText(types.Result{CoverageByFile: map[string]float64{}}, TextOptions{})
	assert.Contains(t, out, "0.0%")
	assert.Contains(t, out, "No issues found.")
	assert.NotContains(t, out, "Clusters")
}

func TestRenderText_MaxIssues(t *testing.T) {
	out := RenderText(sampleResult(), TextOptions{MaxIssues: 1})
	assert.Contains(t, out, "Aplication")
	assert.NotContains(t, out, "_helper")
	assert.Contains(t, out, "... and 1 more")
}

func TestRenderText_SourceContext(t *testing.T) {
	root := t.TempDir()
	readme := "# App\n\nline three\nline four\nSee `Aplication`.\nline six\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte(readme), 0o644))

	out := RenderText(sampleResult(), TextOptions{Root: root, ContextLines: 1, MaxIssues: 1})
	assert.Contains(t, out, "   4 | line four")
	assert.Contains(t, out, ">    5 | See `Aplication`.")
	assert.Contains(t, out, "   6 | line six")
	assert.NotContains(t, out, "line three")
}

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", barWidth), bar(0))
	assert.Equal(t, strings.Repeat("█", barWidth), bar(100))
	assert.Equal(t, strings.Repeat("█", 10)+strings.Repeat("░", 10), bar(50))
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	code := []types.CodeFile{{
		Path:     "app.py",
		Language: types.LangPython,
		Entities: []types.CodeEntity{{
			Name:     "main",
			Type:     types.EntityFunction,
			Location: types.Location{File: "app.py", Line: 1, EndLine: 3},
		}},
		Imports: []string{"os"},
	}}
	docs := []types.DocFile{{
		Path:       "README.md",
		Format:     types.FormatMarkdown,
		Headers:    []types.Header{{Level: 1, Text: "App", Line: 1}},
		CodeBlocks: []types.CodeBlock{},
		References: []types.DocReference{{
			Text:     "main",
			Type:     types.RefInlineCode,
			Location: types.Location{File: "README.md", Line: 3},
		}},
		Links: []types.Link{},
	}}
	snap := NewSnapshot(dir, sampleResult(), code, docs)
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Len(t, snap.ID, 36)

	path := filepath.Join(dir, "analysis.json")
	require.NoError(t, Save(path, snap))

	loaded, err := Load(path, "")
	require.NoError(t, err)
	assert.True(t, snap.CreatedAt.Equal(loaded.CreatedAt))
	loaded.CreatedAt = snap.CreatedAt
	assert.Equal(t, snap, loaded)
}

func TestLoad_RejectsTraversal(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
	}{
		{
			name: "code file path",
			snap: Snapshot{Version: SnapshotVersion, CodeFiles: []types.CodeFile{{Path: "../../etc/passwd"}}},
		},
		{
			name: "reference location",
			snap: Snapshot{Version: SnapshotVersion, DocFiles: []types.DocFile{{
				Path:       "README.md",
				References: []types.DocReference{{Text: "x", Location: types.Location{File: "../outside.md"}}},
			}}},
		},
		{
			name: "absolute path",
			snap: Snapshot{Version: SnapshotVersion, CodeFiles: []types.CodeFile{{Path: "/etc/passwd"}}},
		},
		{
			name: "issue location",
			snap: Snapshot{Version: SnapshotVersion, Result: types.Result{Issues: []types.Issue{{
				Location: types.IssueLocation{File: "docs/../../x.md"},
			}}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "analysis.json")
			require.NoError(t, Save(path, tt.snap))

			_, err := Load(path, "")
			assert.ErrorIs(t, err, ErrPathTraversal)
		})
	}
}

func TestLoad_AcceptsNestedRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analysis.json")
	snap := Snapshot{Version: SnapshotVersion, CodeFiles: []types.CodeFile{{Path: "src/../lib/util.py"}}}
	require.NoError(t, Save(path, snap))

	_, err := Load(path, dir)
	assert.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("wrong version", func(t *testing.T) {
		path := filepath.Join(dir, "old.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"version":"0.9"}`), 0o644))
		_, err := Load(path, "")
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))
		_, err := Load(path, "")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.json"), "")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestEncodeData(t *testing.T) {
	v := map[string]int{"a": 1}

	var buf bytes.Buffer
	require.NoError(t, EncodeData(&buf, v, FormatYAML))
	assert.Equal(t, "a: 1\n", buf.String())

	buf.Reset()
	require.NoError(t, EncodeData(&buf, v, FormatJSON))
	assert.JSONEq(t, `{"a":1}`, buf.String())

	assert.ErrorIs(t, EncodeData(&buf, v, FormatText), ErrUnknownFormat)
}

func TestRenderChanges(t *testing.T) {
	deleted := git.EntityChange{Key: "process_data", Name: "process_data", File: "app.py", Change: git.ChangeDeleted}
	added := git.EntityChange{Key: "helper", Name: "helper", File: "util.py", Change: git.ChangeAdded}
	commits := []git.CommitImpact{
		{
			Commit: git.Commit{
				Hash:    "0123456789abcdef",
				Author:  "Test",
				When:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
				Message: "drop process_data\n\nbody",
			},
			Files: []git.ChangedFile{
				{Path: "app.py", Status: git.StatusModified, Deletions: 2, Diff: "-def process_data():\n-    pass\n"},
				{Path: "new.py", OldPath: "old.py", Status: git.StatusRenamed},
			},
			Changes: []git.EntityChange{deleted, added},
			Impacts: []git.Impact{
				{DocPath: "README.md", DocLine: 3, Entity: "process_data", Type: git.ImpactBrokenReference, Confidence: 1, Severity: "high", Change: deleted},
				{Entity: "helper", Type: git.ImpactAddedUndocumented, Confidence: 1, Severity: "low", Change: added},
			},
		},
		{Commit: git.Commit{Hash: "fedcba98", Message: "tidy"}},
	}

	out := RenderChanges(commits, TextOptions{})
	assert.Contains(t, out, "2 commits, 2 impacts")
	assert.Contains(t, out, "0123456 drop process_data")
	assert.Contains(t, out, "Test, 2026-03-01")
	assert.Contains(t, out, "modified app.py +0 -2")
	assert.Contains(t, out, "           -def process_data():\n")
	assert.Contains(t, out, "renamed  old.py -> new.py")
	assert.Contains(t, out, "HIGH   [1.0] broken_reference README.md:3 process_data")
	assert.Contains(t, out, "LOW    [1.0] added_undocumented util.py helper")
	assert.Contains(t, out, "fedcba9 tidy")
	assert.Contains(t, out, "No documentation affected.")
	assert.NotContains(t, out, "\x1b[")
}
