// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package docdrift

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/petar-djukic/docdrift/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const appPy = `class Application:
    """Main app."""

    def run(self):
        return 1


def process_data(items):
    return items
`

const readmeMd = "# App\n\nCall `process_data` to transform input. See `Aplication`.\n"

func writeProject(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func commitAll(t *testing.T, dir, msg string) {
	t.Helper()
	r, err := gogit.PlainOpen(dir)
	require.NoError(t, err)
	wt, err := r.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddWithOptions(&gogit.AddOptions{All: true}))
	_, err = wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestNew_Validation(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Root: dir}, false},
		{"valid with options", Config{Root: dir, Exclude: []string{"**/*_test.py"}, Workers: 2, FuzzyThreshold: 3}, false},
		{"missing root", Config{}, true},
		{"root does not exist", Config{Root: filepath.Join(dir, "nope")}, true},
		{"root is a file", Config{Root: file}, true},
		{"negative threshold", Config{Root: dir, FuzzyThreshold: -1}, true},
		{"negative workers", Config{Root: dir, Workers: -4}, true},
		{"bad exclude pattern", Config{Root: dir, Exclude: []string{"[unclosed"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Nil(t, a)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, a)
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{Root: "."}
	applyDefaults(&cfg)
	assert.Equal(t, 2, cfg.FuzzyThreshold)
	assert.Positive(t, cfg.Workers)
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir, map[string]string{
		"app.py":             appPy,
		"README.md":          readmeMd,
		"node_modules/x.js":  "function hidden() {}\n",
		"docs/unrelated.txt": "nothing here\n",
	})

	a, err := New(Config{Root: dir})
	require.NoError(t, err)
	rep, err := a.Analyze(context.Background())
	require.NoError(t, err)

	res := rep.Result
	assert.Equal(t, 3, res.Coverage.TotalEntities)
	assert.Equal(t, 1, res.Coverage.DocumentedEntities)
	assert.Equal(t, 33.33, res.Coverage.CoveragePercent)
	assert.Equal(t, 1, res.Coverage.BrokenReferences)
	assert.Equal(t, map[string]float64{"app.py": 33.33}, res.CoverageByFile)
	assert.Equal(t, [][]string{{"README.md", "app.py"}}, res.Clusters)

	require.NotEmpty(t, res.Issues)
	first := res.Issues[0]
	assert.Equal(t, types.IssueBrokenReference, first.Type)
	assert.Equal(t, "Aplication", first.Name)
	assert.Equal(t, "Application", first.Suggestion)
	assert.Equal(t, 0.9, first.Priority)

	assert.Len(t, rep.CodeFiles, 1)
	assert.Len(t, rep.DocFiles, 2)
	assert.Equal(t, 1, rep.Stats.CodeFiles)
}

func TestAnalyze_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir, map[string]string{"app.py": appPy})

	a, err := New(Config{Root: dir})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Analyze(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChanges(t *testing.T) {
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	writeProject(t, dir, map[string]string{"app.py": appPy, "README.md": readmeMd})
	commitAll(t, dir, "initial")

	without := "class Application:\n    \"\"\"Main app.\"\"\"\n\n    def run(self):\n        return 1\n"
	writeProject(t, dir, map[string]string{"app.py": without})
	commitAll(t, dir, "drop process_data")

	a, err := New(Config{Root: dir})
	require.NoError(t, err)

	got, err := a.Changes(context.Background(), "HEAD~1", true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	ci := got[0]
	assert.Equal(t, "drop process_data", ci.Commit.Message)
	require.Len(t, ci.Files, 1)
	assert.Equal(t, "app.py", ci.Files[0].Path)
	assert.NotEmpty(t, ci.Files[0].Diff)

	require.Len(t, ci.Changes, 1)
	assert.Equal(t, "process_data", ci.Changes[0].Key)

	require.Len(t, ci.Impacts, 1)
	assert.Equal(t, "broken_reference", string(ci.Impacts[0].Type))
	assert.Equal(t, "README.md", ci.Impacts[0].DocPath)
	assert.Equal(t, 3, ci.Impacts[0].DocLine)

	_, err = a.Changes(context.Background(), "missing-ref", false)
	assert.ErrorIs(t, err, ErrRefNotFound)
}

func TestChanges_Subdirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	writeProject(t, dir, map[string]string{
		"svc/app.py":    appPy,
		"svc/README.md": readmeMd,
		"other/tool.py": "def process_data():\n    pass\n",
	})
	commitAll(t, dir, "initial")
	writeProject(t, dir, map[string]string{
		"svc/app.py":    "class Application:\n    \"\"\"Main app.\"\"\"\n\n    def run(self):\n        return 1\n",
		"other/tool.py": "def tool():\n    pass\n",
	})
	commitAll(t, dir, "rework")

	a, err := New(Config{Root: filepath.Join(dir, "svc")})
	require.NoError(t, err)
	got, err := a.Changes(context.Background(), "HEAD~1", false)
	require.NoError(t, err)
	require.Len(t, got, 1)

	for _, c := range got[0].Changes {
		assert.Equal(t, "app.py", c.File)
	}
	require.Len(t, got[0].Impacts, 1)
	assert.Equal(t, "README.md", got[0].Impacts[0].DocPath)
}

func TestChanges_NotRepository(t *testing.T) {
	a, err := New(Config{Root: t.TempDir()})
	require.NoError(t, err)
	_, err = a.Changes(context.Background(), "", false)
	assert.ErrorIs(t, err, ErrNotRepository)
}
