// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/petar-djukic/docdrift/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFixture(t, root, "src/calc.py", pythonSource)
	writeFixture(t, root, "web/app.js", "function render() {}\n")
	writeFixture(t, root, "README.md", markdownDoc)
	writeFixture(t, root, "docs/guide.adoc", asciidocDoc)
	return root
}

func TestCollect(t *testing.T) {
	root := setupProject(t)
	c := NewCollector(Options{Workers: 2})

	code, docs, err := c.Collect(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, code, 2)
	assert.Equal(t, "src/calc.py", code[0].Path)
	assert.Equal(t, types.LangPython, code[0].Language)
	assert.Len(t, code[0].Entities, 4)
	assert.Equal(t, "web/app.js", code[1].Path)

	require.Len(t, docs, 2)
	assert.Equal(t, "README.md", docs[0].Path)
	assert.Equal(t, "docs/guide.adoc", docs[1].Path)
	assert.Len(t, docs[0].References, 6)

	stats := c.Stats()
	assert.Equal(t, Stats{CodeFiles: 2, DocFiles: 2}, stats)
}

func TestCollect_CachesUnchangedFiles(t *testing.T) {
	root := setupProject(t)
	c := NewCollector(Options{})

	first, _, err := c.Collect(context.Background(), root)
	require.NoError(t, err)
	assert.Zero(t, c.Stats().CacheHits)

	writeFixture(t, root, "web/app.js", "function render() {}\nfunction mount() {}\n")

	second, _, err := c.Collect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Stats().CacheHits)
	assert.Equal(t, first[0], second[0])
	assert.Len(t, second[1].Entities, 2)
}

func TestCollect_Cancelled(t *testing.T) {
	root := setupProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewCollector(Options{}).Collect(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollect_EmptyDirectory(t *testing.T) {
	code, docs, err := NewCollector(Options{}).Collect(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, code)
	assert.NotNil(t, docs)
	assert.Empty(t, code)
	assert.Empty(t, docs)
}

func TestCollect_Latin1Files(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "legacy.js", "// caf\xe9 helpers\nfunction legacy() {}\n")
	writeFixture(t, root, "NOTES.md", "# Caf\xe9\n\nCall `legacy` first.\n")
	c := NewCollector(Options{Workers: 1})

	code, docs, err := c.Collect(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, code, 1)
	require.Len(t, code[0].Entities, 1)
	assert.Equal(t, "legacy", code[0].Entities[0].Name)
	assert.Equal(t, 2, code[0].Entities[0].Location.Line)

	require.Len(t, docs, 1)
	require.Len(t, docs[0].References, 1)
	assert.Equal(t, "legacy", docs[0].References[0].Text)
	assert.Zero(t, c.Stats().FilesSkipped)
}
