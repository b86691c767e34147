// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package graph

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/docdrift/pkg/types"
)

func codeFile(path string, names ...string) types.CodeFile {
	f := types.CodeFile{Path: path, Language: types.LanguageFromPath(path)}
	for i, n := range names {
		f.Entities = append(f.Entities, types.CodeEntity{
			Name:     n,
			Type:     types.EntityFunction,
			Location: types.Location{File: path, Line: i + 1},
		})
	}
	return f
}

func docFile(path string, refs ...string) types.DocFile {
	f := types.DocFile{Path: path, Format: types.DocFormatFromPath(path)}
	for i, r := range refs {
		f.References = append(f.References, types.DocReference{
			Text:     r,
			Type:     types.RefInlineCode,
			Location: types.Location{File: path, Line: i + 1},
		})
	}
	return f
}

func edgeSet(g *Graph) map[string][]string {
	out := make(map[string][]string)
	for ref := range g.References() {
		targets, _ := g.Targets(ref)
		out[ref] = targets
	}
	return out
}

func TestAddFiles_Keys(t *testing.T) {
	g := New()
	g.AddCodeFile(codeFile("src/app.py", "main"))
	g.AddDocFile(docFile("README.md", "main"))

	assert.Equal(t, []string{"entity:app.main"}, slices.Collect(g.Entities()))
	assert.Equal(t, []string{"README.md:1:main"}, slices.Collect(g.References()))

	targets, err := g.Targets("README.md:1:main")
	require.NoError(t, err)
	assert.Equal(t, []string{"entity:app.main"}, targets)
}

func TestOrderIndependence(t *testing.T) {
	code := []types.CodeFile{
		codeFile("app.py", "main", "setup"),
		codeFile("lib/util.py", "setup", "helper"),
	}
	docs := []types.DocFile{
		docFile("README.md", "main", "setup", "missing"),
		docFile("docs/guide.md", "helper"),
	}

	codeFirst := New()
	for _, f := range code {
		codeFirst.AddCodeFile(f)
	}
	for _, f := range docs {
		codeFirst.AddDocFile(f)
	}

	docsFirst := New()
	for _, f := range docs {
		docsFirst.AddDocFile(f)
	}
	for _, f := range code {
		docsFirst.AddCodeFile(f)
	}

	interleaved := New()
	interleaved.AddDocFile(docs[1])
	interleaved.AddCodeFile(code[0])
	interleaved.AddDocFile(docs[0])
	interleaved.AddCodeFile(code[1])

	want := edgeSet(codeFirst)
	assert.Equal(t, want, edgeSet(docsFirst))
	assert.Equal(t, want, edgeSet(interleaved))
	assert.Equal(t, codeFirst.FileEdges(), docsFirst.FileEdges())

	// "setup" is defined in two files, so one reference yields two edges.
	assert.Equal(t, []string{"entity:app.setup", "entity:util.setup"}, want["README.md:2:setup"])
	assert.Empty(t, want["README.md:3:missing"])
}

func TestAddCodeFile_Idempotent(t *testing.T) {
	g := New()
	f := codeFile("app.py", "main", "setup")
	g.AddCodeFile(f)
	g.AddCodeFile(f)
	assert.Equal(t, 2, g.EntityCount())

	// A colliding qualified name keeps the first entity.
	dup := codeFile("app.py", "main")
	dup.Entities[0].Location.Line = 99
	g.AddCodeFile(dup)
	e, err := g.Entity("entity:app.main")
	require.NoError(t, err)
	assert.Equal(t, 1, e.Location.Line)
}

func TestAddDocFile_DuplicateKeysStoredOnce(t *testing.T) {
	g := New()
	d := types.DocFile{Path: "README.md", References: []types.DocReference{
		{Text: "main", Type: types.RefInlineCode, Location: types.Location{File: "README.md", Line: 3}},
		{Text: "main", Type: types.RefInlineCode, Location: types.Location{File: "README.md", Line: 3}},
		{Text: "", Type: types.RefInlineCode, Location: types.Location{File: "README.md", Line: 4}},
	}}
	g.AddDocFile(d)
	g.AddDocFile(docFile("other.md", "main"))
	assert.Equal(t, 2, g.ReferenceCount())
}

func TestIsEntityDocumented(t *testing.T) {
	g := New()
	g.AddCodeFile(codeFile("app.py", "main", "setup"))
	g.AddDocFile(docFile("README.md", "main"))

	tests := []struct {
		name    string
		key     string
		want    bool
		wantErr bool
	}{
		{"documented", "entity:app.main", true, false},
		{"undocumented", "entity:app.setup", false, false},
		{"unknown key", "entity:app.nope", false, true},
		{"reference key", "README.md:1:main", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.IsEntityDocumented(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNodeNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSequencesAreRestartable(t *testing.T) {
	g := New()
	g.AddCodeFile(codeFile("app.py", "b", "a", "c"))

	first := slices.Collect(g.Entities())
	second := slices.Collect(g.Entities())
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"entity:app.b", "entity:app.a", "entity:app.c"}, first)

	for k := range g.Entities() {
		assert.Equal(t, "entity:app.b", k)
		break
	}
}

func TestCaseSensitiveExactMatch(t *testing.T) {
	g := New()
	g.AddCodeFile(codeFile("app.py", "Main", "process_data"))
	g.AddDocFile(docFile("README.md", "main", "process"))

	for ref := range g.References() {
		broken, err := g.IsBroken(ref)
		require.NoError(t, err)
		assert.True(t, broken, ref)
	}
}

func TestEntityNamesAndLookups(t *testing.T) {
	g := New()
	g.AddCodeFile(codeFile("a.py", "zeta", "alpha"))
	g.AddCodeFile(codeFile("b.py", "alpha"))
	g.AddDocFile(docFile("README.md", "alpha"))

	assert.Equal(t, []string{"alpha", "zeta"}, g.EntityNames())
	assert.Equal(t, []string{"entity:a.alpha", "entity:b.alpha"}, g.EntityKeysByName("alpha"))

	refs, err := g.DocumentedBy("entity:b.alpha")
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md:1:alpha"}, refs)

	_, err = g.Reference("entity:a.alpha")
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.Equal(t, 4, g.Len())
}

func TestReferencesByText(t *testing.T) {
	g := New()
	g.AddDocFile(docFile("README.md", "alpha", "beta"))
	g.AddDocFile(docFile("guide.md", "alpha"))

	assert.Equal(t, []string{"README.md:1:alpha", "guide.md:1:alpha"}, g.ReferencesByText("alpha"))
	assert.Empty(t, g.ReferencesByText("gamma"))
}

func TestAddCodeFile_MethodsKeyedByParent(t *testing.T) {
	method := func(parent string, line int) types.CodeEntity {
		return types.CodeEntity{
			Name:     "run",
			Type:     types.EntityMethod,
			Location: types.Location{File: "shapes.py", Line: line},
			Parent:   parent,
		}
	}
	g := New()
	g.AddCodeFile(types.CodeFile{Path: "shapes.py", Entities: []types.CodeEntity{
		{Name: "A", Type: types.EntityClass, Location: types.Location{File: "shapes.py", Line: 1}},
		method("A", 2),
		{Name: "B", Type: types.EntityClass, Location: types.Location{File: "shapes.py", Line: 4}},
		method("B", 5),
	}})
	g.AddDocFile(docFile("README.md", "run"))

	assert.Equal(t, 4, g.EntityCount())
	assert.ElementsMatch(t, []string{"entity:shapes.A.run", "entity:shapes.B.run"}, g.EntityKeysByName("run"))
	for _, key := range g.EntityKeysByName("run") {
		documented, err := g.IsEntityDocumented(key)
		require.NoError(t, err)
		assert.True(t, documented, key)
	}
}

func TestAddCodeFile_DistinctStems(t *testing.T) {
	g := New()
	g.AddCodeFile(codeFile("app/utils.py", "parse"))
	g.AddCodeFile(codeFile("utils.py", "parse"))

	assert.Equal(t, 2, g.EntityCount())
	assert.ElementsMatch(t, []string{"entity:app.utils.parse", "entity:utils.parse"}, g.EntityKeysByName("parse"))
}
