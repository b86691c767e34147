// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petar-djukic/docdrift/internal/graph"
	"github.com/petar-djukic/docdrift/pkg/types"
)

func build(code map[string][]string, docs map[string][]string) *graph.Graph {
	g := graph.New()
	for path, names := range code {
		f := types.CodeFile{Path: path}
		for i, n := range names {
			f.Entities = append(f.Entities, types.CodeEntity{
				Name: n, Type: types.EntityFunction,
				Location: types.Location{File: path, Line: i + 1},
			})
		}
		g.AddCodeFile(f)
	}
	for path, refs := range docs {
		f := types.DocFile{Path: path}
		for i, r := range refs {
			f.References = append(f.References, types.DocReference{
				Text: r, Type: types.RefInlineCode,
				Location: types.Location{File: path, Line: i + 1},
			})
		}
		g.AddDocFile(f)
	}
	return g
}

func TestFind(t *testing.T) {
	tests := []struct {
		name string
		code map[string][]string
		docs map[string][]string
		want [][]string
	}{
		{
			name: "single pair",
			code: map[string][]string{"app.py": {"main", "setup", "Application"}},
			docs: map[string][]string{"README.md": {"main", "setup", "Aplication"}},
			want: [][]string{{"README.md", "app.py"}},
		},
		{
			name: "transitive through shared code file",
			code: map[string][]string{"core.py": {"run"}, "other.py": {"idle"}},
			docs: map[string][]string{"a.md": {"run"}, "b.md": {"run"}},
			want: [][]string{{"a.md", "b.md", "core.py"}},
		},
		{
			name: "separate clusters ordered by smallest member",
			code: map[string][]string{"z.py": {"zed"}, "b.py": {"bee"}},
			docs: map[string][]string{"y.md": {"zed"}, "c.md": {"bee"}},
			want: [][]string{{"b.py", "c.md"}, {"y.md", "z.py"}},
		},
		{
			name: "isolated files are not clusters",
			code: map[string][]string{"lonely.py": {"alone"}},
			docs: map[string][]string{"README.md": {"nothing"}},
			want: nil,
		},
		{
			name: "empty graph",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Find(build(tt.code, tt.docs))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFind_DocAndCodeAlwaysShareCluster(t *testing.T) {
	g := build(
		map[string][]string{"pkg/a.py": {"alpha"}, "pkg/b.py": {"beta"}},
		map[string][]string{"docs/x.md": {"alpha", "beta"}},
	)
	clusters := Find(g)
	assert.Len(t, clusters, 1)
	assert.Equal(t, []string{"docs/x.md", "pkg/a.py", "pkg/b.py"}, clusters[0])
}
