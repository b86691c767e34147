// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cluster groups files that are connected, directly or
// transitively, through documentation references into clusters.
package cluster

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/petar-djukic/docdrift/internal/graph"
)

// minClusterSize is the smallest component reported. Singletons carry no
// relatedness information.
const minClusterSize = 2

// fileGraph is the undirected "file touches file" relation projected from
// the reference graph, with a bidirectional path <-> node id mapping.
type fileGraph struct {
	g      *simple.UndirectedGraph
	ids    map[string]int64
	paths  map[int64]string
	nextID int64
}

func newFileGraph() *fileGraph {
	return &fileGraph{
		g:     simple.NewUndirectedGraph(),
		ids:   make(map[string]int64),
		paths: make(map[int64]string),
	}
}

func (fg *fileGraph) node(path string) int64 {
	if id, ok := fg.ids[path]; ok {
		return id
	}
	id := fg.nextID
	fg.nextID++
	fg.ids[path] = id
	fg.paths[id] = path
	fg.g.AddNode(simple.Node(id))
	return id
}

func (fg *fileGraph) connect(a, b string) {
	from, to := fg.node(a), fg.node(b)
	if from == to || fg.g.HasEdgeBetween(from, to) {
		return
	}
	fg.g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
}

// Find returns the connected components of the file relation that contain
// at least two files. Members are sorted lexically and clusters are ordered
// by their smallest member. Files without any edge never appear.
func Find(g *graph.Graph) [][]string {
	fg := newFileGraph()
	for _, e := range g.FileEdges() {
		fg.connect(e.Doc, e.Code)
	}

	var clusters [][]string
	for _, comp := range topo.ConnectedComponents(fg.g) {
		if len(comp) < minClusterSize {
			continue
		}
		members := make([]string, 0, len(comp))
		for _, n := range comp {
			members = append(members, fg.paths[n.ID()])
		}
		sort.Strings(members)
		clusters = append(clusters, members)
	}

	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i][0] < clusters[j][0]
	})
	return clusters
}
