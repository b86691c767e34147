// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package graph links documentation references to the code entities they
// name. Nodes are keyed deterministically so that rebuilding from the same
// input always yields the same keys and edges.
package graph

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sort"

	"github.com/petar-djukic/docdrift/pkg/types"
)

// ErrNodeNotFound is returned when a query names a key that is not in the
// graph, or names a node of the wrong kind.
var ErrNodeNotFound = errors.New("node not found")

const entityKeyPrefix = "entity:"

// NodeKind distinguishes entity nodes from reference nodes.
type NodeKind int

const (
	EntityNode NodeKind = iota
	ReferenceNode
)

func (k NodeKind) String() string {
	if k == EntityNode {
		return "entity"
	}
	return "reference"
}

// Node is a graph vertex. Exactly one of Entity or Reference is meaningful,
// selected by Kind.
type Node struct {
	Key       string
	Kind      NodeKind
	Entity    types.CodeEntity
	Reference types.DocReference
}

// FileEdge records that a doc file references at least one entity defined
// in a code file.
type FileEdge struct {
	Doc  string
	Code string
}

// Graph is a bipartite relation between reference nodes and entity nodes.
// Edges are directed reference -> entity ("documents"). A Graph is built by
// AddCodeFile and AddDocFile and then only read; it is not safe for
// concurrent mutation, but concurrent reads of a built graph are safe.
type Graph struct {
	nodes       map[string]*Node
	entityOrder []string            // entity keys in insertion order
	refOrder    []string            // reference keys in insertion order
	byName      map[string][]string // bare entity name -> entity keys
	byText      map[string][]string // reference text -> reference keys
	out         map[string][]string // reference key -> entity keys
	in          map[string][]string // entity key -> reference keys
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:  make(map[string]*Node),
		byName: make(map[string][]string),
		byText: make(map[string][]string),
		out:    make(map[string][]string),
		in:     make(map[string][]string),
	}
}

// EntityKey returns the node key for an entity with the given qualified name.
func EntityKey(qualifiedName string) string {
	return entityKeyPrefix + qualifiedName
}

// AddCodeFile inserts one entity node per entity. The first entity seen for
// a qualified name is canonical; later duplicates are skipped. Each new
// entity receives edges from every reference already present whose text
// equals its name.
func (g *Graph) AddCodeFile(f types.CodeFile) {
	for _, e := range f.Entities {
		key := EntityKey(e.QualifiedName())
		if _, exists := g.nodes[key]; exists {
			continue
		}
		g.nodes[key] = &Node{Key: key, Kind: EntityNode, Entity: e}
		g.entityOrder = append(g.entityOrder, key)
		g.byName[e.Name] = append(g.byName[e.Name], key)

		for _, refKey := range g.byText[e.Name] {
			g.link(refKey, key)
		}
	}
}

// AddDocFile inserts one reference node per reference and links it to every
// entity already present whose name equals the reference text. References
// with an identical key (same file, line and text) are stored once.
func (g *Graph) AddDocFile(f types.DocFile) {
	for _, r := range f.References {
		if r.Text == "" {
			continue
		}
		key := r.Key()
		if _, exists := g.nodes[key]; exists {
			continue
		}
		g.nodes[key] = &Node{Key: key, Kind: ReferenceNode, Reference: r}
		g.refOrder = append(g.refOrder, key)
		g.byText[r.Text] = append(g.byText[r.Text], key)

		for _, entKey := range g.byName[r.Text] {
			g.link(key, entKey)
		}
	}
}

// link adds the edge ref -> entity. Each pair is reached exactly once:
// whichever endpoint is inserted second creates it.
func (g *Graph) link(refKey, entKey string) {
	g.out[refKey] = append(g.out[refKey], entKey)
	g.in[entKey] = append(g.in[entKey], refKey)
}

// Entities yields entity keys in insertion order. The sequence can be
// ranged over any number of times.
func (g *Graph) Entities() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, k := range g.entityOrder {
			if !yield(k) {
				return
			}
		}
	}
}

// References yields reference keys in insertion order.
func (g *Graph) References() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, k := range g.refOrder {
			if !yield(k) {
				return
			}
		}
	}
}

// EntityCount returns the number of entity nodes.
func (g *Graph) EntityCount() int { return len(g.entityOrder) }

// ReferenceCount returns the number of reference nodes.
func (g *Graph) ReferenceCount() int { return len(g.refOrder) }

// Len returns the total number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// IsEntityDocumented reports whether at least one reference links to the
// entity. It returns ErrNodeNotFound for unknown keys and for reference keys.
func (g *Graph) IsEntityDocumented(key string) (bool, error) {
	n, ok := g.nodes[key]
	if !ok || n.Kind != EntityNode {
		return false, fmt.Errorf("%w: %q", ErrNodeNotFound, key)
	}
	return len(g.in[key]) > 0, nil
}

// Entity returns the entity stored under key.
func (g *Graph) Entity(key string) (types.CodeEntity, error) {
	n, ok := g.nodes[key]
	if !ok || n.Kind != EntityNode {
		return types.CodeEntity{}, fmt.Errorf("%w: %q", ErrNodeNotFound, key)
	}
	return n.Entity, nil
}

// Reference returns the reference stored under key.
func (g *Graph) Reference(key string) (types.DocReference, error) {
	n, ok := g.nodes[key]
	if !ok || n.Kind != ReferenceNode {
		return types.DocReference{}, fmt.Errorf("%w: %q", ErrNodeNotFound, key)
	}
	return n.Reference, nil
}

// Targets returns the entity keys a reference links to, sorted.
func (g *Graph) Targets(refKey string) ([]string, error) {
	if n, ok := g.nodes[refKey]; !ok || n.Kind != ReferenceNode {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, refKey)
	}
	return sortedCopy(g.out[refKey]), nil
}

// DocumentedBy returns the reference keys that link to an entity, sorted.
func (g *Graph) DocumentedBy(entityKey string) ([]string, error) {
	if n, ok := g.nodes[entityKey]; !ok || n.Kind != EntityNode {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, entityKey)
	}
	return sortedCopy(g.in[entityKey]), nil
}

// IsBroken reports whether a reference links to no entity.
func (g *Graph) IsBroken(refKey string) (bool, error) {
	if n, ok := g.nodes[refKey]; !ok || n.Kind != ReferenceNode {
		return false, fmt.Errorf("%w: %q", ErrNodeNotFound, refKey)
	}
	return len(g.out[refKey]) == 0, nil
}

// EntityKeysByName returns the keys of all entities with the given bare
// name in insertion order.
func (g *Graph) EntityKeysByName(name string) []string {
	return slices.Clone(g.byName[name])
}

// ReferencesByText returns the keys of all references with the given text
// in insertion order, whether or not they resolve.
func (g *Graph) ReferencesByText(text string) []string {
	return slices.Clone(g.byText[text])
}

// EntityNames returns the distinct bare entity names, sorted.
func (g *Graph) EntityNames() []string {
	names := make([]string, 0, len(g.byName))
	for n := range g.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FileEdges returns the distinct (doc file, code file) pairs connected by at
// least one edge, sorted by doc then code path.
func (g *Graph) FileEdges() []FileEdge {
	seen := make(map[FileEdge]bool)
	var edges []FileEdge
	for _, refKey := range g.refOrder {
		doc := g.nodes[refKey].Reference.Location.File
		for _, entKey := range g.out[refKey] {
			e := FileEdge{Doc: doc, Code: g.nodes[entKey].Entity.Location.File}
			if !seen[e] {
				seen[e] = true
				edges = append(edges, e)
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Doc != edges[j].Doc {
			return edges[i].Doc < edges[j].Doc
		}
		return edges[i].Code < edges[j].Code
	})
	return edges
}

func sortedCopy(s []string) []string {
	out := slices.Clone(s)
	sort.Strings(out)
	return out
}
