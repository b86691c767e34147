// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package analyzer builds the relationship graph for a project and derives
// coverage, clusters and prioritised issues from it.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/petar-djukic/docdrift/internal/cluster"
	"github.com/petar-djukic/docdrift/internal/graph"
	"github.com/petar-djukic/docdrift/internal/logging"
	"github.com/petar-djukic/docdrift/internal/priority"
	"github.com/petar-djukic/docdrift/pkg/types"
)

// ErrNoCollector is returned by AnalyzeDirectory when no Collector was
// injected.
var ErrNoCollector = errors.New("analyzer has no collector")

// Collector turns a directory into extracted code and documentation files.
type Collector interface {
	Collect(ctx context.Context, root string) ([]types.CodeFile, []types.DocFile, error)
}

// Deps holds injected dependencies for the analyzer.
type Deps struct {
	Collector      Collector    // Required by AnalyzeDirectory only
	Logger         *slog.Logger // nil discards
	FuzzyThreshold int          // <= 0 selects priority.DefaultThreshold
}

// Analyzer holds the graph of one analysis run. Build it with
// AnalyzeDirectory or AnalyzeFiles, then read it. Building is not safe to
// run concurrently; use one Analyzer per scan.
type Analyzer struct {
	deps        Deps
	log         *slog.Logger
	prioritizer *priority.Prioritizer

	graph *graph.Graph
	code  []types.CodeFile
	docs  []types.DocFile
}

// New creates an Analyzer with an empty graph.
func New(deps Deps) *Analyzer {
	return &Analyzer{
		deps:        deps,
		log:         logging.OrDiscard(deps.Logger),
		prioritizer: priority.New(deps.FuzzyThreshold),
		graph:       graph.New(),
	}
}

// AnalyzeDirectory collects root and rebuilds the graph from scratch. On
// error the previous graph is kept.
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, root string) error {
	if a.deps.Collector == nil {
		return ErrNoCollector
	}
	code, docs, err := a.deps.Collector.Collect(ctx, root)
	if err != nil {
		return fmt.Errorf("collecting %s: %w", root, err)
	}
	a.AnalyzeFiles(code, docs)
	return nil
}

// AnalyzeFiles replaces the graph with one built from the given files.
// Code files are inserted before doc files, although the resulting edges
// do not depend on that order.
func (a *Analyzer) AnalyzeFiles(code []types.CodeFile, docs []types.DocFile) {
	g := graph.New()
	for _, cf := range code {
		g.AddCodeFile(cf)
	}
	for _, df := range docs {
		g.AddDocFile(df)
	}
	a.graph, a.code, a.docs = g, code, docs
	a.log.Info("graph built",
		"code_files", len(code), "doc_files", len(docs),
		"entities", g.EntityCount(), "references", g.ReferenceCount())
}

// Graph returns the current relationship graph.
func (a *Analyzer) Graph() *graph.Graph { return a.graph }

// CodeFiles returns the code files of the last build.
func (a *Analyzer) CodeFiles() []types.CodeFile { return a.code }

// DocFiles returns the doc files of the last build.
func (a *Analyzer) DocFiles() []types.DocFile { return a.docs }

// CoverageStats counts documented entities and broken references. The
// percent is unrounded and 0 when there are no entities.
func (a *Analyzer) CoverageStats() types.CoverageStats {
	var s types.CoverageStats
	for key := range a.graph.Entities() {
		s.TotalEntities++
		if ok, _ := a.graph.IsEntityDocumented(key); ok {
			s.DocumentedEntities++
		}
	}
	s.UndocumentedEntities = s.TotalEntities - s.DocumentedEntities
	s.TotalReferences = a.graph.ReferenceCount()
	s.BrokenReferences = len(a.BrokenReferences())
	s.CoveragePercent = percent(s.DocumentedEntities, s.TotalEntities)
	return s
}

// CoverageByFile maps each code file with at least one entity to the
// percent of its entities that are documented. An entity is counted under
// the file of its canonical node.
func (a *Analyzer) CoverageByFile() map[string]float64 {
	total := make(map[string]int)
	documented := make(map[string]int)
	for key := range a.graph.Entities() {
		e, _ := a.graph.Entity(key)
		total[e.Location.File]++
		if ok, _ := a.graph.IsEntityDocumented(key); ok {
			documented[e.Location.File]++
		}
	}
	out := make(map[string]float64, len(total))
	for file, n := range total {
		out[file] = percent(documented[file], n)
	}
	return out
}

// UndocumentedEntities returns the entities no reference points to, in
// insertion order.
func (a *Analyzer) UndocumentedEntities() []types.CodeEntity {
	var out []types.CodeEntity
	for key := range a.graph.Entities() {
		if ok, _ := a.graph.IsEntityDocumented(key); !ok {
			e, _ := a.graph.Entity(key)
			out = append(out, e)
		}
	}
	return out
}

// BrokenReferences returns the inline code and code block references that
// match no entity, in insertion order.
func (a *Analyzer) BrokenReferences() []types.DocReference {
	var out []types.DocReference
	for key := range a.graph.References() {
		r, _ := a.graph.Reference(key)
		if !r.Type.Evaluated() {
			continue
		}
		if broken, _ := a.graph.IsBroken(key); broken {
			out = append(out, r)
		}
	}
	return out
}

// Clusters returns groups of related doc and code files.
func (a *Analyzer) Clusters() [][]string {
	return cluster.Find(a.graph)
}

// Issues returns every issue sorted by priority.
func (a *Analyzer) Issues() []types.Issue {
	return a.prioritizer.Issues(a.graph)
}

// Result computes coverage, clusters and issues in parallel and returns
// them in their serialisable form: numbers rounded to two decimals and
// empty collections non-nil.
func (a *Analyzer) Result(ctx context.Context) (types.Result, error) {
	var (
		stats    types.CoverageStats
		byFile   map[string]float64
		clusters [][]string
		issues   []types.Issue
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		stats = a.CoverageStats()
		byFile = a.CoverageByFile()
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		clusters = a.Clusters()
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		issues = a.Issues()
		return nil
	})
	if err := g.Wait(); err != nil {
		return types.Result{}, err
	}

	stats.CoveragePercent = round2(stats.CoveragePercent)
	for file, p := range byFile {
		byFile[file] = round2(p)
	}
	if clusters == nil {
		clusters = [][]string{}
	}
	if issues == nil {
		issues = []types.Issue{}
	}
	for i := range issues {
		issues[i].Priority = round2(issues[i].Priority)
	}
	a.log.Debug("result computed",
		"coverage", stats.CoveragePercent, "clusters", len(clusters), "issues", len(issues))
	return types.Result{
		Coverage:       stats,
		CoverageByFile: byFile,
		Clusters:       clusters,
		Issues:         issues,
	}, nil
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(part) / float64(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
