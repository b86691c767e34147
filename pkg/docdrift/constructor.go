// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package docdrift

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/petar-djukic/docdrift/internal/analyzer"
	"github.com/petar-djukic/docdrift/internal/extract"
	"github.com/petar-djukic/docdrift/internal/git"
	"github.com/petar-djukic/docdrift/internal/logging"
	"github.com/petar-djukic/docdrift/internal/priority"
)

// New validates the config and returns an Analyzer. Nothing is read from
// disk until Analyze or Changes is called.
func New(cfg Config) (Analyzer, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	applyDefaults(&cfg)

	log := logging.OrDiscard(cfg.Logger)
	collector := extract.NewCollector(extract.Options{
		ScanOptions: extract.ScanOptions{
			IgnoreDirs:       cfg.IgnoreDirs,
			Exclude:          cfg.Exclude,
			RespectGitignore: !cfg.NoGitignore,
		},
		Workers: cfg.Workers,
		Logger:  log,
	})
	return &driftAnalyzer{cfg: cfg, log: log, collector: collector}, nil
}

type driftAnalyzer struct {
	cfg       Config
	log       *slog.Logger
	collector *extract.Collector
}

func (d *driftAnalyzer) Analyze(ctx context.Context) (*Report, error) {
	a, err := d.build(ctx)
	if err != nil {
		return nil, err
	}
	res, err := a.Result(ctx)
	if err != nil {
		return nil, err
	}
	return &Report{
		Result:    res,
		CodeFiles: a.CodeFiles(),
		DocFiles:  a.DocFiles(),
		Stats:     d.collector.Stats(),
	}, nil
}

func (d *driftAnalyzer) Changes(ctx context.Context, since string, withDiff bool) ([]CommitImpact, error) {
	repo, err := git.Open(d.cfg.Root, d.log)
	if err != nil {
		return nil, err
	}
	commits, err := repo.CommitsSince(since)
	if err != nil {
		return nil, err
	}
	a, err := d.build(ctx)
	if err != nil {
		return nil, err
	}
	prefix, err := subdir(repo.Root(), d.cfg.Root)
	if err != nil {
		return nil, err
	}

	out := make([]CommitImpact, 0, len(commits))
	for _, c := range commits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files, err := repo.Changes(c.Hash, withDiff)
		if err != nil {
			return nil, err
		}
		changes, err := repo.EntityChanges(c.Hash)
		if err != nil {
			return nil, err
		}
		changes = rebase(changes, prefix)
		impacts := git.Impacts(changes, a.Graph())
		d.log.Debug("commit analysed", "commit", c.Short(), "files", len(files),
			"changes", len(changes), "impacts", len(impacts))
		out = append(out, CommitImpact{Commit: c, Files: files, Changes: changes, Impacts: impacts})
	}
	return out, nil
}

func (d *driftAnalyzer) build(ctx context.Context) (*analyzer.Analyzer, error) {
	a := analyzer.New(analyzer.Deps{
		Collector:      d.collector,
		Logger:         d.log,
		FuzzyThreshold: d.cfg.FuzzyThreshold,
	})
	if err := a.AnalyzeDirectory(ctx, d.cfg.Root); err != nil {
		return nil, err
	}
	return a, nil
}

// subdir returns the slash path of root inside the repository worktree,
// or "" when root is the worktree itself.
func subdir(worktree, root string) (string, error) {
	if worktree == "" {
		return "", nil
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}
	if resolved, err := filepath.EvalSymlinks(worktree); err == nil {
		worktree = resolved
	}
	rel, err := filepath.Rel(worktree, absRoot)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel) + "/", nil
}

// rebase keeps the changes under prefix and makes their paths relative to
// it, matching the paths the graph was built with.
func rebase(changes []EntityChange, prefix string) []EntityChange {
	if prefix == "" {
		return changes
	}
	out := changes[:0]
	for _, c := range changes {
		if rest, ok := strings.CutPrefix(c.File, prefix); ok {
			c.File = rest
			out = append(out, c)
		}
	}
	return out
}

// validateConfig checks required fields and value ranges.
func validateConfig(cfg Config) error {
	if cfg.Root == "" {
		return fmt.Errorf("Root is required")
	}
	if info, err := os.Stat(cfg.Root); err != nil || !info.IsDir() {
		return fmt.Errorf("Root %q does not exist or is not a directory", cfg.Root)
	}
	if cfg.FuzzyThreshold < 0 {
		return fmt.Errorf("FuzzyThreshold must not be negative, got %d", cfg.FuzzyThreshold)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("Workers must not be negative, got %d", cfg.Workers)
	}
	for _, p := range cfg.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.FuzzyThreshold == 0 {
		cfg.FuzzyThreshold = priority.DefaultThreshold
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}
