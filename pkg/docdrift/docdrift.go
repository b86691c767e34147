// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package docdrift is the public entry point for documentation drift
// analysis: coverage of code entities by documentation, broken references,
// related file clusters, and the documentation impact of recent commits.
package docdrift

import (
	"context"
	"errors"
	"log/slog"

	"github.com/petar-djukic/docdrift/internal/extract"
	"github.com/petar-djukic/docdrift/internal/git"
	"github.com/petar-djukic/docdrift/pkg/types"
)

// Errors returned by the API.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrNotRepository = git.ErrNotRepository
	ErrRefNotFound   = git.ErrRefNotFound
)

// Config configures an Analyzer.
type Config struct {
	Root           string       // Project directory (required)
	IgnoreDirs     []string     // Directory names skipped in addition to the defaults
	Exclude        []string     // doublestar globs matched against relative paths
	FuzzyThreshold int          // Maximum edit distance for typo suggestions (default 2)
	Workers        int          // Parallel file readers (default runtime.NumCPU())
	NoGitignore    bool         // Do not honour the root .gitignore
	Logger         *slog.Logger // nil discards
}

// Report is the outcome of one analysis of Root.
type Report struct {
	Result    types.Result
	CodeFiles []types.CodeFile
	DocFiles  []types.DocFile
	Stats     extract.Stats
}

// Change impact records, re-exported from the git layer.
type (
	Commit       = git.Commit
	ChangedFile  = git.ChangedFile
	EntityChange = git.EntityChange
	Impact       = git.Impact
	CommitImpact = git.CommitImpact
)

// Analyzer analyses one project directory.
type Analyzer interface {
	// Analyze scans Root, builds the relationship graph, and derives
	// coverage, clusters, and prioritised issues.
	Analyze(ctx context.Context) (*Report, error)

	// Changes reports, for every commit since the given revision, the code
	// entities it changed and the documentation references affected. The
	// graph used for impact lookup is built from the current working tree.
	Changes(ctx context.Context, since string, withDiff bool) ([]CommitImpact, error)
}
