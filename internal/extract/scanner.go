// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/petar-djukic/docdrift/pkg/types"
)

// ErrInvalidPattern is returned when an exclude glob does not parse.
var ErrInvalidPattern = errors.New("invalid exclude pattern")

// DefaultIgnoreDirs are directory names never descended into.
var DefaultIgnoreDirs = []string{
	".git", ".hg", ".svn",
	"node_modules", "vendor",
	"__pycache__", ".pytest_cache",
	"venv", ".venv", "env", ".env",
	".idea", ".vscode",
	"dist", "build", "target",
	".tox", ".nox",
	"egg-info", ".eggs",
}

// ScanOptions controls which files a scan reports.
type ScanOptions struct {
	IgnoreDirs       []string // Added to DefaultIgnoreDirs
	Exclude          []string // doublestar globs matched against relative paths
	RespectGitignore bool     // Honour the root .gitignore
}

// ScanResult lists the files found by a scan as slash-separated paths
// relative to the root, sorted.
type ScanResult struct {
	Code []string
	Docs []string
}

// Scan walks root and classifies files as code or documentation by
// extension. Files that are neither are not reported. Unreadable entries
// are skipped without failing the scan.
func Scan(root string, opts ScanOptions) (*ScanResult, error) {
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving directory: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absRoot)
	}

	skip := make(map[string]bool, len(DefaultIgnoreDirs)+len(opts.IgnoreDirs))
	for _, d := range DefaultIgnoreDirs {
		skip[d] = true
	}
	for _, d := range opts.IgnoreDirs {
		skip[d] = true
	}

	var gi *ignore.GitIgnore
	if opts.RespectGitignore {
		gi = loadGitignore(absRoot)
	}

	result := &ScanResult{}
	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if p == absRoot {
			return nil
		}
		rel, relErr := filepath.Rel(absRoot, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			name := d.Name()
			if skip[name] || strings.HasSuffix(name, ".egg-info") ||
				(gi != nil && gi.MatchesPath(rel+"/")) || excluded(opts.Exclude, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if (gi != nil && gi.MatchesPath(rel)) || excluded(opts.Exclude, rel) {
			return nil
		}
		switch {
		case types.IsCodePath(rel):
			result.Code = append(result.Code, rel)
		case types.IsDocPath(rel):
			result.Docs = append(result.Docs, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	sort.Strings(result.Code)
	sort.Strings(result.Docs)
	return result, nil
}

// loadGitignore compiles the root .gitignore. A missing or unreadable file
// yields nil, which ignores nothing.
func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// excluded reports whether rel matches any pattern. Patterns without a
// slash also match the base name, as in .gitignore.
func excluded(patterns []string, rel string) bool {
	base := path.Base(rel)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if !strings.Contains(p, "/") {
			if ok, _ := doublestar.Match(p, base); ok {
				return true
			}
		}
	}
	return false
}
