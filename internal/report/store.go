// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/petar-djukic/docdrift/pkg/types"
)

// SnapshotVersion is the only snapshot format Load accepts.
const SnapshotVersion = "1.0"

var (
	// ErrPathTraversal is returned when a path stored in a snapshot
	// resolves outside the base directory.
	ErrPathTraversal = errors.New("path escapes base directory")

	// ErrUnsupportedVersion is returned for snapshots of another format
	// version.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

// Snapshot is a saved analysis: the extracted files it was built from and
// the result derived from them.
type Snapshot struct {
	Version   string           `json:"version"`
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Root      string           `json:"root"`
	Result    types.Result     `json:"result"`
	CodeFiles []types.CodeFile `json:"code_files"`
	DocFiles  []types.DocFile  `json:"doc_files"`
}

// NewSnapshot stamps a result with a fresh ID and the current time.
func NewSnapshot(root string, res types.Result, code []types.CodeFile, docs []types.DocFile) Snapshot {
	if code == nil {
		code = []types.CodeFile{}
	}
	if docs == nil {
		docs = []types.DocFile{}
	}
	return Snapshot{
		Version:   SnapshotVersion,
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Root:      root,
		Result:    res,
		CodeFiles: code,
		DocFiles:  docs,
	}
}

// Save writes the snapshot as indented JSON.
func Save(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot and checks that every stored file path stays inside
// baseDir. An empty baseDir means the directory holding the snapshot.
func Load(path, baseDir string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrUnsupportedVersion, snap.Version)
	}
	if baseDir == "" {
		baseDir = filepath.Dir(path)
	}
	if err := validatePaths(snap, baseDir); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func validatePaths(snap Snapshot, baseDir string) error {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("resolving base directory: %w", err)
	}
	check := func(p string) error {
		if p == "" {
			return nil
		}
		return validatePath(p, base)
	}

	for _, cf := range snap.CodeFiles {
		if err := check(cf.Path); err != nil {
			return err
		}
		for _, e := range cf.Entities {
			if err := check(e.Location.File); err != nil {
				return err
			}
		}
	}
	for _, df := range snap.DocFiles {
		if err := check(df.Path); err != nil {
			return err
		}
		for _, r := range df.References {
			if err := check(r.Location.File); err != nil {
				return err
			}
		}
	}
	for file := range snap.Result.CoverageByFile {
		if err := check(file); err != nil {
			return err
		}
	}
	for _, is := range snap.Result.Issues {
		if err := check(is.Location.File); err != nil {
			return err
		}
	}
	return nil
}

// validatePath resolves p against base, or takes it as is when absolute,
// and requires the result to lie within base.
func validatePath(p, base string) error {
	resolved := filepath.FromSlash(p)
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(base, resolved)
	}
	rel, err := filepath.Rel(base, filepath.Clean(resolved))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %q is outside %q", ErrPathTraversal, p, base)
	}
	return nil
}
