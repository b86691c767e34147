// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git reads repository history and maps code changes in each
// commit onto the documentation references they may invalidate.
package git

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/petar-djukic/docdrift/internal/logging"
)

// ErrNotRepository is returned when the path is not inside a git repository.
var ErrNotRepository = errors.New("not a git repository")

// ErrRefNotFound is returned when a revision does not resolve to a commit.
var ErrRefNotFound = errors.New("reference not found")

// Commit summarises one commit.
type Commit struct {
	Hash    string    `json:"hash" yaml:"hash"`
	Author  string    `json:"author" yaml:"author"`
	Email   string    `json:"email" yaml:"email"`
	When    time.Time `json:"when" yaml:"when"`
	Message string    `json:"message" yaml:"message"`
}

// Short returns the abbreviated hash.
func (c Commit) Short() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// Summary returns the first line of the message.
func (c Commit) Summary() string {
	line, _, _ := strings.Cut(c.Message, "\n")
	return line
}

// Repo wraps a go-git repository for read-only history queries.
type Repo struct {
	repo *gogit.Repository
	log  *slog.Logger
}

// Open opens the repository containing path. Parent directories are
// searched for the .git directory.
func Open(path string, logger *slog.Logger) (*Repo, error) {
	r, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotRepository, err)
	}
	return &Repo{repo: r, log: logging.OrDiscard(logger)}, nil
}

// Root returns the worktree directory, or "" for a bare repository.
func (r *Repo) Root() string {
	wt, err := r.repo.Worktree()
	if err != nil {
		return ""
	}
	return wt.Filesystem.Root()
}

// CommitsSince returns the commits reachable from HEAD but not from ref,
// newest first. An empty ref returns the full history of HEAD.
func (r *Repo) CommitsSince(ref string) ([]Commit, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}

	exclude := make(map[plumbing.Hash]bool)
	if ref != "" {
		base, err := r.resolve(ref)
		if err != nil {
			return nil, err
		}
		iter, err := r.repo.Log(&gogit.LogOptions{From: base.Hash})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", ref, err)
		}
		err = iter.ForEach(func(c *object.Commit) error {
			exclude[c.Hash] = true
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", ref, err)
		}
	}

	iter, err := r.repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("walking HEAD: %w", err)
	}
	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if !exclude[c.Hash] {
			commits = append(commits, toCommit(c))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking HEAD: %w", err)
	}
	r.log.Debug("listed commits", "since", ref, "count", len(commits))
	return commits, nil
}

// resolve turns a revision (hash, branch, tag, HEAD~2, ...) into a commit.
func (r *Repo) resolve(rev string) (*object.Commit, error) {
	h, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRefNotFound, rev, err)
	}
	c, err := r.repo.CommitObject(*h)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRefNotFound, rev, err)
	}
	return c, nil
}

// parentTree returns the first parent's tree, or an empty tree for a root
// commit.
func parentTree(c *object.Commit) (*object.Tree, error) {
	if c.NumParents() == 0 {
		return &object.Tree{}, nil
	}
	p, err := c.Parent(0)
	if err != nil {
		return nil, fmt.Errorf("getting parent of %s: %w", c.Hash, err)
	}
	return p.Tree()
}

func toCommit(c *object.Commit) Commit {
	return Commit{
		Hash:    c.Hash.String(),
		Author:  c.Author.Name,
		Email:   c.Author.Email,
		When:    c.Author.When,
		Message: strings.TrimSpace(c.Message),
	}
}
