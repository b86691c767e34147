// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/petar-djukic/docdrift/pkg/types"
)

// FileStatus describes what a commit did to a file.
type FileStatus string

const (
	StatusAdded    FileStatus = "added"
	StatusModified FileStatus = "modified"
	StatusDeleted  FileStatus = "deleted"
	StatusRenamed  FileStatus = "renamed"
)

// ChangedFile is one file touched by a commit.
type ChangedFile struct {
	Path      string         `json:"path" yaml:"path"`
	OldPath   string         `json:"old_path,omitempty" yaml:"old_path,omitempty"` // Set for renames
	Status    FileStatus     `json:"status" yaml:"status"`
	Additions int            `json:"additions" yaml:"additions"`
	Deletions int            `json:"deletions" yaml:"deletions"`
	IsCode    bool           `json:"is_code" yaml:"is_code"`
	IsDoc     bool           `json:"is_doc" yaml:"is_doc"`
	Language  types.Language `json:"language" yaml:"language"`
	Binary    bool           `json:"binary,omitempty" yaml:"binary,omitempty"`
	Diff      string         `json:"diff,omitempty" yaml:"diff,omitempty"`
}

// filePair holds both sides of a change. Either side is empty when the file
// did not exist there.
type filePair struct {
	ChangedFile
	before, after string
}

// Changes lists the files a commit changed relative to its first parent.
// With withDiff set each text file carries a line diff.
func (r *Repo) Changes(rev string, withDiff bool) ([]ChangedFile, error) {
	c, err := r.resolve(rev)
	if err != nil {
		return nil, err
	}
	pairs, err := r.filePairs(c)
	if err != nil {
		return nil, err
	}
	out := make([]ChangedFile, 0, len(pairs))
	for _, p := range pairs {
		cf := p.ChangedFile
		if !cf.Binary {
			d := lineDiff(p.before, p.after)
			cf.Additions, cf.Deletions = d.additions, d.deletions
			if withDiff {
				cf.Diff = d.text
			}
		}
		out = append(out, cf)
	}
	return out, nil
}

func (r *Repo) filePairs(c *object.Commit) ([]filePair, error) {
	from, err := parentTree(c)
	if err != nil {
		return nil, err
	}
	to, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("getting tree of %s: %w", c.Hash, err)
	}
	changes, err := object.DiffTreeWithOptions(context.Background(), from, to, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diffing %s: %w", c.Hash, err)
	}

	pairs := make([]filePair, 0, len(changes))
	for _, ch := range changes {
		action, err := ch.Action()
		if err != nil {
			return nil, fmt.Errorf("diffing %s: %w", c.Hash, err)
		}
		p := filePair{}
		switch action {
		case merkletrie.Insert:
			p.Path, p.Status = ch.To.Name, StatusAdded
		case merkletrie.Delete:
			p.Path, p.Status = ch.From.Name, StatusDeleted
		default:
			p.Path, p.Status = ch.To.Name, StatusModified
			if ch.From.Name != ch.To.Name {
				p.OldPath, p.Status = ch.From.Name, StatusRenamed
			}
		}
		p.IsCode = types.IsCodePath(p.Path)
		p.IsDoc = types.IsDocPath(p.Path)
		p.Language = types.LanguageFromPath(p.Path)

		before, after, err := ch.Files()
		if err != nil {
			return nil, fmt.Errorf("reading %s at %s: %w", p.Path, c.Hash, err)
		}
		if p.before, p.Binary, err = contents(before); err != nil {
			return nil, err
		}
		if !p.Binary {
			if p.after, p.Binary, err = contents(after); err != nil {
				return nil, err
			}
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// contents returns the text of f, or binary=true when f is not text.
func contents(f *object.File) (text string, binary bool, err error) {
	if f == nil {
		return "", false, nil
	}
	if bin, err := f.IsBinary(); err != nil || bin {
		return "", bin, err
	}
	text, err = f.Contents()
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	return text, false, nil
}
