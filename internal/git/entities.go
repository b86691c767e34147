// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/petar-djukic/docdrift/internal/extract"
	"github.com/petar-djukic/docdrift/pkg/types"
)

// ChangeType classifies how a code entity changed.
type ChangeType string

const (
	ChangeAdded            ChangeType = "added"
	ChangeDeleted          ChangeType = "deleted"
	ChangeSignatureChanged ChangeType = "signature_changed"
	ChangeDocstringChanged ChangeType = "docstring_changed"
	ChangeBodyChanged      ChangeType = "body_changed"
)

// EntityChange is one change to a named definition in a commit.
type EntityChange struct {
	Key          string           `json:"key" yaml:"key"` // Parent.Name for methods, else Name
	Name         string           `json:"name" yaml:"name"`
	Type         types.EntityType `json:"type" yaml:"type"`
	File         string           `json:"file" yaml:"file"`
	Change       ChangeType       `json:"change" yaml:"change"`
	OldSignature string           `json:"old_signature,omitempty" yaml:"old_signature,omitempty"`
	NewSignature string           `json:"new_signature,omitempty" yaml:"new_signature,omitempty"`
	OldDoc       string           `json:"old_doc,omitempty" yaml:"old_doc,omitempty"`
	NewDoc       string           `json:"new_doc,omitempty" yaml:"new_doc,omitempty"`
}

// EntityChanges compares the definitions of every changed code file before
// and after the commit. Files in languages without an extractor, and files
// that fail to parse, are skipped. A definition whose signature and doc both
// changed yields one change of each kind.
func (r *Repo) EntityChanges(rev string) ([]EntityChange, error) {
	c, err := r.resolve(rev)
	if err != nil {
		return nil, err
	}
	pairs, err := r.filePairs(c)
	if err != nil {
		return nil, err
	}

	var out []EntityChange
	for _, p := range pairs {
		if !p.IsCode || p.Binary {
			continue
		}
		ex, ok := extract.CodeExtractorFor(p.Path)
		if !ok {
			r.log.Debug("no extractor for changed file", "path", p.Path)
			continue
		}
		before, err := definitionsByKey(ex, p.before)
		if err != nil {
			r.log.Warn("parsing old version", "path", p.Path, "commit", c.Hash.String(), "error", err)
			continue
		}
		after, err := definitionsByKey(ex, p.after)
		if err != nil {
			r.log.Warn("parsing new version", "path", p.Path, "commit", c.Hash.String(), "error", err)
			continue
		}
		out = append(out, compareDefinitions(p.Path, before, after)...)
	}

	slices.SortFunc(out, func(a, b EntityChange) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Key, b.Key),
			cmp.Compare(a.Change, b.Change),
		)
	})
	return out, nil
}

// definitionsByKey parses src and indexes definitions by Parent.Name. The
// first definition of a repeated key wins.
func definitionsByKey(ex extract.CodeExtractor, src string) (map[string]extract.Definition, error) {
	out := make(map[string]extract.Definition)
	if src == "" {
		return out, nil
	}
	defs, err := ex.Definitions([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("extracting definitions: %w", err)
	}
	for _, d := range defs {
		k := definitionKey(d)
		if _, seen := out[k]; !seen {
			out[k] = d
		}
	}
	return out, nil
}

// QualifiedName returns the graph identity of the changed entity, matching
// types.CodeEntity.QualifiedName.
func (c EntityChange) QualifiedName() string {
	e := types.CodeEntity{Name: c.Name, Type: c.Type, Location: types.Location{File: c.File}}
	if parent, ok := strings.CutSuffix(c.Key, "."+c.Name); ok {
		e.Parent = parent
	}
	return e.QualifiedName()
}

func definitionKey(d extract.Definition) string {
	if d.Parent != "" {
		return d.Parent + "." + d.Name
	}
	return d.Name
}

func compareDefinitions(file string, before, after map[string]extract.Definition) []EntityChange {
	var out []EntityChange
	for k, nd := range after {
		od, existed := before[k]
		if !existed {
			out = append(out, EntityChange{
				Key: k, Name: nd.Name, Type: nd.Kind, File: file, Change: ChangeAdded,
				NewSignature: nd.Signature, NewDoc: nd.Doc,
			})
			continue
		}
		base := EntityChange{
			Key: k, Name: nd.Name, Type: nd.Kind, File: file,
			OldSignature: od.Signature, NewSignature: nd.Signature,
			OldDoc: od.Doc, NewDoc: nd.Doc,
		}
		if od.Signature != nd.Signature {
			ch := base
			ch.Change = ChangeSignatureChanged
			out = append(out, ch)
		}
		if od.Doc != nd.Doc {
			ch := base
			ch.Change = ChangeDocstringChanged
			out = append(out, ch)
		}
		if od.Signature == nd.Signature && od.Doc == nd.Doc && od.BodyHash != nd.BodyHash {
			ch := base
			ch.Change = ChangeBodyChanged
			out = append(out, ch)
		}
	}
	for k, od := range before {
		if _, kept := after[k]; kept {
			continue
		}
		out = append(out, EntityChange{
			Key: k, Name: od.Name, Type: od.Kind, File: file, Change: ChangeDeleted,
			OldSignature: od.Signature, OldDoc: od.Doc,
		})
	}
	return out
}
