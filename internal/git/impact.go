// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/petar-djukic/docdrift/internal/graph"
	"github.com/petar-djukic/docdrift/pkg/types"
)

// ImpactType names the effect a code change has on documentation.
type ImpactType string

const (
	ImpactBrokenReference   ImpactType = "broken_reference"   // Referenced entity was deleted
	ImpactPossiblyStale     ImpactType = "possibly_stale"     // Signature changed under a reference
	ImpactNeedsUpdate       ImpactType = "needs_update"       // Docstring changed, prose may lag
	ImpactAddedUndocumented ImpactType = "added_undocumented" // New entity nothing documents
)

const (
	confidenceBroken       = 1.0
	confidenceSignature    = 0.8
	confidenceDocstring    = 0.6
	confidenceUndocumented = 1.0
)

// Severity returns high, medium, or low.
func (t ImpactType) Severity() string {
	switch t {
	case ImpactBrokenReference:
		return "high"
	case ImpactPossiblyStale:
		return "medium"
	default:
		return "low"
	}
}

// Impact is one code change affecting one documentation reference. For
// added_undocumented impacts DocPath is empty.
type Impact struct {
	DocPath    string       `json:"doc_path" yaml:"doc_path"`
	DocLine    int          `json:"doc_line" yaml:"doc_line"`
	Entity     string       `json:"referenced_entity" yaml:"referenced_entity"`
	Type       ImpactType   `json:"impact_type" yaml:"impact_type"`
	Confidence float64      `json:"confidence" yaml:"confidence"`
	Severity   string       `json:"severity" yaml:"severity"`
	Change     EntityChange `json:"change" yaml:"change"`
}

func (i Impact) String() string {
	if i.DocPath != "" {
		return fmt.Sprintf("%s:%d (%s)", i.DocPath, i.DocLine, i.Type)
	}
	return fmt.Sprintf("%s:%s (%s)", i.Change.File, i.Entity, i.Type)
}

// CommitImpact pairs a commit with what it changed and the documentation
// those changes affect.
type CommitImpact struct {
	Commit  Commit         `json:"commit" yaml:"commit"`
	Files   []ChangedFile  `json:"files" yaml:"files"`
	Changes []EntityChange `json:"changes" yaml:"changes"`
	Impacts []Impact       `json:"impacts" yaml:"impacts"`
}

// Impacts maps entity changes onto the references in g. A changed entity
// is found by its qualified name; when g does not hold it (it was deleted,
// say) the unresolved references whose text is the entity's bare name are
// used.
// Body changes have no impact. Results are sorted by confidence, then
// location.
func Impacts(changes []EntityChange, g *graph.Graph) []Impact {
	var out []Impact
	for _, ch := range changes {
		refs := documentingRefs(ch, g)
		if len(refs) == 0 {
			if ch.Change == ChangeAdded {
				out = append(out, newImpact(types.DocReference{}, ch, ImpactAddedUndocumented, confidenceUndocumented))
			}
			continue
		}
		var typ ImpactType
		var conf float64
		switch ch.Change {
		case ChangeDeleted:
			typ, conf = ImpactBrokenReference, confidenceBroken
		case ChangeSignatureChanged:
			typ, conf = ImpactPossiblyStale, confidenceSignature
		case ChangeDocstringChanged:
			typ, conf = ImpactNeedsUpdate, confidenceDocstring
		default:
			continue
		}
		for _, ref := range refs {
			out = append(out, newImpact(ref, ch, typ, conf))
		}
	}

	slices.SortStableFunc(out, func(a, b Impact) int {
		return cmp.Or(
			cmp.Compare(b.Confidence, a.Confidence),
			cmp.Compare(a.DocPath, b.DocPath),
			cmp.Compare(a.DocLine, b.DocLine),
			cmp.Compare(a.Entity, b.Entity),
		)
	})
	return out
}

func newImpact(ref types.DocReference, ch EntityChange, typ ImpactType, conf float64) Impact {
	return Impact{
		DocPath:    ref.Location.File,
		DocLine:    ref.Location.Line,
		Entity:     ch.Key,
		Type:       typ,
		Confidence: conf,
		Severity:   typ.Severity(),
		Change:     ch,
	}
}

// documentingRefs returns the references that name the changed entity,
// deduplicated and in graph order. When g does not hold the entity, only
// references with the same text that no longer resolve are returned.
func documentingRefs(ch EntityChange, g *graph.Graph) []types.DocReference {
	keys, err := g.DocumentedBy(graph.EntityKey(ch.QualifiedName()))
	if err != nil {
		keys = slices.DeleteFunc(g.ReferencesByText(ch.Name), func(k string) bool {
			broken, err := g.IsBroken(k)
			return err != nil || !broken
		})
	}

	seen := make(map[string]bool, len(keys))
	refs := make([]types.DocReference, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		ref, err := g.Reference(k)
		if err != nil {
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}
