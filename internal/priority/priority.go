// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package priority turns coverage findings into a ranked, explainable list
// of documentation issues.
package priority

import (
	"fmt"
	"sort"

	"github.com/petar-djukic/docdrift/internal/graph"
	"github.com/petar-djukic/docdrift/pkg/types"
)

const (
	brokenWithMatch    = 0.9
	brokenNoMatch      = 0.6
	undocumentedClass  = 0.8
	undocumentedFunc   = 0.7
	undocumentedOther  = 0.5
	highThreshold      = 0.7
	mediumThreshold    = 0.4
	reasonNoMatch      = "no matching entity found"
	reasonPublicClass  = "public class is undocumented"
	reasonPublicFunc   = "public function is undocumented"
	reasonUndocumented = "entity is undocumented"
)

// Severity buckets a priority into high, medium or low.
func Severity(priority float64) string {
	switch {
	case priority >= highThreshold:
		return "high"
	case priority >= mediumThreshold:
		return "medium"
	default:
		return "low"
	}
}

// Prioritizer ranks broken references and undocumented entities.
type Prioritizer struct {
	threshold int
}

// New returns a Prioritizer whose typo detection accepts edit distances up
// to threshold. A threshold of zero or less selects DefaultThreshold.
func New(threshold int) *Prioritizer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Prioritizer{threshold: threshold}
}

// Threshold returns the edit distance limit in effect.
func (p *Prioritizer) Threshold() int { return p.threshold }

// Issues computes every issue in the graph, sorted by priority descending,
// then broken references before undocumented entities, then file and line.
func (p *Prioritizer) Issues(g *graph.Graph) []types.Issue {
	names := g.EntityNames()
	var issues []types.Issue

	for key := range g.References() {
		ref, _ := g.Reference(key)
		if !ref.Type.Evaluated() {
			continue
		}
		if broken, _ := g.IsBroken(key); !broken {
			continue
		}
		issues = append(issues, p.brokenIssue(ref, names))
	}

	for key := range g.Entities() {
		documented, _ := g.IsEntityDocumented(key)
		if documented {
			continue
		}
		e, _ := g.Entity(key)
		issues = append(issues, undocumentedIssue(e))
	}

	Sort(issues)
	return issues
}

func (p *Prioritizer) brokenIssue(ref types.DocReference, names []string) types.Issue {
	issue := types.Issue{
		Type:     types.IssueBrokenReference,
		Priority: brokenNoMatch,
		Reason:   reasonNoMatch,
		Location: types.IssueLocation{File: ref.Location.File, Line: ref.Location.Line},
		Name:     ref.Text,
	}
	if match, _, ok := Closest(ref.Text, names, p.threshold); ok {
		issue.Priority = brokenWithMatch
		issue.Reason = fmt.Sprintf("similar to '%s'", match)
		issue.Suggestion = match
	}
	issue.Severity = Severity(issue.Priority)
	return issue
}

func undocumentedIssue(e types.CodeEntity) types.Issue {
	priority, reason := undocumentedOther, reasonUndocumented
	if e.IsPublic() {
		switch e.Type {
		case types.EntityClass:
			priority, reason = undocumentedClass, reasonPublicClass
		case types.EntityFunction:
			priority, reason = undocumentedFunc, reasonPublicFunc
		}
	}
	return types.Issue{
		Type:          types.IssueUndocumented,
		Priority:      priority,
		Severity:      Severity(priority),
		Reason:        reason,
		Location:      types.IssueLocation{File: e.Location.File, Line: e.Location.Line},
		Name:          e.Name,
		EntityType:    e.Type.String(),
		QualifiedName: e.QualifiedName(),
	}
}

// Sort orders issues in place: priority descending, broken references
// before undocumented entities, then file, line and name ascending.
func Sort(issues []types.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Type.Rank() != b.Type.Rank() {
			return a.Type.Rank() < b.Type.Rank()
		}
		if a.Location.File != b.Location.File {
			return a.Location.File < b.Location.File
		}
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		return a.Name < b.Name
	})
}

// Filter returns the issues whose priority is at least minPriority.
func Filter(issues []types.Issue, minPriority float64) []types.Issue {
	out := make([]types.Issue, 0, len(issues))
	for _, is := range issues {
		if is.Priority >= minPriority {
			out = append(out, is)
		}
	}
	return out
}
