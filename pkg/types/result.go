// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// CoverageStats summarises how many entities are documented and how many
// references fail to resolve.
type CoverageStats struct {
	CoveragePercent      float64 `json:"coverage_percent" yaml:"coverage_percent"`
	TotalEntities        int     `json:"total_entities" yaml:"total_entities"`
	DocumentedEntities   int     `json:"documented_entities" yaml:"documented_entities"`
	UndocumentedEntities int     `json:"undocumented_entities" yaml:"undocumented_entities"`
	TotalReferences      int     `json:"total_references" yaml:"total_references"`
	BrokenReferences     int     `json:"broken_references" yaml:"broken_references"`
}

// IssueType names the kind of documentation problem an Issue describes.
type IssueType string

const (
	IssueBrokenReference IssueType = "broken_reference"
	IssueUndocumented    IssueType = "undocumented"
)

// Rank orders issue types for tie-breaking; lower sorts first.
func (t IssueType) Rank() int {
	if t == IssueBrokenReference {
		return 0
	}
	return 1
}

// IssueLocation is where an issue should be fixed.
type IssueLocation struct {
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`
}

// Issue is one ranked, explainable documentation problem.
type Issue struct {
	Type          IssueType     `json:"type" yaml:"type"`
	Priority      float64       `json:"priority" yaml:"priority"` // 0.0 to 1.0
	Severity      string        `json:"severity" yaml:"severity"` // high, medium, low
	Reason        string        `json:"reason" yaml:"reason"`
	Location      IssueLocation `json:"location" yaml:"location"`
	Name          string        `json:"name" yaml:"name"` // Reference text or entity name
	EntityType    string        `json:"entity_type,omitempty" yaml:"entity_type,omitempty"`
	QualifiedName string        `json:"qualified_name,omitempty" yaml:"qualified_name,omitempty"`
	Suggestion    string        `json:"suggestion,omitempty" yaml:"suggestion,omitempty"` // Closest entity name for likely typos
}

// Result is the stable, serialisable outcome of one analysis run. Its field
// names are the compatibility surface of the JSON export.
type Result struct {
	Coverage       CoverageStats      `json:"coverage" yaml:"coverage"`
	CoverageByFile map[string]float64 `json:"coverage_by_file" yaml:"coverage_by_file"`
	Clusters       [][]string         `json:"clusters" yaml:"clusters"`
	Issues         []Issue            `json:"issues" yaml:"issues"`
}
