// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"path"
	"slices"
	"strings"
)

// sourcePrefixes are directory names stripped from the front of a file path
// when computing its module stem, tried in this order.
var sourcePrefixes = []string{"src", "lib", "source"}

// Location is a position in a file. Locations are comparable values.
type Location struct {
	File    string `json:"file" yaml:"file"`                           // Slash-separated path relative to the scan root
	Line    int    `json:"line" yaml:"line"`                           // Start line (1-based)
	EndLine int    `json:"end_line,omitempty" yaml:"end_line,omitempty"` // End line (0 = unknown)
}

func (l Location) String() string {
	if l.EndLine > 0 && l.EndLine != l.Line {
		return fmt.Sprintf("%s:%d-%d", l.File, l.Line, l.EndLine)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// CodeEntity is a named code construct extracted from a source file.
type CodeEntity struct {
	Name      string     `json:"name" yaml:"name"`                               // Bare identifier
	Type      EntityType `json:"type" yaml:"type"`                               // Function, class, method, other
	Location  Location   `json:"location" yaml:"location"`                       // Definition site
	Parent    string     `json:"parent,omitempty" yaml:"parent,omitempty"`       // Enclosing class for methods
	Signature string     `json:"signature,omitempty" yaml:"signature,omitempty"` // Definition header line
}

// QualifiedName returns <module-stem>.<name>, or <module-stem>.<parent>.<name>
// for methods. It is the entity's graph identity.
func (e CodeEntity) QualifiedName() string {
	stem := ModuleStem(e.Location.File)
	if e.Parent != "" {
		return stem + "." + e.Parent + "." + e.Name
	}
	return stem + "." + e.Name
}

// IsPublic reports whether the entity name has no leading underscore.
func (e CodeEntity) IsPublic() bool {
	return !strings.HasPrefix(e.Name, "_")
}

func (e CodeEntity) String() string {
	return e.Type.String() + ":" + e.QualifiedName()
}

// ModuleStem converts a file path into a dotted module path. The extension is
// dropped and everything up to and including the first src directory is
// removed. Without src, lib is tried, then source.
func ModuleStem(file string) string {
	file = path.Clean(strings.ReplaceAll(file, "\\", "/"))
	trimmed := strings.TrimSuffix(file, path.Ext(file))
	parts := strings.Split(strings.TrimPrefix(trimmed, "/"), "/")
	for _, prefix := range sourcePrefixes {
		if i := slices.Index(parts, prefix); i >= 0 {
			parts = parts[i+1:]
			break
		}
	}
	var kept []string
	for _, p := range parts {
		if p != "" && p != "." {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		base := path.Base(file)
		return strings.TrimSuffix(base, path.Ext(base))
	}
	return strings.Join(kept, ".")
}

// DocReference is a token inside documentation that looks like it names a
// code entity.
type DocReference struct {
	Text     string        `json:"text" yaml:"text"` // Cleaned token
	Type     ReferenceType `json:"type" yaml:"type"`
	Location Location      `json:"location" yaml:"location"`
}

// Key returns the deterministic graph key <doc-path>:<line>:<text>.
func (r DocReference) Key() string {
	return fmt.Sprintf("%s:%d:%s", r.Location.File, r.Location.Line, r.Text)
}

// CleanReferenceText strips markup characters from both ends of a raw
// reference and drops a trailing call suffix, so "`main()`" becomes "main".
func CleanReferenceText(raw string) string {
	s := strings.Trim(strings.TrimSpace(raw), "`'\"[]")
	s = strings.TrimSuffix(s, "()")
	return strings.Trim(s, "`'\"[]")
}

// CodeFile is one scanned source file.
type CodeFile struct {
	Path       string            `json:"path" yaml:"path"`
	Language   Language          `json:"language" yaml:"language"`
	Entities   []CodeEntity      `json:"entities" yaml:"entities"`
	Imports    []string          `json:"imports" yaml:"imports"`                           // Sorted, unique module names
	Docstrings map[string]string `json:"docstrings,omitempty" yaml:"docstrings,omitempty"` // Entity name -> docstring
}

// Docstring returns the docstring recorded for the named entity, if any.
func (f CodeFile) Docstring(name string) (string, bool) {
	d, ok := f.Docstrings[name]
	return d, ok
}

// Header is a section heading in a documentation file.
type Header struct {
	Level int    `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
	Line  int    `json:"line" yaml:"line"`
}

// CodeBlock is a fenced or directive-delimited example in documentation.
type CodeBlock struct {
	Language  string `json:"language" yaml:"language"` // Tag after the fence; "text" when absent
	Code      string `json:"code" yaml:"code"`
	StartLine int    `json:"start_line" yaml:"start_line"` // Line before the first code line, usually the opening fence
	EndLine   int    `json:"end_line" yaml:"end_line"`     // Last line of the block, the closing fence if any
}

// Link is a hyperlink in documentation.
type Link struct {
	Text string `json:"text" yaml:"text"`
	URL  string `json:"url" yaml:"url"`
	Line int    `json:"line" yaml:"line"`
}

// DocFile is one scanned documentation file.
type DocFile struct {
	Path       string         `json:"path" yaml:"path"`
	Format     DocFormat      `json:"format" yaml:"format"`
	Headers    []Header       `json:"headers" yaml:"headers"`
	CodeBlocks []CodeBlock    `json:"code_blocks" yaml:"code_blocks"`
	References []DocReference `json:"references" yaml:"references"`
	Links      []Link         `json:"links" yaml:"links"`
}

// Title returns the text of the first header, or "" when there is none.
func (f DocFile) Title() string {
	if len(f.Headers) == 0 {
		return ""
	}
	return f.Headers[0].Text
}
