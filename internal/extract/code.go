// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package extract turns source and documentation files into the normalized
// CodeFile and DocFile values consumed by the relationship graph. It owns
// directory scanning, safe file reading, and per-language extraction.
package extract

import (
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/petar-djukic/docdrift/pkg/types"
)

// maxSignatureLen bounds the stored definition header.
const maxSignatureLen = 120

// Definition is one named construct found in a source file.
type Definition struct {
	Name      string
	Kind      types.EntityType
	Line      int    // 1-based start line
	EndLine   int    // 1-based end line
	Parent    string // Enclosing class or receiver type for methods
	Signature string // Definition header with whitespace collapsed
	Doc       string // Docstring or doc comment, trimmed
	BodyHash  uint64 // xxhash of the body text, for change detection
}

// CodeExtractor pulls definitions and imports out of source text for one
// language. Implementations are stateless and safe for concurrent use.
type CodeExtractor interface {
	Definitions(src []byte) ([]Definition, error)
	ExtractFunctionNames(src []byte) []string
	ExtractClassNames(src []byte) []string
	ExtractImports(src []byte) []string
}

// codeExtractors selects an extractor by lower-case file extension.
var codeExtractors = map[string]CodeExtractor{
	".py":    pythonExtractor,
	".pyi":   pythonExtractor,
	".ipynb": notebookExtractor{inner: pythonExtractor},
	".js":    javascriptExtractor,
	".mjs":   javascriptExtractor,
	".cjs":   javascriptExtractor,
	".jsx":   javascriptExtractor,
	".ts":    typescriptExtractor,
	".tsx":   tsxExtractor,
	".go":    goExtractor{},
}

// CodeExtractorFor returns the extractor registered for the file's
// extension.
func CodeExtractorFor(p string) (CodeExtractor, bool) {
	ex, ok := codeExtractors[strings.ToLower(path.Ext(p))]
	return ex, ok
}

// BuildCodeFile extracts a CodeFile from source text. Files in languages
// without an extractor yield a CodeFile with no entities.
func BuildCodeFile(relPath string, src []byte) (types.CodeFile, error) {
	cf := types.CodeFile{
		Path:     relPath,
		Language: types.LanguageFromPath(relPath),
	}
	ex, ok := CodeExtractorFor(relPath)
	if !ok {
		return cf, nil
	}

	defs, err := ex.Definitions(src)
	if err != nil {
		return cf, err
	}
	for _, d := range defs {
		cf.Entities = append(cf.Entities, types.CodeEntity{
			Name:      d.Name,
			Type:      d.Kind,
			Location:  types.Location{File: relPath, Line: d.Line, EndLine: d.EndLine},
			Parent:    d.Parent,
			Signature: d.Signature,
		})
		if d.Doc == "" {
			continue
		}
		if cf.Docstrings == nil {
			cf.Docstrings = make(map[string]string)
		}
		if _, seen := cf.Docstrings[d.Name]; !seen {
			cf.Docstrings[d.Name] = d.Doc
		}
	}
	cf.Imports = ex.ExtractImports(src)
	return cf, nil
}

// namesOf returns the names of definitions whose kind is in kinds, in
// source order and without duplicates.
func namesOf(defs []Definition, kinds ...types.EntityType) []string {
	seen := make(map[string]bool)
	var names []string
	for _, d := range defs {
		match := false
		for _, k := range kinds {
			if d.Kind == k {
				match = true
				break
			}
		}
		if match && !seen[d.Name] {
			seen[d.Name] = true
			names = append(names, d.Name)
		}
	}
	return names
}

// uniqueSorted returns the distinct non-empty values of s in sorted order.
func uniqueSorted(s []string) []string {
	set := make(map[string]bool, len(s))
	out := make([]string, 0, len(s))
	for _, v := range s {
		if v == "" || set[v] {
			continue
		}
		set[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// collapse joins the whitespace-separated fields of s with single spaces
// and bounds the result length.
func collapse(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= maxSignatureLen {
		return s
	}
	cut := maxSignatureLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
