// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the value types shared across docdrift packages:
// code entities, documentation references, and the analysis result.
package types

import (
	"fmt"
	"path"
	"strings"
)

// EntityType identifies the category of a code entity.
type EntityType int

const (
	EntityFunction EntityType = iota // Free function
	EntityClass                      // Class, struct, or interface
	EntityMethod                     // Function bound to a class or receiver
	EntityOther                      // Anything else worth tracking
)

var entityTypeNames = [...]string{"function", "class", "method", "other"}

// String returns the lower-case name of the entity type.
func (t EntityType) String() string {
	if t < 0 || int(t) >= len(entityTypeNames) {
		return "other"
	}
	return entityTypeNames[t]
}

// MarshalText encodes the entity type as its name.
func (t EntityType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText decodes an entity type name.
func (t *EntityType) UnmarshalText(b []byte) error {
	i, err := lookupName(entityTypeNames[:], string(b))
	if err != nil {
		return fmt.Errorf("entity type: %w", err)
	}
	*t = EntityType(i)
	return nil
}

// ReferenceType identifies how a documentation reference was written.
type ReferenceType int

const (
	RefInlineCode      ReferenceType = iota // `name` in prose
	RefCodeBlockSymbol                      // Identifier used inside a fenced example
	RefLink                                 // Inline code used as link text
	RefHeaderMention                        // Inline code inside a header
)

var referenceTypeNames = [...]string{"inline_code", "code_block_symbol", "link", "header_mention"}

// String returns the snake_case name of the reference type.
func (t ReferenceType) String() string {
	if t < 0 || int(t) >= len(referenceTypeNames) {
		return "unknown"
	}
	return referenceTypeNames[t]
}

// MarshalText encodes the reference type as its name.
func (t ReferenceType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText decodes a reference type name.
func (t *ReferenceType) UnmarshalText(b []byte) error {
	i, err := lookupName(referenceTypeNames[:], string(b))
	if err != nil {
		return fmt.Errorf("reference type: %w", err)
	}
	*t = ReferenceType(i)
	return nil
}

// Evaluated reports whether a reference of this type is expected to name a
// code entity. Only evaluated references can be broken.
func (t ReferenceType) Evaluated() bool {
	return t == RefInlineCode || t == RefCodeBlockSymbol
}

// Language is the programming language of a code file.
type Language int

const (
	LangOther Language = iota
	LangPython
	LangJavaScript
	LangTypeScript
	LangGo
)

var languageNames = [...]string{"other", "python", "javascript", "typescript", "go"}

func (l Language) String() string {
	if l < 0 || int(l) >= len(languageNames) {
		return "other"
	}
	return languageNames[l]
}

// MarshalText encodes the language as its name.
func (l Language) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText decodes a language name.
func (l *Language) UnmarshalText(b []byte) error {
	i, err := lookupName(languageNames[:], string(b))
	if err != nil {
		return fmt.Errorf("language: %w", err)
	}
	*l = Language(i)
	return nil
}

// DocFormat is the markup format of a documentation file.
type DocFormat int

const (
	FormatPlain DocFormat = iota
	FormatMarkdown
	FormatRST
	FormatAsciiDoc
)

var docFormatNames = [...]string{"plain", "markdown", "restructuredtext", "asciidoc"}

func (f DocFormat) String() string {
	if f < 0 || int(f) >= len(docFormatNames) {
		return "plain"
	}
	return docFormatNames[f]
}

// MarshalText encodes the format as its name.
func (f DocFormat) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText decodes a format name.
func (f *DocFormat) UnmarshalText(b []byte) error {
	i, err := lookupName(docFormatNames[:], string(b))
	if err != nil {
		return fmt.Errorf("doc format: %w", err)
	}
	*f = DocFormat(i)
	return nil
}

func lookupName(names []string, s string) (int, error) {
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown value %q", s)
}

// languageByExt maps lower-case file extensions to languages. Extensions not
// listed here are LangOther.
var languageByExt = map[string]Language{
	".py":    LangPython,
	".pyi":   LangPython,
	".ipynb": LangPython,
	".js":    LangJavaScript,
	".mjs":   LangJavaScript,
	".cjs":   LangJavaScript,
	".jsx":   LangJavaScript,
	".ts":    LangTypeScript,
	".tsx":   LangTypeScript,
	".go":    LangGo,
}

// docFormatByExt maps lower-case documentation extensions to formats.
var docFormatByExt = map[string]DocFormat{
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".rst":      FormatRST,
	".adoc":     FormatAsciiDoc,
	".asciidoc": FormatAsciiDoc,
	".txt":      FormatPlain,
}

// LanguageFromPath returns the language for a file path based on its
// extension.
func LanguageFromPath(p string) Language {
	return languageByExt[strings.ToLower(path.Ext(p))]
}

// DocFormatFromPath returns the documentation format for a file path.
// Unknown extensions are FormatPlain.
func DocFormatFromPath(p string) DocFormat {
	return docFormatByExt[strings.ToLower(path.Ext(p))]
}

// IsDocPath reports whether the path has a recognised documentation extension.
func IsDocPath(p string) bool {
	_, ok := docFormatByExt[strings.ToLower(path.Ext(p))]
	return ok
}

// IsCodePath reports whether the path has a recognised code extension.
func IsCodePath(p string) bool {
	_, ok := languageByExt[strings.ToLower(path.Ext(p))]
	return ok
}
