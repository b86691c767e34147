// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/petar-djukic/docdrift/pkg/types"
)

// defaultBlockLanguage is recorded for code blocks without a language tag.
const defaultBlockLanguage = "text"

// minSymbolLength drops short identifiers found in code examples; they are
// mostly loop variables and abbreviations.
const minSymbolLength = 3

// InlineCode is a span of inline code in documentation.
type InlineCode struct {
	Text string // Raw span content
	Line int    // 1-based line
}

// DocExtractor pulls structure out of one documentation format.
type DocExtractor interface {
	Headers(content string) []types.Header
	CodeBlocks(content string) []types.CodeBlock
	InlineCode(content string) []InlineCode
	Links(content string) []types.Link
}

var docExtractors = map[types.DocFormat]DocExtractor{
	types.FormatMarkdown: markdownExtractor{},
	types.FormatRST:      rstExtractor{},
	types.FormatAsciiDoc: asciidocExtractor{},
}

// DocExtractorFor returns the extractor for a documentation format. Plain
// text has none.
func DocExtractorFor(f types.DocFormat) (DocExtractor, bool) {
	ex, ok := docExtractors[f]
	return ex, ok
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// BuildDocFile extracts a DocFile and its references from documentation
// text. Inline code on a header line is a header mention, inline code inside
// link text is a link reference, and identifiers used in fenced python or
// javascript examples are code block symbols. Only identifier-shaped text
// becomes a reference.
func BuildDocFile(relPath, content string) types.DocFile {
	df := types.DocFile{
		Path:       relPath,
		Format:     types.DocFormatFromPath(relPath),
		Headers:    []types.Header{},
		CodeBlocks: []types.CodeBlock{},
		References: []types.DocReference{},
		Links:      []types.Link{},
	}
	ex, ok := DocExtractorFor(df.Format)
	if !ok {
		return df
	}

	df.Headers = orEmpty(ex.Headers(content))
	df.CodeBlocks = orEmpty(ex.CodeBlocks(content))
	df.Links = orEmpty(ex.Links(content))

	inBlock := blockLines(df.CodeBlocks)
	headerLines := make(map[int]bool, len(df.Headers))
	for _, h := range df.Headers {
		headerLines[h.Line] = true
	}
	linksByLine := make(map[int][]types.Link)
	for _, l := range df.Links {
		linksByLine[l.Line] = append(linksByLine[l.Line], l)
	}

	add := func(text string, kind types.ReferenceType, line int) {
		df.References = append(df.References, types.DocReference{
			Text:     text,
			Type:     kind,
			Location: types.Location{File: relPath, Line: line},
		})
	}

	for _, ic := range ex.InlineCode(content) {
		if inBlock[ic.Line] {
			continue
		}
		text := types.CleanReferenceText(ic.Text)
		if !identifierRe.MatchString(text) {
			continue
		}
		kind := types.RefInlineCode
		switch {
		case headerLines[ic.Line]:
			kind = types.RefHeaderMention
		case inLinkText(linksByLine[ic.Line], ic.Text):
			kind = types.RefLink
		}
		add(text, kind, ic.Line)
	}

	for _, b := range df.CodeBlocks {
		for _, s := range CodeBlockSymbols(b) {
			add(s.Name, types.RefCodeBlockSymbol, s.Line)
		}
	}

	sort.SliceStable(df.References, func(i, j int) bool {
		return df.References[i].Location.Line < df.References[j].Location.Line
	})
	return df
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func inLinkText(links []types.Link, raw string) bool {
	for _, l := range links {
		if strings.Contains(l.Text, raw) {
			return true
		}
	}
	return false
}

// blockLines marks every line from a block's opening fence to its closing
// fence.
func blockLines(blocks []types.CodeBlock) map[int]bool {
	lines := make(map[int]bool)
	for _, b := range blocks {
		for l := b.StartLine; l <= b.EndLine; l++ {
			lines[l] = true
		}
	}
	return lines
}

// Symbol is an identifier found in a code example.
type Symbol struct {
	Name string
	Line int
}

var (
	pyFromImportRe = regexp.MustCompile(`^\s*from\s+[\w.]+\s+import\s+([^#]+)`)
	pyImportRe     = regexp.MustCompile(`^\s*import\s+([\w.]+)`)
	jsImportRe     = regexp.MustCompile(`import\s*\{([^}]+)\}`)
	callRe         = regexp.MustCompile(`\b([A-Za-z_]\w*)\s*\(`)
	pascalRe       = regexp.MustCompile(`\b([A-Z][A-Za-z0-9_]*)\b`)
	wordRe         = regexp.MustCompile(`\w+`)
)

var pythonBlockTags = map[string]bool{"python": true, "py": true, "python3": true, "pycon": true}

var jsBlockTags = map[string]bool{
	"javascript": true, "js": true, "jsx": true,
	"typescript": true, "ts": true, "tsx": true,
}

// CodeBlockSymbols returns the likely entity names used in a python or
// javascript example, each reported once at the line of its first use.
// Blocks in other languages yield nothing.
func CodeBlockSymbols(b types.CodeBlock) []Symbol {
	lang := strings.ToLower(b.Language)
	isPy, isJS := pythonBlockTags[lang], jsBlockTags[lang]
	if !isPy && !isJS {
		return nil
	}

	seen := make(map[string]bool)
	var out []Symbol
	emit := func(name string, line int) {
		if len(name) < minSymbolLength || seen[name] {
			return
		}
		if isPy && (pythonFilter[name] || pythonCommonTypes[name]) {
			return
		}
		if isJS && jsFilter[name] {
			return
		}
		seen[name] = true
		out = append(out, Symbol{Name: name, Line: line})
	}

	for i, line := range strings.Split(b.Code, "\n") {
		lineNo := b.StartLine + 1 + i
		if isPy {
			if j := strings.IndexByte(line, '#'); j >= 0 {
				line = line[:j]
			}
			if m := pyFromImportRe.FindStringSubmatch(line); m != nil {
				for _, w := range wordRe.FindAllString(m[1], -1) {
					emit(w, lineNo)
				}
			}
			if m := pyImportRe.FindStringSubmatch(line); m != nil {
				parts := strings.Split(m[1], ".")
				emit(parts[len(parts)-1], lineNo)
			}
			for _, m := range callRe.FindAllStringSubmatch(line, -1) {
				emit(m[1], lineNo)
			}
			for _, m := range pascalRe.FindAllStringSubmatch(line, -1) {
				emit(m[1], lineNo)
			}
			continue
		}
		if j := strings.Index(line, "//"); j >= 0 {
			line = line[:j]
		}
		for _, m := range jsImportRe.FindAllStringSubmatch(line, -1) {
			for _, w := range wordRe.FindAllString(m[1], -1) {
				emit(w, lineNo)
			}
		}
		for _, m := range callRe.FindAllStringSubmatch(line, -1) {
			emit(m[1], lineNo)
		}
	}
	return out
}

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

var pythonFilter = wordSet(
	// builtins
	"print", "len", "str", "int", "float", "bool", "list", "dict", "set",
	"tuple", "range", "open", "type", "isinstance", "issubclass", "hasattr",
	"getattr", "setattr", "delattr", "callable", "iter", "next", "enumerate",
	"zip", "map", "filter", "sorted", "reversed", "sum", "min", "max", "abs",
	"round", "pow", "divmod", "hex", "oct", "bin", "ord", "chr", "repr",
	"hash", "id", "dir", "vars", "globals", "locals", "input", "format",
	"slice", "object", "super", "property", "classmethod", "staticmethod",
	// keywords
	"if", "else", "elif", "for", "while", "try", "except", "finally",
	"with", "as", "def", "class", "return", "yield", "raise", "import",
	"from", "pass", "break", "continue", "and", "or", "not", "in", "is",
	"lambda", "global", "nonlocal", "assert", "async", "await", "del",
)

var pythonCommonTypes = wordSet(
	"True", "False", "None", "Optional", "List", "Dict", "Set", "Tuple",
	"Union", "Any", "Callable", "Type", "Sequence", "Mapping", "Iterable",
	"Iterator", "Generator", "Path", "Self",
)

var jsFilter = wordSet(
	"console", "log", "warn", "error", "require", "module", "exports",
	"async", "await", "function", "const", "let", "var", "return",
	"if", "else", "for", "while", "try", "catch", "finally", "throw",
	"new", "this", "class", "extends", "import", "export", "default",
	"true", "false", "null", "undefined", "typeof", "instanceof",
	"Array", "Object", "String", "Number", "Boolean", "Promise",
	"Map", "Set", "Date", "JSON", "Math", "Error", "RegExp", "switch",
)
