// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/petar-djukic/docdrift/pkg/types"
)

var errNoTree = errors.New("tree-sitter returned no tree")

// Capture names used by definition patterns. @name is the identifier; the
// other capture marks the whole definition node and sets its kind.
const (
	captureName     = "name"
	captureFunction = "function"
	captureClass    = "class"
	captureMethod   = "method"
	captureImport   = "import"
)

// tsLanguage holds a tree-sitter grammar and the query patterns run against
// it. Each pattern is compiled on its own so that a pattern the grammar
// version does not understand only disables itself.
type tsLanguage struct {
	name           string
	lang           *sitter.Language
	defPatterns    []string
	importPatterns []string
	classTypes     map[string]bool // node types that make a nested function a method
	stopTypes      map[string]bool // node types that end the search for an enclosing class
	docstring      func(def *sitter.Node, src []byte) string

	once    sync.Once
	defs    []*sitter.Query
	imports []*sitter.Query
}

func (l *tsLanguage) compile() {
	l.once.Do(func() {
		l.defs = compileAll(l.defPatterns, l.lang)
		l.imports = compileAll(l.importPatterns, l.lang)
	})
}

func compileAll(patterns []string, lang *sitter.Language) []*sitter.Query {
	var qs []*sitter.Query
	for _, p := range patterns {
		q, err := sitter.NewQuery([]byte(p), lang)
		if err != nil {
			continue
		}
		qs = append(qs, q)
	}
	return qs
}

var pythonExtractor = &tsLanguage{
	name: "python",
	lang: python.GetLanguage(),
	defPatterns: []string{
		`(function_definition name: (identifier) @name) @function`,
		`(class_definition name: (identifier) @name) @class`,
	},
	importPatterns: []string{
		`(import_statement name: (dotted_name) @import)`,
		`(import_statement name: (aliased_import name: (dotted_name) @import))`,
		`(import_from_statement module_name: (dotted_name) @import)`,
		`(import_from_statement module_name: (relative_import) @import)`,
	},
	classTypes: map[string]bool{"class_definition": true},
	stopTypes:  map[string]bool{"function_definition": true},
	docstring:  pythonDocstring,
}

var jsDefPatterns = []string{
	`(function_declaration name: (identifier) @name) @function`,
	`(generator_function_declaration name: (identifier) @name) @function`,
	`(class_declaration name: (identifier) @name) @class`,
	`(method_definition name: (property_identifier) @name) @method`,
	`(variable_declarator name: (identifier) @name value: (arrow_function)) @function`,
}

var jsImportPatterns = []string{
	`(import_statement source: (string) @import)`,
	`((call_expression function: (identifier) @fn arguments: (arguments (string) @import)) (#eq? @fn "require"))`,
}

var jsClassTypes = map[string]bool{"class_declaration": true, "class": true, "abstract_class_declaration": true}

var jsStopTypes = map[string]bool{"function_declaration": true, "arrow_function": true}

var javascriptExtractor = &tsLanguage{
	name:           "javascript",
	lang:           javascript.GetLanguage(),
	defPatterns:    jsDefPatterns,
	importPatterns: jsImportPatterns,
	classTypes:     jsClassTypes,
	stopTypes:      jsStopTypes,
	docstring:      jsDocComment,
}

var tsDefPatterns = append([]string{
	`(class_declaration name: (type_identifier) @name) @class`,
	`(abstract_class_declaration name: (type_identifier) @name) @class`,
	`(interface_declaration name: (type_identifier) @name) @class`,
}, jsDefPatterns...)

var typescriptExtractor = &tsLanguage{
	name:           "typescript",
	lang:           typescript.GetLanguage(),
	defPatterns:    tsDefPatterns,
	importPatterns: jsImportPatterns,
	classTypes:     jsClassTypes,
	stopTypes:      jsStopTypes,
	docstring:      jsDocComment,
}

var tsxExtractor = &tsLanguage{
	name:           "tsx",
	lang:           tsx.GetLanguage(),
	defPatterns:    tsDefPatterns,
	importPatterns: jsImportPatterns,
	classTypes:     jsClassTypes,
	stopTypes:      jsStopTypes,
	docstring:      jsDocComment,
}

func (l *tsLanguage) parse(src []byte) (*sitter.Node, error) {
	root, err := sitter.ParseCtx(context.Background(), src, l.lang)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, errNoTree
	}
	return root, nil
}

// Definitions returns every function, class and method in source order.
func (l *tsLanguage) Definitions(src []byte) ([]Definition, error) {
	l.compile()
	root, err := l.parse(src)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint32]bool) // definition node start byte
	var defs []Definition
	var starts []uint32
	for _, q := range l.defs {
		forEachMatch(q, root, src, func(m *sitter.QueryMatch) {
			var nameNode, defNode *sitter.Node
			var kindCapture string
			for _, c := range m.Captures {
				switch cn := q.CaptureNameForId(c.Index); cn {
				case captureName:
					nameNode = c.Node
				case captureFunction, captureClass, captureMethod:
					defNode, kindCapture = c.Node, cn
				}
			}
			if nameNode == nil || defNode == nil || seen[defNode.StartByte()] {
				return
			}
			seen[defNode.StartByte()] = true
			defs = append(defs, l.definition(nameNode, defNode, kindCapture, src))
			starts = append(starts, defNode.StartByte())
		})
	}

	idx := make([]int, len(defs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return starts[idx[a]] < starts[idx[b]] })
	ordered := make([]Definition, len(defs))
	for i, j := range idx {
		ordered[i] = defs[j]
	}
	return ordered, nil
}

func (l *tsLanguage) definition(nameNode, defNode *sitter.Node, kindCapture string, src []byte) Definition {
	d := Definition{
		Name:    nameNode.Content(src),
		Kind:    types.EntityFunction,
		Line:    int(defNode.StartPoint().Row) + 1,
		EndLine: int(defNode.EndPoint().Row) + 1,
	}
	switch kindCapture {
	case captureClass:
		d.Kind = types.EntityClass
	case captureMethod:
		d.Kind = types.EntityMethod
		d.Parent, _ = l.enclosingClass(defNode, src)
	default:
		if parent, ok := l.enclosingClass(defNode, src); ok {
			d.Kind, d.Parent = types.EntityMethod, parent
		}
	}

	body := defNode.ChildByFieldName("body")
	if body != nil {
		d.Signature = collapse(string(src[defNode.StartByte():body.StartByte()]))
		d.BodyHash = xxhash.Sum64(src[body.StartByte():body.EndByte()])
	} else {
		d.Signature = collapse(firstLine(defNode.Content(src)))
		d.BodyHash = xxhash.Sum64(src[defNode.StartByte():defNode.EndByte()])
	}
	if l.docstring != nil {
		d.Doc = l.docstring(defNode, src)
	}
	return d
}

// enclosingClass walks up from a definition to the nearest class node,
// stopping at function boundaries so nested helpers are not methods.
func (l *tsLanguage) enclosingClass(n *sitter.Node, src []byte) (string, bool) {
	for p := n.Parent(); p != nil; p = p.Parent() {
		t := p.Type()
		if l.classTypes[t] {
			if name := p.ChildByFieldName("name"); name != nil {
				return name.Content(src), true
			}
			return "", true
		}
		if l.stopTypes[t] {
			return "", false
		}
	}
	return "", false
}

// ExtractFunctionNames returns function and method names in source order.
func (l *tsLanguage) ExtractFunctionNames(src []byte) []string {
	defs, err := l.Definitions(src)
	if err != nil {
		return nil
	}
	return namesOf(defs, types.EntityFunction, types.EntityMethod)
}

// ExtractClassNames returns class names in source order.
func (l *tsLanguage) ExtractClassNames(src []byte) []string {
	defs, err := l.Definitions(src)
	if err != nil {
		return nil
	}
	return namesOf(defs, types.EntityClass)
}

// ExtractImports returns the distinct imported module names, sorted.
func (l *tsLanguage) ExtractImports(src []byte) []string {
	l.compile()
	root, err := l.parse(src)
	if err != nil {
		return nil
	}
	var mods []string
	for _, q := range l.imports {
		forEachMatch(q, root, src, func(m *sitter.QueryMatch) {
			for _, c := range m.Captures {
				if q.CaptureNameForId(c.Index) == captureImport {
					mods = append(mods, strings.Trim(c.Node.Content(src), "'\"`"))
				}
			}
		})
	}
	return uniqueSorted(mods)
}

func forEachMatch(q *sitter.Query, root *sitter.Node, src []byte, fn func(*sitter.QueryMatch)) {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)
	for {
		m, ok := qc.NextMatch()
		if !ok {
			return
		}
		m = qc.FilterPredicates(m, src)
		if len(m.Captures) == 0 {
			continue
		}
		fn(m)
	}
}

// pythonDocstring returns the string literal that opens a definition body.
func pythonDocstring(def *sitter.Node, src []byte) string {
	body := def.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first == nil || first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	lit := first.NamedChild(0)
	if lit == nil || lit.Type() != "string" {
		return ""
	}
	return cleanStringLiteral(lit.Content(src))
}

func cleanStringLiteral(s string) string {
	s = strings.TrimLeft(s, "rRuUbBfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			s = s[len(q) : len(s)-len(q)]
			break
		}
	}
	return strings.TrimSpace(s)
}

// jsDocComment returns the /** ... */ block directly above a definition or
// the declaration statement that wraps it.
func jsDocComment(def *sitter.Node, src []byte) string {
	target := def
	if def.Type() == "variable_declarator" {
		for p := def.Parent(); p != nil && wrapsDeclaration[p.Type()]; p = p.Parent() {
			target = p
		}
	} else if p := def.Parent(); p != nil && p.Type() == "export_statement" {
		target = p
	}
	prev := target.PrevNamedSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	text := prev.Content(src)
	if !strings.HasPrefix(text, "/**") || prev.EndPoint().Row+1 < target.StartPoint().Row {
		return ""
	}
	text = strings.TrimSuffix(strings.TrimPrefix(text, "/**"), "*/")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

var wrapsDeclaration = map[string]bool{
	"lexical_declaration":  true,
	"variable_declaration": true,
	"export_statement":     true,
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
