// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"go/ast"
	"go/parser"
	"go/token"
	gotypes "go/types"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/petar-djukic/docdrift/pkg/types"
)

// goExtractor reads Go sources with go/parser. Functions are FUNCTION,
// methods are METHOD with the receiver type as parent, and every named type
// is CLASS. Package-level vars and consts are not tracked.
type goExtractor struct{}

func (goExtractor) parse(src []byte) (*token.FileSet, *ast.File, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", src, parser.ParseComments|parser.SkipObjectResolution)
	if f == nil {
		return nil, nil, err
	}
	// A partial AST is still useful; syntax errors only drop what follows.
	return fset, f, nil
}

func (g goExtractor) Definitions(src []byte) ([]Definition, error) {
	fset, f, err := g.parse(src)
	if err != nil {
		return nil, err
	}

	var defs []Definition
	insp := inspector.New([]*ast.File{f})
	filter := []ast.Node{(*ast.FuncDecl)(nil), (*ast.GenDecl)(nil)}
	// Only top-level declarations count; local types inside bodies are skipped.
	insp.Nodes(filter, func(n ast.Node, push bool) bool {
		if !push {
			return false
		}
		switch d := n.(type) {
		case *ast.FuncDecl:
			defs = append(defs, goFuncDefinition(fset, src, d))
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				return false
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				defs = append(defs, goTypeDefinition(fset, src, d, ts))
			}
		}
		return false
	})
	return defs, nil
}

func goFuncDefinition(fset *token.FileSet, src []byte, fn *ast.FuncDecl) Definition {
	d := Definition{
		Name:    fn.Name.Name,
		Kind:    types.EntityFunction,
		Line:    fset.Position(fn.Pos()).Line,
		EndLine: fset.Position(fn.End()).Line,
		Doc:     docText(fn.Doc),
	}
	if fn.Recv != nil && len(fn.Recv.List) > 0 {
		d.Kind = types.EntityMethod
		d.Parent = receiverName(fn.Recv.List[0].Type)
	}

	var sig strings.Builder
	sig.WriteString("func ")
	if d.Parent != "" {
		sig.WriteString("(" + gotypes.ExprString(fn.Recv.List[0].Type) + ") ")
	}
	sig.WriteString(fn.Name.Name)
	sig.WriteString(strings.TrimPrefix(gotypes.ExprString(fn.Type), "func"))
	d.Signature = collapse(sig.String())

	if fn.Body != nil {
		d.BodyHash = xxhash.Sum64(nodeBytes(fset, src, fn.Body))
	}
	return d
}

func goTypeDefinition(fset *token.FileSet, src []byte, gd *ast.GenDecl, ts *ast.TypeSpec) Definition {
	doc := docText(ts.Doc)
	if doc == "" && len(gd.Specs) == 1 {
		doc = docText(gd.Doc)
	}
	kind := "type"
	switch ts.Type.(type) {
	case *ast.StructType:
		kind = "struct"
	case *ast.InterfaceType:
		kind = "interface"
	}
	return Definition{
		Name:      ts.Name.Name,
		Kind:      types.EntityClass,
		Line:      fset.Position(ts.Pos()).Line,
		EndLine:   fset.Position(ts.End()).Line,
		Signature: "type " + ts.Name.Name + " " + kind,
		Doc:       doc,
		BodyHash:  xxhash.Sum64(nodeBytes(fset, src, ts.Type)),
	}
}

// receiverName strips pointers and type parameters from a receiver type.
func receiverName(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name
		default:
			return gotypes.ExprString(expr)
		}
	}
}

func nodeBytes(fset *token.FileSet, src []byte, n ast.Node) []byte {
	start, end := fset.Position(n.Pos()).Offset, fset.Position(n.End()).Offset
	if start < 0 || end > len(src) || start > end {
		return nil
	}
	return src[start:end]
}

func docText(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	return strings.TrimSpace(cg.Text())
}

func (g goExtractor) ExtractFunctionNames(src []byte) []string {
	defs, err := g.Definitions(src)
	if err != nil {
		return nil
	}
	return namesOf(defs, types.EntityFunction, types.EntityMethod)
}

func (g goExtractor) ExtractClassNames(src []byte) []string {
	defs, err := g.Definitions(src)
	if err != nil {
		return nil
	}
	return namesOf(defs, types.EntityClass)
}

func (g goExtractor) ExtractImports(src []byte) []string {
	_, f, err := g.parse(src)
	if err != nil {
		return nil
	}
	var mods []string
	for _, imp := range f.Imports {
		if p, err := strconv.Unquote(imp.Path.Value); err == nil {
			mods = append(mods, p)
		}
	}
	return uniqueSorted(mods)
}
