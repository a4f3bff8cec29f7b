// Package noosexit reports direct os.Exit calls inside the main function
// of package main. Exiting through os.Exit skips deferred cleanup, so the
// entry point is expected to log and panic instead.
package noosexit

import (
	"go/ast"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Analyzer flags calls to os.Exit in main.main.
var Analyzer = &analysis.Analyzer{
	Name: "noosexit",
	Doc:  "forbids direct calls to os.Exit in main.main",
	Run:  run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		// Synthesized files in the build cache also declare package main.
		if isGoBuildCacheFile(pass.Fset.File(file.Pos()).Name()) {
			continue
		}

		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil || fn.Name.Name != "main" {
				continue
			}

			ast.Inspect(fn.Body, func(node ast.Node) bool {
				call, ok := node.(*ast.CallExpr)
				if !ok {
					return true
				}

				if isOsExit(call.Fun) {
					pass.Reportf(call.Pos(), "avoid direct os.Exit call in main.main")
				}

				return true
			})
		}
	}

	return nil, nil
}

func isOsExit(fun ast.Expr) bool {
	sel, ok := fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Exit" {
		return false
	}

	ident, ok := sel.X.(*ast.Ident)

	return ok && ident.Name == "os"
}

func isGoBuildCacheFile(path string) bool {
	path = filepath.ToSlash(path)

	return strings.Contains(path, "/go-build/") || strings.Contains(path, `\go-build\`)
}
