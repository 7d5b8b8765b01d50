// Package exitcheck defines an analyzer that reports direct os.Exit calls
// in the main function of package main. Exit codes belong at the top of
// main where every deferred cleanup has already run.
package exitcheck

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

// Analyzer is the exitcheck analyzer.
var Analyzer = &analysis.Analyzer{
	Name: "exitcheck",
	Doc:  "reports direct os.Exit calls in main.main",
	Run:  run,
}

func run(pass *analysis.Pass) (any, error) {
	if pass.Pkg == nil || pass.Pkg.Name() != "main" {
		return nil, nil
	}
	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv != nil || fd.Name == nil || fd.Name.Name != "main" || fd.Body == nil {
				continue
			}
			ast.Inspect(fd.Body, func(n ast.Node) bool {
				switch x := n.(type) {
				case *ast.FuncLit:
					return false
				case *ast.CallExpr:
					if isOsExit(pass, x) {
						pass.Reportf(x.Pos(), "do not call os.Exit directly in main; return through log.Fatal or a run helper")
					}
				}
				return true
			})
		}
	}
	return nil, nil
}

func isOsExit(pass *analysis.Pass, call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel == nil || sel.Sel.Name != "Exit" {
		return false
	}
	ident, ok := sel.X.(*ast.Ident)
	if !ok {
		return false
	}
	obj, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
	return ok && obj.Imported().Path() == "os"
}
