package analyzer

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const (
	analyzerName = "forbiddencalls"
	analyzerDoc  = "reports usage of panic, log.Fatal and os.Exit outside main, and direct file writes outside the file storage package"
)

// Analyzer checks for forbidden function calls. Besides the usual
// panic/log.Fatal/os.Exit rules it flags direct os.WriteFile and os.Create
// calls anywhere but the file storage package, which owns all writes to
// the persisted collections.
var Analyzer = &analysis.Analyzer{
	Name:     analyzerName,
	Doc:      analyzerDoc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// storagePackage is the only package allowed to write files directly.
const storagePackage = "file"

func run(pass *analysis.Pass) (interface{}, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	insp.Preorder(nodeFilter, func(node ast.Node) {
		callExpr := node.(*ast.CallExpr)
		checkCall(pass, callExpr)
	})

	return nil, nil
}

func checkCall(pass *analysis.Pass, callExpr *ast.CallExpr) {
	switch fn := callExpr.Fun.(type) {
	case *ast.Ident:
		if fn.Name == "panic" {
			pass.Reportf(callExpr.Pos(), "panic is forbidden")
		}
	case *ast.SelectorExpr:
		checkSelectorExpr(pass, fn, callExpr)
	}
}

func checkSelectorExpr(pass *analysis.Pass, selectorExpr *ast.SelectorExpr, callExpr *ast.CallExpr) {
	if ident, ok := selectorExpr.X.(*ast.Ident); ok {
		fn := selectorExpr.Sel.Name

		if pass.TypesInfo == nil {
			return
		}

		obj := pass.TypesInfo.Uses[ident]
		if obj == nil {
			return
		}

		pkgName, ok := obj.(*types.PkgName)
		if !ok {
			return
		}

		pkgPath := pkgName.Imported().Path()

		switch {
		case pkgPath == "log" && fn == "Fatal":
			if !isInMainFunction(pass, callExpr) {
				pass.Reportf(callExpr.Pos(), "log.Fatal is forbidden outside main function")
			}
		case pkgPath == "os" && fn == "Exit":
			if !isInMainFunction(pass, callExpr) {
				pass.Reportf(callExpr.Pos(), "os.Exit is forbidden outside main function")
			}
		case pkgPath == "os" && (fn == "WriteFile" || fn == "Create"):
			if pass.Pkg.Name() != storagePackage && pass.Pkg.Name() != "main" {
				pass.Reportf(callExpr.Pos(), "os.%s is forbidden outside the file storage package", fn)
			}
		}
	}
}

func isInMainFunction(pass *analysis.Pass, node ast.Node) bool {
	for _, f := range pass.Files {
		for _, decl := range f.Decls {
			if funcDecl, ok := decl.(*ast.FuncDecl); ok {
				if funcDecl.Name.Name == "main" && isNodeInsideFunc(node, funcDecl) {
					return true
				}
			}
		}
	}
	return false
}

func isNodeInsideFunc(target ast.Node, funcDecl *ast.FuncDecl) bool {
	found := false
	ast.Inspect(funcDecl.Body, func(n ast.Node) bool {
		if n == target {
			found = true
			return false
		}
		return true
	})
	return found
}
