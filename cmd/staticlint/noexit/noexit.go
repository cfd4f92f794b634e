// Package noexit содержит анализатор, запрещающий прямой вызов os.Exit
// в функции main пакета main: завершение должно проходить через остановку сервера.
package noexit

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/types/typeutil"
)

// Analyzer запрещает os.Exit в main.main, в том числе при импорте os под другим именем.
var Analyzer = &analysis.Analyzer{
	Name: "noexit",
	Doc:  "запрещает прямой вызов os.Exit в функции main пакета main",
	Run:  run,
}

func run(pass *analysis.Pass) (any, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil || fn.Name.Name != "main" || fn.Body == nil {
				continue
			}
			ast.Inspect(fn.Body, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				if callee, ok := typeutil.Callee(pass.TypesInfo, call).(*types.Func); ok && callee.FullName() == "os.Exit" {
					pass.Reportf(call.Pos(), "вызов os.Exit в функции main запрещён")
				}
				return true
			})
		}
	}
	return nil, nil
}
