// Package main запускает multichecker проекта.
//
// Он включает:
//   - анализаторы go/analysis/passes, важные для HTTP-кода: httpresponse, lostcancel,
//     errorsas, shadow, structtag, nilness, printf
//   - все SA-анализаторы staticcheck
//   - S1000 и U1000 из staticcheck
//   - bodyclose: незакрытые тела ответов http.Client
//   - noexit: запрет прямого os.Exit в main.main
//
// Запуск:
//
//	go run ./cmd/staticlint ./...
package main

import (
	"strings"

	"github.com/timakin/bodyclose/passes/bodyclose"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"honnef.co/go/tools/staticcheck"

	"github.com/Totarae/TimestampRelay/cmd/staticlint/noexit"
)

func main() {
	multichecker.Main(analyzers()...)
}

func analyzers() []*analysis.Analyzer {
	list := []*analysis.Analyzer{
		errorsas.Analyzer,
		httpresponse.Analyzer,
		lostcancel.Analyzer,
		nilness.Analyzer,
		printf.Analyzer,
		shadow.Analyzer,
		structtag.Analyzer,
	}

	for _, a := range staticcheck.Analyzers {
		name := a.Analyzer.Name
		if strings.HasPrefix(name, "SA") || name == "S1000" || name == "U1000" {
			list = append(list, a.Analyzer)
		}
	}

	return append(list, bodyclose.Analyzer, noexit.Analyzer)
}
