package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/zippy-link/zippy/cmd/linter/analyzer"
)

func main() {
	singlechecker.Main(analyzer.Analyzer)
}
