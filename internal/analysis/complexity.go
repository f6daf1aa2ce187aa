package analysis

import (
	"strings"

	"swiftlens/internal/source"
)

// ComplexityResult summarizes one declaration's complexity.
type ComplexityResult struct {
	Cyclomatic int
	MaxNesting int
	BodyLines  int
}

// ComplexityAnalyzer computes cheap line-based complexity metrics.
// Construct a fresh instance per call; it has no shared state.
type ComplexityAnalyzer struct{}

func NewComplexityAnalyzer() *ComplexityAnalyzer {
	return &ComplexityAnalyzer{}
}

var branchKeywords = []string{"if ", "guard ", "while ", "for ", "case ", "catch ", "??", "&&", "||"}

// Complexity measures the span of a symbol inside its file.
func (a *ComplexityAnalyzer) Complexity(f *source.SourceFile, sym source.Symbol) ComplexityResult {
	start, end := sym.Location.Line, sym.EndLine
	if end < start {
		end = start
	}

	result := ComplexityResult{Cyclomatic: 1, BodyLines: end - start + 1}
	depth := 0
	for line := start; line <= end; line++ {
		text := f.Line(line)
		trimmed := strings.TrimSpace(text)
		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		for _, kw := range branchKeywords {
			result.Cyclomatic += strings.Count(trimmed, kw)
		}
		depth += strings.Count(text, "{") - strings.Count(text, "}")
		if depth > result.MaxNesting {
			result.MaxNesting = depth
		}
	}
	return result
}
