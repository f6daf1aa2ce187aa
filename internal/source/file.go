package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/swift"
)

// SourceFile is an immutable handle to one parsed input file. It is built
// once before analysis begins; rules only ever read it.
type SourceFile struct {
	path         string
	module       string
	src          []byte
	lines        []string
	tree         *sitter.Tree
	symbols      []Symbol
	suppressions *SuppressionTracker
}

// ParseFile reads and parses a file from disk.
func ParseFile(path string) (*SourceFile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return NewSourceFile(path, src)
}

// NewSourceFile parses the given source text and extracts its symbols and
// suppression index. The module name is derived from the enclosing directory.
func NewSourceFile(path string, src []byte) (*SourceFile, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(swift.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}

	f := &SourceFile{
		path:   path,
		module: moduleName(path),
		src:    src,
		lines:  strings.Split(string(src), "\n"),
		tree:   tree,
	}
	f.suppressions = buildSuppressions(f.lines)
	f.symbols = extractSymbols(f)
	return f, nil
}

func moduleName(path string) string {
	dir := filepath.Base(filepath.Dir(path))
	if dir == "." || dir == string(filepath.Separator) || dir == "" {
		return "_"
	}
	return dir
}

func (f *SourceFile) Path() string   { return f.path }
func (f *SourceFile) Module() string { return f.module }

// Source returns the full file text.
func (f *SourceFile) Source() string { return string(f.src) }

// Bytes returns the raw source, shared with the parse tree. Callers must
// not modify it.
func (f *SourceFile) Bytes() []byte { return f.src }

// Lines returns the file split on newlines. The slice is shared; treat it
// as read-only.
func (f *SourceFile) Lines() []string { return f.lines }

// Tree returns the parsed syntax tree.
func (f *SourceFile) Tree() *sitter.Tree { return f.tree }

// Symbols returns the declarations extracted at construction time.
func (f *SourceFile) Symbols() []Symbol { return f.symbols }

// Suppressions returns the per-line suppression index.
func (f *SourceFile) Suppressions() *SuppressionTracker { return f.suppressions }

// Location converts a position into a file-tagged location.
func (f *SourceFile) Location(pos Position) Location {
	return Location{File: f.path, Line: pos.Line, Column: pos.Column}
}

// LocationOf returns the start location of a syntax node.
func (f *SourceFile) LocationOf(node *sitter.Node) Location {
	if node == nil {
		return Location{File: f.path}
	}
	return Location{
		File:   f.path,
		Line:   int(node.StartPoint().Row) + 1,
		Column: int(node.StartPoint().Column) + 1,
	}
}

// RangeOf returns the half-open source range covered by a syntax node.
func (f *SourceFile) RangeOf(node *sitter.Node) SourceRange {
	if node == nil {
		return SourceRange{}
	}
	return SourceRange{
		Start: Position{Line: int(node.StartPoint().Row) + 1, Column: int(node.StartPoint().Column) + 1},
		End:   Position{Line: int(node.EndPoint().Row) + 1, Column: int(node.EndPoint().Column) + 1},
	}
}

// LocationOfFunction returns the declaration site of the first function
// with the given name, if any.
func (f *SourceFile) LocationOfFunction(name string) (Location, bool) {
	for _, s := range f.symbols {
		if s.Kind == KindFunction && s.Name == name {
			return s.Location, true
		}
	}
	return Location{}, false
}

// SymbolsOfKind filters the extracted symbols by kind.
func (f *SourceFile) SymbolsOfKind(kind SymbolKind) []Symbol {
	var out []Symbol
	for _, s := range f.symbols {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// Line returns the text of a 1-based line, or "" when out of range.
func (f *SourceFile) Line(n int) string {
	if n < 1 || n > len(f.lines) {
		return ""
	}
	return f.lines[n-1]
}

// IsTestFile reports whether the file looks like test code.
func (f *SourceFile) IsTestFile() bool {
	base := filepath.Base(f.path)
	return strings.HasSuffix(base, "Tests.swift") ||
		strings.HasSuffix(base, "Test.swift") ||
		strings.Contains(filepath.ToSlash(f.path), "/Tests/")
}
