// Package rules contains the built-in checks. Each rule is a leaf
// implementing the flat rule contract; registration order is the order
// below.
package rules

import (
	"swiftlens/internal/engine"
	"swiftlens/internal/source"
)

// RegisterBuiltin installs every built-in rule into the engine.
func RegisterBuiltin(e *engine.Engine) {
	e.Register(&forceUnwrap{})
	e.Register(&forceTry{})
	e.Register(&weakDelegate{})
	e.Register(&retainCycleCapture{})
	e.Register(&sendableConformance{})
	e.Register(&actorIsolation{})
	e.Register(&sharedMutableState{})
	e.Register(&dependencyCycle{})
	e.Register(&deadCode{})
	e.Register(&typeBodyLength{})
	e.Register(&deepNesting{})
	e.Register(&hardcodedSecret{})
	e.Register(&printStatement{})
	e.Register(&emptyTest{})
}

// isComment reports whether a trimmed line is comment-only.
func isComment(trimmed string) bool {
	return len(trimmed) >= 2 && trimmed[0] == '/' && (trimmed[1] == '/' || trimmed[1] == '*')
}

// lineLocation points at a 1-based line/column in a file.
func lineLocation(f *source.SourceFile, line, col int) source.Location {
	return source.Location{File: f.Path(), Line: line, Column: col}
}
