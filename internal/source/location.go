package source

import "fmt"

// Position is a 1-based line/column pair inside a single file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Location is a position tagged with the file it belongs to.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// SourceRange is a half-open span [Start, End) over a file's text.
type SourceRange struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Before reports whether a orders strictly before b.
func (a Position) Before(b Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

// Overlaps reports whether two half-open ranges share at least one position.
func (r SourceRange) Overlaps(o SourceRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// RangeAt builds a single-line range covering [col, col+length).
func RangeAt(line, col, length int) SourceRange {
	return SourceRange{
		Start: Position{Line: line, Column: col},
		End:   Position{Line: line, Column: col + length},
	}
}
