package model

import "fmt"

// Side identifies which version of a file a line number refers to.
type Side string

const (
	SideOld Side = "old" // Pre-change content (LEFT in the review API).
	SideNew Side = "new" // Post-change content (RIGHT in the review API).
)

// LineKind classifies one row of a parsed unified diff.
type LineKind int

const (
	// LineStructural rows are file headers and other preamble before the
	// first hunk. They carry no line numbers and cannot hold comments.
	LineStructural LineKind = iota
	LineContext
	LineAddition
	LineDeletion
)

// Marker returns the leading marker character the row had in the raw diff.
func (k LineKind) Marker() string {
	switch k {
	case LineAddition:
		return "+"
	case LineDeletion:
		return "-"
	case LineContext:
		return " "
	default:
		return ""
	}
}

// DiffLine is one row of a parsed diff. Exactly one of OldLine/NewLine is
// set for additions and deletions, both for context rows, neither for
// structural rows. Built once per file at load time and read-only after.
type DiffLine struct {
	Kind    LineKind
	OldLine *int
	NewLine *int
	Text    string // Row content without the leading marker.
	Hunk    int    // Index into the file's hunk table; -1 for structural rows.
}

// Anchor builds the comment anchor for this row within the given file. The
// new side wins when both numbers are populated; pure deletions anchor to
// the old side. ok is false for structural rows, which cannot carry
// comments.
func (l DiffLine) Anchor(path string) (LineAnchor, bool) {
	switch {
	case l.NewLine != nil:
		return LineAnchor{Path: path, Side: SideNew, Line: *l.NewLine}, true
	case l.OldLine != nil:
		return LineAnchor{Path: path, Side: SideOld, Line: *l.OldLine}, true
	default:
		return LineAnchor{}, false
	}
}

// LineAnchor is the (file, side, line) triple a comment attaches to.
type LineAnchor struct {
	Path string
	Side Side
	Line int
}

// String renders the anchor for status messages and logs.
func (a LineAnchor) String() string {
	return fmt.Sprintf("%s:%d(%s)", a.Path, a.Line, a.Side)
}
