package driven

import (
	"context"

	"github.com/ericfisherdev/prdeck/internal/diffview"
)

// RenderOptions selects the presentation a renderer should produce.
type RenderOptions struct {
	SideBySide  bool
	LineNumbers bool
	Width       int // Terminal columns available to the diff pane.
}

// DiffRenderer turns a file's parsed rows into styled terminal lines,
// exactly one output line per row in row order. Rendering never feeds
// failures into session state: on any error, or when the output line count
// does not match the row count, the caller falls back to the built-in
// renderer.
type DiffRenderer interface {
	Render(ctx context.Context, file *diffview.File, opts RenderOptions) ([]string, error)

	// Available reports whether the renderer can run at all; external
	// renderer binaries may be missing from PATH.
	Available() bool
}
