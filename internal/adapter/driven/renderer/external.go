package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ericfisherdev/prdeck/internal/diffview"
	"github.com/ericfisherdev/prdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DiffRenderer = (*External)(nil)

var errLineCount = errors.New("renderer changed the line count")

// External filters canonical patch text through a structure-preserving
// renderer subprocess. Output that does not keep one line per input line is
// rejected, so cursor addressing in the diff pane stays correct and the
// caller can fall back to the builtin.
type External struct {
	name string
	args []string
}

// NewExternal resolves a configured renderer name to its invocation. Known
// tools get the flags that force plain line-for-line output; anything else
// is run bare and must behave as a stdin filter.
func NewExternal(name string) *External {
	switch name {
	case "delta":
		return &External{name: name, args: []string{"--color-only", "--paging=never"}}
	case "bat":
		return &External{name: name, args: []string{"--color=always", "--plain", "--language=diff"}}
	default:
		return &External{name: name}
	}
}

// Available reports whether the renderer binary exists and answers a
// version probe. The probe is bounded so a wedged binary cannot stall
// startup.
func (e *External) Available() bool {
	if _, err := exec.LookPath(e.name); err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return exec.CommandContext(ctx, e.name, "--version").Run() == nil
}

// Render feeds the file's reconstructed patch through the subprocess and
// maps the styled output back onto rows. Hunk header echoes are dropped;
// the view draws its own banners. Preamble rows never reach the subprocess
// and are styled locally. Layout options only apply to the builtin
// renderer.
func (e *External) Render(ctx context.Context, file *diffview.File, _ driven.RenderOptions) ([]string, error) {
	input := file.Unified()

	var rendered []string
	if input != "" {
		cmd := exec.CommandContext(ctx, e.name, e.args...)
		cmd.Stdin = strings.NewReader(input)

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			msg := strings.TrimSpace(stderr.String())
			if msg != "" {
				return nil, fmt.Errorf("%s: %w: %s", e.name, err, msg)
			}
			return nil, fmt.Errorf("%s: %w", e.name, err)
		}
		rendered = splitLines(stdout.String())
	}

	return alignOutput(file, rendered)
}

// alignOutput walks the row table and the subprocess output in lockstep.
// The expected shape is one output line per hunk header plus one per diff
// row; anything else fails the line-count guard.
func alignOutput(file *diffview.File, rendered []string) ([]string, error) {
	out := make([]string, 0, file.Len())
	idx := 0
	lastHunk := -1

	take := func() (string, bool) {
		if idx >= len(rendered) {
			return "", false
		}
		line := rendered[idx]
		idx++
		return line, true
	}

	for _, row := range file.Lines() {
		if row.Hunk < 0 {
			out = append(out, structStyle.Render(row.Text))
			continue
		}

		if row.Hunk != lastHunk {
			if _, ok := take(); !ok {
				return nil, errLineCount
			}
			lastHunk = row.Hunk
		}

		line, ok := take()
		if !ok {
			return nil, errLineCount
		}
		out = append(out, line)
	}

	if idx != len(rendered) {
		return nil, errLineCount
	}
	return out, nil
}
