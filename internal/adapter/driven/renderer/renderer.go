// Package renderer turns parsed diffs into styled terminal lines, either
// with the builtin highlighter or by filtering through an external tool
// such as delta.
package renderer

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"

	"github.com/ericfisherdev/prdeck/internal/diffview"
	"github.com/ericfisherdev/prdeck/internal/domain/port/driven"
)

var (
	addStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	delStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	structStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	gutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Compile-time interface satisfaction check.
var _ driven.DiffRenderer = (*Stack)(nil)

// Stack tries the preferred renderer first and falls back to the builtin
// when it fails or mangles the output. Rendering through a Stack never
// returns an error.
type Stack struct {
	preferred driven.DiffRenderer // nil when only the builtin is wanted
	builtin   *Builtin
}

// NewStack wraps preferred with builtin fallback. preferred may be nil.
func NewStack(preferred driven.DiffRenderer) *Stack {
	return &Stack{preferred: preferred, builtin: NewBuiltin()}
}

// ForConfig builds the renderer stack for a configured renderer name.
// Unknown or unavailable external renderers degrade to the builtin with a
// log line rather than failing startup.
func ForConfig(name string) *Stack {
	name = strings.TrimSpace(name)
	if name == "" || name == "builtin" {
		return NewStack(nil)
	}

	ext := NewExternal(name)
	if !ext.Available() {
		slog.Warn("configured diff renderer unavailable; using builtin", "renderer", name)
		return NewStack(nil)
	}

	slog.Debug("using external diff renderer", "renderer", name)
	return NewStack(ext)
}

// Render styles one line per row of file.
func (s *Stack) Render(ctx context.Context, file *diffview.File, opts driven.RenderOptions) ([]string, error) {
	if s.preferred != nil {
		lines, err := s.preferred.Render(ctx, file, opts)
		if err == nil {
			return lines, nil
		}
		slog.Warn("external renderer failed; using builtin", "path", file.Path, "error", err)
	}
	return s.builtin.Render(ctx, file, opts)
}

// Available always holds: the builtin fallback needs nothing installed.
func (s *Stack) Available() bool { return true }

func lineNo(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// pad extends s with spaces to the given printable width. ANSI sequences do
// not count toward the width.
func pad(s string, width int) string {
	gap := width - ansi.PrintableRuneWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
