package renderer

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/reflow/truncate"

	"github.com/ericfisherdev/prdeck/internal/diffview"
	"github.com/ericfisherdev/prdeck/internal/domain/model"
	"github.com/ericfisherdev/prdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DiffRenderer = (*Builtin)(nil)

const dividerWidth = 3

// Builtin renders diff rows with its own styling: additions and deletions
// tinted, context lines syntax-highlighted through chroma, optional line
// number gutters, and an optional two-column layout.
type Builtin struct{}

// NewBuiltin returns the built-in renderer.
func NewBuiltin() *Builtin { return &Builtin{} }

// Available always holds for the builtin renderer.
func (b *Builtin) Available() bool { return true }

// Render produces exactly one styled line per row of file.
func (b *Builtin) Render(_ context.Context, file *diffview.File, opts driven.RenderOptions) ([]string, error) {
	h := newHighlighter(file.Path)

	out := make([]string, 0, file.Len())
	for _, row := range file.Lines() {
		if opts.SideBySide {
			out = append(out, renderSplit(h, row, opts))
		} else {
			out = append(out, renderUnified(h, row, opts))
		}
	}
	return out, nil
}

func renderUnified(h *highlighter, row model.DiffLine, opts driven.RenderOptions) string {
	var sb strings.Builder

	if opts.LineNumbers {
		sb.WriteString(gutterStyle.Render(fmt.Sprintf("%4s %4s ", lineNo(row.OldLine), lineNo(row.NewLine))))
	}

	switch row.Kind {
	case model.LineAddition:
		sb.WriteString(addStyle.Render("+" + row.Text))
	case model.LineDeletion:
		sb.WriteString(delStyle.Render("-" + row.Text))
	case model.LineStructural:
		sb.WriteString(structStyle.Render(row.Text))
	default:
		sb.WriteString(" ")
		sb.WriteString(h.line(row.Text))
	}

	line := sb.String()
	if opts.Width > 0 {
		line = truncate.String(line, uint(opts.Width))
	}
	return line
}

// renderSplit lays one row out in two columns: old side left, new side
// right. Unpaired rows leave their counterpart column blank so the line
// count still matches the row table.
func renderSplit(h *highlighter, row model.DiffLine, opts driven.RenderOptions) string {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	col := (width - dividerWidth) / 2
	if col < 1 {
		col = 1
	}

	var left, right string
	switch row.Kind {
	case model.LineContext:
		text := h.line(row.Text)
		left = numbered(lineNo(row.OldLine), text, opts)
		right = numbered(lineNo(row.NewLine), text, opts)
	case model.LineDeletion:
		left = numbered(lineNo(row.OldLine), delStyle.Render("-"+row.Text), opts)
	case model.LineAddition:
		right = numbered(lineNo(row.NewLine), addStyle.Render("+"+row.Text), opts)
	default:
		return truncate.String(structStyle.Render(row.Text), uint(width))
	}

	return pad(truncate.String(left, uint(col)), col) + " │ " + truncate.String(right, uint(col))
}

func numbered(no, text string, opts driven.RenderOptions) string {
	if !opts.LineNumbers {
		return text
	}
	return gutterStyle.Render(fmt.Sprintf("%4s ", no)) + text
}

// highlighter styles one line at a time so row boundaries survive. Chroma
// state does not carry across lines, which is good enough for diff display.
type highlighter struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter
}

func newHighlighter(path string) *highlighter {
	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	return &highlighter{lexer: lexer, style: style, formatter: formatter}
}

func (h *highlighter) line(text string) string {
	it, err := h.lexer.Tokenise(nil, text)
	if err != nil {
		return text
	}

	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return text
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
