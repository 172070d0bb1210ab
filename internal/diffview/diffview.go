// Package diffview parses raw unified-diff text into per-file tables of
// addressable rows, the structure the review session navigates and anchors
// comments against.
package diffview

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ericfisherdev/prdeck/internal/domain/model"
)

// hunkHeaderRe matches "@@ -oldStart[,oldCount] +newStart[,newCount] @@ [section]".
var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(.*)$`)

// Hunk is one @@-delimited block of a file's diff.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Section  string // Text after the closing @@, usually the enclosing declaration.
	Header   string // Raw header line, rendered as a banner above the hunk's rows.
}

// File is the parsed, indexed diff of one changed file. Rows are built once
// by Parse and read-only afterwards. Hunk headers seed the line counters and
// fill the hunk table; they do not appear as rows themselves.
type File struct {
	Path string

	lines  []model.DiffLine
	hunks  []Hunk
	oldIdx map[int]int // old-side line number -> row index
	newIdx map[int]int // new-side line number -> row index
}

// Parse builds the row table for one file's unified-diff text: zero or more
// hunks, optionally preceded by file-header lines. An empty patch (binary
// file, rename without content changes) yields a File with no rows. A hunk
// header with unparsable numbers makes the whole file unparseable and
// returns an error.
func Parse(path, patch string) (*File, error) {
	f := &File{
		Path:   path,
		oldIdx: make(map[int]int),
		newIdx: make(map[int]int),
	}

	if strings.TrimSpace(patch) == "" {
		return f, nil
	}

	raw := strings.Split(patch, "\n")
	if n := len(raw); n > 0 && raw[n-1] == "" {
		raw = raw[:n-1] // Trailing newline, not an empty row.
	}

	var oldNext, newNext int
	inHunk := false

	for _, text := range raw {
		if strings.HasPrefix(text, "@@") {
			h, err := parseHunkHeader(text)
			if err != nil {
				return nil, err
			}
			f.hunks = append(f.hunks, h)
			oldNext, newNext = h.OldStart, h.NewStart
			inHunk = true
			continue
		}

		if !inHunk {
			f.lines = append(f.lines, model.DiffLine{Kind: model.LineStructural, Text: text, Hunk: -1})
			continue
		}

		hunk := len(f.hunks) - 1
		switch {
		case strings.HasPrefix(text, "+"):
			n := newNext
			newNext++
			f.newIdx[n] = len(f.lines)
			f.lines = append(f.lines, model.DiffLine{Kind: model.LineAddition, NewLine: &n, Text: text[1:], Hunk: hunk})
		case strings.HasPrefix(text, "-"):
			n := oldNext
			oldNext++
			f.oldIdx[n] = len(f.lines)
			f.lines = append(f.lines, model.DiffLine{Kind: model.LineDeletion, OldLine: &n, Text: text[1:], Hunk: hunk})
		case strings.HasPrefix(text, `\`):
			// "\ No newline at end of file" annotates the previous row.
		default:
			// Context rows carry a leading space; some producers emit a
			// bare empty line for empty context.
			o, n := oldNext, newNext
			oldNext++
			newNext++
			f.oldIdx[o] = len(f.lines)
			f.newIdx[n] = len(f.lines)
			f.lines = append(f.lines, model.DiffLine{Kind: model.LineContext, OldLine: &o, NewLine: &n, Text: strings.TrimPrefix(text, " "), Hunk: hunk})
		}
	}

	return f, nil
}

// parseHunkHeader extracts the counter seeds from a "@@ ... @@" line.
// Omitted counts default to 1 per the unified-diff format.
func parseHunkHeader(text string) (Hunk, error) {
	m := hunkHeaderRe.FindStringSubmatch(text)
	if m == nil {
		return Hunk{}, fmt.Errorf("malformed hunk header %q", text)
	}

	nums := [4]int{0, 1, 0, 1}
	for i, group := range []string{m[1], m[2], m[3], m[4]} {
		if group == "" {
			continue
		}
		v, err := strconv.Atoi(group)
		if err != nil {
			return Hunk{}, fmt.Errorf("malformed hunk header %q: %w", text, err)
		}
		nums[i] = v
	}

	return Hunk{
		OldStart: nums[0],
		OldCount: nums[1],
		NewStart: nums[2],
		NewCount: nums[3],
		Section:  strings.TrimSpace(m[5]),
		Header:   text,
	}, nil
}

// Len returns the number of rows.
func (f *File) Len() int { return len(f.lines) }

// Lines returns the full row table in display order.
func (f *File) Lines() []model.DiffLine { return f.lines }

// Line returns the row at index i.
func (f *File) Line(i int) (model.DiffLine, bool) {
	if i < 0 || i >= len(f.lines) {
		return model.DiffLine{}, false
	}
	return f.lines[i], true
}

// Hunks returns the hunk table in file order.
func (f *File) Hunks() []Hunk { return f.hunks }

// HasContent reports whether the file has any addressable rows. False for
// binary files, pure renames, and diffs whose rows are all preamble.
func (f *File) HasContent() bool {
	return len(f.oldIdx) > 0 || len(f.newIdx) > 0
}

// Locate returns the index of the row carrying the given side's line number.
func (f *File) Locate(side model.Side, line int) (int, bool) {
	idx := f.newIdx
	if side == model.SideOld {
		idx = f.oldIdx
	}
	i, ok := idx[line]
	return i, ok
}

// Anchor builds the comment anchor for row i. ok is false for structural
// rows and out-of-range indexes.
func (f *File) Anchor(i int) (model.LineAnchor, bool) {
	line, ok := f.Line(i)
	if !ok {
		return model.LineAnchor{}, false
	}
	return line.Anchor(f.Path)
}

// Unified reconstructs canonical patch text from the parsed rows: each hunk
// header followed by its marker-prefixed rows, preamble omitted. External
// renderers consume this text so their output stays aligned with the row
// table, one line per row plus one line per hunk header.
func (f *File) Unified() string {
	var b strings.Builder
	current := -1
	for _, l := range f.lines {
		if l.Kind == model.LineStructural {
			continue
		}
		if l.Hunk != current {
			current = l.Hunk
			b.WriteString(f.hunks[current].Header)
			b.WriteByte('\n')
		}
		b.WriteString(l.Kind.Marker())
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
