package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/truncate"

	"github.com/ericfisherdev/prdeck/internal/application"
	"github.com/ericfisherdev/prdeck/internal/domain/model"
)

func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	switch m.session.State() {
	case application.StateDiff, application.StateComposingComment:
		return m.viewDiff()
	case application.StateReviewingComments:
		return m.viewComments()
	case application.StateChoosingVerdict, application.StateComposingBody:
		return m.viewVerdict()
	case application.StateSubmitting:
		return m.viewSubmitting()
	case application.StateExiting:
		return ""
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	body := m.headerLines()

	total := m.session.FileCount()
	if total == 0 {
		body = append(body, faintStyle.Render("no changed files in this pull request"))
		return m.frame(body, m.statusLine(fmt.Sprintf("%d comments pending", m.session.Comments().Len())))
	}

	pathWidth := m.listPathWidth()
	start, end := window(m.session.FileIndex(), total, max(1, m.height-chromeLines))
	for i := start; i < end; i++ {
		f := m.session.FileAt(i)

		prefix := "  "
		if i == m.session.FileIndex() {
			prefix = cursorStyle.Render("▸") + " "
		}

		path := truncate.String(f.DisplayPath(), uint(pathWidth))
		line := fmt.Sprintf("%s%s %-*s  %s %s",
			prefix,
			statusGlyph(f.Status.Rune()),
			pathWidth, path,
			addedStyle.Render(fmt.Sprintf("+%d", f.Additions)),
			deletedStyle.Render(fmt.Sprintf("-%d", f.Deletions)),
		)
		if n := m.session.Comments().CountFor(f.Path); n > 0 {
			line += "  " + commentMarkStyle.Render(fmt.Sprintf("● %d", n))
		}
		body = append(body, truncate.String(line, uint(m.width)))
	}

	fallback := fmt.Sprintf("%d files changed  %d comments pending", total, m.session.Comments().Len())
	return m.frame(body, m.statusLine(fallback))
}

func (m Model) viewDiff() string {
	f := m.session.CurrentFile()

	header := titleStyle.Render(f.DisplayPath()) +
		faintStyle.Render(fmt.Sprintf("  [%d/%d]  ", m.session.FileIndex()+1, m.session.FileCount())) +
		statusGlyph(f.Status.Rune()) + "  " +
		addedStyle.Render(fmt.Sprintf("+%d", f.Additions)) + " " +
		deletedStyle.Render(fmt.Sprintf("-%d", f.Deletions))
	body := []string{truncate.String(header, uint(m.width))}

	if perr := m.session.CurrentParseErr(); perr != nil {
		body = append(body,
			"",
			statusErrStyle.Render("cannot display this diff"),
			faintStyle.Render(perr.Error()),
			faintStyle.Render("the file stays reviewable on the host; comments need a parsed diff"),
		)
		return m.frame(body, m.statusLine("diff unavailable"))
	}

	d := m.session.CurrentDiff()
	if d.Len() == 0 {
		body = append(body,
			"",
			faintStyle.Render("no displayable changes (binary file or rename without edits)"),
		)
		return m.frame(body, m.statusLine("empty diff"))
	}

	// One context line above the rows: the hunk the cursor is in. Hunk
	// headers never occupy rows of their own, so this is where they show.
	if row, ok := d.Line(m.session.LineIndex()); ok && row.Hunk >= 0 {
		body = append(body, truncate.String(bannerStyle.Render(d.Hunks()[row.Hunk].Header), uint(m.width)))
	} else {
		body = append(body, faintStyle.Render("(file preamble)"))
	}

	lines := m.rendered
	if len(lines) != d.Len() {
		lines = rawLines(d)
	}

	marks := make(map[model.LineAnchor]bool)
	for _, c := range m.session.Comments().ListFor(f.Path) {
		marks[c.Anchor] = true
	}

	start := m.session.Scroll()
	end := min(start+max(1, m.height-chromeLines), d.Len())
	for i := start; i < end; i++ {
		prefix := "  "
		if i == m.session.LineIndex() {
			prefix = cursorStyle.Render("▸") + " "
		}

		mark := "  "
		if anchor, ok := d.Anchor(i); ok && marks[anchor] {
			mark = commentMarkStyle.Render("●") + " "
		}

		body = append(body, prefix+mark+lines[i])
	}

	fallback := fmt.Sprintf("row %d/%d  %d comments on this file",
		m.session.LineIndex()+1, d.Len(), m.session.Comments().CountFor(f.Path))
	return m.frame(body, m.statusLine(fallback))
}

func (m Model) viewComments() string {
	body := m.headerLines()

	comments := m.session.Comments().All(m.session.FileOrder())
	body = append(body, titleStyle.Render("Pending comments")+faintStyle.Render(fmt.Sprintf("  (%d)", len(comments))))

	start, end := window(m.session.ReviewIndex(), len(comments), max(1, m.height-chromeLines-1))
	for i := start; i < end; i++ {
		c := comments[i]

		prefix := "  "
		if i == m.session.ReviewIndex() {
			prefix = cursorStyle.Render("▸") + " "
		}

		line := prefix + selectedStyle.Render(c.Anchor.String()) + "  " + firstLine(c.Body)
		body = append(body, truncate.String(line, uint(m.width)))
	}

	fallback := fmt.Sprintf("comment %d/%d", m.session.ReviewIndex()+1, len(comments))
	return m.frame(body, m.statusLine(fallback))
}

func (m Model) viewVerdict() string {
	body := m.headerLines()
	body = append(body, titleStyle.Render("Submit review"), "")

	for _, v := range model.Verdicts() {
		prefix := "  "
		label := v.Label()
		if v == m.session.Verdict() {
			prefix = cursorStyle.Render("▸") + " "
			label = verdictStyle.Render(label)
		}
		body = append(body, prefix+label)
	}

	bodyPreview := "(none)"
	if b := m.session.Body(); b != "" {
		bodyPreview = firstLine(b)
	}
	body = append(body,
		"",
		faintStyle.Render("review body: ")+truncate.String(bodyPreview, uint(max(1, m.width-13))),
	)

	fallback := fmt.Sprintf("%d inline comments will be submitted", m.session.Comments().Len())
	return m.frame(body, m.statusLine(fallback))
}

func (m Model) viewSubmitting() string {
	body := m.headerLines()
	body = append(body,
		"",
		m.spinner.View()+" submitting review...",
		faintStyle.Render(fmt.Sprintf("%s  %d comments", m.session.Verdict().Label(), m.session.Comments().Len())),
	)
	return m.frame(body, m.statusLine("one atomic call; a queued quit applies after it resolves"))
}

// headerLines renders the two-line pull request header shown above the list
// and the modal views.
func (m Model) headerLines() []string {
	snap := m.session.Snapshot()

	badge := ""
	if snap.IsDraft {
		badge = "  " + draftStyle.Render("[draft]")
	}
	switch snap.State {
	case model.PRStateMerged:
		badge += "  " + mergedStyle.Render("[merged]")
	case model.PRStateClosed:
		badge += "  " + statusErrStyle.Render("[closed]")
	}

	l1 := repoStyle.Render(snap.Ref()) + "  " +
		titleStyle.Render(snap.Title) +
		faintStyle.Render("  @"+snap.Author) +
		badge
	l2 := faintStyle.Render(snap.BaseBranch+" <- "+snap.Branch+"  ") +
		addedStyle.Render(fmt.Sprintf("+%d", snap.Additions)) + " " +
		deletedStyle.Render(fmt.Sprintf("-%d", snap.Deletions)) +
		faintStyle.Render(fmt.Sprintf("  %d files  fetched %s", len(snap.Files), fmtAge(snap.Age())))

	return []string{
		truncate.String(l1, uint(m.width)),
		truncate.String(l2, uint(m.width)),
	}
}

// frame pads the body so the status and hints lines sit at the bottom of the
// terminal, then joins everything.
func (m Model) frame(body []string, status string) string {
	lines := body
	if m.height > 2 && len(lines) > m.height-2 {
		lines = lines[:m.height-2]
	}
	for len(lines) < m.height-2 {
		lines = append(lines, "")
	}
	lines = append(lines, status, m.hints())
	return strings.Join(lines, "\n")
}

// statusLine shows the session's transient message when there is one and the
// per-view fallback otherwise.
func (m Model) statusLine(fallback string) string {
	var line string
	if s := m.session.Status(); s != "" {
		line = noticeStyle.Render(s)
	} else {
		line = faintStyle.Render(fallback)
	}
	return truncate.String(line, uint(m.width))
}

func (m Model) hints() string {
	approve := m.keys.Approve.Help().Key
	request := m.keys.RequestChanges.Help().Key
	comment := m.keys.Comment.Help().Key

	var h string
	switch m.session.State() {
	case application.StateDiff, application.StateComposingComment:
		h = fmt.Sprintf("[j/k] move  [h/l] file  [%s] comment  [esc] back  [q] quit", comment)
	case application.StateReviewingComments:
		h = "[j/k] move  [d] delete  [esc] back"
	case application.StateChoosingVerdict, application.StateComposingBody:
		h = fmt.Sprintf("[j/k] cycle  [%s/%s/%s] pick  [e] body  [enter] submit  [esc] cancel", approve, request, comment)
	case application.StateSubmitting:
		h = "[q] quit once the call resolves"
	default:
		h = fmt.Sprintf("[j/k] move  [enter] open  [%s/%s/%s] verdict  [v] comments  [q] quit", approve, request, comment)
	}
	return truncate.String(hintStyle.Render(h), uint(m.width))
}

// listPathWidth sizes the path column so the change counts line up, capped
// at roughly half the terminal.
func (m Model) listPathWidth() int {
	w := 0
	for i := 0; i < m.session.FileCount(); i++ {
		if n := len(m.session.FileAt(i).DisplayPath()); n > w {
			w = n
		}
	}
	if limit := m.width / 2; w > limit && limit > 0 {
		w = limit
	}
	return max(1, w)
}

// window returns the [start, end) slice of a list that keeps cursor visible
// in a pane of the given height.
func window(cursor, total, visible int) (int, int) {
	if total <= 0 || visible <= 0 {
		return 0, 0
	}
	start := cursor - visible + 1
	if start < 0 {
		start = 0
	}
	if maxStart := total - visible; maxStart >= 0 && start > maxStart {
		start = maxStart
	}
	end := start + visible
	if end > total {
		end = total
	}
	return start, end
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func fmtAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
