// Package application contains the review session core and its startup
// orchestration.
package application

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/prdeck/internal/diffview"
	"github.com/ericfisherdev/prdeck/internal/domain/model"
	"github.com/ericfisherdev/prdeck/internal/domain/port/driven"
	"github.com/ericfisherdev/prdeck/internal/review"
)

// State identifies where the session is in its lifecycle.
type State int

const (
	StateList State = iota
	StateDiff
	StateComposingComment
	StateComposingBody
	StateReviewingComments
	StateChoosingVerdict
	StateSubmitting
	StateExiting
)

// String returns the state name for logs and status lines.
func (s State) String() string {
	switch s {
	case StateList:
		return "list"
	case StateDiff:
		return "diff"
	case StateComposingComment:
		return "composing-comment"
	case StateComposingBody:
		return "composing-body"
	case StateReviewingComments:
		return "reviewing-comments"
	case StateChoosingVerdict:
		return "choosing-verdict"
	case StateSubmitting:
		return "submitting"
	default:
		return "exiting"
	}
}

// Event is one semantic input fed to the session. The driving adapter maps
// raw key presses onto these through its keymap; the session never sees
// keys.
type Event int

const (
	EventMoveUp Event = iota
	EventMoveDown
	EventPageUp
	EventPageDown
	EventOpen
	EventBack
	EventComment
	EventApprove
	EventRequestChanges
	EventNextFile
	EventPrevFile
	EventReviewComments
	EventDelete
	EventEditBody
	EventConfirm
	EventQuit
)

// Effect is a side effect the driving adapter must execute after a
// transition. At most one effect results from any event; nil means none.
type Effect interface{ isEffect() }

// EffectComposeComment opens the editor for an inline comment at Anchor.
type EffectComposeComment struct {
	Anchor model.LineAnchor
	Seed   string
}

// EffectComposeBody opens the editor for the top-level review body.
type EffectComposeBody struct {
	Seed string
}

// EffectSubmit posts the assembled review through the writer port.
type EffectSubmit struct {
	Request driven.ReviewRequest
}

func (EffectComposeComment) isEffect() {}
func (EffectComposeBody) isEffect()    {}
func (EffectSubmit) isEffect()         {}

// fileSlot pairs a changed file with its parse result. diff is non-nil even
// for empty patches; parseErr marks files whose patch was unparseable and
// which therefore render as a placeholder.
type fileSlot struct {
	meta     model.ChangedFile
	diff     *diffview.File
	parseErr error
}

// SessionConfig tunes session behavior.
type SessionConfig struct {
	PageSize        int  // Visible diff rows; updated by the UI on resize.
	RequireFeedback bool // Block non-approve verdicts carrying no feedback.
}

// Session is the review session core: one pull request, its parsed diffs,
// the accumulated draft comments, and the cursor. It is driven entirely by
// Apply and Finish calls from a single goroutine and performs no I/O
// itself; collaborator work is handed back to the caller as effects.
type Session struct {
	snapshot *model.PRSnapshot
	files    []fileSlot
	order    []string
	comments *review.CommentStore

	state    State
	fileIdx  int
	lineIdx  int
	scroll   int
	pageSize int

	reviewIdx     int
	composeAnchor model.LineAnchor
	verdict       model.Verdict
	body          string

	requireFeedback bool
	pendingQuit     bool
	status          string
}

// NewSession parses every file in the snapshot and starts in the List view.
// A file whose patch does not parse stays selectable and renders as a
// placeholder; it never takes the session down.
func NewSession(snap *model.PRSnapshot, cfg SessionConfig) *Session {
	s := &Session{
		snapshot: snap,
		comments: review.NewCommentStore(),
		state:    StateList,
		verdict:  model.VerdictApprove,
		pageSize: cfg.PageSize,

		requireFeedback: cfg.RequireFeedback,
	}
	if s.pageSize <= 0 {
		s.pageSize = 20
	}

	var unparseable int
	for _, file := range snap.Files {
		slot := fileSlot{meta: file}
		diff, err := diffview.Parse(file.Path, file.Patch)
		if err != nil {
			slot.parseErr = err
			unparseable++
			slog.Warn("diff did not parse", "path", file.Path, "error", err)
		} else {
			slot.diff = diff
		}
		s.files = append(s.files, slot)
		s.order = append(s.order, file.Path)
	}

	slog.Info("session ready",
		"pr", snap.Ref(),
		"files", len(s.files),
		"unparseable", unparseable,
	)

	return s
}

// Apply feeds one input event to the session and returns the effect the
// caller must execute, if any. Events that make no sense in the current
// state are ignored.
func (s *Session) Apply(ev Event) Effect {
	if s.state != StateSubmitting {
		s.status = ""
	}

	switch s.state {
	case StateList:
		return s.applyList(ev)
	case StateDiff:
		return s.applyDiff(ev)
	case StateComposingComment, StateComposingBody:
		// The editor owns the terminal; nothing reaches the session until
		// the corresponding Finish call.
		return nil
	case StateReviewingComments:
		s.applyReviewing(ev)
		return nil
	case StateChoosingVerdict:
		return s.applyVerdict(ev)
	case StateSubmitting:
		// No cancellation of an in-flight submission; a quit is queued and
		// applied once the call resolves.
		if ev == EventQuit {
			s.pendingQuit = true
		}
		return nil
	default: // StateExiting
		return nil
	}
}

func (s *Session) applyList(ev Event) Effect {
	switch ev {
	case EventMoveUp:
		s.fileIdx = clamp(s.fileIdx-1, 0, len(s.files)-1)
	case EventMoveDown:
		s.fileIdx = clamp(s.fileIdx+1, 0, len(s.files)-1)
	case EventPageUp:
		s.fileIdx = clamp(s.fileIdx-s.pageSize, 0, len(s.files)-1)
	case EventPageDown:
		s.fileIdx = clamp(s.fileIdx+s.pageSize, 0, len(s.files)-1)
	case EventOpen:
		if len(s.files) == 0 {
			return nil
		}
		s.lineIdx, s.scroll = 0, 0
		s.state = StateDiff
	case EventApprove:
		s.enterVerdict(model.VerdictApprove)
	case EventRequestChanges:
		s.enterVerdict(model.VerdictRequestChanges)
	case EventComment:
		s.enterVerdict(model.VerdictCommentOnly)
	case EventReviewComments:
		if s.comments.Len() > 0 {
			s.reviewIdx = 0
			s.state = StateReviewingComments
		}
	case EventQuit:
		s.state = StateExiting
	}
	return nil
}

func (s *Session) applyDiff(ev Event) Effect {
	slot := s.files[s.fileIdx]
	var rows int
	if slot.diff != nil {
		rows = slot.diff.Len()
	}

	switch ev {
	case EventMoveUp:
		s.moveLine(-1, rows)
	case EventMoveDown:
		s.moveLine(1, rows)
	case EventPageUp:
		s.moveLine(-s.pageSize, rows)
	case EventPageDown:
		s.moveLine(s.pageSize, rows)
	case EventNextFile:
		s.switchFile(1)
	case EventPrevFile:
		s.switchFile(-1)
	case EventComment:
		if slot.diff == nil {
			return nil // Placeholder view; nothing to anchor to.
		}
		anchor, ok := slot.diff.Anchor(s.lineIdx)
		if !ok {
			return nil // Structural row; commenting is a no-op.
		}
		s.composeAnchor = anchor
		s.state = StateComposingComment
		return EffectComposeComment{Anchor: anchor}
	case EventBack:
		s.state = StateList
	case EventQuit:
		s.state = StateExiting
	}
	return nil
}

func (s *Session) applyReviewing(ev Event) {
	total := s.comments.Len()

	switch ev {
	case EventMoveUp:
		s.reviewIdx = clamp(s.reviewIdx-1, 0, total-1)
	case EventMoveDown:
		s.reviewIdx = clamp(s.reviewIdx+1, 0, total-1)
	case EventDelete:
		if total == 0 {
			return
		}
		list := s.comments.All(s.order)
		s.reviewIdx = clamp(s.reviewIdx, 0, len(list)-1)
		target := list[s.reviewIdx]
		if s.comments.Remove(target.ID) {
			s.status = fmt.Sprintf("removed comment at %s", target.Anchor)
		}
		if s.comments.Len() == 0 {
			s.state = StateList
			return
		}
		s.reviewIdx = clamp(s.reviewIdx, 0, s.comments.Len()-1)
	case EventBack:
		s.state = StateList
	case EventQuit:
		s.state = StateExiting
	}
}

func (s *Session) applyVerdict(ev Event) Effect {
	switch ev {
	case EventMoveUp:
		s.cycleVerdict(-1)
	case EventMoveDown:
		s.cycleVerdict(1)
	case EventApprove:
		s.verdict = model.VerdictApprove
	case EventRequestChanges:
		s.verdict = model.VerdictRequestChanges
	case EventComment:
		s.verdict = model.VerdictCommentOnly
	case EventEditBody:
		s.state = StateComposingBody
		return EffectComposeBody{Seed: s.body}
	case EventConfirm:
		if s.requireFeedback && s.verdict != model.VerdictApprove &&
			s.comments.Len() == 0 && s.body == "" {
			s.status = "add a comment or review body first"
			return nil
		}
		s.state = StateSubmitting
		req := review.Assemble(s.verdict, s.body, s.comments, s.order, s.snapshot.HeadSHA)
		slog.Info("submitting review",
			"pr", s.snapshot.Ref(),
			"event", req.Event,
			"comments", len(req.Comments),
		)
		return EffectSubmit{Request: req}
	case EventBack:
		s.state = StateList
	case EventQuit:
		s.state = StateExiting
	}
	return nil
}

// FinishCompose receives the editor outcome for an inline comment. A nil
// error with non-empty trimmed text files the comment under the pending
// anchor; anything else is a cancellation and changes nothing.
func (s *Session) FinishCompose(text string, err error) {
	if s.state != StateComposingComment {
		return
	}
	s.state = StateDiff

	trimmed := strings.TrimSpace(text)
	if err != nil || trimmed == "" {
		s.status = "comment discarded"
		return
	}

	s.comments.Add(s.composeAnchor, trimmed)
	s.status = fmt.Sprintf("comment added at %s", s.composeAnchor)
}

// FinishBody receives the editor outcome for the top-level review body. On
// success the body is replaced, an empty result clearing it; cancellation
// leaves it untouched.
func (s *Session) FinishBody(text string, err error) {
	if s.state != StateComposingBody {
		return
	}
	s.state = StateChoosingVerdict

	if err != nil {
		s.status = "review body unchanged"
		return
	}
	s.body = strings.TrimSpace(text)
}

// FinishSubmit receives the submission outcome. Success clears the comment
// store and ends the session. Failure returns to the file list with every
// comment intact so the user can retry; a quit queued while the call was in
// flight is applied instead.
func (s *Session) FinishSubmit(err error) {
	if s.state != StateSubmitting {
		return
	}

	if err == nil {
		slog.Info("review submitted", "pr", s.snapshot.Ref())
		s.comments.Clear()
		s.state = StateExiting
		return
	}

	slog.Error("review submission failed", "pr", s.snapshot.Ref(), "error", err)

	if s.pendingQuit {
		s.pendingQuit = false
		s.state = StateExiting
		return
	}

	s.state = StateList

	var rejected *driven.RejectedError
	switch {
	case errors.As(err, &rejected):
		s.status = fmt.Sprintf("rejected: %s -- comments kept, retry when ready", rejected.Reason)
	case errors.Is(err, driven.ErrNetwork):
		s.status = "network failure during submit -- comments kept, retry when ready"
	default:
		s.status = fmt.Sprintf("submit failed: %v -- comments kept", err)
	}
}

func (s *Session) enterVerdict(v model.Verdict) {
	s.verdict = v
	s.state = StateChoosingVerdict
}

func (s *Session) cycleVerdict(delta int) {
	all := model.Verdicts()
	cur := 0
	for i, v := range all {
		if v == s.verdict {
			cur = i
			break
		}
	}
	s.verdict = all[((cur+delta)%len(all)+len(all))%len(all)]
}

func (s *Session) moveLine(delta, rows int) {
	if rows == 0 {
		s.lineIdx, s.scroll = 0, 0
		return
	}
	s.lineIdx = clamp(s.lineIdx+delta, 0, rows-1)
	s.ensureVisible(rows)
}

// ensureVisible recomputes the scroll offset so the selected row stays
// inside the visible window.
func (s *Session) ensureVisible(rows int) {
	if s.lineIdx < s.scroll {
		s.scroll = s.lineIdx
	}
	if s.lineIdx >= s.scroll+s.pageSize {
		s.scroll = s.lineIdx - s.pageSize + 1
	}

	maxScroll := rows - s.pageSize
	if maxScroll < 0 {
		maxScroll = 0
	}
	s.scroll = clamp(s.scroll, 0, maxScroll)
}

func (s *Session) switchFile(delta int) {
	next := clamp(s.fileIdx+delta, 0, len(s.files)-1)
	if next == s.fileIdx {
		return
	}
	s.fileIdx = next
	s.lineIdx, s.scroll = 0, 0
}

// State returns the current session state.
func (s *Session) State() State { return s.state }

// Snapshot returns the immutable pull request snapshot.
func (s *Session) Snapshot() *model.PRSnapshot { return s.snapshot }

// FileCount returns the number of changed files.
func (s *Session) FileCount() int { return len(s.files) }

// FileIndex returns the selected file index.
func (s *Session) FileIndex() int { return s.fileIdx }

// FileAt returns the changed-file metadata at index i.
func (s *Session) FileAt(i int) model.ChangedFile { return s.files[i].meta }

// CurrentFile returns the selected file's metadata.
func (s *Session) CurrentFile() model.ChangedFile { return s.files[s.fileIdx].meta }

// CurrentDiff returns the selected file's parsed diff, or nil when the
// patch was unparseable and the view must show a placeholder.
func (s *Session) CurrentDiff() *diffview.File { return s.files[s.fileIdx].diff }

// CurrentParseErr returns why the selected file's diff is unavailable, or
// nil.
func (s *Session) CurrentParseErr() error { return s.files[s.fileIdx].parseErr }

// LineIndex returns the selected row index within the current diff.
func (s *Session) LineIndex() int { return s.lineIdx }

// Scroll returns the diff pane scroll offset in rows.
func (s *Session) Scroll() int { return s.scroll }

// SetPageSize updates the visible-row count used for paging and scroll
// clamping. Calls with non-positive sizes are ignored.
func (s *Session) SetPageSize(n int) {
	if n <= 0 {
		return
	}
	s.pageSize = n
	if s.state == StateDiff {
		if d := s.files[s.fileIdx].diff; d != nil {
			s.ensureVisible(d.Len())
		}
	}
}

// Comments exposes the draft comment store for the views.
func (s *Session) Comments() *review.CommentStore { return s.comments }

// FileOrder returns the changed-file paths in snapshot order.
func (s *Session) FileOrder() []string { return s.order }

// ReviewIndex returns the selected entry in the comment review list.
func (s *Session) ReviewIndex() int { return s.reviewIdx }

// Verdict returns the currently selected verdict.
func (s *Session) Verdict() model.Verdict { return s.verdict }

// Body returns the top-level review body composed so far.
func (s *Session) Body() string { return s.body }

// ComposeAnchor returns the anchor of the comment being composed.
func (s *Session) ComposeAnchor() model.LineAnchor { return s.composeAnchor }

// Status returns the transient status-line message, cleared on the next
// event.
func (s *Session) Status() string { return s.status }

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
