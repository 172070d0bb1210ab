// Package tui is the driving adapter: a bubbletea program that translates
// key presses through the keymap into session events, renders session state,
// and executes the effects the session emits. The editor runs under
// tea.ExecProcess so the terminal is handed over and restored around it;
// submission runs as a single tea.Cmd.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ericfisherdev/prdeck/internal/application"
	"github.com/ericfisherdev/prdeck/internal/config"
	"github.com/ericfisherdev/prdeck/internal/diffview"
	"github.com/ericfisherdev/prdeck/internal/domain/port/driven"
)

const (
	// Lines reserved around the scrolling region in every view: header,
	// context line, status, hints. The session page size is the terminal
	// height minus this.
	chromeLines = 4

	// Columns taken by the cursor and comment markers in front of each
	// rendered diff row.
	markerWidth = 4

	submitTimeout = 60 * time.Second
)

type editKind int

const (
	editComment editKind = iota
	editBody
)

// editorDoneMsg reports that the external editor exited. session is nil when
// the editor could not even be opened.
type editorDoneMsg struct {
	kind    editKind
	session *driven.EditorSession
	err     error
}

// submitDoneMsg reports the outcome of the submission call.
type submitDoneMsg struct {
	err error
}

// renderKey identifies what the cached renderer output was produced for.
type renderKey struct {
	file  int
	width int
}

// Model wires the session core to the terminal. All mutation happens in
// Update; View only reads.
type Model struct {
	session  *application.Session
	writer   driven.GitHubWriter
	editor   driven.Editor
	renderer driven.DiffRenderer

	keys       KeyMap
	spinner    spinner.Model
	sideBySide bool
	lineNums   bool

	width  int
	height int
	ready  bool

	// Renderer output for the current file, one line per diff row. Rebuilt
	// when the file or the width changes.
	rendered    []string
	renderedFor renderKey
}

// New builds the program model around an already-loaded session.
func New(
	sess *application.Session,
	writer driven.GitHubWriter,
	editor driven.Editor,
	renderer driven.DiffRenderer,
	cfg *config.Config,
) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle

	return Model{
		session:    sess,
		writer:     writer,
		editor:     editor,
		renderer:   renderer,
		keys:       newKeyMap(cfg.Keybindings),
		spinner:    sp,
		sideBySide: cfg.Diff.SideBySide,
		lineNums:   cfg.Diff.LineNumbers,
	}
}

// Run executes the program on the alternate screen until the session exits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.session.SetPageSize(max(1, msg.Height-chromeLines))
		m.renderedFor = renderKey{} // Width change invalidates the cache.

	case spinner.TickMsg:
		if m.session.State() == application.StateSubmitting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case editorDoneMsg:
		text, err := "", msg.err
		if msg.session != nil {
			// Collect runs even when the editor exited abnormally so the
			// scratch file is always cleaned up.
			collected, collectErr := m.editor.Collect(msg.session)
			text = collected
			if err == nil {
				err = collectErr
			}
		}
		switch msg.kind {
		case editComment:
			m.session.FinishCompose(text, err)
		case editBody:
			m.session.FinishBody(text, err)
		}

	case submitDoneMsg:
		m.session.FinishSubmit(msg.err)

	case tea.KeyMsg:
		ev, ok := m.keys.eventFor(m.session.State(), msg)
		if !ok {
			break
		}
		eff := m.session.Apply(ev)
		if cmd := m.runEffect(eff); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if _, submitted := eff.(application.EffectSubmit); submitted {
			cmds = append(cmds, m.spinner.Tick)
		}
	}

	if m.session.State() == application.StateExiting {
		return m, tea.Quit
	}

	m = m.ensureRendered()
	return m, tea.Batch(cmds...)
}

// runEffect turns a session effect into the command that executes it.
func (m Model) runEffect(eff application.Effect) tea.Cmd {
	switch e := eff.(type) {
	case application.EffectComposeComment:
		return m.editorCmd(editComment, e.Seed)
	case application.EffectComposeBody:
		return m.editorCmd(editBody, e.Seed)
	case application.EffectSubmit:
		return m.submitCmd(e.Request)
	}
	return nil
}

// editorCmd opens a scratch buffer and hands the terminal to the editor
// process. The exit outcome comes back as an editorDoneMsg.
func (m Model) editorCmd(kind editKind, seed string) tea.Cmd {
	es, err := m.editor.Open(seed)
	if err != nil {
		slog.Error("opening editor failed", "error", err)
		return func() tea.Msg {
			return editorDoneMsg{kind: kind, err: err}
		}
	}
	return tea.ExecProcess(es.Cmd, func(runErr error) tea.Msg {
		return editorDoneMsg{kind: kind, session: es, err: runErr}
	})
}

func (m Model) submitCmd(req driven.ReviewRequest) tea.Cmd {
	snap := m.session.Snapshot()
	writer := m.writer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		return submitDoneMsg{err: writer.SubmitReview(ctx, snap.RepoFullName, snap.Number, req)}
	}
}

// ensureRendered refreshes the per-file renderer output when the diff view
// is showing a different file or width than the cache was built for.
func (m Model) ensureRendered() Model {
	if m.session.State() != application.StateDiff || !m.ready {
		return m
	}

	k := renderKey{file: m.session.FileIndex(), width: m.width}
	if m.renderedFor == k {
		return m
	}

	d := m.session.CurrentDiff()
	if d == nil || d.Len() == 0 {
		m.rendered, m.renderedFor = nil, k
		return m
	}

	opts := driven.RenderOptions{
		SideBySide:  m.sideBySide,
		LineNumbers: m.lineNums,
		Width:       max(20, m.width-markerWidth),
	}
	lines, err := m.renderer.Render(context.Background(), d, opts)
	if err != nil || len(lines) != d.Len() {
		slog.Warn("diff rendering failed; showing raw rows", "path", d.Path, "error", err)
		lines = rawLines(d)
	}
	m.rendered, m.renderedFor = lines, k
	return m
}

// rawLines is the unstyled last resort when every renderer failed.
func rawLines(d *diffview.File) []string {
	out := make([]string, 0, d.Len())
	for _, row := range d.Lines() {
		out = append(out, row.Kind.Marker()+row.Text)
	}
	return out
}
