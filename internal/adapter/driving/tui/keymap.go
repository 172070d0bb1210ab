package tui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ericfisherdev/prdeck/internal/application"
	"github.com/ericfisherdev/prdeck/internal/config"
)

// fixedKeys are the keys whose meaning never changes. A configured verdict
// shortcut that collides with one of these would be unreachable, so the
// keymap falls back to the default binding instead.
var fixedKeys = map[string]bool{
	"up": true, "k": true,
	"down": true, "j": true,
	"pgup": true, "ctrl+u": true,
	"pgdown": true, "ctrl+d": true,
	"left": true, "h": true,
	"right": true, "l": true,
	"enter": true, "esc": true,
	"q": true, "ctrl+c": true,
	"v": true, "d": true, "x": true, "e": true,
}

// KeyMap holds every binding the program reacts to. The three verdict
// shortcuts come from the config; everything else is fixed.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Select   key.Binding
	Back     key.Binding
	Quit     key.Binding

	NextFile key.Binding
	PrevFile key.Binding

	Comment        key.Binding
	Approve        key.Binding
	RequestChanges key.Binding

	ReviewComments key.Binding
	Delete         key.Binding
	EditBody       key.Binding
}

func newKeyMap(kb config.Keybindings) KeyMap {
	approve := verdictKey(kb.Approve, "a")
	request := verdictKey(kb.RequestChanges, "r")
	comment := verdictKey(kb.Comment, "c")

	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("j/k", "move")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup/pgdn", "page")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		NextFile: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("h/l", "file")),
		PrevFile: key.NewBinding(key.WithKeys("left", "h")),

		Comment:        key.NewBinding(key.WithKeys(comment), key.WithHelp(comment, "comment")),
		Approve:        key.NewBinding(key.WithKeys(approve), key.WithHelp(approve, "approve")),
		RequestChanges: key.NewBinding(key.WithKeys(request), key.WithHelp(request, "request changes")),

		ReviewComments: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view comments")),
		Delete:         key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		EditBody:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit body")),
	}
}

// verdictKey validates one configured verdict shortcut. The config layer has
// already rejected duplicates among the three; collisions with fixed keys are
// only detectable here.
func verdictKey(configured, fallback string) string {
	k := strings.TrimSpace(configured)
	if k == "" {
		return fallback
	}
	if fixedKeys[k] {
		slog.Warn("configured keybinding collides with a fixed key; using default",
			"key", k,
			"default", fallback,
		)
		return fallback
	}
	return k
}

// eventFor translates one key press into a session event. Enter is the only
// key whose meaning depends on the state: it confirms in the verdict picker
// and opens everywhere else. All other interpretation lives in the session.
func (k KeyMap) eventFor(st application.State, msg tea.KeyMsg) (application.Event, bool) {
	switch {
	case key.Matches(msg, k.Quit):
		return application.EventQuit, true
	case key.Matches(msg, k.Up):
		return application.EventMoveUp, true
	case key.Matches(msg, k.Down):
		return application.EventMoveDown, true
	case key.Matches(msg, k.PageUp):
		return application.EventPageUp, true
	case key.Matches(msg, k.PageDown):
		return application.EventPageDown, true
	case key.Matches(msg, k.NextFile):
		return application.EventNextFile, true
	case key.Matches(msg, k.PrevFile):
		return application.EventPrevFile, true
	case key.Matches(msg, k.Select):
		if st == application.StateChoosingVerdict {
			return application.EventConfirm, true
		}
		return application.EventOpen, true
	case key.Matches(msg, k.Back):
		return application.EventBack, true
	case key.Matches(msg, k.ReviewComments):
		return application.EventReviewComments, true
	case key.Matches(msg, k.Delete):
		return application.EventDelete, true
	case key.Matches(msg, k.EditBody):
		return application.EventEditBody, true
	case key.Matches(msg, k.Comment):
		return application.EventComment, true
	case key.Matches(msg, k.Approve):
		return application.EventApprove, true
	case key.Matches(msg, k.RequestChanges):
		return application.EventRequestChanges, true
	}
	return 0, false
}
