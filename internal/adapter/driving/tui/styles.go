package tui

import "github.com/charmbracelet/lipgloss"

// One palette for every view, matching the colors the built-in renderer uses
// for diff rows so both halves of the screen read as one program.
var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	repoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	draftStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mergedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("135"))

	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	faintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	bannerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	deletedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	renamedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	commentMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	verdictStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	hintStyle      = lipgloss.NewStyle().Faint(true)
)

// statusGlyph styles the single-letter change marker in the file list.
func statusGlyph(r rune) string {
	switch r {
	case 'A':
		return addedStyle.Render("A")
	case 'D':
		return deletedStyle.Render("D")
	case 'R':
		return renamedStyle.Render("R")
	default:
		return "M"
	}
}
