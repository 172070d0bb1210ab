// Package editor launches the user's text editor on scratch files for
// comment and review-body composition.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ericfisherdev/prdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Editor = (*CommandEditor)(nil)

// CommandEditor runs a configured editor command on scratch files.
type CommandEditor struct {
	command string
}

// New picks the editor command: the explicit config value wins, then
// $VISUAL, then $EDITOR, then vi.
func New(configured string) *CommandEditor {
	command := strings.TrimSpace(configured)
	if command == "" {
		command = strings.TrimSpace(os.Getenv("VISUAL"))
	}
	if command == "" {
		command = strings.TrimSpace(os.Getenv("EDITOR"))
	}
	if command == "" {
		command = "vi"
	}
	return &CommandEditor{command: command}
}

// Open writes initial to a fresh scratch file and prepares the editor
// command. The command is not started here; the UI layer runs it while it
// holds the terminal.
func (e *CommandEditor) Open(initial string) (*driven.EditorSession, error) {
	f, err := os.CreateTemp("", "prdeck-*.md")
	if err != nil {
		return nil, fmt.Errorf("creating scratch file: %w", err)
	}
	path := f.Name()

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("seeding scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("closing scratch file: %w", err)
	}

	// The command value may carry flags, e.g. "code --wait".
	args := append(strings.Fields(e.command), path)
	cmd := exec.Command(args[0], args[1:]...)

	return &driven.EditorSession{Path: path, Cmd: cmd}, nil
}

// Collect reads the scratch file back, removes it, and returns the trimmed
// text. It runs exactly once per session, whatever the editor exit status
// was, so scratch files never accumulate.
func (e *CommandEditor) Collect(s *driven.EditorSession) (string, error) {
	defer os.Remove(s.Path)

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("reading scratch file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
