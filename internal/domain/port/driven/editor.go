package driven

import "os/exec"

// EditorSession is one pending editor invocation: a scratch buffer on disk
// and the command that edits it. The driving adapter runs Cmd with the
// terminal handed over, then calls Collect.
type EditorSession struct {
	Path string
	Cmd  *exec.Cmd
}

// Editor composes free text through the user's external editor.
type Editor interface {
	// Open creates a scratch buffer seeded with initial text and returns
	// the session whose command must be run next.
	Open(initial string) (*EditorSession, error)

	// Collect reads the final buffer contents, removes the scratch file,
	// and returns the trimmed text. An empty result means the user
	// cancelled. Collect must be called exactly once per session even when
	// the editor exited abnormally, so the scratch file never leaks.
	Collect(s *EditorSession) (string, error)
}
