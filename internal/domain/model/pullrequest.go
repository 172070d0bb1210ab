package model

import (
	"fmt"
	"time"
)

// PRSnapshot is the immutable picture of a pull request taken at session
// start: metadata plus the full changed-file list with per-file patches.
// Partial snapshots are never constructed; a fetch either yields all of this
// or fails.
type PRSnapshot struct {
	RepoFullName string
	Number       int
	Title        string
	Author       string
	State        PRState
	IsDraft      bool
	URL          string
	Branch       string
	BaseBranch   string
	HeadSHA      string // Head commit SHA the review will be attached to.
	Additions    int
	Deletions    int
	Files        []ChangedFile
	FetchedAt    time.Time
}

// Ref returns the short "owner/repo#number" form used in logs and the UI.
func (s PRSnapshot) Ref() string {
	return fmt.Sprintf("%s#%d", s.RepoFullName, s.Number)
}

// Age returns how long ago the snapshot was fetched.
func (s PRSnapshot) Age() time.Duration {
	return time.Since(s.FetchedAt)
}

// ChangedFile is one file touched by the pull request. Patch holds the raw
// unified-diff text as returned by the data source; it is empty for binary
// files and for renames without content changes.
type ChangedFile struct {
	Path         string
	PreviousPath string // Set for renamed files.
	Status       FileStatus
	Additions    int
	Deletions    int
	Patch        string
}

// DisplayPath returns the path shown in the file list, including the old
// path for renames.
func (f ChangedFile) DisplayPath() string {
	if f.Status == FileRenamed && f.PreviousPath != "" && f.PreviousPath != f.Path {
		return f.PreviousPath + " -> " + f.Path
	}
	return f.Path
}
