package model

// PRState represents the state of a pull request.
type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
	PRStateMerged PRState = "merged"
)

// FileStatus represents how a file was changed in a pull request.
type FileStatus string

const (
	FileAdded    FileStatus = "added"
	FileModified FileStatus = "modified"
	FileDeleted  FileStatus = "deleted"
	FileRenamed  FileStatus = "renamed"
)

// Rune returns the single-letter marker shown in the file list.
func (s FileStatus) Rune() rune {
	switch s {
	case FileAdded:
		return 'A'
	case FileDeleted:
		return 'D'
	case FileRenamed:
		return 'R'
	default:
		return 'M'
	}
}
