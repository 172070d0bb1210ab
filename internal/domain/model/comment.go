package model

// CommentID identifies one draft comment within a session. IDs are never
// reused, so a stale ID after removal simply misses.
type CommentID int

// Comment is a draft inline comment accumulated during the session. It
// lives in memory only; nothing is sent to the data source until the whole
// review is submitted.
type Comment struct {
	ID     CommentID
	Anchor LineAnchor
	Body   string
	Seq    int // Creation order across the whole session.
}
