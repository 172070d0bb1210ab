// Package review holds the in-memory draft of the review being composed:
// the comment store and the assembler that turns it into one submission.
package review

import (
	"sort"

	"github.com/ericfisherdev/prdeck/internal/domain/model"
)

// CommentStore accumulates draft comments keyed by line anchor. It belongs
// to a single session and is never touched concurrently. Contents survive
// failed submissions and are dropped only by Clear.
type CommentStore struct {
	comments []model.Comment
	nextID   model.CommentID
	nextSeq  int
}

// NewCommentStore returns an empty store.
func NewCommentStore() *CommentStore {
	return &CommentStore{nextID: 1}
}

// Add files body under anchor and returns the new comment's ID. Anchors are
// taken as given; validating them against the diff is the caller's job, so
// Add never rejects.
func (s *CommentStore) Add(anchor model.LineAnchor, body string) model.CommentID {
	id := s.nextID
	s.nextID++

	s.comments = append(s.comments, model.Comment{
		ID:     id,
		Anchor: anchor,
		Body:   body,
		Seq:    s.nextSeq,
	})
	s.nextSeq++

	return id
}

// Remove deletes the comment with the given ID and reports whether it
// existed.
func (s *CommentStore) Remove(id model.CommentID) bool {
	for i, c := range s.comments {
		if c.ID == id {
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			return true
		}
	}
	return false
}

// ListFor returns the comments anchored in the given file, ordered by
// (side, line, creation order) with old-side anchors first.
func (s *CommentStore) ListFor(path string) []model.Comment {
	var out []model.Comment
	for _, c := range s.comments {
		if c.Anchor.Path == path {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return lessWithinFile(out[i], out[j])
	})

	return out
}

// All returns every comment grouped by file in the given file order, and by
// (side, line, creation order) within each file. Anchors whose path is not
// in fileOrder sort after the known files, by path.
func (s *CommentStore) All(fileOrder []string) []model.Comment {
	rank := make(map[string]int, len(fileOrder))
	for i, p := range fileOrder {
		rank[p] = i
	}

	out := make([]model.Comment, len(s.comments))
	copy(out, s.comments)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ra, aKnown := rank[a.Anchor.Path]
		rb, bKnown := rank[b.Anchor.Path]

		switch {
		case aKnown && bKnown && ra != rb:
			return ra < rb
		case aKnown != bKnown:
			return aKnown
		case !aKnown && a.Anchor.Path != b.Anchor.Path:
			return a.Anchor.Path < b.Anchor.Path
		}
		return lessWithinFile(a, b)
	})

	return out
}

// CountFor returns how many comments are anchored in the given file.
func (s *CommentStore) CountFor(path string) int {
	n := 0
	for _, c := range s.comments {
		if c.Anchor.Path == path {
			n++
		}
	}
	return n
}

// Len returns the total number of accumulated comments.
func (s *CommentStore) Len() int {
	return len(s.comments)
}

// Clear drops every accumulated comment. IDs are not reused afterwards.
func (s *CommentStore) Clear() {
	s.comments = nil
}

// lessWithinFile orders two comments sharing a file: old side before new,
// then line number, then creation order.
func lessWithinFile(a, b model.Comment) bool {
	if a.Anchor.Side != b.Anchor.Side {
		return a.Anchor.Side == model.SideOld
	}
	if a.Anchor.Line != b.Anchor.Line {
		return a.Anchor.Line < b.Anchor.Line
	}
	return a.Seq < b.Seq
}
