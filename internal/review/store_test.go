package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prdeck/internal/domain/model"
)

func anchor(path string, side model.Side, line int) model.LineAnchor {
	return model.LineAnchor{Path: path, Side: side, Line: line}
}

func TestCommentStore_AddAssignsDistinctIDs(t *testing.T) {
	s := NewCommentStore()

	id1 := s.Add(anchor("a.go", model.SideNew, 3), "first")
	id2 := s.Add(anchor("a.go", model.SideNew, 3), "second")

	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, s.Len())
}

func TestCommentStore_ListForOrdering(t *testing.T) {
	s := NewCommentStore()

	// Inserted deliberately out of order.
	s.Add(anchor("a.go", model.SideNew, 10), "new10")
	s.Add(anchor("a.go", model.SideOld, 2), "old2")
	s.Add(anchor("a.go", model.SideNew, 3), "new3-first")
	s.Add(anchor("b.go", model.SideNew, 1), "other-file")
	s.Add(anchor("a.go", model.SideNew, 3), "new3-second")

	got := s.ListFor("a.go")
	require.Len(t, got, 4)

	// Old side first, then by line, then by creation order.
	assert.Equal(t, "old2", got[0].Body)
	assert.Equal(t, "new3-first", got[1].Body)
	assert.Equal(t, "new3-second", got[2].Body)
	assert.Equal(t, "new10", got[3].Body)
}

func TestCommentStore_Remove(t *testing.T) {
	s := NewCommentStore()

	id1 := s.Add(anchor("a.go", model.SideNew, 1), "keep")
	id2 := s.Add(anchor("a.go", model.SideNew, 2), "drop")

	assert.True(t, s.Remove(id2))
	assert.False(t, s.Remove(id2), "second removal of the same ID must miss")
	assert.False(t, s.Remove(model.CommentID(999)))

	remaining := s.ListFor("a.go")
	require.Len(t, remaining, 1)
	assert.Equal(t, id1, remaining[0].ID)
	assert.Equal(t, "keep", remaining[0].Body)
}

func TestCommentStore_AllGroupsByFileOrder(t *testing.T) {
	s := NewCommentStore()
	fileOrder := []string{"z.go", "a.go"}

	s.Add(anchor("a.go", model.SideNew, 5), "a5")
	s.Add(anchor("z.go", model.SideNew, 9), "z9")
	s.Add(anchor("z.go", model.SideOld, 1), "z1old")
	s.Add(anchor("stray.go", model.SideNew, 1), "stray")

	got := s.All(fileOrder)
	require.Len(t, got, 4)

	// z.go first (file order, not lexicographic), old side before new.
	assert.Equal(t, "z1old", got[0].Body)
	assert.Equal(t, "z9", got[1].Body)
	assert.Equal(t, "a5", got[2].Body)
	// Unknown paths sort after the known files.
	assert.Equal(t, "stray", got[3].Body)
}

func TestCommentStore_ClearIsIdempotent(t *testing.T) {
	s := NewCommentStore()
	s.Add(anchor("a.go", model.SideNew, 1), "x")
	s.Add(anchor("b.go", model.SideOld, 2), "y")

	s.Clear()
	assert.Empty(t, s.All([]string{"a.go", "b.go"}))
	assert.Equal(t, 0, s.Len())

	s.Clear()
	assert.Empty(t, s.All(nil))
}

func TestCommentStore_CountFor(t *testing.T) {
	s := NewCommentStore()
	s.Add(anchor("a.go", model.SideNew, 1), "x")
	s.Add(anchor("a.go", model.SideNew, 2), "y")
	s.Add(anchor("b.go", model.SideNew, 1), "z")

	assert.Equal(t, 2, s.CountFor("a.go"))
	assert.Equal(t, 1, s.CountFor("b.go"))
	assert.Equal(t, 0, s.CountFor("missing.go"))
}
