package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prdeck/internal/domain/model"
)

func TestAssemble_RoundTrip(t *testing.T) {
	s := NewCommentStore()
	fileOrder := []string{"cmd/main.go", "internal/util.go"}

	s.Add(anchor("internal/util.go", model.SideNew, 14), "rename this")
	s.Add(anchor("cmd/main.go", model.SideOld, 3), "why removed?")
	s.Add(anchor("cmd/main.go", model.SideNew, 7), "nit: spacing")

	req := Assemble(model.VerdictRequestChanges, "see inline notes", s, fileOrder, "abc123")

	assert.Equal(t, "REQUEST_CHANGES", req.Event)
	assert.Equal(t, "see inline notes", req.Body)
	assert.Equal(t, "abc123", req.CommitID)
	require.Len(t, req.Comments, 3)

	// File order then within-file order; sides map to LEFT/RIGHT.
	assert.Equal(t, "cmd/main.go", req.Comments[0].Path)
	assert.Equal(t, "LEFT", req.Comments[0].Side)
	assert.Equal(t, 3, req.Comments[0].Line)

	assert.Equal(t, "cmd/main.go", req.Comments[1].Path)
	assert.Equal(t, "RIGHT", req.Comments[1].Side)
	assert.Equal(t, 7, req.Comments[1].Line)

	assert.Equal(t, "internal/util.go", req.Comments[2].Path)
	assert.Equal(t, "RIGHT", req.Comments[2].Side)
	assert.Equal(t, 14, req.Comments[2].Line)
	assert.Equal(t, "rename this", req.Comments[2].Body)
}

func TestAssemble_VerdictEvents(t *testing.T) {
	s := NewCommentStore()

	cases := []struct {
		verdict model.Verdict
		event   string
	}{
		{model.VerdictApprove, "APPROVE"},
		{model.VerdictRequestChanges, "REQUEST_CHANGES"},
		{model.VerdictCommentOnly, "COMMENT"},
	}

	for _, tc := range cases {
		req := Assemble(tc.verdict, "", s, nil, "sha")
		assert.Equal(t, tc.event, req.Event, "verdict %s", tc.verdict)
	}
}

func TestAssemble_EmptyStore(t *testing.T) {
	s := NewCommentStore()

	req := Assemble(model.VerdictApprove, "lgtm", s, []string{"a.go"}, "deadbeef")

	assert.Empty(t, req.Comments)
	assert.Equal(t, "APPROVE", req.Event)
	assert.Equal(t, "lgtm", req.Body)
}

func TestAssemble_AnchorsPassThroughVerbatim(t *testing.T) {
	s := NewCommentStore()
	// A line number far outside any plausible diff still goes through; the
	// host, not the assembler, decides whether it is valid.
	s.Add(anchor("a.go", model.SideNew, 100000), "stale")

	req := Assemble(model.VerdictCommentOnly, "", s, []string{"a.go"}, "sha")

	require.Len(t, req.Comments, 1)
	assert.Equal(t, 100000, req.Comments[0].Line)
}
