package review

import (
	"github.com/ericfisherdev/prdeck/internal/domain/model"
	"github.com/ericfisherdev/prdeck/internal/domain/port/driven"
)

// Assemble serializes the accumulated comments plus the chosen verdict into
// the one request the data source submits. Comment order follows
// CommentStore.All. Anchors pass through verbatim: there is no re-resolution
// against the diff, so a stale anchor reaches the host unchanged and comes
// back as a rejection rather than being silently remapped here.
func Assemble(verdict model.Verdict, body string, store *CommentStore, fileOrder []string, headSHA string) driven.ReviewRequest {
	comments := store.All(fileOrder)

	drafts := make([]driven.DraftLineComment, 0, len(comments))
	for _, c := range comments {
		drafts = append(drafts, driven.DraftLineComment{
			Path: c.Anchor.Path,
			Line: c.Anchor.Line,
			Side: apiSide(c.Anchor.Side),
			Body: c.Body,
		})
	}

	return driven.ReviewRequest{
		CommitID: headSHA,
		Event:    verdict.Event(),
		Body:     body,
		Comments: drafts,
	}
}

// apiSide maps an anchor side to the review API's LEFT/RIGHT vocabulary.
func apiSide(s model.Side) string {
	if s == model.SideOld {
		return "LEFT"
	}
	return "RIGHT"
}
