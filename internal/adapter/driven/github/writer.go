package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/prdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubWriter = (*Client)(nil)

// SubmitReview creates a pull request review with its inline comments in a
// single call. If the CommitID in req is empty, the current PR head SHA is
// fetched first to avoid submitting against a stale commit. A 422 from the
// host comes back as a *driven.RejectedError so the caller can keep the
// draft and retry.
func (c *Client) SubmitReview(ctx context.Context, repoFullName string, prNumber int, req driven.ReviewRequest) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	commitID := req.CommitID
	if commitID == "" {
		pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, prNumber)
		if err != nil {
			return mapAPIError(fmt.Sprintf("fetching head SHA for %s#%d", repoFullName, prNumber), err)
		}
		commitID = pr.GetHead().GetSHA()
	}

	var draftComments []*gh.DraftReviewComment
	for _, dlc := range req.Comments {
		draftComments = append(draftComments, &gh.DraftReviewComment{
			Path: gh.Ptr(dlc.Path),
			Body: gh.Ptr(dlc.Body),
			Line: gh.Ptr(dlc.Line),
			Side: gh.Ptr(dlc.Side),
		})
	}

	reviewReq := &gh.PullRequestReviewRequest{
		CommitID: gh.Ptr(commitID),
		Event:    gh.Ptr(req.Event),
		Comments: draftComments,
	}

	// Only set Body if non-empty or the event requires one.
	if req.Body != "" || req.Event != "APPROVE" {
		reviewReq.Body = gh.Ptr(req.Body)
	}

	_, resp, err := c.gh.PullRequests.CreateReview(ctx, owner, repo, prNumber, reviewReq)
	if err != nil {
		var ghErr *gh.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil &&
			ghErr.Response.StatusCode == http.StatusUnprocessableEntity {
			return &driven.RejectedError{Reason: rejectionReason(ghErr), Err: err}
		}
		return mapAPIError(fmt.Sprintf("submitting review for %s#%d", repoFullName, prNumber), err)
	}

	logRateLimit(resp, repoFullName+"/create-review", 0, len(draftComments))
	return nil
}

// rejectionReason condenses a 422 response into the one line shown on the
// status bar. GitHub puts the useful part either in the top-level message
// or in the per-field error entries.
func rejectionReason(ghErr *gh.ErrorResponse) string {
	parts := make([]string, 0, 2)
	if m := strings.TrimSpace(ghErr.Message); m != "" {
		parts = append(parts, m)
	}
	for _, detail := range ghErr.Errors {
		if m := strings.TrimSpace(detail.Message); m != "" {
			parts = append(parts, m)
			break
		}
	}
	if len(parts) == 0 {
		return "review was not accepted"
	}
	return strings.Join(parts, ": ")
}
