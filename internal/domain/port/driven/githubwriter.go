package driven

import "context"

// DraftLineComment is one inline comment in a review submission.
type DraftLineComment struct {
	Path string // File path relative to repository root.
	Line int    // Source line number (interpreted on Side).
	Side string // "RIGHT" for new content, "LEFT" for old content.
	Body string // Comment body text.
}

// ReviewRequest is the input to GitHubWriter.SubmitReview.
type ReviewRequest struct {
	CommitID string             // Head SHA to attach the review to.
	Event    string             // "APPROVE", "REQUEST_CHANGES", or "COMMENT".
	Body     string             // Top-level review body.
	Comments []DraftLineComment // Inline comments in submission order.
}

// RejectedError reports a submission the host refused: stale line
// references, missing permissions, or validation failures. The session
// treats every rejection as retryable.
type RejectedError struct {
	Reason string
	Err    error
}

func (e *RejectedError) Error() string {
	return "review rejected: " + e.Reason
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

// GitHubWriter defines the driven port for GitHub write operations. It is
// intentionally separate from GitHubClient (read operations) following the
// Interface Segregation Principle.
type GitHubWriter interface {
	// SubmitReview creates the pull request review in one call. The review
	// lands whole or not at all; failures are *RejectedError or an error
	// wrapping ErrNetwork.
	SubmitReview(ctx context.Context, repoFullName string, prNumber int, req ReviewRequest) error
}
