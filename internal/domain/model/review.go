package model

// Verdict is the overall decision accompanying a review submission.
type Verdict string

const (
	VerdictApprove        Verdict = "approve"
	VerdictRequestChanges Verdict = "request_changes"
	VerdictCommentOnly    Verdict = "comment"
)

// Event returns the review event string the GitHub API expects.
func (v Verdict) Event() string {
	switch v {
	case VerdictApprove:
		return "APPROVE"
	case VerdictRequestChanges:
		return "REQUEST_CHANGES"
	default:
		return "COMMENT"
	}
}

// Label returns the human-readable form shown in the verdict picker.
func (v Verdict) Label() string {
	switch v {
	case VerdictApprove:
		return "Approve"
	case VerdictRequestChanges:
		return "Request changes"
	default:
		return "Comment only"
	}
}

// Verdicts lists all verdicts in picker order.
func Verdicts() []Verdict {
	return []Verdict{VerdictApprove, VerdictRequestChanges, VerdictCommentOnly}
}
