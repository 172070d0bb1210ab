package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/prdeck/internal/domain/model"
)

// Fetch failure taxonomy. The adapter maps transport and API failures onto
// these sentinels so the startup path can report each case precisely.
var (
	ErrNotFound     = errors.New("pull request not found")
	ErrAuthRequired = errors.New("github authentication required")
	ErrNetwork      = errors.New("github unreachable")
)

// GitHubClient defines the driven port for reading pull request data.
type GitHubClient interface {
	// FetchPullRequest returns the complete snapshot for one pull request:
	// metadata, head SHA, and every changed file with its patch. It never
	// returns partial data; the fetch either succeeds whole or fails with
	// an error wrapping ErrNotFound, ErrAuthRequired, or ErrNetwork.
	FetchPullRequest(ctx context.Context, repoFullName string, number int) (*model.PRSnapshot, error)
}
