package github

import (
	"context"
	"fmt"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/prdeck/internal/domain/model"
)

// FetchPullRequest retrieves one pull request and its full changed-file
// list, paginating until every file is in hand. The snapshot is complete or
// the call fails; it never returns partial data.
func (c *Client) FetchPullRequest(ctx context.Context, repoFullName string, number int) (*model.PRSnapshot, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, mapAPIError(fmt.Sprintf("fetching %s#%d", repoFullName, number), err)
	}

	logRateLimit(resp, repoFullName+"/pull", 0, 1)

	snap := mapSnapshot(pr, repoFullName)

	opts := &gh.ListOptions{PerPage: 100}
	for {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, mapAPIError(
				fmt.Sprintf("listing files for %s#%d (page %d)", repoFullName, number, opts.Page), err)
		}

		logRateLimit(resp, repoFullName+"/files", opts.Page, len(files))

		for _, f := range files {
			snap.Files = append(snap.Files, mapChangedFile(f))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if snap.Files == nil {
		snap.Files = []model.ChangedFile{}
	}
	snap.FetchedAt = time.Now().UTC()

	return snap, nil
}

// mapSnapshot converts a go-github PullRequest to a domain snapshot. It
// uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapSnapshot(pr *gh.PullRequest, repoFullName string) *model.PRSnapshot {
	state := model.PRStateOpen
	if !pr.GetMergedAt().IsZero() {
		state = model.PRStateMerged
	} else if pr.GetState() == "closed" {
		state = model.PRStateClosed
	}

	return &model.PRSnapshot{
		RepoFullName: repoFullName,
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		Author:       pr.GetUser().GetLogin(),
		State:        state,
		IsDraft:      pr.GetDraft(),
		URL:          pr.GetHTMLURL(),
		Branch:       pr.GetHead().GetRef(),
		BaseBranch:   pr.GetBase().GetRef(),
		HeadSHA:      pr.GetHead().GetSHA(),
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
	}
}

// mapChangedFile converts a go-github CommitFile to a domain changed file.
// GitHub omits the patch for binary and oversized files; those arrive with
// an empty Patch and render as placeholders.
func mapChangedFile(f *gh.CommitFile) model.ChangedFile {
	return model.ChangedFile{
		Path:         f.GetFilename(),
		PreviousPath: f.GetPreviousFilename(),
		Status:       mapFileStatus(f.GetStatus()),
		Additions:    f.GetAdditions(),
		Deletions:    f.GetDeletions(),
		Patch:        f.GetPatch(),
	}
}

// mapFileStatus folds GitHub's file status vocabulary onto the domain's.
// "copied" and "changed" count as modifications.
func mapFileStatus(s string) model.FileStatus {
	switch s {
	case "added":
		return model.FileAdded
	case "removed":
		return model.FileDeleted
	case "renamed":
		return model.FileRenamed
	default:
		return model.FileModified
	}
}
