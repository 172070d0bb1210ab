package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prdeck/internal/domain/model"
	"github.com/ericfisherdev/prdeck/internal/domain/port/driven"
)

func sampleSnapshot(fetchedAt time.Time) *model.PRSnapshot {
	return &model.PRSnapshot{
		RepoFullName: "octocat/hello",
		Number:       42,
		Title:        "Tighten the widget loop",
		Author:       "alice",
		State:        model.PRStateOpen,
		URL:          "https://github.com/octocat/hello/pull/42",
		Branch:       "widget-loop",
		BaseBranch:   "main",
		HeadSHA:      "abc123def",
		Additions:    2,
		Deletions:    1,
		FetchedAt:    fetchedAt,
		Files: []model.ChangedFile{
			{
				Path:      "cmd/app/main.go",
				Status:    model.FileModified,
				Additions: 2,
				Deletions: 1,
				Patch:     "@@ -1,2 +1,3 @@\n context\n-old\n+new1\n+new2",
			},
			{
				Path:         "pkg/new_name.go",
				PreviousPath: "pkg/old_name.go",
				Status:       model.FileRenamed,
			},
		},
	}
}

func TestSnapshotRepo_PutGetRoundTrip(t *testing.T) {
	repo := NewSnapshotRepo(setupTestDB(t))
	ctx := context.Background()

	fetched := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.Put(ctx, sampleSnapshot(fetched)))

	got, err := repo.Get(ctx, "octocat/hello", 42)
	require.NoError(t, err)

	assert.Equal(t, "octocat/hello", got.RepoFullName)
	assert.Equal(t, 42, got.Number)
	assert.Equal(t, "Tighten the widget loop", got.Title)
	assert.Equal(t, model.PRStateOpen, got.State)
	assert.Equal(t, "abc123def", got.HeadSHA)
	assert.True(t, fetched.Equal(got.FetchedAt), "fetched_at survived the round trip")

	require.Len(t, got.Files, 2)
	assert.Equal(t, "@@ -1,2 +1,3 @@\n context\n-old\n+new1\n+new2", got.Files[0].Patch)
	assert.Equal(t, model.FileRenamed, got.Files[1].Status)
	assert.Equal(t, "pkg/old_name.go", got.Files[1].PreviousPath)
}

func TestSnapshotRepo_GetMissing(t *testing.T) {
	repo := NewSnapshotRepo(setupTestDB(t))

	_, err := repo.Get(context.Background(), "octocat/hello", 9999)

	require.ErrorIs(t, err, driven.ErrNoSnapshot)
}

func TestSnapshotRepo_PutReplacesExisting(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	first := sampleSnapshot(time.Now().UTC())
	require.NoError(t, repo.Put(ctx, first))

	second := sampleSnapshot(time.Now().UTC())
	second.Title = "Tighten the widget loop (rebased)"
	second.HeadSHA = "fresh456"
	require.NoError(t, repo.Put(ctx, second))

	got, err := repo.Get(ctx, "octocat/hello", 42)
	require.NoError(t, err)
	assert.Equal(t, "Tighten the widget loop (rebased)", got.Title)
	assert.Equal(t, "fresh456", got.HeadSHA)

	var count int
	require.NoError(t, db.Reader.QueryRow("SELECT COUNT(*) FROM pr_snapshots").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSnapshotRepo_PruneRemovesStaleOnly(t *testing.T) {
	repo := NewSnapshotRepo(setupTestDB(t))
	ctx := context.Background()

	stale := sampleSnapshot(time.Now().Add(-48 * time.Hour).UTC())
	stale.Number = 7
	require.NoError(t, repo.Put(ctx, stale))

	fresh := sampleSnapshot(time.Now().UTC())
	require.NoError(t, repo.Put(ctx, fresh))

	removed, err := repo.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = repo.Get(ctx, "octocat/hello", 7)
	assert.ErrorIs(t, err, driven.ErrNoSnapshot)

	_, err = repo.Get(ctx, "octocat/hello", 42)
	assert.NoError(t, err)
}

func TestSnapshotRepo_PruneEmpty(t *testing.T) {
	repo := NewSnapshotRepo(setupTestDB(t))

	removed, err := repo.Prune(context.Background(), time.Hour)

	require.NoError(t, err)
	assert.Zero(t, removed)
}
