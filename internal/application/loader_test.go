package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prdeck/internal/domain/model"
	"github.com/ericfisherdev/prdeck/internal/domain/port/driven"
)

type mockGitHubClient struct {
	snap  *model.PRSnapshot
	err   error
	calls int
}

func (m *mockGitHubClient) FetchPullRequest(_ context.Context, _ string, _ int) (*model.PRSnapshot, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.snap, nil
}

type mockSnapshotStore struct {
	puts    []*model.PRSnapshot
	putErr  error
	getSnap *model.PRSnapshot
	getErr  error
	pruned  []time.Duration
	pruneN  int
}

func (m *mockSnapshotStore) Put(_ context.Context, snap *model.PRSnapshot) error {
	m.puts = append(m.puts, snap)
	return m.putErr
}

func (m *mockSnapshotStore) Get(_ context.Context, _ string, _ int) (*model.PRSnapshot, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.getSnap, nil
}

func (m *mockSnapshotStore) Prune(_ context.Context, olderThan time.Duration) (int, error) {
	m.pruned = append(m.pruned, olderThan)
	return m.pruneN, nil
}

func TestLoad_FreshFetchRefreshesCache(t *testing.T) {
	snap := testSnapshot()
	client := &mockGitHubClient{snap: snap}
	store := &mockSnapshotStore{pruneN: 2}
	loader := NewLoader(client, store, 24*time.Hour)

	got, err := loader.Load(context.Background(), "octocat/hello", 42, false)

	require.NoError(t, err)
	assert.Same(t, snap, got)
	require.Len(t, store.puts, 1)
	assert.Same(t, snap, store.puts[0])
	require.Len(t, store.pruned, 1)
	assert.Equal(t, 24*time.Hour, store.pruned[0])
}

func TestLoad_CacheWriteFailureIsNonFatal(t *testing.T) {
	snap := testSnapshot()
	client := &mockGitHubClient{snap: snap}
	store := &mockSnapshotStore{putErr: errors.New("disk full")}
	loader := NewLoader(client, store, time.Hour)

	got, err := loader.Load(context.Background(), "octocat/hello", 42, false)

	require.NoError(t, err)
	assert.Same(t, snap, got)
}

func TestLoad_WithoutCache(t *testing.T) {
	snap := testSnapshot()
	client := &mockGitHubClient{snap: snap}
	loader := NewLoader(client, nil, 0)

	got, err := loader.Load(context.Background(), "octocat/hello", 42, false)

	require.NoError(t, err)
	assert.Same(t, snap, got)
}

func TestLoad_FetchErrorPropagates(t *testing.T) {
	client := &mockGitHubClient{err: driven.ErrNotFound}
	store := &mockSnapshotStore{}
	loader := NewLoader(client, store, time.Hour)

	_, err := loader.Load(context.Background(), "octocat/hello", 42, false)

	require.ErrorIs(t, err, driven.ErrNotFound)
	assert.Empty(t, store.puts)
}

func TestLoad_CachedServesStoredSnapshot(t *testing.T) {
	snap := testSnapshot()
	client := &mockGitHubClient{err: errors.New("network must not be touched")}
	store := &mockSnapshotStore{getSnap: snap}
	loader := NewLoader(client, store, time.Hour)

	got, err := loader.Load(context.Background(), "octocat/hello", 42, true)

	require.NoError(t, err)
	assert.Same(t, snap, got)
	assert.Zero(t, client.calls)
}

func TestLoad_CachedMissSurfacesError(t *testing.T) {
	store := &mockSnapshotStore{getErr: driven.ErrNoSnapshot}
	loader := NewLoader(&mockGitHubClient{}, store, time.Hour)

	_, err := loader.Load(context.Background(), "octocat/hello", 42, true)

	require.ErrorIs(t, err, driven.ErrNoSnapshot)
}

func TestLoad_CachedWithoutStore(t *testing.T) {
	loader := NewLoader(&mockGitHubClient{}, nil, 0)

	_, err := loader.Load(context.Background(), "octocat/hello", 42, true)

	require.ErrorIs(t, err, driven.ErrNoSnapshot)
}
