package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/prdeck/internal/domain/model"
	"github.com/ericfisherdev/prdeck/internal/domain/port/driven"
)

// Loader assembles the session's input: a complete pull request snapshot
// from the host or from the local cache. It runs to completion before the
// UI starts, so the session never sees partial data.
type Loader struct {
	client driven.GitHubClient
	cache  driven.SnapshotStore // nil when caching is disabled
	maxAge time.Duration
}

// NewLoader wires a loader. cache may be nil; maxAge bounds how long cached
// snapshots are kept and is ignored when non-positive.
func NewLoader(client driven.GitHubClient, cache driven.SnapshotStore, maxAge time.Duration) *Loader {
	return &Loader{client: client, cache: cache, maxAge: maxAge}
}

// Load fetches the pull request fresh and refreshes the cache. With cached
// set it serves the stored snapshot instead and never touches the network.
// Cache writes are best effort; a failed write logs a warning and the fresh
// snapshot is still returned.
func (l *Loader) Load(ctx context.Context, repoFullName string, number int, cached bool) (*model.PRSnapshot, error) {
	if cached {
		return l.loadCached(ctx, repoFullName, number)
	}

	slog.Info("fetching pull request", "repo", repoFullName, "number", number)

	snap, err := l.client.FetchPullRequest(ctx, repoFullName, number)
	if err != nil {
		return nil, err
	}

	slog.Info("pull request fetched",
		"pr", snap.Ref(),
		"files", len(snap.Files),
		"additions", snap.Additions,
		"deletions", snap.Deletions,
	)

	if l.cache != nil {
		if err := l.cache.Put(ctx, snap); err != nil {
			slog.Warn("snapshot cache write failed", "pr", snap.Ref(), "error", err)
		}
		if l.maxAge > 0 {
			if pruned, err := l.cache.Prune(ctx, l.maxAge); err != nil {
				slog.Warn("snapshot cache prune failed", "error", err)
			} else if pruned > 0 {
				slog.Debug("pruned stale snapshots", "count", pruned)
			}
		}
	}

	return snap, nil
}

func (l *Loader) loadCached(ctx context.Context, repoFullName string, number int) (*model.PRSnapshot, error) {
	if l.cache == nil {
		return nil, driven.ErrNoSnapshot
	}

	snap, err := l.cache.Get(ctx, repoFullName, number)
	if err != nil {
		return nil, fmt.Errorf("loading cached snapshot for %s#%d: %w", repoFullName, number, err)
	}

	slog.Info("serving cached snapshot",
		"pr", snap.Ref(),
		"age", snap.Age().Round(time.Second),
	)
	return snap, nil
}
