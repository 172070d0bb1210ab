package driven

import (
	"context"
	"errors"
	"time"

	"github.com/ericfisherdev/prdeck/internal/domain/model"
)

// ErrNoSnapshot is returned by SnapshotStore.Get when nothing is cached for
// the requested pull request.
var ErrNoSnapshot = errors.New("no cached snapshot")

// SnapshotStore caches fetched PR snapshots so a session can be started
// without the network. Only fetched data lives here; draft comments are
// never persisted.
type SnapshotStore interface {
	// Put stores the snapshot, replacing any previous one for the same
	// pull request.
	Put(ctx context.Context, snap *model.PRSnapshot) error

	// Get returns the stored snapshot or ErrNoSnapshot.
	Get(ctx context.Context, repoFullName string, number int) (*model.PRSnapshot, error)

	// Prune removes snapshots older than the given age and reports how
	// many were removed.
	Prune(ctx context.Context, olderThan time.Duration) (int, error)
}
