package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ericfisherdev/prdeck/internal/domain/model"
	"github.com/ericfisherdev/prdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SnapshotStore = (*SnapshotRepo)(nil)

// SnapshotRepo is the SQLite implementation of the SnapshotStore port.
// Snapshots are stored whole as JSON payloads keyed by repo and number;
// the columns outside the payload exist only for lookup and pruning.
type SnapshotRepo struct {
	db *DB
}

// NewSnapshotRepo creates a SnapshotRepo backed by the given DB.
func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Put inserts or replaces the snapshot for its pull request.
func (r *SnapshotRepo) Put(ctx context.Context, snap *model.PRSnapshot) error {
	const query = `
		INSERT INTO pr_snapshots (repo_full_name, number, head_sha, fetched_at, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(repo_full_name, number) DO UPDATE SET
			head_sha = excluded.head_sha,
			fetched_at = excluded.fetched_at,
			payload = excluded.payload
	`

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", snap.Ref(), err)
	}

	_, err = r.db.Writer.ExecContext(ctx, query,
		snap.RepoFullName, snap.Number, snap.HeadSHA, snap.FetchedAt.UTC(), string(payload),
	)
	if err != nil {
		return fmt.Errorf("store snapshot %s: %w", snap.Ref(), err)
	}

	return nil
}

// Get returns the stored snapshot for the pull request, or ErrNoSnapshot
// when none has been cached.
func (r *SnapshotRepo) Get(ctx context.Context, repoFullName string, number int) (*model.PRSnapshot, error) {
	const query = `
		SELECT payload
		FROM pr_snapshots
		WHERE repo_full_name = ? AND number = ?
	`

	var payload string
	err := r.db.Reader.QueryRowContext(ctx, query, repoFullName, number).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s#%d: %w", repoFullName, number, driven.ErrNoSnapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s#%d: %w", repoFullName, number, err)
	}

	var snap model.PRSnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s#%d: %w", repoFullName, number, err)
	}

	return &snap, nil
}

// Prune deletes snapshots fetched before the age cutoff and reports how
// many rows were removed.
func (r *SnapshotRepo) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	const query = `DELETE FROM pr_snapshots WHERE fetched_at < ?`

	cutoff := time.Now().Add(-olderThan).UTC()

	res, err := r.db.Writer.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}

	return int(removed), nil
}
