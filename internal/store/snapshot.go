package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// snapshotRepo implements SnapshotRepo over raw SQL. Snapshot payloads
// are stored as JSON so the schema survives field additions.
type snapshotRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *snapshotRepo) Save(ctx context.Context, data SnapshotData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	blob, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO snapshots (sequence, data) VALUES (?, ?)`,
		seqNum, string(blob),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	var blob string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, sequence, timestamp, data FROM snapshots ORDER BY sequence DESC LIMIT 1`,
	).Scan(&snap.ID, &snap.Sequence, &snap.Timestamp, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(blob), &snap.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return &snap, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY sequence DESC LIMIT ?
		)`, keep,
	)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
