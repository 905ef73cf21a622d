package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vietddude/addrwatch/internal/core/domain"
)

// Key helpers
func snapshotsKey(chainID int64) string {
	return fmt.Sprintf("addrwatch:snapshots:%d", chainID)
}

// SnapshotArchive appends configuration snapshots to a Redis list, one list
// per chain id. The list is append-only, matching the in-memory history.
type SnapshotArchive struct {
	client  *Client
	chainID int64
	log     *slog.Logger
}

func NewSnapshotArchive(client *Client, chainID int64, log *slog.Logger) *SnapshotArchive {
	if log == nil {
		log = slog.Default()
	}
	return &SnapshotArchive{client: client, chainID: chainID, log: log}
}

// Append pushes snap to the tail of the list.
func (a *SnapshotArchive) Append(ctx context.Context, snap domain.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := a.client.rdb.RPush(ctx, snapshotsKey(a.chainID), data).Err(); err != nil {
		return fmt.Errorf("rpush failed: %w", err)
	}
	return nil
}

// Load returns every archived snapshot, oldest first. Undecodable entries
// are logged and skipped.
func (a *SnapshotArchive) Load(ctx context.Context) ([]domain.Snapshot, error) {
	raw, err := a.client.rdb.LRange(ctx, snapshotsKey(a.chainID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange failed: %w", err)
	}

	snaps, bad := decodeSnapshots(raw)
	for _, idx := range bad {
		a.log.Warn("skipping undecodable archived snapshot", "index", idx, "key", snapshotsKey(a.chainID))
	}
	return snaps, nil
}

func encodeSnapshot(snap domain.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot %s: %w", snap.ID, err)
	}
	return data, nil
}

func decodeSnapshots(raw []string) (snaps []domain.Snapshot, bad []int) {
	snaps = make([]domain.Snapshot, 0, len(raw))
	for i, s := range raw {
		var snap domain.Snapshot
		if err := json.Unmarshal([]byte(s), &snap); err != nil || snap.ID == "" {
			bad = append(bad, i)
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps, bad
}
