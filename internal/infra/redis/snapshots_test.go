package redis

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietddude/addrwatch/internal/core/domain"
)

func TestSnapshotsKey(t *testing.T) {
	if got := snapshotsKey(143); got != "addrwatch:snapshots:143" {
		t.Errorf("unexpected key %s", got)
	}
}

func TestSnapshotEncoding(t *testing.T) {
	snap := domain.Snapshot{
		ID:        "snap-1",
		Name:      "Checkpoint",
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Configuration: domain.Configuration{
			RPCEndpoint:          "https://rpc.monad.xyz",
			WhaleThresholdNative: decimal.RequireFromString("12.5"),
			ScanIntervalMs:       5000,
		},
	}

	data, err := encodeSnapshot(snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	snaps, bad := decodeSnapshots([]string{string(data), "not json", `{"name":"no id"}`})
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}
	if len(bad) != 2 || bad[0] != 1 || bad[1] != 2 {
		t.Errorf("expected entries 1 and 2 rejected, got %v", bad)
	}

	got := snaps[0]
	if got.ID != "snap-1" || got.Name != "Checkpoint" || !got.CreatedAt.Equal(snap.CreatedAt) {
		t.Errorf("unexpected snapshot %+v", got)
	}
	if !got.Configuration.WhaleThresholdNative.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("threshold lost in round trip: %s", got.Configuration.WhaleThresholdNative)
	}
}

func TestNewClient_BadURL(t *testing.T) {
	if _, err := NewClient(context.Background(), Config{URL: "://nope"}); err == nil {
		t.Error("expected parse error")
	}
}

func TestNewClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if _, err := NewClient(ctx, Config{URL: "redis://127.0.0.1:1/0"}); err == nil {
		t.Error("expected connection error")
	}
}
