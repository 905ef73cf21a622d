// Package health tracks whether the RPC endpoint is reachable.
//
// The Monitor probes eth_blockNumber once at startup and then on a fixed
// interval. A successful probe marks the endpoint online and records the
// height; any failure marks it offline and keeps the last known height.
// The scan engine reads the status to decide whether to run at all.
package health

import (
	"time"

	"github.com/vietddude/addrwatch/internal/core/domain"
)

// DefaultProbeInterval is the fixed delay between probes. There is no backoff.
const DefaultProbeInterval = 10 * time.Second

// Report is the detailed health view served on /health/detailed.
type Report struct {
	Status              domain.ConnectivityStatus `json:"status"`
	LastKnownHeight     uint64                    `json:"last_known_height"`
	CheckedAt           time.Time                 `json:"checked_at"`
	LastChangeAt        time.Time                 `json:"last_change_at"`
	ConsecutiveFailures int                       `json:"consecutive_failures"`
	LastError           string                    `json:"last_error,omitempty"`
}
