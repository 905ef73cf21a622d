package settings

import (
	"errors"
	"fmt"

	"github.com/vietddude/addrwatch/internal/core/domain"
)

// ErrSnapshotNotFound is returned by Restore for an unknown snapshot id.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ConfigurationError reports a configuration field that failed validation.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// Validate checks the invariants every current configuration must hold.
func Validate(cfg domain.Configuration) error {
	switch {
	case cfg.RPCEndpoint == "":
		return &ConfigurationError{Field: "rpc_endpoint", Reason: "must not be empty"}
	case cfg.ScanIntervalMs <= 0:
		return &ConfigurationError{Field: "scan_interval_ms", Reason: "must be positive"}
	case cfg.WhaleThresholdNative.IsNegative():
		return &ConfigurationError{Field: "whale_threshold_native", Reason: "must not be negative"}
	case cfg.ChainID < 0:
		return &ConfigurationError{Field: "chain_id", Reason: "must not be negative"}
	}
	return nil
}
