package domain

import (
	"time"
)

// WatchedAddress represents a monitored wallet address.
type WatchedAddress struct {
	Address         string      `json:"address"`
	Label           string      `json:"label"`
	Status          WatchStatus `json:"status"`
	LastActiveBlock uint64      `json:"last_active_block,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

type WatchStatus string

const (
	WatchStatusActive WatchStatus = "active"
	WatchStatusIdle   WatchStatus = "idle"
)
