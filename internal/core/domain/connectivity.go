package domain

import "time"

type ConnectivityStatus string

const (
	StatusOnline  ConnectivityStatus = "online"
	StatusOffline ConnectivityStatus = "offline"
)

// ConnectivityState is the last observed endpoint reachability.
type ConnectivityState struct {
	Status          ConnectivityStatus `json:"status"`
	LastKnownHeight uint64             `json:"last_known_height"`
	CheckedAt       time.Time          `json:"checked_at"`
}
