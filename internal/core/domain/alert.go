package domain

import "time"

// AlertKind classifies an alert.
type AlertKind string

const (
	AlertKindIncoming AlertKind = "INCOMING"
	AlertKindOutgoing AlertKind = "OUTGOING"
	AlertKindWhale    AlertKind = "WHALE"
	AlertKindSystem   AlertKind = "SYSTEM"
	AlertKindError    AlertKind = "ERROR"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Alert is an immutable record surfaced on the alert feed.
type Alert struct {
	ID          string    `json:"id"`
	Kind        AlertKind `json:"kind"`
	Message     string    `json:"message"`
	ValueNative string    `json:"value_native"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Timestamp   time.Time `json:"timestamp"`
	Severity    Severity  `json:"severity"`
	TxHash      string    `json:"tx_hash,omitempty"`
	BlockNumber uint64    `json:"block_number,omitempty"`
}
