package domain

// ScanState is the state of the scan guard.
type ScanState string

const (
	ScanStateIdle     ScanState = "idle"
	ScanStateScanning ScanState = "scanning"
)
