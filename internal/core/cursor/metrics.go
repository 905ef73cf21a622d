package cursor

import (
	"time"
)

// blockRecord holds timing data for a cursor advance.
type blockRecord struct {
	BlockNumber uint64
	ProcessedAt time.Time
}

// Metrics holds cursor performance data.
type Metrics struct {
	BlocksPerSecond  float64       `json:"blocks_per_second"`
	AverageBlockTime time.Duration `json:"average_block_time"`
	LastAdvanceAt    *time.Time    `json:"last_advance_at,omitempty"`
	StateHistory     []Transition  `json:"state_history"`
}

// MetricsCollector tracks cursor performance over time. Not safe for
// concurrent use; Cursor serializes access.
type MetricsCollector struct {
	windowSize  int           // number of advances to track
	blockTimes  []blockRecord // ring buffer of advance records
	transitions []Transition  // recent state changes
}

// NewMetricsCollector keeps the last windowSize advances.
func NewMetricsCollector(windowSize int) *MetricsCollector {
	if windowSize < 2 {
		windowSize = 2
	}
	return &MetricsCollector{
		windowSize: windowSize,
		blockTimes: make([]blockRecord, 0, windowSize),
	}
}

// RecordBlock records the time the cursor reached blockNumber.
func (mc *MetricsCollector) RecordBlock(blockNumber uint64, processedAt time.Time) {
	record := blockRecord{
		BlockNumber: blockNumber,
		ProcessedAt: processedAt,
	}

	if len(mc.blockTimes) >= mc.windowSize {
		// Shift elements left, drop oldest
		copy(mc.blockTimes, mc.blockTimes[1:])
		mc.blockTimes[len(mc.blockTimes)-1] = record
	} else {
		mc.blockTimes = append(mc.blockTimes, record)
	}
}

// RecordTransition records a state transition.
func (mc *MetricsCollector) RecordTransition(t Transition) {
	// Keep only last 10 transitions
	if len(mc.transitions) >= 10 {
		copy(mc.transitions, mc.transitions[1:])
		mc.transitions[len(mc.transitions)-1] = t
	} else {
		mc.transitions = append(mc.transitions, t)
	}
}

// GetMetrics returns current metrics.
func (mc *MetricsCollector) GetMetrics() Metrics {
	m := Metrics{
		StateHistory: make([]Transition, len(mc.transitions)),
	}
	copy(m.StateHistory, mc.transitions)

	if n := len(mc.blockTimes); n > 0 {
		at := mc.blockTimes[n-1].ProcessedAt
		m.LastAdvanceAt = &at
	}

	// The cursor jumps by whole windows, so rate is blocks covered over time.
	if len(mc.blockTimes) >= 2 {
		first := mc.blockTimes[0]
		last := mc.blockTimes[len(mc.blockTimes)-1]
		duration := last.ProcessedAt.Sub(first.ProcessedAt)
		blocks := float64(last.BlockNumber - first.BlockNumber)

		if duration > 0 && blocks > 0 {
			m.BlocksPerSecond = blocks / duration.Seconds()
			m.AverageBlockTime = time.Duration(float64(duration) / blocks)
		}
	}

	return m
}

// Reset clears all collected metrics.
func (mc *MetricsCollector) Reset() {
	mc.blockTimes = mc.blockTimes[:0]
	mc.transitions = mc.transitions[:0]
}
