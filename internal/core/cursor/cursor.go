// Package cursor tracks how far the scanner has read the chain.
//
// # Purpose
//
// The cursor is the "bookmark" of the scan engine:
//   - Block: the highest block already scanned for matches (0 = never scanned)
//   - State: whether a tick is currently in flight
//
// # Key Features
//
// Monotonic - Advance never moves the cursor backwards, whatever order
// concurrent callers arrive in.
//
// Re-entrancy Guard - TryBegin flips Idle → Scanning atomically. A tick that
// finds the cursor already Scanning must skip instead of interleaving:
//
//	IDLE → SCANNING → IDLE (valid)
//	SCANNING → SCANNING (rejected, tick skipped)
//
// # Quick Start
//
//	c := cursor.New()
//	if !c.TryBegin("tick") {
//	    return // previous tick still running
//	}
//	defer c.End("tick done")
//	c.Advance(height)
package cursor

import (
	"sync"
	"sync/atomic"
	"time"
)

// Cursor is safe for concurrent use.
type Cursor struct {
	block    atomic.Uint64
	scanning atomic.Bool

	mu            sync.Mutex
	metrics       *MetricsCollector
	stateCallback func(Transition)
}

// New creates a cursor at block 0 in the Idle state.
func New() *Cursor {
	return &Cursor{metrics: NewMetricsCollector(100)}
}

// Block returns the highest scanned block.
func (c *Cursor) Block() uint64 {
	return c.block.Load()
}

// Advance moves the cursor to block if that is ahead of the current position.
// It reports whether the cursor moved.
func (c *Cursor) Advance(block uint64) bool {
	for {
		cur := c.block.Load()
		if block <= cur {
			return false
		}
		if c.block.CompareAndSwap(cur, block) {
			c.mu.Lock()
			c.metrics.RecordBlock(block, time.Now())
			c.mu.Unlock()
			return true
		}
	}
}

// State returns the guard state.
func (c *Cursor) State() State {
	if c.scanning.Load() {
		return StateScanning
	}
	return StateIdle
}

// TryBegin enters Scanning. It returns false when a tick is already in flight.
func (c *Cursor) TryBegin(reason string) bool {
	if !c.scanning.CompareAndSwap(false, true) {
		return false
	}
	c.record(NewTransition(StateIdle, StateScanning, reason))
	return true
}

// End returns to Idle. Calling End while Idle returns ErrInvalidTransition.
func (c *Cursor) End(reason string) error {
	if !c.scanning.CompareAndSwap(true, false) {
		return ErrInvalidTransition
	}
	c.record(NewTransition(StateScanning, StateIdle, reason))
	return nil
}

func (c *Cursor) record(t Transition) {
	c.mu.Lock()
	c.metrics.RecordTransition(t)
	cb := c.stateCallback
	c.mu.Unlock()

	if cb != nil {
		cb(t)
	}
}

// SetStateChangeCallback registers a callback for state changes.
func (c *Cursor) SetStateChangeCallback(fn func(Transition)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stateCallback = fn
}

// Metrics returns scan throughput and recent transitions.
func (c *Cursor) Metrics() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics.GetMetrics()
}
