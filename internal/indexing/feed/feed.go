// Package feed keeps the bounded, newest-first list of alerts and fans new
// alerts out to sinks and subscribers.
package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vietddude/addrwatch/internal/core/domain"
	"github.com/vietddude/addrwatch/internal/indexing/metrics"
)

// DefaultCapacity is the number of alerts kept.
const DefaultCapacity = 50

// Sink receives every alert accepted by the feed.
type Sink interface {
	Emit(ctx context.Context, alert domain.Alert) error
}

// Feed is safe for concurrent use.
type Feed struct {
	mu       sync.RWMutex
	alerts   []domain.Alert // newest first
	ids      map[string]struct{}
	capacity int

	sinks []Sink

	subMu   sync.Mutex
	subs    map[int]chan domain.Alert
	nextSub int

	log *slog.Logger
}

// New creates a feed holding at most capacity alerts.
func New(capacity int, log *slog.Logger, sinks ...Sink) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if log == nil {
		log = slog.Default()
	}
	return &Feed{
		alerts:   make([]domain.Alert, 0, capacity),
		ids:      make(map[string]struct{}, capacity),
		capacity: capacity,
		sinks:    sinks,
		subs:     make(map[int]chan domain.Alert),
		log:      log,
	}
}

// Push prepends alert, evicting the oldest beyond capacity. An alert whose
// ID is already in the feed is dropped and Push returns false.
func (f *Feed) Push(ctx context.Context, alert domain.Alert) bool {
	f.mu.Lock()
	if _, dup := f.ids[alert.ID]; dup {
		f.mu.Unlock()
		return false
	}

	if len(f.alerts) >= f.capacity {
		for _, evicted := range f.alerts[f.capacity-1:] {
			delete(f.ids, evicted.ID)
		}
		f.alerts = f.alerts[:f.capacity-1]
	}
	f.alerts = append(f.alerts, domain.Alert{})
	copy(f.alerts[1:], f.alerts)
	f.alerts[0] = alert
	f.ids[alert.ID] = struct{}{}
	f.mu.Unlock()

	metrics.AlertsEmitted.WithLabelValues(string(alert.Kind)).Inc()

	for _, s := range f.sinks {
		if err := s.Emit(ctx, alert); err != nil {
			f.log.Warn("alert sink failed", "alert", alert.ID, "error", err)
		}
	}
	f.broadcast(alert)
	return true
}

// List returns the alerts newest first.
func (f *Feed) List() []domain.Alert {
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := make([]domain.Alert, len(f.alerts))
	copy(result, f.alerts)
	return result
}

// Len returns the number of alerts held.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.alerts)
}

// Clear removes every alert.
func (f *Feed) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.alerts = f.alerts[:0]
	f.ids = make(map[string]struct{}, f.capacity)
}

// Subscribe returns a channel receiving every alert pushed from now on and a
// cancel func that closes it. Slow subscribers miss alerts rather than block
// Push.
func (f *Feed) Subscribe(buffer int) (<-chan domain.Alert, func()) {
	if buffer <= 0 {
		buffer = f.capacity
	}
	ch := make(chan domain.Alert, buffer)

	f.subMu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = ch
	f.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.subMu.Lock()
			delete(f.subs, id)
			f.subMu.Unlock()
			close(ch)
		})
	}
}

func (f *Feed) broadcast(alert domain.Alert) {
	f.subMu.Lock()
	defer f.subMu.Unlock()

	for id, ch := range f.subs {
		select {
		case ch <- alert:
		default:
			f.log.Debug("subscriber lagging, alert dropped", "subscriber", id, "alert", alert.ID)
		}
	}
}
