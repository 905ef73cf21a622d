package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/addrwatch/internal/core/domain"
	"github.com/vietddude/addrwatch/internal/indexing/metrics"
)

// BlockHeightFetcher fetches the latest block height.
type BlockHeightFetcher interface {
	GetLatestBlock(ctx context.Context) (uint64, error)
}

// Monitor owns the ConnectivityState. Nothing else writes it.
type Monitor struct {
	fetcher  BlockHeightFetcher
	interval time.Duration
	log      *slog.Logger

	mu                  sync.RWMutex
	state               domain.ConnectivityState
	lastChangeAt        time.Time
	consecutiveFailures int
	lastErr             string
	onChange            func(prev, next domain.ConnectivityState)
}

// NewMonitor creates a monitor that starts offline.
func NewMonitor(fetcher BlockHeightFetcher, interval time.Duration, log *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Monitor{
		fetcher:  fetcher,
		interval: interval,
		log:      log,
		state:    domain.ConnectivityState{Status: domain.StatusOffline},
	}
}

// SetStatusChangeCallback registers a callback for online/offline transitions.
func (m *Monitor) SetStatusChangeCallback(fn func(prev, next domain.ConnectivityState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Run probes immediately, then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check probes the endpoint once and returns the resulting state.
func (m *Monitor) Check(ctx context.Context) domain.ConnectivityState {
	height, err := m.fetcher.GetLatestBlock(ctx)
	if err != nil && ctx.Err() != nil {
		// Shutdown, not an endpoint failure.
		return m.State()
	}

	m.mu.Lock()
	prev := m.state
	next := prev
	next.CheckedAt = time.Now()

	if err != nil {
		next.Status = domain.StatusOffline
		m.consecutiveFailures++
		m.lastErr = err.Error()
	} else {
		next.Status = domain.StatusOnline
		next.LastKnownHeight = height
		m.consecutiveFailures = 0
		m.lastErr = ""
	}

	changed := prev.Status != next.Status
	if changed {
		m.lastChangeAt = next.CheckedAt
	}
	m.state = next
	cb := m.onChange
	m.mu.Unlock()

	if err == nil {
		metrics.ChainLatestBlock.Set(float64(height))
		metrics.ConnectivityOnline.Set(1)
	} else {
		metrics.ConnectivityOnline.Set(0)
	}

	if changed {
		if next.Status == domain.StatusOnline {
			m.log.Info("rpc endpoint online", "height", next.LastKnownHeight)
		} else {
			m.log.Warn("rpc endpoint offline", "error", err, "last_height", next.LastKnownHeight)
		}
		if cb != nil {
			cb(prev, next)
		}
	} else if err != nil {
		m.log.Debug("probe failed", "error", err, "failures", m.failures())
	}

	return next
}

func (m *Monitor) failures() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.consecutiveFailures
}

// State returns the current connectivity state.
func (m *Monitor) State() domain.ConnectivityState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Online reports whether the last probe succeeded.
func (m *Monitor) Online() bool {
	return m.State().Status == domain.StatusOnline
}

// Report returns the detailed view including failure bookkeeping.
func (m *Monitor) Report() Report {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Report{
		Status:              m.state.Status,
		LastKnownHeight:     m.state.LastKnownHeight,
		CheckedAt:           m.state.CheckedAt,
		LastChangeAt:        m.lastChangeAt,
		ConsecutiveFailures: m.consecutiveFailures,
		LastError:           m.lastErr,
	}
}
