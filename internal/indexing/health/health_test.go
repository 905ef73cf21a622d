package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietddude/addrwatch/internal/core/domain"
)

// =============================================================================
// Mocks
// =============================================================================

type mockFetcher struct {
	mu     sync.Mutex
	height uint64
	err    error
	calls  atomic.Int32
}

func (m *mockFetcher) GetLatestBlock(ctx context.Context) (uint64, error) {
	m.calls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.height, m.err
}

func (m *mockFetcher) set(height uint64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.height, m.err = height, err
}

// =============================================================================
// Monitor Tests
// =============================================================================

func TestMonitor_StartsOffline(t *testing.T) {
	m := NewMonitor(&mockFetcher{}, time.Second, nil)

	if m.Online() {
		t.Error("expected monitor to start offline")
	}
	if m.State().LastKnownHeight != 0 {
		t.Errorf("expected no height, got %d", m.State().LastKnownHeight)
	}
}

func TestMonitor_Check(t *testing.T) {
	fetcher := &mockFetcher{height: 100}
	m := NewMonitor(fetcher, time.Second, nil)

	var transitions []domain.ConnectivityState
	m.SetStatusChangeCallback(func(prev, next domain.ConnectivityState) {
		transitions = append(transitions, next)
	})

	state := m.Check(context.Background())
	if state.Status != domain.StatusOnline || state.LastKnownHeight != 100 {
		t.Fatalf("expected online at 100, got %+v", state)
	}

	fetcher.set(0, errors.New("connection refused"))
	state = m.Check(context.Background())
	if state.Status != domain.StatusOffline {
		t.Errorf("expected offline, got %s", state.Status)
	}
	if state.LastKnownHeight != 100 {
		t.Errorf("expected last known height kept at 100, got %d", state.LastKnownHeight)
	}

	// staying offline is not a transition
	m.Check(context.Background())

	if len(transitions) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(transitions))
	}

	report := m.Report()
	if report.ConsecutiveFailures != 2 {
		t.Errorf("expected 2 consecutive failures, got %d", report.ConsecutiveFailures)
	}
	if report.LastError != "connection refused" {
		t.Errorf("unexpected last error %q", report.LastError)
	}

	fetcher.set(105, nil)
	m.Check(context.Background())
	if !m.Online() || m.State().LastKnownHeight != 105 {
		t.Errorf("expected online at 105, got %+v", m.State())
	}
	if m.Report().ConsecutiveFailures != 0 {
		t.Error("expected failures reset after success")
	}
}

func TestMonitor_RunProbesImmediately(t *testing.T) {
	fetcher := &mockFetcher{height: 7}
	m := NewMonitor(fetcher, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	deadline := time.After(time.Second)
	for !m.Online() {
		select {
		case <-deadline:
			t.Fatal("expected immediate probe at startup")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
	if fetcher.calls.Load() != 1 {
		t.Errorf("expected exactly one probe, got %d", fetcher.calls.Load())
	}
}

func TestMonitor_RunFixedInterval(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("down")}
	m := NewMonitor(fetcher, 10*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	m.Run(ctx)

	if fetcher.calls.Load() < 3 {
		t.Errorf("expected repeated probes without backoff, got %d", fetcher.calls.Load())
	}
}

// =============================================================================
// Server Tests
// =============================================================================

func TestRoutes_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fetcher := &mockFetcher{err: errors.New("down")}
	m := NewMonitor(fetcher, time.Second, nil)
	r := gin.New()
	RegisterRoutes(r, m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 while offline, got %d", w.Code)
	}

	fetcher.set(10, nil)
	m.Check(context.Background())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 while online, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "online" {
		t.Errorf("expected status online, got %v", body)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))
	var report Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.LastKnownHeight != 10 {
		t.Errorf("expected height 10 in report, got %d", report.LastKnownHeight)
	}
}
