// Package scanner implements the incremental block scan.
//
// Each tick reads the chain head, scans at most the last WindowSize blocks
// past the cursor, turns transfers touching a watched address into alerts
// and advances the cursor to the head. Blocks older than the window are
// skipped for good; the first tick only records the head.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/vietddude/addrwatch/internal/core/cursor"
	"github.com/vietddude/addrwatch/internal/core/domain"
	"github.com/vietddude/addrwatch/internal/indexing/metrics"
	"github.com/vietddude/addrwatch/internal/indexing/watchlist"
)

const (
	// WindowSize is the most blocks a single tick will fetch.
	WindowSize = 6

	// DefaultErrorAlertInterval limits ERROR alerts for aborted ticks.
	DefaultErrorAlertInterval = time.Minute
)

// ErrAlreadyRunning is returned by Run when the loop is already active.
var ErrAlreadyRunning = errors.New("scanner already running")

// ChainReader reads chain head and block bodies.
type ChainReader interface {
	GetLatestBlock(ctx context.Context) (uint64, error)
	GetBlock(ctx context.Context, blockNumber uint64) (*domain.Block, error)
}

// Connectivity gates scanning.
type Connectivity interface {
	Online() bool
}

// ConfigSource returns the latest configuration.
type ConfigSource interface {
	Current() domain.Configuration
}

// Watchlist matches transactions against watched addresses.
type Watchlist interface {
	Len() int
	Match(from, to string) (domain.WatchedAddress, watchlist.Direction, bool)
	MarkActive(address string, block uint64)
}

// AlertSink receives alerts. Push returns false for duplicates.
type AlertSink interface {
	Push(ctx context.Context, alert domain.Alert) bool
}

// Config holds scanner dependencies.
type Config struct {
	Chain        ChainReader
	Connectivity Connectivity
	Settings     ConfigSource
	Watchlist    Watchlist
	Alerts       AlertSink
	Cursor       *cursor.Cursor

	// ErrorAlertInterval is the minimum spacing of ERROR alerts (burst 1).
	ErrorAlertInterval time.Duration
	Logger             *slog.Logger
}

// Outcome names what a tick did.
type Outcome string

const (
	OutcomeBusy        Outcome = "busy"
	OutcomeOffline     Outcome = "offline"
	OutcomeIdle        Outcome = "idle"
	OutcomeInitialized Outcome = "initialized"
	OutcomeCaughtUp    Outcome = "caught_up"
	OutcomeScanned     Outcome = "scanned"
	OutcomeAborted     Outcome = "aborted"
)

// Result describes a finished tick.
type Result struct {
	Outcome      Outcome  `json:"outcome"`
	Height       uint64   `json:"height,omitempty"`
	From         uint64   `json:"from,omitempty"`
	To           uint64   `json:"to,omitempty"`
	Alerts       int      `json:"alerts"`
	FailedBlocks []uint64 `json:"failed_blocks,omitempty"`
}

// Scanner runs scan ticks.
type Scanner struct {
	cfg     Config
	log     *slog.Logger
	limiter *rate.Limiter
	running atomic.Bool
	now     func() time.Time
}

func New(cfg Config) *Scanner {
	if cfg.Cursor == nil {
		cfg.Cursor = cursor.New()
	}
	if cfg.ErrorAlertInterval <= 0 {
		cfg.ErrorAlertInterval = DefaultErrorAlertInterval
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{
		cfg:     cfg,
		log:     log,
		limiter: rate.NewLimiter(rate.Every(cfg.ErrorAlertInterval), 1),
		now:     time.Now,
	}
}

// Cursor exposes the scan cursor.
func (s *Scanner) Cursor() *cursor.Cursor {
	return s.cfg.Cursor
}

// Run fires a tick every scan interval until ctx is done. The interval is
// re-read from the configuration after each tick. Ticks run concurrently
// with the timer, so a slow tick makes the next one skip instead of queueing.
func (s *Scanner) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	var wg sync.WaitGroup
	defer wg.Wait()

	interval := s.cfg.Settings.Current().ScanInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("scanner started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scanner stopped", "cursor", s.cfg.Cursor.Block())
			return nil
		case <-ticker.C:
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Tick(ctx)
			}()

			if next := s.cfg.Settings.Current().ScanInterval(); next > 0 && next != interval {
				s.log.Info("scan interval changed", "from", interval, "to", next)
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}

// Tick runs one scan step. It is a no-op returning OutcomeBusy while another
// tick is in flight. The returned error is non-nil only for aborted ticks.
func (s *Scanner) Tick(ctx context.Context) (Result, error) {
	if !s.cfg.Cursor.TryBegin("tick") {
		metrics.ScanTicksTotal.WithLabelValues(string(OutcomeBusy)).Inc()
		s.log.Debug("previous tick still running, skipping")
		return Result{Outcome: OutcomeBusy}, nil
	}
	defer s.cfg.Cursor.End("tick done")

	res, err := s.scan(ctx)
	metrics.ScanTicksTotal.WithLabelValues(string(res.Outcome)).Inc()
	return res, err
}

func (s *Scanner) scan(ctx context.Context) (Result, error) {
	if !s.cfg.Connectivity.Online() {
		return Result{Outcome: OutcomeOffline}, nil
	}

	cur := s.cfg.Cursor.Block()
	if cur > 0 && s.cfg.Watchlist.Len() == 0 {
		return Result{Outcome: OutcomeIdle}, nil
	}

	cfg := s.cfg.Settings.Current()

	height, err := s.cfg.Chain.GetLatestBlock(ctx)
	if err != nil {
		err = fmt.Errorf("fetch chain height: %w", err)
		s.abort(ctx, err)
		return Result{Outcome: OutcomeAborted}, err
	}

	if cur == 0 {
		s.advance(height)
		s.log.Info("cursor initialized at chain head", "block", height)
		return Result{Outcome: OutcomeInitialized, Height: height}, nil
	}
	if height <= cur {
		return Result{Outcome: OutcomeCaughtUp, Height: height}, nil
	}

	start := cur + 1
	if height >= WindowSize-1 && height-(WindowSize-1) > start {
		skipped := height - (WindowSize - 1) - start
		metrics.BlocksSkipped.WithLabelValues("window").Add(float64(skipped))
		s.log.Warn("behind chain head, skipping older blocks", "skipped", skipped, "from", start, "to", height-WindowSize)
		start = height - (WindowSize - 1)
	}

	res := Result{Outcome: OutcomeScanned, Height: height, From: start, To: height}
	for n := start; n <= height; n++ {
		if ctx.Err() != nil {
			return Result{Outcome: OutcomeAborted, Height: height}, ctx.Err()
		}

		block, err := s.cfg.Chain.GetBlock(ctx, n)
		if err == nil && block == nil {
			err = fmt.Errorf("block %d not available", n)
		}
		if err != nil {
			res.FailedBlocks = append(res.FailedBlocks, n)
			metrics.BlocksSkipped.WithLabelValues("fetch_failed").Inc()
			s.log.Warn("block fetch failed, skipping", "block", n, "error", err)
			continue
		}

		metrics.BlocksScanned.Inc()
		res.Alerts += s.processBlock(ctx, block, cfg)
	}

	s.advance(height)
	s.log.Debug("window scanned", "from", start, "to", height, "alerts", res.Alerts, "failed", len(res.FailedBlocks))
	return res, nil
}

func (s *Scanner) processBlock(ctx context.Context, block *domain.Block, cfg domain.Configuration) int {
	emitted := 0
	for _, tx := range block.Transactions {
		entry, dir, ok := s.cfg.Watchlist.Match(tx.From, tx.To)
		if !ok {
			continue
		}

		alert := Classify(tx, dir, cfg.WhaleThresholdNative, s.now())
		if s.cfg.Alerts.Push(ctx, alert) {
			emitted++
		}
		s.cfg.Watchlist.MarkActive(entry.Address, block.Number)
	}
	return emitted
}

func (s *Scanner) advance(block uint64) {
	if s.cfg.Cursor.Advance(block) {
		metrics.ScanCursor.Set(float64(block))
	}
}

// abort reports a failed tick. ERROR alerts are rate limited so a dead
// endpoint cannot flood the feed.
func (s *Scanner) abort(ctx context.Context, err error) {
	s.log.Error("scan tick aborted", "cursor", s.cfg.Cursor.Block(), "error", err)

	if !s.limiter.Allow() {
		metrics.AlertsSuppressed.Inc()
		return
	}
	s.cfg.Alerts.Push(ctx, domain.Alert{
		ID:        uuid.NewString(),
		Kind:      domain.AlertKindError,
		Message:   "Scan failed: " + err.Error(),
		From:      "System",
		To:        "Local",
		Timestamp: s.now(),
		Severity:  domain.SeverityHigh,
	})
}
