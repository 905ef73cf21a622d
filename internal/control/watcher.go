package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/addrwatch/internal/api"
	"github.com/vietddude/addrwatch/internal/core/config"
	"github.com/vietddude/addrwatch/internal/core/cursor"
	"github.com/vietddude/addrwatch/internal/core/domain"
	"github.com/vietddude/addrwatch/internal/core/settings"
	"github.com/vietddude/addrwatch/internal/indexing/feed"
	"github.com/vietddude/addrwatch/internal/indexing/health"
	"github.com/vietddude/addrwatch/internal/indexing/scanner"
	"github.com/vietddude/addrwatch/internal/indexing/watchlist"
	"github.com/vietddude/addrwatch/internal/infra/chain/evm"
	redisclient "github.com/vietddude/addrwatch/internal/infra/redis"
	"github.com/vietddude/addrwatch/internal/infra/rpc"
)

const serverShutdownTimeout = 5 * time.Second

// Watcher owns every component of the monitor and their lifecycle.
type Watcher struct {
	cfg Config

	rpc         *rpc.Client
	adapter     *evm.Adapter
	monitor     *health.Monitor
	cursor      *cursor.Cursor
	watchlist   *watchlist.Store
	feed        *feed.Feed
	settings    *settings.Store
	scanner     *scanner.Scanner
	broadcaster *api.Broadcaster
	server      *api.Server
	redisClient *redisclient.Client

	cancel      context.CancelFunc
	unsubscribe func()
	done        chan struct{}
	err         error

	log *slog.Logger
}

// Config holds the application configuration.
type Config struct {
	Port      int
	Monitor   config.MonitorConfig
	Watchlist config.WatchlistConfig
	Redis     redisclient.Config
	Logger    *slog.Logger
}

// NewWatcher creates a new Watcher instance with all dependencies initialized.
func NewWatcher(ctx context.Context, cfg Config) (*Watcher, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	initial, err := cfg.Monitor.Configuration()
	if err != nil {
		return nil, err
	}

	policy, err := watchlist.ParseDuplicatePolicy(cfg.Watchlist.DuplicatePolicy)
	if err != nil {
		return nil, err
	}

	w := &Watcher{cfg: cfg, log: log}

	// 1. Alert feed
	w.feed = feed.New(feed.DefaultCapacity, log, feed.NewLogSink(log))

	// 2. Snapshot archive (optional)
	var archive settings.Archive
	if cfg.Redis.URL != "" {
		client, err := redisclient.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Failed to connect to Redis, snapshots stay in memory", "error", err)
		} else {
			w.redisClient = client
			archive = redisclient.NewSnapshotArchive(client, initial.ChainID, log)
		}
	}

	// 3. Configuration & snapshot history
	w.settings, err = settings.New(settings.Config{
		Initial: initial,
		Alerts:  w.feed,
		Archive: archive,
		Logger:  log,
	})
	if err != nil {
		w.closeRedis()
		return nil, err
	}

	// 4. RPC client bound to the live configuration
	w.rpc = rpc.NewClient(cfg.Monitor.RPCTimeout)
	caller := w.rpc.Bind(func() rpc.Endpoint {
		c := w.settings.Current()
		return rpc.Endpoint{URL: c.RPCEndpoint, APIKey: c.APIKey}
	})
	w.adapter = evm.NewAdapter(caller, log)

	// 5. Connectivity monitor
	w.monitor = health.NewMonitor(w.adapter, cfg.Monitor.ProbeInterval, log)
	w.monitor.SetStatusChangeCallback(func(prev, next domain.ConnectivityState) {
		log.Info("Connectivity changed",
			"from", prev.Status,
			"to", next.Status,
			"height", next.LastKnownHeight,
		)
	})

	// 6. Watch-list
	w.watchlist = watchlist.New(watchlist.Options{Policy: policy, Strict: cfg.Watchlist.Strict})
	for _, entry := range cfg.Watchlist.Addresses {
		if _, err := w.watchlist.Add(entry.Address, entry.Label); err != nil {
			log.Warn("Skipping watched address", "address", entry.Address, "error", err)
		}
	}
	log.Info("Loaded watched addresses", "count", w.watchlist.Len())

	// 7. Cursor & scan engine
	w.cursor = cursor.New()
	w.cursor.SetStateChangeCallback(func(t cursor.Transition) {
		log.Debug("Scan state changed", "from", t.From, "to", t.To, "reason", t.Reason)
	})
	w.scanner = scanner.New(scanner.Config{
		Chain:              w.adapter,
		Connectivity:       w.monitor,
		Settings:           w.settings,
		Watchlist:          w.watchlist,
		Alerts:             w.feed,
		Cursor:             w.cursor,
		ErrorAlertInterval: cfg.Monitor.ErrorAlertInterval,
		Logger:             log,
	})

	// 8. Control API
	w.broadcaster = api.NewBroadcaster(func() string {
		return w.settings.Current().ExplorerBaseURL
	}, log)
	w.server = api.NewServer(api.Deps{
		Monitor:     w.monitor,
		Cursor:      w.cursor,
		Watchlist:   w.watchlist,
		Feed:        w.feed,
		Settings:    w.settings,
		RPC:         w.rpc,
		Broadcaster: w.broadcaster,
		Logger:      log,
	}, cfg.Port)

	return w, nil
}

// Start starts the watcher and all its components. It returns once they are
// running; Done is closed when they have all exited.
func (w *Watcher) Start(ctx context.Context) error {
	if w.done != nil {
		return errors.New("watcher already started")
	}

	if n, err := w.settings.LoadArchive(ctx); err != nil {
		w.log.Warn("Failed to load archived snapshots", "error", err)
	} else if n > 0 {
		w.log.Info("Loaded archived snapshots", "count", n)
	}

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	alerts, unsubscribe := w.feed.Subscribe(0)
	w.cancel = cancel
	w.unsubscribe = unsubscribe
	w.done = make(chan struct{})

	// API server
	g.Go(w.server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), serverShutdownTimeout)
		defer cancel()
		return w.server.Stop(shutdownCtx)
	})

	// Connectivity monitor
	g.Go(func() error { return w.monitor.Run(gctx) })

	// Scan engine
	g.Go(func() error { return w.scanner.Run(gctx) })

	// WebSocket feed
	g.Go(func() error { return w.broadcaster.Run(gctx, alerts) })

	go func() {
		w.err = g.Wait()
		close(w.done)
	}()

	cfg := w.settings.Current()
	w.log.Info("Watcher started",
		"endpoint", cfg.RPCEndpoint,
		"chain_id", cfg.ChainID,
		"scan_interval", cfg.ScanInterval(),
		"watched", w.watchlist.Len(),
	)
	return nil
}

// Done is closed once every component has exited. Nil before Start.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Err returns the first component error, once Done is closed.
func (w *Watcher) Err() error {
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop(ctx context.Context) error {
	w.log.Info("Stopping Watcher...")

	var err error
	if w.done != nil {
		w.cancel()
		select {
		case <-w.done:
			err = w.err
		case <-ctx.Done():
			err = fmt.Errorf("waiting for components: %w", ctx.Err())
		}
		w.unsubscribe()
	}

	w.closeRedis()
	return err
}

func (w *Watcher) closeRedis() {
	if w.redisClient == nil {
		return
	}
	if err := w.redisClient.Close(); err != nil {
		w.log.Warn("Failed to close Redis", "error", err)
	}
	w.redisClient = nil
}
