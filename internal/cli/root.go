package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/addrwatch/internal/control"
	"github.com/vietddude/addrwatch/internal/core/config"
)

var (
	cfgPath string
	isDebug bool
	apiURL  string
)

var rootCmd = &cobra.Command{
	Use:   "addrwatch",
	Short: "Watched-address monitor",
	Long: `addrwatch follows the head of an EVM chain over JSON-RPC and raises alerts for
transfers touching watched addresses. Running it without a subcommand starts the service.`,
	Run: runWatcher,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (defaults apply when it does not exist)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "control API base URL used by client subcommands")
}

func runWatcher(cmd *cobra.Command, args []string) {
	_ = godotenv.Load()

	path := cfgPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}

	// Load Configuration
	cfg, err := config.Load(path)
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logging
	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})

	// Transform config
	controlCfg := control.Config{
		Port:      cfg.Server.Port,
		Monitor:   cfg.Monitor,
		Watchlist: cfg.Watchlist,
		Redis:     cfg.Redis,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Watcher
	app, err := control.NewWatcher(ctx, controlCfg)
	if err != nil {
		slog.Error("Failed to initialize Watcher", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := app.Start(ctx); err != nil {
		slog.Error("Failed to start Watcher", "error", err)
		os.Exit(1)
	}

	if path != "" {
		slog.Info("Config loaded", "path", path)
	}

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
	case <-app.Done():
		slog.Error("Watcher exited", "error", app.Err())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("Watcher stopped gracefully")
}
