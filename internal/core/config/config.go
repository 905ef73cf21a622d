package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietddude/addrwatch/internal/core/domain"
	redisclient "github.com/vietddude/addrwatch/internal/infra/redis"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server    ServerConfig       `yaml:"server"`
	Monitor   MonitorConfig      `yaml:"monitor"`
	Watchlist WatchlistConfig    `yaml:"watchlist"`
	Redis     redisclient.Config `yaml:"redis"`
	Logging   LoggingConfig      `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// MonitorConfig seeds the initial Configuration plus loop timings that are
// not user-editable at runtime.
type MonitorConfig struct {
	RPCEndpoint     string `yaml:"rpc_endpoint"`
	APIKey          string `yaml:"api_key"`
	ChainID         int64  `yaml:"chain_id"`
	ExplorerBaseURL string `yaml:"explorer_base_url"`
	WhaleThreshold  string `yaml:"whale_threshold"` // native units, decimal string
	ScanIntervalMs  int64  `yaml:"scan_interval_ms"`
	TelegramToken   string `yaml:"telegram_token"`
	DiscordWebhook  string `yaml:"discord_webhook"`

	ProbeInterval      time.Duration `yaml:"probe_interval"`
	RPCTimeout         time.Duration `yaml:"rpc_timeout"`
	ErrorAlertInterval time.Duration `yaml:"error_alert_interval"`
}

// WatchlistConfig holds watch-list behavior and addresses watched at startup.
type WatchlistConfig struct {
	DuplicatePolicy string       `yaml:"duplicate_policy"` // append, update, reject
	Strict          bool         `yaml:"strict"`
	Addresses       []WatchEntry `yaml:"addresses"`
}

// WatchEntry is a watched address declared in the config file.
type WatchEntry struct {
	Address string `yaml:"address"`
	Label   string `yaml:"label"`
}

// Configuration builds the initial runtime configuration.
func (m MonitorConfig) Configuration() (domain.Configuration, error) {
	threshold, err := decimal.NewFromString(strings.TrimSpace(m.WhaleThreshold))
	if err != nil {
		return domain.Configuration{}, fmt.Errorf("invalid whale_threshold %q: %w", m.WhaleThreshold, err)
	}

	return domain.Configuration{
		RPCEndpoint:          strings.TrimSpace(m.RPCEndpoint),
		APIKey:               strings.TrimSpace(m.APIKey),
		ChainID:              m.ChainID,
		ExplorerBaseURL:      strings.TrimRight(strings.TrimSpace(m.ExplorerBaseURL), "/"),
		WhaleThresholdNative: threshold,
		ScanIntervalMs:       m.ScanIntervalMs,
		NotificationTargets: domain.NotificationTargets{
			TelegramToken:  m.TelegramToken,
			DiscordWebhook: m.DiscordWebhook,
		},
	}, nil
}
