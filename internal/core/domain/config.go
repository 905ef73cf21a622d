package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Configuration is the user-editable monitor configuration.
type Configuration struct {
	RPCEndpoint          string              `json:"rpc_endpoint"`
	APIKey               string              `json:"api_key"`
	ChainID              int64               `json:"chain_id"`
	ExplorerBaseURL      string              `json:"explorer_base_url"`
	WhaleThresholdNative decimal.Decimal     `json:"whale_threshold_native"`
	ScanIntervalMs       int64               `json:"scan_interval_ms"`
	NotificationTargets  NotificationTargets `json:"notification_targets"`
}

// NotificationTargets are opaque destination settings carried with the
// configuration. Nothing in this module delivers to them.
type NotificationTargets struct {
	TelegramToken  string            `json:"telegram_token"`
	DiscordWebhook string            `json:"discord_webhook"`
	Extra          map[string]string `json:"extra,omitempty"`
}

// Clone returns a deep copy.
func (c Configuration) Clone() Configuration {
	out := c
	if c.NotificationTargets.Extra != nil {
		out.NotificationTargets.Extra = make(map[string]string, len(c.NotificationTargets.Extra))
		for k, v := range c.NotificationTargets.Extra {
			out.NotificationTargets.Extra[k] = v
		}
	}
	return out
}

// ScanInterval returns ScanIntervalMs as a duration.
func (c Configuration) ScanInterval() time.Duration {
	return time.Duration(c.ScanIntervalMs) * time.Millisecond
}

// Redacted returns a copy safe to expose: secrets are masked.
func (c Configuration) Redacted() Configuration {
	out := c.Clone()
	if out.APIKey != "" {
		out.APIKey = "***"
	}
	if out.NotificationTargets.TelegramToken != "" {
		out.NotificationTargets.TelegramToken = "***"
	}
	return out
}

// Snapshot is a named, immutable copy of a Configuration.
type Snapshot struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	CreatedAt     time.Time     `json:"created_at"`
	Configuration Configuration `json:"configuration"`
}
