package settings

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vietddude/addrwatch/internal/core/domain"
)

// Patch is a partial configuration edit. Nil fields are left unchanged.
type Patch struct {
	RPCEndpoint          *string          `json:"rpc_endpoint,omitempty"`
	APIKey               *string          `json:"api_key,omitempty"`
	ChainID              *int64           `json:"chain_id,omitempty"`
	ExplorerBaseURL      *string          `json:"explorer_base_url,omitempty"`
	WhaleThresholdNative *decimal.Decimal `json:"whale_threshold_native,omitempty"`
	ScanIntervalMs       *int64           `json:"scan_interval_ms,omitempty"`
	TelegramToken        *string          `json:"telegram_token,omitempty"`
	DiscordWebhook       *string          `json:"discord_webhook,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.RPCEndpoint == nil && p.APIKey == nil && p.ChainID == nil &&
		p.ExplorerBaseURL == nil && p.WhaleThresholdNative == nil &&
		p.ScanIntervalMs == nil && p.TelegramToken == nil && p.DiscordWebhook == nil
}

// Apply returns cfg with the patch applied. cfg itself is not modified.
func (p Patch) Apply(cfg domain.Configuration) domain.Configuration {
	out := cfg.Clone()
	if p.RPCEndpoint != nil {
		out.RPCEndpoint = strings.TrimSpace(*p.RPCEndpoint)
	}
	if p.APIKey != nil {
		out.APIKey = strings.TrimSpace(*p.APIKey)
	}
	if p.ChainID != nil {
		out.ChainID = *p.ChainID
	}
	if p.ExplorerBaseURL != nil {
		out.ExplorerBaseURL = strings.TrimRight(strings.TrimSpace(*p.ExplorerBaseURL), "/")
	}
	if p.WhaleThresholdNative != nil {
		out.WhaleThresholdNative = *p.WhaleThresholdNative
	}
	if p.ScanIntervalMs != nil {
		out.ScanIntervalMs = *p.ScanIntervalMs
	}
	if p.TelegramToken != nil {
		out.NotificationTargets.TelegramToken = *p.TelegramToken
	}
	if p.DiscordWebhook != nil {
		out.NotificationTargets.DiscordWebhook = *p.DiscordWebhook
	}
	return out
}
