package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Defaults applied by Load when a field is left empty.
const (
	DefaultPort               = 8080
	DefaultRPCEndpoint        = "https://rpc.monad.xyz"
	DefaultExplorerBaseURL    = "https://monadexplorer.com"
	DefaultWhaleThreshold     = "10"
	DefaultScanIntervalMs     = 5000
	DefaultProbeInterval      = 10 * time.Second
	DefaultRPCTimeout         = 8 * time.Second
	DefaultErrorAlertInterval = time.Minute
	DefaultDuplicatePolicy    = "update"
)

// APIKeyEnv names the environment variable holding the RPC API key.
// APIKeyEnv + "_FILE" may point at a file containing it instead.
const APIKeyEnv = "ADDRWATCH_API_KEY"

// Load reads configuration from a YAML file. An empty path yields the defaults.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Expand environment variables in the YAML content
		expandedData := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	key, err := GetSecret(APIKeyEnv)
	if err != nil {
		return nil, err
	}
	if key != "" {
		cfg.Monitor.APIKey = key
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	m := &cfg.Monitor
	if strings.TrimSpace(m.RPCEndpoint) == "" {
		m.RPCEndpoint = DefaultRPCEndpoint
	}
	if m.ExplorerBaseURL == "" {
		m.ExplorerBaseURL = DefaultExplorerBaseURL
	}
	if strings.TrimSpace(m.WhaleThreshold) == "" {
		m.WhaleThreshold = DefaultWhaleThreshold
	}
	if m.ScanIntervalMs == 0 {
		m.ScanIntervalMs = DefaultScanIntervalMs
	}
	if m.ProbeInterval == 0 {
		m.ProbeInterval = DefaultProbeInterval
	}
	if m.RPCTimeout == 0 {
		m.RPCTimeout = DefaultRPCTimeout
	}
	if m.ErrorAlertInterval == 0 {
		m.ErrorAlertInterval = DefaultErrorAlertInterval
	}

	if cfg.Watchlist.DuplicatePolicy == "" {
		cfg.Watchlist.DuplicatePolicy = DefaultDuplicatePolicy
	}
}

// GetSecret reads envKey, preferring the file named by envKey_FILE
// (Docker secrets pattern).
func GetSecret(envKey string) (string, error) {
	if filePath := os.Getenv(envKey + "_FILE"); filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("read secret file %s: %w", filePath, err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return strings.TrimSpace(os.Getenv(envKey)), nil
}
