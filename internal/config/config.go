package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"l2scope/internal/model"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	ListenAddr      string
	DuneAPIKey      string
	DuneBaseURL     string
	LlamaBaseURL    string
	ArbitrumQueryID string
	OptimismQueryID string
	ArbitrumRPCURL  string
	OptimismRPCURL  string
	CacheTTL        time.Duration
	GasTTL          time.Duration
	PollInterval    time.Duration
	ArchiveOut      string
	PGDSN           string
	LogLevel        string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("L2SCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// The Dune credentials keep their historical unprefixed names.
	bindings := map[string][]string{
		"dune-api-key":      {"L2SCOPE_DUNE_API_KEY", "DUNE_API_KEY"},
		"arbitrum-query-id": {"L2SCOPE_ARBITRUM_QUERY_ID", "ARBITRUM_QUERY_ID"},
		"optimism-query-id": {"L2SCOPE_OPTIMISM_QUERY_ID", "OPTIMISM_QUERY_ID"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Config{}, fmt.Errorf("bind env: %w", err)
		}
	}

	v.SetDefault("listen", ":8080")
	v.SetDefault("cache-ttl", 3600*time.Second)
	v.SetDefault("gas-ttl", 60*time.Second)
	v.SetDefault("poll-interval", time.Second)
	v.SetDefault("arbitrum-rpc", model.NetworkArbitrum.DefaultRPCURL())
	v.SetDefault("optimism-rpc", model.NetworkOptimism.DefaultRPCURL())
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		ListenAddr:      v.GetString("listen"),
		DuneAPIKey:      v.GetString("dune-api-key"),
		DuneBaseURL:     v.GetString("dune-base-url"),
		LlamaBaseURL:    v.GetString("llama-base-url"),
		ArbitrumQueryID: v.GetString("arbitrum-query-id"),
		OptimismQueryID: v.GetString("optimism-query-id"),
		ArbitrumRPCURL:  v.GetString("arbitrum-rpc"),
		OptimismRPCURL:  v.GetString("optimism-rpc"),
		CacheTTL:        v.GetDuration("cache-ttl"),
		GasTTL:          v.GetDuration("gas-ttl"),
		PollInterval:    v.GetDuration("poll-interval"),
		ArchiveOut:      v.GetString("archive-out"),
		PGDSN:           v.GetString("pg-dsn"),
		LogLevel:        v.GetString("log-level"),
	}

	return cfg, nil
}

// QueryID returns the saved Dune query ID configured for a network,
// empty when the free-tier path is not set up.
func (c Config) QueryID(network model.Network) string {
	switch network {
	case model.NetworkArbitrum:
		return c.ArbitrumQueryID
	case model.NetworkOptimism:
		return c.OptimismQueryID
	default:
		return ""
	}
}

// RPCURLs returns the per-network RPC endpoints for the gas probe.
func (c Config) RPCURLs() map[model.Network]string {
	return map[model.Network]string{
		model.NetworkArbitrum: c.ArbitrumRPCURL,
		model.NetworkOptimism: c.OptimismRPCURL,
	}
}
