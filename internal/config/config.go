package config

import (
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"w3batch/internal/domain/entity"
	"w3batch/internal/filter"
)

// Config holds the overall configuration for the application.
type Config struct {
	Application string                     `yaml:"application"`
	Wallets     WalletsConfig              `yaml:"wallets"`
	Actions     map[string]ActionConfig    `yaml:"actions"`
	Chains      []ChainConfig              `yaml:"chains"`
	Proxies     map[string]ProxyPoolConfig `yaml:"proxies"`
	Cache       CacheConfig                `yaml:"cache"`
	Debank      DebankConfig               `yaml:"debank"`
	Pricing     PricingConfig              `yaml:"pricing"`
	Logging     LoggingConfig              `yaml:"logging"`
	Server      ServerConfig               `yaml:"server"`
	RPC         RPCConfig                  `yaml:"rpc"`
}

// WalletsConfig describes where the wallet list lives and which entries to take.
type WalletsConfig struct {
	File          string `yaml:"file"`
	Filter        string `yaml:"filter"`
	CommentMarker string `yaml:"comment_marker"`
}

// ActionConfig is one named action block. Name is the map key it was
// registered under; Action is the handler tag and defaults to Name.
type ActionConfig struct {
	Name      string        `yaml:"-"`
	Action    string        `yaml:"action"`
	Total     bool          `yaml:"total"`
	CacheOnly bool          `yaml:"cache_only"`
	Prices    bool          `yaml:"prices"`
	Threads   int           `yaml:"threads"`
	Proxy     string        `yaml:"proxy"`
	Filter    []string      `yaml:"filter"`
	Tokens    []string      `yaml:"tokens"`
	Rules     []filter.Rule `yaml:"-"`
}

// ChainConfig adds a network or overrides fields of a predefined one,
// matched by name or chain id.
type ChainConfig struct {
	Name                      string   `yaml:"name"`
	ChainID                   uint64   `yaml:"chain_id"`
	NativeSymbol              string   `yaml:"native_symbol"`
	Decimals                  uint8    `yaml:"decimals"`
	RPCURLs                   []string `yaml:"rpc_urls"`
	BlockExplorerURL          string   `yaml:"block_explorer_url"`
	DEXScreenerChainID        string   `yaml:"dexscreener_chain_id"`
	WrappedNativeTokenAddress string   `yaml:"wrapped_native_token_address"`
	TokensFile                string   `yaml:"tokens_file"`
}

// ProxyPoolConfig names a file with one proxy URL per line.
type ProxyPoolConfig struct {
	File string `yaml:"file"`
}

// CacheConfig holds configuration for the persistent balance cache.
type CacheConfig struct {
	Dir        string `yaml:"dir"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// DebankConfig holds the configuration for the DeBank client.
type DebankConfig struct {
	BaseURL              string `yaml:"base_url"`
	RequestTimeoutMillis int64  `yaml:"request_timeout_millis"`
	RateLimit            int    `yaml:"rate_limit"`
	BurstLimit           int    `yaml:"burst_limit"`
}

// PricingConfig holds the configuration for the DEX Screener price source.
type PricingConfig struct {
	BaseURL                  string `yaml:"base_url"`
	RequestTimeoutMillis     int64  `yaml:"request_timeout_millis"`
	CacheTTLMinutes          int    `yaml:"cache_ttl_minutes"`
	MaxTokensPerBatchRequest int    `yaml:"max_tokens_per_batch_request"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g. "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// ServerConfig holds the optional status-server configuration.
type ServerConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`
	IdleTimeout  int    `yaml:"idle_timeout"`
}

// RPCConfig holds configuration for JSON-RPC clients.
type RPCConfig struct {
	ConnectTimeoutSeconds int `yaml:"connect_timeout_seconds"`
	CallTimeoutSeconds    int `yaml:"call_timeout_seconds"`
}

// LoadConfig loads configuration from a YAML file. Environment variable
// references in the file (${VAR} or $VAR) are expanded before parsing.
// Every validation failure surfaces as a ConfigError or FilterSyntaxError
// before any wallet is touched.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, entity.NewConfigError("failed to read config file %s: %v", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, entity.NewConfigError("failed to unmarshal config data from %s: %v", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Wallets.Filter == "" {
		c.Wallets.Filter = "*"
	}
	if c.Wallets.CommentMarker == "" {
		c.Wallets.CommentMarker = "#"
	}

	if c.Cache.Dir == "" {
		c.Cache.Dir = ".w3batch/cache"
		logrus.Infof("Cache.Dir not set, defaulting to %s", c.Cache.Dir)
	}

	if c.Debank.BaseURL == "" {
		c.Debank.BaseURL = "https://api.debank.com"
		logrus.Infof("Debank.BaseURL not set, defaulting to %s", c.Debank.BaseURL)
	}
	if c.Debank.RequestTimeoutMillis == 0 {
		c.Debank.RequestTimeoutMillis = 15000
	}
	if c.Debank.RateLimit == 0 {
		c.Debank.RateLimit = 4
	}
	if c.Debank.BurstLimit == 0 {
		c.Debank.BurstLimit = 2
	}

	if c.Pricing.BaseURL == "" {
		c.Pricing.BaseURL = "https://api.dexscreener.com"
		logrus.Infof("Pricing.BaseURL not set, defaulting to %s", c.Pricing.BaseURL)
	}
	if c.Pricing.RequestTimeoutMillis == 0 {
		c.Pricing.RequestTimeoutMillis = 10000
	}
	if c.Pricing.CacheTTLMinutes == 0 {
		c.Pricing.CacheTTLMinutes = 60
	}
	if c.Pricing.MaxTokensPerBatchRequest == 0 {
		c.Pricing.MaxTokensPerBatchRequest = 30 // DEXScreener batch endpoint limit
	}

	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}

	if c.RPC.ConnectTimeoutSeconds == 0 {
		c.RPC.ConnectTimeoutSeconds = 10
	}
	if c.RPC.CallTimeoutSeconds == 0 {
		c.RPC.CallTimeoutSeconds = 20
	}
}

func (c *Config) validate() error {
	if c.Wallets.File == "" {
		return entity.NewConfigError("wallets.file is required")
	}
	if len(c.Actions) == 0 {
		return entity.NewConfigError("no actions configured")
	}

	for name, action := range c.Actions {
		action.Name = name
		if action.Action == "" {
			action.Action = name
		}
		if action.Threads < 0 {
			return entity.NewConfigError("action %q: threads must be >= 1, got %d", name, action.Threads)
		}
		if action.Threads == 0 {
			action.Threads = 1
		}
		if action.Proxy != "" {
			if _, ok := c.Proxies[action.Proxy]; !ok {
				return entity.NewConfigError("action %q references unknown proxy pool %q", name, action.Proxy)
			}
		}
		for _, token := range action.Tokens {
			chain, tok, found := strings.Cut(token, ":")
			if !found || chain == "" || tok == "" {
				return entity.NewConfigError("action %q: token entry %q must have the form chain:token", name, token)
			}
			if chain == filter.Wildcard || tok == filter.Wildcard {
				return entity.NewConfigError("action %q: token entry %q may not use wildcards", name, token)
			}
		}
		rules, err := filter.ParseAll(action.Filter)
		if err != nil {
			return err
		}
		action.Rules = rules
		c.Actions[name] = action
	}

	for _, chain := range c.Chains {
		if chain.Name == "" && chain.ChainID == 0 {
			return entity.NewConfigError("chain entry must set name or chain_id")
		}
	}

	for name, pool := range c.Proxies {
		if pool.File == "" {
			return entity.NewConfigError("proxy pool %q: file is required", name)
		}
	}

	return nil
}

// GetAction returns the named action block or a ConfigError listing what is
// available.
func (c *Config) GetAction(name string) (ActionConfig, error) {
	action, ok := c.Actions[name]
	if !ok {
		available := make([]string, 0, len(c.Actions))
		for key := range c.Actions {
			available = append(available, key)
		}
		sort.Strings(available)
		return ActionConfig{}, entity.NewConfigError("unknown action %q, available: %s", name, strings.Join(available, ", "))
	}
	return action, nil
}
