package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete client configuration
type Config struct {
	Ledger   LedgerConfig   `yaml:"ledger"`
	Identity IdentityConfig `yaml:"identity"`
	Agent    AgentConfig    `yaml:"agent"`
	Log      LogConfig      `yaml:"log"`
}

// LedgerConfig describes the ledger RPC endpoint and the audit contract
type LedgerConfig struct {
	RPCURL          string `yaml:"rpc_url"`
	ChainID         int64  `yaml:"chain_id"` // 0 = accept whatever the node reports
	ContractAddress string `yaml:"contract_address"`
	ABIPath         string `yaml:"abi_path"` // empty = use the embedded AuditLogger ABI

	GasLimit       uint64 `yaml:"gas_limit"`         // per-write gas ceiling
	MaxGasPriceWei uint64 `yaml:"max_gas_price_wei"` // 0 = no cap

	ReceiptTimeoutSecs int `yaml:"receipt_timeout_secs"`  // settlement wait bound
	ReceiptPollMillis  int `yaml:"receipt_poll_millis"`   // poll interval while waiting
	RPCRetries         int `yaml:"rpc_retries"`           // retries for transient read faults
	RPCRetryBaseMillis int `yaml:"rpc_retry_base_millis"` // initial backoff delay
}

// IdentityConfig describes where the signing key comes from. Exactly one
// source must be set. The private key may also be supplied via the
// SCALEAUDIT_PRIVATE_KEY environment variable, which overrides both.
type IdentityConfig struct {
	PrivateKeyHex string `yaml:"private_key_hex"`
	KeystoreFile  string `yaml:"keystore_file"`
	PasswordFile  string `yaml:"password_file"`
}

// AgentConfig configures the node-agent scrape-and-submit loop
type AgentConfig struct {
	NodeEndpoints      []string `yaml:"node_endpoints"` // base URLs, e.g. http://10.0.0.5:8080
	ScrapeIntervalSecs int      `yaml:"scrape_interval_secs"`
	SubmitRatePerMin   int      `yaml:"submit_rate_per_min"` // ledger write rate limit
	ListenAddr         string   `yaml:"listen_addr"`         // metric server bind address
}

// LogConfig configures structured logging output
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Ledger: LedgerConfig{
			RPCURL:             "http://localhost:8545",
			GasLimit:           300000,
			ReceiptTimeoutSecs: 90,
			ReceiptPollMillis:  2000,
			RPCRetries:         3,
			RPCRetryBaseMillis: 100,
		},
		Agent: AgentConfig{
			ScrapeIntervalSecs: 30,
			SubmitRatePerMin:   30,
			ListenAddr:         ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from path, applying defaults for unset fields
// and environment overrides for secrets. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	path = expandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv applies environment variable overrides. Secrets are preferred
// from the environment so config files can be committed without key material.
func (c *Config) applyEnv() {
	if v := os.Getenv("SCALEAUDIT_PRIVATE_KEY"); v != "" {
		c.Identity.PrivateKeyHex = v
		c.Identity.KeystoreFile = ""
	}
	if v := os.Getenv("SCALEAUDIT_RPC_URL"); v != "" {
		c.Ledger.RPCURL = v
	}
	if v := os.Getenv("SCALEAUDIT_CONTRACT_ADDRESS"); v != "" {
		c.Ledger.ContractAddress = v
	}
}

// Validate checks the configuration for a usable client. Construction must
// fail fast on a bad config, so every problem found here is fatal.
func (c *Config) Validate() error {
	if c.Ledger.RPCURL == "" {
		return fmt.Errorf("ledger.rpc_url is required")
	}
	if err := validateEthAddress("ledger.contract_address", c.Ledger.ContractAddress); err != nil {
		return err
	}
	if c.Ledger.GasLimit == 0 {
		return fmt.Errorf("ledger.gas_limit must be positive")
	}
	if c.Ledger.ReceiptTimeoutSecs <= 0 {
		return fmt.Errorf("ledger.receipt_timeout_secs must be positive")
	}
	if c.Ledger.ReceiptPollMillis <= 0 {
		return fmt.Errorf("ledger.receipt_poll_millis must be positive")
	}

	if c.Identity.PrivateKeyHex == "" && c.Identity.KeystoreFile == "" {
		return fmt.Errorf("identity requires private_key_hex or keystore_file")
	}
	if c.Identity.PrivateKeyHex != "" && c.Identity.KeystoreFile != "" {
		return fmt.Errorf("identity: private_key_hex and keystore_file are mutually exclusive")
	}
	if c.Identity.KeystoreFile != "" && c.Identity.PasswordFile == "" {
		return fmt.Errorf("identity.password_file is required with keystore_file")
	}

	if c.Agent.ScrapeIntervalSecs <= 0 {
		return fmt.Errorf("agent.scrape_interval_secs must be positive")
	}
	if c.Agent.SubmitRatePerMin <= 0 {
		return fmt.Errorf("agent.submit_rate_per_min must be positive")
	}

	return nil
}

// ReceiptTimeout returns the settlement wait bound as a duration
func (c *LedgerConfig) ReceiptTimeout() time.Duration {
	return time.Duration(c.ReceiptTimeoutSecs) * time.Second
}

// ReceiptPollInterval returns the receipt poll interval as a duration
func (c *LedgerConfig) ReceiptPollInterval() time.Duration {
	return time.Duration(c.ReceiptPollMillis) * time.Millisecond
}

// validateEthAddress checks that an address is 0x-prefixed, 40 hex chars, and non-zero
func validateEthAddress(name, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", name)
	}
	if !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		return fmt.Errorf("%s must start with 0x, got %q", name, addr)
	}
	hexPart := addr[2:]
	if len(hexPart) != 40 {
		return fmt.Errorf("%s must be 42 characters (0x + 40 hex), got %d", name, len(addr))
	}
	if _, err := hex.DecodeString(hexPart); err != nil {
		return fmt.Errorf("%s contains invalid hex characters: %w", name, err)
	}
	if strings.Trim(hexPart, "0") == "" {
		return fmt.Errorf("%s must not be the zero address", name)
	}
	return nil
}

// expandPath expands a leading ~ to the user's home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
