package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/scaleaudit/scaleaudit/internal/audit"
	"github.com/scaleaudit/scaleaudit/internal/config"
	"github.com/scaleaudit/scaleaudit/internal/ledger"
	"github.com/scaleaudit/scaleaudit/internal/logging"
)

// ConfigPath is the global --config flag, shared by all commands.
var ConfigPath string

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "~/.scaleaudit/config.yaml"

func loadConfig() (*config.Config, error) {
	path := ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newClient builds the full stack: config, identity, gateway, and the
// authorization-gated audit client. The caller owns closing the returned
// gateway.
func newClient(ctx context.Context) (*audit.Client, *ledger.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	signer, err := audit.LoadSigner(cfg.Identity)
	if err != nil {
		return nil, nil, err
	}

	gw, err := ledger.Dial(ctx, ledger.Config{
		RPCURL:         cfg.Ledger.RPCURL,
		ChainID:        cfg.Ledger.ChainID,
		ReceiptTimeout: cfg.Ledger.ReceiptTimeout(),
		PollInterval:   cfg.Ledger.ReceiptPollInterval(),
		Retries:        cfg.Ledger.RPCRetries,
		RetryBaseDelay: time.Duration(cfg.Ledger.RPCRetryBaseMillis) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	client, err := audit.NewClient(ctx, cfg, signer, gw)
	if err != nil {
		gw.Close()
		return nil, nil, err
	}

	return client, gw, nil
}
