package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/scaleaudit/scaleaudit/internal/agent"
	"github.com/scaleaudit/scaleaudit/internal/audit"
	"github.com/scaleaudit/scaleaudit/internal/config"
	"github.com/scaleaudit/scaleaudit/internal/ledger"
	"github.com/scaleaudit/scaleaudit/internal/logging"
	"github.com/scaleaudit/scaleaudit/internal/util"
)

var (
	configPath = flag.String("config", "~/.scaleaudit/config.yaml", "Path to config file")
	nodeID     = flag.String("node-id", "", "Node identifier (overrides NODE_ID)")
	listenAddr = flag.String("listen", "", "Metric server bind address (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	id := *nodeID
	if id == "" {
		id = os.Getenv("NODE_ID")
	}
	if id == "" {
		id = "web-node-1"
	}
	allocatedMB := uint64(1024)
	if v := os.Getenv("MEMORY_LIMIT_MB"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid MEMORY_LIMIT_MB: %v\n", err)
			os.Exit(1)
		}
		allocatedMB = parsed
	}

	addr := *listenAddr
	if addr == "" {
		addr = cfg.Agent.ListenAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := agent.NewMetrics()
	server := &http.Server{
		Addr:    addr,
		Handler: agent.NewNodeServer(id, allocatedMB, metrics.Registry()).Handler(),
	}

	util.SafeGoWithName("metric-server", func() {
		logging.Info("metric server listening", "addr", addr, logging.NodeID(id))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("metric server failed", logging.Err(err))
			stop()
		}
	})

	// Publishing is optional: an agent with no contract configured still
	// serves its endpoints and can be scraped by another agent.
	if cfg.Ledger.ContractAddress != "" {
		if err := runPublisher(ctx, cfg, metrics); err != nil && !errors.Is(err, context.Canceled) {
			logging.Error("publisher exited", logging.Err(err))
		}
	} else {
		logging.Info("no contract configured, serving metrics only", logging.NodeID(id))
		<-ctx.Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error("metric server shutdown failed", logging.Err(err))
	}
	logging.Info("node agent stopped")
}

// runPublisher builds the ledger client stack and drives the
// scrape-and-submit loop until ctx ends.
func runPublisher(ctx context.Context, cfg *config.Config, metrics *agent.Metrics) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	signer, err := audit.LoadSigner(cfg.Identity)
	if err != nil {
		return err
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
		return err
	}
	defer gw.Close()

	client, err := audit.NewClient(ctx, cfg, signer, gw)
	if err != nil {
		return err
	}

	scraper := agent.NewScraper(cfg.Agent.NodeEndpoints, 10*time.Second, metrics)
	publisher := agent.NewPublisher(scraper, client, metrics, cfg.Agent)
	return publisher.Run(ctx)
}
