package agent

import (
	"context"
	"math"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/scaleaudit/scaleaudit/internal/config"
	"github.com/scaleaudit/scaleaudit/internal/logging"
	"github.com/scaleaudit/scaleaudit/pkg/types"
	"golang.org/x/time/rate"
)

// Thresholds at which a node's reading is escalated to Alert regardless of
// the status the node reported for itself.
const (
	alertCPUPercent    = 90
	alertMemoryPercent = 90
)

// MetricsLogger is the slice of the audit client the publisher needs.
type MetricsLogger interface {
	LogNodeMetrics(ctx context.Context, nodeID string, memoryUsageMB, cpuLoadPercent, allocatedMemoryMB uint64, status types.NodeStatus) (common.Hash, error)
}

// Publisher drives the scrape-and-submit loop: poll the node fleet,
// normalize readings, and record them on the ledger. Ledger writes go
// through a rate limiter so a large fleet cannot flood the chain with
// transactions.
type Publisher struct {
	scraper  *Scraper
	logger   MetricsLogger
	limiter  *rate.Limiter
	metrics  *Metrics
	interval time.Duration
}

// NewPublisher wires a publisher from the agent configuration.
func NewPublisher(scraper *Scraper, logger MetricsLogger, metrics *Metrics, cfg config.AgentConfig) *Publisher {
	perMin := cfg.SubmitRatePerMin
	if perMin <= 0 {
		perMin = 30
	}
	return &Publisher{
		scraper:  scraper,
		logger:   logger,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), 1),
		metrics:  metrics,
		interval: time.Duration(cfg.ScrapeIntervalSecs) * time.Second,
	}
}

// Run scrapes and publishes on the configured interval until ctx ends.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	logging.Info("publisher started", "interval", p.interval.String())

	// One sweep immediately so a fresh agent reports without waiting a
	// full interval.
	p.publishOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("publisher stopped")
			return ctx.Err()
		case <-ticker.C:
			p.publishOnce(ctx)
		}
	}
}

func (p *Publisher) publishOnce(ctx context.Context) {
	for _, sample := range p.scraper.Scrape(ctx) {
		if err := p.limiter.Wait(ctx); err != nil {
			return
		}
		p.publish(ctx, sample)
	}
}

func (p *Publisher) publish(ctx context.Context, sample types.MetricsSample) {
	status := Classify(sample)
	memory := clampToUint(sample.MemoryUsageMB)
	allocated := clampToUint(sample.AllocatedMemoryMB)
	cpu := ClampPercent(sample.CPULoadPercent)

	hash, err := p.logger.LogNodeMetrics(ctx, sample.NodeID, memory, cpu, allocated, status)
	outcome := "success"
	if err != nil {
		outcome = "failure"
		logging.Error("failed to record node metrics",
			logging.NodeID(sample.NodeID), logging.Err(err))
	} else {
		logging.Info("node metrics recorded",
			logging.NodeID(sample.NodeID),
			logging.TxHash(hash.Hex()),
			"status", status.String(),
		)
	}
	if p.metrics != nil {
		p.metrics.RecordSubmission("logNodeMetrics", outcome)
	}
}

// Classify determines the status to record for a sample. The node's own
// report is trusted when parseable, but threshold breaches escalate to
// Alert either way.
func Classify(sample types.MetricsSample) types.NodeStatus {
	status, err := types.ParseNodeStatus(sample.Status)
	if err != nil {
		status = types.StatusNormal
	}

	if sample.CPULoadPercent >= alertCPUPercent {
		return types.StatusAlert
	}
	if sample.AllocatedMemoryMB > 0 &&
		sample.MemoryUsageMB/sample.AllocatedMemoryMB*100 >= alertMemoryPercent {
		return types.StatusAlert
	}
	return status
}

// ClampPercent rounds a scraped CPU reading into the contract's [0,100]
// integer range.
func ClampPercent(v float64) uint64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return uint64(math.Round(v))
}

func clampToUint(v float64) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(math.Round(v))
}
