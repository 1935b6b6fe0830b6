package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/scaleaudit/scaleaudit/internal/logging"
	"github.com/scaleaudit/scaleaudit/pkg/types"
)

// Scraper polls the node fleet's metric endpoints. Each node exposes a
// trivial stateless /metrics JSON endpoint; the scraper is the bridge
// between those producers and the audit client.
type Scraper struct {
	client    *http.Client
	endpoints []string
	metrics   *Metrics
}

// NewScraper creates a scraper for the given node base URLs.
func NewScraper(endpoints []string, timeout time.Duration, metrics *Metrics) *Scraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		endpoints: endpoints,
		metrics:   metrics,
	}
}

// Scrape fetches one sample from every configured endpoint. Unreachable
// nodes are logged and counted but do not fail the sweep; the remaining
// samples are still returned.
func (s *Scraper) Scrape(ctx context.Context) []types.MetricsSample {
	samples := make([]types.MetricsSample, 0, len(s.endpoints))
	for _, endpoint := range s.endpoints {
		sample, err := s.scrapeOne(ctx, endpoint)
		if err != nil {
			logging.Warn("node scrape failed", "endpoint", endpoint, logging.Err(err))
			if s.metrics != nil {
				s.metrics.RecordScrapeFailure(endpoint)
			}
			continue
		}
		samples = append(samples, sample)
	}
	if s.metrics != nil {
		s.metrics.RecordSamples(len(samples))
	}
	return samples
}

func (s *Scraper) scrapeOne(ctx context.Context, endpoint string) (types.MetricsSample, error) {
	url := strings.TrimSuffix(endpoint, "/") + "/metrics"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.MetricsSample{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return types.MetricsSample{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.MetricsSample{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var sample types.MetricsSample
	if err := json.NewDecoder(resp.Body).Decode(&sample); err != nil {
		return types.MetricsSample{}, fmt.Errorf("failed to decode metrics: %w", err)
	}
	if sample.NodeID == "" {
		return types.MetricsSample{}, fmt.Errorf("metrics response missing nodeId")
	}
	return sample, nil
}
