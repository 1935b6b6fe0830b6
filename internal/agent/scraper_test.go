package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/scaleaudit/scaleaudit/pkg/types"
)

func metricsServer(t *testing.T, sample types.MetricsSample) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sample); err != nil {
			t.Error(err)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestScrapeCollectsSamples(t *testing.T) {
	srv1 := metricsServer(t, types.MetricsSample{NodeID: "web-node-1", MemoryUsageMB: 512, CPULoadPercent: 35, AllocatedMemoryMB: 1024, Status: "Normal"})
	srv2 := metricsServer(t, types.MetricsSample{NodeID: "web-node-2", MemoryUsageMB: 900, CPULoadPercent: 80, AllocatedMemoryMB: 1024, Status: "Normal"})

	s := NewScraper([]string{srv1.URL, srv2.URL}, time.Second, nil)
	samples := s.Scrape(context.Background())

	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].NodeID != "web-node-1" || samples[1].NodeID != "web-node-2" {
		t.Errorf("unexpected node ids: %+v", samples)
	}
}

func TestScrapeSkipsUnreachableNodes(t *testing.T) {
	srv := metricsServer(t, types.MetricsSample{NodeID: "web-node-1", AllocatedMemoryMB: 1024})

	s := NewScraper([]string{"http://127.0.0.1:1", srv.URL}, time.Second, NewMetrics())
	samples := s.Scrape(context.Background())

	if len(samples) != 1 {
		t.Fatalf("expected the healthy node's sample, got %d", len(samples))
	}
	if samples[0].NodeID != "web-node-1" {
		t.Errorf("unexpected sample: %+v", samples[0])
	}
}

func TestScrapeRejectsResponseWithoutNodeID(t *testing.T) {
	srv := metricsServer(t, types.MetricsSample{MemoryUsageMB: 512})

	s := NewScraper([]string{srv.URL}, time.Second, nil)
	if samples := s.Scrape(context.Background()); len(samples) != 0 {
		t.Errorf("sample without nodeId should be dropped, got %d", len(samples))
	}
}

func TestScrapeRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	s := NewScraper([]string{srv.URL}, time.Second, nil)
	if samples := s.Scrape(context.Background()); len(samples) != 0 {
		t.Errorf("error response should yield no samples, got %d", len(samples))
	}
}
