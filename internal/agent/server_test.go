package agent

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/scaleaudit/scaleaudit/pkg/types"
)

func TestNodeServerHealth(t *testing.T) {
	srv := httptest.NewServer(NewNodeServer("web-node-1", 1024, nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" || body["nodeId"] != "web-node-1" {
		t.Errorf("unexpected health response: %v", body)
	}
}

func TestNodeServerMetricsShape(t *testing.T) {
	srv := httptest.NewServer(NewNodeServer("web-node-1", 1024, nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var sample types.MetricsSample
	if err := json.NewDecoder(resp.Body).Decode(&sample); err != nil {
		t.Fatal(err)
	}
	if sample.NodeID != "web-node-1" {
		t.Errorf("nodeId: %s", sample.NodeID)
	}
	if sample.AllocatedMemoryMB != 1024 {
		t.Errorf("allocatedMemory: %v", sample.AllocatedMemoryMB)
	}
	if sample.MemoryUsageMB <= 0 || sample.CPULoadPercent <= 0 {
		t.Errorf("expected positive readings: %+v", sample)
	}
	if _, err := types.ParseNodeStatus(sample.Status); err != nil {
		t.Errorf("status not parseable: %q", sample.Status)
	}
	if sample.Timestamp == 0 {
		t.Error("expected a timestamp")
	}
}

func TestNodeServerPrometheusExposition(t *testing.T) {
	metrics := NewMetrics()
	metrics.RecordSubmission("logNodeMetrics", "success")

	srv := httptest.NewServer(NewNodeServer("web-node-1", 1024, metrics.Registry()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics/prom")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "scaleaudit_submissions_total") {
		t.Error("exposition missing scaleaudit_submissions_total")
	}
}
