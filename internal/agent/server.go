package agent

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/scaleaudit/scaleaudit/internal/logging"
	"github.com/scaleaudit/scaleaudit/pkg/types"
)

// NodeServer serves a node's metric endpoints: /health, /metrics (the JSON
// the scraper consumes), and /metrics/prom for Prometheus exposition. The
// server is deliberately stateless; it is a data source, not part of the
// audit core.
type NodeServer struct {
	nodeID      string
	allocatedMB float64
	registry    *prometheus.Registry
}

// NewNodeServer creates the metric endpoint handler for one node.
func NewNodeServer(nodeID string, allocatedMB uint64, registry *prometheus.Registry) *NodeServer {
	return &NodeServer{
		nodeID:      nodeID,
		allocatedMB: float64(allocatedMB),
		registry:    registry,
	}
}

// Handler returns the HTTP mux for the node's endpoints.
func (s *NodeServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/metrics", s.handleMetrics)
	if s.registry != nil {
		mux.Handle("/metrics/prom", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return mux
}

func (s *NodeServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status": "healthy",
		"nodeId": s.nodeID,
	})
}

func (s *NodeServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	// Jittered readings, matching what a real host exporter would report
	// for a lightly loaded web node.
	sample := types.MetricsSample{
		NodeID:            s.nodeID,
		MemoryUsageMB:     512 + (rand.Float64()*100 - 50),
		CPULoadPercent:    35 + (rand.Float64()*10 - 5),
		AllocatedMemoryMB: s.allocatedMB,
		Status:            types.StatusNormal.String(),
		Timestamp:         float64(time.Now().Unix()),
	}
	logging.Debug("reporting metrics", logging.NodeID(s.nodeID),
		"cpu", sample.CPULoadPercent, "memory", sample.MemoryUsageMB)
	writeJSON(w, sample)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode response", logging.Err(err))
	}
}
