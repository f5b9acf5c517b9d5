package v1

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// MetricsOverviewResponse represents the overview response of system metrics
type MetricsOverviewResponse struct {
	TotalRequests int64              `json:"total_requests"`
	SuccessRate   float64            `json:"success_rate"`
	AvgLatencyMs  int64              `json:"avg_latency_ms"`
	P50LatencyMs  int64              `json:"p50_latency_ms"`
	P95LatencyMs  int64              `json:"p95_latency_ms"`
	ErrorCount    int64              `json:"error_count"`
	Operations    []OperationMetrics `json:"operations"`
	Since         time.Time          `json:"since"`
}

// OperationMetrics is the per-operation part of the overview.
type OperationMetrics struct {
	Operation    string `json:"operation"`
	Count        int64  `json:"count"`
	ErrorCount   int64  `json:"error_count"`
	AvgLatencyMs int64  `json:"avg_latency_ms"`
}

// HealthResponse is the body of the health check.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// GetMetricsOverview returns in-process request metrics since start-up.
// GET /api/v1/system/metrics/overview
func (s *APIV1Service) GetMetricsOverview(c echo.Context) error {
	snap := s.Metrics.Snapshot()

	ops := make([]OperationMetrics, 0, len(snap.Operations))
	for name, op := range snap.Operations {
		ops = append(ops, OperationMetrics{
			Operation:    name,
			Count:        op.ExecutionCount,
			ErrorCount:   op.ErrorCount,
			AvgLatencyMs: op.AverageDuration,
		})
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Operation < ops[j].Operation })

	return c.JSON(http.StatusOK, MetricsOverviewResponse{
		TotalRequests: snap.RequestTotal,
		SuccessRate:   snap.SuccessRate(),
		AvgLatencyMs:  snap.AverageDuration(),
		P50LatencyMs:  snap.P50.Milliseconds(),
		P95LatencyMs:  snap.P95.Milliseconds(),
		ErrorCount:    snap.RequestFailed,
		Operations:    ops,
		Since:         s.startedAt,
	})
}

// Healthz reports whether the server and its database are reachable.
// GET /healthz
func (s *APIV1Service) Healthz(c echo.Context) error {
	version := ""
	if s.Profile != nil {
		version = s.Profile.Version
	}
	if s.Store != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := s.Store.GetDriver().GetDB().PingContext(ctx); err != nil {
			s.Logger.Warn("health check failed", "error", err)
			return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Version: version})
		}
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: version})
}
