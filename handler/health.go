package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/ordapay/ordapay/infra/config"
	"github.com/ordapay/ordapay/infra/response"
	"github.com/ordapay/ordapay/provider"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	tenantConfig *config.TenantConfig
	startTime    time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(tenantConfig *config.TenantConfig) *HealthHandler {
	return &HealthHandler{
		tenantConfig: tenantConfig,
		startTime:    time.Now(),
	}
}

// HealthStatus represents overall system health
type HealthStatus struct {
	Status      string        `json:"status"`
	Version     string        `json:"version"`
	Timestamp   time.Time     `json:"timestamp"`
	Uptime      string        `json:"uptime"`
	Environment string        `json:"environment"`
	Providers   []string      `json:"providers"`
	System      *SystemHealth `json:"system"`
}

// SystemHealth represents system resource health
type SystemHealth struct {
	GoRoutines int    `json:"goroutines"`
	AllocBytes uint64 `json:"alloc_bytes"`
	GCRuns     uint32 `json:"gc_runs"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	status := HealthStatus{
		Status:      "healthy",
		Version:     "1.0.0",
		Timestamp:   time.Now().UTC(),
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Environment: config.GetEnv("ENVIRONMENT", "development"),
		Providers:   provider.DefaultRegistry.Names(),
		System: &SystemHealth{
			GoRoutines: runtime.NumGoroutine(),
			AllocBytes: memStats.Alloc,
			GCRuns:     memStats.NumGC,
		},
	}

	response.Success(w, http.StatusOK, "OK", status)
}
