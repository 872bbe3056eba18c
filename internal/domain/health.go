package domain

// ============================================================
// Health & Status API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual service.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// BackendStats is returned by GET /api/v1/status.
type BackendStats struct {
	Calls          int64   `json:"calls"`
	Errors         int64   `json:"errors"`
	ErrorRate      float64 `json:"errorRate"`
	StaleDiscarded int64   `json:"staleDiscarded"`
	Mutations      int64   `json:"mutations"`
	Period         string  `json:"period"`
}
