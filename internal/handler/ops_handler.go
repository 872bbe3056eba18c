package handler

import (
	"net/http"
	"time"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/infra/observability"
)

// Backend is a remote LAMF service whose breaker state is reported by /healthz.
type Backend interface {
	Service() string
	BreakerState() string
}

// ============================================================
// Operational endpoints
// ============================================================

func healthzHandler(backends []Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "lamf-portal", Status: "healthy", LastChecked: now},
		}
		for _, b := range backends {
			status := "healthy"
			switch b.BreakerState() {
			case "open":
				status = "unhealthy"
			case "half-open":
				status = "degraded"
			}
			services = append(services, domain.ServiceHealth{
				Name:        "lamf-" + b.Service(),
				Status:      status,
				LastChecked: now,
			})
		}

		// The portal keeps serving with a dead backend; it only degrades.
		overallStatus := "healthy"
		for _, s := range services {
			if s.Status != "healthy" {
				overallStatus = "degraded"
				break
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func backendStatusHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.BackendSnapshot())
	}
}
