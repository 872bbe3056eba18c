package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
)

func TestHealthz(t *testing.T) {
	h := newHarness(t, harnessOpts{})

	rec := h.get("/healthz")
	assertStatus(t, rec, http.StatusOK)

	var got domain.HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "healthy" {
		t.Errorf("expected healthy, got %q", got.Status)
	}
	names := map[string]bool{}
	for _, s := range got.Services {
		names[s.Name] = true
	}
	for _, want := range []string{"lamf-portal", "lamf-core", "lamf-collateral"} {
		if !names[want] {
			t.Errorf("expected service %q in %+v", want, got.Services)
		}
	}
}

func TestReadyz(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	assertStatus(t, h.get("/readyz"), http.StatusOK)
}

func TestMetrics(t *testing.T) {
	h := newHarness(t, harnessOpts{})

	h.get("/dashboard")
	rec := h.get("/metrics")

	assertStatus(t, rec, http.StatusOK)
	assertContains(t, rec.Body.String(), "lamf_backend_requests_total")
}

func TestPing(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	assertStatus(t, h.get("/ping"), http.StatusOK)
}

func TestBackendStatus(t *testing.T) {
	h := newHarness(t, harnessOpts{})

	h.get("/dashboard")
	h.get("/repayment")

	rec := h.get("/api/v1/status")
	assertStatus(t, rec, http.StatusOK)

	var got domain.BackendStats
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Calls != 2 || got.Errors != 0 {
		t.Errorf("expected 2 calls and no errors, got %+v", got)
	}
}

func TestStaticAssets(t *testing.T) {
	h := newHarness(t, harnessOpts{})

	rec := h.get("/static/style.css")
	assertStatus(t, rec, http.StatusOK)
	assertContains(t, rec.Body.String(), ".theme-dark")
}
