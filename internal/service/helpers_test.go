package service_test

import (
	"time"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/infra/cache"
	"github.com/boddenberg/lamf-portal-go/internal/infra/observability"
	"github.com/boddenberg/lamf-portal-go/internal/service"
)

func newTracker() (*service.ViewTracker, *observability.Metrics) {
	m := observability.NewMetrics()
	return service.NewViewTracker(cache.New[domain.ViewState](time.Minute), m), m
}
