package service

import (
	"context"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var dashTracer = otel.Tracer("service/dashboard")

// DashboardService serves the portfolio counters.
type DashboardService struct {
	fetcher port.DashboardFetcher
	logger  *zap.Logger
}

// NewDashboardService creates the service.
func NewDashboardService(fetcher port.DashboardFetcher, logger *zap.Logger) *DashboardService {
	return &DashboardService{fetcher: fetcher, logger: logger}
}

// Summary returns the dashboard counters.
func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.Summary")
	defer span.End()

	summary, err := s.fetcher.GetDashboard(ctx)
	if err != nil {
		s.logger.Error("failed to fetch dashboard", zap.Error(err))
		return nil, err
	}
	return summary, nil
}
