package service

import (
	"github.com/boddenberg/lamf-portal-go/internal/infra/observability"
	"github.com/boddenberg/lamf-portal-go/internal/lending"
)

// CalculatorService wraps the EMI estimate for the home page and the JSON API.
type CalculatorService struct {
	metrics *observability.Metrics
}

// NewCalculatorService creates the service.
func NewCalculatorService(metrics *observability.Metrics) *CalculatorService {
	return &CalculatorService{metrics: metrics}
}

// Estimate computes the loan estimate for in.
func (s *CalculatorService) Estimate(in lending.EstimateInput) (*lending.LoanEstimate, error) {
	est, err := lending.Estimate(in)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrCalculation("emi")
	return est, nil
}
