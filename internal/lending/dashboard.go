package lending

import (
	"github.com/boddenberg/lamf-portal-go/internal/domain"

	"github.com/shopspring/decimal"
)

// ActiveLoanShare is the rounded percentage of active loans among all loans.
func ActiveLoanShare(s *domain.DashboardSummary) int64 {
	total := s.TotalLoans()
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(s.ActiveLoans)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(hundred).
		Round(0).
		IntPart()
}

// RepaymentCoverage is the rounded percentage of disbursed principal already
// repaid, capped at 100.
func RepaymentCoverage(s *domain.DashboardSummary) int64 {
	if !s.TotalDisbursed.IsPositive() {
		return 0
	}
	pct := s.TotalRepayment.Div(s.TotalDisbursed.Decimal).Mul(hundred).Round(0).IntPart()
	if pct > 100 {
		return 100
	}
	return pct
}
