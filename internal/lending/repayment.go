package lending

import (
	"github.com/boddenberg/lamf-portal-go/internal/domain"

	"github.com/shopspring/decimal"
)

// RepaymentTotal is the exact sum of a payment's components.
func RepaymentTotal(principal, interest, penalty decimal.Decimal) decimal.Decimal {
	return principal.Add(interest).Add(penalty)
}

// SummarizeRepayments totals amount and components across rows.
func SummarizeRepayments(rows []domain.Repayment) domain.RepaymentSummary {
	amount, principal, interest, penalty := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range rows {
		amount = amount.Add(decimal.NewFromFloat(r.Amount))
		principal = principal.Add(decimal.NewFromFloat(r.PrincipalComponent))
		interest = interest.Add(decimal.NewFromFloat(r.InterestComponent))
		penalty = penalty.Add(decimal.NewFromFloat(r.PenaltyComponent))
	}
	return domain.RepaymentSummary{
		TotalAmount:    amount.InexactFloat64(),
		TotalPrincipal: principal.InexactFloat64(),
		TotalInterest:  interest.InexactFloat64(),
		TotalPenalty:   penalty.InexactFloat64(),
	}
}

// CurrentOutstanding reads the outstanding principal off the first row's loan.
func CurrentOutstanding(rows []domain.Repayment) float64 {
	if len(rows) == 0 {
		return 0
	}
	return rows[0].PrincipalOutstanding()
}
