package lending

import (
	"math"

	"github.com/boddenberg/lamf-portal-go/internal/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MaxTenorMonths caps the calculator tenor at 30 years.
const MaxTenorMonths = 360

// EstimateInput is the calculator's slider state.
type EstimateInput struct {
	PortfolioValue float64 `json:"portfolio_value"`
	LoanPercentage float64 `json:"loan_percentage"`
	AnnualRate     float64 `json:"interest_rate"`
	TenorMonths    int     `json:"tenor_months"`
}

// DefaultEstimateInput mirrors the calculator's initial slider positions.
func DefaultEstimateInput() EstimateInput {
	return EstimateInput{
		PortfolioValue: 1000000,
		LoanPercentage: 40,
		AnnualRate:     10.5,
		TenorMonths:    12,
	}
}

// LoanEstimate is the calculator output.
type LoanEstimate struct {
	LoanAmount     decimal.Decimal `json:"loan_amount"`
	MonthlyEMI     decimal.Decimal `json:"monthly_emi"`
	TotalPayment   decimal.Decimal `json:"total_payment"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	PrincipalShare decimal.Decimal `json:"principal_share"`
	InterestShare  decimal.Decimal `json:"interest_share"`
}

// Validate rejects inputs the amortization formula cannot handle.
func (in EstimateInput) Validate() error {
	switch {
	case in.PortfolioValue < 0 || math.IsNaN(in.PortfolioValue) || math.IsInf(in.PortfolioValue, 0):
		return &domain.ErrValidation{Field: "portfolio_value", Message: "must be a non-negative amount"}
	case !(in.LoanPercentage >= 0 && in.LoanPercentage <= 100):
		return &domain.ErrValidation{Field: "loan_percentage", Message: "must be between 0 and 100"}
	case in.AnnualRate < 0 || math.IsNaN(in.AnnualRate) || math.IsInf(in.AnnualRate, 0):
		return &domain.ErrValidation{Field: "interest_rate", Message: "must be a non-negative rate"}
	case in.TenorMonths <= 0 || in.TenorMonths > MaxTenorMonths:
		return &domain.ErrValidation{Field: "tenor_months", Message: "must be between 1 and 360 months"}
	}
	return nil
}

// Estimate computes loan amount, EMI and totals for a portfolio.
//
//	loan  = portfolio * pct / 100
//	r     = annualRate / 12 / 100
//	emi   = loan * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate amortizes linearly: emi = loan / n. So does a rate too small
// for (1+r)^n to differ from 1 in float64.
func Estimate(in EstimateInput) (*LoanEstimate, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	n := decimal.NewFromInt(int64(in.TenorMonths))
	loan := decimal.NewFromFloat(in.PortfolioValue).
		Mul(decimal.NewFromFloat(in.LoanPercentage)).
		Div(hundred)

	r := in.AnnualRate / 12 / 100
	f := math.Pow(1+r, float64(in.TenorMonths))
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, &domain.ErrValidation{Field: "interest_rate", Message: "is too large for the selected tenor"}
	}

	var emi decimal.Decimal
	if f-1 <= 0 {
		emi = loan.Div(n)
	} else {
		emi = loan.
			Mul(decimal.NewFromFloat(r)).
			Mul(decimal.NewFromFloat(f)).
			Div(decimal.NewFromFloat(f - 1))
	}

	total := emi.Mul(n)
	est := &LoanEstimate{
		LoanAmount:    loan,
		MonthlyEMI:    emi,
		TotalPayment:  total,
		TotalInterest: total.Sub(loan),
	}
	if total.IsPositive() {
		est.PrincipalShare = loan.Div(total).Mul(hundred)
		est.InterestShare = est.TotalInterest.Div(total).Mul(hundred)
	}
	return est, nil
}
