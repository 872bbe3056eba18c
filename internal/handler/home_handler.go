package handler

import (
	"net/http"

	"github.com/boddenberg/lamf-portal-go/internal/lending"
	"github.com/boddenberg/lamf-portal-go/internal/service"

	"go.uber.org/zap"
)

type homePage struct {
	basePage
	Features []contentBlock
	Steps    []contentBlock
	Benefits []contentBlock
	Sliders  []sliderRange
	Input    lending.EstimateInput
	Estimate *lending.LoanEstimate
	Error    string
}

// Value returns the current input for a slider name.
func (p homePage) Value(name string) float64 {
	switch name {
	case "portfolio_value":
		return p.Input.PortfolioValue
	case "loan_percentage":
		return p.Input.LoanPercentage
	case "interest_rate":
		return p.Input.AnnualRate
	case "tenor_months":
		return float64(p.Input.TenorMonths)
	}
	return 0
}

// estimateInputFromQuery reads calculator inputs, defaulting each missing one.
func estimateInputFromQuery(r *http.Request) lending.EstimateInput {
	def := lending.DefaultEstimateInput()
	return lending.EstimateInput{
		PortfolioValue: queryFloat(r, "portfolio_value", def.PortfolioValue),
		LoanPercentage: queryFloat(r, "loan_percentage", def.LoanPercentage),
		AnnualRate:     queryFloat(r, "interest_rate", def.AnnualRate),
		TenorMonths:    queryInt(r, "tenor_months", def.TenorMonths),
	}
}

// ============================================================
// GET /: marketing page with the loan impact calculator
// ============================================================

func homeHandler(calc *service.CalculatorService, wb *web, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /")
		defer span.End()

		page := homePage{
			basePage: wb.base(r, "Loan Against Mutual Funds", "home"),
			Features: features,
			Steps:    onboardingSteps,
			Benefits: benefits,
			Sliders:  calculatorSliders,
			Input:    estimateInputFromQuery(r),
		}

		status := http.StatusOK
		est, err := calc.Estimate(page.Input)
		if err != nil {
			logger.Debug("calculator input rejected", zap.Error(err))
			page.Error = userMessage(err)
			status = http.StatusBadRequest
		}
		page.Estimate = est

		wb.render.Render(w, status, "home", page)
	}
}

// ============================================================
// GET /api/v1/calculator
// ============================================================

type calculatorResponse struct {
	Input    lending.EstimateInput `json:"input"`
	Estimate *lending.LoanEstimate `json:"estimate"`
}

func calculatorHandler(calc *service.CalculatorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /api/v1/calculator")
		defer span.End()

		in := estimateInputFromQuery(r)
		est, err := calc.Estimate(in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, calculatorResponse{Input: in, Estimate: est})
	}
}
