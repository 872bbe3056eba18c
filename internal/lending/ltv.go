package lending

import (
	"math"

	"github.com/boddenberg/lamf-portal-go/internal/domain"

	"github.com/shopspring/decimal"
)

// LTVRisk is the Safe/Warning/Breach classification of a loan-to-value ratio.
type LTVRisk string

const (
	LTVSafe    LTVRisk = "Safe"
	LTVWarning LTVRisk = "Warning"
	LTVBreach  LTVRisk = "Breach"
)

// CSSClass returns the badge class used by the templates.
func (r LTVRisk) CSSClass() string {
	switch r {
	case LTVSafe:
		return "ltv-safe"
	case LTVWarning:
		return "ltv-warning"
	}
	return "ltv-breach"
}

var (
	// DefaultMaxLTV is used by the table policy when a security type has no cap.
	DefaultMaxLTV = decimal.NewFromInt(50)
	// WarningBand is how far above the cap the table policy still reports Warning.
	WarningBand = decimal.NewFromInt(10)

	detailWarningAt = decimal.NewFromInt(50)
	detailBreachAt  = decimal.NewFromInt(60)
)

// CurrentLTV recomputes the loan-to-value percentage for a new market value.
// A non-positive or non-finite value yields 0, as does a non-finite principal.
func CurrentLTV(principalSanctioned, currentValue float64) decimal.Decimal {
	if !isFinite(principalSanctioned) || !isFinite(currentValue) {
		return decimal.Zero
	}
	value := decimal.NewFromFloat(currentValue)
	if !value.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromFloat(principalSanctioned).Div(value).Mul(hundred)
}

// ClassifyTableLTV is the list view policy. The boundary is the security
// type's max LTV (DefaultMaxLTV when zero); Warning spans WarningBand above it.
func ClassifyTableLTV(ltv, maxLTV decimal.Decimal) LTVRisk {
	threshold := maxLTV
	if !threshold.IsPositive() {
		threshold = DefaultMaxLTV
	}
	switch {
	case ltv.LessThan(threshold):
		return LTVSafe
	case ltv.LessThan(threshold.Add(WarningBand)):
		return LTVWarning
	}
	return LTVBreach
}

// ClassifyDetailLTV is the detail and update panel policy with fixed
// boundaries at 50 and 60, regardless of the security type.
func ClassifyDetailLTV(ltv decimal.Decimal) LTVRisk {
	switch {
	case ltv.LessThan(detailWarningAt):
		return LTVSafe
	case ltv.LessThan(detailBreachAt):
		return LTVWarning
	}
	return LTVBreach
}

// ShortfallEligible reports whether the shortfall affordance should be offered.
func ShortfallEligible(ltv decimal.Decimal) bool {
	return ltv.GreaterThanOrEqual(detailBreachAt)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// PledgeDrift is the percentage change of current value against the pledge
// amount. Zero when nothing was pledged.
func PledgeDrift(currentValue, amountAtPledge float64) decimal.Decimal {
	pledged := decimal.NewFromFloat(amountAtPledge)
	if pledged.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromFloat(currentValue).Sub(pledged).Div(pledged).Mul(hundred)
}

// CollateralStats are the counters above the collateral table.
type CollateralStats struct {
	Total      int
	Pledged    int
	AtRisk     int
	TotalValue decimal.Decimal
}

// SummarizeCollaterals counts pledged and at-risk rows and sums current value.
// At risk means pledged with a stored LTV at or above the breach boundary.
func SummarizeCollaterals(rows []domain.Collateral) CollateralStats {
	stats := CollateralStats{Total: len(rows), TotalValue: decimal.Zero}
	for _, c := range rows {
		stats.TotalValue = stats.TotalValue.Add(decimal.NewFromFloat(c.CurrentValue))
		if c.Status != domain.CollateralPledged {
			continue
		}
		stats.Pledged++
		if ShortfallEligible(decimal.NewFromFloat(c.CurrentLTV)) {
			stats.AtRisk++
		}
	}
	return stats
}
