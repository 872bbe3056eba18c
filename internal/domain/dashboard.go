package domain

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ============================================================
// Dashboard
// ============================================================

// Amount is a monetary value the backend sends either as a JSON number or
// as a numeric string. Anything unparsable decodes to zero.
type Amount struct {
	decimal.Decimal
}

// NewAmount builds an Amount from a float.
func NewAmount(v float64) Amount {
	return Amount{decimal.NewFromFloat(v)}
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			a.Decimal = decimal.Zero
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			d = decimal.Zero
		}
		a.Decimal = d
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		d = decimal.Zero
	}
	a.Decimal = d
	return nil
}

// DashboardSummary holds the backend's precomputed portfolio counters.
type DashboardSummary struct {
	NewLoans                      int    `json:"newLoans"`
	ActiveLoans                   int    `json:"activeLoans"`
	ClosedLoans                   int    `json:"closedLoans"`
	ApplicantsWithUnpaidShortfall int    `json:"applicantsWithUnpaidShortfall"`
	TotalShortfallAmount          Amount `json:"totalShortfallAmount"`
	TotalSanctionedAmount         Amount `json:"totalSanctionedAmount"`
	TotalRepayment                Amount `json:"totalRepayment"`
	TotalDisbursed                Amount `json:"totalDisbursed"`
	ActiveSecurities              int    `json:"activeSecurities"`
	TotalWriteOff                 Amount `json:"totalWriteOff"`
}

// TotalLoans is the sum of new, active and closed loans.
func (d *DashboardSummary) TotalLoans() int {
	return d.NewLoans + d.ActiveLoans + d.ClosedLoans
}

// HasRiskAlert reports whether unresolved shortfalls exist.
func (d *DashboardSummary) HasRiskAlert() bool {
	return d.ApplicantsWithUnpaidShortfall > 0 || d.TotalShortfallAmount.IsPositive()
}
