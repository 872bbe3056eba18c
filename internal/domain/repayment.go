package domain

import "time"

// ============================================================
// Repayments
// ============================================================

// Payment methods accepted by the backend.
const (
	PaymentUPI    = "UPI"
	PaymentNEFT   = "NEFT"
	PaymentRTGS   = "RTGS"
	PaymentIMPS   = "IMPS"
	PaymentCheque = "CHEQUE"
	PaymentCash   = "CASH"
)

// PaymentMethods lists the selectable payment methods.
var PaymentMethods = []string{PaymentUPI, PaymentNEFT, PaymentRTGS, PaymentIMPS, PaymentCheque, PaymentCash}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if m == v {
			return true
		}
	}
	return false
}

// RepaymentView selects which repayment collection is listed.
type RepaymentView string

const (
	RepaymentViewAll      RepaymentView = "all"
	RepaymentViewCustomer RepaymentView = "customer"
	RepaymentViewLoan     RepaymentView = "loan"
)

// ParseRepaymentView maps a query value to a view, defaulting to all.
func ParseRepaymentView(v string) RepaymentView {
	switch RepaymentView(v) {
	case RepaymentViewCustomer, RepaymentViewLoan:
		return RepaymentView(v)
	}
	return RepaymentViewAll
}

// Repayment is one recorded payment against a loan.
type Repayment struct {
	ID                 string    `json:"_id"`
	Loan               *Loan     `json:"loan_id"`
	PaymentDate        time.Time `json:"payment_date"`
	Amount             float64   `json:"amount"`
	PrincipalComponent float64   `json:"principal_component"`
	InterestComponent  float64   `json:"interest_component"`
	PenaltyComponent   float64   `json:"penalty_component"`
	PaymentMethod      string    `json:"payment_method"`
	ReferenceNumber    string    `json:"reference_number"`
}

// PrincipalOutstanding returns the linked loan's outstanding principal, 0 when unlinked.
func (r *Repayment) PrincipalOutstanding() float64 {
	if r.Loan == nil {
		return 0
	}
	return r.Loan.PrincipalOutstanding
}

// RepaymentSummary aggregates a set of repayments.
type RepaymentSummary struct {
	TotalAmount    float64 `json:"totalAmount"`
	TotalPrincipal float64 `json:"totalPrincipal"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalPenalty   float64 `json:"totalPenalty"`
}

// RepaymentList is a repayment collection with the optional backend summary.
type RepaymentList struct {
	Repayments []Repayment
	Summary    *RepaymentSummary
}

// CreateRepaymentRequest is the body of POST /api/repayments.
type CreateRepaymentRequest struct {
	LoanID             string  `json:"loan_id"`
	Amount             float64 `json:"amount"`
	PrincipalComponent float64 `json:"principal_component"`
	InterestComponent  float64 `json:"interest_component"`
	PenaltyComponent   float64 `json:"penalty_component"`
	PaymentMethod      string  `json:"payment_method"`
	PaymentDate        string  `json:"payment_date"`
}
