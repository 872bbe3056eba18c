package domain

import "time"

// ============================================================
// Loan Applications
// ============================================================

// ApplicationStatus is the lifecycle state of a loan application.
type ApplicationStatus string

const (
	ApplicationDraft       ApplicationStatus = "DRAFT"
	ApplicationSubmitted   ApplicationStatus = "SUBMITTED"
	ApplicationUnderReview ApplicationStatus = "UNDER_REVIEW"
	ApplicationApproved    ApplicationStatus = "APPROVED"
	ApplicationRejected    ApplicationStatus = "REJECTED"
)

// ApplicationStatuses lists the statuses in lifecycle order (filter bar order).
var ApplicationStatuses = []ApplicationStatus{
	ApplicationDraft,
	ApplicationSubmitted,
	ApplicationUnderReview,
	ApplicationApproved,
	ApplicationRejected,
}

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label is the human-readable badge text.
func (s ApplicationStatus) Label() string {
	switch s {
	case ApplicationDraft:
		return "Draft"
	case ApplicationSubmitted:
		return "Submitted"
	case ApplicationUnderReview:
		return "Under Review"
	case ApplicationApproved:
		return "Approved"
	case ApplicationRejected:
		return "Rejected"
	}
	return string(s)
}

// NextActions returns the transitions an operator may trigger from s.
// The backend owns the real state machine; this only decides which
// buttons are rendered.
func (s ApplicationStatus) NextActions() []ApplicationStatus {
	switch s {
	case ApplicationSubmitted:
		return []ApplicationStatus{ApplicationApproved, ApplicationUnderReview, ApplicationRejected}
	case ApplicationUnderReview:
		return []ApplicationStatus{ApplicationApproved, ApplicationRejected}
	}
	return nil
}

// Customer is the borrower embedded in applications, accounts and collateral.
type Customer struct {
	ID       string `json:"_id,omitempty"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	PAN      string `json:"pan,omitempty"`
}

// LoanProductType is the product family (e.g. LAMF).
type LoanProductType struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// LoanProduct is the product an application is raised against.
type LoanProduct struct {
	ID                 string           `json:"_id,omitempty"`
	Name               string           `json:"name"`
	Code               string           `json:"code"`
	InterestRateAnnual float64          `json:"interest_rate_annual,omitempty"`
	RepaymentStyle     string           `json:"repayment_style,omitempty"`
	ProductType        *LoanProductType `json:"loan_product_type_id,omitempty"`
}

// LoanApplication as returned by GET /api/loan-applications.
type LoanApplication struct {
	ID              string            `json:"_id"`
	Customer        *Customer         `json:"customer_id"`
	Product         *LoanProduct      `json:"loan_product_id"`
	RequestedAmount float64           `json:"requested_amount"`
	TenorMonths     int               `json:"tenor_months"`
	Status          ApplicationStatus `json:"status"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// CreateApplicationRequest is the body of POST /api/loan-applications.
type CreateApplicationRequest struct {
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPAN     string            `json:"customer_pan"`
	CustomerPhone   string            `json:"customer_phone"`
	LoanProductID   string            `json:"loan_product_id"`
	RequestedAmount float64           `json:"requested_amount"`
	TenorMonths     int               `json:"tenor_months"`
	Status          ApplicationStatus `json:"status"`
}

// UpdateApplicationRequest is the body of PUT /api/loan-applications/{id}.
// RequestedAmount is only sent when the operator edited it before approval.
type UpdateApplicationRequest struct {
	Status          ApplicationStatus `json:"status"`
	RequestedAmount float64           `json:"requested_amount,omitempty"`
}
