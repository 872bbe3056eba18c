package domain

import "time"

// ============================================================
// Collateral (pledged mutual fund units)
// ============================================================

// CollateralStatus is the pledge state of a security.
type CollateralStatus string

const (
	CollateralPledged  CollateralStatus = "PLEDGED"
	CollateralReleased CollateralStatus = "RELEASED"
	CollateralInvoked  CollateralStatus = "INVOKED"
)

// CollateralStatuses lists the filterable statuses.
var CollateralStatuses = []CollateralStatus{CollateralPledged, CollateralReleased, CollateralInvoked}

// Valid reports whether s is a known collateral status.
func (s CollateralStatus) Valid() bool {
	switch s {
	case CollateralPledged, CollateralReleased, CollateralInvoked:
		return true
	}
	return false
}

// Label is the human-readable badge text.
func (s CollateralStatus) Label() string {
	switch s {
	case CollateralPledged:
		return "Pledged"
	case CollateralReleased:
		return "Released"
	case CollateralInvoked:
		return "Invoked"
	}
	return string(s)
}

// Loan is the sanctioned loan a collateral or repayment belongs to.
type Loan struct {
	ID                   string       `json:"_id,omitempty"`
	LoanNumber           string       `json:"loan_number"`
	Status               string       `json:"status"`
	PrincipalSanctioned  float64      `json:"principal_sanctioned"`
	PrincipalOutstanding float64      `json:"principal_outstanding,omitempty"`
	Product              *LoanProduct `json:"loan_product_id,omitempty"`
}

// SecurityType defines the haircut and LTV cap for a class of securities.
type SecurityType struct {
	ID             string  `json:"_id,omitempty"`
	Name           string  `json:"name"`
	SecurityType   string  `json:"security_type"`
	HaircutPercent float64 `json:"haircut_percent"`
	MaxLTVRatio    float64 `json:"max_ltv_ratio"`
}

// Collateral is a pledged security with its pledge-time and current snapshots.
type Collateral struct {
	ID                 string           `json:"_id"`
	Loan               *Loan            `json:"loan_id"`
	Customer           *Customer        `json:"customer_id"`
	SecurityType       *SecurityType    `json:"loan_security_type_id"`
	SecurityIdentifier string           `json:"security_identifier"`
	LTVAtPledge        float64          `json:"ltv_at_pledge"`
	AmountAtPledge     float64          `json:"amount_at_pledge"`
	CurrentLTV         float64          `json:"current_ltv"`
	CurrentValue       float64          `json:"current_value"`
	Status             CollateralStatus `json:"status"`
	CreatedAt          time.Time        `json:"createdAt"`
}

// PrincipalSanctioned returns the linked loan's principal, 0 when unlinked.
func (c *Collateral) PrincipalSanctioned() float64 {
	if c.Loan == nil {
		return 0
	}
	return c.Loan.PrincipalSanctioned
}

// MaxLTVRatio returns the security type's LTV cap, 0 when unlinked.
func (c *Collateral) MaxLTVRatio() float64 {
	if c.SecurityType == nil {
		return 0
	}
	return c.SecurityType.MaxLTVRatio
}

// PledgeCollateralRequest is the body of POST /api/collaterals. Pledge-time
// amount and LTV are duplicated into the current fields.
type PledgeCollateralRequest struct {
	LoanID             string           `json:"loan_id"`
	SecurityTypeID     string           `json:"loan_security_type_id"`
	SecurityIdentifier string           `json:"security_identifier"`
	AmountAtPledge     float64          `json:"amount_at_pledge"`
	CurrentValue       float64          `json:"current_value"`
	LTVAtPledge        float64          `json:"ltv_at_pledge"`
	CurrentLTV         float64          `json:"current_ltv"`
	Status             CollateralStatus `json:"status"`
}

// UpdateCollateralRequest is the partial body of PUT /api/collaterals/{id}.
type UpdateCollateralRequest struct {
	Status       CollateralStatus `json:"status,omitempty"`
	CurrentValue *float64         `json:"current_value,omitempty"`
	CurrentLTV   *float64         `json:"current_ltv,omitempty"`
}
