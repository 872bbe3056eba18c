package domain

import "time"

// ============================================================
// Bank Accounts
// ============================================================

// Account types accepted by the backend.
const (
	AccountTypeSettlement   = "SETTLEMENT"
	AccountTypeCustomer     = "CUSTOMER"
	AccountTypeDisbursement = "DISBURSEMENT"
)

// AccountTypes lists the selectable account types.
var AccountTypes = []string{AccountTypeSettlement, AccountTypeCustomer, AccountTypeDisbursement}

// ValidAccountType reports whether t is one of AccountTypes.
func ValidAccountType(t string) bool {
	for _, v := range AccountTypes {
		if t == v {
			return true
		}
	}
	return false
}

// AccountOwnerFilter selects accounts by owning entity.
type AccountOwnerFilter string

const (
	AccountOwnerAll      AccountOwnerFilter = "ALL"
	AccountOwnerCompany  AccountOwnerFilter = "COMPANY"
	AccountOwnerCustomer AccountOwnerFilter = "CUSTOMER"
)

// ParseAccountOwnerFilter maps a query value to a filter, defaulting to ALL.
func ParseAccountOwnerFilter(v string) AccountOwnerFilter {
	switch AccountOwnerFilter(v) {
	case AccountOwnerCompany, AccountOwnerCustomer:
		return AccountOwnerFilter(v)
	}
	return AccountOwnerAll
}

// NBFC is the lending institution owning company accounts.
type NBFC struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
}

// Account is a bank account held by the NBFC or by a customer.
type Account struct {
	ID               string       `json:"_id"`
	AccountName      string       `json:"account_name"`
	IsCompanyAccount bool         `json:"is_company_account"`
	BankAccountType  string       `json:"bank_account_type"`
	BankName         string       `json:"bank_name"`
	AccountType      string       `json:"account_type"`
	AccountNumber    string       `json:"account_number"`
	BranchCode       string       `json:"branch_code"`
	IBAN             string       `json:"iban,omitempty"`
	NBFC             *NBFC        `json:"nbfc_id,omitempty"`
	Customer         *Customer    `json:"customer_id,omitempty"`
	Product          *LoanProduct `json:"loan_product_id,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// AccountTypeLabel is the badge text for an account type.
func AccountTypeLabel(t string) string {
	switch t {
	case AccountTypeSettlement:
		return "Settlement"
	case AccountTypeCustomer:
		return "Customer"
	case AccountTypeDisbursement:
		return "Disbursement"
	}
	return t
}

// CreateAccountRequest is the body of POST /api/accounts.
type CreateAccountRequest struct {
	AccountType       string `json:"account_type"`
	BankName          string `json:"bank_name"`
	AccountNumber     string `json:"account_number"`
	IFSCCode          string `json:"ifsc_code"`
	AccountHolderName string `json:"account_holder_name"`
	IsCompany         bool   `json:"isCompany"`
	CustomerID        string `json:"customer_id,omitempty"`
}
