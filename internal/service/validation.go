package service

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
)

var (
	panPattern   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	ifscPattern  = regexp.MustCompile(`^[A-Z0-9]{5,15}$`)
)

const (
	minRequestedAmount = 1000
	maxTenorMonths     = 360
)

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &domain.ErrValidation{Field: field, Message: "is required"}
	}
	return nil
}

// normalizeApplication trims and upper-cases the form in place, then validates it.
func normalizeApplication(req *domain.CreateApplicationRequest) error {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.CustomerPAN = strings.ToUpper(strings.TrimSpace(req.CustomerPAN))
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.LoanProductID = strings.TrimSpace(req.LoanProductID)
	if req.Status == "" {
		req.Status = domain.ApplicationSubmitted
	}

	if err := required("customer_name", req.CustomerName); err != nil {
		return err
	}
	if err := required("customer_email", req.CustomerEmail); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
		return &domain.ErrValidation{Field: "customer_email", Message: "must be a valid email address"}
	}
	if !panPattern.MatchString(req.CustomerPAN) {
		return &domain.ErrValidation{Field: "customer_pan", Message: "must look like ABCDE1234F"}
	}
	if !phonePattern.MatchString(req.CustomerPhone) {
		return &domain.ErrValidation{Field: "customer_phone", Message: "must be 10 digits"}
	}
	if err := required("loan_product_id", req.LoanProductID); err != nil {
		return err
	}
	if req.RequestedAmount < minRequestedAmount {
		return &domain.ErrValidation{Field: "requested_amount", Message: "must be at least 1000"}
	}
	if req.TenorMonths < 1 || req.TenorMonths > maxTenorMonths {
		return &domain.ErrValidation{Field: "tenor_months", Message: "must be between 1 and 360"}
	}
	if req.Status != domain.ApplicationDraft && req.Status != domain.ApplicationSubmitted {
		return &domain.ErrValidation{Field: "status", Message: "must be DRAFT or SUBMITTED"}
	}
	return nil
}

// normalizeAccount validates an account form. Company accounts never carry a customer.
func normalizeAccount(req *domain.CreateAccountRequest) error {
	req.AccountType = strings.ToUpper(strings.TrimSpace(req.AccountType))
	req.BankName = strings.TrimSpace(req.BankName)
	req.AccountNumber = strings.TrimSpace(req.AccountNumber)
	req.IFSCCode = strings.ToUpper(strings.TrimSpace(req.IFSCCode))
	req.AccountHolderName = strings.TrimSpace(req.AccountHolderName)
	req.CustomerID = strings.TrimSpace(req.CustomerID)

	if !domain.ValidAccountType(req.AccountType) {
		return &domain.ErrValidation{Field: "account_type", Message: "must be SETTLEMENT, CUSTOMER or DISBURSEMENT"}
	}
	if err := required("bank_name", req.BankName); err != nil {
		return err
	}
	if err := required("account_number", req.AccountNumber); err != nil {
		return err
	}
	if !ifscPattern.MatchString(req.IFSCCode) {
		return &domain.ErrValidation{Field: "ifsc_code", Message: "must be 5 to 15 letters or digits"}
	}
	if err := required("account_holder_name", req.AccountHolderName); err != nil {
		return err
	}
	if req.IsCompany {
		req.CustomerID = ""
	} else if req.CustomerID == "" {
		return &domain.ErrValidation{Field: "customer_id", Message: "is required for customer accounts"}
	}
	return nil
}
