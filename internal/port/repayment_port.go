package port

import (
	"context"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
)

// RepaymentStore handles repayment operations.
type RepaymentStore interface {
	ListRepayments(ctx context.Context) (*domain.RepaymentList, error)
	ListRepaymentsByCustomer(ctx context.Context, customerID string) (*domain.RepaymentList, error)
	ListRepaymentsByLoan(ctx context.Context, loanID string) (*domain.RepaymentList, error)
	CreateRepayment(ctx context.Context, req *domain.CreateRepaymentRequest) (*domain.Repayment, error)
}
