package port

import (
	"context"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
)

// AccountStore handles financial account operations.
type AccountStore interface {
	ListAccounts(ctx context.Context, owner domain.AccountOwnerFilter) ([]domain.Account, error)
	CreateAccount(ctx context.Context, req *domain.CreateAccountRequest) (*domain.Account, error)
}
