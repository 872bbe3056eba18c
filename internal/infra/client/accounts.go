package client

import (
	"context"
	"net/http"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
)

// AccountsClient reads and creates financial accounts on the core service.
type AccountsClient struct {
	*Client
}

// NewAccountsClient creates a new AccountsClient.
func NewAccountsClient(c *Client) *AccountsClient {
	return &AccountsClient{Client: c}
}

// ListAccounts returns accounts, optionally filtered by owner type.
func (c *AccountsClient) ListAccounts(ctx context.Context, owner domain.AccountOwnerFilter) ([]domain.Account, error) {
	path := "/api/accounts"
	switch owner {
	case domain.AccountOwnerCompany:
		path += "?isCompany=true"
	case domain.AccountOwnerCustomer:
		path += "?isCompany=false"
	}

	env, err := c.get(ctx, "ListAccounts", path)
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.Account](env, "ListAccounts")
}

// CreateAccount registers a new account.
func (c *AccountsClient) CreateAccount(ctx context.Context, req *domain.CreateAccountRequest) (*domain.Account, error) {
	env, err := c.send(ctx, "CreateAccount", http.MethodPost, "/api/accounts", req)
	if err != nil {
		return nil, err
	}
	return decodeData[*domain.Account](env, "CreateAccount")
}
