package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
)

// CollateralClient talks to the collateral service, which has its own base URL.
type CollateralClient struct {
	*Client
}

// NewCollateralClient creates a new CollateralClient.
func NewCollateralClient(c *Client) *CollateralClient {
	return &CollateralClient{Client: c}
}

// ListCollaterals returns every collateral record.
func (c *CollateralClient) ListCollaterals(ctx context.Context) ([]domain.Collateral, error) {
	env, err := c.get(ctx, "ListCollaterals", "/api/collaterals")
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.Collateral](env, "ListCollaterals")
}

// ListCollateralsByStatus returns collateral in one status.
func (c *CollateralClient) ListCollateralsByStatus(ctx context.Context, status domain.CollateralStatus) ([]domain.Collateral, error) {
	env, err := c.get(ctx, "ListCollateralsByStatus", "/api/collaterals/status/"+url.PathEscape(string(status)))
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.Collateral](env, "ListCollateralsByStatus")
}

// UpdateCollateral changes status or current valuation.
func (c *CollateralClient) UpdateCollateral(ctx context.Context, id string, req *domain.UpdateCollateralRequest) (*domain.Collateral, error) {
	env, err := c.send(ctx, "UpdateCollateral", http.MethodPut, "/api/collaterals/"+url.PathEscape(id), req)
	if err != nil {
		return nil, err
	}
	return decodeData[*domain.Collateral](env, "UpdateCollateral")
}

// PledgeCollateral records a new pledge.
func (c *CollateralClient) PledgeCollateral(ctx context.Context, req *domain.PledgeCollateralRequest) (*domain.Collateral, error) {
	env, err := c.send(ctx, "PledgeCollateral", http.MethodPost, "/api/collaterals", req)
	if err != nil {
		return nil, err
	}
	return decodeData[*domain.Collateral](env, "PledgeCollateral")
}
