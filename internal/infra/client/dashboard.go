package client

import (
	"context"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
)

// DashboardClient fetches the portfolio counters from the core service.
type DashboardClient struct {
	*Client
}

// NewDashboardClient creates a new DashboardClient.
func NewDashboardClient(c *Client) *DashboardClient {
	return &DashboardClient{Client: c}
}

// GetDashboard returns the aggregate dashboard summary.
func (c *DashboardClient) GetDashboard(ctx context.Context) (*domain.DashboardSummary, error) {
	env, err := c.get(ctx, "GetDashboard", "/api/dashboard")
	if err != nil {
		return nil, err
	}
	s, err := decodeData[domain.DashboardSummary](env, "GetDashboard")
	if err != nil {
		return nil, err
	}
	return &s, nil
}
