package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
)

// ApplicationsClient reads and mutates loan applications on the core service.
type ApplicationsClient struct {
	*Client
}

// NewApplicationsClient creates a new ApplicationsClient.
func NewApplicationsClient(c *Client) *ApplicationsClient {
	return &ApplicationsClient{Client: c}
}

// ListApplications returns every loan application.
func (c *ApplicationsClient) ListApplications(ctx context.Context) ([]domain.LoanApplication, error) {
	env, err := c.get(ctx, "ListApplications", "/api/loan-applications")
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.LoanApplication](env, "ListApplications")
}

// ListApplicationsByStatus returns the applications in one status.
func (c *ApplicationsClient) ListApplicationsByStatus(ctx context.Context, status domain.ApplicationStatus) ([]domain.LoanApplication, error) {
	env, err := c.get(ctx, "ListApplicationsByStatus", "/api/loan-applications/status/"+url.PathEscape(string(status)))
	if err != nil {
		return nil, err
	}
	return decodeData[[]domain.LoanApplication](env, "ListApplicationsByStatus")
}

// UpdateApplication changes an application's status (and optionally its amount).
func (c *ApplicationsClient) UpdateApplication(ctx context.Context, id string, req *domain.UpdateApplicationRequest) (*domain.LoanApplication, error) {
	env, err := c.send(ctx, "UpdateApplication", http.MethodPut, "/api/loan-applications/"+url.PathEscape(id), req)
	if err != nil {
		return nil, err
	}
	return decodeData[*domain.LoanApplication](env, "UpdateApplication")
}

// CreateApplication submits a new application.
func (c *ApplicationsClient) CreateApplication(ctx context.Context, req *domain.CreateApplicationRequest) (*domain.LoanApplication, error) {
	env, err := c.send(ctx, "CreateApplication", http.MethodPost, "/api/loan-applications", req)
	if err != nil {
		return nil, err
	}
	return decodeData[*domain.LoanApplication](env, "CreateApplication")
}
