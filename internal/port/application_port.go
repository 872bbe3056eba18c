package port

import (
	"context"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
)

// ApplicationStore handles loan application operations.
type ApplicationStore interface {
	ListApplications(ctx context.Context) ([]domain.LoanApplication, error)
	ListApplicationsByStatus(ctx context.Context, status domain.ApplicationStatus) ([]domain.LoanApplication, error)
	UpdateApplication(ctx context.Context, id string, req *domain.UpdateApplicationRequest) (*domain.LoanApplication, error)
	CreateApplication(ctx context.Context, req *domain.CreateApplicationRequest) (*domain.LoanApplication, error)
}
