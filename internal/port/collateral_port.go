package port

import (
	"context"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
)

// CollateralStore handles pledged collateral operations on the collateral service.
type CollateralStore interface {
	ListCollaterals(ctx context.Context) ([]domain.Collateral, error)
	ListCollateralsByStatus(ctx context.Context, status domain.CollateralStatus) ([]domain.Collateral, error)
	UpdateCollateral(ctx context.Context, id string, req *domain.UpdateCollateralRequest) (*domain.Collateral, error)
	PledgeCollateral(ctx context.Context, req *domain.PledgeCollateralRequest) (*domain.Collateral, error)
}
