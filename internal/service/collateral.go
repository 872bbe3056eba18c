package service

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/infra/observability"
	"github.com/boddenberg/lamf-portal-go/internal/lending"
	"github.com/boddenberg/lamf-portal-go/internal/port"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var collTracer = otel.Tracer("service/collateral")

// ViewCollateral is the tracker key of the collateral page.
const ViewCollateral = "collateral"

// CollateralPage is what the collateral page renders.
type CollateralPage struct {
	Status      domain.CollateralStatus // empty means all
	Collaterals []domain.Collateral
	Stats       lending.CollateralStats
	Err         error
}

// LTVPreview is a recomputed LTV with the detail-panel classification.
type LTVPreview struct {
	LTV               decimal.Decimal `json:"ltv"`
	Risk              lending.LTVRisk `json:"risk"`
	ShortfallEligible bool            `json:"shortfall_eligible"`
}

// CollateralService backs the collateral page.
type CollateralService struct {
	store   port.CollateralStore
	views   *ViewTracker
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewCollateralService creates the service.
func NewCollateralService(store port.CollateralStore, views *ViewTracker, metrics *observability.Metrics, logger *zap.Logger) *CollateralService {
	return &CollateralService{store: store, views: views, metrics: metrics, logger: logger}
}

// LoadPage fetches collateral for status (all when empty) and summarises it.
func (s *CollateralService) LoadPage(ctx context.Context, session string, status domain.CollateralStatus) (*CollateralPage, error) {
	ctx, span := collTracer.Start(ctx, "CollateralService.LoadPage")
	defer span.End()
	span.SetAttributes(attribute.String("filter.status", string(status)))

	filter := url.Values{}
	if status != "" {
		filter.Set("status", string(status))
	}
	ticket := s.views.Begin(session, ViewCollateral, filter.Encode())

	var (
		rows []domain.Collateral
		err  error
	)
	if status == "" {
		rows, err = s.store.ListCollaterals(ctx)
	} else {
		rows, err = s.store.ListCollateralsByStatus(ctx, status)
	}

	if staleErr := s.views.Check(ticket); staleErr != nil {
		return nil, staleErr
	}

	page := &CollateralPage{Status: status}
	if err != nil {
		s.logger.Error("failed to fetch collateral",
			zap.String("status", string(status)),
			zap.Error(err),
		)
		page.Err = err
	} else {
		page.Collaterals = rows
	}
	page.Stats = lending.SummarizeCollaterals(page.Collaterals)
	return page, nil
}

// PreviewLTV recomputes LTV for a prospective valuation without saving it.
// The ratio is classified unrounded; rounding is left to display.
func (s *CollateralService) PreviewLTV(principalSanctioned, currentValue float64) (*LTVPreview, error) {
	if !finite(principalSanctioned) || principalSanctioned < 0 {
		return nil, &domain.ErrValidation{Field: "principal", Message: "must be a non-negative number"}
	}
	if !finite(currentValue) || currentValue < 0 {
		return nil, &domain.ErrValidation{Field: "current_value", Message: "must be a non-negative number"}
	}
	s.metrics.IncrCalculation("ltv")

	ltv := lending.CurrentLTV(principalSanctioned, currentValue)
	return &LTVPreview{
		LTV:               ltv,
		Risk:              lending.ClassifyDetailLTV(ltv),
		ShortfallEligible: lending.ShortfallEligible(ltv),
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// UpdateValue stores a new market value together with the recomputed LTV.
// The sanctioned principal is read from the collateral's linked loan.
func (s *CollateralService) UpdateValue(ctx context.Context, id string, currentValue float64) (*LTVPreview, error) {
	ctx, span := collTracer.Start(ctx, "CollateralService.UpdateValue")
	defer span.End()
	span.SetAttributes(attribute.String("collateral.id", id))

	if err := required("id", id); err != nil {
		return nil, err
	}
	if !finite(currentValue) || currentValue < 0 {
		return nil, &domain.ErrValidation{Field: "current_value", Message: "must be a non-negative number"}
	}

	principal, err := s.principalFor(ctx, id)
	if err != nil {
		return nil, err
	}
	preview, err := s.PreviewLTV(principal, currentValue)
	if err != nil {
		return nil, err
	}

	ltv, _ := preview.LTV.Float64()
	_, err = s.store.UpdateCollateral(ctx, id, &domain.UpdateCollateralRequest{
		CurrentValue: &currentValue,
		CurrentLTV:   &ltv,
	})
	recordMutation(s.metrics, "collateral", "revalue", err)
	if err != nil {
		return nil, fmt.Errorf("update collateral %s: %w", id, err)
	}

	s.logger.Info("collateral revalued",
		zap.String("collateral_id", id),
		zap.Float64("current_value", currentValue),
		zap.String("ltv", preview.LTV.String()),
		zap.String("risk", string(preview.Risk)),
	)
	return preview, nil
}

func (s *CollateralService) principalFor(ctx context.Context, id string) (float64, error) {
	rows, err := s.store.ListCollaterals(ctx)
	if err != nil {
		return 0, fmt.Errorf("look up collateral %s: %w", id, err)
	}
	for _, c := range rows {
		if c.ID == id {
			return c.PrincipalSanctioned(), nil
		}
	}
	return 0, &domain.ErrNotFound{Resource: "collateral", ID: id}
}

// Release marks pledged collateral as released.
func (s *CollateralService) Release(ctx context.Context, id string) error {
	ctx, span := collTracer.Start(ctx, "CollateralService.Release")
	defer span.End()
	span.SetAttributes(attribute.String("collateral.id", id))

	if err := required("id", id); err != nil {
		return err
	}

	_, err := s.store.UpdateCollateral(ctx, id, &domain.UpdateCollateralRequest{Status: domain.CollateralReleased})
	recordMutation(s.metrics, "collateral", "release", err)
	if err != nil {
		return fmt.Errorf("release collateral %s: %w", id, err)
	}

	s.logger.Info("collateral released", zap.String("collateral_id", id))
	return nil
}

// Pledge records new collateral. The pledge amount and LTV are also the
// initial current values, and the status is always PLEDGED.
func (s *CollateralService) Pledge(ctx context.Context, req *domain.PledgeCollateralRequest) (*domain.Collateral, error) {
	ctx, span := collTracer.Start(ctx, "CollateralService.Pledge")
	defer span.End()

	req.LoanID = strings.TrimSpace(req.LoanID)
	req.SecurityTypeID = strings.TrimSpace(req.SecurityTypeID)
	req.SecurityIdentifier = strings.ToUpper(strings.TrimSpace(req.SecurityIdentifier))

	if err := required("loan_id", req.LoanID); err != nil {
		return nil, err
	}
	if err := required("loan_security_type_id", req.SecurityTypeID); err != nil {
		return nil, err
	}
	if err := required("security_identifier", req.SecurityIdentifier); err != nil {
		return nil, err
	}
	if req.AmountAtPledge < 0 {
		return nil, &domain.ErrValidation{Field: "amount_at_pledge", Message: "must not be negative"}
	}
	if req.LTVAtPledge < 0 || req.LTVAtPledge > 100 {
		return nil, &domain.ErrValidation{Field: "ltv_at_pledge", Message: "must be between 0 and 100"}
	}

	req.CurrentValue = req.AmountAtPledge
	req.CurrentLTV = req.LTVAtPledge
	req.Status = domain.CollateralPledged

	c, err := s.store.PledgeCollateral(ctx, req)
	recordMutation(s.metrics, "collateral", "pledge", err)
	if err != nil {
		return nil, fmt.Errorf("pledge collateral: %w", err)
	}

	s.logger.Info("collateral pledged",
		zap.String("loan_id", req.LoanID),
		zap.String("isin", req.SecurityIdentifier),
		zap.Float64("amount", req.AmountAtPledge),
	)
	return c, nil
}

// CreateShortfall is offered for breached collateral but has no workflow
// behind it. It changes nothing.
func (s *CollateralService) CreateShortfall(ctx context.Context, id string) error {
	_, span := collTracer.Start(ctx, "CollateralService.CreateShortfall")
	defer span.End()

	s.logger.Info("shortfall record requested", zap.String("collateral_id", id))
	return &domain.ErrNotImplemented{Feature: "shortfall record creation"}
}
