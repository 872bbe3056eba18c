package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/infra/observability"
	"github.com/boddenberg/lamf-portal-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var appTracer = otel.Tracer("service/applications")

// ViewApplications is the tracker key of the applications page.
const ViewApplications = "applications"

// ApplicationsQuery is the filter state of the applications page.
type ApplicationsQuery struct {
	Status domain.ApplicationStatus // empty means all
	Owner  domain.AccountOwnerFilter
}

// Encode renders q as the page's query string.
func (q ApplicationsQuery) Encode() string {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Owner != "" && q.Owner != domain.AccountOwnerAll {
		v.Set("owner", string(q.Owner))
	}
	return v.Encode()
}

// ApplicationsPage is what the applications page renders. A failed fetch
// leaves its collection empty and sets the matching error.
type ApplicationsPage struct {
	Query        ApplicationsQuery
	Applications []domain.LoanApplication
	Accounts     []domain.Account
	AppsErr      error
	AccountsErr  error
}

// ApplicationsService backs the applications and accounts tabs.
type ApplicationsService struct {
	apps     port.ApplicationStore
	accounts port.AccountStore
	views    *ViewTracker
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewApplicationsService creates the service.
func NewApplicationsService(apps port.ApplicationStore, accounts port.AccountStore, views *ViewTracker, metrics *observability.Metrics, logger *zap.Logger) *ApplicationsService {
	return &ApplicationsService{apps: apps, accounts: accounts, views: views, metrics: metrics, logger: logger}
}

// LoadPage fetches applications and accounts concurrently for the given
// filters. Returns ErrStaleView when a newer load for the same session began
// while this one was in flight.
func (s *ApplicationsService) LoadPage(ctx context.Context, session string, q ApplicationsQuery) (*ApplicationsPage, error) {
	ctx, span := appTracer.Start(ctx, "ApplicationsService.LoadPage")
	defer span.End()
	span.SetAttributes(
		attribute.String("filter.status", string(q.Status)),
		attribute.String("filter.owner", string(q.Owner)),
	)

	ticket := s.views.Begin(session, ViewApplications, q.Encode())
	page := &ApplicationsPage{Query: q}

	// Each fetch degrades on its own; neither cancels the other.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if q.Status == "" {
			page.Applications, err = s.apps.ListApplications(gCtx)
		} else {
			page.Applications, err = s.apps.ListApplicationsByStatus(gCtx, q.Status)
		}
		if err != nil {
			s.logger.Error("failed to fetch applications",
				zap.String("status", string(q.Status)),
				zap.Error(err),
			)
			page.Applications, page.AppsErr = nil, err
		}
		return nil
	})
	g.Go(func() error {
		accounts, err := s.accounts.ListAccounts(gCtx, q.Owner)
		if err != nil {
			s.logger.Error("failed to fetch accounts",
				zap.String("owner", string(q.Owner)),
				zap.Error(err),
			)
			page.AccountsErr = err
			return nil
		}
		page.Accounts = accounts
		return nil
	})
	_ = g.Wait()

	if err := s.views.Check(ticket); err != nil {
		return nil, err
	}
	return page, nil
}

// CreateApplication validates and submits a new loan application.
func (s *ApplicationsService) CreateApplication(ctx context.Context, req *domain.CreateApplicationRequest) (*domain.LoanApplication, error) {
	ctx, span := appTracer.Start(ctx, "ApplicationsService.CreateApplication")
	defer span.End()

	if err := normalizeApplication(req); err != nil {
		return nil, err
	}

	app, err := s.apps.CreateApplication(ctx, req)
	recordMutation(s.metrics, "application", "create", err)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.logger.Info("loan application created",
		zap.String("customer_email", req.CustomerEmail),
		zap.Float64("requested_amount", req.RequestedAmount),
	)
	return app, nil
}

// ChangeStatus moves an application to status. amount replaces the
// requested amount on approval when positive.
func (s *ApplicationsService) ChangeStatus(ctx context.Context, id string, status domain.ApplicationStatus, amount float64) (*domain.LoanApplication, error) {
	ctx, span := appTracer.Start(ctx, "ApplicationsService.ChangeStatus")
	defer span.End()
	span.SetAttributes(attribute.String("application.id", id), attribute.String("status", string(status)))

	if err := required("id", id); err != nil {
		return nil, err
	}
	switch status {
	case domain.ApplicationApproved, domain.ApplicationUnderReview, domain.ApplicationRejected:
	default:
		return nil, &domain.ErrValidation{Field: "status", Message: "must be APPROVED, UNDER_REVIEW or REJECTED"}
	}

	req := &domain.UpdateApplicationRequest{Status: status}
	if status == domain.ApplicationApproved && amount > 0 {
		req.RequestedAmount = amount
	}

	app, err := s.apps.UpdateApplication(ctx, id, req)
	recordMutation(s.metrics, "application", actionFor(status), err)
	if err != nil {
		return nil, fmt.Errorf("update application %s: %w", id, err)
	}

	s.logger.Info("loan application status changed",
		zap.String("application_id", id),
		zap.String("status", string(status)),
	)
	return app, nil
}

// CreateAccount validates and registers a new account.
func (s *ApplicationsService) CreateAccount(ctx context.Context, req *domain.CreateAccountRequest) (*domain.Account, error) {
	ctx, span := appTracer.Start(ctx, "ApplicationsService.CreateAccount")
	defer span.End()

	if err := normalizeAccount(req); err != nil {
		return nil, err
	}

	acct, err := s.accounts.CreateAccount(ctx, req)
	recordMutation(s.metrics, "account", "create", err)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("account created",
		zap.String("account_type", req.AccountType),
		zap.Bool("company", req.IsCompany),
	)
	return acct, nil
}

func recordMutation(m *observability.Metrics, entity, action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.IncrMutation(entity, action, result)
}

func actionFor(status domain.ApplicationStatus) string {
	switch status {
	case domain.ApplicationApproved:
		return "approve"
	case domain.ApplicationRejected:
		return "reject"
	}
	return "review"
}
