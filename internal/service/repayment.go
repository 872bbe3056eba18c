package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/infra/observability"
	"github.com/boddenberg/lamf-portal-go/internal/lending"
	"github.com/boddenberg/lamf-portal-go/internal/port"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var repayTracer = otel.Tracer("service/repayment")

// ViewRepayment is the tracker key of the repayment page.
const ViewRepayment = "repayment"

// RepaymentQuery is the view mode of the repayment page.
type RepaymentQuery struct {
	View       domain.RepaymentView
	CustomerID string
	LoanID     string
}

// Encode renders q as the page's query string.
func (q RepaymentQuery) Encode() string {
	v := url.Values{}
	switch q.View {
	case domain.RepaymentViewCustomer:
		v.Set("view", string(q.View))
		v.Set("customer_id", q.CustomerID)
	case domain.RepaymentViewLoan:
		v.Set("view", string(q.View))
		v.Set("loan_id", q.LoanID)
	}
	return v.Encode()
}

// RepaymentPage is what the repayment page renders.
type RepaymentPage struct {
	Query       RepaymentQuery
	Repayments  []domain.Repayment
	Summary     domain.RepaymentSummary
	Outstanding float64
	// Fetched is false when the view needs an id that has not been entered.
	Fetched bool
	Err     error
}

// RepaymentInput is the record-payment form. Amount is derived.
type RepaymentInput struct {
	LoanID        string
	PaymentDate   string // YYYY-MM-DD
	PaymentMethod string
	Principal     decimal.Decimal
	Interest      decimal.Decimal
	Penalty       decimal.Decimal
}

// RepaymentService backs the repayment page.
type RepaymentService struct {
	store   port.RepaymentStore
	views   *ViewTracker
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewRepaymentService creates the service.
func NewRepaymentService(store port.RepaymentStore, views *ViewTracker, metrics *observability.Metrics, logger *zap.Logger) *RepaymentService {
	return &RepaymentService{store: store, views: views, metrics: metrics, logger: logger}
}

// LoadPage fetches repayments for the view mode. The backend summary is used
// when present; otherwise the rows are summed.
func (s *RepaymentService) LoadPage(ctx context.Context, session string, q RepaymentQuery) (*RepaymentPage, error) {
	ctx, span := repayTracer.Start(ctx, "RepaymentService.LoadPage")
	defer span.End()
	span.SetAttributes(attribute.String("view", string(q.View)))

	q.CustomerID = strings.TrimSpace(q.CustomerID)
	q.LoanID = strings.TrimSpace(q.LoanID)
	page := &RepaymentPage{Query: q}

	var fetch func(context.Context) (*domain.RepaymentList, error)
	switch q.View {
	case domain.RepaymentViewCustomer:
		if q.CustomerID != "" {
			fetch = func(ctx context.Context) (*domain.RepaymentList, error) {
				return s.store.ListRepaymentsByCustomer(ctx, q.CustomerID)
			}
		}
	case domain.RepaymentViewLoan:
		if q.LoanID != "" {
			fetch = func(ctx context.Context) (*domain.RepaymentList, error) {
				return s.store.ListRepaymentsByLoan(ctx, q.LoanID)
			}
		}
	default:
		fetch = s.store.ListRepayments
	}
	if fetch == nil {
		return page, nil
	}

	ticket := s.views.Begin(session, ViewRepayment, q.Encode())
	list, err := fetch(ctx)
	if staleErr := s.views.Check(ticket); staleErr != nil {
		return nil, staleErr
	}

	page.Fetched = true
	if err != nil {
		s.logger.Error("failed to fetch repayments",
			zap.String("view", string(q.View)),
			zap.Error(err),
		)
		page.Err = err
		return page, nil
	}

	page.Repayments = list.Repayments
	if list.Summary != nil {
		page.Summary = *list.Summary
	} else {
		page.Summary = lending.SummarizeRepayments(list.Repayments)
	}
	page.Outstanding = lending.CurrentOutstanding(list.Repayments)
	return page, nil
}

// Record validates the form, derives the amount as the exact component sum
// and submits it.
func (s *RepaymentService) Record(ctx context.Context, in RepaymentInput) (*domain.Repayment, error) {
	ctx, span := repayTracer.Start(ctx, "RepaymentService.Record")
	defer span.End()

	req, err := buildRepaymentRequest(in)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("loan.id", req.LoanID))

	rep, err := s.store.CreateRepayment(ctx, req)
	recordMutation(s.metrics, "repayment", "create", err)
	if err != nil {
		return nil, fmt.Errorf("record repayment: %w", err)
	}

	s.logger.Info("repayment recorded",
		zap.String("loan_id", req.LoanID),
		zap.Float64("amount", req.Amount),
		zap.String("method", req.PaymentMethod),
	)
	return rep, nil
}

func buildRepaymentRequest(in RepaymentInput) (*domain.CreateRepaymentRequest, error) {
	loanID := strings.TrimSpace(in.LoanID)
	if err := required("loan_id", loanID); err != nil {
		return nil, err
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(in.PaymentDate))
	if err != nil {
		return nil, &domain.ErrValidation{Field: "payment_date", Message: "must be a date (YYYY-MM-DD)"}
	}
	method := strings.ToUpper(strings.TrimSpace(in.PaymentMethod))
	if !domain.ValidPaymentMethod(method) {
		return nil, &domain.ErrValidation{Field: "payment_method", Message: "must be one of UPI, NEFT, RTGS, IMPS, CHEQUE, CASH"}
	}
	components := []struct {
		field string
		value decimal.Decimal
	}{
		{"principal_component", in.Principal},
		{"interest_component", in.Interest},
		{"penalty_component", in.Penalty},
	}
	for _, c := range components {
		if c.value.IsNegative() {
			return nil, &domain.ErrValidation{Field: c.field, Message: "must not be negative"}
		}
	}

	total := lending.RepaymentTotal(in.Principal, in.Interest, in.Penalty)
	if !total.IsPositive() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be greater than zero"}
	}

	return &domain.CreateRepaymentRequest{
		LoanID:             loanID,
		Amount:             total.InexactFloat64(),
		PrincipalComponent: in.Principal.InexactFloat64(),
		InterestComponent:  in.Interest.InexactFloat64(),
		PenaltyComponent:   in.Penalty.InexactFloat64(),
		PaymentMethod:      method,
		PaymentDate:        date.UTC().Format(time.RFC3339),
	}, nil
}
