package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
)

// RepaymentsClient reads and records repayments on the core service.
type RepaymentsClient struct {
	*Client
}

// NewRepaymentsClient creates a new RepaymentsClient.
func NewRepaymentsClient(c *Client) *RepaymentsClient {
	return &RepaymentsClient{Client: c}
}

// ListRepayments returns every repayment.
func (c *RepaymentsClient) ListRepayments(ctx context.Context) (*domain.RepaymentList, error) {
	return c.list(ctx, "ListRepayments", "/api/repayments")
}

// ListRepaymentsByCustomer returns one customer's repayments and, when the
// service provides it, their summary.
func (c *RepaymentsClient) ListRepaymentsByCustomer(ctx context.Context, customerID string) (*domain.RepaymentList, error) {
	return c.list(ctx, "ListRepaymentsByCustomer", "/api/repayments/customer/"+url.PathEscape(customerID))
}

// ListRepaymentsByLoan returns one loan's repayments.
func (c *RepaymentsClient) ListRepaymentsByLoan(ctx context.Context, loanID string) (*domain.RepaymentList, error) {
	return c.list(ctx, "ListRepaymentsByLoan", "/api/repayments/loan/"+url.PathEscape(loanID))
}

// CreateRepayment records a payment.
func (c *RepaymentsClient) CreateRepayment(ctx context.Context, req *domain.CreateRepaymentRequest) (*domain.Repayment, error) {
	env, err := c.send(ctx, "CreateRepayment", http.MethodPost, "/api/repayments", req)
	if err != nil {
		return nil, err
	}
	return decodeData[*domain.Repayment](env, "CreateRepayment")
}

func (c *RepaymentsClient) list(ctx context.Context, op, path string) (*domain.RepaymentList, error) {
	env, err := c.get(ctx, op, path)
	if err != nil {
		return nil, err
	}
	rows, err := decodeData[[]domain.Repayment](env, op)
	if err != nil {
		return nil, err
	}

	out := &domain.RepaymentList{Repayments: rows}
	if len(env.Summary) > 0 && string(env.Summary) != "null" {
		var s domain.RepaymentSummary
		if err := json.Unmarshal(env.Summary, &s); err != nil {
			return nil, fmt.Errorf("decode %s summary: %w", op, err)
		}
		out.Summary = &s
	}
	return out, nil
}
