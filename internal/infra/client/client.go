// Package client implements the port interfaces against the remote LAMF
// REST services. Every call goes through a bulkhead, a per-service circuit
// breaker and, for reads only, retry with backoff.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/infra/observability"
	"github.com/boddenberg/lamf-portal-go/internal/infra/resilience"
	"github.com/boddenberg/lamf-portal-go/internal/port"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var tracer = otel.Tracer("client")

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// Service labels.
const (
	ServiceCore       = "core"
	ServiceCollateral = "collateral"
)

// statusError is a non-2xx answer that carried no envelope.
type statusError struct {
	Code int
	Path string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Path, e.Code)
}

// Client is the shared transport for one LAMF service base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	service    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	bulkhead   *resilience.Bulkhead
	group      singleflight.Group
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// New creates a Client for service rooted at baseURL.
func New(httpClient *http.Client, service, baseURL string, cfg resilience.Config, logger *zap.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		service:    service,
		cb:         resilience.NewCircuitBreaker("lamf-"+service, countsAsSuccess),
		cfg:        cfg,
		bulkhead:   resilience.NewBulkhead(cfg.MaxConcurrency),
		logger:     logger,
		metrics:    metrics,
	}
}

// Service returns the service label.
func (c *Client) Service() string { return c.service }

// BreakerState returns the circuit breaker state ("closed", "half-open", "open").
func (c *Client) BreakerState() string { return c.cb.State().String() }

// countsAsSuccess keeps answers the service gave on purpose (success:false,
// 4xx) and caller cancellations from tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var backend *domain.ErrBackend
	var notFound *domain.ErrNotFound
	var status *statusError
	switch {
	case errors.As(err, &backend), errors.As(err, &notFound):
		return true
	case errors.As(err, &status):
		return status.Code < 500
	case errors.Is(err, context.Canceled):
		return true
	}
	return false
}

// get issues a read. Identical concurrent reads share one round trip.
func (c *Client) get(ctx context.Context, op, path string) (*domain.Envelope, error) {
	ctx, span := tracer.Start(ctx, "LAMFClient."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("lamf.service", c.service),
		attribute.String("http.method", http.MethodGet),
		attribute.String("http.path", path),
	)

	// The shared call must not die with whichever caller arrived first.
	shared := context.WithoutCancel(ctx)
	v, err, dup := c.group.Do(path, func() (any, error) {
		return c.execute(shared, op, http.MethodGet, path, nil, c.cfg)
	})
	span.SetAttributes(attribute.Bool("singleflight.shared", dup))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return v.(*domain.Envelope), nil
}

// send issues a mutation. Mutations are never retried.
func (c *Client) send(ctx context.Context, op, method, path string, body any) (*domain.Envelope, error) {
	ctx, span := tracer.Start(ctx, "LAMFClient."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("lamf.service", c.service),
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", op, err)
	}

	noRetry := c.cfg
	noRetry.MaxRetries = 0
	env, err := c.execute(ctx, op, method, path, payload, noRetry)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return env, nil
}

func (c *Client) execute(ctx context.Context, op, method, path string, body []byte, cfg resilience.Config) (*domain.Envelope, error) {
	if err := c.bulkhead.Acquire(ctx); err != nil {
		return nil, &domain.ErrExternalService{Service: c.service, Err: err}
	}
	defer c.bulkhead.Release()

	start := time.Now()
	result, err := c.cb.Execute(func() (any, error) {
		var env *domain.Envelope
		innerErr := resilience.RetryWithBackoff(ctx, cfg, func() error {
			e, err := c.roundTrip(ctx, op, method, path, body)
			if err != nil {
				return err
			}
			env = e
			return nil
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return env, nil
	})
	c.metrics.RecordBackendCall(c.service, op, time.Since(start), err)

	if err != nil {
		return nil, c.wrapError(op, method, path, err)
	}
	return result.(*domain.Envelope), nil
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, body []byte) (*domain.Envelope, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, resilience.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", requestID(ctx))
	observability.InjectTraceContext(ctx, req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	var env domain.Envelope
	if jsonErr := json.Unmarshal(raw, &env); jsonErr != nil {
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, resilience.Permanent(&domain.ErrNotFound{Resource: op, ID: path})
		case resp.StatusCode >= 500:
			return nil, &statusError{Code: resp.StatusCode, Path: path}
		case resp.StatusCode >= 400:
			return nil, resilience.Permanent(&statusError{Code: resp.StatusCode, Path: path})
		}
		return nil, resilience.Permanent(fmt.Errorf("decode %s response: %w", path, jsonErr))
	}

	if !env.Success {
		return nil, resilience.Permanent(&domain.ErrBackend{Operation: op, Message: env.Message})
	}
	if resp.StatusCode >= 500 {
		return nil, &statusError{Code: resp.StatusCode, Path: path}
	}
	return &env, nil
}

// wrapError keeps ErrBackend and ErrNotFound visible to callers and folds
// everything else into ErrExternalService or ErrCircuitOpen.
func (c *Client) wrapError(op, method, path string, err error) error {
	fields := []zap.Field{
		zap.String("service", c.service),
		zap.String("operation", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Error(err),
	}

	var backend *domain.ErrBackend
	var notFound *domain.ErrNotFound
	switch {
	case errors.As(err, &backend), errors.As(err, &notFound):
		c.logger.Warn("lamf service rejected request", fields...)
		return err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.logger.Error("lamf circuit open", fields...)
		return &domain.ErrCircuitOpen{Service: c.service}
	}
	c.logger.Error("lamf call failed", fields...)
	return &domain.ErrExternalService{Service: c.service, Err: err}
}

// requestID forwards the inbound request id, or mints one.
func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

// decodeData unmarshals the envelope's data into T. Missing data yields T's zero value.
func decodeData[T any](env *domain.Envelope, op string) (T, error) {
	var out T
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("decode %s data: %w", op, err)
	}
	return out, nil
}

var (
	_ port.ApplicationStore = (*ApplicationsClient)(nil)
	_ port.AccountStore     = (*AccountsClient)(nil)
	_ port.CollateralStore  = (*CollateralClient)(nil)
	_ port.RepaymentStore   = (*RepaymentsClient)(nil)
	_ port.DashboardFetcher = (*DashboardClient)(nil)
)
