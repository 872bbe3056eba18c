package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/handler"
	"github.com/boddenberg/lamf-portal-go/internal/infra/cache"
	"github.com/boddenberg/lamf-portal-go/internal/infra/client"
	"github.com/boddenberg/lamf-portal-go/internal/infra/observability"
	"github.com/boddenberg/lamf-portal-go/internal/infra/resilience"
	"github.com/boddenberg/lamf-portal-go/internal/service"

	"go.uber.org/zap"
)

// fakeBackend is an in-process LAMF REST service.
type fakeBackend struct {
	mu     sync.Mutex
	hits   map[string]int
	bodies map[string]string

	// pledgedGate, when set, holds GET /api/collaterals/status/PLEDGED
	// until closed; pledgedStarted is signalled on arrival.
	pledgedGate    chan struct{}
	pledgedStarted chan struct{}
}

func (b *fakeBackend) record(r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	defer b.mu.Unlock()
	key := r.Method + " " + r.URL.Path
	b.hits[key]++
	b.bodies[key] = string(body)
}

func (b *fakeBackend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[key]
}

func (b *fakeBackend) body(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[key]
}

func reply(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, body)
}

const (
	appSubmitted = `{"_id":"a1","status":"SUBMITTED","requested_amount":300000,"tenor_months":12,
		"customer_id":{"_id":"c1","full_name":"Asha Rao","email":"asha@example.com","pan":"ABCDE1234F"},
		"loan_product_id":{"_id":"p1","name":"LAMF Flexi","code":"LAMF-FLX"},"createdAt":"2026-03-01T10:00:00Z"}`
	appApproved = `{"_id":"a2","status":"APPROVED","requested_amount":500000,"tenor_months":24,
		"customer_id":{"_id":"c2","full_name":"Vikram Shah","email":"vikram@example.com"},
		"loan_product_id":{"_id":"p1","name":"LAMF Flexi","code":"LAMF-FLX"},"createdAt":"2026-03-02T10:00:00Z"}`
	collPledged = `{"_id":"col1","status":"PLEDGED","security_identifier":"INF109K01Z48",
		"amount_at_pledge":1000000,"ltv_at_pledge":40,"current_value":800000,"current_ltv":62.5,
		"loan_id":{"_id":"l1","loan_number":"LN-001","principal_sanctioned":500000},
		"customer_id":{"_id":"c1","full_name":"Asha Rao","email":"asha@example.com"},
		"loan_security_type_id":{"_id":"s1","name":"Equity MF","security_type":"EQUITY","haircut_percent":50,"max_ltv_ratio":50}}`
	collReleased = `{"_id":"col2","status":"RELEASED","security_identifier":"INF200K01RJ1",
		"amount_at_pledge":200000,"ltv_at_pledge":30,"current_value":210000,"current_ltv":65}`
)

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	b := &fakeBackend{hits: map[string]int{}, bodies: map[string]string{}}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/loan-applications", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		reply(w, `{"success":true,"data":[`+appSubmitted+`,`+appApproved+`]}`)
	})
	mux.HandleFunc("GET /api/loan-applications/status/{status}", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		if r.PathValue("status") == "APPROVED" {
			reply(w, `{"success":true,"data":[`+appApproved+`]}`)
			return
		}
		reply(w, `{"success":true,"data":[]}`)
	})
	mux.HandleFunc("POST /api/loan-applications", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		reply(w, `{"success":true,"data":`+appSubmitted+`}`)
	})
	mux.HandleFunc("PUT /api/loan-applications/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		reply(w, `{"success":true,"data":`+appApproved+`}`)
	})
	mux.HandleFunc("GET /api/accounts", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		reply(w, `{"success":true,"data":[{"_id":"acc1","account_name":"NBFC Settlement","bank_name":"HDFC Bank",
			"account_type":"SETTLEMENT","account_number":"50100012345","is_company_account":true,"nbfc_id":{"name":"Acme Finance"}}]}`)
	})
	mux.HandleFunc("POST /api/accounts", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		reply(w, `{"success":true,"data":{"_id":"acc2"}}`)
	})
	mux.HandleFunc("GET /api/collaterals", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		reply(w, `{"success":true,"data":[`+collPledged+`,`+collReleased+`]}`)
	})
	mux.HandleFunc("GET /api/collaterals/status/{status}", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		b.record(r)
		switch r.PathValue("status") {
		case "PLEDGED":
			if b.pledgedGate != nil {
				b.pledgedStarted <- struct{}{}
				<-b.pledgedGate
			}
			reply(w, `{"success":true,"data":[`+collPledged+`]}`)
		case "RELEASED":
			reply(w, `{"success":true,"data":[`+collReleased+`]}`)
		default:
			reply(w, `{"success":true,"data":[]}`)
		}
	})
	mux.HandleFunc("PUT /api/collaterals/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		reply(w, `{"success":true,"data":`+collPledged+`}`)
	})
	mux.HandleFunc("POST /api/collaterals", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		reply(w, `{"success":true,"data":`+collPledged+`}`)
	})
	mux.HandleFunc("GET /api/dashboard", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		reply(w, `{"success":true,"data":{"newLoans":2,"activeLoans":6,"closedLoans":2,
			"applicantsWithUnpaidShortfall":1,"totalShortfallAmount":"125000",
			"totalSanctionedAmount":25000000,"totalRepayment":"5000000","totalDisbursed":20000000,
			"activeSecurities":9,"totalWriteOff":0}}`)
	})
	mux.HandleFunc("GET /api/repayments", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		reply(w, `{"success":true,"data":[{"_id":"r1","payment_date":"2026-04-05T00:00:00Z","amount":12500,
			"principal_component":10000,"interest_component":2500,"penalty_component":0,"payment_method":"UPI",
			"reference_number":"UTR123","loan_id":{"_id":"l1","loan_number":"LN-001","principal_outstanding":390000}}]}`)
	})
	mux.HandleFunc("POST /api/repayments", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		reply(w, `{"success":true,"data":{"_id":"r2","amount":12500,
			"loan_id":{"_id":"l1","loan_number":"LN-001","principal_outstanding":387500}}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return b, srv
}

// harness drives the router like a browser: cookies persist across calls.
type harness struct {
	t       *testing.T
	router  http.Handler
	backend *fakeBackend
	metrics *observability.Metrics

	mu      sync.Mutex
	cookies map[string]*http.Cookie
}

type harnessOpts struct {
	passwordHash string
}

func newHarness(t *testing.T, opts harnessOpts) *harness {
	t.Helper()
	backend, srv := newFakeBackend(t)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: time.Millisecond, MaxConcurrency: 8}
	httpClient := &http.Client{Timeout: 5 * time.Second}

	core := client.New(httpClient, client.ServiceCore, srv.URL, cfg, logger, metrics)
	coll := client.New(httpClient, client.ServiceCollateral, srv.URL, cfg, logger, metrics)

	viewStates := cache.New[domain.ViewState](time.Minute)
	flashStore := cache.New[domain.Flash](time.Minute)
	attempts := cache.New[service.LoginAttempts](time.Minute)
	t.Cleanup(func() {
		viewStates.Close()
		flashStore.Close()
		attempts.Close()
	})
	views := service.NewViewTracker(viewStates, metrics)

	router := handler.NewRouter(handler.Services{
		Dashboard:    service.NewDashboardService(client.NewDashboardClient(core), logger),
		Applications: service.NewApplicationsService(client.NewApplicationsClient(core), client.NewAccountsClient(core), views, metrics, logger),
		Collateral:   service.NewCollateralService(client.NewCollateralClient(coll), views, metrics, logger),
		Repayment:    service.NewRepaymentService(client.NewRepaymentsClient(core), views, metrics, logger),
		Calculator:   service.NewCalculatorService(metrics),
		Auth:         service.NewAuthService("admin", opts.passwordHash, "test-secret", time.Hour, attempts, logger),
		Flashes:      service.NewFlashes(flashStore),
		Views:        views,
		Backends:     []handler.Backend{core, coll},
		SessionTTL:   time.Hour,
	}, metrics, logger)

	return &harness{t: t, router: router, backend: backend, metrics: metrics, cookies: map[string]*http.Cookie{}}
}

func (h *harness) do(method, target string, form url.Values, headers ...string) *httptest.ResponseRecorder {
	h.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	h.mu.Lock()
	for _, c := range h.cookies {
		req.AddCookie(c)
	}
	h.mu.Unlock()

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	h.mu.Lock()
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(h.cookies, c.Name)
			continue
		}
		h.cookies[c.Name] = c
	}
	h.mu.Unlock()
	return rec
}

func (h *harness) get(target string) *httptest.ResponseRecorder {
	return h.do(http.MethodGet, target, nil)
}

func (h *harness) post(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return h.do(http.MethodPost, target, form)
}

func (h *harness) cookie(name string) *http.Cookie {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cookies[name]
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d (body: %.300s)", want, rec.Code, rec.Body.String())
	}
}

func assertContains(t *testing.T, body string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(body, p) {
			t.Errorf("expected body to contain %q", p)
		}
	}
}

func assertNotContains(t *testing.T, body string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if strings.Contains(body, p) {
			t.Errorf("expected body not to contain %q", p)
		}
	}
}
