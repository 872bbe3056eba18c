package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	tabApplications = "applications"
	tabAccounts     = "accounts"
)

type applicationsPage struct {
	basePage
	Tab          string
	Query        service.ApplicationsQuery
	Statuses     []domain.ApplicationStatus
	Owners       []domain.AccountOwnerFilter
	AccountTypes []string
	Applications []domain.LoanApplication
	Accounts     []domain.Account
	AppsError    string
	AcctsError   string

	Selected        *domain.LoanApplication
	SelectedAccount *domain.Account

	NewForm     string // "application", "account" or empty
	AppForm     domain.CreateApplicationRequest
	AccountForm domain.CreateAccountRequest
	FormError   string

	filter url.Values
}

// URL links to this page keeping the active filters.
func (p applicationsPage) URL(pairs ...string) string {
	return pageURL("/applications", p.filter, pairs...)
}

// StatusURL links to a status filter ("" for all).
func (p applicationsPage) StatusURL(s domain.ApplicationStatus) string {
	return p.URL("tab", tabApplications, "status", string(s), "selected", "")
}

// OwnerURL links to an owner filter.
func (p applicationsPage) OwnerURL(o domain.AccountOwnerFilter) string {
	if o == domain.AccountOwnerAll {
		return p.URL("tab", tabAccounts, "owner", "", "account", "")
	}
	return p.URL("tab", tabAccounts, "owner", string(o), "account", "")
}

func applicationsQueryFrom(q url.Values) service.ApplicationsQuery {
	status := domain.ApplicationStatus(strings.ToUpper(q.Get("status")))
	if !status.Valid() {
		status = ""
	}
	return service.ApplicationsQuery{
		Status: status,
		Owner:  domain.ParseAccountOwnerFilter(strings.ToUpper(q.Get("owner"))),
	}
}

// ============================================================
// GET /applications
// ============================================================

func applicationsPageHandler(svc *service.ApplicationsService, wb *web, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderApplications(w, r, r.URL.Query(), svc, wb, logger, http.StatusOK, func(*applicationsPage) {})
	}
}

// renderApplications loads the page for the filters in query, lets edit
// adjust it (open form, inline error) and renders it.
func renderApplications(w http.ResponseWriter, r *http.Request, query url.Values, svc *service.ApplicationsService, wb *web, logger *zap.Logger, status int, edit func(*applicationsPage)) {
	ctx, span := tracer.Start(r.Context(), "render applications")
	defer span.End()

	q := applicationsQueryFrom(query)
	span.SetAttributes(attribute.String("filter", q.Encode()))

	data, err := svc.LoadPage(ctx, SessionFromContext(ctx), q)
	var stale *domain.ErrStaleView
	if errors.As(err, &stale) {
		logger.Debug("discarding superseded applications fetch", zap.String("latest", stale.Filter))
		redirectStale(w, r, "/applications", stale)
		return
	}
	if err != nil {
		logger.Error("applications page failed", zap.Error(err))
		data = &service.ApplicationsPage{Query: q}
	}

	tab := query.Get("tab")
	if tab != tabAccounts {
		tab = tabApplications
	}

	page := &applicationsPage{
		basePage:     wb.base(r, "Loan Applications", "applications"),
		Tab:          tab,
		Query:        q,
		Statuses:     domain.ApplicationStatuses,
		Owners:       []domain.AccountOwnerFilter{domain.AccountOwnerAll, domain.AccountOwnerCompany, domain.AccountOwnerCustomer},
		AccountTypes: domain.AccountTypes,
		Applications: data.Applications,
		Accounts:     data.Accounts,
		NewForm:      query.Get("new"),
		AppForm:      domain.CreateApplicationRequest{Status: domain.ApplicationSubmitted, TenorMonths: 12},
		AccountForm:  domain.CreateAccountRequest{AccountType: domain.AccountTypeSettlement, IsCompany: true},
		filter:       url.Values{},
	}
	if data.AppsErr != nil {
		page.AppsError = userMessage(data.AppsErr)
	}
	if data.AccountsErr != nil {
		page.AcctsError = userMessage(data.AccountsErr)
	}
	if q.Status != "" {
		page.filter.Set("status", string(q.Status))
	}
	if q.Owner != "" && q.Owner != domain.AccountOwnerAll {
		page.filter.Set("owner", string(q.Owner))
	}
	page.filter.Set("tab", tab)

	if id := query.Get("selected"); id != "" {
		for i := range page.Applications {
			if page.Applications[i].ID == id {
				page.Selected = &page.Applications[i]
				break
			}
		}
	}
	if id := query.Get("account"); id != "" {
		for i := range page.Accounts {
			if page.Accounts[i].ID == id {
				page.SelectedAccount = &page.Accounts[i]
				break
			}
		}
	}

	edit(page)
	wb.render.Render(w, status, "applications", page)
}

// activeQuery returns the query of the view's active filter, for pages
// re-rendered from a POST.
func activeQuery(r *http.Request, wb *web, view string) url.Values {
	filter, _ := wb.views.ActiveFilter(SessionFromContext(r.Context()), view)
	q, _ := url.ParseQuery(filter)
	return q
}

// ============================================================
// POST /applications: create a loan application
// ============================================================

func createApplicationHandler(svc *service.ApplicationsService, wb *web, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /applications")
		defer span.End()

		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		req := domain.CreateApplicationRequest{
			CustomerName:  r.PostFormValue("customer_name"),
			CustomerEmail: r.PostFormValue("customer_email"),
			CustomerPAN:   r.PostFormValue("customer_pan"),
			CustomerPhone: r.PostFormValue("customer_phone"),
			LoanProductID: r.PostFormValue("loan_product_id"),
			Status:        domain.ApplicationStatus(r.PostFormValue("status")),
		}
		amount, err := formFloat(r, "requested_amount")
		if err == nil {
			req.RequestedAmount = amount
			req.TenorMonths, err = formInt(r, "tenor_months")
		}
		if err == nil {
			_, err = svc.CreateApplication(ctx, &req)
		}
		if err != nil {
			logger.Warn("create application failed", zap.Error(err))
			renderApplications(w, r, activeQuery(r, wb, service.ViewApplications), svc, wb, logger, statusFor(err), func(p *applicationsPage) {
				p.Tab = tabApplications
				p.NewForm = "application"
				p.AppForm = req
				p.FormError = userMessage(err)
			})
			return
		}

		wb.flash(r, domain.FlashSuccess, "Loan application created successfully!")
		wb.redirectActive(w, r, service.ViewApplications, "/applications", url.Values{"tab": {tabApplications}})
	}
}

// ============================================================
// POST /applications/{id}/status: approve, review or reject
// ============================================================

func applicationStatusHandler(svc *service.ApplicationsService, wb *web, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /applications/{id}/status")
		defer span.End()

		id := chi.URLParam(r, "id")
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		status := domain.ApplicationStatus(strings.ToUpper(r.PostFormValue("status")))
		amount, err := formFloat(r, "requested_amount")
		if err == nil {
			_, err = svc.ChangeStatus(ctx, id, status, amount)
		}
		if err != nil {
			logger.Warn("application status change failed",
				zap.String("application_id", id),
				zap.String("status", string(status)),
				zap.Error(err),
			)
			wb.flash(r, domain.FlashError, userMessage(err))
		}

		wb.redirectActive(w, r, service.ViewApplications, "/applications", url.Values{"tab": {tabApplications}})
	}
}

// ============================================================
// POST /accounts: create a financial account
// ============================================================

func createAccountHandler(svc *service.ApplicationsService, wb *web, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts")
		defer span.End()

		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		req := domain.CreateAccountRequest{
			AccountType:       r.PostFormValue("account_type"),
			BankName:          r.PostFormValue("bank_name"),
			AccountNumber:     r.PostFormValue("account_number"),
			IFSCCode:          r.PostFormValue("ifsc_code"),
			AccountHolderName: r.PostFormValue("account_holder_name"),
			IsCompany:         r.PostFormValue("is_company") == "true",
			CustomerID:        r.PostFormValue("customer_id"),
		}

		if _, err := svc.CreateAccount(ctx, &req); err != nil {
			logger.Warn("create account failed", zap.Error(err))
			renderApplications(w, r, activeQuery(r, wb, service.ViewApplications), svc, wb, logger, statusFor(err), func(p *applicationsPage) {
				p.Tab = tabAccounts
				p.NewForm = "account"
				p.AccountForm = req
				p.FormError = userMessage(err)
			})
			return
		}

		wb.flash(r, domain.FlashSuccess, "Account created successfully!")
		wb.redirectActive(w, r, service.ViewApplications, "/applications", url.Values{"tab": {tabAccounts}})
	}
}
