package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/lending"
	"github.com/boddenberg/lamf-portal-go/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type repaymentPage struct {
	basePage
	Query       service.RepaymentQuery
	Views       []domain.RepaymentView
	Methods     []string
	Repayments  []domain.Repayment
	Summary     domain.RepaymentSummary
	Outstanding float64
	Fetched     bool
	Error       string

	Selected *domain.Repayment

	NewForm   bool
	Form      repaymentForm
	FormError string

	filter url.Values
}

// repaymentForm echoes the record-payment inputs back on re-render.
type repaymentForm struct {
	LoanID        string
	PaymentDate   string
	PaymentMethod string
	Principal     string
	Interest      string
	Penalty       string
}

// URL links to this page keeping the view mode.
func (p repaymentPage) URL(pairs ...string) string {
	return pageURL("/repayment", p.filter, pairs...)
}

// ViewURL switches view mode, dropping ids that belong to other modes.
func (p repaymentPage) ViewURL(v domain.RepaymentView) string {
	if v == domain.RepaymentViewAll {
		return "/repayment"
	}
	return pageURL("/repayment", nil, "view", string(v))
}

func repaymentQueryFrom(q url.Values) service.RepaymentQuery {
	return service.RepaymentQuery{
		View:       domain.ParseRepaymentView(q.Get("view")),
		CustomerID: q.Get("customer_id"),
		LoanID:     q.Get("loan_id"),
	}
}

// ============================================================
// GET /repayment
// ============================================================

func repaymentPageHandler(svc *service.RepaymentService, wb *web, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderRepayment(w, r, r.URL.Query(), svc, wb, logger, http.StatusOK, func(*repaymentPage) {})
	}
}

func renderRepayment(w http.ResponseWriter, r *http.Request, query url.Values, svc *service.RepaymentService, wb *web, logger *zap.Logger, status int, edit func(*repaymentPage)) {
	ctx, span := tracer.Start(r.Context(), "render repayment")
	defer span.End()

	q := repaymentQueryFrom(query)
	span.SetAttributes(attribute.String("view", string(q.View)))

	data, err := svc.LoadPage(ctx, SessionFromContext(ctx), q)
	var stale *domain.ErrStaleView
	if errors.As(err, &stale) {
		logger.Debug("discarding superseded repayment fetch", zap.String("latest", stale.Filter))
		redirectStale(w, r, "/repayment", stale)
		return
	}
	if err != nil {
		logger.Error("repayment page failed", zap.Error(err))
		data = &service.RepaymentPage{Query: q}
	}

	page := &repaymentPage{
		basePage:    wb.base(r, "Repayment Management", "repayment"),
		Query:       data.Query,
		Views:       []domain.RepaymentView{domain.RepaymentViewAll, domain.RepaymentViewCustomer, domain.RepaymentViewLoan},
		Methods:     domain.PaymentMethods,
		Repayments:  data.Repayments,
		Summary:     data.Summary,
		Outstanding: data.Outstanding,
		Fetched:     data.Fetched,
		NewForm:     query.Get("new") != "",
		Form: repaymentForm{
			PaymentDate:   time.Now().Format("2006-01-02"),
			PaymentMethod: domain.PaymentUPI,
		},
	}
	page.filter, _ = url.ParseQuery(data.Query.Encode())
	if data.Err != nil {
		page.Error = userMessage(data.Err)
	}

	if id := query.Get("selected"); id != "" {
		for i := range page.Repayments {
			if page.Repayments[i].ID == id {
				page.Selected = &page.Repayments[i]
				break
			}
		}
	}

	edit(page)
	wb.render.Render(w, status, "repayment", page)
}

// ============================================================
// POST /repayment: record a payment
// ============================================================

func recordRepaymentHandler(svc *service.RepaymentService, wb *web, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /repayment")
		defer span.End()

		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		form := repaymentForm{
			LoanID:        r.PostFormValue("loan_id"),
			PaymentDate:   r.PostFormValue("payment_date"),
			PaymentMethod: r.PostFormValue("payment_method"),
			Principal:     r.PostFormValue("principal_component"),
			Interest:      r.PostFormValue("interest_component"),
			Penalty:       r.PostFormValue("penalty_component"),
		}
		in := service.RepaymentInput{
			LoanID:        form.LoanID,
			PaymentDate:   form.PaymentDate,
			PaymentMethod: form.PaymentMethod,
		}

		var rep *domain.Repayment
		var err error
		if in.Principal, err = formDecimal(r, "principal_component", true); err == nil {
			if in.Interest, err = formDecimal(r, "interest_component", true); err == nil {
				in.Penalty, err = formDecimal(r, "penalty_component", false)
			}
		}
		if err == nil {
			rep, err = svc.Record(ctx, in)
		}
		if err != nil {
			logger.Warn("record repayment failed", zap.String("loan_id", in.LoanID), zap.Error(err))
			renderRepayment(w, r, activeQuery(r, wb, service.ViewRepayment), svc, wb, logger, statusFor(err), func(p *repaymentPage) {
				p.NewForm = true
				p.Form = form
				p.FormError = userMessage(err)
			})
			return
		}

		wb.flash(r, domain.FlashSuccess,
			"Payment recorded successfully! Outstanding: "+lending.FormatINRFloat(rep.PrincipalOutstanding(), 2))
		wb.redirectActive(w, r, service.ViewRepayment, "/repayment", nil)
	}
}
