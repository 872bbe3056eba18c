package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/lending"
	"github.com/boddenberg/lamf-portal-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// collateralRow is one table row with the table-policy classification.
type collateralRow struct {
	domain.Collateral
	Risk  lending.LTVRisk
	Drift decimal.Decimal
}

// collateralDetail is the detail or update panel, classified with the
// fixed 50/60 policy.
type collateralDetail struct {
	domain.Collateral
	Risk      lending.LTVRisk
	Drift     decimal.Decimal
	Shortfall bool
}

type collateralPage struct {
	basePage
	Status   domain.CollateralStatus
	Statuses []domain.CollateralStatus
	Rows     []collateralRow
	Stats    lending.CollateralStats
	Error    string

	Selected *collateralDetail
	Update   *collateralDetail
	// Preview is the recomputed LTV for a value typed into the update panel.
	Preview      *service.LTVPreview
	PreviewValue string
	PreviewError string

	NewForm   bool
	Pledge    domain.PledgeCollateralRequest
	FormError string

	filter url.Values
}

// URL links to this page keeping the status filter.
func (p collateralPage) URL(pairs ...string) string {
	return pageURL("/collateral", p.filter, pairs...)
}

// StatusURL links to a status filter ("" for all).
func (p collateralPage) StatusURL(s domain.CollateralStatus) string {
	return pageURL("/collateral", nil, "status", string(s))
}

func newCollateralDetail(c domain.Collateral) *collateralDetail {
	ltv := decimal.NewFromFloat(c.CurrentLTV)
	return &collateralDetail{
		Collateral: c,
		Risk:       lending.ClassifyDetailLTV(ltv),
		Drift:      lending.PledgeDrift(c.CurrentValue, c.AmountAtPledge),
		Shortfall:  lending.ShortfallEligible(ltv),
	}
}

// ============================================================
// GET /collateral
// ============================================================

func collateralPageHandler(svc *service.CollateralService, wb *web, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderCollateral(w, r, r.URL.Query(), svc, wb, logger, http.StatusOK, func(*collateralPage) {})
	}
}

func renderCollateral(w http.ResponseWriter, r *http.Request, query url.Values, svc *service.CollateralService, wb *web, logger *zap.Logger, status int, edit func(*collateralPage)) {
	ctx, span := tracer.Start(r.Context(), "render collateral")
	defer span.End()

	filter := domain.CollateralStatus(strings.ToUpper(query.Get("status")))
	if !filter.Valid() {
		filter = ""
	}
	span.SetAttributes(attribute.String("filter.status", string(filter)))

	data, err := svc.LoadPage(ctx, SessionFromContext(ctx), filter)
	var stale *domain.ErrStaleView
	if errors.As(err, &stale) {
		logger.Debug("discarding superseded collateral fetch", zap.String("latest", stale.Filter))
		redirectStale(w, r, "/collateral", stale)
		return
	}
	if err != nil {
		logger.Error("collateral page failed", zap.Error(err))
		data = &service.CollateralPage{Status: filter}
	}

	page := &collateralPage{
		basePage: wb.base(r, "Collateral Management", "collateral"),
		Status:   filter,
		Statuses: domain.CollateralStatuses,
		Stats:    data.Stats,
		NewForm:  query.Get("new") != "",
		filter:   url.Values{},
	}
	if filter != "" {
		page.filter.Set("status", string(filter))
	}
	if data.Err != nil {
		page.Error = userMessage(data.Err)
	}

	for _, c := range data.Collaterals {
		page.Rows = append(page.Rows, collateralRow{
			Collateral: c,
			Risk:       lending.ClassifyTableLTV(decimal.NewFromFloat(c.CurrentLTV), decimal.NewFromFloat(c.MaxLTVRatio())),
			Drift:      lending.PledgeDrift(c.CurrentValue, c.AmountAtPledge),
		})
	}

	if id := query.Get("selected"); id != "" {
		if c, ok := findCollateral(data.Collaterals, id); ok {
			page.Selected = newCollateralDetail(c)
		}
	}
	if id := query.Get("update"); id != "" {
		if c, ok := findCollateral(data.Collaterals, id); ok {
			page.Update = newCollateralDetail(c)
			if v := query.Get("current_value"); v != "" {
				page.PreviewValue = v
				value, perr := parseAmount(v)
				if perr == nil {
					page.Preview, perr = svc.PreviewLTV(c.PrincipalSanctioned(), value)
				}
				if perr != nil {
					page.PreviewError = "New market value must be a non-negative number."
				}
			}
		}
	}

	edit(page)
	wb.render.Render(w, status, "collateral", page)
}

func findCollateral(rows []domain.Collateral, id string) (domain.Collateral, bool) {
	for _, c := range rows {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Collateral{}, false
}

// ============================================================
// POST /collateral: pledge new collateral
// ============================================================

func pledgeCollateralHandler(svc *service.CollateralService, wb *web, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /collateral")
		defer span.End()

		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		req := domain.PledgeCollateralRequest{
			LoanID:             r.PostFormValue("loan_id"),
			SecurityTypeID:     r.PostFormValue("loan_security_type_id"),
			SecurityIdentifier: r.PostFormValue("security_identifier"),
		}
		amount, err := formFloat(r, "amount_at_pledge")
		if err == nil {
			req.AmountAtPledge = amount
			req.LTVAtPledge, err = formFloat(r, "ltv_at_pledge")
		}
		if err == nil {
			_, err = svc.Pledge(ctx, &req)
		}
		if err != nil {
			logger.Warn("pledge collateral failed", zap.Error(err))
			renderCollateral(w, r, activeQuery(r, wb, service.ViewCollateral), svc, wb, logger, statusFor(err), func(p *collateralPage) {
				p.NewForm = true
				p.Pledge = req
				p.FormError = userMessage(err)
			})
			return
		}

		wb.flash(r, domain.FlashSuccess, "Collateral pledged successfully!")
		wb.redirectActive(w, r, service.ViewCollateral, "/collateral", nil)
	}
}

// ============================================================
// POST /collateral/{id}/release
// ============================================================

func releaseCollateralHandler(svc *service.CollateralService, wb *web, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /collateral/{id}/release")
		defer span.End()

		id := chi.URLParam(r, "id")
		if err := svc.Release(ctx, id); err != nil {
			logger.Warn("release collateral failed", zap.String("collateral_id", id), zap.Error(err))
			wb.flash(r, domain.FlashError, userMessage(err))
		}
		wb.redirectActive(w, r, service.ViewCollateral, "/collateral", nil)
	}
}

// ============================================================
// POST /collateral/{id}/value: store a new valuation and LTV
// ============================================================

func updateCollateralValueHandler(svc *service.CollateralService, wb *web, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /collateral/{id}/value")
		defer span.End()

		id := chi.URLParam(r, "id")
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		value, err := formFloat(r, "current_value")
		if err == nil {
			_, err = svc.UpdateValue(ctx, id, value)
		}
		if err != nil {
			logger.Warn("collateral revaluation failed", zap.String("collateral_id", id), zap.Error(err))
			wb.flash(r, domain.FlashError, userMessage(err))
			wb.redirectActive(w, r, service.ViewCollateral, "/collateral", url.Values{"update": {id}})
			return
		}
		wb.redirectActive(w, r, service.ViewCollateral, "/collateral", nil)
	}
}

// ============================================================
// POST /collateral/{id}/shortfall: placeholder action
// ============================================================

func collateralShortfallHandler(svc *service.CollateralService, wb *web, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /collateral/{id}/shortfall")
		defer span.End()

		id := chi.URLParam(r, "id")
		err := svc.CreateShortfall(ctx, id)
		wb.flash(r, domain.FlashInfo, userMessage(err))
		wb.redirectActive(w, r, service.ViewCollateral, "/collateral", url.Values{"selected": {id}})
	}
}

// ============================================================
// JSON: GET /api/v1/collaterals/ltv, POST /api/v1/collaterals/{id}/shortfall
// ============================================================

func ltvPreviewHandler(svc *service.CollateralService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /api/v1/collaterals/ltv")
		defer span.End()

		q := r.URL.Query()
		principal, err := parseAmount(q.Get("principal"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "principal must be a number")
			return
		}
		value, err := parseAmount(q.Get("current_value"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "current_value must be a number")
			return
		}

		preview, err := svc.PreviewLTV(principal, value)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, preview)
	}
}

func shortfallAPIHandler(svc *service.CollateralService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/v1/collaterals/{id}/shortfall")
		defer span.End()

		if err := svc.CreateShortfall(ctx, chi.URLParam(r, "id")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
