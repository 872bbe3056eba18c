package handler

import (
	"net/http"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/lending"
	"github.com/boddenberg/lamf-portal-go/internal/service"
)

type dashboardPage struct {
	basePage
	Summary           *domain.DashboardSummary
	ActiveShare       int64
	RepaymentCoverage int64
	Error             string
}

// ============================================================
// GET /dashboard
// ============================================================

func dashboardHandler(svc *service.DashboardService, wb *web) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /dashboard")
		defer span.End()

		page := dashboardPage{basePage: wb.base(r, "Dashboard", "dashboard")}

		summary, err := svc.Summary(ctx)
		if err != nil {
			page.Error = userMessage(err)
			page.Summary = &domain.DashboardSummary{}
		} else {
			page.Summary = summary
			page.ActiveShare = lending.ActiveLoanShare(summary)
			page.RepaymentCoverage = lending.RepaymentCoverage(summary)
		}

		wb.render.Render(w, http.StatusOK, "dashboard", page)
	}
}
